package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/classroom-auth/internal/model"
)

func TestJWT_AccessToken_Roundtrip(t *testing.T) {
	j := NewJWT("secret", time.Hour)
	claims := model.TokenClaims{
		UserID:   uuid.New(),
		Email:    "teacher@school.edu",
		UserType: model.UserTypeTeacher,
	}

	access, err := j.GenerateAccessToken(claims)
	require.NoError(t, err)
	got, err := j.ParseAccessToken(access)
	require.NoError(t, err)
	require.Equal(t, claims, got)
}

func TestJWT_WrongSecret(t *testing.T) {
	issuer := NewJWT("secret", time.Hour)
	verifier := NewJWT("other", time.Hour)

	access, err := issuer.GenerateAccessToken(model.TokenClaims{UserID: uuid.New(), UserType: model.UserTypeStudent})
	require.NoError(t, err)

	_, err = verifier.ParseAccessToken(access)
	require.Error(t, err)
}

func TestJWT_ExpiryValidation(t *testing.T) {
	j := NewJWT("secret", time.Minute)
	issued := time.Now().Add(-time.Hour)
	j.now = func() time.Time { return issued }

	access, err := j.GenerateAccessToken(model.TokenClaims{UserID: uuid.New(), UserType: model.UserTypeStudent})
	require.NoError(t, err)

	j.now = time.Now
	_, err = j.ParseAccessToken(access)
	require.Error(t, err)
}

func TestJWT_TokenType_Mismatch(t *testing.T) {
	j := NewJWT("secret", time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID:    uuid.New(),
		TokenType: "refresh",
	})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = j.ParseAccessToken(signed)
	require.Error(t, err)
}

func TestNewJWT_DefaultTTL(t *testing.T) {
	j := NewJWT("secret", 0)
	require.Equal(t, defaultTTL, j.ttl)
}
