package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/classroom-auth/internal/model"
)

// Claims represents JWT claims of a classroom session token.
type Claims struct {
	jwt.RegisteredClaims
	UserID    uuid.UUID      `json:"user_id"`
	Email     string         `json:"email"`
	UserType  model.UserType `json:"user_type"`
	TokenType string         `json:"typ"`
}

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey string
	ttl       time.Duration
	now       func() time.Time
}

var _ model.TokenManager = (*JWT)(nil)

const (
	defaultTTL = 24 * time.Hour
	typeAccess = "access"
)

// NewJWT creates a new JWT token manager with the provided secret key.
// A non-positive ttl falls back to one day.
func NewJWT(secretKey string, ttl time.Duration) *JWT {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &JWT{secretKey: secretKey, ttl: ttl, now: time.Now}
}

// GenerateAccessToken creates a session token for the given identity.
func (j *JWT) GenerateAccessToken(claims model.TokenClaims) (string, error) {
	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   claims.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
		UserID:    claims.UserID,
		Email:     claims.Email,
		UserType:  claims.UserType,
		TokenType: typeAccess,
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// ParseAccessToken validates a session token and returns its identity.
func (j *JWT) ParseAccessToken(tokenString string) (model.TokenClaims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	}, jwt.WithTimeFunc(j.now))
	if err != nil {
		return model.TokenClaims{}, fmt.Errorf("failed to parse access token: %w", err)
	}
	if !token.Valid {
		return model.TokenClaims{}, fmt.Errorf("access token is invalid")
	}
	if claims.TokenType != typeAccess {
		return model.TokenClaims{}, fmt.Errorf("token type mismatch: %s", claims.TokenType)
	}
	return model.TokenClaims{
		UserID:   claims.UserID,
		Email:    claims.Email,
		UserType: claims.UserType,
	}, nil
}
