package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	apicontext "github.com/dtroode/classroom-auth/internal/api/http/context"
	"github.com/dtroode/classroom-auth/internal/mocks"
	"github.com/dtroode/classroom-auth/internal/model"
	"github.com/dtroode/classroom-auth/internal/testutil"
)

func TestAuthenticate_Handle(t *testing.T) {
	t.Parallel()

	claims := model.TokenClaims{UserID: uuid.New(), Email: "s@school.edu", UserType: model.UserTypeStudent}

	tests := []struct {
		name       string
		header     string
		parseErr   error
		expectCall bool
		wantStatus int
	}{
		{
			name:       "missing authorization header",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "not a bearer token",
			header:     "Basic dXNlcjpwYXNz",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid token",
			header:     "Bearer invalid",
			parseErr:   errors.New("token is expired"),
			expectCall: true,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "valid token",
			header:     "Bearer token",
			expectCall: true,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tokens := mocks.NewTokenManager(t)
			if tt.expectCall {
				tokens.On("ParseAccessToken", tt.header[len("Bearer "):]).Return(claims, tt.parseErr)
			}

			cm := apicontext.NewManager()
			mw := NewAuthenticate(tokens, cm, testutil.MakeNoopLogger())

			var reached bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
				got, ok := cm.GetClaimsFromContext(r.Context())
				assert.True(t, ok)
				assert.Equal(t, claims, got)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			mw.Handle(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, reached)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Contains(t, rec.Body.String(), `"valid":false`)
				assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
			}
		})
	}
}
