package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dtroode/classroom-auth/internal/logger"
	"github.com/dtroode/classroom-auth/internal/model"
)

// TokenParser resolves claims from bearer tokens.
type TokenParser interface {
	ParseAccessToken(token string) (model.TokenClaims, error)
}

// Authenticate validates bearer tokens and injects claims into the request context.
type Authenticate struct {
	tokens         TokenParser
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokens TokenParser, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokens: tokens, contextManager: contextManager, logger: logger}
}

// Handle rejects requests without a valid bearer token with 401.
func (m *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || tokenString == "" {
			m.unauthorized(w, "missing authorization token")
			return
		}

		claims, err := m.tokens.ParseAccessToken(tokenString)
		if err != nil {
			m.logger.Debug("Authenticate: token rejected",
				"path", r.URL.Path,
				"error", err.Error())
			m.unauthorized(w, "invalid authorization token")
			return
		}

		next.ServeHTTP(w, r.WithContext(m.contextManager.SetClaimsToContext(r.Context(), claims)))
	})
}

func (m *Authenticate) unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{"valid": false, "message": message})
}
