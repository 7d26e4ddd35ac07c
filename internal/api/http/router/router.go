package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/dtroode/classroom-auth/internal/api/http/handler"
	"github.com/dtroode/classroom-auth/internal/api/http/middleware"
	"github.com/dtroode/classroom-auth/internal/logger"
	"github.com/dtroode/classroom-auth/internal/model"
)

// Router wires the authentication API routes and middleware.
type Router struct {
	authService    handler.AuthService
	tokens         middleware.TokenParser
	contextManager model.ContextManager
	logger         *logger.Logger
}

// New creates new Router instance.
func New(
	authService handler.AuthService,
	tokens middleware.TokenParser,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		tokens:         tokens,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Register builds the HTTP handler. Only /api/auth/verify requires a bearer
// token.
func (r *Router) Register() http.Handler {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokens, r.contextManager, r.logger)
	auth := handler.NewAuth(r.authService, r.contextManager, r.logger)

	mux := chi.NewRouter()
	mux.Use(chimiddleware.RequestID)
	mux.Use(logging.Handle)
	mux.Use(chimiddleware.Recoverer)

	mux.Route("/api/auth", func(api chi.Router) {
		api.Post("/login", auth.Login)
		api.Post("/signup", auth.Signup)
		api.Post("/forgot-password", auth.ForgotPassword)
		api.Post("/oauth/url", auth.OAuthURL)
		api.Post("/oauth/callback", auth.OAuthCallback)
		api.With(authenticate.Handle).Get("/verify", auth.Verify)
	})

	mux.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return mux
}
