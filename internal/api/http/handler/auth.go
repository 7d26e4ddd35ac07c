package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dtroode/classroom-auth/internal/logger"
	"github.com/dtroode/classroom-auth/internal/model"
)

// AuthService answers the authentication API.
type AuthService interface {
	Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error)
	ForgotPassword(ctx context.Context, req model.ForgotPasswordRequest) (model.ForgotPasswordResponse, error)
	OAuthURL(ctx context.Context, req model.OAuthURLRequest) (model.OAuthURLResponse, error)
	OAuthCallback(ctx context.Context, req model.OAuthCallbackRequest) (model.OAuthCallbackResponse, error)
	Signup(ctx context.Context, req model.SignupRequest) (model.SignupResponse, error)
}

// Auth handles the /api/auth endpoints.
type Auth struct {
	authService    AuthService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{
		authService:    authService,
		contextManager: contextManager,
		logger:         logger,
	}
}

func (h *Auth) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.logger.Debug("Auth handler: malformed request body",
			"path", r.URL.Path,
			"error", err.Error())
		writeError(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}

// Login answers 200 with a token or 401 with the rejection message.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.authService.Login(r.Context(), req)
	if err != nil {
		h.logger.Error("Auth handler: login failed",
			"email", req.Email,
			"error", err.Error())
		handleError(w, err)
		return
	}

	status := http.StatusOK
	if !resp.Success {
		status = http.StatusUnauthorized
	}
	writeJSON(w, status, resp)
}

func (h *Auth) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req model.ForgotPasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.authService.ForgotPassword(r.Context(), req)
	if err != nil {
		h.logger.Error("Auth handler: password reset failed",
			"email", req.Email,
			"error", err.Error())
		handleError(w, err)
		return
	}

	status := http.StatusOK
	if !resp.Success {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, resp)
}

// Signup answers 201 on success and 409 for a taken email.
func (h *Auth) Signup(w http.ResponseWriter, r *http.Request) {
	var req model.SignupRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.authService.Signup(r.Context(), req)
	if err != nil {
		h.logger.Error("Auth handler: signup failed",
			"email", req.Email,
			"error", err.Error())
		handleError(w, err)
		return
	}

	status := http.StatusCreated
	switch {
	case resp.Success:
	case resp.Message == model.ErrEmailTaken.Error():
		status = http.StatusConflict
	default:
		status = http.StatusBadRequest
	}
	writeJSON(w, status, resp)
}

func (h *Auth) OAuthURL(w http.ResponseWriter, r *http.Request) {
	var req model.OAuthURLRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.authService.OAuthURL(r.Context(), req)
	if err != nil {
		h.logger.Error("Auth handler: oauth url failed",
			"provider", req.Provider,
			"error", err.Error())
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Auth) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	var req model.OAuthCallbackRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.authService.OAuthCallback(r.Context(), req)
	if err != nil {
		h.logger.Error("Auth handler: oauth callback failed",
			"error", err.Error())
		handleError(w, err)
		return
	}

	status := http.StatusOK
	if !resp.Success {
		status = http.StatusUnauthorized
	}
	writeJSON(w, status, resp)
}

// Verify runs behind the authenticate middleware, so reaching it means the
// bearer token was accepted.
func (h *Auth) Verify(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.contextManager.GetClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, model.VerifyResponse{Valid: false})
		return
	}

	h.logger.Debug("Auth handler: token verified",
		"user_id", claims.UserID,
		"user_type", claims.UserType)

	writeJSON(w, http.StatusOK, model.VerifyResponse{Valid: true})
}
