package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/classroom-auth/internal/logger"
	"github.com/dtroode/classroom-auth/internal/model"
)

var _ model.AuthBackend = (*DemoAuth)(nil)

// userNamespace makes demo user IDs stable per email.
var userNamespace = uuid.MustParse("6f1c9a52-3c1e-4a55-9f0e-3a4c2b7d8e10")

type demoUser struct {
	profile      model.UserProfile
	passwordHash []byte
}

type pendingOAuth struct {
	code      string
	provider  string
	userType  model.UserType
	expiresAt time.Time
}

// DemoAuth is an in-process authentication backend. Unknown emails may log
// in with any valid password; accounts created through Signup are checked
// against their bcrypt hash. OAuth providers approve immediately.
type DemoAuth struct {
	tokens  model.TokenManager
	logger  *logger.Logger
	latency time.Duration
	now     func() time.Time
	sleep   func(ctx context.Context, d time.Duration) error

	mu     sync.Mutex
	users  map[string]demoUser
	states map[string]pendingOAuth
}

// NewDemoAuth creates a demo backend that answers after latency.
func NewDemoAuth(tokens model.TokenManager, latency time.Duration, logger *logger.Logger) *DemoAuth {
	return &DemoAuth{
		tokens:  tokens,
		logger:  logger,
		latency: latency,
		now:     time.Now,
		sleep:   sleepContext,
		users:   make(map[string]demoUser),
		states:  make(map[string]pendingOAuth),
	}
}

func (a *DemoAuth) wait(ctx context.Context, op string) error {
	if err := a.sleep(ctx, a.latency); err != nil {
		return &model.TransportError{Op: op, Err: err}
	}
	return nil
}

func displayNameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	parts := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})
	for i, p := range parts {
		parts[i] = capitalize(p)
	}
	return strings.Join(parts, " ")
}

func (a *DemoAuth) profileFor(email string, userType model.UserType) model.UserProfile {
	return model.UserProfile{
		ID:          uuid.NewSHA1(userNamespace, []byte(email)).String(),
		Email:       email,
		DisplayName: displayNameFromEmail(email),
		UserType:    userType,
	}
}

func (a *DemoAuth) issue(profile model.UserProfile) (string, error) {
	userID, err := uuid.Parse(profile.ID)
	if err != nil {
		return "", fmt.Errorf("failed to parse user id: %w", err)
	}
	return a.tokens.GenerateAccessToken(model.TokenClaims{
		UserID:   userID,
		Email:    profile.Email,
		UserType: profile.UserType,
	})
}

// Login accepts any syntactically valid credentials for unknown emails.
func (a *DemoAuth) Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error) {
	a.logger.Debug("Demo auth: processing login",
		"email", req.Email,
		"user_type", req.UserType)

	if err := a.wait(ctx, "login"); err != nil {
		return model.LoginResponse{}, err
	}

	email := normalizeEmail(req.Email)
	if validateCredentials(email, req.Password) != nil {
		return model.LoginResponse{Success: false, Message: "Invalid email or password"}, nil
	}

	a.mu.Lock()
	user, registered := a.users[email]
	a.mu.Unlock()

	profile := a.profileFor(email, req.UserType)
	if registered {
		if err := bcrypt.CompareHashAndPassword(user.passwordHash, []byte(req.Password)); err != nil {
			a.logger.Info("Demo auth: wrong password", "email", email)
			return model.LoginResponse{Success: false, Message: "Invalid email or password"}, nil
		}
		profile = user.profile
	}

	token, err := a.issue(profile)
	if err != nil {
		a.logger.Error("Demo auth: failed to issue token",
			"email", email,
			"error", err.Error())
		return model.LoginResponse{}, fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.Info("Demo auth: login completed",
		"email", email,
		"user_type", profile.UserType)

	return model.LoginResponse{Success: true, Token: token, User: &profile}, nil
}

// Signup registers an account with a bcrypt password hash.
func (a *DemoAuth) Signup(ctx context.Context, req model.SignupRequest) (model.SignupResponse, error) {
	if err := a.wait(ctx, "signup"); err != nil {
		return model.SignupResponse{}, err
	}

	email := normalizeEmail(req.Email)
	if validateCredentials(email, req.Password) != nil {
		return model.SignupResponse{Success: false, Message: "Invalid email or password"}, nil
	}
	if _, err := model.ParseUserType(string(req.UserType)); err != nil {
		return model.SignupResponse{Success: false, Message: "Please choose teacher or student"}, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.SignupResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	profile := a.profileFor(email, req.UserType)
	if name := strings.TrimSpace(req.FirstName + " " + req.LastName); name != "" {
		profile.DisplayName = name
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.users[email]; exists {
		a.logger.Info("Demo auth: user already exists", "email", email)
		return model.SignupResponse{Success: false, Message: model.ErrEmailTaken.Error()}, nil
	}
	a.users[email] = demoUser{profile: profile, passwordHash: hash}

	a.logger.Info("Demo auth: signup completed",
		"email", email,
		"user_type", req.UserType)

	return model.SignupResponse{Success: true}, nil
}

// ForgotPassword always reports success so account existence is not leaked.
func (a *DemoAuth) ForgotPassword(ctx context.Context, req model.ForgotPasswordRequest) (model.ForgotPasswordResponse, error) {
	if err := a.wait(ctx, "forgot-password"); err != nil {
		return model.ForgotPasswordResponse{}, err
	}

	if validateEmail(normalizeEmail(req.Email)) != nil {
		return model.ForgotPasswordResponse{Success: false, Message: msgInvalidEmail}, nil
	}

	a.logger.Info("Demo auth: password reset requested", "email", req.Email)

	return model.ForgotPasswordResponse{
		Success: true,
		Message: "If an account exists for that email, reset instructions have been sent.",
	}, nil
}

// OAuthURL returns the redirect target itself with a fresh code and state,
// as if the provider approved at once.
func (a *DemoAuth) OAuthURL(ctx context.Context, req model.OAuthURLRequest) (model.OAuthURLResponse, error) {
	if err := a.wait(ctx, "oauth-url"); err != nil {
		return model.OAuthURLResponse{}, err
	}

	if strings.TrimSpace(req.Provider) == "" {
		return model.OAuthURLResponse{}, &model.BackendRejection{Message: "provider is required"}
	}

	redirect, err := url.Parse(req.RedirectURL)
	if err != nil || !redirect.IsAbs() {
		return model.OAuthURLResponse{}, &model.BackendRejection{Message: "redirect url must be absolute"}
	}

	state := uuid.NewString()
	code := uuid.NewString()

	a.mu.Lock()
	a.states[state] = pendingOAuth{
		code:      code,
		provider:  req.Provider,
		userType:  req.UserType,
		expiresAt: a.now().Add(model.PendingSessionDuration),
	}
	a.mu.Unlock()

	q := redirect.Query()
	q.Set("code", code)
	q.Set("state", state)
	redirect.RawQuery = q.Encode()

	a.logger.Info("Demo auth: oauth flow started",
		"provider", req.Provider,
		"state", state)

	return model.OAuthURLResponse{AuthURL: redirect.String()}, nil
}

// OAuthCallback exchanges a code for a session token. Each state is usable
// once.
func (a *DemoAuth) OAuthCallback(ctx context.Context, req model.OAuthCallbackRequest) (model.OAuthCallbackResponse, error) {
	if err := a.wait(ctx, "oauth-callback"); err != nil {
		return model.OAuthCallbackResponse{}, err
	}

	a.mu.Lock()
	pending, ok := a.states[req.State]
	delete(a.states, req.State)
	a.mu.Unlock()

	switch {
	case !ok:
		return model.OAuthCallbackResponse{Success: false, Message: "Unknown or used state"}, nil
	case a.now().After(pending.expiresAt):
		return model.OAuthCallbackResponse{Success: false, Message: "Authorization expired"}, nil
	case pending.code != req.Code:
		return model.OAuthCallbackResponse{Success: false, Message: "Authorization code mismatch"}, nil
	}

	userType := req.UserType
	if userType == "" {
		userType = pending.userType
	}

	email := fmt.Sprintf("%s.user@%s.example", userType, pending.provider)
	profile := a.profileFor(email, userType)

	token, err := a.issue(profile)
	if err != nil {
		return model.OAuthCallbackResponse{}, fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.Info("Demo auth: oauth flow completed",
		"provider", pending.provider,
		"user_type", userType)

	return model.OAuthCallbackResponse{Success: true, Token: token, User: &profile}, nil
}

// Verify reports whether token is a live token issued by this backend.
func (a *DemoAuth) Verify(ctx context.Context, token string) (model.VerifyResponse, error) {
	if err := ctx.Err(); err != nil {
		return model.VerifyResponse{}, &model.TransportError{Op: "verify", Err: err}
	}

	if _, err := a.tokens.ParseAccessToken(token); err != nil {
		a.logger.Debug("Demo auth: token rejected", "error", err.Error())
		return model.VerifyResponse{Valid: false}, nil
	}
	return model.VerifyResponse{Valid: true}, nil
}

// ParseAccessToken returns the identity behind token. The dev server uses it
// to authenticate bearer requests.
func (a *DemoAuth) ParseAccessToken(token string) (model.TokenClaims, error) {
	claims, err := a.tokens.ParseAccessToken(token)
	if err != nil {
		return model.TokenClaims{}, model.ErrTokenInvalid
	}
	return claims, nil
}
