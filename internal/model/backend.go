package model

import "context"

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email      string   `json:"email"`
	Password   string   `json:"password"`
	UserType   UserType `json:"userType"`
	RememberMe bool     `json:"rememberMe"`
}

// LoginResponse is the answer of the login endpoint.
type LoginResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token,omitempty"`
	User    *UserProfile `json:"user,omitempty"`
	Message string       `json:"message,omitempty"`
}

// ForgotPasswordRequest is the body of POST /api/auth/forgot-password.
type ForgotPasswordRequest struct {
	Email    string   `json:"email"`
	UserType UserType `json:"userType"`
}

// ForgotPasswordResponse is the answer of the forgot-password endpoint.
type ForgotPasswordResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// OAuthURLRequest is the body of POST /api/auth/oauth/url.
type OAuthURLRequest struct {
	Provider    string   `json:"provider"`
	RedirectURL string   `json:"redirectUrl"`
	UserType    UserType `json:"userType"`
}

// OAuthURLResponse carries the provider authorization URL.
type OAuthURLResponse struct {
	AuthURL string `json:"authUrl"`
}

// OAuthCallbackRequest is the body of POST /api/auth/oauth/callback.
type OAuthCallbackRequest struct {
	Code     string   `json:"code"`
	State    string   `json:"state"`
	UserType UserType `json:"userType"`
}

// OAuthCallbackResponse is the answer of the OAuth callback endpoint.
type OAuthCallbackResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token,omitempty"`
	User    *UserProfile `json:"user,omitempty"`
	Message string       `json:"message,omitempty"`
}

// VerifyResponse is the answer of GET /api/auth/verify.
type VerifyResponse struct {
	Valid bool `json:"valid"`
}

// SignupRequest is the body of POST /api/auth/signup.
type SignupRequest struct {
	UserType  UserType `json:"userType"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	School    string   `json:"school,omitempty"`
	Subject   string   `json:"subject,omitempty"`
	ClassCode string   `json:"classCode,omitempty"`
	Grade     string   `json:"grade,omitempty"`
}

// SignupResponse is the answer of the signup endpoint.
type SignupResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// AuthBackend is the authentication API the controller talks to.
type AuthBackend interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	ForgotPassword(ctx context.Context, req ForgotPasswordRequest) (ForgotPasswordResponse, error)
	OAuthURL(ctx context.Context, req OAuthURLRequest) (OAuthURLResponse, error)
	OAuthCallback(ctx context.Context, req OAuthCallbackRequest) (OAuthCallbackResponse, error)
	Verify(ctx context.Context, token string) (VerifyResponse, error)
	Signup(ctx context.Context, req SignupRequest) (SignupResponse, error)
}
