package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/dtroode/classroom-auth/internal/logger"
	"github.com/dtroode/classroom-auth/internal/model"
)

// Endpoint paths of the authentication API.
const (
	PathLogin          = "/api/auth/login"
	PathForgotPassword = "/api/auth/forgot-password"
	PathOAuthURL       = "/api/auth/oauth/url"
	PathOAuthCallback  = "/api/auth/oauth/callback"
	PathVerify         = "/api/auth/verify"
	PathSignup         = "/api/auth/signup"
)

var _ model.AuthBackend = (*Client)(nil)

// TokenSource supplies the stored session token, if there is one.
type TokenSource interface {
	SessionToken(ctx context.Context) (string, bool)
}

// Client talks to the authentication API with JSON over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *logger.Logger
}

// NewClient creates a client for baseURL. Requests are traced through
// otelhttp and bounded by timeout.
func NewClient(baseURL string, timeout time.Duration, logger *logger.Logger) *Client {
	return NewClientWithHTTP(baseURL, &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   timeout,
	}, logger)
}

// NewClientWithHTTP creates a client using the given http.Client.
func NewClientWithHTTP(baseURL string, httpClient *http.Client, logger *logger.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// WithTokenSource makes every request carry the stored session token as a
// bearer header when one is present.
func (c *Client) WithTokenSource(tokens TokenSource) *Client {
	c.tokens = tokens
	return c
}

func (c *Client) Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error) {
	var resp model.LoginResponse
	_, err := c.do(ctx, "login", http.MethodPost, PathLogin, "", req, &resp)
	return resp, err
}

func (c *Client) ForgotPassword(ctx context.Context, req model.ForgotPasswordRequest) (model.ForgotPasswordResponse, error) {
	var resp model.ForgotPasswordResponse
	_, err := c.do(ctx, "forgot-password", http.MethodPost, PathForgotPassword, "", req, &resp)
	return resp, err
}

func (c *Client) Signup(ctx context.Context, req model.SignupRequest) (model.SignupResponse, error) {
	var resp model.SignupResponse
	_, err := c.do(ctx, "signup", http.MethodPost, PathSignup, "", req, &resp)
	return resp, err
}

func (c *Client) OAuthCallback(ctx context.Context, req model.OAuthCallbackRequest) (model.OAuthCallbackResponse, error) {
	var resp model.OAuthCallbackResponse
	_, err := c.do(ctx, "oauth-callback", http.MethodPost, PathOAuthCallback, "", req, &resp)
	return resp, err
}

// OAuthURL asks for a provider authorization URL. A non-2xx answer is a
// rejection carrying the server message when there is one.
func (c *Client) OAuthURL(ctx context.Context, req model.OAuthURLRequest) (model.OAuthURLResponse, error) {
	var resp struct {
		model.OAuthURLResponse
		Message string `json:"message,omitempty"`
	}
	status, err := c.do(ctx, "oauth-url", http.MethodPost, PathOAuthURL, "", req, &resp)
	if err != nil {
		return model.OAuthURLResponse{}, err
	}
	if status >= http.StatusBadRequest {
		return model.OAuthURLResponse{}, &model.BackendRejection{Message: resp.Message}
	}
	return resp.OAuthURLResponse, nil
}

// Verify checks token, sent as the bearer header in place of the stored one.
// Any non-2xx answer means the token is not valid.
func (c *Client) Verify(ctx context.Context, token string) (model.VerifyResponse, error) {
	var resp model.VerifyResponse
	status, err := c.do(ctx, "verify", http.MethodGet, PathVerify, token, nil, &resp)
	if err != nil {
		return model.VerifyResponse{}, err
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return model.VerifyResponse{Valid: false}, nil
	}
	return resp, nil
}

// do sends one request and decodes the JSON answer into out whatever the
// status. Bodies that cannot be decoded are transport failures.
func (c *Client) do(ctx context.Context, op, method, path, bearer string, in, out any) (int, error) {
	var body bytes.Buffer
	if in != nil {
		if err := json.NewEncoder(&body).Encode(in); err != nil {
			return 0, fmt.Errorf("failed to encode %s request: %w", op, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &body)
	if err != nil {
		return 0, &model.TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer == "" && c.tokens != nil {
		bearer, _ = c.tokens.SessionToken(ctx)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("API client: request failed",
			"op", op,
			"error", err.Error())
		return 0, &model.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("API client: response received",
		"op", op,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if method == http.MethodGet && resp.StatusCode >= http.StatusBadRequest {
			// verify answers 401 with an empty body
			return resp.StatusCode, nil
		}
		return resp.StatusCode, &model.TransportError{
			Op:  op,
			Err: fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err),
		}
	}

	return resp.StatusCode, nil
}
