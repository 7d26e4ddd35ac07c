package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dtroode/classroom-auth/internal/config"
	"github.com/dtroode/classroom-auth/internal/logger"
	"github.com/dtroode/classroom-auth/internal/model"
	"github.com/dtroode/classroom-auth/internal/session"
)

const (
	labelLogin          = "Login"
	labelLoggingIn      = "Logging in..."
	labelCreateAccount  = "Create Account"
	labelCreatingAcct   = "Creating Account..."
	labelSendingReset   = "Sending..."
	labelRedirectingFmt = "Connecting to %s..."

	msgLoginSuccess  = "Login successful! Redirecting..."
	msgLoginFailed   = "Login failed. Please try again."
	msgNetworkError  = "Network error. Please check your connection and try again."
	msgSessionSave   = "Could not save your session. Please try again."
	msgResetSent     = "Password reset instructions have been sent to your email."
	msgResetFailed   = "Failed to send reset email. Please try again."
	msgSignupSuccess = "Account created successfully! You can now log in."
	msgSignupFailed  = "Failed to create account. Please try again."
	msgSocialFailed  = "%s login failed. Please try again."
	msgNoProvider    = "Unknown login provider."

	oauthErrorCode = "oauth_failed"
)

// ControllerOptions holds the navigation targets and timings of the controller.
type ControllerOptions struct {
	Navigation       config.Navigation
	OAuthRedirectURL string
}

// SignupForm is the content of the signup form. Which optional fields are
// sent depends on the selected user type.
type SignupForm struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
	School          string
	Subject         string
	ClassCode       string
	Grade           string
}

// Controller owns the login page lifecycle and the client-side session.
// All handlers surface their outcome through the view before returning; the
// returned error is for the caller to inspect, never to display again.
type Controller struct {
	backend   model.AuthBackend
	store     *session.Store
	view      model.View
	navigator model.Navigator
	logger    *logger.Logger
	opts      ControllerOptions
	sleep     func(ctx context.Context, d time.Duration) error

	mu       sync.Mutex
	selected model.UserType
	tab      model.Tab
	state    model.State
	inFlight bool
}

// NewController creates a Controller in the Idle state with the default user
// type selected.
func NewController(
	backend model.AuthBackend,
	store *session.Store,
	view model.View,
	navigator model.Navigator,
	logger *logger.Logger,
	opts ControllerOptions,
) *Controller {
	return &Controller{
		backend:   backend,
		store:     store,
		view:      view,
		navigator: navigator,
		logger:    logger,
		opts:      opts,
		sleep:     sleepContext,
		selected:  model.DefaultUserType,
		tab:       model.TabLogin,
		state:     model.StateIdle,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() model.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SelectedUserType returns the current user type selection.
func (c *Controller) SelectedUserType() model.UserType {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// SelectUserType moves the selection to userType.
func (c *Controller) SelectUserType(userType model.UserType) {
	c.mu.Lock()
	c.selected = userType
	tab := c.tab
	c.mu.Unlock()

	c.view.MarkSelected(userType)
	if tab == model.TabSignup {
		c.view.ShowTab(tab, userType)
	}
}

// SwitchTab activates the login or signup form section.
func (c *Controller) SwitchTab(tab model.Tab) {
	c.mu.Lock()
	c.tab = tab
	selected := c.selected
	c.mu.Unlock()

	c.view.ShowTab(tab, selected)
}

func (c *Controller) setState(state model.State) {
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
}

// acquire marks a submit as in flight. It is the disabled submit control.
func (c *Controller) acquire() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight {
		return model.ErrBusy
	}
	c.inFlight = true
	c.state = model.StateValidating
	return nil
}

func (c *Controller) release() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.inFlight = false
	if c.state != model.StateRedirecting && c.state != model.StateSuccess {
		c.state = model.StateIdle
	}
}

// fail shows message and moves to Failed; release returns the form to Idle.
func (c *Controller) fail(message string, err error) error {
	c.setState(model.StateFailed)
	c.view.ShowMessage(model.MessageError, message)
	return err
}

// backendFailure maps a backend call error to the message shown and the
// error returned.
func backendFailure(op string, err error, fallback string) (string, error) {
	var rejection *model.BackendRejection
	if errors.As(err, &rejection) {
		if rejection.Message != "" {
			return rejection.Message, err
		}
		return fallback, err
	}

	var transport *model.TransportError
	if errors.As(err, &transport) {
		return msgNetworkError, err
	}
	return msgNetworkError, &model.TransportError{Op: op, Err: err}
}

func (c *Controller) dashboardFor(userType model.UserType) string {
	if userType == model.UserTypeTeacher {
		return c.opts.Navigation.TeacherDashboard
	}
	return c.opts.Navigation.StudentDashboard
}

func (c *Controller) redirect(target string) error {
	c.setState(model.StateRedirecting)
	c.logger.Info("Controller: redirecting", "target", target)
	if err := c.navigator.Navigate(target); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", target, err)
	}
	return nil
}

// SubmitLogin validates the credentials, calls the login endpoint and stores
// the session in the durable scope when rememberMe is set, otherwise in the
// ephemeral one.
func (c *Controller) SubmitLogin(ctx context.Context, email, password string, rememberMe bool) error {
	if err := c.acquire(); err != nil {
		c.logger.Debug("Controller: login submit ignored, request in flight")
		return err
	}
	defer c.release()

	email = strings.TrimSpace(email)
	if verr := validateCredentials(email, password); verr != nil {
		c.logger.Debug("Controller: login validation failed", "field", verr.Field)
		return c.fail(verr.Message, verr)
	}

	userType := c.SelectedUserType()
	req := model.LoginRequest{
		Email:      normalizeEmail(email),
		Password:   password,
		UserType:   userType,
		RememberMe: rememberMe,
	}

	c.setState(model.StateSubmitting)
	c.view.SetLoading(true, labelLoggingIn)

	c.logger.Debug("Controller: submitting login",
		"email", req.Email,
		"user_type", userType)

	resp, err := c.backend.Login(ctx, req)
	if err == nil && (!resp.Success || resp.Token == "") {
		err = &model.BackendRejection{Message: resp.Message}
	}
	if err != nil {
		c.view.SetLoading(false, labelLogin)
		message, retErr := backendFailure("login", err, msgLoginFailed)
		c.logger.Info("Controller: login failed",
			"email", req.Email,
			"error", retErr.Error())
		return c.fail(message, retErr)
	}

	if resp.User != nil && resp.User.UserType != "" {
		userType = resp.User.UserType
	}

	if err := c.store.SaveSession(ctx, resp.Token, userType, resp.User, rememberMe); err != nil {
		c.view.SetLoading(false, labelLogin)
		c.logger.Error("Controller: failed to store session",
			"persistent", rememberMe,
			"error", err.Error())
		return c.fail(msgSessionSave, fmt.Errorf("failed to save session: %w", err))
	}

	if rememberMe {
		err = c.store.RememberEmail(ctx, req.Email)
	} else {
		err = c.store.ForgetEmail(ctx)
	}
	if err != nil {
		c.logger.Warn("Controller: failed to update remembered email", "error", err.Error())
	}

	c.setState(model.StateSuccess)
	c.view.ShowMessage(model.MessageSuccess, msgLoginSuccess)
	c.logger.Info("Controller: login succeeded",
		"email", req.Email,
		"user_type", userType,
		"persistent", rememberMe)

	if err := c.sleep(ctx, c.opts.Navigation.RedirectDelay); err != nil {
		// the session stays stored; the next load restores it
		c.view.SetLoading(false, labelLogin)
		c.setState(model.StateIdle)
		c.logger.Info("Controller: redirect interrupted", "error", err.Error())
		return fmt.Errorf("redirect interrupted: %w", err)
	}

	return c.redirect(c.dashboardFor(userType))
}

// SubmitSignup validates the signup form and creates an account. No session
// is stored: the user logs in afterwards.
func (c *Controller) SubmitSignup(ctx context.Context, form SignupForm) error {
	if err := c.acquire(); err != nil {
		return err
	}
	defer c.release()

	if form.Password != form.ConfirmPassword {
		verr := model.NewValidationError("confirmPassword", msgPasswordMismatch)
		return c.fail(verr.Message, verr)
	}
	if strings.TrimSpace(form.FirstName) == "" || strings.TrimSpace(form.LastName) == "" {
		verr := model.NewValidationError("name", msgMissingName)
		return c.fail(verr.Message, verr)
	}
	email := strings.TrimSpace(form.Email)
	if verr := validateCredentials(email, form.Password); verr != nil {
		return c.fail(verr.Message, verr)
	}

	userType := c.SelectedUserType()
	req := model.SignupRequest{
		UserType:  userType,
		FirstName: strings.TrimSpace(form.FirstName),
		LastName:  strings.TrimSpace(form.LastName),
		Email:     normalizeEmail(email),
		Password:  form.Password,
		Grade:     strings.TrimSpace(form.Grade),
	}
	if userType == model.UserTypeTeacher {
		req.School = strings.TrimSpace(form.School)
		req.Subject = strings.TrimSpace(form.Subject)
	} else {
		req.ClassCode = strings.TrimSpace(form.ClassCode)
	}

	c.setState(model.StateSubmitting)
	c.view.SetLoading(true, labelCreatingAcct)

	resp, err := c.backend.Signup(ctx, req)
	c.view.SetLoading(false, labelCreateAccount)
	if err == nil && !resp.Success {
		err = &model.BackendRejection{Message: resp.Message}
	}
	if err != nil {
		message, retErr := backendFailure("signup", err, msgSignupFailed)
		c.logger.Info("Controller: signup failed",
			"email", req.Email,
			"error", retErr.Error())
		return c.fail(message, retErr)
	}

	c.logger.Info("Controller: signup succeeded",
		"email", req.Email,
		"user_type", userType)
	c.view.ShowMessage(model.MessageSuccess, msgSignupSuccess)
	c.SwitchTab(model.TabLogin)

	return nil
}

// RequestPasswordReset asks the backend to send reset instructions. An empty
// email makes the view prompt for one.
func (c *Controller) RequestPasswordReset(ctx context.Context, email string) error {
	if err := c.acquire(); err != nil {
		return err
	}
	defer c.release()

	email = strings.TrimSpace(email)
	if email == "" {
		prompted, ok := c.view.PromptEmail()
		if !ok {
			c.logger.Debug("Controller: password reset cancelled")
			return nil
		}
		email = strings.TrimSpace(prompted)
	}

	if verr := validateEmail(email); verr != nil {
		return c.fail(verr.Message, verr)
	}

	req := model.ForgotPasswordRequest{
		Email:    normalizeEmail(email),
		UserType: c.SelectedUserType(),
	}

	c.setState(model.StateSubmitting)
	c.view.SetLoading(true, labelSendingReset)

	resp, err := c.backend.ForgotPassword(ctx, req)
	c.view.SetLoading(false, labelLogin)
	if err == nil && !resp.Success {
		err = &model.BackendRejection{Message: resp.Message}
	}
	if err != nil {
		message, retErr := backendFailure("forgot-password", err, msgResetFailed)
		c.logger.Info("Controller: password reset failed",
			"email", req.Email,
			"error", retErr.Error())
		return c.fail(message, retErr)
	}

	message := resp.Message
	if message == "" {
		message = msgResetSent
	}
	c.view.ShowMessage(model.MessageSuccess, message)
	c.logger.Info("Controller: password reset requested", "email", req.Email)

	return nil
}

// BeginSocialLogin starts the OAuth flow for the provider named by label:
// the selected user type is stashed for the callback and the user is sent
// to the provider's authorization URL.
func (c *Controller) BeginSocialLogin(ctx context.Context, label string) error {
	if err := c.acquire(); err != nil {
		return err
	}
	defer c.release()

	provider, ok := providerFromLabel(label)
	if !ok {
		verr := model.NewValidationError("provider", msgNoProvider)
		return c.fail(verr.Message, verr)
	}
	display := providerDisplayName(provider)
	userType := c.SelectedUserType()

	c.setState(model.StateSubmitting)
	c.view.SetLoading(true, fmt.Sprintf(labelRedirectingFmt, display))

	if err := c.store.StashPendingUserType(ctx, userType); err != nil {
		c.view.SetLoading(false, labelLogin)
		c.logger.Error("Controller: failed to stash pending user type", "error", err.Error())
		return c.fail(fmt.Sprintf(msgSocialFailed, display), err)
	}

	resp, err := c.backend.OAuthURL(ctx, model.OAuthURLRequest{
		Provider:    provider,
		RedirectURL: c.opts.OAuthRedirectURL,
		UserType:    userType,
	})
	if err == nil && resp.AuthURL == "" {
		err = &model.BackendRejection{Message: "empty authorization url"}
	}
	if err != nil {
		c.view.SetLoading(false, labelLogin)
		c.logger.Info("Controller: failed to get oauth url",
			"provider", provider,
			"error", err.Error())
		return c.fail(fmt.Sprintf(msgSocialFailed, display), err)
	}

	c.logger.Info("Controller: starting social login",
		"provider", provider,
		"user_type", userType)

	return c.redirect(resp.AuthURL)
}

// HandleOAuthCallback completes the OAuth flow from the URL the provider
// redirected to. Provider errors abort silently; a failed exchange sends the
// user back to the login page with an error parameter.
func (c *Controller) HandleOAuthCallback(ctx context.Context, callbackURL *url.URL) error {
	query := callbackURL.Query()

	if providerErr := query.Get("error"); providerErr != "" {
		c.logger.Warn("Controller: oauth provider returned an error",
			"error", providerErr,
			"description", query.Get("error_description"))
		return nil
	}

	code, state := query.Get("code"), query.Get("state")
	if code == "" || state == "" {
		return nil
	}

	userType, ok, err := c.store.TakePendingUserType(ctx)
	if err != nil {
		c.logger.Warn("Controller: failed to read pending user type", "error", err.Error())
	}
	if !ok {
		userType = model.UserTypeStudent
	}

	resp, err := c.backend.OAuthCallback(ctx, model.OAuthCallbackRequest{
		Code:     code,
		State:    state,
		UserType: userType,
	})
	if err == nil && (!resp.Success || resp.Token == "") {
		err = &model.BackendRejection{Message: resp.Message}
	}
	if err == nil {
		err = c.store.SaveSession(ctx, resp.Token, userType, resp.User, true)
	}
	if err != nil {
		c.logger.Error("Controller: oauth callback failed",
			"user_type", userType,
			"error", err.Error())
		if navErr := c.redirect(c.loginPageWithError(oauthErrorCode)); navErr != nil {
			return errors.Join(err, navErr)
		}
		return err
	}

	c.logger.Info("Controller: oauth login succeeded", "user_type", userType)

	return c.redirect(c.dashboardFor(userType))
}

func (c *Controller) loginPageWithError(code string) string {
	target := c.opts.Navigation.LoginPage
	u, err := url.Parse(target)
	if err != nil {
		return target + "?error=" + url.QueryEscape(code)
	}
	q := u.Query()
	q.Set("error", code)
	u.RawQuery = q.Encode()
	return u.String()
}

// RestoreSessionOnLoad pre-fills the remembered email and, when a token is
// stored, verifies it: a valid token redirects to the dashboard, anything
// else clears the stored session and leaves the user on the login page.
func (c *Controller) RestoreSessionOnLoad(ctx context.Context) error {
	email, ok, err := c.store.RememberedEmail(ctx)
	if err != nil {
		c.logger.Warn("Controller: failed to read remembered email", "error", err.Error())
	}
	if ok {
		c.view.PrefillEmail(email, true)
	}

	sess, err := c.store.LoadSession(ctx)
	if errors.Is(err, model.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	resp, err := c.backend.Verify(ctx, sess.Token)
	if err != nil || !resp.Valid {
		reason := "rejected"
		if err != nil {
			reason = err.Error()
		}
		c.logger.Info("Controller: stored session is no longer valid",
			"persistent", sess.Persistent,
			"reason", reason)

		if clearErr := c.store.ClearSession(ctx); clearErr != nil {
			c.logger.Error("Controller: failed to clear session", "error", clearErr.Error())
		}
		return model.ErrTokenInvalid
	}

	userType := sess.UserType
	if userType == "" {
		userType = c.SelectedUserType()
	}

	return c.redirect(c.dashboardFor(userType))
}

// Logout clears the stored session in both scopes and returns to the login
// page.
func (c *Controller) Logout(ctx context.Context) error {
	if err := c.store.ClearSession(ctx); err != nil {
		c.logger.Error("Controller: failed to clear session on logout", "error", err.Error())
		return fmt.Errorf("failed to clear session: %w", err)
	}

	c.logger.Info("Controller: logged out")

	return c.redirect(c.opts.Navigation.LoginPage)
}
