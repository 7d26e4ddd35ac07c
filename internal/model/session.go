package model

import "time"

// Storage keys shared by both scopes.
const (
	KeyAuthToken       = "authToken"
	KeyUserType        = "userType"
	KeyUserInfo        = "userInfo"
	KeyRememberedEmail = "rememberedEmail"
	KeyPendingUserType = "pendingUserType"
)

// Session is what a successful login leaves behind in one storage scope.
type Session struct {
	Token    string
	UserType UserType
	Profile  *UserProfile
	// Persistent reports the scope the session was found in.
	Persistent bool
}

// State is a step of the login form lifecycle.
type State string

const (
	StateIdle        State = "idle"
	StateValidating  State = "validating"
	StateSubmitting  State = "submitting"
	StateSuccess     State = "success"
	StateFailed      State = "failed"
	StateRedirecting State = "redirecting"
)

// Tab is one of the two form sections of the login page.
type Tab string

const (
	TabLogin  Tab = "login"
	TabSignup Tab = "signup"
)

// PendingSessionDuration is a TTL for pending OAuth authorizations.
const PendingSessionDuration = time.Minute * 10
