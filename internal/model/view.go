package model

// MessageKind classifies a message surfaced to the user.
type MessageKind string

const (
	MessageError   MessageKind = "error"
	MessageSuccess MessageKind = "success"
	MessageInfo    MessageKind = "info"
)

// View is the rendering side of the login page. Implementations must not
// block for long: the controller calls them inline.
type View interface {
	// MarkSelected moves the "selected" marker to exactly one user type.
	MarkSelected(userType UserType)
	// ShowTab makes one form section active; for signup it also reveals the
	// field set of the given user type.
	ShowTab(tab Tab, userType UserType)
	// SetLoading disables (or re-enables) the submit control and relabels it.
	SetLoading(loading bool, label string)
	// ShowMessage surfaces an inline message.
	ShowMessage(kind MessageKind, text string)
	// PrefillEmail fills the email field and the remember-me checkbox.
	PrefillEmail(email string, rememberMe bool)
	// PromptEmail asks the user for an email; ok is false when cancelled.
	PromptEmail() (email string, ok bool)
}

// Navigator moves the user to another page or URL.
type Navigator interface {
	Navigate(target string) error
}
