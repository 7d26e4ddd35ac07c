package service

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dtroode/classroom-auth/internal/model"
)

// MinPasswordLength is the shortest password the form accepts.
const MinPasswordLength = 6

// notSpace excludes every character a browser treats as whitespace: ASCII
// spaces, vertical tab, Unicode separators and the BOM.
const notSpace = `[^\s\x0B\p{Z}\x{FEFF}@]`

var emailPattern = regexp.MustCompile(`^` + notSpace + `+@` + notSpace + `+\.` + notSpace + `+$`)

const (
	msgInvalidEmail     = "Please enter a valid email address."
	msgShortPassword    = "Password must be at least 6 characters long."
	msgPasswordMismatch = "Passwords do not match!"
	msgMissingName      = "Please enter your first and last name."
)

func validateEmail(email string) *model.ValidationError {
	if !emailPattern.MatchString(email) {
		return model.NewValidationError("email", msgInvalidEmail)
	}
	return nil
}

func validatePassword(password string) *model.ValidationError {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return model.NewValidationError("password", msgShortPassword)
	}
	return nil
}

func validateCredentials(email, password string) *model.ValidationError {
	if err := validateEmail(email); err != nil {
		return err
	}
	return validatePassword(password)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var knownProviders = []string{"google", "microsoft", "apple", "github", "facebook"}

// providerFromLabel derives the provider id from a social button label such
// as "Continue with Google".
func providerFromLabel(label string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(label))
	if normalized == "" {
		return "", false
	}
	for _, p := range knownProviders {
		if strings.Contains(normalized, p) {
			return p, true
		}
	}
	fields := strings.Fields(normalized)
	return fields[len(fields)-1], true
}

// providerDisplayName turns "github" into "Github".
func providerDisplayName(provider string) string {
	return capitalize(provider)
}

// capitalize upper-cases the first character of s.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
