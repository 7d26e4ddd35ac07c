package model

import "fmt"

// UserType identifies which kind of account a user holds.
type UserType string

const (
	// UserTypeTeacher is a teacher account.
	UserTypeTeacher UserType = "teacher"
	// UserTypeStudent is a student account.
	UserTypeStudent UserType = "student"
)

// DefaultUserType is the selection shown before the user clicks anything.
const DefaultUserType = UserTypeTeacher

// ParseUserType converts raw input into a UserType.
func ParseUserType(raw string) (UserType, error) {
	switch UserType(raw) {
	case UserTypeTeacher, UserTypeStudent:
		return UserType(raw), nil
	default:
		return "", fmt.Errorf("unknown user type %q", raw)
	}
}

// UserProfile is the minimal profile kept next to the session token.
type UserProfile struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	DisplayName string   `json:"displayName"`
	UserType    UserType `json:"userType"`
	AvatarURL   string   `json:"avatarUrl,omitempty"`
}
