package model

import "github.com/google/uuid"

// TokenClaims is the identity carried inside a demo access token.
type TokenClaims struct {
	UserID   uuid.UUID
	Email    string
	UserType UserType
}

// TokenManager generates and validates access tokens.
type TokenManager interface {
	GenerateAccessToken(claims TokenClaims) (string, error)
	ParseAccessToken(token string) (TokenClaims, error)
}
