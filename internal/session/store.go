// Package session keeps the client-side session in one of two storage
// scopes: a durable one that survives restarts and an ephemeral one that
// lives as long as the process.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dtroode/classroom-auth/internal/logger"
	"github.com/dtroode/classroom-auth/internal/model"
)

// Store is the single entry point to both scopes. Scope choice is the
// persistent parameter, never a separate code path.
type Store struct {
	durable   model.Scope
	ephemeral model.Scope
	logger    *logger.Logger
}

// NewStore creates a Store over the given durable and ephemeral scopes.
func NewStore(durable, ephemeral model.Scope, logger *logger.Logger) *Store {
	return &Store{
		durable:   durable,
		ephemeral: ephemeral,
		logger:    logger,
	}
}

func (s *Store) scope(persistent bool) model.Scope {
	if persistent {
		return s.durable
	}
	return s.ephemeral
}

// Get reads key from the chosen scope.
func (s *Store) Get(ctx context.Context, key string, persistent bool) (string, bool, error) {
	v, ok, err := s.scope(persistent).Get(ctx, key)
	if err != nil {
		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return v, ok, nil
}

// Set writes key into the chosen scope.
func (s *Store) Set(ctx context.Context, key, value string, persistent bool) error {
	if err := s.scope(persistent).Set(ctx, key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Clear removes key from the chosen scope.
func (s *Store) Clear(ctx context.Context, key string, persistent bool) error {
	if err := s.scope(persistent).Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to clear %s: %w", key, err)
	}
	return nil
}

var sessionKeys = []string{model.KeyAuthToken, model.KeyUserType, model.KeyUserInfo}

// SaveSession writes token, user type and profile into the chosen scope and
// removes the same keys from the other one, so a token never lives in both.
// The writes are not transactional.
func (s *Store) SaveSession(ctx context.Context, token string, userType model.UserType, profile *model.UserProfile, persistent bool) error {
	for _, key := range sessionKeys {
		if err := s.Clear(ctx, key, !persistent); err != nil {
			return err
		}
	}

	if err := s.Set(ctx, model.KeyAuthToken, token, persistent); err != nil {
		return err
	}
	if err := s.Set(ctx, model.KeyUserType, string(userType), persistent); err != nil {
		return err
	}

	if profile == nil {
		return s.Clear(ctx, model.KeyUserInfo, persistent)
	}

	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal user info: %w", err)
	}
	return s.Set(ctx, model.KeyUserInfo, string(raw), persistent)
}

// LoadSession returns the stored session, looking at the durable scope
// first. It returns model.ErrNotFound when neither scope holds a token.
func (s *Store) LoadSession(ctx context.Context) (model.Session, error) {
	for _, persistent := range []bool{true, false} {
		token, ok, err := s.Get(ctx, model.KeyAuthToken, persistent)
		if err != nil {
			return model.Session{}, err
		}
		if !ok || token == "" {
			continue
		}

		sess := model.Session{Token: token, Persistent: persistent}

		rawType, ok, err := s.Get(ctx, model.KeyUserType, persistent)
		if err != nil {
			return model.Session{}, err
		}
		if ok {
			if userType, err := model.ParseUserType(rawType); err == nil {
				sess.UserType = userType
			}
		}

		rawInfo, ok, err := s.Get(ctx, model.KeyUserInfo, persistent)
		if err != nil {
			return model.Session{}, err
		}
		if ok && rawInfo != "" {
			var profile model.UserProfile
			if err := json.Unmarshal([]byte(rawInfo), &profile); err != nil {
				s.logger.Warn("Session store: ignoring malformed user info",
					"persistent", persistent,
					"error", err.Error())
			} else {
				sess.Profile = &profile
				if sess.UserType == "" {
					sess.UserType = profile.UserType
				}
			}
		}

		return sess, nil
	}

	return model.Session{}, model.ErrNotFound
}

// SessionToken returns the stored token from either scope. Read failures
// count as no token.
func (s *Store) SessionToken(ctx context.Context) (string, bool) {
	sess, err := s.LoadSession(ctx)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			s.logger.Warn("Session store: failed to read token", "error", err.Error())
		}
		return "", false
	}
	return sess.Token, true
}

// ClearSession removes token, user type and profile from both scopes.
// Every key is attempted even if an earlier delete fails.
func (s *Store) ClearSession(ctx context.Context) error {
	var errs []error
	for _, persistent := range []bool{true, false} {
		for _, key := range sessionKeys {
			if err := s.Clear(ctx, key, persistent); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// RememberEmail keeps the email in the durable scope for the next visit.
func (s *Store) RememberEmail(ctx context.Context, email string) error {
	return s.Set(ctx, model.KeyRememberedEmail, email, true)
}

// ForgetEmail drops the remembered email.
func (s *Store) ForgetEmail(ctx context.Context) error {
	return s.Clear(ctx, model.KeyRememberedEmail, true)
}

// RememberedEmail returns the remembered email, if any.
func (s *Store) RememberedEmail(ctx context.Context) (string, bool, error) {
	email, ok, err := s.Get(ctx, model.KeyRememberedEmail, true)
	if err != nil || !ok || email == "" {
		return "", false, err
	}
	return email, true, nil
}

// StashPendingUserType keeps the user type across an OAuth redirect.
func (s *Store) StashPendingUserType(ctx context.Context, userType model.UserType) error {
	return s.Set(ctx, model.KeyPendingUserType, string(userType), false)
}

// TakePendingUserType returns and removes the stashed user type. Unknown or
// missing values yield ok=false.
func (s *Store) TakePendingUserType(ctx context.Context) (model.UserType, bool, error) {
	raw, ok, err := s.Get(ctx, model.KeyPendingUserType, false)
	if err != nil {
		return "", false, err
	}
	if !ok {
		return "", false, nil
	}

	if err := s.Clear(ctx, model.KeyPendingUserType, false); err != nil {
		return "", false, err
	}

	userType, err := model.ParseUserType(raw)
	if err != nil {
		s.logger.Warn("Session store: discarding unknown pending user type",
			"value", raw)
		return "", false, nil
	}
	return userType, true, nil
}
