package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/classroom-auth/internal/mocks"
	"github.com/dtroode/classroom-auth/internal/model"
	"github.com/dtroode/classroom-auth/internal/storage/memory"
	"github.com/dtroode/classroom-auth/internal/testutil"
)

func newTestStore() (*Store, *memory.Scope, *memory.Scope) {
	durable := memory.NewScope()
	ephemeral := memory.NewScope()
	return NewStore(durable, ephemeral, testutil.MakeNoopLogger()), durable, ephemeral
}

func TestStore_SaveSession_ScopeSelection(t *testing.T) {
	profile := &model.UserProfile{ID: "u1", Email: "a@b.co", DisplayName: "A", UserType: model.UserTypeTeacher}

	tests := []struct {
		name       string
		persistent bool
	}{
		{name: "durable", persistent: true},
		{name: "ephemeral", persistent: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s, durable, ephemeral := newTestStore()

			require.NoError(t, s.SaveSession(ctx, "T", model.UserTypeTeacher, profile, tt.persistent))

			chosen, other := ephemeral, durable
			if tt.persistent {
				chosen, other = durable, ephemeral
			}

			token, ok, err := chosen.Get(ctx, model.KeyAuthToken)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "T", token)

			_, ok, err = other.Get(ctx, model.KeyAuthToken)
			require.NoError(t, err)
			assert.False(t, ok)

			raw, ok, err := chosen.Get(ctx, model.KeyUserInfo)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.JSONEq(t, `{"id":"u1","email":"a@b.co","displayName":"A","userType":"teacher"}`, raw)
		})
	}
}

func TestStore_SaveSession_MovesBetweenScopes(t *testing.T) {
	ctx := context.Background()
	s, durable, ephemeral := newTestStore()

	require.NoError(t, s.SaveSession(ctx, "first", model.UserTypeStudent, nil, true))
	require.NoError(t, s.SaveSession(ctx, "second", model.UserTypeStudent, nil, false))

	assert.Equal(t, 0, durable.Len())
	token, ok, _ := ephemeral.Get(ctx, model.KeyAuthToken)
	assert.True(t, ok)
	assert.Equal(t, "second", token)
}

func TestStore_LoadSession(t *testing.T) {
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		s, _, _ := newTestStore()
		_, err := s.LoadSession(ctx)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("ephemeral with profile", func(t *testing.T) {
		s, _, _ := newTestStore()
		profile := &model.UserProfile{ID: "u2", Email: "s@school.edu", UserType: model.UserTypeStudent}
		require.NoError(t, s.SaveSession(ctx, "E", model.UserTypeStudent, profile, false))

		sess, err := s.LoadSession(ctx)
		require.NoError(t, err)
		assert.Equal(t, "E", sess.Token)
		assert.False(t, sess.Persistent)
		assert.Equal(t, model.UserTypeStudent, sess.UserType)
		require.NotNil(t, sess.Profile)
		assert.Equal(t, "u2", sess.Profile.ID)
	})

	t.Run("durable wins", func(t *testing.T) {
		s, _, ephemeral := newTestStore()
		require.NoError(t, s.SaveSession(ctx, "D", model.UserTypeTeacher, nil, true))
		require.NoError(t, ephemeral.Set(ctx, model.KeyAuthToken, "stale"))

		sess, err := s.LoadSession(ctx)
		require.NoError(t, err)
		assert.Equal(t, "D", sess.Token)
		assert.True(t, sess.Persistent)
	})

	t.Run("malformed profile is ignored", func(t *testing.T) {
		s, durable, _ := newTestStore()
		require.NoError(t, durable.Set(ctx, model.KeyAuthToken, "D"))
		require.NoError(t, durable.Set(ctx, model.KeyUserInfo, "{"))

		sess, err := s.LoadSession(ctx)
		require.NoError(t, err)
		assert.Nil(t, sess.Profile)
		assert.Equal(t, model.UserType(""), sess.UserType)
	})
}

func TestStore_ClearSession(t *testing.T) {
	ctx := context.Background()
	s, durable, ephemeral := newTestStore()

	require.NoError(t, durable.Set(ctx, model.KeyAuthToken, "D"))
	require.NoError(t, ephemeral.Set(ctx, model.KeyAuthToken, "E"))
	require.NoError(t, s.RememberEmail(ctx, "a@b.co"))

	require.NoError(t, s.ClearSession(ctx))

	_, ok, _ := durable.Get(ctx, model.KeyAuthToken)
	assert.False(t, ok)
	_, ok, _ = ephemeral.Get(ctx, model.KeyAuthToken)
	assert.False(t, ok)

	email, ok, err := s.RememberedEmail(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a@b.co", email)
}

func TestStore_ClearSession_JoinsErrors(t *testing.T) {
	ctx := context.Background()
	durable := &mocks.Scope{}
	durable.On("Delete", mock.Anything, mock.Anything).Return(errors.New("disk gone"))
	ephemeral := memory.NewScope()
	require.NoError(t, ephemeral.Set(ctx, model.KeyAuthToken, "E"))

	s := NewStore(durable, ephemeral, testutil.MakeNoopLogger())
	err := s.ClearSession(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")

	_, ok, _ := ephemeral.Get(ctx, model.KeyAuthToken)
	assert.False(t, ok)
	durable.AssertNumberOfCalls(t, "Delete", 3)
}

func TestStore_PendingUserType_ConsumedOnce(t *testing.T) {
	ctx := context.Background()
	s, durable, _ := newTestStore()

	require.NoError(t, s.StashPendingUserType(ctx, model.UserTypeTeacher))
	assert.Equal(t, 0, durable.Len())

	userType, ok, err := s.TakePendingUserType(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, model.UserTypeTeacher, userType)

	_, ok, err = s.TakePendingUserType(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_PendingUserType_Unknown(t *testing.T) {
	ctx := context.Background()
	s, _, ephemeral := newTestStore()
	require.NoError(t, ephemeral.Set(ctx, model.KeyPendingUserType, "admin"))

	_, ok, err := s.TakePendingUserType(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, ephemeral.Len())
}

func TestStore_ForgetEmail(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore()

	require.NoError(t, s.RememberEmail(ctx, "a@b.co"))
	require.NoError(t, s.ForgetEmail(ctx))

	_, ok, err := s.RememberedEmail(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_GetWrapsScopeError(t *testing.T) {
	ctx := context.Background()
	durable := &mocks.Scope{}
	durable.On("Get", mock.Anything, model.KeyAuthToken).Return("", false, errors.New("io"))

	s := NewStore(durable, memory.NewScope(), testutil.MakeNoopLogger())
	_, err := s.LoadSession(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrNotFound)
}

func TestStore_SessionToken(t *testing.T) {
	ctx := context.Background()

	t.Run("none stored", func(t *testing.T) {
		s, _, _ := newTestStore()
		tok, ok := s.SessionToken(ctx)
		assert.False(t, ok)
		assert.Empty(t, tok)
	})

	t.Run("ephemeral token", func(t *testing.T) {
		s, _, _ := newTestStore()
		require.NoError(t, s.SaveSession(ctx, "tab-token", model.UserTypeStudent, nil, false))
		tok, ok := s.SessionToken(ctx)
		assert.True(t, ok)
		assert.Equal(t, "tab-token", tok)
	})

	t.Run("scope error counts as none", func(t *testing.T) {
		durable := &mocks.Scope{}
		durable.On("Get", mock.Anything, model.KeyAuthToken).Return("", false, errors.New("io"))
		s := NewStore(durable, memory.NewScope(), testutil.MakeNoopLogger())
		_, ok := s.SessionToken(ctx)
		assert.False(t, ok)
	})
}
