package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockScope(t *testing.T) (*Scope, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	s := NewScope(db)
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return s, mock
}

func TestScope_Get(t *testing.T) {
	query := regexp.QuoteMeta(`SELECT value FROM session_values WHERE key = ?`)

	t.Run("found", func(t *testing.T) {
		s, mock := newMockScope(t)
		mock.ExpectQuery(query).WithArgs("authToken").
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("tok"))

		v, ok, err := s.Get(context.Background(), "authToken")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "tok", v)
	})

	t.Run("missing", func(t *testing.T) {
		s, mock := newMockScope(t)
		mock.ExpectQuery(query).WithArgs("authToken").
			WillReturnRows(sqlmock.NewRows([]string{"value"}))

		v, ok, err := s.Get(context.Background(), "authToken")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, v)
	})

	t.Run("error", func(t *testing.T) {
		s, mock := newMockScope(t)
		mock.ExpectQuery(query).WithArgs("authToken").WillReturnError(errors.New("disk I/O error"))

		_, _, err := s.Get(context.Background(), "authToken")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to select value")
	})
}

func TestScope_Set(t *testing.T) {
	s, mock := newMockScope(t)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO session_values (key, value, updated_at) VALUES (?, ?, ?)`)).
		WithArgs("userType", "teacher", int64(1700000000000)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, s.Set(context.Background(), "userType", "teacher"))
}

func TestScope_Delete(t *testing.T) {
	s, mock := newMockScope(t)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM session_values WHERE key = ?`)).
		WithArgs("userInfo").
		WillReturnError(errors.New("locked"))

	err := s.Delete(context.Background(), "userInfo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete value")
}

func TestScope_FileRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "classroom-session.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, "rememberedEmail", "jane@school.edu"))
	require.NoError(t, s.Set(ctx, "rememberedEmail", "john@school.edu"))
	require.NoError(t, s.Close())

	// durable across reopen
	s, err = Open(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	v, ok, err := s.Get(ctx, "rememberedEmail")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "john@school.edu", v)

	require.NoError(t, s.Delete(ctx, "rememberedEmail"))
	_, ok, err = s.Get(ctx, "rememberedEmail")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open(context.Background(), " ")
	assert.Error(t, err)
}
