package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/classroom-auth/internal/backend/httpapi"
	"github.com/dtroode/classroom-auth/internal/config"
	"github.com/dtroode/classroom-auth/internal/service"
	"github.com/dtroode/classroom-auth/internal/storage/sqlite"
	"github.com/dtroode/classroom-auth/internal/testutil"
)

func TestNewBackend(t *testing.T) {
	tests := []struct {
		name     string
		mode     string
		wantType any
		wantErr  bool
	}{
		{name: "http", mode: config.BackendModeHTTP, wantType: &httpapi.Client{}},
		{name: "demo", mode: config.BackendModeDemo, wantType: &service.DemoAuth{}},
		{name: "unknown", mode: "carrier-pigeon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Backend: config.Backend{Mode: tt.mode, BaseURL: "http://localhost:8080"}}
			backend, err := NewBackend(cfg, nil, testutil.MakeNoopLogger())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, backend)
		})
	}
}

func TestOpenDurableScope_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{Storage: config.Storage{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "session.db"),
	}}

	scope, closer, err := OpenDurableScope(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer.Close() })
	assert.IsType(t, &sqlite.Scope{}, scope)

	require.NoError(t, scope.Set(ctx, "k", "v"))
	v, ok, err := scope.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestOpenDurableScope_UnknownDriver(t *testing.T) {
	_, _, err := OpenDurableScope(context.Background(), &config.Config{Storage: config.Storage{Driver: "floppy"}})
	assert.Error(t, err)
}
