package app

import (
	"context"
	"fmt"
	"io"

	"github.com/dtroode/classroom-auth/internal/backend/httpapi"
	"github.com/dtroode/classroom-auth/internal/config"
	"github.com/dtroode/classroom-auth/internal/logger"
	"github.com/dtroode/classroom-auth/internal/model"
	"github.com/dtroode/classroom-auth/internal/repository/postgres"
	"github.com/dtroode/classroom-auth/internal/service"
	"github.com/dtroode/classroom-auth/internal/storage/minio"
	"github.com/dtroode/classroom-auth/internal/storage/redis"
	"github.com/dtroode/classroom-auth/internal/storage/sqlite"
	"github.com/dtroode/classroom-auth/internal/token"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewBackend builds the authentication backend selected by cfg.Backend.Mode.
// The HTTP client attaches the token from tokens to its requests; tokens may
// be nil.
func NewBackend(cfg *config.Config, tokens httpapi.TokenSource, logger *logger.Logger) (model.AuthBackend, error) {
	switch cfg.Backend.Mode {
	case config.BackendModeHTTP:
		client := httpapi.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, logger)
		if tokens != nil {
			client.WithTokenSource(tokens)
		}
		return client, nil
	case config.BackendModeDemo:
		return service.NewDemoAuth(token.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL), cfg.Backend.DemoLatency, logger), nil
	default:
		return nil, fmt.Errorf("unknown backend mode %q", cfg.Backend.Mode)
	}
}

// OpenDurableScope opens the durable scope selected by cfg.Storage.Driver.
// The returned closer releases its connection.
func OpenDurableScope(ctx context.Context, cfg *config.Config) (model.Scope, io.Closer, error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		s, err := sqlite.Open(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite scope: %w", err)
		}
		return s, s, nil

	case config.DriverPostgres:
		conn, err := postgres.NewConnection(ctx, cfg.Storage.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open postgres scope: %w", err)
		}
		return postgres.NewSessionRepository(conn), conn, nil

	case config.DriverRedis:
		s, client, err := redis.Dial(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open redis scope: %w", err)
		}
		return s, client, nil

	case config.DriverMinIO:
		client, err := minio.Dial(ctx, cfg.MinIO)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open minio scope: %w", err)
		}
		return minio.NewScope(client, cfg.MinIO.Prefix), nopCloser{}, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
