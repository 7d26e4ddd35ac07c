package model

import (
	"context"
	"io"
)

// Scope is a single key/value storage area. Durable scopes survive restarts,
// ephemeral scopes live as long as the process.
type Scope interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// ObjectStorage stores opaque blobs by key.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, reader io.Reader) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
