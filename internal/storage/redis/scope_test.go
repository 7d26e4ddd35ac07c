package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis keeps values in a map and records the keys it was asked for.
type fakeRedis struct {
	values map[string]string
	err    error
	keys   []string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: make(map[string]string)}
}

func (f *fakeRedis) Get(_ context.Context, key string) *goredis.StringCmd {
	f.keys = append(f.keys, key)
	if f.err != nil {
		return goredis.NewStringResult("", f.err)
	}
	v, ok := f.values[key]
	if !ok {
		return goredis.NewStringResult("", goredis.Nil)
	}
	return goredis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, _ time.Duration) *goredis.StatusCmd {
	f.keys = append(f.keys, key)
	if f.err != nil {
		return goredis.NewStatusResult("", f.err)
	}
	f.values[key] = value.(string)
	return goredis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *goredis.IntCmd {
	f.keys = append(f.keys, keys...)
	if f.err != nil {
		return goredis.NewIntResult(0, f.err)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.values[k]; ok {
			delete(f.values, k)
			n++
		}
	}
	return goredis.NewIntResult(n, nil)
}

func TestScope_RoundTrip(t *testing.T) {
	ctx := context.Background()
	api := newFakeRedis()
	s := NewScope(api, "classroom:session:")

	_, ok, err := s.Get(ctx, "authToken")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "authToken", "tok"))
	assert.Equal(t, "tok", api.values["classroom:session:authToken"])

	v, ok, err := s.Get(ctx, "authToken")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok", v)

	require.NoError(t, s.Delete(ctx, "authToken"))
	require.NoError(t, s.Delete(ctx, "authToken"))
	assert.Empty(t, api.values)

	for _, k := range api.keys {
		assert.Equal(t, "classroom:session:authToken", k)
	}
}

func TestScope_Errors(t *testing.T) {
	ctx := context.Background()
	api := newFakeRedis()
	api.err = errors.New("connection refused")
	s := NewScope(api, "p:")

	_, _, err := s.Get(ctx, "k")
	assert.ErrorContains(t, err, "failed to get key")
	assert.ErrorContains(t, s.Set(ctx, "k", "v"), "failed to set key")
	assert.ErrorContains(t, s.Delete(ctx, "k"), "failed to delete key")
}
