package redis_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/codec"
	"github.com/dmitrymomot/sessionkit/pkg/redis"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestBackend_SaveLoad(t *testing.T) {
	mr, client := setupRedis(t)
	backend := redis.NewBackend(client)
	ctx := context.Background()

	data := map[string]any{
		"user_id": "u1",
		"_flash":  map[string][]string{"errors": {"invalid credentials"}},
	}
	require.NoError(t, backend.Save(ctx, "abc", data, time.Hour))

	assert.True(t, mr.Exists("session:abc"))
	assert.Equal(t, time.Hour, mr.TTL("session:abc"))

	loaded, err := backend.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "u1", loaded["user_id"])

	sess := session.NewSession(&loadedProvider{values: loaded}, session.DefaultConfig())
	assert.Equal(t, []string{"invalid credentials"}, sess.GetFlash("errors"), "flash survives JSON decoding")
}

func TestBackend_NotFound(t *testing.T) {
	_, client := setupRedis(t)
	backend := redis.NewBackend(client)

	_, err := backend.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestBackend_Expiry(t *testing.T) {
	mr, client := setupRedis(t)
	backend := redis.NewBackend(client)
	ctx := context.Background()

	require.NoError(t, backend.Save(ctx, "abc", map[string]any{"k": "v"}, time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := backend.Load(ctx, "abc")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	require.NoError(t, backend.Save(ctx, "forever", map[string]any{}, 0))
	assert.Zero(t, mr.TTL("session:forever"))
}

func TestBackend_Delete(t *testing.T) {
	mr, client := setupRedis(t)
	backend := redis.NewBackend(client, redis.WithKeyPrefix("app:sess:"))
	ctx := context.Background()

	require.NoError(t, backend.Save(ctx, "abc", map[string]any{}, time.Hour))
	assert.True(t, mr.Exists("app:sess:abc"))

	require.NoError(t, backend.Delete(ctx, "abc"))
	require.NoError(t, backend.Delete(ctx, "abc"))
	assert.False(t, mr.Exists("app:sess:abc"))
}

func TestBackend_Corrupted(t *testing.T) {
	mr, client := setupRedis(t)
	backend := redis.NewBackend(client)

	require.NoError(t, mr.Set("session:bad", "{not json"))

	_, err := backend.Load(context.Background(), "bad")
	assert.ErrorIs(t, err, session.ErrInvalidSession)
}

func TestBackend_EmptyID(t *testing.T) {
	_, client := setupRedis(t)
	backend := redis.NewBackend(client)

	err := backend.Save(context.Background(), "", map[string]any{}, time.Hour)
	assert.ErrorIs(t, err, session.ErrInvalidSession)
}

func TestBackend_MsgPack(t *testing.T) {
	_, client := setupRedis(t)
	backend := redis.NewBackend(client, redis.WithCodec(codec.MsgPack))
	ctx := context.Background()

	require.NoError(t, backend.Save(ctx, "abc", map[string]any{"count": 3, "name": "alice"}, time.Hour))

	loaded, err := backend.Load(ctx, "abc")
	require.NoError(t, err)
	assert.EqualValues(t, 3, loaded["count"])
	assert.Equal(t, "alice", loaded["name"])
}

func TestBackend_ServerDown(t *testing.T) {
	mr, client := setupRedis(t)
	backend := redis.NewBackend(client)
	mr.Close()

	_, err := backend.Load(context.Background(), "abc")
	require.Error(t, err)
	assert.False(t, errors.Is(err, session.ErrSessionNotFound))
}

func TestNewBackendFromConfig(t *testing.T) {
	_, client := setupRedis(t)

	for _, name := range []string{"", "json", "msgpack"} {
		_, err := redis.NewBackendFromConfig(client, redis.Config{Codec: name, KeyPrefix: "s:"})
		assert.NoError(t, err, name)
	}

	_, err := redis.NewBackendFromConfig(client, redis.Config{Codec: "gob"})
	assert.ErrorIs(t, err, redis.ErrUnknownCodec)
}

// loadedProvider exposes already loaded data to a Session.
type loadedProvider struct{ values map[string]any }

func (p *loadedProvider) Start(session.CookieParams, string) error { return nil }
func (p *loadedProvider) Status() session.Status                   { return session.StatusActive }
func (p *loadedProvider) ID() string                               { return "" }
func (p *loadedProvider) RegenerateID() bool                       { return false }
func (p *loadedProvider) WriteClose()                              {}
func (p *loadedProvider) Committed() (bool, string)                { return false, "" }
func (p *loadedProvider) Values() map[string]any                   { return p.values }
