package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/sessionkit/pkg/codec"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

// DefaultKeyPrefix namespaces session records in a shared database.
const DefaultKeyPrefix = "session:"

// Backend stores session data in Redis, one key per session, encoded with
// a codec.Codec. Expiry is delegated to Redis key TTLs.
type Backend struct {
	client redis.UniversalClient
	prefix string
	codec  codec.Codec
}

var _ session.Backend = (*Backend)(nil)

// BackendOption configures a Backend.
type BackendOption func(*Backend)

// WithKeyPrefix sets the prefix added to every session key.
func WithKeyPrefix(prefix string) BackendOption {
	return func(b *Backend) { b.prefix = prefix }
}

// WithCodec sets the payload codec. The default is codec.JSON.
func WithCodec(c codec.Codec) BackendOption {
	return func(b *Backend) { b.codec = c }
}

// NewBackend creates a session backend on top of an existing client.
// The caller keeps ownership of the client.
func NewBackend(client redis.UniversalClient, opts ...BackendOption) *Backend {
	b := &Backend{
		client: client,
		prefix: DefaultKeyPrefix,
		codec:  codec.JSON,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewBackendFromConfig creates a backend with the key prefix and codec named in cfg.
func NewBackendFromConfig(client redis.UniversalClient, cfg Config) (*Backend, error) {
	var c codec.Codec
	switch cfg.Codec {
	case "", codec.JSON.Name:
		c = codec.JSON
	case codec.MsgPack.Name:
		c = codec.MsgPack
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, cfg.Codec)
	}
	return NewBackend(client, WithKeyPrefix(cfg.KeyPrefix), WithCodec(c)), nil
}

// Load returns session.ErrSessionNotFound for missing or expired keys and
// session.ErrInvalidSession when the stored payload cannot be decoded.
func (b *Backend) Load(ctx context.Context, id string) (map[string]any, error) {
	raw, err := b.client.Get(ctx, b.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, session.ErrSessionNotFound
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	data := make(map[string]any)
	if err := b.codec.Unmarshal(raw, &data); err != nil {
		return nil, errors.Join(session.ErrInvalidSession, err)
	}
	return data, nil
}

// Save writes data under id. A non-positive ttl stores the key without expiry.
func (b *Backend) Save(ctx context.Context, id string, data map[string]any, ttl time.Duration) error {
	if id == "" {
		return session.ErrInvalidSession
	}

	raw, err := b.codec.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if ttl < 0 {
		ttl = 0
	}

	if err := b.client.Set(ctx, b.key(id), raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (b *Backend) Delete(ctx context.Context, id string) error {
	if err := b.client.Del(ctx, b.key(id)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (b *Backend) key(id string) string {
	return b.prefix + id
}
