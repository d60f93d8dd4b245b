// Package redis provides Redis-backed session infrastructure: the
// session slot mapping and a distributed lock for multi-replica
// deployments. Frame and graph persistence stay in the bolt or memory
// stores; only the per-session pointer and lock live here.
package redis

import (
	"context"
	"errors"
	"time"

	backend "github.com/redis/go-redis/v9"
)

const defaultPrefix = "trail:"

// Slot implements ports.SessionSlot on Redis. Each session key maps to
// the ID of its current frame; an optional TTL expires idle sessions.
type Slot struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// SlotOption configures the Slot.
type SlotOption func(*Slot)

// WithPrefix overrides the key prefix (default "trail:").
func WithPrefix(prefix string) SlotOption {
	return func(s *Slot) { s.prefix = prefix }
}

// WithTTL expires slot entries after the given idle duration. Zero
// (the default) keeps them until cleared.
func WithTTL(ttl time.Duration) SlotOption {
	return func(s *Slot) { s.ttl = ttl }
}

// NewSlot creates a session slot over an existing client.
func NewSlot(client *backend.Client, opts ...SlotOption) *Slot {
	s := &Slot{
		client: client,
		prefix: defaultPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Slot) key(sessionKey string) string {
	return s.prefix + "slot:" + sessionKey
}

// Get returns the frame ID the session points at, or "" when unset.
func (s *Slot) Get(ctx context.Context, sessionKey string) (string, error) {
	val, err := s.client.Get(ctx, s.key(sessionKey)).Result()
	if errors.Is(err, backend.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// Set points the session at a frame.
func (s *Slot) Set(ctx context.Context, sessionKey, stateID string) error {
	return s.client.Set(ctx, s.key(sessionKey), stateID, s.ttl).Err()
}

// Clear removes the session's pointer. Clearing an unset slot is a no-op.
func (s *Slot) Clear(ctx context.Context, sessionKey string) error {
	return s.client.Del(ctx, s.key(sessionKey)).Err()
}
