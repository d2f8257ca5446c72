package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/zarpadomueble-ops/storefront-gateway/pkg/redis"
)

// Repository persists a session's cart snapshot.
type Repository interface {
	Load(ctx context.Context, sessionID string) ([]Line, error)
	Save(ctx context.Context, sessionID string, lines []Line) error
}

// SessionStore is the slice of the redis client the repository needs.
type SessionStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Touch(ctx context.Context, key string, ttl time.Duration) error
	CartKey(sessionID string) string
}

// RedisRepository stores carts as JSON under a session-scoped key, the
// server-side counterpart of the storefront's localStorage entry.
type RedisRepository struct {
	client SessionStore
	ttl    time.Duration
}

func NewRedisRepository(client SessionStore, ttl time.Duration) (*RedisRepository, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &RedisRepository{client: client, ttl: ttl}, nil
}

func (r *RedisRepository) Load(ctx context.Context, sessionID string) ([]Line, error) {
	key := r.client.CartKey(sessionID)
	raw, err := r.client.Get(ctx, key)
	if err != nil {
		if redis.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading cart: %w", err)
	}

	// Browsing keeps the session alive: every read slides the TTL the
	// same way a save does. Best effort, a failed expire is not a failed
	// load.
	_ = r.client.Touch(ctx, key, r.ttl)

	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		// Corrupted snapshots behave like an empty cart; sanitize would
		// drop everything anyway.
		return nil, nil
	}
	return lines, nil
}

func (r *RedisRepository) Save(ctx context.Context, sessionID string, lines []Line) error {
	if lines == nil {
		lines = []Line{}
	}
	encoded, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encoding cart: %w", err)
	}
	if err := r.client.Set(ctx, r.client.CartKey(sessionID), string(encoded), r.ttl); err != nil {
		return fmt.Errorf("saving cart: %w", err)
	}
	return nil
}

// MemoryRepository keeps carts in process. Used in tests and when the
// gateway runs without Redis.
type MemoryRepository struct {
	mu    sync.Mutex
	carts map[string][]Line
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{carts: make(map[string][]Line)}
}

func (m *MemoryRepository) Load(_ context.Context, sessionID string) ([]Line, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.carts[sessionID]
	if !ok {
		return nil, nil
	}
	out := make([]Line, len(stored))
	copy(out, stored)
	return out, nil
}

func (m *MemoryRepository) Save(_ context.Context, sessionID string, lines []Line) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]Line, len(lines))
	copy(stored, lines)
	m.carts[sessionID] = stored
	return nil
}
