package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/foodworks/orderflow/core"
)

// RedisSessionStore persists cart snapshots keyed by session id so a
// browsing session can be resumed after a process restart. One writer
// per session; this is not multi-device cart synchronization.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
	logger core.Logger
}

// NewRedisSessionStore connects to redis and verifies the connection.
func NewRedisSessionStore(redisURL string, ttl time.Duration) (*RedisSessionStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &RedisSessionStore{
		client: client,
		ttl:    ttl,
		logger: &core.NoOpLogger{},
	}, nil
}

// SetLogger configures the logger for this session store.
func (r *RedisSessionStore) SetLogger(logger core.Logger) {
	if logger != nil {
		r.logger = logger
	}
}

// NewSessionID mints a fresh session identifier.
func (r *RedisSessionStore) NewSessionID() string {
	return uuid.New().String()
}

// Save persists a cart snapshot under the session id, refreshing the
// session TTL.
func (r *RedisSessionStore) Save(ctx context.Context, sessionID string, snap Snapshot) error {
	data, err := json.Marshal(snap.Lines)
	if err != nil {
		return fmt.Errorf("failed to serialize cart: %w", err)
	}

	pipe := r.client.Pipeline()
	key := r.cartKey(sessionID)
	pipe.HSet(ctx, key, map[string]interface{}{
		"lines":      string(data),
		"updated_at": time.Now().Unix(),
	})
	pipe.Expire(ctx, key, r.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save cart session: %w", err)
	}

	r.logger.Debug("Cart session saved", map[string]interface{}{
		"session_id": sessionID,
		"lines":      len(snap.Lines),
	})
	return nil
}

// Load retrieves the saved cart lines for a session. A session with no
// saved cart returns an empty slice, not an error.
func (r *RedisSessionStore) Load(ctx context.Context, sessionID string) ([]core.CartLine, error) {
	data, err := r.client.HGet(ctx, r.cartKey(sessionID), "lines").Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart session: %w", err)
	}

	var lines []core.CartLine
	if err := json.Unmarshal([]byte(data), &lines); err != nil {
		return nil, fmt.Errorf("failed to decode cart session: %w", err)
	}
	return lines, nil
}

// Delete removes the saved cart for a session.
func (r *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, r.cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart session: %w", err)
	}
	return nil
}

// Attach keeps a session's saved cart in sync with a live store by
// subscribing to its mutations. Returns the unsubscribe function.
// Persistence failures are logged and do not interrupt the session;
// the in-memory store stays authoritative.
func (r *RedisSessionStore) Attach(store Store, sessionID string) func() {
	return store.Subscribe(func(snap Snapshot) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := r.Save(ctx, sessionID, snap); err != nil {
			r.logger.Warn("Failed to persist cart session", map[string]interface{}{
				"session_id": sessionID,
				"error":      err.Error(),
			})
		}
	})
}

func (r *RedisSessionStore) cartKey(sessionID string) string {
	return fmt.Sprintf("orderflow:session:%s:cart", sessionID)
}

// Close releases the redis connection.
func (r *RedisSessionStore) Close() error {
	return r.client.Close()
}
