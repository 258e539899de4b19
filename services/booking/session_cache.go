package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"beautybook/models"

	"github.com/go-redis/redis/v8"
)

// SessionCache keeps session snapshots between requests. Card number and CVV
// are never part of a snapshot.
type SessionCache interface {
	Save(ctx context.Context, s models.BookingSession, ttl time.Duration) error
	Load(ctx context.Context, sessionID string) (*models.BookingSession, error)
	Delete(ctx context.Context, sessionID string) error
}

const sessionKeyPrefix = "booking_session:"

// RedisSessionCache stores snapshots as JSON strings with a TTL.
type RedisSessionCache struct {
	client *redis.Client
}

func NewRedisSessionCache(client *redis.Client) *RedisSessionCache {
	return &RedisSessionCache{client: client}
}

func (c *RedisSessionCache) Save(ctx context.Context, s models.BookingSession, ttl time.Duration) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal booking session: %w", err)
	}
	if err := c.client.Set(ctx, sessionKeyPrefix+s.SessionID, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store booking session: %w", err)
	}
	return nil
}

func (c *RedisSessionCache) Load(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	data, err := c.client.Get(ctx, sessionKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load booking session: %w", err)
	}
	var s models.BookingSession
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse booking session %s: %w", sessionID, err)
	}
	return &s, nil
}

func (c *RedisSessionCache) Delete(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, sessionKeyPrefix+sessionID).Err()
}

// MemorySessionCache is a process-local SessionCache with the same snapshot
// format and expiry behavior as the redis one.
type MemorySessionCache struct {
	mu    sync.Mutex
	items map[string]memoryEntry
	now   func() time.Time
}

type memoryEntry struct {
	data    []byte
	expires time.Time
}

func NewMemorySessionCache() *MemorySessionCache {
	return &MemorySessionCache{items: make(map[string]memoryEntry), now: time.Now}
}

func (c *MemorySessionCache) Save(ctx context.Context, s models.BookingSession, ttl time.Duration) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal booking session: %w", err)
	}
	e := memoryEntry{data: data}
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.items[s.SessionID] = e
	c.mu.Unlock()
	return nil
}

func (c *MemorySessionCache) Load(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	c.mu.Lock()
	e, ok := c.items[sessionID]
	if ok && !e.expires.IsZero() && c.now().After(e.expires) {
		delete(c.items, sessionID)
		ok = false
	}
	c.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	var s models.BookingSession
	if err := json.Unmarshal(e.data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse booking session %s: %w", sessionID, err)
	}
	return &s, nil
}

func (c *MemorySessionCache) Delete(ctx context.Context, sessionID string) error {
	c.mu.Lock()
	delete(c.items, sessionID)
	c.mu.Unlock()
	return nil
}
