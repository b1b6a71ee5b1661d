package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/clientops/hub/internal/core/domain"
	"github.com/clientops/hub/internal/core/ports"
)

const defaultUserTTL = 5 * time.Minute

// cachedUser is the identity stored per username. The password hash is
// never written to the cache.
type cachedUser struct {
	ID        int64       `json:"id"`
	Username  string      `json:"username"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

// UserCache caches resolved token identities in Redis.
// Key format: user:<username>
type UserCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.UserCache = (*UserCache)(nil)

// NewUserCache creates a UserCache wrapping the given Redis client.
func NewUserCache(client *redis.Client, ttl time.Duration) *UserCache {
	if ttl <= 0 {
		ttl = defaultUserTTL
	}
	return &UserCache{client: client, ttl: ttl}
}

// Get returns the cached user, or nil on a miss.
func (c *UserCache) Get(ctx context.Context, username string) (*domain.User, error) {
	raw, err := c.client.Get(ctx, c.key(username)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("user cache get: %w", err)
	}

	var cu cachedUser
	if err := json.Unmarshal(raw, &cu); err != nil {
		return nil, fmt.Errorf("user cache decode: %w", err)
	}
	return &domain.User{ID: cu.ID, Username: cu.Username, Role: cu.Role, CreatedAt: cu.CreatedAt}, nil
}

// Set stores u until the TTL elapses.
func (c *UserCache) Set(ctx context.Context, u *domain.User) error {
	raw, err := json.Marshal(cachedUser{ID: u.ID, Username: u.Username, Role: u.Role, CreatedAt: u.CreatedAt})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(u.Username), raw, c.ttl).Err()
}

func (c *UserCache) key(username string) string {
	return "user:" + username
}
