package redis

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/clientops/hub/internal/core/domain"
)

func TestUserCache_Key(t *testing.T) {
	c := NewUserCache(nil, 0)
	if got := c.key("admin"); got != "user:admin" {
		t.Fatalf("unexpected key: %s", got)
	}
	if c.ttl != defaultUserTTL {
		t.Fatalf("expected default ttl, got %s", c.ttl)
	}
}

// TestUserCache_RoundTrip needs a reachable Redis; it skips unless
// TEST_REDIS_ADDR is set.
func TestUserCache_RoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()

	client, err := Connect(ctx, Config{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	cache := NewUserCache(client, time.Minute)
	username := fmt.Sprintf("cache-test-%d", time.Now().UnixNano())
	t.Cleanup(func() { _ = client.Del(context.Background(), cache.key(username)).Err() })

	got, err := cache.Get(ctx, username)
	require.NoError(t, err)
	require.Nil(t, got)

	u := &domain.User{ID: 7, Username: username, PasswordHash: "secret-hash", Role: domain.RoleAdmin, CreatedAt: time.Now().UTC()}
	require.NoError(t, cache.Set(ctx, u))

	got, err = cache.Get(ctx, username)
	require.NoError(t, err)
	require.Equal(t, int64(7), got.ID)
	require.Equal(t, domain.RoleAdmin, got.Role)
	require.Empty(t, got.PasswordHash)
}
