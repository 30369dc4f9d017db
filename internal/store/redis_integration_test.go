//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/donaldgifford/manifest-analyzer/internal/store"
)

func setupRedis(t *testing.T) *store.RedisStore {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.Run(ctx,
		"redis:7-alpine",
		testcontainers.WithExposedPorts("6379/tcp"),
		testcontainers.WithWaitStrategy(
			wait.ForListeningPort("6379/tcp").WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, container.Terminate(ctx))
	})

	addr, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	s, err := store.NewRedisStore(ctx, store.RedisOptions{Addr: addr, KeyPrefix: "mfa_test"})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}

func TestRedisStore_Contract(t *testing.T) {
	s := setupRedis(t)

	runStoreContract(t, func(t *testing.T) store.Store {
		t.Helper()
		clearStore(t, s)
		return s
	})
}

func TestRedisStore_NotReachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := store.NewRedisStore(ctx, store.RedisOptions{Addr: "127.0.0.1:1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pinging redis")
}
