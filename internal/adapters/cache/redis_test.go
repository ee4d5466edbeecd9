package cache

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestRedisStore_Integration(t *testing.T) {
	_ = godotenv.Load("../../../.env")

	host := getEnv("REDIS_HOST", "localhost")
	port := getEnv("REDIS_PORT", "6379")
	pass := getEnv("REDIS_PASSWORD", "")

	rdb, err := NewRedisClient(host, port, pass, 1)
	if err != nil {
		t.Skipf("Skipping Redis integration test: %v", err)
	}
	defer rdb.Close()

	ctx := context.Background()
	require.NoError(t, rdb.FlushDB(ctx).Err(), "Failed to flush test DB")

	store := NewRedisStore(rdb, "test:")

	t.Run("Set and Get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "k1", []byte("hello"), time.Minute))

		val, ok, err := store.Get(ctx, "k1")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []byte("hello"), val)

		raw, err := rdb.Get(ctx, "test:k1").Result()
		require.NoError(t, err)
		assert.Equal(t, "hello", raw, "keys are namespaced")
	})

	t.Run("Miss is not an error", func(t *testing.T) {
		val, ok, err := store.Get(ctx, "absent")
		assert.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, val)
	})

	t.Run("Expire", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "short", []byte("x"), time.Second))
		time.Sleep(1100 * time.Millisecond)

		_, ok, err := store.Get(ctx, "short")
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Delete many", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			require.NoError(t, store.Set(ctx, fmt.Sprintf("d%d", i), []byte("v"), time.Minute))
		}
		require.NoError(t, store.Delete(ctx, "d0", "d1", "d2"))

		for i := 0; i < 3; i++ {
			_, ok, _ := store.Get(ctx, fmt.Sprintf("d%d", i))
			assert.False(t, ok)
		}
		assert.NoError(t, store.Delete(ctx))
	})
}
