package kv

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis connects to CRM_TEST_REDIS_ADDR (default localhost:6379)
// and skips the test when nothing is listening.
func setupTestRedis(t *testing.T) *Redis {
	t.Helper()

	addr := os.Getenv("CRM_TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("Redis not available at %s: %v", addr, err)
	}

	prefix := fmt.Sprintf("crm-test-%d:", time.Now().UnixNano())
	r := NewRedis(client, prefix, time.Second)
	t.Cleanup(func() {
		ctx := context.Background()
		keys, _ := client.Keys(ctx, prefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})
	return r
}

func TestRedis_ReadMissingKey(t *testing.T) {
	r := setupTestRedis(t)

	v, ok, err := r.Read("nothing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestRedis_WriteReadDelete(t *testing.T) {
	r := setupTestRedis(t)

	require.NoError(t, r.Write("crm_customers", []byte(`[]`)))
	v, ok, err := r.Read("crm_customers")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, string(v))

	require.NoError(t, r.Delete("crm_customers"))
	_, ok, err = r.Read("crm_customers")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedis_WriteBatch(t *testing.T) {
	r := setupTestRedis(t)

	err := WriteAll(r, []string{"a", "b"}, map[string][]byte{"a": []byte("1"), "b": []byte("2")})
	require.NoError(t, err)

	for k, want := range map[string]string{"a": "1", "b": "2"} {
		v, ok, err := r.Read(k)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, want, string(v))
	}
}

func TestOpenRedis_Unreachable(t *testing.T) {
	cfg := DefaultRedisConfig()
	cfg.Addr = "127.0.0.1:1"
	cfg.Timeout = 200 * time.Millisecond

	_, err := OpenRedis(cfg)
	assert.Error(t, err)
}
