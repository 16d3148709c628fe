package redis

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/merklevote/merklevote-go/pkg/logger"
	"github.com/merklevote/merklevote-go/pkg/persistence"
	"github.com/merklevote/merklevote-go/pkg/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// getTestRedisAddress returns the Redis address for testing.
// Uses REDIS_TEST_ADDRESS env var if set, otherwise defaults to localhost:6379.
func getTestRedisAddress() string {
	if addr := os.Getenv("REDIS_TEST_ADDRESS"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

// requireRedis skips the test if Redis is not available.
// Each call gets its own key prefix so tests never see each other's log.
func requireRedis(t *testing.T) *RedisPersistence {
	t.Helper()

	testLogger, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	cfg := &RedisConfig{
		Address:   getTestRedisAddress(),
		DB:        15,
		KeyPrefix: "test-" + uuid.NewString() + ":",
	}

	rp, err := NewRedisPersistence(cfg, testLogger)
	if err != nil {
		t.Skipf("Redis not available at %s: %v", cfg.Address, err)
		return nil
	}

	t.Cleanup(func() { cleanupRedis(t, cfg) })
	return rp
}

// cleanupRedis deletes every key under the test prefix
func cleanupRedis(t *testing.T, cfg *RedisConfig) {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: cfg.Address, DB: cfg.DB})
	defer func() { _ = client.Close() }()

	ctx := context.Background()
	keys, err := client.Keys(ctx, cfg.KeyPrefix+"*").Result()
	if err != nil || len(keys) == 0 {
		return
	}
	_ = client.Del(ctx, keys...).Err()
}

func TestRedisPersistence(t *testing.T) {
	testutil.RunPersistenceSuite(t, func(t *testing.T) persistence.IVoterPersistence {
		return requireRedis(t)
	})
}

func TestRedisPersistence_KeyPrefixIsolation(t *testing.T) {
	a := requireRedis(t)
	defer func() { _ = a.Close() }()
	b := requireRedis(t)
	defer func() { _ = b.Close() }()

	v := testutil.CreateTestVoters(1, 0)[0]
	_, err := a.AppendIdentifier(v)
	require.NoError(t, err)

	count, err := b.CountIdentifiers()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRedisPersistence_Config_Nil(t *testing.T) {
	testLogger, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})

	_, err := NewRedisPersistence(nil, testLogger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nil")
}

func TestRedisPersistence_Config_EmptyAddress(t *testing.T) {
	testLogger, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})

	_, err := NewRedisPersistence(&RedisConfig{Address: ""}, testLogger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}
