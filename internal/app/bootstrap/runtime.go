package bootstrap

import (
	"context"
	"crypto/tls"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/atomnext-intake/internal/chatbot"
	appconfig "github.com/wolfman30/atomnext-intake/internal/config"
	"github.com/wolfman30/atomnext-intake/internal/intake"
	"github.com/wolfman30/atomnext-intake/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// BuildContextKV picks the backing store for wizard context. Without Redis
// the context lives in process memory and is lost on restart.
func BuildContextKV(client *redis.Client, ttl time.Duration, logger *logging.Logger) intake.KeyValue {
	if client == nil {
		if logger != nil {
			logger.Warn("intake context store using memory; set REDIS_ADDR to persist")
		}
		return intake.NewMemoryKV()
	}
	return intake.NewRedisKV(client, ttl, nil)
}

// BuildTranscriptStore returns the chat transcript store for the client.
func BuildTranscriptStore(client *redis.Client, ttl time.Duration) chatbot.TranscriptStore {
	if client == nil {
		return chatbot.NewMemoryTranscript()
	}
	return chatbot.NewRedisTranscript(client, ttl)
}
