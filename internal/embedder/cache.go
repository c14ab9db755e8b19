package embedder

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"

	"codeberg.org/lumina/server/internal/logger"
)

const keyEmbedding = "lumina:embedding:%s:%d:%s"

// NewRedisClient parses url and checks the server answers before returning.
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close() //nolint:errcheck,gosec
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("connected to redis")

	return client, nil
}

// CachedEmbedder memoizes vectors in Redis keyed by model, dimension and a
// digest of the text. Redis failures degrade to calling the inner embedder.
type CachedEmbedder struct {
	inner  Embedder
	client *redis.Client
	ttl    time.Duration
}

func NewCachedEmbedder(inner Embedder, client *redis.Client, ttl time.Duration) *CachedEmbedder {
	return &CachedEmbedder{inner: inner, client: client, ttl: ttl}
}

func (c *CachedEmbedder) Dimension() int {
	return c.inner.Dimension()
}

func (c *CachedEmbedder) Model() string {
	return c.inner.Model()
}

func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := c.key(text)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if vec, ok := decodeVector(raw, c.inner.Dimension()); ok {
			return vec, nil
		}

		logger.Warn("discarding malformed cached embedding", "key", key, "bytes", len(raw))

	case !errors.Is(err, redis.Nil):
		logger.Warn("embedding cache read failed", "error", err)
	}

	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := c.client.Set(ctx, key, encodeVector(vec), c.ttl).Err(); err != nil {
		logger.Warn("embedding cache write failed", "error", err)
	}

	return vec, nil
}

func (c *CachedEmbedder) key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf(keyEmbedding, c.inner.Model(), c.inner.Dimension(), hex.EncodeToString(sum[:]))
}

func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}

	return buf
}

func decodeVector(buf []byte, dimension int) ([]float32, bool) {
	if len(buf) != 4*dimension {
		return nil, false
	}

	vec := make([]float32, dimension)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:]))
	}

	return vec, true
}
