package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/estate-viewings/internal/httperr"
)

const IdempotencyHeader = "Idempotency-Key"

type CachedResponse struct {
	StatusCode  int    `json:"status_code"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

type IdempotencyStore interface {
	Get(ctx context.Context, key string) (*CachedResponse, bool, error)
	// Reserve marks key as in flight. It reports false when another request
	// already holds it.
	Reserve(ctx context.Context, key string) (bool, error)
	Set(ctx context.Context, key string, resp *CachedResponse) error
	Release(ctx context.Context, key string) error
}

// RedisIdempotencyStore keeps replayable responses in Redis.
type RedisIdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisIdempotencyStore(client *redis.Client, ttl time.Duration) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{
		client: client,
		ttl:    ttl,
		prefix: "idem:",
	}
}

func (s *RedisIdempotencyStore) Get(ctx context.Context, key string) (*CachedResponse, bool, error) {
	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var resp CachedResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false, err
	}
	return &resp, true, nil
}

func (s *RedisIdempotencyStore) Reserve(ctx context.Context, key string) (bool, error) {
	return s.client.SetNX(ctx, s.prefix+key+":lock", "1", time.Minute).Result()
}

func (s *RedisIdempotencyStore) Set(ctx context.Context, key string, resp *CachedResponse) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.prefix+key, raw, s.ttl).Err()
}

func (s *RedisIdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key+":lock").Err()
}

type responseCapture struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (rc *responseCapture) Write(b []byte) (int, error) {
	rc.body.Write(b)
	return rc.ResponseWriter.Write(b)
}

// Idempotency replays the stored response of an earlier request carrying
// the same Idempotency-Key. Only 2xx responses are stored. A nil store
// disables the middleware. Store outages let the request through.
func Idempotency(store IdempotencyStore, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" || store == nil {
			c.Next()
			return
		}
		key = c.Request.Method + ":" + c.Request.URL.Path + ":" + key
		ctx := c.Request.Context()

		cached, found, err := store.Get(ctx, key)
		if err != nil {
			log.Warn("idempotency lookup failed", zap.Error(err))
			c.Next()
			return
		}
		if found {
			c.Header("Idempotent-Replayed", "true")
			c.Data(cached.StatusCode, cached.ContentType, cached.Body)
			c.Abort()
			return
		}

		ok, err := store.Reserve(ctx, key)
		if err != nil {
			log.Warn("idempotency reserve failed", zap.Error(err))
			c.Next()
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusConflict, httperr.HTTPError{
				Code:    "idempotency_key_in_use",
				Message: "a request with this Idempotency-Key is still being processed",
			})
			return
		}
		defer func() {
			if err := store.Release(context.Background(), key); err != nil {
				log.Warn("idempotency release failed", zap.Error(err))
			}
		}()

		capture := &responseCapture{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = capture

		c.Next()

		status := capture.Status()
		if status < 200 || status >= 300 {
			return
		}

		if err := store.Set(context.Background(), key, &CachedResponse{
			StatusCode:  status,
			ContentType: capture.Header().Get("Content-Type"),
			Body:        capture.body.Bytes(),
		}); err != nil {
			log.Warn("idempotency store failed", zap.Error(err))
		}
	}
}
