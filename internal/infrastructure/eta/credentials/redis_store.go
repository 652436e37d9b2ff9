package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	infraeta "github.com/jhoicas/eta-einvoice/internal/infrastructure/eta"
)

const redisKeyPrefix = "eta:token:"

// RedisStore caché compartida entre réplicas. El TTL de la clave es la vigencia del token.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore crea la caché sobre un cliente Redis.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

type redisToken struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (s *RedisStore) Get(ctx context.Context, companyID string) (*infraeta.Token, error) {
	raw, err := s.rdb.Get(ctx, redisKeyPrefix+companyID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var t redisToken
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, nil
	}
	return &infraeta.Token{AccessToken: t.AccessToken, ExpiresAt: t.ExpiresAt}, nil
}

func (s *RedisStore) Set(ctx context.Context, companyID string, tok *infraeta.Token) error {
	ttl := time.Until(tok.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(redisToken{AccessToken: tok.AccessToken, ExpiresAt: tok.ExpiresAt})
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, redisKeyPrefix+companyID, raw, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, companyID string) error {
	return s.rdb.Del(ctx, redisKeyPrefix+companyID).Err()
}
