package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Vaishnavigophane/NestAway-backend/internal/models"
)

// RedisStore keeps sessions in Redis so multiple instances can share them.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis at addr and verifies the connection.
func NewRedisStore(addr string, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &RedisStore{client: client, ttl: ttl}, nil
}

func sessionKey(id string) string {
	return "session:" + id
}

func (s *RedisStore) Get(ctx context.Context, id string) (models.SessionUser, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.SessionUser{}, ErrNotFound
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to read session from Redis")
		return models.SessionUser{}, err
	}

	var user models.SessionUser
	if err := json.Unmarshal(data, &user); err != nil {
		return models.SessionUser{}, err
	}
	return user, nil
}

func (s *RedisStore) Put(ctx context.Context, id string, user models.SessionUser) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, sessionKey(id), data, s.ttl).Err(); err != nil {
		log.Error().Err(err).Msg("Failed to write session to Redis")
		return err
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, sessionKey(id)).Err()
}
