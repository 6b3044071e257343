package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisKeyPrefix = "call_session:"

type redisStore struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisStore keeps sessions in redis with a TTL refreshed on every
// save, so eviction needs no sweeper of its own.
func NewRedisStore(rdb *redis.Client, ttl time.Duration, logger ...*zap.Logger) Store {
	l := zap.L().Named("session.redis")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("session.redis")
	}
	return &redisStore{rdb: rdb, ttl: ttl, logger: l}
}

func sessionKey(callID string) string {
	return redisKeyPrefix + callID
}

func (r *redisStore) GetOrCreate(ctx context.Context, callID string) (*Session, error) {
	raw, err := r.rdb.Get(ctx, sessionKey(callID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &Session{CallID: callID, UpdatedAt: time.Now().UTC()}, nil
		}
		r.logger.Error("session read failed",
			zap.String("call_id", callID),
			zap.Error(err),
		)
		return nil, err
	}

	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		// A garbled value behaves like a fresh call rather than
		// blocking the conversation.
		r.logger.Warn("session value corrupt, starting fresh",
			zap.String("call_id", callID),
			zap.Error(err),
		)
		return &Session{CallID: callID, UpdatedAt: time.Now().UTC()}, nil
	}
	return &s, nil
}

func (r *redisStore) Save(ctx context.Context, s *Session) error {
	s.UpdatedAt = time.Now().UTC()

	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}

	if err := r.rdb.Set(ctx, sessionKey(s.CallID), raw, r.ttl).Err(); err != nil {
		r.logger.Error("session write failed",
			zap.String("call_id", s.CallID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (r *redisStore) Remove(ctx context.Context, callID string) error {
	return r.rdb.Del(ctx, sessionKey(callID)).Err()
}
