package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Cake-Order-Agent/agent/contract"
)

// RedisStore keeps each transcript as a Redis list of JSON exchanges.
type RedisStore struct {
	rdb       redis.Cmdable
	ttl       time.Duration
	keyPrefix string
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(rdb redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl, keyPrefix: defaultStoreKeyPrefix}
}

func (r *RedisStore) key(userID string) string {
	return r.keyPrefix + userID
}

func (r *RedisStore) Load(ctx context.Context, userID string) (*Transcript, error) {
	id, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	key := r.key(id)

	rows, err := r.rdb.LRange(ctx, key, 0, -1).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		log.Error().Err(err).Str("key", key).Msg("failed to load transcript from redis")
		return nil, fmt.Errorf("%w: %v", ErrBackend, err)
	}

	return decodeTranscript(id, rows)
}

func (r *RedisStore) Append(ctx context.Context, userID string, ex contractx.Exchange) error {
	id, err := normalizeUserID(userID)
	if err != nil {
		return err
	}
	key := r.key(id)

	b, err := json.Marshal(ex)
	if err != nil {
		return fmt.Errorf("marshal exchange: %w", err)
	}

	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, b)
		if r.ttl > 0 {
			pipe.Expire(ctx, key, r.ttl)
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to append transcript to redis")
		return fmt.Errorf("%w: %v", ErrBackend, err)
	}
	return nil
}

func decodeTranscript(userID string, rows []string) (*Transcript, error) {
	t := NewTranscript(userID, time.Now())
	for i, row := range rows {
		var ex contractx.Exchange
		if err := json.Unmarshal([]byte(strings.TrimSpace(row)), &ex); err != nil {
			return nil, fmt.Errorf("unmarshal exchange at index %d: %w", i, err)
		}
		t.Exchanges = append(t.Exchanges, ex)
	}
	return t, nil
}
