package commitlog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lox/fairholdem/internal/deck"
)

const (
	handKeyPrefix = "fairholdem:hand:"
	roomKeyPrefix = "fairholdem:room:"

	entryExpiration = 24 * time.Hour
)

// RedisLog stores each entry as JSON under its hand id and keeps a capped
// list of hand ids per room.
type RedisLog struct {
	client *redis.Client
	limit  int
}

// NewRedisLog wraps a connected client.
func NewRedisLog(client *redis.Client, limit int) *RedisLog {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &RedisLog{client: client, limit: limit}
}

func (r *RedisLog) Commit(ctx context.Context, e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding commitment: %w", err)
	}

	roomKey := roomKeyPrefix + e.RoomID
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, handKeyPrefix+e.HandID, data, entryExpiration)
		pipe.RPush(ctx, roomKey, e.HandID)
		pipe.LTrim(ctx, roomKey, int64(-r.limit), -1)
		pipe.Expire(ctx, roomKey, entryExpiration)
		return nil
	})
	if err != nil {
		return fmt.Errorf("publishing commitment: %w", err)
	}
	return nil
}

func (r *RedisLog) Reveal(ctx context.Context, roomID, handID, seed string, at time.Time) error {
	e, err := r.load(ctx, handID)
	if err != nil {
		return err
	}
	if e.RoomID != roomID {
		return ErrNotFound
	}
	if !deck.VerifyCommitment(seed, e.Commitment) {
		return ErrMismatch
	}

	e.Seed = seed
	e.RevealedAt = &at
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding reveal: %w", err)
	}
	return r.client.Set(ctx, handKeyPrefix+handID, data, redis.KeepTTL).Err()
}

func (r *RedisLog) List(ctx context.Context, roomID string, limit int) ([]Entry, error) {
	start := int64(0)
	if limit > 0 {
		start = int64(-limit)
	}
	ids, err := r.client.LRange(ctx, roomKeyPrefix+roomID, start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("listing commitments: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = handKeyPrefix + id
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("loading commitments: %w", err)
	}

	entries := make([]Entry, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			// expired
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(s), &e); err != nil {
			return nil, fmt.Errorf("decoding commitment: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (r *RedisLog) load(ctx context.Context, handID string) (Entry, error) {
	var e Entry
	data, err := r.client.Get(ctx, handKeyPrefix+handID).Bytes()
	if errors.Is(err, redis.Nil) {
		return e, ErrNotFound
	}
	if err != nil {
		return e, fmt.Errorf("loading commitment: %w", err)
	}
	if err := json.Unmarshal(data, &e); err != nil {
		return e, fmt.Errorf("decoding commitment: %w", err)
	}
	return e, nil
}
