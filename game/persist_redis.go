package game

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

const roundKeyPrefix = "round"

type RedisRoundStateTracker struct {
	rdclient *redis.Client
}

func NewRedisRoundStateTracker(redisURL string, redisPW string, redisDB int) *RedisRoundStateTracker {
	rdclient := redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: redisPW,
		DB:       redisDB,
	})
	return &RedisRoundStateTracker{
		rdclient: rdclient,
	}
}

func roundKey(handID string) string {
	return fmt.Sprintf("%s|%s", roundKeyPrefix, handID)
}

func (r *RedisRoundStateTracker) Load(handID string) (*RoundSnapshot, error) {
	stateBytes, err := r.rdclient.Get(context.Background(), roundKey(handID)).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("Round state for hand: %s is not found", handID)
	} else if err != nil {
		return nil, errors.Wrapf(err, "Failed to load round state for hand: %s", handID)
	}
	return UnmarshalRoundSnapshot(stateBytes)
}

func (r *RedisRoundStateTracker) Save(handID string, state *RoundSnapshot) error {
	stateInBytes, err := state.Marshal()
	if err != nil {
		return err
	}
	err = r.rdclient.Set(context.Background(), roundKey(handID), stateInBytes, 0).Err()
	if err != nil {
		return errors.Wrapf(err, "Failed to save round state for hand: %s", handID)
	}
	return nil
}

func (r *RedisRoundStateTracker) Remove(handID string) error {
	err := r.rdclient.Del(context.Background(), roundKey(handID)).Err()
	if err != nil {
		return errors.Wrapf(err, "Failed to remove round state for hand: %s", handID)
	}
	return nil
}

func (r *RedisRoundStateTracker) Close() error {
	return r.rdclient.Close()
}
