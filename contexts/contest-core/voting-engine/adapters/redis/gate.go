package redisadapter

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const gateKeyPrefix = "vote_user:"

// DailyVoteGate marks one free vote per voter per calendar date using Redis
// SET NX with a TTL. The set-if-absent primitive is the whole concurrency
// story; no caller-side locking exists.
type DailyVoteGate struct {
	client *redis.Client
}

func NewDailyVoteGate(client *redis.Client) *DailyVoteGate {
	return &DailyVoteGate{client: client}
}

func (g *DailyVoteGate) MarkVoted(ctx context.Context, voterID string, day string, ttl time.Duration) (bool, error) {
	return g.client.SetNX(ctx, gateKey(voterID, day), "1", ttl).Result()
}

func (g *DailyVoteGate) HasVoted(ctx context.Context, voterID string, day string) (bool, error) {
	err := g.client.Get(ctx, gateKey(voterID, day)).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func gateKey(voterID, day string) string {
	return gateKeyPrefix + voterID + ":date:" + day
}
