package redisadapter

import (
	"context"
	"strconv"
	"time"

	"votegala/contexts/contest-core/gift-purchase/domain/entities"

	"github.com/redis/go-redis/v9"
)

const stageKeyPrefix = "stage:"

// StagingStore keeps pending purchases in Redis hashes with a TTL, keyed by
// trade number. Single-key atomicity comes from Redis itself; the hash write
// and its expiry travel in one transactional pipeline so no key can outlive
// its TTL assignment.
type StagingStore struct {
	client *redis.Client
}

func NewStagingStore(client *redis.Client) *StagingStore {
	return &StagingStore{client: client}
}

func (s *StagingStore) Put(ctx context.Context, purchase entities.PendingPurchase, ttl time.Duration) error {
	key := stageKeyPrefix + purchase.TradeNo
	fields := map[string]any{
		"trade_no":        purchase.TradeNo,
		"gift_id":         purchase.GiftID,
		"gift_name":       purchase.GiftName,
		"gift_image":      purchase.GiftImage,
		"candidate_id":    purchase.CandidateID,
		"campaign_id":     purchase.CampaignID,
		"voter_id":        purchase.VoterID,
		"voter_nickname":  purchase.VoterNickname,
		"voter_avatar":    purchase.VoterAvatar,
		"number_of_gifts": strconv.FormatInt(purchase.NumberOfGifts, 10),
		"amount_minor":    strconv.FormatInt(purchase.AmountMinor, 10),
		"reach":           strconv.FormatInt(purchase.Reach, 10),
		"created_at":      purchase.CreatedAt.UTC().Format(time.RFC3339Nano),
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *StagingStore) Get(ctx context.Context, tradeNo string) (entities.PendingPurchase, bool, error) {
	fields, err := s.client.HGetAll(ctx, stageKeyPrefix+tradeNo).Result()
	if err != nil {
		return entities.PendingPurchase{}, false, err
	}
	if len(fields) == 0 {
		return entities.PendingPurchase{}, false, nil
	}
	return purchaseFromFields(fields), true, nil
}

func (s *StagingStore) Delete(ctx context.Context, tradeNo string) error {
	return s.client.Del(ctx, stageKeyPrefix+tradeNo).Err()
}

func (s *StagingStore) ListStale(ctx context.Context, olderThan time.Duration) ([]entities.PendingPurchase, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	items := make([]entities.PendingPurchase, 0)

	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, stageKeyPrefix+"*", 100).Result()
		if err != nil {
			return nil, err
		}
		for _, key := range keys {
			fields, err := s.client.HGetAll(ctx, key).Result()
			if err != nil {
				return nil, err
			}
			if len(fields) == 0 {
				continue
			}
			purchase := purchaseFromFields(fields)
			if purchase.CreatedAt.Before(cutoff) {
				items = append(items, purchase)
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return items, nil
}

func purchaseFromFields(fields map[string]string) entities.PendingPurchase {
	purchase := entities.PendingPurchase{
		TradeNo:       fields["trade_no"],
		GiftID:        fields["gift_id"],
		GiftName:      fields["gift_name"],
		GiftImage:     fields["gift_image"],
		CandidateID:   fields["candidate_id"],
		CampaignID:    fields["campaign_id"],
		VoterID:       fields["voter_id"],
		VoterNickname: fields["voter_nickname"],
		VoterAvatar:   fields["voter_avatar"],
	}
	purchase.NumberOfGifts, _ = strconv.ParseInt(fields["number_of_gifts"], 10, 64)
	purchase.AmountMinor, _ = strconv.ParseInt(fields["amount_minor"], 10, 64)
	purchase.Reach, _ = strconv.ParseInt(fields["reach"], 10, 64)
	if ts, err := time.Parse(time.RFC3339Nano, fields["created_at"]); err == nil {
		purchase.CreatedAt = ts
	}
	return purchase
}
