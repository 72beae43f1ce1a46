package memory

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sort"
	"strings"
	"sync"
	"time"

	"votegala/contexts/contest-core/gift-purchase/domain/entities"
	domainerrors "votegala/contexts/contest-core/gift-purchase/domain/errors"

	"github.com/google/uuid"
)

type stagedRecord struct {
	purchase  entities.PendingPurchase
	expiresAt time.Time
}

// Store implements the gift repository and staging store in memory for tests
// and local wiring. TTL semantics are evaluated lazily on read, the way the
// Redis adapter's backing store does it.
type Store struct {
	mu sync.Mutex

	gifts  map[string]entities.Gift
	staged map[string]stagedRecord

	// FixedNow pins the clock for tests; zero means wall time.
	FixedNow time.Time
}

func NewStore() *Store {
	return &Store{
		gifts:  make(map[string]entities.Gift),
		staged: make(map[string]stagedRecord),
	}
}

func (s *Store) SeedGift(gift entities.Gift) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gifts[strings.TrimSpace(gift.GiftID)] = gift
}

func (s *Store) GetGift(_ context.Context, giftID string) (entities.Gift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gift, ok := s.gifts[giftID]
	if !ok {
		return entities.Gift{}, domainerrors.ErrGiftNotFound
	}
	return gift, nil
}

func (s *Store) ListGifts(_ context.Context) ([]entities.Gift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]entities.Gift, 0, len(s.gifts))
	for _, gift := range s.gifts {
		if !gift.Void {
			items = append(items, gift)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].GiftID < items[j].GiftID })
	return items, nil
}

func (s *Store) CreateGift(_ context.Context, gift entities.Gift) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gifts[gift.GiftID] = gift
	return nil
}

func (s *Store) VoidGift(_ context.Context, giftID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	gift, ok := s.gifts[giftID]
	if !ok {
		return domainerrors.ErrGiftNotFound
	}
	gift.Void = true
	gift.UpdatedAt = s.Now()
	s.gifts[giftID] = gift
	return nil
}

func (s *Store) Put(_ context.Context, purchase entities.PendingPurchase, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged[purchase.TradeNo] = stagedRecord{
		purchase:  purchase,
		expiresAt: s.Now().Add(ttl),
	}
	return nil
}

func (s *Store) Get(_ context.Context, tradeNo string) (entities.PendingPurchase, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.staged[tradeNo]
	if !ok || !record.expiresAt.After(s.Now()) {
		delete(s.staged, tradeNo)
		return entities.PendingPurchase{}, false, nil
	}
	return record.purchase, true, nil
}

func (s *Store) Delete(_ context.Context, tradeNo string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.staged, tradeNo)
	return nil
}

func (s *Store) ListStale(_ context.Context, olderThan time.Duration) ([]entities.PendingPurchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.Now()
	cutoff := now.Add(-olderThan)
	items := make([]entities.PendingPurchase, 0)
	for tradeNo, record := range s.staged {
		if !record.expiresAt.After(now) {
			delete(s.staged, tradeNo)
			continue
		}
		if record.purchase.CreatedAt.Before(cutoff) {
			items = append(items, record.purchase)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].TradeNo < items[j].TradeNo })
	return items, nil
}

func (s *Store) Now() time.Time {
	if !s.FixedNow.IsZero() {
		return s.FixedNow
	}
	return time.Now().UTC()
}

func (s *Store) NewID() string {
	return uuid.NewString()
}

// NewTradeNo mints a 32-hex trade number, the shape the gateway expects.
func (s *Store) NewTradeNo() string {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	return hex.EncodeToString(buf[:])
}
