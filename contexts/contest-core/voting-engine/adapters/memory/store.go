package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"votegala/contexts/contest-core/voting-engine/domain/entities"
	domainerrors "votegala/contexts/contest-core/voting-engine/domain/errors"
	"votegala/contexts/contest-core/voting-engine/ports"

	"github.com/google/uuid"
)

type gateRecord struct {
	expiresAt time.Time
}

// Store is a port-complete in-memory ledger used by tests and local wiring.
// The single mutex stands in for the row lock the postgres adapter takes, so
// concurrent commits observe the same serialization the durable store gives.
type Store struct {
	mu sync.Mutex

	campaigns  map[string]entities.Campaign
	candidates map[string]entities.Candidate
	events     []entities.VoteEvent
	byTradeNo  map[string]string
	gate       map[string]gateRecord

	// FixedNow pins the clock for tests; zero means wall time.
	FixedNow time.Time
}

func NewStore() *Store {
	return &Store{
		campaigns:  make(map[string]entities.Campaign),
		candidates: make(map[string]entities.Candidate),
		byTradeNo:  make(map[string]string),
		gate:       make(map[string]gateRecord),
	}
}

func (s *Store) SeedCampaign(campaign entities.Campaign) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.campaigns[strings.TrimSpace(campaign.CampaignID)] = campaign
}

func (s *Store) SeedCandidate(candidate entities.Candidate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates[strings.TrimSpace(candidate.CandidateID)] = candidate
}

func (s *Store) GetCampaign(_ context.Context, campaignID string) (entities.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	campaign, ok := s.campaigns[campaignID]
	if !ok {
		return entities.Campaign{}, domainerrors.ErrCampaignNotFound
	}
	return campaign, nil
}

func (s *Store) IncrementCampaignViews(_ context.Context, campaignID string) (entities.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	campaign, ok := s.campaigns[campaignID]
	if !ok {
		return entities.Campaign{}, domainerrors.ErrCampaignNotFound
	}
	campaign.Views++
	s.campaigns[campaignID] = campaign
	return campaign, nil
}

func (s *Store) GetCandidate(_ context.Context, candidateID string) (entities.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	candidate, ok := s.candidates[candidateID]
	if !ok {
		return entities.Candidate{}, domainerrors.ErrCandidateNotFound
	}
	return candidate, nil
}

func (s *Store) ListCandidates(_ context.Context, campaignID string, ordering ports.CandidateOrdering) ([]entities.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]entities.Candidate, 0)
	for _, candidate := range s.candidates {
		if campaignID == "" || candidate.CampaignID == campaignID {
			items = append(items, candidate)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		switch ordering {
		case ports.OrderByCreated:
			return items[i].CreatedAt.After(items[j].CreatedAt)
		default:
			if items[i].NumberOfVotes == items[j].NumberOfVotes {
				return items[i].CandidateID < items[j].CandidateID
			}
			return items[i].NumberOfVotes > items[j].NumberOfVotes
		}
	})
	return items, nil
}

func (s *Store) CommitVote(_ context.Context, event entities.VoteEvent) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidate, ok := s.candidates[event.CandidateID]
	if !ok {
		return 0, domainerrors.ErrCandidateNotFound
	}
	if event.OutTradeNo != "" {
		if _, dup := s.byTradeNo[event.OutTradeNo]; dup {
			return 0, domainerrors.ErrDuplicateVoteEvent
		}
	}

	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = s.Now()
	}
	s.events = append(s.events, event)
	if event.OutTradeNo != "" {
		s.byTradeNo[event.OutTradeNo] = event.EventID
	}

	candidate.NumberOfVotes += event.Reach
	candidate.UpdatedAt = event.CreatedAt
	s.candidates[event.CandidateID] = candidate
	return candidate.NumberOfVotes, nil
}

func (s *Store) ListVoteEvents(_ context.Context, candidateID string, limit, offset int) ([]entities.VoteEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]entities.VoteEvent, 0)
	for _, event := range s.events {
		if event.CandidateID == candidateID {
			matched = append(matched, event)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if offset >= len(matched) {
		return []entities.VoteEvent{}, nil
	}
	matched = matched[offset:]
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (s *Store) MarkVoted(_ context.Context, voterID string, day string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := gateKey(voterID, day)
	if record, ok := s.gate[key]; ok && record.expiresAt.After(s.Now()) {
		return false, nil
	}
	s.gate[key] = gateRecord{expiresAt: s.Now().Add(ttl)}
	return true, nil
}

func (s *Store) HasVoted(_ context.Context, voterID string, day string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.gate[gateKey(voterID, day)]
	return ok && record.expiresAt.After(s.Now()), nil
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

func gateKey(voterID, day string) string {
	return voterID + "@" + day
}
