package queries

import (
	"context"
	"testing"
	"time"

	"votegala/contexts/contest-core/voting-engine/adapters/memory"
	"votegala/contexts/contest-core/voting-engine/domain/entities"
	domainerrors "votegala/contexts/contest-core/voting-engine/domain/errors"
	"votegala/contexts/contest-core/voting-engine/ports"
)

func newSeededStore() *memory.Store {
	store := memory.NewStore()
	store.SeedCampaign(entities.Campaign{CampaignID: "camp_1", Title: "Annual Gala", Rules: "one free vote a day"})
	store.SeedCandidate(entities.Candidate{CandidateID: "cand_1", CampaignID: "camp_1", Number: "001", Name: "Ming", NumberOfVotes: 0})
	store.SeedCandidate(entities.Candidate{CandidateID: "cand_2", CampaignID: "camp_1", Number: "002", Name: "Hua", NumberOfVotes: 0})
	return store
}

func commit(t *testing.T, store *memory.Store, voterID string, reach int64, at time.Time) {
	t.Helper()
	_, err := store.CommitVote(context.Background(), entities.VoteEvent{
		CampaignID:  "camp_1",
		CandidateID: "cand_1",
		VoterID:     voterID,
		Reach:       reach,
		CreatedAt:   at,
	})
	if err != nil {
		t.Fatalf("commit for %s failed: %v", voterID, err)
	}
}

func TestCampaignDetailAggregatesAndCountsView(t *testing.T) {
	store := newSeededStore()
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	commit(t, store, "voter_1", 15, base)
	commit(t, store, "voter_2", 1, base.Add(time.Minute))
	uc := ContestUseCase{Ledger: store}

	overview, err := uc.CampaignDetail(context.Background(), "camp_1")
	if err != nil {
		t.Fatalf("campaign detail failed: %v", err)
	}
	if overview.NumberOfCandidates != 2 {
		t.Fatalf("expected 2 candidates, got %d", overview.NumberOfCandidates)
	}
	if overview.NumberOfVotes != 16 {
		t.Fatalf("expected 16 total votes, got %d", overview.NumberOfVotes)
	}
	if overview.Campaign.Views != 1 {
		t.Fatalf("expected 1 view, got %d", overview.Campaign.Views)
	}

	again, _ := uc.CampaignDetail(context.Background(), "camp_1")
	if again.Campaign.Views != 2 {
		t.Fatalf("expected 2 views after second visit, got %d", again.Campaign.Views)
	}
}

func TestVoteEventsNewestFirstWithPaging(t *testing.T) {
	store := newSeededStore()
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		commit(t, store, "voter_1", 1, base.Add(time.Duration(i)*time.Minute))
	}
	uc := ContestUseCase{Ledger: store}

	events, err := uc.VoteEvents(context.Background(), "cand_1", 2, 0)
	if err != nil {
		t.Fatalf("vote events failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if !events[0].CreatedAt.After(events[1].CreatedAt) {
		t.Fatalf("expected newest first, got %v then %v", events[0].CreatedAt, events[1].CreatedAt)
	}

	rest, _ := uc.VoteEvents(context.Background(), "cand_1", 2, 2)
	if len(rest) != 1 {
		t.Fatalf("expected 1 event on second page, got %d", len(rest))
	}

	if _, err := uc.VoteEvents(context.Background(), "ghost", 2, 0); err != domainerrors.ErrCandidateNotFound {
		t.Fatalf("expected ErrCandidateNotFound, got %v", err)
	}
}

func TestContributorRankCompetitionRanking(t *testing.T) {
	store := newSeededStore()
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	// voter_a 30, voter_b 15, voter_c 15, voter_d 1
	commit(t, store, "voter_a", 15, base)
	commit(t, store, "voter_a", 15, base.Add(time.Minute))
	commit(t, store, "voter_b", 15, base.Add(2*time.Minute))
	commit(t, store, "voter_c", 15, base.Add(3*time.Minute))
	commit(t, store, "voter_d", 1, base.Add(4*time.Minute))
	uc := ContestUseCase{Ledger: store}

	scores, err := uc.ContributorRank(context.Background(), "cand_1", 10)
	if err != nil {
		t.Fatalf("contributor rank failed: %v", err)
	}
	if len(scores) != 4 {
		t.Fatalf("expected 4 contributors, got %d", len(scores))
	}

	expected := []struct {
		voterID string
		votes   int64
		rank    int
	}{
		{"voter_a", 30, 1},
		{"voter_b", 15, 2},
		{"voter_c", 15, 2},
		{"voter_d", 1, 4},
	}
	for i, want := range expected {
		got := scores[i]
		if got.VoterID != want.voterID || got.NumberOfVotes != want.votes || got.Rank != want.rank {
			t.Fatalf("position %d: expected %+v, got %+v", i, want, got)
		}
	}
}

func TestContributorRankTruncatesToTop(t *testing.T) {
	store := newSeededStore()
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	commit(t, store, "voter_a", 5, base)
	commit(t, store, "voter_b", 4, base.Add(time.Minute))
	commit(t, store, "voter_c", 3, base.Add(2*time.Minute))
	uc := ContestUseCase{Ledger: store}

	scores, err := uc.ContributorRank(context.Background(), "cand_1", 2)
	if err != nil {
		t.Fatalf("contributor rank failed: %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("expected top 2, got %d", len(scores))
	}
	if scores[0].VoterID != "voter_a" || scores[1].VoterID != "voter_b" {
		t.Fatalf("unexpected order: %+v", scores)
	}
}

func TestCandidatesOrderedByVotes(t *testing.T) {
	store := newSeededStore()
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	if _, err := store.CommitVote(context.Background(), entities.VoteEvent{
		CampaignID: "camp_1", CandidateID: "cand_2", VoterID: "voter_1", Reach: 5, CreatedAt: base,
	}); err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	uc := ContestUseCase{Ledger: store}

	candidates, err := uc.Candidates(context.Background(), "camp_1", ports.OrderByVotes)
	if err != nil {
		t.Fatalf("candidates failed: %v", err)
	}
	if len(candidates) != 2 || candidates[0].CandidateID != "cand_2" {
		t.Fatalf("expected cand_2 first, got %+v", candidates)
	}

	if _, err := uc.Candidates(context.Background(), "ghost", ports.OrderByVotes); err != domainerrors.ErrCampaignNotFound {
		t.Fatalf("expected ErrCampaignNotFound, got %v", err)
	}
}
