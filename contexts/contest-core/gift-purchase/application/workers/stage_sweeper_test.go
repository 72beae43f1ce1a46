package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"votegala/contexts/contest-core/gift-purchase/adapters/memory"
	"votegala/contexts/contest-core/gift-purchase/domain/entities"
	domainerrors "votegala/contexts/contest-core/gift-purchase/domain/errors"
	"votegala/contexts/contest-core/gift-purchase/ports"
)

type recordingCommitter struct {
	commits   []ports.VoteCommit
	committed map[string]bool
}

func (c *recordingCommitter) Commit(_ context.Context, commit ports.VoteCommit) (int64, error) {
	if c.committed == nil {
		c.committed = make(map[string]bool)
	}
	if c.committed[commit.OutTradeNo] {
		return 0, domainerrors.ErrVoteAlreadyCommitted
	}
	c.committed[commit.OutTradeNo] = true
	c.commits = append(c.commits, commit)
	return commit.Reach, nil
}

func stage(t *testing.T, store *memory.Store, tradeNo string, age time.Duration) {
	t.Helper()
	err := store.Put(context.Background(), entities.PendingPurchase{
		TradeNo:     tradeNo,
		GiftID:      "gift_1",
		CandidateID: "cand_1",
		CampaignID:  "camp_1",
		VoterID:     "voter_1",
		Reach:       15,
		AmountMinor: 3000,
		CreatedAt:   store.Now().Add(-age),
	}, 10*time.Minute)
	if err != nil {
		t.Fatalf("stage put failed: %v", err)
	}
}

func TestRunRescuesPaidStaleStages(t *testing.T) {
	store := memory.NewStore()
	store.FixedNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	gateway := memory.NewGateway()
	committer := &recordingCommitter{}
	sweeper := StageSweeper{Staging: store, Gateway: gateway, Committer: committer, MinAge: 5 * time.Minute}

	stage(t, store, "trade_paid", 6*time.Minute)
	stage(t, store, "trade_closed", 6*time.Minute)
	stage(t, store, "trade_pending", 6*time.Minute)
	stage(t, store, "trade_fresh", time.Minute)
	gateway.Orders["trade_paid"] = ports.OrderStatePaid
	gateway.Orders["trade_closed"] = ports.OrderStateClosed
	gateway.Orders["trade_pending"] = ports.OrderStatePending
	gateway.Orders["trade_fresh"] = ports.OrderStatePaid

	rescued, err := sweeper.Run(context.Background())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if rescued != 1 {
		t.Fatalf("expected 1 rescue, got %d", rescued)
	}
	if len(committer.commits) != 1 || committer.commits[0].OutTradeNo != "trade_paid" {
		t.Fatalf("unexpected commits: %+v", committer.commits)
	}

	if _, found, _ := store.Get(context.Background(), "trade_paid"); found {
		t.Fatalf("expected rescued stage deleted")
	}
	if _, found, _ := store.Get(context.Background(), "trade_closed"); found {
		t.Fatalf("expected closed stage deleted")
	}
	if _, found, _ := store.Get(context.Background(), "trade_pending"); !found {
		t.Fatalf("expected pending stage retained")
	}
	if _, found, _ := store.Get(context.Background(), "trade_fresh"); !found {
		t.Fatalf("expected fresh stage untouched")
	}
}

func TestRunAbsorbsAlreadyCommittedStages(t *testing.T) {
	store := memory.NewStore()
	store.FixedNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	gateway := memory.NewGateway()
	committer := &recordingCommitter{committed: map[string]bool{"trade_done": true}}
	sweeper := StageSweeper{Staging: store, Gateway: gateway, Committer: committer, MinAge: 5 * time.Minute}

	stage(t, store, "trade_done", 6*time.Minute)
	gateway.Orders["trade_done"] = ports.OrderStatePaid

	rescued, err := sweeper.Run(context.Background())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if rescued != 0 {
		t.Fatalf("expected no rescue for already-committed trade, got %d", rescued)
	}
	if _, found, _ := store.Get(context.Background(), "trade_done"); found {
		t.Fatalf("expected already-committed stage deleted")
	}
}

type failingCommitter struct{}

func (failingCommitter) Commit(context.Context, ports.VoteCommit) (int64, error) {
	return 0, errors.New("ledger unavailable")
}

func TestRunRetainsStageWhenCommitFails(t *testing.T) {
	store := memory.NewStore()
	store.FixedNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	gateway := memory.NewGateway()
	sweeper := StageSweeper{Staging: store, Gateway: gateway, Committer: failingCommitter{}, MinAge: 5 * time.Minute}

	stage(t, store, "trade_paid", 6*time.Minute)
	gateway.Orders["trade_paid"] = ports.OrderStatePaid

	rescued, err := sweeper.Run(context.Background())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if rescued != 0 {
		t.Fatalf("expected no rescue, got %d", rescued)
	}
	if _, found, _ := store.Get(context.Background(), "trade_paid"); !found {
		t.Fatalf("expected stage retained for the next pass")
	}
}
