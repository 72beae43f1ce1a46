package commands

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	giftmemory "votegala/contexts/contest-core/gift-purchase/adapters/memory"
	"votegala/contexts/contest-core/gift-purchase/domain/entities"
	domainerrors "votegala/contexts/contest-core/gift-purchase/domain/errors"
	"votegala/contexts/contest-core/gift-purchase/ports"
	votingmemory "votegala/contexts/contest-core/voting-engine/adapters/memory"
	votingentities "votegala/contexts/contest-core/voting-engine/domain/entities"
	votingerrors "votegala/contexts/contest-core/voting-engine/domain/errors"
)

// ledgerCommitter drives the real in-memory ledger, translating its duplicate
// sentinel the way the composition root does.
type ledgerCommitter struct {
	ledger *votingmemory.Store
}

func (c ledgerCommitter) Commit(ctx context.Context, commit ports.VoteCommit) (int64, error) {
	tally, err := c.ledger.CommitVote(ctx, votingentities.VoteEvent{
		CampaignID:    commit.CampaignID,
		CandidateID:   commit.CandidateID,
		VoterID:       commit.VoterID,
		VoterNickname: commit.VoterNickname,
		VoterAvatar:   commit.VoterAvatar,
		Reach:         commit.Reach,
		GiftID:        commit.GiftID,
		GiftName:      commit.GiftName,
		GiftImage:     commit.GiftImage,
		NumberOfGifts: commit.NumberOfGifts,
		AmountMinor:   commit.AmountMinor,
		OutTradeNo:    commit.OutTradeNo,
	})
	if errors.Is(err, votingerrors.ErrDuplicateVoteEvent) {
		return 0, domainerrors.ErrVoteAlreadyCommitted
	}
	return tally, err
}

type failingCommitter struct{}

func (failingCommitter) Commit(context.Context, ports.VoteCommit) (int64, error) {
	return 0, errors.New("ledger unavailable")
}

func stagePurchase(t *testing.T, store *giftmemory.Store, tradeNo string) {
	t.Helper()
	err := store.Put(context.Background(), entities.PendingPurchase{
		TradeNo:       tradeNo,
		GiftID:        "gift_1",
		GiftName:      "Rose",
		CandidateID:   "cand_1",
		CampaignID:    "camp_1",
		VoterID:       "voter_1",
		NumberOfGifts: 3,
		AmountMinor:   3000,
		Reach:         15,
		CreatedAt:     time.Now().UTC(),
	}, 10*time.Minute)
	if err != nil {
		t.Fatalf("stage put failed: %v", err)
	}
}

func newReconcileFixture() (*giftmemory.Store, *votingmemory.Store, *giftmemory.Gateway, ReconcileUseCase) {
	store := giftmemory.NewStore()
	ledger := votingmemory.NewStore()
	ledger.SeedCampaign(votingentities.Campaign{CampaignID: "camp_1", Title: "Annual Gala"})
	ledger.SeedCandidate(votingentities.Candidate{CandidateID: "cand_1", CampaignID: "camp_1", Name: "Ming"})
	gateway := giftmemory.NewGateway()
	uc := ReconcileUseCase{
		Staging:   store,
		Gateway:   gateway,
		Committer: ledgerCommitter{ledger: ledger},
	}
	return store, ledger, gateway, uc
}

func ackIsSuccess(ack []byte) bool {
	return strings.Contains(string(ack), "SUCCESS")
}

func TestHandleNotificationCommitsStagedPurchase(t *testing.T) {
	store, ledger, gateway, uc := newReconcileFixture()
	stagePurchase(t, store, "trade_1")

	result := uc.HandleNotification(context.Background(), gateway.Notification("trade_1", "SUCCESS", true))
	if !result.Committed {
		t.Fatalf("expected a commit")
	}
	if !ackIsSuccess(result.Ack) {
		t.Fatalf("expected success ack, got %s", result.Ack)
	}

	candidate, err := ledger.GetCandidate(context.Background(), "cand_1")
	if err != nil {
		t.Fatalf("get candidate failed: %v", err)
	}
	if candidate.NumberOfVotes != 15 {
		t.Fatalf("expected tally 15, got %d", candidate.NumberOfVotes)
	}

	events, _ := ledger.ListVoteEvents(context.Background(), "cand_1", 10, 0)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	event := events[0]
	if !event.IsGift() || event.OutTradeNo != "trade_1" || event.AmountMinor != 3000 || event.NumberOfGifts != 3 {
		t.Fatalf("unexpected event: %+v", event)
	}

	if _, found, _ := store.Get(context.Background(), "trade_1"); found {
		t.Fatalf("expected stage entry to be consumed")
	}
}

func TestHandleNotificationIsIdempotent(t *testing.T) {
	store, ledger, gateway, uc := newReconcileFixture()
	stagePurchase(t, store, "trade_1")

	raw := gateway.Notification("trade_1", "SUCCESS", true)
	first := uc.HandleNotification(context.Background(), raw)
	second := uc.HandleNotification(context.Background(), raw)

	if !first.Committed || second.Committed {
		t.Fatalf("expected exactly one commit, got first=%v second=%v", first.Committed, second.Committed)
	}
	if !ackIsSuccess(second.Ack) {
		t.Fatalf("expected success ack on replay, got %s", second.Ack)
	}

	candidate, _ := ledger.GetCandidate(context.Background(), "cand_1")
	if candidate.NumberOfVotes != 15 {
		t.Fatalf("expected tally 15 after replay, got %d", candidate.NumberOfVotes)
	}
	events, _ := ledger.ListVoteEvents(context.Background(), "cand_1", 10, 0)
	if len(events) != 1 {
		t.Fatalf("expected 1 event after replay, got %d", len(events))
	}
}

func TestHandleNotificationReplayAgainstRetainedStage(t *testing.T) {
	// Stage delete happening after commit means a replay can find the entry
	// still present. The trade-number uniqueness must hold the line.
	store, ledger, gateway, uc := newReconcileFixture()
	stagePurchase(t, store, "trade_1")

	first := uc.HandleNotification(context.Background(), gateway.Notification("trade_1", "SUCCESS", true))
	if !first.Committed {
		t.Fatalf("expected a commit")
	}

	stagePurchase(t, store, "trade_1")
	second := uc.HandleNotification(context.Background(), gateway.Notification("trade_1", "SUCCESS", true))
	if second.Committed {
		t.Fatalf("expected replay to be absorbed")
	}
	if !ackIsSuccess(second.Ack) {
		t.Fatalf("expected success ack, got %s", second.Ack)
	}
	candidate, _ := ledger.GetCandidate(context.Background(), "cand_1")
	if candidate.NumberOfVotes != 15 {
		t.Fatalf("expected tally unchanged at 15, got %d", candidate.NumberOfVotes)
	}
	if _, found, _ := store.Get(context.Background(), "trade_1"); found {
		t.Fatalf("expected retained stage to be cleaned up on replay")
	}
}

func TestHandleNotificationRejectsBadSignature(t *testing.T) {
	store, ledger, gateway, uc := newReconcileFixture()
	stagePurchase(t, store, "trade_1")

	result := uc.HandleNotification(context.Background(), gateway.Notification("trade_1", "SUCCESS", false))
	if result.Committed {
		t.Fatalf("expected no commit on bad signature")
	}
	if ackIsSuccess(result.Ack) {
		t.Fatalf("expected failure ack, got %s", result.Ack)
	}

	candidate, _ := ledger.GetCandidate(context.Background(), "cand_1")
	if candidate.NumberOfVotes != 0 {
		t.Fatalf("expected tally 0, got %d", candidate.NumberOfVotes)
	}
	if _, found, _ := store.Get(context.Background(), "trade_1"); !found {
		t.Fatalf("expected stage entry to survive a rejected notification")
	}
}

func TestHandleNotificationMalformedPayload(t *testing.T) {
	_, ledger, _, uc := newReconcileFixture()

	result := uc.HandleNotification(context.Background(), []byte("not a notification"))
	if result.Committed || ackIsSuccess(result.Ack) {
		t.Fatalf("expected failure ack without commit, got %+v", result)
	}
	candidate, _ := ledger.GetCandidate(context.Background(), "cand_1")
	if candidate.NumberOfVotes != 0 {
		t.Fatalf("expected tally 0, got %d", candidate.NumberOfVotes)
	}
}

func TestHandleNotificationUnknownTradeNo(t *testing.T) {
	_, ledger, gateway, uc := newReconcileFixture()

	result := uc.HandleNotification(context.Background(), gateway.Notification("trade_missing", "SUCCESS", true))
	if result.Committed {
		t.Fatalf("expected no commit without a stage entry")
	}
	if !ackIsSuccess(result.Ack) {
		t.Fatalf("expected success ack to stop retries, got %s", result.Ack)
	}
	candidate, _ := ledger.GetCandidate(context.Background(), "cand_1")
	if candidate.NumberOfVotes != 0 {
		t.Fatalf("expected tally 0, got %d", candidate.NumberOfVotes)
	}
}

func TestHandleNotificationNonSuccessResult(t *testing.T) {
	store, ledger, gateway, uc := newReconcileFixture()
	stagePurchase(t, store, "trade_1")

	result := uc.HandleNotification(context.Background(), gateway.Notification("trade_1", "FAIL", true))
	if result.Committed {
		t.Fatalf("expected no commit on non-success result")
	}
	if !ackIsSuccess(result.Ack) {
		t.Fatalf("expected success ack, got %s", result.Ack)
	}
	candidate, _ := ledger.GetCandidate(context.Background(), "cand_1")
	if candidate.NumberOfVotes != 0 {
		t.Fatalf("expected tally 0, got %d", candidate.NumberOfVotes)
	}
	if _, found, _ := store.Get(context.Background(), "trade_1"); !found {
		t.Fatalf("expected stage entry left for its TTL")
	}
}

func TestHandleNotificationCommitFailureRetainsStage(t *testing.T) {
	store := giftmemory.NewStore()
	gateway := giftmemory.NewGateway()
	uc := ReconcileUseCase{Staging: store, Gateway: gateway, Committer: failingCommitter{}}
	stagePurchase(t, store, "trade_1")

	result := uc.HandleNotification(context.Background(), gateway.Notification("trade_1", "SUCCESS", true))
	if result.Committed || ackIsSuccess(result.Ack) {
		t.Fatalf("expected failure ack without commit, got %+v", result)
	}
	if _, found, _ := store.Get(context.Background(), "trade_1"); !found {
		t.Fatalf("expected stage entry retained for the provider retry")
	}
}
