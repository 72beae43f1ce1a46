package commands

import (
	"context"
	"errors"
	"log/slog"

	application "votegala/contexts/contest-core/gift-purchase/application"
	"votegala/contexts/contest-core/gift-purchase/domain/entities"
	domainerrors "votegala/contexts/contest-core/gift-purchase/domain/errors"
	"votegala/contexts/contest-core/gift-purchase/ports"
)

// ReconcileResult is what the webhook writes back: always an ack body, plus
// markers the tests and logs care about.
type ReconcileResult struct {
	// Ack is the provider-specific response body, returned on every outcome.
	Ack []byte
	// Committed is true when this call materialized a vote event.
	Committed bool
}

// ReconcileUseCase consumes provider notifications and performs the
// exactly-once commit of staged purchases into the vote ledger.
type ReconcileUseCase struct {
	Staging   ports.StagingStore
	Gateway   ports.PaymentGateway
	Committer ports.VoteCommitter
	Logger    *slog.Logger
}

// HandleNotification never returns an internal error to the webhook: the
// provider expects a structured ack either way, and retries on failure acks.
// Failure semantics follow from that: an unexpected commit error leaves the
// stage entry in place and sends a failure ack so the retried notification
// can complete the commit later.
func (uc ReconcileUseCase) HandleNotification(ctx context.Context, raw []byte) ReconcileResult {
	logger := application.ResolveLogger(uc.Logger)

	notification, err := uc.Gateway.ParseNotification(raw)
	if err != nil || !notification.SignatureOK {
		logger.Warn("notification rejected",
			"event", "gift_reconcile_signature_rejected",
			"module", "contest-core/gift-purchase",
			"layer", "application",
			"trade_no", notification.TradeNo,
		)
		return ReconcileResult{Ack: uc.Gateway.BuildAck("signature verification failed", false)}
	}

	if !notification.Succeeded {
		// Provider reports a non-success result; nothing to commit, ack so it
		// stops retrying. The stage entry dies by TTL.
		logger.Info("notification reported non-success",
			"event", "gift_reconcile_not_successful",
			"module", "contest-core/gift-purchase",
			"layer", "application",
			"trade_no", notification.TradeNo,
		)
		return ReconcileResult{Ack: uc.Gateway.BuildAck("OK", true)}
	}

	staged, found, err := uc.Staging.Get(ctx, notification.TradeNo)
	if err != nil {
		logger.Error("stage lookup failed",
			"event", "gift_reconcile_stage_lookup_failed",
			"module", "contest-core/gift-purchase",
			"layer", "application",
			"trade_no", notification.TradeNo,
			"error", err.Error(),
		)
		return ReconcileResult{Ack: uc.Gateway.BuildAck("stage unavailable", false)}
	}
	if !found {
		// Already reconciled or TTL-expired. Success ack stops the retries;
		// a trade number can only ever produce one vote event.
		logger.Info("no stage entry for notification",
			"event", "gift_reconcile_stage_missing",
			"module", "contest-core/gift-purchase",
			"layer", "application",
			"trade_no", notification.TradeNo,
		)
		return ReconcileResult{Ack: uc.Gateway.BuildAck("OK", true)}
	}

	committed, err := uc.commitStaged(ctx, staged)
	if err != nil {
		logger.Error("staged commit failed, stage retained",
			"event", "gift_reconcile_commit_failed",
			"module", "contest-core/gift-purchase",
			"layer", "application",
			"trade_no", staged.TradeNo,
			"error", err.Error(),
		)
		return ReconcileResult{Ack: uc.Gateway.BuildAck("commit failed", false)}
	}

	if derr := uc.Staging.Delete(ctx, staged.TradeNo); derr != nil {
		// The event is committed; a leftover stage entry is harmless because
		// a replayed notification hits the trade-number uniqueness below.
		logger.Warn("stage delete failed after commit",
			"event", "gift_reconcile_stage_delete_failed",
			"module", "contest-core/gift-purchase",
			"layer", "application",
			"trade_no", staged.TradeNo,
			"error", derr.Error(),
		)
	}

	if committed {
		logger.Info("paid vote committed",
			"event", "gift_reconcile_committed",
			"module", "contest-core/gift-purchase",
			"layer", "application",
			"trade_no", staged.TradeNo,
			"candidate_id", staged.CandidateID,
			"reach", staged.Reach,
			"amount_minor", staged.AmountMinor,
		)
	}
	return ReconcileResult{Ack: uc.Gateway.BuildAck("OK", true), Committed: committed}
}

// commitStaged runs the ledger primitive for a staged purchase. A duplicate
// trade number means a concurrent or earlier notification won the race; the
// stage entry is then safe to delete and the ack is success.
func (uc ReconcileUseCase) commitStaged(ctx context.Context, staged entities.PendingPurchase) (bool, error) {
	_, err := uc.Committer.Commit(ctx, ports.VoteCommit{
		CampaignID:    staged.CampaignID,
		CandidateID:   staged.CandidateID,
		VoterID:       staged.VoterID,
		VoterNickname: staged.VoterNickname,
		VoterAvatar:   staged.VoterAvatar,
		Reach:         staged.Reach,
		GiftID:        staged.GiftID,
		GiftName:      staged.GiftName,
		GiftImage:     staged.GiftImage,
		NumberOfGifts: staged.NumberOfGifts,
		AmountMinor:   staged.AmountMinor,
		OutTradeNo:    staged.TradeNo,
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrVoteAlreadyCommitted) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
