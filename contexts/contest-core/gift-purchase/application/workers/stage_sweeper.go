package workers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	application "votegala/contexts/contest-core/gift-purchase/application"
	domainerrors "votegala/contexts/contest-core/gift-purchase/domain/errors"
	"votegala/contexts/contest-core/gift-purchase/ports"
)

// StageSweeper is the optional hardening pass over stale pending purchases.
// TTL expiry remains the primary cleanup; the sweeper narrows the window
// where a payment succeeds shortly before the stage dies, by asking the
// provider's order-query API and committing anything already paid.
type StageSweeper struct {
	Staging   ports.StagingStore
	Gateway   ports.PaymentGateway
	Committer ports.VoteCommitter
	// MinAge keeps the sweeper off stages the normal notification path is
	// still likely to reconcile.
	MinAge time.Duration
	Logger *slog.Logger
}

// Run executes one sweep pass and returns the number of rescued commits.
func (w StageSweeper) Run(ctx context.Context) (int, error) {
	logger := application.ResolveLogger(w.Logger)
	minAge := w.MinAge
	if minAge <= 0 {
		minAge = 5 * time.Minute
	}

	stale, err := w.Staging.ListStale(ctx, minAge)
	if err != nil {
		return 0, err
	}

	rescued := 0
	for _, staged := range stale {
		state, err := w.Gateway.QueryOrder(ctx, staged.TradeNo)
		if err != nil {
			logger.Warn("order query failed during sweep",
				"event", "gift_sweep_query_failed",
				"module", "contest-core/gift-purchase",
				"layer", "worker",
				"trade_no", staged.TradeNo,
				"error", err.Error(),
			)
			continue
		}

		switch state {
		case ports.OrderStatePaid:
			_, err := w.Committer.Commit(ctx, ports.VoteCommit{
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
			if err != nil && !errors.Is(err, domainerrors.ErrVoteAlreadyCommitted) {
				logger.Error("sweep commit failed, stage retained",
					"event", "gift_sweep_commit_failed",
					"module", "contest-core/gift-purchase",
					"layer", "worker",
					"trade_no", staged.TradeNo,
					"error", err.Error(),
				)
				continue
			}
			if err == nil {
				rescued++
				logger.Info("stale stage rescued",
					"event", "gift_sweep_rescued",
					"module", "contest-core/gift-purchase",
					"layer", "worker",
					"trade_no", staged.TradeNo,
					"candidate_id", staged.CandidateID,
					"reach", staged.Reach,
				)
			}
			if derr := w.Staging.Delete(ctx, staged.TradeNo); derr != nil {
				logger.Warn("stage delete failed during sweep",
					"event", "gift_sweep_delete_failed",
					"module", "contest-core/gift-purchase",
					"layer", "worker",
					"trade_no", staged.TradeNo,
					"error", derr.Error(),
				)
			}
		case ports.OrderStateClosed:
			// The provider closed the order; the stage will never reconcile.
			if derr := w.Staging.Delete(ctx, staged.TradeNo); derr != nil {
				logger.Warn("stage delete failed during sweep",
					"event", "gift_sweep_delete_failed",
					"module", "contest-core/gift-purchase",
					"layer", "worker",
					"trade_no", staged.TradeNo,
					"error", derr.Error(),
				)
			}
		default:
			// Pending or unknown; leave it for the notification path or TTL.
		}
	}
	return rescued, nil
}

// RunEvery loops sweep passes until the context ends.
func (w StageSweeper) RunEvery(ctx context.Context, interval time.Duration) {
	logger := application.ResolveLogger(w.Logger)
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := w.Run(ctx); err != nil {
				logger.Error("sweep pass failed",
					"event", "gift_sweep_pass_failed",
					"module", "contest-core/gift-purchase",
					"layer", "worker",
					"error", err.Error(),
				)
			}
		}
	}
}
