package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	application "votegala/contexts/contest-core/gift-purchase/application"
	"votegala/contexts/contest-core/gift-purchase/domain/entities"
	domainerrors "votegala/contexts/contest-core/gift-purchase/domain/errors"
	"votegala/contexts/contest-core/gift-purchase/ports"
)

// StageTTL bounds a pending purchase: a notification arriving after this
// window finds nothing staged and the payment goes unreconciled.
const StageTTL = 10 * time.Minute

// InitiatePurchaseCommand is the write-model input for starting a gift
// purchase.
type InitiatePurchaseCommand struct {
	VoterID       string
	VoterNickname string
	VoterAvatar   string
	// VoterOpenID is the voter's gateway account handle.
	VoterOpenID string
	CandidateID string
	GiftID      string
	Quantity    int64
}

// InitiatePurchaseResult carries the gateway's client payment token and the
// trade number the stage was keyed under.
type InitiatePurchaseResult struct {
	TradeNo     string
	ClientToken ports.ClientToken
}

// PurchaseUseCase validates a purchase, creates the provider charge and
// stages the pending record. No ledger write happens here; the purchase is
// unconfirmed until reconciliation.
type PurchaseUseCase struct {
	Gifts      ports.GiftRepository
	Candidates ports.CandidateDirectory
	Staging    ports.StagingStore
	Gateway    ports.PaymentGateway
	Clock      ports.Clock
	TradeNos   ports.TradeNumberGenerator
	StageTTL   time.Duration
	Logger     *slog.Logger
}

// InitiatePurchase resolves the gift by its own identifier and the candidate
// by theirs, prices the charge, and stages the snapshot only after the
// gateway accepts the charge: a gateway failure must not leave an orphaned
// stage entry.
func (uc PurchaseUseCase) InitiatePurchase(ctx context.Context, cmd InitiatePurchaseCommand) (InitiatePurchaseResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	voterID := strings.TrimSpace(cmd.VoterID)
	candidateID := strings.TrimSpace(cmd.CandidateID)
	giftID := strings.TrimSpace(cmd.GiftID)
	if voterID == "" || candidateID == "" || giftID == "" || cmd.Quantity <= 0 {
		return InitiatePurchaseResult{}, domainerrors.ErrInvalidPurchaseInput
	}

	gift, err := uc.Gifts.GetGift(ctx, giftID)
	if err != nil {
		return InitiatePurchaseResult{}, err
	}
	if gift.Void {
		return InitiatePurchaseResult{}, domainerrors.ErrGiftNotFound
	}
	candidate, err := uc.Candidates.GetCandidate(ctx, candidateID)
	if err != nil {
		return InitiatePurchaseResult{}, err
	}

	amountMinor := gift.PriceMinor * cmd.Quantity
	reach := gift.Reach * cmd.Quantity
	tradeNo := uc.TradeNos.NewTradeNo()

	token, err := uc.Gateway.CreateCharge(ctx, ports.ChargeRequest{
		TradeNo:     tradeNo,
		OpenID:      strings.TrimSpace(cmd.VoterOpenID),
		Description: fmt.Sprintf("%s x%d -> %s", gift.Name, cmd.Quantity, candidate.Name),
		AmountMinor: amountMinor,
	})
	if err != nil {
		logger.Error("gateway charge creation failed",
			"event", "gift_purchase_charge_failed",
			"module", "contest-core/gift-purchase",
			"layer", "application",
			"voter_id", voterID,
			"gift_id", giftID,
			"candidate_id", candidateID,
			"error", err.Error(),
		)
		return InitiatePurchaseResult{}, domainerrors.ErrGatewayUnavailable
	}

	purchase := entities.PendingPurchase{
		TradeNo:       tradeNo,
		GiftID:        gift.GiftID,
		GiftName:      gift.Name,
		GiftImage:     gift.Image,
		CandidateID:   candidate.CandidateID,
		CampaignID:    candidate.CampaignID,
		VoterID:       voterID,
		VoterNickname: strings.TrimSpace(cmd.VoterNickname),
		VoterAvatar:   strings.TrimSpace(cmd.VoterAvatar),
		NumberOfGifts: cmd.Quantity,
		AmountMinor:   amountMinor,
		Reach:         reach,
		CreatedAt:     uc.now(),
	}
	if err := uc.Staging.Put(ctx, purchase, uc.stageTTL()); err != nil {
		// The charge exists but nothing is staged; the notification will find
		// no record and ack without crediting. Same shape as a TTL expiry.
		logger.Error("stage write failed after charge creation",
			"event", "gift_purchase_stage_failed",
			"module", "contest-core/gift-purchase",
			"layer", "application",
			"trade_no", tradeNo,
			"error", err.Error(),
		)
		return InitiatePurchaseResult{}, err
	}

	logger.Info("purchase staged",
		"event", "gift_purchase_staged",
		"module", "contest-core/gift-purchase",
		"layer", "application",
		"trade_no", tradeNo,
		"voter_id", voterID,
		"candidate_id", candidateID,
		"gift_id", giftID,
		"quantity", cmd.Quantity,
		"amount_minor", amountMinor,
		"reach", reach,
	)
	return InitiatePurchaseResult{TradeNo: tradeNo, ClientToken: token}, nil
}

func (uc PurchaseUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func (uc PurchaseUseCase) stageTTL() time.Duration {
	if uc.StageTTL > 0 {
		return uc.StageTTL
	}
	return StageTTL
}
