package httpadapter

import (
	"context"
	"log/slog"

	"votegala/contexts/contest-core/gift-purchase/application/commands"
	"votegala/contexts/contest-core/gift-purchase/application/queries"
	httptransport "votegala/contexts/contest-core/gift-purchase/transport/http"
)

type Handler struct {
	Purchases commands.PurchaseUseCase
	Reconcile commands.ReconcileUseCase
	Catalog   commands.CatalogUseCase
	Listing   queries.CatalogUseCase
	Logger    *slog.Logger
}

// BuyerIdentity is the authenticated caller as resolved by the HTTP layer.
type BuyerIdentity struct {
	VoterID  string
	Nickname string
	Avatar   string
	OpenID   string
}

func (h Handler) PurchaseGiftHandler(ctx context.Context, buyer BuyerIdentity, candidateID string, req httptransport.PurchaseGiftRequest) (httptransport.PurchaseGiftResponse, error) {
	result, err := h.Purchases.InitiatePurchase(ctx, commands.InitiatePurchaseCommand{
		VoterID:       buyer.VoterID,
		VoterNickname: buyer.Nickname,
		VoterAvatar:   buyer.Avatar,
		VoterOpenID:   buyer.OpenID,
		CandidateID:   candidateID,
		GiftID:        req.GiftID,
		Quantity:      req.Quantity,
	})
	if err != nil {
		return httptransport.PurchaseGiftResponse{}, err
	}
	return httptransport.PurchaseGiftResponse{
		TradeNo: result.TradeNo,
		Payment: result.ClientToken,
	}, nil
}

// NotifyHandler never errors: the webhook body is an ack on every outcome.
func (h Handler) NotifyHandler(ctx context.Context, raw []byte) []byte {
	return h.Reconcile.HandleNotification(ctx, raw).Ack
}

func (h Handler) ListGiftsHandler(ctx context.Context) (httptransport.GiftListResponse, error) {
	gifts, err := h.Listing.ListGifts(ctx)
	if err != nil {
		return httptransport.GiftListResponse{}, err
	}
	items := make([]httptransport.GiftItem, 0, len(gifts))
	for _, gift := range gifts {
		items = append(items, httptransport.GiftItem{
			GiftID:     gift.GiftID,
			Name:       gift.Name,
			Image:      gift.Image,
			PriceMinor: gift.PriceMinor,
			Reach:      gift.Reach,
		})
	}
	return httptransport.GiftListResponse{Items: items}, nil
}

func (h Handler) CreateGiftHandler(ctx context.Context, req httptransport.CreateGiftRequest) (httptransport.GiftItem, error) {
	gift, err := h.Catalog.CreateGift(ctx, commands.CreateGiftCommand{
		Name:       req.Name,
		Image:      req.Image,
		PriceMinor: req.PriceMinor,
		Reach:      req.Reach,
	})
	if err != nil {
		return httptransport.GiftItem{}, err
	}
	return httptransport.GiftItem{
		GiftID:     gift.GiftID,
		Name:       gift.Name,
		Image:      gift.Image,
		PriceMinor: gift.PriceMinor,
		Reach:      gift.Reach,
	}, nil
}

func (h Handler) VoidGiftHandler(ctx context.Context, giftID string) error {
	return h.Catalog.VoidGift(ctx, giftID)
}
