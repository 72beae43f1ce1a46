package commands

import (
	"context"
	"testing"

	"votegala/contexts/contest-core/gift-purchase/adapters/memory"
	"votegala/contexts/contest-core/gift-purchase/domain/entities"
	domainerrors "votegala/contexts/contest-core/gift-purchase/domain/errors"
)

func TestCreateGiftAndVoid(t *testing.T) {
	store := memory.NewStore()
	uc := CatalogUseCase{Gifts: store, Clock: store, IDGen: store}

	gift, err := uc.CreateGift(context.Background(), CreateGiftCommand{
		Name:       "Rose",
		Image:      "rose.png",
		PriceMinor: 1000,
		Reach:      5,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if gift.GiftID == "" || gift.PriceMinor != 1000 || gift.Reach != 5 {
		t.Fatalf("unexpected gift: %+v", gift)
	}

	gifts, err := store.ListGifts(context.Background())
	if err != nil || len(gifts) != 1 {
		t.Fatalf("expected 1 active gift, got %d (err=%v)", len(gifts), err)
	}

	if err := uc.VoidGift(context.Background(), gift.GiftID); err != nil {
		t.Fatalf("void failed: %v", err)
	}
	gifts, _ = store.ListGifts(context.Background())
	if len(gifts) != 0 {
		t.Fatalf("expected no active gifts after void, got %d", len(gifts))
	}

	// Voided gifts stay resolvable for existing references.
	voided, err := store.GetGift(context.Background(), gift.GiftID)
	if err != nil || !voided.Void {
		t.Fatalf("expected resolvable voided gift, got %+v (err=%v)", voided, err)
	}
}

func TestCreateGiftValidatesInput(t *testing.T) {
	store := memory.NewStore()
	uc := CatalogUseCase{Gifts: store, Clock: store, IDGen: store}

	cases := []CreateGiftCommand{
		{Name: "", PriceMinor: 1000, Reach: 5},
		{Name: "Rose", PriceMinor: 0, Reach: 5},
		{Name: "Rose", PriceMinor: 1000, Reach: 0},
	}
	for i, cmd := range cases {
		if _, err := uc.CreateGift(context.Background(), cmd); err != domainerrors.ErrInvalidGiftInput {
			t.Fatalf("case %d: expected ErrInvalidGiftInput, got %v", i, err)
		}
	}
}

func TestVoidGiftUnknown(t *testing.T) {
	store := memory.NewStore()
	uc := CatalogUseCase{Gifts: store, Clock: store, IDGen: store}
	store.SeedGift(entities.Gift{GiftID: "gift_1", Name: "Rose", PriceMinor: 100, Reach: 1})

	if err := uc.VoidGift(context.Background(), "ghost"); err != domainerrors.ErrGiftNotFound {
		t.Fatalf("expected ErrGiftNotFound, got %v", err)
	}
}
