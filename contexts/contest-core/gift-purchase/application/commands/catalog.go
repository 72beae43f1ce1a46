package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"votegala/contexts/contest-core/gift-purchase/domain/entities"
	domainerrors "votegala/contexts/contest-core/gift-purchase/domain/errors"
	"votegala/contexts/contest-core/gift-purchase/ports"
)

// CreateGiftCommand is the admin write-model for adding a catalog entry.
type CreateGiftCommand struct {
	Name       string
	Image      string
	PriceMinor int64
	Reach      int64
}

// CatalogUseCase owns gift catalog writes. Removal is the void flag only;
// rows referenced by vote events must stay resolvable.
type CatalogUseCase struct {
	Gifts  ports.GiftRepository
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func (uc CatalogUseCase) CreateGift(ctx context.Context, cmd CreateGiftCommand) (entities.Gift, error) {
	if strings.TrimSpace(cmd.Name) == "" || cmd.PriceMinor <= 0 || cmd.Reach <= 0 {
		return entities.Gift{}, domainerrors.ErrInvalidGiftInput
	}
	now := uc.now()
	gift := entities.Gift{
		GiftID:     uc.IDGen.NewID(),
		Name:       strings.TrimSpace(cmd.Name),
		Image:      strings.TrimSpace(cmd.Image),
		PriceMinor: cmd.PriceMinor,
		Reach:      cmd.Reach,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.Gifts.CreateGift(ctx, gift); err != nil {
		return entities.Gift{}, err
	}
	return gift, nil
}

func (uc CatalogUseCase) VoidGift(ctx context.Context, giftID string) error {
	return uc.Gifts.VoidGift(ctx, strings.TrimSpace(giftID))
}

func (uc CatalogUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
