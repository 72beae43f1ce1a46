package queries

import (
	"context"

	"votegala/contexts/contest-core/gift-purchase/domain/entities"
	"votegala/contexts/contest-core/gift-purchase/ports"
)

type CatalogUseCase struct {
	Gifts ports.GiftRepository
}

// ListGifts returns the purchasable catalog; voided gifts stay out of the
// listing but remain resolvable for historical events.
func (uc CatalogUseCase) ListGifts(ctx context.Context) ([]entities.Gift, error) {
	return uc.Gifts.ListGifts(ctx)
}
