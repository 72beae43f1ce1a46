package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"votegala/contexts/contest-core/gift-purchase/domain/entities"
	domainerrors "votegala/contexts/contest-core/gift-purchase/domain/errors"

	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&giftModel{})
}

func (r *Repository) GetGift(ctx context.Context, giftID string) (entities.Gift, error) {
	var row giftModel
	err := r.db.WithContext(ctx).
		Where("gift_id = ?", strings.TrimSpace(giftID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Gift{}, domainerrors.ErrGiftNotFound
		}
		return entities.Gift{}, r.logError("gift_repo_get_failed", err, "gift_id", giftID)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListGifts(ctx context.Context) ([]entities.Gift, error) {
	var rows []giftModel
	err := r.db.WithContext(ctx).
		Where("void = ?", false).
		Order("created_at ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("gift_repo_list_failed", err)
	}
	items := make([]entities.Gift, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) CreateGift(ctx context.Context, gift entities.Gift) error {
	row := giftModelFromEntity(gift)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.logError("gift_repo_create_failed", err, "gift_id", gift.GiftID)
	}
	return nil
}

// VoidGift soft-deletes: committed vote events reference gifts by id and the
// row must stay resolvable.
func (r *Repository) VoidGift(ctx context.Context, giftID string) error {
	result := r.db.WithContext(ctx).Model(&giftModel{}).
		Where("gift_id = ?", strings.TrimSpace(giftID)).
		Updates(map[string]any{"void": true, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return r.logError("gift_repo_void_failed", result.Error, "gift_id", giftID)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrGiftNotFound
	}
	return nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	attrs := append([]any{
		"event", event,
		"module", "contest-core/gift-purchase",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("gift repository operation failed", attrs...)
	return err
}

type giftModel struct {
	GiftID     string    `gorm:"column:gift_id;primaryKey"`
	Name       string    `gorm:"column:name"`
	Image      string    `gorm:"column:image"`
	PriceMinor int64     `gorm:"column:price_minor"`
	Reach      int64     `gorm:"column:reach"`
	Void       bool      `gorm:"column:void"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (giftModel) TableName() string {
	return "gifts"
}

func giftModelFromEntity(gift entities.Gift) giftModel {
	return giftModel{
		GiftID:     strings.TrimSpace(gift.GiftID),
		Name:       gift.Name,
		Image:      gift.Image,
		PriceMinor: gift.PriceMinor,
		Reach:      gift.Reach,
		Void:       gift.Void,
		CreatedAt:  gift.CreatedAt,
		UpdatedAt:  gift.UpdatedAt,
	}
}

func (m giftModel) toEntity() entities.Gift {
	return entities.Gift{
		GiftID:     m.GiftID,
		Name:       m.Name,
		Image:      m.Image,
		PriceMinor: m.PriceMinor,
		Reach:      m.Reach,
		Void:       m.Void,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
