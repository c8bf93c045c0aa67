package persistence

import (
	"context"
	"errors"

	"github.com/giftwell/backend/internal/domain/catalog"
	"github.com/giftwell/backend/internal/domain/shared"
	"github.com/giftwell/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormGiftRepository implements catalog.GiftRepository using GORM
type GormGiftRepository struct {
	db *gorm.DB
}

// NewGormGiftRepository creates a new GormGiftRepository
func NewGormGiftRepository(db *gorm.DB) *GormGiftRepository {
	return &GormGiftRepository{db: db}
}

// FindByID finds a gift by its ID
func (r *GormGiftRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.GiftItem, error) {
	var model models.GiftModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll retrieves the full catalog ordered by category and name
func (r *GormGiftRepository) FindAll(ctx context.Context) ([]*catalog.GiftItem, error) {
	var giftModels []models.GiftModel
	if err := r.db.WithContext(ctx).
		Order("category ASC, name ASC").
		Find(&giftModels).Error; err != nil {
		return nil, err
	}

	gifts := make([]*catalog.GiftItem, len(giftModels))
	for i := range giftModels {
		gifts[i] = giftModels[i].ToDomain()
	}
	return gifts, nil
}

// Save inserts or updates a gift
func (r *GormGiftRepository) Save(ctx context.Context, item *catalog.GiftItem) error {
	model := models.GiftModelFromDomain(item)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(model).Error
}

// Count counts catalog gifts
func (r *GormGiftRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.GiftModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormGiftRepository implements catalog.GiftRepository
var _ catalog.GiftRepository = (*GormGiftRepository)(nil)
