package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/giftwell/backend/internal/application/gifting"
	"github.com/giftwell/backend/internal/domain/shared"
	"github.com/giftwell/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPreferenceRepository implements gifting.PreferenceRepository using GORM
type GormPreferenceRepository struct {
	db *gorm.DB
}

// NewGormPreferenceRepository creates a new GormPreferenceRepository
func NewGormPreferenceRepository(db *gorm.DB) *GormPreferenceRepository {
	return &GormPreferenceRepository{db: db}
}

// Get returns the stored value for the given key
func (r *GormPreferenceRepository) Get(ctx context.Context, key string) (json.RawMessage, error) {
	var model models.PreferenceModel
	if err := r.db.WithContext(ctx).First(&model, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return json.RawMessage(model.Value), nil
}

// Set upserts the value for the given key
func (r *GormPreferenceRepository) Set(ctx context.Context, key string, value json.RawMessage) error {
	now := time.Now()
	model := &models.PreferenceModel{
		Key:       key,
		Value:     string(value),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(model).Error
}

// Ensure GormPreferenceRepository implements gifting.PreferenceRepository
var _ gifting.PreferenceRepository = (*GormPreferenceRepository)(nil)
