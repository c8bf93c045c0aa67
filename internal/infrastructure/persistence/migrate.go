package persistence

import (
	"context"
	"fmt"

	"github.com/giftwell/backend/internal/domain/catalog"
	"github.com/giftwell/backend/internal/domain/shared/valueobject"
	"github.com/giftwell/backend/internal/infrastructure/persistence/models"
)

// AutoMigrate creates or updates the database schema
func (d *Database) AutoMigrate() error {
	return d.DB.AutoMigrate(
		&models.GiftModel{},
		&models.PreferenceModel{},
	)
}

// seedGift describes one default catalog entry
type seedGift struct {
	name     string
	category string
	price    float64
}

var defaultCatalog = []seedGift{
	{"Artisan Chocolate Truffles", "gourmet", 18.50},
	{"Single-Origin Coffee Sampler", "gourmet", 24.00},
	{"Scented Soy Candle", "home", 16.00},
	{"Insulated Travel Tumbler", "drinkware", 22.00},
	{"Leather Journal", "stationery", 28.00},
	{"Wool Throw Blanket", "home", 45.00},
	{"Succulent Planter Kit", "home", 19.50},
	{"Premium Tea Collection", "gourmet", 21.00},
}

// SeedCatalog inserts the default gift catalog if the table is empty.
// An already-populated catalog is left untouched.
func SeedCatalog(ctx context.Context, repo catalog.GiftRepository) error {
	count, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count catalog gifts: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, s := range defaultCatalog {
		gift, err := catalog.NewGiftItem(s.name, s.category, "", valueobject.NewMoneyUSDFromFloat(s.price))
		if err != nil {
			return fmt.Errorf("invalid seed gift %q: %w", s.name, err)
		}
		if err := repo.Save(ctx, gift); err != nil {
			return fmt.Errorf("failed to seed gift %q: %w", s.name, err)
		}
	}
	return nil
}
