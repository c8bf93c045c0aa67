package catalog

import (
	"context"

	"github.com/google/uuid"
)

// GiftRepository provides persistence for catalog gift items
type GiftRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*GiftItem, error)
	FindAll(ctx context.Context) ([]*GiftItem, error)
	Save(ctx context.Context, item *GiftItem) error
	Count(ctx context.Context) (int64, error)
}
