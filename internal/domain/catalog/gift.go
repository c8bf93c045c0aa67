package catalog

import (
	"strings"

	"github.com/giftwell/backend/internal/domain/shared"
	"github.com/giftwell/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// GiftItem is read-only reference data describing one orderable gift.
// The cart resolves name and unit price through it when only an
// id+quantity pair is stored.
type GiftItem struct {
	shared.BaseEntity
	Name     string            `json:"name"`
	Price    valueobject.Money `json:"price"`
	Category string            `json:"category"`
	ImageURL string            `json:"image_url"`
}

// NewGiftItem creates a new catalog gift item
func NewGiftItem(name, category, imageURL string, price valueobject.Money) (*GiftItem, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Gift name cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Gift price cannot be negative")
	}

	return &GiftItem{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Price:      price,
		Category:   category,
		ImageURL:   imageURL,
	}, nil
}

// Lookup resolves gift ids against the catalog. Implementations must be
// read-only from the cart's point of view; a miss is reported, never an
// error, so callers can treat it as a defensive no-op.
type Lookup interface {
	Resolve(id uuid.UUID) (*GiftItem, bool)
}

// StaticLookup is an in-memory Lookup over a fixed gift list
type StaticLookup struct {
	items map[uuid.UUID]*GiftItem
}

// NewStaticLookup builds a StaticLookup from the given items
func NewStaticLookup(items []*GiftItem) *StaticLookup {
	m := make(map[uuid.UUID]*GiftItem, len(items))
	for _, item := range items {
		m[item.ID] = item
	}
	return &StaticLookup{items: m}
}

// Resolve returns the gift for the given id, or false on a miss
func (l *StaticLookup) Resolve(id uuid.UUID) (*GiftItem, bool) {
	item, ok := l.items[id]
	return item, ok
}
