package cart

import (
	"fmt"

	"github.com/giftwell/backend/internal/domain/catalog"
	"github.com/giftwell/backend/internal/domain/shared"
	"github.com/giftwell/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BoxKind distinguishes preset catalog boxes from custom-built ones
type BoxKind string

const (
	BoxKindPreset BoxKind = "PRESET"
	BoxKindCustom BoxKind = "CUSTOM"
)

// IsValid checks if the kind is a valid BoxKind
func (k BoxKind) IsValid() bool {
	return k == BoxKindPreset || k == BoxKindCustom
}

// GiftLine is one gift inside a box. Name and unit price are captured at
// resolution time so a line stays priceable without a catalog round-trip.
// A line with quantity <= 0 never exists; it is removed instead.
type GiftLine struct {
	GiftID    uuid.UUID       `json:"gift_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// Amount returns unit price times quantity
func (l GiftLine) Amount() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Box is one selected gift box: a base price, ordered gift lines,
// personalization selections, and an optional capacity ceiling on the
// summed gift-line quantity. Boxes built through the capacity-bound
// packaging flow carry a capacity; plain catalog selections carry none.
type Box struct {
	shared.BaseEntity
	Name            string          `json:"name"`
	Kind            BoxKind         `json:"kind"`
	Size            string          `json:"size"`
	Theme           string          `json:"theme"`
	BasePrice       decimal.Decimal `json:"base_price"`
	Lines           []GiftLine      `json:"lines"`
	Personalization Personalization `json:"personalization"`
	Capacity        *int            `json:"capacity,omitempty"`
}

// NewPresetBox creates a box selected from the preset catalog flow.
// Preset boxes carry no capacity ceiling.
func NewPresetBox(name, size, theme string, basePrice valueobject.Money) (*Box, error) {
	return newBox(name, size, theme, BoxKindPreset, basePrice, nil)
}

// NewCustomBox creates a box built from scratch. A positive capacity
// binds the box to the packaging flow's ceiling on total gift quantity;
// capacity <= 0 means unbound.
func NewCustomBox(name, size, theme string, basePrice valueobject.Money, capacity int) (*Box, error) {
	var ceiling *int
	if capacity > 0 {
		ceiling = &capacity
	}
	return newBox(name, size, theme, BoxKindCustom, basePrice, ceiling)
}

func newBox(name, size, theme string, kind BoxKind, basePrice valueobject.Money, capacity *int) (*Box, error) {
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Box name cannot be empty")
	}
	if basePrice.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Box base price cannot be negative")
	}

	return &Box{
		BaseEntity:      shared.NewBaseEntity(),
		Name:            name,
		Kind:            kind,
		Size:            size,
		Theme:           theme,
		BasePrice:       basePrice.Amount(),
		Lines:           make([]GiftLine, 0),
		Personalization: NewPersonalization(),
		Capacity:        capacity,
	}, nil
}

// AddOrUpdateGift sets the quantity for one gift line. Quantity <= 0
// removes the line entirely. When the box has a capacity, the call is
// all-or-nothing: it fails with CAPACITY_EXCEEDED if the summed quantity
// across all lines would exceed the ceiling, leaving every line as it was.
func (b *Box) AddOrUpdateGift(gift *catalog.GiftItem, quantity int) error {
	if quantity <= 0 {
		b.removeLine(gift.ID)
		b.Touch()
		return nil
	}

	if b.Capacity != nil {
		projected := quantity
		for _, line := range b.Lines {
			if line.GiftID != gift.ID {
				projected += line.Quantity
			}
		}
		if projected > *b.Capacity {
			return shared.NewDomainError("CAPACITY_EXCEEDED",
				fmt.Sprintf("Box capacity of %d items would be exceeded", *b.Capacity))
		}
	}

	for idx := range b.Lines {
		if b.Lines[idx].GiftID == gift.ID {
			b.Lines[idx].Quantity = quantity
			b.Touch()
			return nil
		}
	}

	b.Lines = append(b.Lines, GiftLine{
		GiftID:    gift.ID,
		Name:      gift.Name,
		UnitPrice: gift.Price.Amount(),
		Quantity:  quantity,
	})
	b.Touch()
	return nil
}

func (b *Box) removeLine(giftID uuid.UUID) {
	for idx, line := range b.Lines {
		if line.GiftID == giftID {
			b.Lines = append(b.Lines[:idx], b.Lines[idx+1:]...)
			return
		}
	}
}

// TotalQuantity returns the summed quantity across all gift lines
func (b *Box) TotalQuantity() int {
	total := 0
	for _, line := range b.Lines {
		total += line.Quantity
	}
	return total
}

// Line returns the gift line for the given gift id
func (b *Box) Line(giftID uuid.UUID) (GiftLine, bool) {
	for _, line := range b.Lines {
		if line.GiftID == giftID {
			return line, true
		}
	}
	return GiftLine{}, false
}

// SetAddOn replaces the personalization selection on one axis.
// AddOnsCost is refolded immediately, not at a later save step.
func (b *Box) SetAddOn(axis AddOnAxis, name string, price valueobject.Money) error {
	if !axis.IsValid() {
		return shared.NewDomainError("VALIDATION_ERROR", "Unknown personalization axis: "+string(axis))
	}
	if price.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Add-on price cannot be negative")
	}

	b.Personalization.setAddOn(AddOn{Axis: axis, Name: name, Price: price.Amount()})
	b.Touch()
	return nil
}

// ClearAddOn removes the selection on one axis and refolds the cost
func (b *Box) ClearAddOn(axis AddOnAxis) error {
	if !axis.IsValid() {
		return shared.NewDomainError("VALIDATION_ERROR", "Unknown personalization axis: "+string(axis))
	}
	b.Personalization.clearAddOn(axis)
	b.Touch()
	return nil
}

// SetMessage sets the gift message
func (b *Box) SetMessage(message string) {
	b.Personalization.Message = message
	b.Touch()
}

// AddOnsCost returns the derived personalization cost
func (b *Box) AddOnsCost() decimal.Decimal {
	return b.Personalization.AddOnsCost
}
