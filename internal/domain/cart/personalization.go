package cart

import (
	"github.com/shopspring/decimal"
)

// AddOnAxis identifies one independently priced personalization option
// slot. A box holds at most one selection per axis.
type AddOnAxis string

const (
	AxisRibbonColor AddOnAxis = "RIBBON_COLOR"
	AxisRibbonStyle AddOnAxis = "RIBBON_STYLE"
	AxisCardStyle   AddOnAxis = "CARD_STYLE"
	AxisPackaging   AddOnAxis = "PACKAGING"
)

// axisOrder fixes the fold order so derived state is deterministic
var axisOrder = []AddOnAxis{AxisRibbonColor, AxisRibbonStyle, AxisCardStyle, AxisPackaging}

// IsValid checks if the axis is a known AddOnAxis
func (a AddOnAxis) IsValid() bool {
	switch a {
	case AxisRibbonColor, AxisRibbonStyle, AxisCardStyle, AxisPackaging:
		return true
	}
	return false
}

// String returns the string representation of AddOnAxis
func (a AddOnAxis) String() string {
	return string(a)
}

// AddOn is one selected personalization option with its price delta
type AddOn struct {
	Axis  AddOnAxis       `json:"axis"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Personalization holds the selected add-ons (at most one per axis) and
// the gift message. AddOnsCost is derived: it equals the sum over all
// currently selected add-on prices and is refolded whenever any axis
// changes.
type Personalization struct {
	AddOns     []AddOn         `json:"add_ons"`
	Message    string          `json:"message"`
	AddOnsCost decimal.Decimal `json:"add_ons_cost"`
}

// NewPersonalization returns an empty personalization
func NewPersonalization() Personalization {
	return Personalization{
		AddOns:     make([]AddOn, 0),
		AddOnsCost: decimal.Zero,
	}
}

// selected returns the add-on for the given axis, if any
func (p *Personalization) selected(axis AddOnAxis) (AddOn, bool) {
	for _, a := range p.AddOns {
		if a.Axis == axis {
			return a, true
		}
	}
	return AddOn{}, false
}

// setAddOn replaces the selection on one axis and refolds the cost
func (p *Personalization) setAddOn(addOn AddOn) {
	kept := make([]AddOn, 0, len(p.AddOns)+1)
	for _, a := range p.AddOns {
		if a.Axis != addOn.Axis {
			kept = append(kept, a)
		}
	}
	p.AddOns = kept
	// reinsert in fixed axis order
	ordered := make([]AddOn, 0, len(p.AddOns)+1)
	for _, axis := range axisOrder {
		if axis == addOn.Axis {
			ordered = append(ordered, addOn)
			continue
		}
		if existing, ok := p.selected(axis); ok {
			ordered = append(ordered, existing)
		}
	}
	p.AddOns = ordered
	p.refoldCost()
}

// clearAddOn removes the selection on one axis and refolds the cost
func (p *Personalization) clearAddOn(axis AddOnAxis) {
	kept := make([]AddOn, 0, len(p.AddOns))
	for _, a := range p.AddOns {
		if a.Axis != axis {
			kept = append(kept, a)
		}
	}
	p.AddOns = kept
	p.refoldCost()
}

// refoldCost recomputes AddOnsCost as a single fold over the selection
func (p *Personalization) refoldCost() {
	cost := decimal.Zero
	for _, a := range p.AddOns {
		cost = cost.Add(a.Price)
	}
	p.AddOnsCost = cost
}
