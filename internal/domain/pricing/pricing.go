package pricing

import (
	"github.com/giftwell/backend/internal/domain/cart"
	"github.com/shopspring/decimal"
)

// PaymentMethod selects the processing-fee rule at checkout
type PaymentMethod string

const (
	MethodCard         PaymentMethod = "card"
	MethodBankTransfer PaymentMethod = "bank_transfer"
)

// IsValid checks if the method is a known PaymentMethod
func (m PaymentMethod) IsValid() bool {
	return m == MethodCard || m == MethodBankTransfer
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// FeeConfig holds the small fee configuration the engine derives from.
// Card payments pay a percentage of subtotal+shipping+tax; every other
// method pays the flat fee.
type FeeConfig struct {
	TaxRate     decimal.Decimal
	CardFeeRate decimal.Decimal
	FlatFee     decimal.Decimal
}

// DefaultFeeConfig returns the standard 8% tax, 5% card fee, $5 flat fee
func DefaultFeeConfig() FeeConfig {
	return FeeConfig{
		TaxRate:     decimal.NewFromFloat(0.08),
		CardFeeRate: decimal.NewFromFloat(0.05),
		FlatFee:     decimal.NewFromInt(5),
	}
}

// Breakdown is the derived order total. It is never persisted; identical
// inputs always produce an identical breakdown.
type Breakdown struct {
	Method        PaymentMethod   `json:"method"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Shipping      decimal.Decimal `json:"shipping"`
	ProcessingFee decimal.Decimal `json:"processing_fee"`
	Total         decimal.Decimal `json:"total"`
}

// BoxTotal derives one box's price: base price plus every gift line's
// amount plus the personalization cost. Summation runs at full
// precision; nothing is rounded per line.
func BoxTotal(b *cart.Box) decimal.Decimal {
	total := b.BasePrice
	for _, line := range b.Lines {
		total = total.Add(line.Amount())
	}
	return total.Add(b.AddOnsCost())
}

// OrderSubtotal sums the box totals. The result is invariant under
// reordering of the box list.
func OrderSubtotal(boxes []*cart.Box) decimal.Decimal {
	subtotal := decimal.Zero
	for _, b := range boxes {
		subtotal = subtotal.Add(BoxTotal(b))
	}
	return subtotal
}

// ComputeFees derives tax, processing fee, and total from an already
// summed subtotal. Rounding happens once per derived figure, after the
// full-precision computation.
func ComputeFees(cfg FeeConfig, subtotal, shipping decimal.Decimal, method PaymentMethod) Breakdown {
	tax := subtotal.Mul(cfg.TaxRate).Round(2)

	var fee decimal.Decimal
	if method == MethodCard {
		fee = subtotal.Add(shipping).Add(tax).Mul(cfg.CardFeeRate).Round(2)
	} else {
		fee = cfg.FlatFee.Round(2)
	}

	return Breakdown{
		Method:        method,
		Subtotal:      subtotal.Round(2),
		Tax:           tax,
		Shipping:      shipping.Round(2),
		ProcessingFee: fee,
		Total:         subtotal.Add(tax).Add(shipping).Add(fee).Round(2),
	}
}

// Compute derives the full order breakdown from the boxes
func Compute(cfg FeeConfig, boxes []*cart.Box, shipping decimal.Decimal, method PaymentMethod) Breakdown {
	return ComputeFees(cfg, OrderSubtotal(boxes), shipping, method)
}
