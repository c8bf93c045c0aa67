package gifting

import (
	"context"

	"github.com/giftwell/backend/internal/domain/cart"
	"github.com/giftwell/backend/internal/domain/pricing"
	"github.com/giftwell/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CheckoutService derives order pricing and produces the final hand-off
// record for the external payment collaborator. It never performs
// payment processing.
type CheckoutService struct {
	store     SessionStore
	feeConfig pricing.FeeConfig
	shipping  decimal.Decimal
}

// NewCheckoutService creates a CheckoutService with the given fee
// configuration and default shipping amount
func NewCheckoutService(store SessionStore, feeConfig pricing.FeeConfig, defaultShipping decimal.Decimal) *CheckoutService {
	return &CheckoutService{
		store:     store,
		feeConfig: feeConfig,
		shipping:  defaultShipping,
	}
}

// Quote computes the order breakdown for the given method. A nil
// shipping override falls back to the configured default. Quoting never
// mutates the session.
func (s *CheckoutService) Quote(ctx context.Context, sessionID string, method pricing.PaymentMethod, shippingOverride *decimal.Decimal) (*PricingResponse, error) {
	if !method.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Unknown payment method: "+string(method))
	}
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	shipping := s.shipping
	if shippingOverride != nil {
		if shippingOverride.IsNegative() {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Shipping cannot be negative")
		}
		shipping = *shippingOverride
	}

	breakdown := pricing.Compute(s.feeConfig, session.Boxes, shipping, method)
	return ToPricingResponse(breakdown), nil
}

// Checkout runs every step gate, derives the final amounts, and tears
// the session down. The returned record is what the external payment
// collaborator consumes.
func (s *CheckoutService) Checkout(ctx context.Context, sessionID string, payment cart.PaymentDetails, shippingOverride *decimal.Decimal) (*CheckoutResponse, error) {
	method := pricing.PaymentMethod(payment.Method)
	if !method.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Unknown payment method: "+payment.Method)
	}

	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	for _, step := range []cart.Step{cart.StepBoxSelection, cart.StepRecipients, cart.StepPayment} {
		if err := session.CheckStep(step, &payment).Err(); err != nil {
			return nil, err
		}
	}

	shipping := s.shipping
	if shippingOverride != nil {
		if shippingOverride.IsNegative() {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Shipping cannot be negative")
		}
		shipping = *shippingOverride
	}

	breakdown := pricing.Compute(s.feeConfig, session.Boxes, shipping, method)

	// checkout completion ends the session lifecycle
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return nil, err
	}

	return &CheckoutResponse{
		Method:        string(breakdown.Method),
		Subtotal:      breakdown.Subtotal.StringFixed(2),
		Tax:           breakdown.Tax.StringFixed(2),
		Shipping:      breakdown.Shipping.StringFixed(2),
		ProcessingFee: breakdown.ProcessingFee.StringFixed(2),
		Total:         breakdown.Total.StringFixed(2),
	}, nil
}
