package cart

import (
	"github.com/giftwell/backend/internal/domain/shared"
)

// Step identifies one screen's transition gate
type Step string

const (
	StepBoxSelection Step = "BOX_SELECTION"
	StepRecipients   Step = "RECIPIENTS"
	StepPayment      Step = "PAYMENT"
)

// IsValid checks if the step is a known Step
func (s Step) IsValid() bool {
	switch s {
	case StepBoxSelection, StepRecipients, StepPayment:
		return true
	}
	return false
}

// PaymentDetails are the fields the payment screen collects. Card
// payments need the card fields; other methods only need the method.
type PaymentDetails struct {
	Method     string `json:"method"`
	CardNumber string `json:"card_number,omitempty"`
	CardHolder string `json:"card_holder,omitempty"`
	CardExpiry string `json:"card_expiry,omitempty"`
}

// GateResult is the outcome of evaluating one step's predicate.
// A blocked gate carries exactly one message per unmet condition and the
// evaluation itself never mutates session state.
type GateResult struct {
	Step    Step     `json:"step"`
	Reasons []string `json:"reasons"`
}

// Blocked reports whether the transition is blocked
func (g GateResult) Blocked() bool {
	return len(g.Reasons) > 0
}

// Err converts a blocked result into a GateError, nil otherwise
func (g GateResult) Err() error {
	if !g.Blocked() {
		return nil
	}
	return shared.NewGateError(string(g.Step), g.Reasons)
}

// CheckStep evaluates the gate for one step. Gates are independent of
// each other and only re-check their own conditions; payment details are
// consulted only by the payment gate.
func (s *Session) CheckStep(step Step, payment *PaymentDetails) GateResult {
	switch step {
	case StepBoxSelection:
		return s.gateBoxSelection()
	case StepRecipients:
		return s.gateRecipients()
	case StepPayment:
		return s.gatePayment(payment)
	}
	return GateResult{Step: step, Reasons: []string{"Unknown step"}}
}

// gateBoxSelection requires at least one selected box
func (s *Session) gateBoxSelection() GateResult {
	result := GateResult{Step: StepBoxSelection}
	if len(s.Boxes) == 0 {
		result.Reasons = append(result.Reasons, "Select at least one gift box")
	}
	return result
}

// gateRecipients requires at least one included recipient that is both
// addressed and assigned to a box
func (s *Session) gateRecipients() GateResult {
	result := GateResult{Step: StepRecipients}

	included := s.IncludedRecipients()
	if len(included) == 0 {
		result.Reasons = append(result.Reasons, "Add at least one recipient")
		return result
	}

	ready := false
	for _, r := range included {
		if r.Status == StatusConfirmed {
			ready = true
			break
		}
	}
	if !ready {
		result.Reasons = append(result.Reasons, "At least one included recipient needs an address and a box assignment")
	}
	return result
}

// gatePayment requires a payment method and, for card payments, the
// card fields
func (s *Session) gatePayment(payment *PaymentDetails) GateResult {
	result := GateResult{Step: StepPayment}

	if payment == nil || payment.Method == "" {
		result.Reasons = append(result.Reasons, "Select a payment method")
		return result
	}

	if payment.Method == "card" {
		if payment.CardNumber == "" {
			result.Reasons = append(result.Reasons, "Card number is required")
		}
		if payment.CardHolder == "" {
			result.Reasons = append(result.Reasons, "Card holder name is required")
		}
		if payment.CardExpiry == "" {
			result.Reasons = append(result.Reasons, "Card expiry is required")
		}
	}
	return result
}
