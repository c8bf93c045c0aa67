package gifting

import (
	"context"

	"github.com/giftwell/backend/internal/domain/cart"
	"github.com/giftwell/backend/internal/domain/catalog"
	"github.com/giftwell/backend/internal/domain/shared"
	"github.com/giftwell/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SessionStore persists cart sessions between user actions for the life
// of the browsing session
type SessionStore interface {
	Get(ctx context.Context, id string) (*cart.Session, error)
	Put(ctx context.Context, session *cart.Session) error
	Delete(ctx context.Context, id string) error
}

// CartService owns the cart-session lifecycle and is the mutation API
// every screen calls. Each method loads the session, applies exactly one
// all-or-nothing mutation, and writes the session back before returning.
type CartService struct {
	store  SessionStore
	lookup catalog.Lookup
}

// NewCartService creates a new CartService
func NewCartService(store SessionStore, lookup catalog.Lookup) *CartService {
	return &CartService{store: store, lookup: lookup}
}

// Create starts a new session at flow entry
func (s *CartService) Create(ctx context.Context) (*CartResponse, error) {
	session := cart.NewSession(uuid.NewString(), s.lookup)
	if err := s.store.Put(ctx, session); err != nil {
		return nil, err
	}
	return ToCartResponse(session), nil
}

// Get returns the session snapshot
func (s *CartService) Get(ctx context.Context, sessionID string) (*CartResponse, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return ToCartResponse(session), nil
}

// Destroy tears the session down, as on an explicit reset
func (s *CartService) Destroy(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, sessionID)
}

// SelectPresetBox adds a preset box picked from the catalog flow
func (s *CartService) SelectPresetBox(ctx context.Context, sessionID string, req SelectBoxRequest) (*CartResponse, error) {
	basePrice, err := parseMoney(req.BasePrice)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, sessionID, func(session *cart.Session) error {
		box, err := cart.NewPresetBox(req.Name, req.Size, req.Theme, basePrice)
		if err != nil {
			return err
		}
		session.AddBox(box)
		return nil
	})
}

// BuildCustomBox adds a box built from scratch, optionally bound to the
// packaging flow's capacity ceiling
func (s *CartService) BuildCustomBox(ctx context.Context, sessionID string, req BuildBoxRequest) (*CartResponse, error) {
	basePrice, err := parseMoney(req.BasePrice)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, sessionID, func(session *cart.Session) error {
		box, err := cart.NewCustomBox(req.Name, req.Size, req.Theme, basePrice, req.Capacity)
		if err != nil {
			return err
		}
		session.AddBox(box)
		return nil
	})
}

// RemoveBox destroys a box; its assignments are cascaded away in the
// same operation
func (s *CartService) RemoveBox(ctx context.Context, sessionID string, boxID uuid.UUID) (*CartResponse, error) {
	return s.mutate(ctx, sessionID, func(session *cart.Session) error {
		session.RemoveBox(boxID)
		return nil
	})
}

// AddOrUpdateGift sets one gift line's quantity on a box
func (s *CartService) AddOrUpdateGift(ctx context.Context, sessionID string, boxID, giftID uuid.UUID, quantity int) (*CartResponse, error) {
	return s.mutate(ctx, sessionID, func(session *cart.Session) error {
		return session.AddOrUpdateGift(boxID, giftID, quantity)
	})
}

// SetPersonalization replaces one or more personalization axes and/or
// the gift message in a single operation
func (s *CartService) SetPersonalization(ctx context.Context, sessionID string, boxID uuid.UUID, req PersonalizationRequest) (*CartResponse, error) {
	selections := make([]cart.AddOn, 0, len(req.AddOns))
	for _, sel := range req.AddOns {
		price, err := parseMoney(sel.Price)
		if err != nil {
			return nil, err
		}
		selections = append(selections, cart.AddOn{
			Axis:  cart.AddOnAxis(sel.Axis),
			Name:  sel.Name,
			Price: price.Amount(),
		})
	}

	return s.mutate(ctx, sessionID, func(session *cart.Session) error {
		for _, sel := range selections {
			if err := session.SetAddOn(boxID, sel.Axis, sel.Name, valueobject.NewMoneyUSD(sel.Price)); err != nil {
				return err
			}
		}
		for _, axis := range req.ClearAxes {
			if err := session.ClearAddOn(boxID, cart.AddOnAxis(axis)); err != nil {
				return err
			}
		}
		if req.Message != nil {
			session.SetMessage(boxID, *req.Message)
		}
		return nil
	})
}

// AddRecipient inserts a manually entered recipient
func (s *CartService) AddRecipient(ctx context.Context, sessionID string, req RecipientRequest) (*CartResponse, error) {
	return s.mutate(ctx, sessionID, func(session *cart.Session) error {
		_, err := session.AddRecipient(cart.RecipientInput{
			Name:    req.Name,
			Email:   req.Email,
			Phone:   req.Phone,
			Address: req.Address,
			Tag:     req.Tag,
		})
		return err
	})
}

// ImportRecipients bulk-imports pre-parsed rows, all-or-nothing
func (s *CartService) ImportRecipients(ctx context.Context, sessionID string, rows []ImportRowRequest) (*CartResponse, error) {
	inputs := make([]cart.RecipientInput, 0, len(rows))
	for _, row := range rows {
		inputs = append(inputs, row.toInput())
	}
	return s.mutate(ctx, sessionID, func(session *cart.Session) error {
		_, err := session.BulkImport(inputs)
		return err
	})
}

// EditRecipient applies a partial recipient update
func (s *CartService) EditRecipient(ctx context.Context, sessionID string, recipientID uuid.UUID, req RecipientPatchRequest) (*CartResponse, error) {
	return s.mutate(ctx, sessionID, func(session *cart.Session) error {
		session.EditRecipient(recipientID, cart.RecipientPatch{
			Name:    req.Name,
			Email:   req.Email,
			Phone:   req.Phone,
			Address: req.Address,
			Tag:     req.Tag,
		})
		return nil
	})
}

// RemoveRecipient destroys a recipient and cascades their assignments
func (s *CartService) RemoveRecipient(ctx context.Context, sessionID string, recipientID uuid.UUID) (*CartResponse, error) {
	return s.mutate(ctx, sessionID, func(session *cart.Session) error {
		session.RemoveRecipient(recipientID)
		return nil
	})
}

// ToggleInclusion flips a recipient in or out of the campaign
func (s *CartService) ToggleInclusion(ctx context.Context, sessionID string, recipientID uuid.UUID, included bool) (*CartResponse, error) {
	return s.mutate(ctx, sessionID, func(session *cart.Session) error {
		session.ToggleInclusion(recipientID, included)
		return nil
	})
}

// Assign links a recipient to a box
func (s *CartService) Assign(ctx context.Context, sessionID string, boxID, recipientID uuid.UUID) (*CartResponse, error) {
	return s.mutate(ctx, sessionID, func(session *cart.Session) error {
		session.Assign(boxID, recipientID)
		return nil
	})
}

// Unassign removes the link between a recipient and a box
func (s *CartService) Unassign(ctx context.Context, sessionID string, boxID, recipientID uuid.UUID) (*CartResponse, error) {
	return s.mutate(ctx, sessionID, func(session *cart.Session) error {
		session.Unassign(boxID, recipientID)
		return nil
	})
}

// AssignAll overwrites a box's assignment set with every included
// recipient
func (s *CartService) AssignAll(ctx context.Context, sessionID string, boxID uuid.UUID) (*CartResponse, error) {
	return s.mutate(ctx, sessionID, func(session *cart.Session) error {
		session.AssignAll(boxID)
		return nil
	})
}

// AssignedRecipients projects a box's recipient list from the matrix
func (s *CartService) AssignedRecipients(ctx context.Context, sessionID string, boxID uuid.UUID) ([]RecipientResponse, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	assigned := session.AssignedRecipients(boxID)
	out := make([]RecipientResponse, 0, len(assigned))
	for _, r := range assigned {
		out = append(out, ToRecipientResponse(r))
	}
	return out, nil
}

// CheckStep runs one screen's transition gate
func (s *CartService) CheckStep(ctx context.Context, sessionID string, step cart.Step, payment *cart.PaymentDetails) (*GateResponse, error) {
	if !step.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Unknown step: "+string(step))
	}
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	result := session.CheckStep(step, payment)
	return &GateResponse{
		Step:    string(result.Step),
		Blocked: result.Blocked(),
		Reasons: result.Reasons,
	}, nil
}

// load fetches a session and rebinds the catalog lookup
func (s *CartService) load(ctx context.Context, sessionID string) (*cart.Session, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	session.BindLookup(s.lookup)
	return session, nil
}

// mutate loads, applies one mutation, and saves. A failed mutation is
// never written back, so the stored session stays exactly as it was.
func (s *CartService) mutate(ctx context.Context, sessionID string, fn func(*cart.Session) error) (*CartResponse, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(session); err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, session); err != nil {
		return nil, err
	}
	return ToCartResponse(session), nil
}

// parseMoney parses a non-negative decimal amount
func parseMoney(value string) (valueobject.Money, error) {
	if value == "" {
		return valueobject.ZeroUSD(), nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return valueobject.Money{}, shared.NewDomainError("VALIDATION_ERROR", "Invalid amount: "+value)
	}
	if d.IsNegative() {
		return valueobject.Money{}, shared.NewDomainError("VALIDATION_ERROR", "Amount cannot be negative")
	}
	return valueobject.NewMoneyUSD(d), nil
}
