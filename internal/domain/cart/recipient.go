package cart

import (
	"strings"

	"github.com/giftwell/backend/internal/domain/shared"
)

// RecipientSource records how a recipient entered the registry
type RecipientSource string

const (
	SourceManual RecipientSource = "MANUAL"
	SourceBulk   RecipientSource = "BULK"
	SourceAuto   RecipientSource = "AUTO"
)

// RecipientStatus is the derived shipping-readiness state. It is never
// set directly: a recipient is CONFIRMED iff their address is non-empty
// and they hold at least one assignment.
type RecipientStatus string

const (
	StatusPending   RecipientStatus = "PENDING"
	StatusConfirmed RecipientStatus = "CONFIRMED"
)

// Recipient is a person eligible to receive one or more boxes.
// IsDuplicate is advisory only; duplicates are flagged, never rejected.
// Included is independent of Status: only included recipients count
// toward step gates and per-box summaries.
type Recipient struct {
	shared.BaseEntity
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	Address     string          `json:"address"`
	Tag         string          `json:"tag"`
	Source      RecipientSource `json:"source"`
	Included    bool            `json:"included"`
	IsDuplicate bool            `json:"is_duplicate"`
	Status      RecipientStatus `json:"status"`
}

// RecipientInput carries the externally parsed fields for one recipient
type RecipientInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
	Tag     string
}

// RecipientPatch is a partial update; nil fields are left untouched.
// Required-field validation is deferred to the step-transition gate.
type RecipientPatch struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
	Tag     *string
}

// NewRecipient creates a recipient from parsed input. Name and email are
// required; everything else may be filled in later via edits.
func NewRecipient(input RecipientInput, source RecipientSource) (*Recipient, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Recipient name is required")
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Recipient email is required")
	}

	return &Recipient{
		BaseEntity: shared.NewBaseEntity(),
		Name:       input.Name,
		Email:      input.Email,
		Phone:      input.Phone,
		Address:    input.Address,
		Tag:        input.Tag,
		Source:     source,
		Included:   true,
		Status:     StatusPending,
	}, nil
}

// applyPatch applies a partial update
func (r *Recipient) applyPatch(patch RecipientPatch) {
	if patch.Name != nil {
		r.Name = *patch.Name
	}
	if patch.Email != nil {
		r.Email = *patch.Email
	}
	if patch.Phone != nil {
		r.Phone = *patch.Phone
	}
	if patch.Address != nil {
		r.Address = *patch.Address
	}
	if patch.Tag != nil {
		r.Tag = *patch.Tag
	}
	r.Touch()
}

// matches reports whether the other entry collides on email or name,
// both case-insensitive. Either collision alone marks a duplicate.
func (r *Recipient) matches(other *Recipient) bool {
	if strings.EqualFold(strings.TrimSpace(r.Email), strings.TrimSpace(other.Email)) {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(r.Name), strings.TrimSpace(other.Name))
}

// HasAddress reports whether the shipping address is filled in
func (r *Recipient) HasAddress() bool {
	return strings.TrimSpace(r.Address) != ""
}
