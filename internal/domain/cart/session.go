package cart

import (
	"time"

	"github.com/giftwell/backend/internal/domain/catalog"
	"github.com/giftwell/backend/internal/domain/shared"
	"github.com/giftwell/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// Session owns the whole order composition for one browsing session:
// the selected boxes (ordered), the recipient registry, and the
// assignment matrix. It is the only object any screen touches, and it
// has exactly one logical writer. Every mutation completes synchronously
// and recomputes derived state eagerly, so callers never observe a
// half-updated cart. Ids that fail to resolve make the call a defensive
// no-op rather than an error.
type Session struct {
	ID         string            `json:"id"`
	Boxes      []*Box            `json:"boxes"`
	Recipients []*Recipient      `json:"recipients"`
	Matrix     *AssignmentMatrix `json:"assignments"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`

	lookup catalog.Lookup
}

// NewSession creates an empty session bound to a catalog lookup
func NewSession(id string, lookup catalog.Lookup) *Session {
	now := time.Now()
	return &Session{
		ID:         id,
		Boxes:      make([]*Box, 0),
		Recipients: make([]*Recipient, 0),
		Matrix:     NewAssignmentMatrix(),
		CreatedAt:  now,
		UpdatedAt:  now,
		lookup:     lookup,
	}
}

// BindLookup attaches the catalog lookup after a store round-trip
func (s *Session) BindLookup(lookup catalog.Lookup) {
	s.lookup = lookup
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now()
}

// ------------------------------------------------------------------
// Boxes
// ------------------------------------------------------------------

// AddBox appends a box to the selection
func (s *Session) AddBox(box *Box) {
	s.Boxes = append(s.Boxes, box)
	s.touch()
}

// Box returns the box with the given id
func (s *Session) Box(boxID uuid.UUID) (*Box, bool) {
	for _, b := range s.Boxes {
		if b.ID == boxID {
			return b, true
		}
	}
	return nil, false
}

// RemoveBox destroys a box and cascades removal of its assignments
// within the same operation; affected recipient statuses are recomputed
// before the call returns.
func (s *Session) RemoveBox(boxID uuid.UUID) {
	for idx, b := range s.Boxes {
		if b.ID == boxID {
			s.Boxes = append(s.Boxes[:idx], s.Boxes[idx+1:]...)
			touched := s.Matrix.RemoveBox(boxID)
			s.recomputeStatuses(touched)
			s.touch()
			return
		}
	}
}

// AddOrUpdateGift resolves the gift through the catalog and sets its
// quantity on the box. Unresolvable box or gift ids are a no-op.
// Capacity rejection leaves the box untouched.
func (s *Session) AddOrUpdateGift(boxID, giftID uuid.UUID, quantity int) error {
	box, ok := s.Box(boxID)
	if !ok {
		return nil
	}
	gift, ok := s.lookup.Resolve(giftID)
	if !ok {
		return nil
	}
	if err := box.AddOrUpdateGift(gift, quantity); err != nil {
		return err
	}
	s.touch()
	return nil
}

// SetAddOn replaces one personalization axis on a box
func (s *Session) SetAddOn(boxID uuid.UUID, axis AddOnAxis, name string, price valueobject.Money) error {
	box, ok := s.Box(boxID)
	if !ok {
		return nil
	}
	if err := box.SetAddOn(axis, name, price); err != nil {
		return err
	}
	s.touch()
	return nil
}

// ClearAddOn removes one personalization axis selection on a box
func (s *Session) ClearAddOn(boxID uuid.UUID, axis AddOnAxis) error {
	box, ok := s.Box(boxID)
	if !ok {
		return nil
	}
	if err := box.ClearAddOn(axis); err != nil {
		return err
	}
	s.touch()
	return nil
}

// SetMessage sets the gift message on a box
func (s *Session) SetMessage(boxID uuid.UUID, message string) {
	if box, ok := s.Box(boxID); ok {
		box.SetMessage(message)
		s.touch()
	}
}

// ------------------------------------------------------------------
// Recipients
// ------------------------------------------------------------------

// AddRecipient inserts a manually entered recipient. A collision on
// email or name (case-insensitive) with any existing entry flags the new
// entry as a duplicate without mutating the existing one; the insert
// still happens.
func (s *Session) AddRecipient(input RecipientInput) (*Recipient, error) {
	return s.addRecipient(input, SourceManual)
}

func (s *Session) addRecipient(input RecipientInput, source RecipientSource) (*Recipient, error) {
	r, err := NewRecipient(input, source)
	if err != nil {
		return nil, err
	}
	for _, existing := range s.Recipients {
		if r.matches(existing) {
			r.IsDuplicate = true
			break
		}
	}
	s.Recipients = append(s.Recipients, r)
	s.recomputeStatus(r)
	s.touch()
	return r, nil
}

// BulkImport turns pre-parsed rows into recipients with source=BULK.
// The operation is all-or-nothing: every row is validated before any is
// inserted, and status is derived by the usual rule at import time.
func (s *Session) BulkImport(rows []RecipientInput) ([]*Recipient, error) {
	for _, row := range rows {
		if _, err := NewRecipient(row, SourceBulk); err != nil {
			return nil, err
		}
	}

	imported := make([]*Recipient, 0, len(rows))
	for _, row := range rows {
		r, err := s.addRecipient(row, SourceBulk)
		if err != nil {
			return nil, err
		}
		imported = append(imported, r)
	}
	return imported, nil
}

// Recipient returns the recipient with the given id
func (s *Session) Recipient(recipientID uuid.UUID) (*Recipient, bool) {
	for _, r := range s.Recipients {
		if r.ID == recipientID {
			return r, true
		}
	}
	return nil, false
}

// EditRecipient applies a partial update. Required-field validation is
// deferred to the step-transition gate; an unknown id is a no-op.
func (s *Session) EditRecipient(recipientID uuid.UUID, patch RecipientPatch) {
	r, ok := s.Recipient(recipientID)
	if !ok {
		return
	}
	r.applyPatch(patch)
	s.recomputeStatus(r)
	s.touch()
}

// RemoveRecipient destroys the recipient and cascades removal of every
// assignment referencing them within the same operation.
func (s *Session) RemoveRecipient(recipientID uuid.UUID) {
	for idx, r := range s.Recipients {
		if r.ID == recipientID {
			s.Recipients = append(s.Recipients[:idx], s.Recipients[idx+1:]...)
			s.Matrix.RemoveRecipient(recipientID)
			s.touch()
			return
		}
	}
}

// ToggleInclusion sets the included flag, independent of status
func (s *Session) ToggleInclusion(recipientID uuid.UUID, included bool) {
	if r, ok := s.Recipient(recipientID); ok {
		r.Included = included
		r.Touch()
		s.touch()
	}
}

// IncludedRecipients returns the included recipients in registry order
func (s *Session) IncludedRecipients() []*Recipient {
	out := make([]*Recipient, 0, len(s.Recipients))
	for _, r := range s.Recipients {
		if r.Included {
			out = append(out, r)
		}
	}
	return out
}

// ------------------------------------------------------------------
// Assignments
// ------------------------------------------------------------------

// Assign links a recipient to a box. Idempotent; unresolvable ids are a
// no-op; the recipient's status is recomputed before returning.
func (s *Session) Assign(boxID, recipientID uuid.UUID) {
	if _, ok := s.Box(boxID); !ok {
		return
	}
	r, ok := s.Recipient(recipientID)
	if !ok {
		return
	}
	s.Matrix.Assign(boxID, recipientID)
	s.recomputeStatus(r)
	s.touch()
}

// Unassign removes the link. Idempotent; recomputes the recipient status.
func (s *Session) Unassign(boxID, recipientID uuid.UUID) {
	r, ok := s.Recipient(recipientID)
	if !ok {
		return
	}
	s.Matrix.Unassign(boxID, recipientID)
	s.recomputeStatus(r)
	s.touch()
}

// AssignAll deterministically overwrites the box's assignment set with
// every currently-included recipient, in registry order. Calling it
// twice in a row reproduces the same full set.
func (s *Session) AssignAll(boxID uuid.UUID) {
	if _, ok := s.Box(boxID); !ok {
		return
	}
	included := s.IncludedRecipients()
	ids := make([]uuid.UUID, 0, len(included))
	for _, r := range included {
		ids = append(ids, r.ID)
	}
	touched := s.Matrix.ReplaceBox(boxID, ids)
	s.recomputeStatuses(touched)
	s.touch()
}

// AssignedRecipients projects the box's recipient list from the matrix
// in assignment-insertion order. There is no box-local copy to diverge.
func (s *Session) AssignedRecipients(boxID uuid.UUID) []*Recipient {
	ids := s.Matrix.AssignedTo(boxID)
	out := make([]*Recipient, 0, len(ids))
	for _, id := range ids {
		if r, ok := s.Recipient(id); ok {
			out = append(out, r)
		}
	}
	return out
}

// ------------------------------------------------------------------
// Derived state
// ------------------------------------------------------------------

// recomputeStatus applies the canonical confirmation rule: confirmed iff
// the address is non-empty and the recipient holds at least one
// assignment.
func (s *Session) recomputeStatus(r *Recipient) {
	status := StatusPending
	if r.HasAddress() && s.Matrix.HasAny(r.ID) {
		status = StatusConfirmed
	}
	if r.Status != status {
		r.Status = status
		r.Touch()
	}
}

func (s *Session) recomputeStatuses(recipientIDs []uuid.UUID) {
	seen := make(map[uuid.UUID]struct{}, len(recipientIDs))
	for _, id := range recipientIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if r, ok := s.Recipient(id); ok {
			s.recomputeStatus(r)
		}
	}
}

// Reset tears the whole composition down, as at checkout completion or
// an explicit session reset.
func (s *Session) Reset() {
	s.Boxes = make([]*Box, 0)
	s.Recipients = make([]*Recipient, 0)
	s.Matrix = NewAssignmentMatrix()
	s.touch()
}

// validate rechecks the invariants that must hold after every mutation.
// It backs the test suite; production code relies on the mutators.
func (s *Session) validate() error {
	for _, p := range s.Matrix.Pairs() {
		if _, ok := s.Box(p.BoxID); !ok {
			return shared.NewDomainError("DANGLING_ASSIGNMENT", "Assignment references a removed box")
		}
		if _, ok := s.Recipient(p.RecipientID); !ok {
			return shared.NewDomainError("DANGLING_ASSIGNMENT", "Assignment references a removed recipient")
		}
	}
	for _, r := range s.Recipients {
		confirmed := r.HasAddress() && s.Matrix.HasAny(r.ID)
		if confirmed != (r.Status == StatusConfirmed) {
			return shared.NewDomainError("STALE_STATUS", "Recipient status does not match derivation rule")
		}
	}
	for _, b := range s.Boxes {
		if b.Capacity != nil && b.TotalQuantity() > *b.Capacity {
			return shared.NewDomainError("CAPACITY_EXCEEDED", "Box exceeds its capacity")
		}
	}
	return nil
}
