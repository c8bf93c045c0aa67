package cart

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Assignment links one recipient to one box. Pairs are unique.
type Assignment struct {
	BoxID       uuid.UUID `json:"box_id"`
	RecipientID uuid.UUID `json:"recipient_id"`
}

// AssignmentMatrix is the single source of truth for who gets which box.
// Pairs keep assignment-insertion order; per-box recipient lists are pure
// projections of it, never cached elsewhere.
type AssignmentMatrix struct {
	pairs []Assignment
	index map[Assignment]struct{}
}

// NewAssignmentMatrix creates an empty matrix
func NewAssignmentMatrix() *AssignmentMatrix {
	return &AssignmentMatrix{
		pairs: make([]Assignment, 0),
		index: make(map[Assignment]struct{}),
	}
}

// Assign adds the pair if absent. Idempotent: a second call with the
// same pair changes nothing and returns false.
func (m *AssignmentMatrix) Assign(boxID, recipientID uuid.UUID) bool {
	pair := Assignment{BoxID: boxID, RecipientID: recipientID}
	if _, ok := m.index[pair]; ok {
		return false
	}
	m.pairs = append(m.pairs, pair)
	m.index[pair] = struct{}{}
	return true
}

// Unassign removes the pair if present. Idempotent.
func (m *AssignmentMatrix) Unassign(boxID, recipientID uuid.UUID) bool {
	pair := Assignment{BoxID: boxID, RecipientID: recipientID}
	if _, ok := m.index[pair]; !ok {
		return false
	}
	delete(m.index, pair)
	for idx, p := range m.pairs {
		if p == pair {
			m.pairs = append(m.pairs[:idx], m.pairs[idx+1:]...)
			break
		}
	}
	return true
}

// Has reports whether the pair exists
func (m *AssignmentMatrix) Has(boxID, recipientID uuid.UUID) bool {
	_, ok := m.index[Assignment{BoxID: boxID, RecipientID: recipientID}]
	return ok
}

// HasAny reports whether the recipient holds at least one assignment
func (m *AssignmentMatrix) HasAny(recipientID uuid.UUID) bool {
	for _, p := range m.pairs {
		if p.RecipientID == recipientID {
			return true
		}
	}
	return false
}

// AssignedTo returns the recipient ids for one box in insertion order
func (m *AssignmentMatrix) AssignedTo(boxID uuid.UUID) []uuid.UUID {
	ids := make([]uuid.UUID, 0)
	for _, p := range m.pairs {
		if p.BoxID == boxID {
			ids = append(ids, p.RecipientID)
		}
	}
	return ids
}

// CountFor returns the number of recipients assigned to one box
func (m *AssignmentMatrix) CountFor(boxID uuid.UUID) int {
	count := 0
	for _, p := range m.pairs {
		if p.BoxID == boxID {
			count++
		}
	}
	return count
}

// RemoveBox cascades removal of every pair referencing the box and
// returns the recipient ids that lost an assignment.
func (m *AssignmentMatrix) RemoveBox(boxID uuid.UUID) []uuid.UUID {
	return m.removeMatching(func(p Assignment) bool { return p.BoxID == boxID })
}

// RemoveRecipient cascades removal of every pair referencing the recipient
func (m *AssignmentMatrix) RemoveRecipient(recipientID uuid.UUID) {
	m.removeMatching(func(p Assignment) bool { return p.RecipientID == recipientID })
}

func (m *AssignmentMatrix) removeMatching(match func(Assignment) bool) []uuid.UUID {
	touched := make([]uuid.UUID, 0)
	kept := make([]Assignment, 0, len(m.pairs))
	for _, p := range m.pairs {
		if match(p) {
			delete(m.index, p)
			touched = append(touched, p.RecipientID)
			continue
		}
		kept = append(kept, p)
	}
	m.pairs = kept
	return touched
}

// ReplaceBox deterministically overwrites the box's assignment set with
// the given recipients, in the given order. Calling it twice with the
// same input reproduces the same set.
func (m *AssignmentMatrix) ReplaceBox(boxID uuid.UUID, recipientIDs []uuid.UUID) []uuid.UUID {
	touched := m.RemoveBox(boxID)
	for _, rid := range recipientIDs {
		m.Assign(boxID, rid)
		touched = append(touched, rid)
	}
	return touched
}

// Pairs returns a copy of all assignments in insertion order
func (m *AssignmentMatrix) Pairs() []Assignment {
	out := make([]Assignment, len(m.pairs))
	copy(out, m.pairs)
	return out
}

// Len returns the total number of assignments
func (m *AssignmentMatrix) Len() int {
	return len(m.pairs)
}

// MarshalJSON serializes the matrix as its ordered pair list
func (m *AssignmentMatrix) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.pairs)
}

// UnmarshalJSON restores the matrix from an ordered pair list
func (m *AssignmentMatrix) UnmarshalJSON(data []byte) error {
	var pairs []Assignment
	if err := json.Unmarshal(data, &pairs); err != nil {
		return err
	}
	m.pairs = make([]Assignment, 0, len(pairs))
	m.index = make(map[Assignment]struct{}, len(pairs))
	for _, p := range pairs {
		if _, ok := m.index[p]; ok {
			continue
		}
		m.pairs = append(m.pairs, p)
		m.index[p] = struct{}{}
	}
	return nil
}
