package cart

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignmentMatrix_AssignIdempotent(t *testing.T) {
	m := NewAssignmentMatrix()
	boxID := uuid.New()
	rid := uuid.New()

	assert.True(t, m.Assign(boxID, rid))
	assert.False(t, m.Assign(boxID, rid))

	assert.Equal(t, 1, m.Len())
	assert.True(t, m.Has(boxID, rid))
}

func TestAssignmentMatrix_Unassign(t *testing.T) {
	m := NewAssignmentMatrix()
	boxID := uuid.New()
	rid := uuid.New()

	m.Assign(boxID, rid)
	assert.True(t, m.Unassign(boxID, rid))
	assert.False(t, m.Unassign(boxID, rid))
	assert.Equal(t, 0, m.Len())
	assert.False(t, m.HasAny(rid))
}

func TestAssignmentMatrix_InsertionOrder(t *testing.T) {
	m := NewAssignmentMatrix()
	boxID := uuid.New()
	first := uuid.New()
	second := uuid.New()
	third := uuid.New()

	m.Assign(boxID, first)
	m.Assign(boxID, second)
	m.Assign(boxID, third)
	m.Unassign(boxID, second)
	m.Assign(boxID, second)

	assert.Equal(t, []uuid.UUID{first, third, second}, m.AssignedTo(boxID))
	assert.Equal(t, 3, m.CountFor(boxID))
}

func TestAssignmentMatrix_Cascades(t *testing.T) {
	t.Run("remove box drops every pair for it", func(t *testing.T) {
		m := NewAssignmentMatrix()
		boxA := uuid.New()
		boxB := uuid.New()
		rid := uuid.New()

		m.Assign(boxA, rid)
		m.Assign(boxB, rid)

		touched := m.RemoveBox(boxA)
		assert.Equal(t, []uuid.UUID{rid}, touched)
		assert.Empty(t, m.AssignedTo(boxA))
		assert.Equal(t, 1, m.CountFor(boxB))
	})

	t.Run("remove recipient drops every pair for them", func(t *testing.T) {
		m := NewAssignmentMatrix()
		boxA := uuid.New()
		boxB := uuid.New()
		rid := uuid.New()
		other := uuid.New()

		m.Assign(boxA, rid)
		m.Assign(boxB, rid)
		m.Assign(boxA, other)

		m.RemoveRecipient(rid)
		assert.False(t, m.HasAny(rid))
		assert.Equal(t, []uuid.UUID{other}, m.AssignedTo(boxA))
	})
}

func TestAssignmentMatrix_ReplaceBox(t *testing.T) {
	m := NewAssignmentMatrix()
	boxID := uuid.New()
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	m.Assign(boxID, a)
	m.ReplaceBox(boxID, []uuid.UUID{b, c})

	assert.Equal(t, []uuid.UUID{b, c}, m.AssignedTo(boxID))

	// replaying the same replacement reproduces the same set
	m.Unassign(boxID, b)
	m.ReplaceBox(boxID, []uuid.UUID{b, c})
	assert.Equal(t, []uuid.UUID{b, c}, m.AssignedTo(boxID))
}

func TestAssignmentMatrix_JSONRoundTrip(t *testing.T) {
	m := NewAssignmentMatrix()
	boxID := uuid.New()
	a, b := uuid.New(), uuid.New()
	m.Assign(boxID, a)
	m.Assign(boxID, b)

	data, err := json.Marshal(m)
	require.NoError(t, err)

	restored := NewAssignmentMatrix()
	require.NoError(t, json.Unmarshal(data, restored))

	assert.Equal(t, m.Pairs(), restored.Pairs())
	assert.True(t, restored.Has(boxID, a))
}
