package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giftwell/backend/internal/domain/cart"
	"github.com/giftwell/backend/internal/domain/catalog"
	"github.com/giftwell/backend/internal/domain/shared"
	"github.com/giftwell/backend/internal/domain/shared/valueobject"
)

func newStoredSession(t *testing.T) *cart.Session {
	t.Helper()
	session := cart.NewSession("sess-store-1", catalog.NewStaticLookup(nil))
	box, err := cart.NewPresetBox("Holiday Classic", "medium", "holiday", valueobject.NewMoneyUSDFromFloat(49.90))
	require.NoError(t, err)
	session.AddBox(box)
	_, err = session.AddRecipient(cart.RecipientInput{
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Address: "1 Main St",
	})
	require.NoError(t, err)
	return session
}

func TestInMemorySessionStore_PutGet(t *testing.T) {
	store := NewInMemorySessionStore(time.Hour)
	ctx := context.Background()

	session := newStoredSession(t)
	require.NoError(t, store.Put(ctx, session))

	loaded, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, loaded.ID)
	require.Len(t, loaded.Boxes, 1)
	assert.Equal(t, "Holiday Classic", loaded.Boxes[0].Name)
	require.Len(t, loaded.Recipients, 1)
	assert.Equal(t, "jane@example.com", loaded.Recipients[0].Email)
}

func TestInMemorySessionStore_GetReturnsIndependentCopy(t *testing.T) {
	store := NewInMemorySessionStore(time.Hour)
	ctx := context.Background()

	session := newStoredSession(t)
	require.NoError(t, store.Put(ctx, session))

	loaded, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	loaded.Boxes[0].Name = "Mutated"

	again, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "Holiday Classic", again.Boxes[0].Name)
}

func TestInMemorySessionStore_MissingSession(t *testing.T) {
	store := NewInMemorySessionStore(time.Hour)

	_, err := store.Get(context.Background(), "no-such-session")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestInMemorySessionStore_Delete(t *testing.T) {
	store := NewInMemorySessionStore(time.Hour)
	ctx := context.Background()

	session := newStoredSession(t)
	require.NoError(t, store.Put(ctx, session))
	require.NoError(t, store.Delete(ctx, session.ID))

	_, err := store.Get(ctx, session.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	// deleting again is a no-op
	assert.NoError(t, store.Delete(ctx, session.ID))
	assert.Equal(t, 0, store.Len())
}

func TestInMemorySessionStore_Expiry(t *testing.T) {
	store := NewInMemorySessionStore(10 * time.Millisecond)
	ctx := context.Background()

	session := newStoredSession(t)
	require.NoError(t, store.Put(ctx, session))

	time.Sleep(20 * time.Millisecond)

	_, err := store.Get(ctx, session.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
