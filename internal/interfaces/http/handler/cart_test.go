package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/giftwell/backend/internal/application/gifting"
	"github.com/giftwell/backend/internal/domain/cart"
	"github.com/giftwell/backend/internal/domain/catalog"
	"github.com/giftwell/backend/internal/domain/shared"
	"github.com/giftwell/backend/internal/domain/shared/valueobject"
	"github.com/giftwell/backend/internal/interfaces/http/dto"
	"github.com/giftwell/backend/internal/interfaces/http/middleware"
	"github.com/giftwell/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// fakeSessionStore keeps sessions in a map, mirroring the store
// contract without serialization
type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*cart.Session
	lookup   catalog.Lookup
}

func newFakeSessionStore(lookup catalog.Lookup) *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*cart.Session), lookup: lookup}
}

func (s *fakeSessionStore) Get(_ context.Context, id string) (*cart.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	sess.BindLookup(s.lookup)
	return sess, nil
}

func (s *fakeSessionStore) Put(_ context.Context, sess *cart.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return nil
}

func (s *fakeSessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func testGift(t *testing.T, name string, price string) *catalog.GiftItem {
	t.Helper()
	p, err := valueobject.NewMoneyUSDFromString(price)
	require.NoError(t, err)
	gift, err := catalog.NewGiftItem(name, "test", "", p)
	require.NoError(t, err)
	return gift
}

func newCartTestRouter(t *testing.T, gifts ...*catalog.GiftItem) *gin.Engine {
	t.Helper()
	lookup := catalog.NewStaticLookup(gifts)
	store := newFakeSessionStore(lookup)
	h := NewCartHandler(gifting.NewCartService(store, lookup))

	engine := gin.New()
	router.NewRouter(engine).Register(h).Setup()
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeCart(t *testing.T, w *httptest.ResponseRecorder) gifting.CartResponse {
	t.Helper()
	var resp struct {
		Success bool                 `json:"success"`
		Data    gifting.CartResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	return resp.Data
}

func createCart(t *testing.T, engine *gin.Engine) string {
	t.Helper()
	w := doJSON(t, engine, "POST", "/api/v1/carts", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	return decodeCart(t, w).ID
}

func TestCartHandlerCreateAndGet(t *testing.T) {
	engine := newCartTestRouter(t)
	id := createCart(t, engine)

	w := doJSON(t, engine, "GET", "/api/v1/carts/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	data := decodeCart(t, w)
	assert.Equal(t, id, data.ID)
	assert.Empty(t, data.Boxes)
	assert.Empty(t, data.Recipients)
}

func TestCartHandlerGetMissing(t *testing.T) {
	engine := newCartTestRouter(t)

	w := doJSON(t, engine, "GET", "/api/v1/carts/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
}

func TestCartHandlerAddBox(t *testing.T) {
	engine := newCartTestRouter(t)
	id := createCart(t, engine)

	t.Run("preset", func(t *testing.T) {
		w := doJSON(t, engine, "POST", "/api/v1/carts/"+id+"/boxes", AddBoxRequest{
			Kind: "PRESET", Name: "Holiday Classic", Size: "medium", Theme: "holiday", BasePrice: "49.90",
		})
		require.Equal(t, http.StatusCreated, w.Code)

		data := decodeCart(t, w)
		require.Len(t, data.Boxes, 1)
		assert.Equal(t, "PRESET", data.Boxes[0].Kind)
		assert.Equal(t, "49.90", data.Boxes[0].BasePrice)
	})

	t.Run("custom with capacity", func(t *testing.T) {
		w := doJSON(t, engine, "POST", "/api/v1/carts/"+id+"/boxes", AddBoxRequest{
			Kind: "CUSTOM", Name: "Build Your Own", BasePrice: "10.00", Capacity: 2,
		})
		require.Equal(t, http.StatusCreated, w.Code)

		data := decodeCart(t, w)
		require.Len(t, data.Boxes, 2)
		assert.Equal(t, "CUSTOM", data.Boxes[1].Kind)
	})

	t.Run("unknown kind rejected", func(t *testing.T) {
		w := doJSON(t, engine, "POST", "/api/v1/carts/"+id+"/boxes", map[string]string{
			"kind": "MYSTERY", "name": "x",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCartHandlerGiftLines(t *testing.T) {
	gift := testGift(t, "Leather Journal", "28.00")
	engine := newCartTestRouter(t, gift)
	id := createCart(t, engine)

	w := doJSON(t, engine, "POST", "/api/v1/carts/"+id+"/boxes", AddBoxRequest{
		Kind: "CUSTOM", Name: "Build Your Own", BasePrice: "10.00",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	boxID := decodeCart(t, w).Boxes[0].ID

	w = doJSON(t, engine, "PUT", "/api/v1/carts/"+id+"/boxes/"+boxID+"/gifts", SetGiftRequest{
		GiftID: gift.ID.String(), Quantity: 3,
	})
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeCart(t, w)
	require.Len(t, data.Boxes[0].Lines, 1)
	assert.Equal(t, 3, data.Boxes[0].Lines[0].Quantity)
	assert.Equal(t, "Leather Journal", data.Boxes[0].Lines[0].Name)

	t.Run("quantity zero removes the line", func(t *testing.T) {
		w := doJSON(t, engine, "PUT", "/api/v1/carts/"+id+"/boxes/"+boxID+"/gifts", SetGiftRequest{
			GiftID: gift.ID.String(), Quantity: 0,
		})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decodeCart(t, w).Boxes[0].Lines)
	})

	t.Run("malformed gift id", func(t *testing.T) {
		w := doJSON(t, engine, "PUT", "/api/v1/carts/"+id+"/boxes/"+boxID+"/gifts", map[string]any{
			"gift_id": "not-a-uuid", "quantity": 1,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCartHandlerRecipientsAndAssignments(t *testing.T) {
	engine := newCartTestRouter(t)
	id := createCart(t, engine)

	w := doJSON(t, engine, "POST", "/api/v1/carts/"+id+"/boxes", AddBoxRequest{
		Kind: "PRESET", Name: "Holiday Classic", BasePrice: "49.90",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	boxID := decodeCart(t, w).Boxes[0].ID

	w = doJSON(t, engine, "POST", "/api/v1/carts/"+id+"/recipients", AddRecipientRequest{
		Name: "Jane Doe", Email: "jane@example.com", Address: "12 Main St",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	data := decodeCart(t, w)
	require.Len(t, data.Recipients, 1)
	rid := data.Recipients[0].ID

	w = doJSON(t, engine, "PUT",
		fmt.Sprintf("/api/v1/carts/%s/boxes/%s/assignments/%s", id, boxID, rid), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeCart(t, w).Assignments, 1)

	t.Run("list assignments", func(t *testing.T) {
		w := doJSON(t, engine, "GET",
			fmt.Sprintf("/api/v1/carts/%s/boxes/%s/assignments", id, boxID), nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data []gifting.RecipientResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 1)
		assert.Equal(t, "jane@example.com", resp.Data[0].Email)
	})

	t.Run("unassign", func(t *testing.T) {
		w := doJSON(t, engine, "DELETE",
			fmt.Sprintf("/api/v1/carts/%s/boxes/%s/assignments/%s", id, boxID, rid), nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decodeCart(t, w).Assignments)
	})

	t.Run("excluded recipient skipped by assign-all", func(t *testing.T) {
		w := doJSON(t, engine, "PUT",
			fmt.Sprintf("/api/v1/carts/%s/recipients/%s/inclusion", id, rid),
			map[string]any{"included": false})
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, engine, "POST",
			fmt.Sprintf("/api/v1/carts/%s/boxes/%s/assign-all", id, boxID), nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decodeCart(t, w).Assignments)
	})

	t.Run("invalid recipient id", func(t *testing.T) {
		w := doJSON(t, engine, "DELETE", "/api/v1/carts/"+id+"/recipients/garbage", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCartHandlerImportRecipients(t *testing.T) {
	engine := newCartTestRouter(t)
	id := createCart(t, engine)

	w := doJSON(t, engine, "POST", "/api/v1/carts/"+id+"/recipients/import", ImportRecipientsRequest{
		Rows: []ImportRowRequest{
			{Name: "Jane Doe", Email: "jane@example.com", Address: "12 Main St"},
			{FirstName: "John", LastName: "Smith", Email: "john@example.com"},
			{Name: "Jane Again", Email: "jane@example.com"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	data := decodeCart(t, w)
	require.Len(t, data.Recipients, 3)
	assert.Equal(t, "John Smith", data.Recipients[1].Name)
	assert.True(t, data.Recipients[2].IsDuplicate)

	t.Run("empty batch rejected", func(t *testing.T) {
		w := doJSON(t, engine, "POST", "/api/v1/carts/"+id+"/recipients/import",
			ImportRecipientsRequest{Rows: []ImportRowRequest{}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCartHandlerCapacityExceeded(t *testing.T) {
	gift := testGift(t, "Scented Soy Candle", "16.00")
	engine := newCartTestRouter(t, gift)
	id := createCart(t, engine)

	w := doJSON(t, engine, "POST", "/api/v1/carts/"+id+"/boxes", AddBoxRequest{
		Kind: "CUSTOM", Name: "Tiny", BasePrice: "5.00", Capacity: 2,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	boxID := decodeCart(t, w).Boxes[0].ID

	w = doJSON(t, engine, "PUT", "/api/v1/carts/"+id+"/boxes/"+boxID+"/gifts", SetGiftRequest{
		GiftID: gift.ID.String(), Quantity: 3,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrCodeCapacityExceeded, resp.Error.Code)

	// the failed update left nothing behind
	w = doJSON(t, engine, "GET", "/api/v1/carts/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeCart(t, w).Boxes[0].Lines)
}

func TestCartHandlerGates(t *testing.T) {
	engine := newCartTestRouter(t)
	id := createCart(t, engine)

	t.Run("blocked box selection reports reasons", func(t *testing.T) {
		w := doJSON(t, engine, "POST", "/api/v1/carts/"+id+"/gates/BOX_SELECTION", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data gifting.GateResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Data.Blocked)
		assert.NotEmpty(t, resp.Data.Reasons)
	})

	t.Run("unknown step", func(t *testing.T) {
		w := doJSON(t, engine, "POST", "/api/v1/carts/"+id+"/gates/TELEPORT", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("passes after a box is added", func(t *testing.T) {
		w := doJSON(t, engine, "POST", "/api/v1/carts/"+id+"/boxes", AddBoxRequest{
			Kind: "PRESET", Name: "Holiday Classic", BasePrice: "49.90",
		})
		require.Equal(t, http.StatusCreated, w.Code)

		w = doJSON(t, engine, "POST", "/api/v1/carts/"+id+"/gates/BOX_SELECTION", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data gifting.GateResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Data.Blocked)
		assert.Empty(t, resp.Data.Reasons)
	})

	t.Run("payment gate validates details", func(t *testing.T) {
		var resp struct {
			Data gifting.GateResponse `json:"data"`
		}

		w := doJSON(t, engine, "POST", "/api/v1/carts/"+id+"/gates/PAYMENT", GateRequest{Method: "card"})
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Data.Blocked)
		assert.Len(t, resp.Data.Reasons, 3)

		w = doJSON(t, engine, "POST", "/api/v1/carts/"+id+"/gates/PAYMENT", GateRequest{
			Method: "card", CardNumber: "4111111111111111", CardHolder: "Jane Doe", CardExpiry: "12/30",
		})
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Data.Blocked)
	})
}

func TestCartHandlerDestroy(t *testing.T) {
	engine := newCartTestRouter(t)
	id := createCart(t, engine)

	w := doJSON(t, engine, "DELETE", "/api/v1/carts/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, engine, "GET", "/api/v1/carts/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartHandlerRemoveBoxInvalidID(t *testing.T) {
	engine := newCartTestRouter(t)
	id := createCart(t, engine)

	w := doJSON(t, engine, "DELETE", "/api/v1/carts/"+id+"/boxes/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartHandlerRemoveBoxMissing(t *testing.T) {
	engine := newCartTestRouter(t)
	id := createCart(t, engine)

	// unknown box ids are a defensive no-op
	w := doJSON(t, engine, "DELETE", "/api/v1/carts/"+id+"/boxes/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeCart(t, w).Boxes)
}
