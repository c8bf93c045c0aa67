package cart

import (
	"testing"

	"github.com/giftwell/backend/internal/domain/catalog"
	"github.com/giftwell/backend/internal/domain/shared"
	"github.com/giftwell/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helpers

func newTestGift(t *testing.T, name string, price float64) *catalog.GiftItem {
	t.Helper()
	gift, err := catalog.NewGiftItem(name, "snacks", "", valueobject.NewMoneyUSDFromFloat(price))
	require.NoError(t, err)
	return gift
}

func newCappedBox(t *testing.T, capacity int) *Box {
	t.Helper()
	box, err := NewCustomBox("Build Your Own", "medium", "holiday", valueobject.NewMoneyUSDFromFloat(10), capacity)
	require.NoError(t, err)
	return box
}

func TestNewPresetBox(t *testing.T) {
	t.Run("creates preset box without capacity", func(t *testing.T) {
		box, err := NewPresetBox("Holiday Classic", "large", "holiday", valueobject.NewMoneyUSDFromFloat(49.99))
		require.NoError(t, err)

		assert.Equal(t, BoxKindPreset, box.Kind)
		assert.Nil(t, box.Capacity)
		assert.Empty(t, box.Lines)
		assert.True(t, box.AddOnsCost().IsZero())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewPresetBox("", "large", "holiday", valueobject.ZeroUSD())
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	})

	t.Run("rejects negative base price", func(t *testing.T) {
		_, err := NewPresetBox("Box", "small", "", valueobject.NewMoneyUSDFromFloat(-1))
		assert.Error(t, err)
	})
}

func TestNewCustomBox(t *testing.T) {
	t.Run("positive capacity sets ceiling", func(t *testing.T) {
		box := newCappedBox(t, 5)
		require.NotNil(t, box.Capacity)
		assert.Equal(t, 5, *box.Capacity)
		assert.Equal(t, BoxKindCustom, box.Kind)
	})

	t.Run("zero capacity means unbound", func(t *testing.T) {
		box, err := NewCustomBox("Loose Box", "", "", valueobject.ZeroUSD(), 0)
		require.NoError(t, err)
		assert.Nil(t, box.Capacity)
	})
}

func TestBox_AddOrUpdateGift(t *testing.T) {
	t.Run("adds a new line", func(t *testing.T) {
		box := newCappedBox(t, 10)
		gift := newTestGift(t, "Chocolate Bar", 4.50)

		require.NoError(t, box.AddOrUpdateGift(gift, 3))

		line, ok := box.Line(gift.ID)
		require.True(t, ok)
		assert.Equal(t, 3, line.Quantity)
		assert.Equal(t, "Chocolate Bar", line.Name)
		assert.Equal(t, "4.50", line.UnitPrice.StringFixed(2))
	})

	t.Run("updates an existing line in place", func(t *testing.T) {
		box := newCappedBox(t, 10)
		gift := newTestGift(t, "Candle", 12)

		require.NoError(t, box.AddOrUpdateGift(gift, 2))
		require.NoError(t, box.AddOrUpdateGift(gift, 5))

		assert.Len(t, box.Lines, 1)
		assert.Equal(t, 5, box.TotalQuantity())
	})

	t.Run("zero or negative quantity removes the line", func(t *testing.T) {
		box := newCappedBox(t, 10)
		gift := newTestGift(t, "Mug", 8)

		require.NoError(t, box.AddOrUpdateGift(gift, 2))
		require.NoError(t, box.AddOrUpdateGift(gift, 0))
		assert.Empty(t, box.Lines)

		require.NoError(t, box.AddOrUpdateGift(gift, 2))
		require.NoError(t, box.AddOrUpdateGift(gift, -3))
		assert.Empty(t, box.Lines)
	})

	t.Run("capacity rejection is all-or-nothing", func(t *testing.T) {
		box := newCappedBox(t, 5)
		giftA := newTestGift(t, "Cookies", 6)
		giftB := newTestGift(t, "Tea", 9)

		require.NoError(t, box.AddOrUpdateGift(giftA, 3))
		require.NoError(t, box.AddOrUpdateGift(giftB, 2))
		require.Equal(t, 5, box.TotalQuantity())

		// Bumping either line past the ceiling fails and changes nothing
		err := box.AddOrUpdateGift(giftA, 4)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CAPACITY_EXCEEDED", domainErr.Code)
		assert.Equal(t, 5, box.TotalQuantity())

		lineA, _ := box.Line(giftA.ID)
		assert.Equal(t, 3, lineA.Quantity)
	})

	t.Run("uncapped box accepts any quantity", func(t *testing.T) {
		box, err := NewPresetBox("Open Box", "", "", valueobject.ZeroUSD())
		require.NoError(t, err)
		gift := newTestGift(t, "Notebook", 3)

		require.NoError(t, box.AddOrUpdateGift(gift, 100))
		assert.Equal(t, 100, box.TotalQuantity())
	})

	t.Run("replacing a line respects capacity against the others", func(t *testing.T) {
		box := newCappedBox(t, 5)
		gift := newTestGift(t, "Socks", 7)

		// 4 -> 5 on the same line is fine: the old quantity is replaced
		require.NoError(t, box.AddOrUpdateGift(gift, 4))
		require.NoError(t, box.AddOrUpdateGift(gift, 5))
		assert.Equal(t, 5, box.TotalQuantity())
	})
}

func TestBox_Personalization(t *testing.T) {
	t.Run("addOnsCost refolds on every axis change", func(t *testing.T) {
		box := newCappedBox(t, 10)

		require.NoError(t, box.SetAddOn(AxisRibbonColor, "Crimson", valueobject.NewMoneyUSDFromFloat(1.50)))
		assert.Equal(t, "1.50", box.AddOnsCost().StringFixed(2))

		require.NoError(t, box.SetAddOn(AxisPackaging, "Kraft", valueobject.NewMoneyUSDFromFloat(3.25)))
		assert.Equal(t, "4.75", box.AddOnsCost().StringFixed(2))

		// replacing one axis swaps its price, not stacks it
		require.NoError(t, box.SetAddOn(AxisRibbonColor, "Gold", valueobject.NewMoneyUSDFromFloat(2.00)))
		assert.Equal(t, "5.25", box.AddOnsCost().StringFixed(2))
		assert.Len(t, box.Personalization.AddOns, 2)
	})

	t.Run("clearing an axis refolds the cost", func(t *testing.T) {
		box := newCappedBox(t, 10)
		require.NoError(t, box.SetAddOn(AxisCardStyle, "Letterpress", valueobject.NewMoneyUSDFromFloat(2)))
		require.NoError(t, box.SetAddOn(AxisPackaging, "Velvet", valueobject.NewMoneyUSDFromFloat(4)))

		require.NoError(t, box.ClearAddOn(AxisCardStyle))
		assert.Equal(t, "4.00", box.AddOnsCost().StringFixed(2))
		assert.Len(t, box.Personalization.AddOns, 1)
	})

	t.Run("rejects unknown axis", func(t *testing.T) {
		box := newCappedBox(t, 10)
		err := box.SetAddOn(AddOnAxis("GLITTER"), "Extra", valueobject.ZeroUSD())
		assert.Error(t, err)
	})

	t.Run("selections keep a fixed axis order", func(t *testing.T) {
		box := newCappedBox(t, 10)
		require.NoError(t, box.SetAddOn(AxisPackaging, "Kraft", valueobject.NewMoneyUSDFromFloat(1)))
		require.NoError(t, box.SetAddOn(AxisRibbonColor, "Red", valueobject.NewMoneyUSDFromFloat(1)))

		require.Len(t, box.Personalization.AddOns, 2)
		assert.Equal(t, AxisRibbonColor, box.Personalization.AddOns[0].Axis)
		assert.Equal(t, AxisPackaging, box.Personalization.AddOns[1].Axis)
	})
}
