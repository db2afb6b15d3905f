package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedDailySlots(t *testing.T) {
	slots := FixedDailySlots()

	require.Len(t, slots, 16)
	assert.Equal(t, "06:00", slots[0].String())
	assert.Equal(t, "21:00", slots[len(slots)-1].String())

	// Сетка строго часовая
	for i := 1; i < len(slots); i++ {
		next, err := slots[i-1].AddMinutes(SlotStepMinutes)
		require.NoError(t, err)
		assert.Equal(t, next, slots[i])
	}
}

func TestIsWorkingDay(t *testing.T) {
	// 2025-10-12 — воскресенье
	sunday := time.Date(2025, 10, 12, 0, 0, 0, 0, time.UTC)
	assert.False(t, IsWorkingDay(sunday))

	for d := 1; d <= 6; d++ {
		day := sunday.AddDate(0, 0, d)
		assert.Truef(t, IsWorkingDay(day), "%s", day.Weekday())
	}
}

func TestCart_Subtotal(t *testing.T) {
	cart := &Cart{
		Items: []CartItem{
			{ServiceID: 1, Quantity: 2, UnitPrice: 49.99},
			{ServiceID: 2, Quantity: 1, UnitPrice: 120.50},
		},
	}

	assert.InDelta(t, 220.48, cart.Subtotal(), 1e-9)
	assert.Equal(t, 2, cart.TotalItems())
	assert.False(t, cart.IsEmpty())
}

func TestCart_Empty(t *testing.T) {
	cart := &Cart{}

	assert.True(t, cart.IsEmpty())
	assert.Equal(t, 0, cart.TotalItems())
	assert.Zero(t, cart.Subtotal())
}
