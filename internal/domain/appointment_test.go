package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppointment_IsTerminal(t *testing.T) {
	tests := []struct {
		status   AppointmentStatus
		terminal bool
	}{
		{StatusTemporary, false},
		{StatusPending, false},
		{StatusConfirmed, false},
		{StatusCompleted, true},
		{StatusCancelled, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			a := &Appointment{Status: tt.status}
			assert.Equal(t, tt.terminal, a.IsTerminal())
		})
	}
}

func TestAppointment_IsExpired(t *testing.T) {
	now := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

	t.Run("not expired before deadline", func(t *testing.T) {
		expiresAt := now.Add(10 * time.Minute)
		a := &Appointment{IsTemporary: true, ExpiresAt: &expiresAt}
		assert.False(t, a.IsExpired(now))
	})

	t.Run("expired after deadline", func(t *testing.T) {
		expiresAt := now.Add(-time.Second)
		a := &Appointment{IsTemporary: true, ExpiresAt: &expiresAt}
		assert.True(t, a.IsExpired(now))
	})

	t.Run("exactly at deadline is not expired", func(t *testing.T) {
		expiresAt := now
		a := &Appointment{IsTemporary: true, ExpiresAt: &expiresAt}
		assert.False(t, a.IsExpired(now))
	})

	t.Run("non-temporary never expires", func(t *testing.T) {
		expiresAt := now.Add(-time.Hour)
		a := &Appointment{IsTemporary: false, ExpiresAt: &expiresAt}
		assert.False(t, a.IsExpired(now))
	})

	t.Run("temporary without deadline never expires", func(t *testing.T) {
		a := &Appointment{IsTemporary: true}
		assert.False(t, a.IsExpired(now))
	})
}

func TestAppointment_TimeUntilExpiry(t *testing.T) {
	now := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

	t.Run("remaining duration", func(t *testing.T) {
		expiresAt := now.Add(25 * time.Minute)
		a := &Appointment{IsTemporary: true, ExpiresAt: &expiresAt}

		remaining, ok := a.TimeUntilExpiry(now)
		require.True(t, ok)
		assert.Equal(t, 25*time.Minute, remaining)
	})

	t.Run("lapsed hold returns zero", func(t *testing.T) {
		expiresAt := now.Add(-5 * time.Minute)
		a := &Appointment{IsTemporary: true, ExpiresAt: &expiresAt}

		remaining, ok := a.TimeUntilExpiry(now)
		require.True(t, ok)
		assert.Equal(t, time.Duration(0), remaining)
	})

	t.Run("no hold applies", func(t *testing.T) {
		a := &Appointment{IsTemporary: false}

		_, ok := a.TimeUntilExpiry(now)
		assert.False(t, ok)
	})
}

func TestAppointment_CancellationRules(t *testing.T) {
	tests := []struct {
		status     AppointmentStatus
		byConsumer bool
		byProvider bool
	}{
		{StatusTemporary, true, false},
		{StatusPending, true, true},
		{StatusConfirmed, true, true},
		{StatusCompleted, false, false},
		{StatusCancelled, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			a := &Appointment{Status: tt.status}
			assert.Equal(t, tt.byConsumer, a.CanBeCancelledByConsumer(), "consumer")
			assert.Equal(t, tt.byProvider, a.CanBeCancelledByProvider(), "provider")
		})
	}
}

func TestAppointment_CanBeMarkedPaid(t *testing.T) {
	now := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)
	future := now.Add(20 * time.Minute)
	past := now.Add(-time.Minute)

	tests := []struct {
		name        string
		appointment Appointment
		want        bool
	}{
		{"active unpaid hold", Appointment{IsTemporary: true, ExpiresAt: &future}, true},
		{"already paid", Appointment{IsTemporary: true, PaymentCompleted: true, ExpiresAt: &future}, false},
		{"not temporary", Appointment{IsTemporary: false, ExpiresAt: &future}, false},
		{"expired hold", Appointment{IsTemporary: true, ExpiresAt: &past}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.appointment.CanBeMarkedPaid(now))
		})
	}
}

// Полное замыкание таблицы переходов: перечислены все пары статусов,
// чтобы добавление нового статуса не прошло мимо таблицы
func TestAppointment_CanProviderTransitionTo(t *testing.T) {
	allowed := map[AppointmentStatus]map[AppointmentStatus]bool{
		StatusPending:   {StatusConfirmed: true, StatusCancelled: true},
		StatusConfirmed: {StatusCompleted: true, StatusCancelled: true},
	}

	for _, from := range AllStatuses {
		for _, to := range AllStatuses {
			a := &Appointment{Status: from}
			want := allowed[from][to]
			assert.Equalf(t, want, a.CanProviderTransitionTo(to), "%s -> %s", from, to)
		}
	}
}
