package domain

import (
	"time"

	"github.com/m04kA/HSM-AppointmentService/pkg/types"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusTemporary AppointmentStatus = "temporary"
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Appointment represents a reservation of one service by one consumer
// with one provider at a date/time
type Appointment struct {
	ID              int64
	ConsumerID      int64
	ProviderID      int64
	ServiceID       int64
	AppointmentDate time.Time
	AppointmentTime types.TimeString
	Status          AppointmentStatus
	Notes           *string

	// Temporary-hold bookkeeping
	// is_temporary == true <=> payment_completed == false <=> status == temporary
	IsTemporary      bool
	ExpiresAt        *time.Time
	PaymentCompleted bool
	PaymentReference *string

	// Denormalized data for history
	ServiceTitle string
	ServicePrice float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal returns true if the appointment is in a terminal state
func (a *Appointment) IsTerminal() bool {
	return a.Status == StatusCompleted || a.Status == StatusCancelled
}

// IsExpired returns true if the appointment is an unpaid temporary hold
// whose hold window has lapsed
func (a *Appointment) IsExpired(now time.Time) bool {
	return a.IsTemporary && a.ExpiresAt != nil && now.After(*a.ExpiresAt)
}

// TimeUntilExpiry returns the remaining hold duration, zero once the hold
// has lapsed, and false when no hold applies
func (a *Appointment) TimeUntilExpiry(now time.Time) (time.Duration, bool) {
	if !a.IsTemporary || a.ExpiresAt == nil {
		return 0, false
	}
	remaining := a.ExpiresAt.Sub(now)
	if remaining < 0 {
		return 0, true
	}
	return remaining, true
}

// CanBeCancelledByConsumer returns true if the consumer may cancel
func (a *Appointment) CanBeCancelledByConsumer() bool {
	return a.Status == StatusTemporary || a.Status == StatusPending || a.Status == StatusConfirmed
}

// CanBeCancelledByProvider returns true if the assigned provider may cancel
func (a *Appointment) CanBeCancelledByProvider() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// CanBeMarkedPaid returns true if the mark-paid transition is allowed
func (a *Appointment) CanBeMarkedPaid(now time.Time) bool {
	return a.IsTemporary && !a.PaymentCompleted && !a.IsExpired(now)
}

// providerTransitions допустимые переходы статусов со стороны провайдера
// Всё, чего нет в таблице, отклоняется без изменения статуса
var providerTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// CanProviderTransitionTo returns true if the assigned provider may move the
// appointment from its current status to target
func (a *Appointment) CanProviderTransitionTo(target AppointmentStatus) bool {
	for _, allowed := range providerTransitions[a.Status] {
		if allowed == target {
			return true
		}
	}
	return false
}

// ConsumerAppointmentsFilter фильтр для выборки записей потребителя
type ConsumerAppointmentsFilter struct {
	ConsumerID       int64
	Status           *AppointmentStatus
	IncludeTemporary bool // Показывать ли неоплаченные временные холды
}

// ProviderAppointmentsFilter фильтр для выборки записей провайдера
// Неоплаченные временные холды скрыты всегда
type ProviderAppointmentsFilter struct {
	ProviderID int64
	Status     *AppointmentStatus
	Date       *time.Time // Фильтр по дате записи (опционально)
}

// ExpiredAppointmentsFilter фильтр для выборки протухших холдов
type ExpiredAppointmentsFilter struct {
	ExpiredBefore time.Time // expires_at строго раньше этого момента
}
