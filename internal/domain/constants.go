package domain

import (
	"time"

	"github.com/m04kA/HSM-AppointmentService/pkg/types"
)

// Default configuration values
const (
	DefaultHoldMinutes           = 30 // Окно временного холда до оплаты
	DefaultSweepThresholdMinutes = 30 // Порог для свипера протухших холдов
)

// Booking window constants
const (
	MaxAdvanceBookingDays = 90 // Максимум дней вперёд для записи
	WorkdayOpenHour       = 6  // 06:00 — первый слот
	WorkdayCloseHour      = 22 // 22:00 — конец рабочего окна
	SlotStepMinutes       = 60 // Фиксированная часовая сетка слотов
	MaxNotesLength        = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// TerminalStatuses терминальные статусы — из них переходов нет
var TerminalStatuses = []AppointmentStatus{
	StatusCompleted,
	StatusCancelled,
}

// OccupyingStatuses статусы, занимающие слот при подсчёте доступности
// Неоплаченные временные холды слот не занимают
var OccupyingStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
}

// AllStatuses полный список статусов для валидации входных данных
var AllStatuses = []AppointmentStatus{
	StatusTemporary,
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
	StatusCancelled,
}

// FixedDailySlots возвращает фиксированную часовую сетку слотов на день:
// 06:00, 07:00, ..., 21:00 (последний слот заканчивается в 22:00)
func FixedDailySlots() []types.TimeString {
	slots := make([]types.TimeString, 0, WorkdayCloseHour-WorkdayOpenHour)
	for hour := WorkdayOpenHour; hour < WorkdayCloseHour; hour++ {
		slots = append(slots, types.NewTimeString(time.Date(0, 1, 1, hour, 0, 0, 0, time.UTC)))
	}
	return slots
}

// IsWorkingDay возвращает false для воскресенья — записи не принимаются
func IsWorkingDay(date time.Time) bool {
	return date.Weekday() != time.Sunday
}
