package create_appointment

import (
	"fmt"
	"time"

	"github.com/m04kA/HSM-AppointmentService/internal/domain"
	"github.com/m04kA/HSM-AppointmentService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ConsumerID <= 0 {
		return fmt.Errorf("%w: consumerID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// Проверяем, что время начала указано
	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	// Валидируем формат времени
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateDate проверяет, что дата подходит для записи:
// не в прошлом, не дальше MaxAdvanceBookingDays и не воскресенье
func validateDate(date time.Time, now time.Time) error {
	if isDateInPast(date, now) {
		return ErrDateInPast
	}

	maxDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, domain.MaxAdvanceBookingDays)

	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	if dateOnly.After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, domain.MaxAdvanceBookingDays)
	}

	if !domain.IsWorkingDay(date) {
		return ErrSundayNotBookable
	}

	return nil
}

// validateTime проверяет, что время начала лежит на фиксированной сетке слотов
// внутри рабочего окна 06:00-22:00
func validateTime(startTime types.TimeString) error {
	parsed, err := startTime.ToTime()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	hour := parsed.Hour()
	if hour < domain.WorkdayOpenHour || hour >= domain.WorkdayCloseHour {
		return fmt.Errorf("%w: slots run from %02d:00 to %02d:00",
			ErrTimeOutsideWorkingHours, domain.WorkdayOpenHour, domain.WorkdayCloseHour)
	}

	// Часовая сетка: минуты должны быть нулевыми
	if parsed.Minute() != 0 {
		return fmt.Errorf("%w: slots start on the hour", ErrTimeNotOnSlotGrid)
	}

	return nil
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	// Обнуляем время, чтобы сравнивать только даты
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
