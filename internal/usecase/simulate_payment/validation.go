package simulate_payment

import (
	"fmt"
	"time"

	"github.com/m04kA/HSM-AppointmentService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.CartID <= 0 {
		return fmt.Errorf("%w: cartID must be positive", ErrInvalidInput)
	}

	if !req.PaymentMethod.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, req.PaymentMethod)
	}

	if !req.Currency.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCurrency, req.Currency)
	}

	if req.AppointmentID != nil && *req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	return nil
}

// validateAppointmentPayable проверяет гарды оплаты записи
// Вызывается внутри транзакции после перечитывания записи под FOR UPDATE —
// именно эта повторная проверка закрывает гонку двойной оплаты
func validateAppointmentPayable(appt *domain.Appointment, userID int64, now time.Time) error {
	if appt.ConsumerID != userID {
		return ErrAppointmentAccessDenied
	}

	if appt.PaymentCompleted {
		return ErrAppointmentAlreadyPaid
	}

	if !appt.IsTemporary {
		return ErrAppointmentNotTemporary
	}

	if appt.IsExpired(now) {
		return ErrAppointmentExpired
	}

	return nil
}
