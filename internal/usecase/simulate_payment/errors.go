package simulate_payment

import "errors"

var (
	// ErrCartNotFound возвращается, когда корзина не найдена
	ErrCartNotFound = errors.New("simulate_payment: cart not found")

	// ErrCartAccessDenied возвращается, когда корзина принадлежит другому пользователю
	ErrCartAccessDenied = errors.New("simulate_payment: cart belongs to another user")

	// ErrCartEmpty возвращается для пустой корзины
	ErrCartEmpty = errors.New("simulate_payment: cart is empty")

	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("simulate_payment: appointment not found")

	// ErrAppointmentAccessDenied возвращается, когда запись принадлежит другому пользователю
	ErrAppointmentAccessDenied = errors.New("simulate_payment: appointment belongs to another user")

	// ErrAppointmentAlreadyPaid возвращается, когда запись уже оплачена
	ErrAppointmentAlreadyPaid = errors.New("simulate_payment: appointment already marked as paid")

	// ErrAppointmentNotTemporary возвращается, когда запись не является временным холдом
	ErrAppointmentNotTemporary = errors.New("simulate_payment: appointment is not a temporary hold")

	// ErrAppointmentExpired возвращается, когда окно холда истекло
	ErrAppointmentExpired = errors.New("simulate_payment: temporary hold expired")

	// ErrInvalidPaymentMethod возвращается для неизвестного метода оплаты
	ErrInvalidPaymentMethod = errors.New("simulate_payment: invalid payment method")

	// ErrInvalidCurrency возвращается для неподдерживаемой валюты
	ErrInvalidCurrency = errors.New("simulate_payment: invalid currency")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("simulate_payment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("simulate_payment: internal error")
)
