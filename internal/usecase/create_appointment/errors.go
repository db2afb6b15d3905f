package create_appointment

import "errors"

var (
	// ErrUserNotFound возвращается, когда пользователь не найден
	ErrUserNotFound = errors.New("create_appointment: user not found")

	// ErrNotConsumer возвращается, когда запись пытается создать не потребитель
	ErrNotConsumer = errors.New("create_appointment: only consumers may create appointments")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_appointment: service not found")

	// ErrServiceInactive возвращается, когда услуга неактивна
	ErrServiceInactive = errors.New("create_appointment: service is not active")

	// ErrDateInPast возвращается для даты в прошлом
	ErrDateInPast = errors.New("create_appointment: appointment date is in the past")

	// ErrDateTooFarInFuture возвращается, когда дата дальше 90 дней вперед
	ErrDateTooFarInFuture = errors.New("create_appointment: date is too far in the future")

	// ErrSundayNotBookable возвращается для воскресенья
	ErrSundayNotBookable = errors.New("create_appointment: appointments are not available on Sundays")

	// ErrTimeOutsideWorkingHours возвращается для времени вне окна 06:00-22:00
	ErrTimeOutsideWorkingHours = errors.New("create_appointment: time is outside working hours")

	// ErrTimeNotOnSlotGrid возвращается, когда время не попадает на часовую сетку слотов
	ErrTimeNotOnSlotGrid = errors.New("create_appointment: time does not match the slot grid")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
