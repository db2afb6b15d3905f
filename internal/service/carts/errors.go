package carts

import "errors"

var (
	// ErrCartNotFound возвращается, когда корзина не найдена
	ErrCartNotFound = errors.New("cart not found")

	// ErrItemNotFound возвращается, когда позиция не найдена в корзине
	ErrItemNotFound = errors.New("cart item not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("service not found")

	// ErrServiceInactive возвращается при попытке добавить неактивную услугу
	ErrServiceInactive = errors.New("service is not active")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
