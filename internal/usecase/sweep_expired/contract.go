package sweep_expired

import (
	"context"
	"time"

	"github.com/m04kA/HSM-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// ListExpired возвращает просроченные временные неоплаченные записи
	ListExpired(ctx context.Context, filter domain.ExpiredAppointmentsFilter) ([]*domain.Appointment, error)
	// DeleteExpired удаляет просроченные временные неоплаченные записи
	DeleteExpired(ctx context.Context, filter domain.ExpiredAppointmentsFilter) (int64, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
