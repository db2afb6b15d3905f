package create_appointment

import (
	"time"

	"github.com/m04kA/HSM-AppointmentService/pkg/types"
)

// Request модель запроса на создание временного холда записи
type Request struct {
	ConsumerID int64            // ID потребителя (из X-User-ID)
	ServiceID  int64            // ID услуги каталога
	Date       time.Time        // Дата записи (без времени)
	StartTime  types.TimeString // Время начала (например, "10:00")
	Notes      *string          // Дополнительные заметки (опционально)
}

// Response модель ответа с созданным временным холдом
type Response struct {
	ID         int64
	ConsumerID int64
	ProviderID int64
	ServiceID  int64
	Date       time.Time
	StartTime  types.TimeString
	Status     string
	Notes      *string

	IsTemporary            bool
	ExpiresAt              time.Time
	TimeUntilExpirySeconds int64
	PaymentCompleted       bool

	// Денормализованные данные услуги
	ServiceTitle string
	ServicePrice float64

	CreatedAt time.Time
	UpdatedAt time.Time
}
