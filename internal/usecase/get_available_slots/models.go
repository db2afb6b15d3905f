package get_available_slots

import (
	"time"

	"github.com/m04kA/HSM-AppointmentService/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	ServiceID int64     // ID услуги
	Date      time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	ServiceID      int64              // ID услуги
	Date           time.Time          // Дата, на которую запрашивались слоты
	AvailableSlots []types.TimeString // Список свободных времен начала
	OccupiedSlots  []types.TimeString // Список занятых времен начала
	TotalSlots     int                // Общее количество слотов в сетке дня
}
