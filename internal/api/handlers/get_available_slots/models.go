package get_available_slots

import (
	"github.com/m04kA/HSM-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/HSM-AppointmentService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	ServiceID      int64    `json:"serviceId"`
	Date           string   `json:"date"`
	AvailableTimes []string `json:"availableTimes"`
	OccupiedTimes  []string `json:"occupiedTimes"`
	TotalSlots     int      `json:"totalSlots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	availableTimes := make([]string, len(resp.AvailableSlots))
	for i, t := range resp.AvailableSlots {
		availableTimes[i] = t.String()
	}

	occupiedTimes := make([]string, len(resp.OccupiedSlots))
	for i, t := range resp.OccupiedSlots {
		occupiedTimes[i] = t.String()
	}

	return &AvailableSlotsResponse{
		ServiceID:      resp.ServiceID,
		Date:           resp.Date.Format(domain.DateFormat),
		AvailableTimes: availableTimes,
		OccupiedTimes:  occupiedTimes,
		TotalSlots:     resp.TotalSlots,
	}
}
