package create_appointment

import (
	"time"

	"github.com/m04kA/HSM-AppointmentService/internal/domain"
	createAppointment "github.com/m04kA/HSM-AppointmentService/internal/usecase/create_appointment"
	"github.com/m04kA/HSM-AppointmentService/pkg/types"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	ServiceID       int64   `json:"serviceId"`
	AppointmentDate string  `json:"appointmentDate"` // "2025-10-15"
	AppointmentTime string  `json:"appointmentTime"` // "10:00"
	Notes           *string `json:"notes,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID                     int64   `json:"id"`
	ConsumerID             int64   `json:"consumerId"`
	ProviderID             int64   `json:"providerId"`
	ServiceID              int64   `json:"serviceId"`
	AppointmentDate        string  `json:"appointmentDate"`
	AppointmentTime        string  `json:"appointmentTime"`
	Status                 string  `json:"status"`
	IsTemporary            bool    `json:"isTemporary"`
	ExpiresAt              string  `json:"expiresAt"`
	TimeUntilExpirySeconds int64   `json:"timeUntilExpirySeconds"`
	PaymentCompleted       bool    `json:"paymentCompleted"`
	ServiceTitle           string  `json:"serviceTitle"`
	ServicePrice           float64 `json:"servicePrice"`
	Notes                  *string `json:"notes,omitempty"`
	CreatedAt              string  `json:"createdAt"`
	UpdatedAt              string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(consumerID int64) (*createAppointment.Request, error) {
	// Парсим дату
	appointmentDate, err := time.Parse(domain.DateFormat, r.AppointmentDate)
	if err != nil {
		return nil, err
	}

	// Парсим время
	appointmentTime, err := types.NewTimeStringFromString(r.AppointmentTime)
	if err != nil {
		return nil, err
	}

	return &createAppointment.Request{
		ConsumerID: consumerID,
		ServiceID:  r.ServiceID,
		Date:       appointmentDate,
		StartTime:  appointmentTime,
		Notes:      r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:                     resp.ID,
		ConsumerID:             resp.ConsumerID,
		ProviderID:             resp.ProviderID,
		ServiceID:              resp.ServiceID,
		AppointmentDate:        resp.Date.Format(domain.DateFormat),
		AppointmentTime:        resp.StartTime.String(),
		Status:                 resp.Status,
		IsTemporary:            resp.IsTemporary,
		ExpiresAt:              resp.ExpiresAt.Format(time.RFC3339),
		TimeUntilExpirySeconds: resp.TimeUntilExpirySeconds,
		PaymentCompleted:       resp.PaymentCompleted,
		ServiceTitle:           resp.ServiceTitle,
		ServicePrice:           resp.ServicePrice,
		Notes:                  resp.Notes,
		CreatedAt:              resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:              resp.UpdatedAt.Format(time.RFC3339),
	}
}
