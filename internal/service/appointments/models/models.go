package models

import (
	"errors"
	"time"

	"github.com/m04kA/HSM-AppointmentService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// CancelAppointmentRequest запрос на отмену записи
type CancelAppointmentRequest struct {
	UserID int64   `json:"userId"`
	Reason *string `json:"reason,omitempty"`
}

// UpdateStatusRequest запрос на обновление статуса записи
type UpdateStatusRequest struct {
	UserID int64   `json:"userId"`
	Status string  `json:"status"`
	Notes  *string `json:"notes,omitempty"`
}

// MarkPaidRequest запрос на отметку записи как оплаченной
type MarkPaidRequest struct {
	UserID           int64   `json:"userId"`
	PaymentReference *string `json:"paymentReference,omitempty"`
}

// GetConsumerAppointmentsRequest запрос на получение записей клиента
type GetConsumerAppointmentsRequest struct {
	CallerID         int64   `json:"callerId"`
	ConsumerID       int64   `json:"consumerId"`
	Status           *string `json:"status,omitempty"`
	IncludeTemporary bool    `json:"includeTemporary,omitempty"`
}

// GetProviderAppointmentsRequest запрос на получение записей исполнителя
type GetProviderAppointmentsRequest struct {
	CallerID   int64      `json:"callerId"`
	ProviderID int64      `json:"providerId"`
	Status     *string    `json:"status,omitempty"`
	Date       *time.Time `json:"date,omitempty"`
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID              int64  `json:"id"`
	ConsumerID      int64  `json:"consumerId"`
	ProviderID      int64  `json:"providerId"`
	ServiceID       int64  `json:"serviceId"`
	AppointmentDate string `json:"appointmentDate"` // "2025-10-15"
	AppointmentTime string `json:"appointmentTime"` // "10:00"
	Status          string `json:"status"`

	IsTemporary            bool    `json:"isTemporary"`
	ExpiresAt              *string `json:"expiresAt,omitempty"` // ISO 8601 format
	IsExpired              bool    `json:"isExpired"`
	TimeUntilExpirySeconds *int64  `json:"timeUntilExpirySeconds,omitempty"`
	PaymentCompleted       bool    `json:"paymentCompleted"`
	PaymentReference       *string `json:"paymentReference,omitempty"`

	// Денормализованные данные услуги
	ServiceTitle string  `json:"serviceTitle"`
	ServicePrice float64 `json:"servicePrice"`

	Notes *string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
// Производные поля окна холда (isExpired, timeUntilExpirySeconds)
// вычисляются от переданного момента времени
func FromDomainAppointment(a *domain.Appointment, now time.Time) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:               a.ID,
		ConsumerID:       a.ConsumerID,
		ProviderID:       a.ProviderID,
		ServiceID:        a.ServiceID,
		AppointmentDate:  a.AppointmentDate.Format(domain.DateFormat),
		AppointmentTime:  a.AppointmentTime.String(),
		Status:           string(a.Status),
		IsTemporary:      a.IsTemporary,
		PaymentCompleted: a.PaymentCompleted,
		PaymentReference: a.PaymentReference,
		ServiceTitle:     a.ServiceTitle,
		ServicePrice:     a.ServicePrice,
		Notes:            a.Notes,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}

	// Конвертируем ExpiresAt в строку ISO 8601
	if a.ExpiresAt != nil {
		expiresStr := a.ExpiresAt.Format(time.RFC3339)
		resp.ExpiresAt = &expiresStr
	}

	resp.IsExpired = a.IsExpired(now)
	if remaining, ok := a.TimeUntilExpiry(now); ok {
		seconds := int64(remaining.Seconds())
		resp.TimeUntilExpirySeconds = &seconds
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment, now time.Time) *AppointmentListResponse {
	if appointments == nil {
		return &AppointmentListResponse{
			Appointments: []AppointmentResponse{},
		}
	}

	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, len(appointments)),
	}

	for i, appointment := range appointments {
		if apptResp := FromDomainAppointment(appointment, now); apptResp != nil {
			resp.Appointments[i] = *apptResp
		}
	}

	return resp
}

// ToDomainAppointmentStatus конвертирует строку в domain.AppointmentStatus с валидацией
func ToDomainAppointmentStatus(status string) (domain.AppointmentStatus, error) {
	s := domain.AppointmentStatus(status)

	for _, valid := range domain.AllStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}
