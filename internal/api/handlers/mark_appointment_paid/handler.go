package mark_appointment_paid

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/HSM-AppointmentService/internal/api/handlers"
	"github.com/m04kA/HSM-AppointmentService/internal/api/middleware"
	"github.com/m04kA/HSM-AppointmentService/internal/service/appointments"
	"github.com/m04kA/HSM-AppointmentService/internal/service/appointments/models"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgNotFound             = "запись не найдена"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgForbidden            = "доступ запрещен"
	msgAlreadyPaid          = "запись уже оплачена"
	msgNotTemporary         = "запись не является временной бронью"
	msgHoldExpired          = "временная бронь истекла"
)

// MarkPaidRequest HTTP request model
type MarkPaidRequest struct {
	PaymentReference *string `json:"paymentReference,omitempty"`
}

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/{appointmentId}/mark-paid
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем appointmentId из URL
	vars := mux.Vars(r)
	appointmentIDStr := vars["appointmentId"]

	appointmentID, err := strconv.ParseInt(appointmentIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/mark-paid - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments/{id}/mark-paid - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Декодируем body (тело опционально, ссылка на платеж может отсутствовать)
	var req MarkPaidRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("POST /appointments/{id}/mark-paid - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq := &models.MarkPaidRequest{
		UserID:           userID,
		PaymentReference: req.PaymentReference,
	}

	appointment, err := h.service.MarkPaid(r.Context(), appointmentID, serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/{id}/mark-paid - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("POST /appointments/{id}/mark-paid - Access denied: appointment_id=%d, user_id=%d",
				appointmentID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, appointments.ErrAlreadyPaid):
			h.logger.Warn("POST /appointments/{id}/mark-paid - Already paid: appointment_id=%d", appointmentID)
			handlers.RespondBadRequest(w, msgAlreadyPaid)

		case errors.Is(err, appointments.ErrNotTemporary):
			h.logger.Warn("POST /appointments/{id}/mark-paid - Not temporary: appointment_id=%d", appointmentID)
			handlers.RespondBadRequest(w, msgNotTemporary)

		case errors.Is(err, appointments.ErrHoldExpired):
			h.logger.Warn("POST /appointments/{id}/mark-paid - Hold expired: appointment_id=%d", appointmentID)
			handlers.RespondBadRequest(w, msgHoldExpired)

		default:
			h.logger.Error("POST /appointments/{id}/mark-paid - Failed to mark paid: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/{id}/mark-paid - Appointment marked paid: appointment_id=%d, user_id=%d",
		appointmentID, userID)
	handlers.RespondJSON(w, http.StatusOK, appointment)
}
