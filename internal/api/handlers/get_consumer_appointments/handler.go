package get_consumer_appointments

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/HSM-AppointmentService/internal/api/handlers"
	"github.com/m04kA/HSM-AppointmentService/internal/api/middleware"
	"github.com/m04kA/HSM-AppointmentService/internal/service/appointments"
	"github.com/m04kA/HSM-AppointmentService/internal/service/appointments/models"
)

const (
	msgInvalidConsumerID = "некорректный ID клиента"
	msgInvalidStatus     = "некорректный статус записи"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgForbidden         = "доступ запрещен"
)

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

// Handle GET /api/v1/consumers/{userId}/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем userId из URL
	vars := mux.Vars(r)
	consumerIDStr := vars["userId"]

	consumerID, err := strconv.ParseInt(consumerIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /consumers/{userId}/appointments - Invalid consumer ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidConsumerID)
		return
	}

	// Получаем callerID из контекста (через middleware Auth)
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /consumers/{userId}/appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Получаем status из query параметров (опционально)
	status := r.URL.Query().Get("status")
	var statusPtr *string
	if status != "" {
		statusPtr = &status
	}

	// Временные неоплаченные брони по умолчанию скрыты
	includeTemporary := r.URL.Query().Get("includeTemporary") == "true"

	serviceReq := &models.GetConsumerAppointmentsRequest{
		CallerID:         callerID,
		ConsumerID:       consumerID,
		Status:           statusPtr,
		IncludeTemporary: includeTemporary,
	}

	result, err := h.service.GetConsumerAppointments(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("GET /consumers/{userId}/appointments - Access denied: consumer_id=%d, caller_id=%d",
				consumerID, callerID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /consumers/{userId}/appointments - Invalid status: consumer_id=%d, status=%s",
				consumerID, status)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /consumers/{userId}/appointments - Failed to get appointments: consumer_id=%d, error=%v",
				consumerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /consumers/{userId}/appointments - Appointments retrieved successfully: consumer_id=%d, count=%d",
		consumerID, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result.Appointments)
}
