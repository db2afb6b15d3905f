package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/HSM-AppointmentService/internal/api/handlers"
	"github.com/m04kA/HSM-AppointmentService/internal/api/middleware"
	createAppointment "github.com/m04kA/HSM-AppointmentService/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты записи, ожидается YYYY-MM-DD"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgUserNotFound       = "пользователь не найден"
	msgNotConsumer        = "создавать записи могут только клиенты"
	msgServiceNotFound    = "услуга не найдена"
	msgServiceInactive    = "услуга недоступна для записи"
	msgDateInPast         = "дата записи в прошлом"
	msgDateTooFar         = "дата записи слишком далеко в будущем"
	msgSundayNotBookable  = "запись на воскресенье недоступна"
	msgTimeOutsideHours   = "время вне рабочих часов"
	msgTimeNotOnGrid      = "время не попадает на сетку слотов"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Получаем userID из контекста (через middleware Auth)
	consumerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(consumerID)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrUserNotFound):
			h.logger.Warn("POST /appointments - User not found: user_id=%d", consumerID)
			handlers.RespondNotFound(w, msgUserNotFound)

		case errors.Is(err, createAppointment.ErrNotConsumer):
			h.logger.Warn("POST /appointments - Not a consumer: user_id=%d", consumerID)
			handlers.RespondForbidden(w, msgNotConsumer)

		case errors.Is(err, createAppointment.ErrServiceNotFound):
			h.logger.Warn("POST /appointments - Service not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createAppointment.ErrServiceInactive):
			h.logger.Warn("POST /appointments - Service inactive: service_id=%d", req.ServiceID)
			handlers.RespondBadRequest(w, msgServiceInactive)

		case errors.Is(err, createAppointment.ErrDateInPast):
			h.logger.Warn("POST /appointments - Date in past: user_id=%d, date=%s", consumerID, req.AppointmentDate)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, createAppointment.ErrDateTooFarInFuture):
			h.logger.Warn("POST /appointments - Date too far in future: user_id=%d, date=%s", consumerID, req.AppointmentDate)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createAppointment.ErrSundayNotBookable):
			h.logger.Warn("POST /appointments - Sunday not bookable: user_id=%d, date=%s", consumerID, req.AppointmentDate)
			handlers.RespondBadRequest(w, msgSundayNotBookable)

		case errors.Is(err, createAppointment.ErrTimeOutsideWorkingHours):
			h.logger.Warn("POST /appointments - Time outside working hours: user_id=%d, time=%s", consumerID, req.AppointmentTime)
			handlers.RespondBadRequest(w, msgTimeOutsideHours)

		case errors.Is(err, createAppointment.ErrTimeNotOnSlotGrid):
			h.logger.Warn("POST /appointments - Time not on slot grid: user_id=%d, time=%s", consumerID, req.AppointmentTime)
			handlers.RespondBadRequest(w, msgTimeNotOnGrid)

		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: user_id=%d, error=%v", consumerID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: user_id=%d, service_id=%d, error=%v",
				consumerID, req.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("POST /appointments - Temporary hold created: appointment_id=%d, user_id=%d, service_id=%d",
		result.ID, consumerID, req.ServiceID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
