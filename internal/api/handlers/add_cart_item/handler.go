package add_cart_item

import (
	"errors"
	"net/http"

	"github.com/m04kA/HSM-AppointmentService/internal/api/handlers"
	"github.com/m04kA/HSM-AppointmentService/internal/api/middleware"
	"github.com/m04kA/HSM-AppointmentService/internal/service/carts"
	"github.com/m04kA/HSM-AppointmentService/internal/service/carts/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgServiceNotFound    = "услуга не найдена"
	msgServiceInactive    = "услуга недоступна для добавления"
	msgInvalidQuantity    = "некорректное количество"
)

// AddItemRequest HTTP request model
type AddItemRequest struct {
	ServiceID int64 `json:"serviceId"`
	Quantity  int   `json:"quantity"`
}

type Handler struct {
	service CartService
	logger  Logger
}

func NewHandler(service CartService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/carts/me/items
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /carts/me/items - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req AddItemRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /carts/me/items - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Количество по умолчанию - одна позиция
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart, err := h.service.AddItem(r.Context(), &models.AddItemRequest{
		UserID:    userID,
		ServiceID: req.ServiceID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		switch {
		case errors.Is(err, carts.ErrServiceNotFound):
			h.logger.Warn("POST /carts/me/items - Service not found: service_id=%d, user_id=%d", req.ServiceID, userID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, carts.ErrServiceInactive):
			h.logger.Warn("POST /carts/me/items - Service inactive: service_id=%d, user_id=%d", req.ServiceID, userID)
			handlers.RespondBadRequest(w, msgServiceInactive)

		case errors.Is(err, carts.ErrInvalidInput):
			h.logger.Warn("POST /carts/me/items - Invalid quantity: quantity=%d, user_id=%d", req.Quantity, userID)
			handlers.RespondBadRequest(w, msgInvalidQuantity)

		default:
			h.logger.Error("POST /carts/me/items - Failed to add item: service_id=%d, user_id=%d, error=%v",
				req.ServiceID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /carts/me/items - Item added successfully: service_id=%d, user_id=%d, items=%d",
		req.ServiceID, userID, cart.TotalItems)
	handlers.RespondJSON(w, http.StatusCreated, cart)
}
