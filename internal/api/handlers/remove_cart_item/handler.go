package remove_cart_item

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/HSM-AppointmentService/internal/api/handlers"
	"github.com/m04kA/HSM-AppointmentService/internal/api/middleware"
	"github.com/m04kA/HSM-AppointmentService/internal/service/carts"
)

const (
	msgInvalidServiceID = "некорректный ID услуги"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgCartNotFound     = "корзина не найдена"
	msgItemNotFound     = "позиция не найдена в корзине"
)

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

// Handle DELETE /api/v1/carts/me/items/{serviceId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем serviceId из URL
	vars := mux.Vars(r)
	serviceIDStr := vars["serviceId"]

	serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /carts/me/items/{serviceId} - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /carts/me/items/{serviceId} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	cart, err := h.service.RemoveItem(r.Context(), userID, serviceID)
	if err != nil {
		switch {
		case errors.Is(err, carts.ErrCartNotFound):
			h.logger.Warn("DELETE /carts/me/items/{serviceId} - Cart not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgCartNotFound)

		case errors.Is(err, carts.ErrItemNotFound):
			h.logger.Warn("DELETE /carts/me/items/{serviceId} - Item not found: service_id=%d, user_id=%d",
				serviceID, userID)
			handlers.RespondNotFound(w, msgItemNotFound)

		default:
			h.logger.Error("DELETE /carts/me/items/{serviceId} - Failed to remove item: service_id=%d, user_id=%d, error=%v",
				serviceID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /carts/me/items/{serviceId} - Item removed successfully: service_id=%d, user_id=%d, items=%d",
		serviceID, userID, cart.TotalItems)
	handlers.RespondJSON(w, http.StatusOK, cart)
}
