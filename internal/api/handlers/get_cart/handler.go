package get_cart

import (
	"net/http"

	"github.com/m04kA/HSM-AppointmentService/internal/api/handlers"
	"github.com/m04kA/HSM-AppointmentService/internal/api/middleware"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
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

// Handle GET /api/v1/carts/me
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /carts/me - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Корзина создается лениво, поэтому not found здесь невозможен
	cart, err := h.service.GetByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("GET /carts/me - Failed to get cart: user_id=%d, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /carts/me - Cart retrieved successfully: user_id=%d, items=%d", userID, cart.TotalItems)
	handlers.RespondJSON(w, http.StatusOK, cart)
}
