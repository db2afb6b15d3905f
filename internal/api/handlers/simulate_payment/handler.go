package simulate_payment

import (
	"errors"
	"net/http"

	"github.com/m04kA/HSM-AppointmentService/internal/api/handlers"
	"github.com/m04kA/HSM-AppointmentService/internal/api/middleware"
	"github.com/m04kA/HSM-AppointmentService/internal/domain"
	simulatePayment "github.com/m04kA/HSM-AppointmentService/internal/usecase/simulate_payment"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgCartNotFound         = "корзина не найдена"
	msgCartForbidden        = "корзина принадлежит другому пользователю"
	msgCartEmpty            = "корзина пуста"
	msgAppointmentNotFound  = "запись не найдена"
	msgAppointmentForbidden = "запись принадлежит другому пользователю"
	msgAlreadyPaid          = "запись уже оплачена"
	msgNotTemporary         = "запись не является временной бронью"
	msgHoldExpired          = "временная бронь истекла"
	msgInvalidPaymentMethod = "некорректный метод оплаты"
	msgInvalidCurrency      = "некорректная валюта"
)

type Handler struct {
	useCase         SimulatePaymentUseCase
	defaultCurrency domain.Currency
	logger          Logger
}

func NewHandler(useCase SimulatePaymentUseCase, defaultCurrency domain.Currency, logger Logger) *Handler {
	return &Handler{
		useCase:         useCase,
		defaultCurrency: defaultCurrency,
		logger:          logger,
	}
}

// Handle POST /api/v1/payments/simulate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /payments/simulate - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req SimulatePaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /payments/simulate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(userID, h.defaultCurrency))
	if err != nil {
		switch {
		case errors.Is(err, simulatePayment.ErrCartNotFound):
			h.logger.Warn("POST /payments/simulate - Cart not found: cart_id=%d, user_id=%d", req.CartID, userID)
			handlers.RespondNotFound(w, msgCartNotFound)

		case errors.Is(err, simulatePayment.ErrCartAccessDenied):
			h.logger.Warn("POST /payments/simulate - Cart access denied: cart_id=%d, user_id=%d", req.CartID, userID)
			handlers.RespondForbidden(w, msgCartForbidden)

		case errors.Is(err, simulatePayment.ErrCartEmpty):
			h.logger.Warn("POST /payments/simulate - Cart empty: cart_id=%d, user_id=%d", req.CartID, userID)
			handlers.RespondBadRequest(w, msgCartEmpty)

		case errors.Is(err, simulatePayment.ErrAppointmentNotFound):
			h.logger.Warn("POST /payments/simulate - Appointment not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgAppointmentNotFound)

		case errors.Is(err, simulatePayment.ErrAppointmentAccessDenied):
			h.logger.Warn("POST /payments/simulate - Appointment access denied: user_id=%d", userID)
			handlers.RespondForbidden(w, msgAppointmentForbidden)

		case errors.Is(err, simulatePayment.ErrAppointmentAlreadyPaid):
			h.logger.Warn("POST /payments/simulate - Appointment already paid: user_id=%d", userID)
			handlers.RespondBadRequest(w, msgAlreadyPaid)

		case errors.Is(err, simulatePayment.ErrAppointmentNotTemporary):
			h.logger.Warn("POST /payments/simulate - Appointment not temporary: user_id=%d", userID)
			handlers.RespondBadRequest(w, msgNotTemporary)

		case errors.Is(err, simulatePayment.ErrAppointmentExpired):
			h.logger.Warn("POST /payments/simulate - Hold expired: user_id=%d", userID)
			handlers.RespondBadRequest(w, msgHoldExpired)

		case errors.Is(err, simulatePayment.ErrInvalidPaymentMethod):
			h.logger.Warn("POST /payments/simulate - Invalid payment method: method=%s, user_id=%d", req.PaymentMethod, userID)
			handlers.RespondBadRequest(w, msgInvalidPaymentMethod)

		case errors.Is(err, simulatePayment.ErrInvalidCurrency):
			h.logger.Warn("POST /payments/simulate - Invalid currency: currency=%s, user_id=%d", req.Currency, userID)
			handlers.RespondBadRequest(w, msgInvalidCurrency)

		case errors.Is(err, simulatePayment.ErrInvalidInput):
			h.logger.Warn("POST /payments/simulate - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /payments/simulate - Failed to simulate payment: cart_id=%d, user_id=%d, error=%v",
				req.CartID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /payments/simulate - Payment simulated: transaction_id=%s, user_id=%d, total=%.2f",
		result.TransactionID, userID, result.TotalAmount)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
