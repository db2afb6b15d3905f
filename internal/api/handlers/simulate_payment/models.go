package simulate_payment

import (
	"github.com/m04kA/HSM-AppointmentService/internal/domain"
	simulatePayment "github.com/m04kA/HSM-AppointmentService/internal/usecase/simulate_payment"
)

// SimulatePaymentRequest HTTP request model
type SimulatePaymentRequest struct {
	CartID        int64  `json:"cartId"`
	PaymentMethod string `json:"paymentMethod"`
	Currency      string `json:"currency,omitempty"`
	AppointmentID *int64 `json:"appointmentId,omitempty"`
}

// SimulatePaymentResponse HTTP response model
type SimulatePaymentResponse struct {
	Status                  string  `json:"status"`
	TransactionID           string  `json:"transactionId"`
	Amount                  float64 `json:"amount"`
	Currency                string  `json:"currency"`
	PaymentMethod           string  `json:"paymentMethod"`
	CartTotal               float64 `json:"cartTotal"`
	ServiceFee              float64 `json:"serviceFee"`
	TotalAmount             float64 `json:"totalAmount"`
	EstimatedProcessingTime string  `json:"estimatedProcessingTime"`
	SuccessProbability      float64 `json:"successProbability"`
	Message                 string  `json:"message"`
	AppointmentID           *int64  `json:"appointmentId,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// Пустая валюта заменяется валютой по умолчанию из конфигурации
func (r *SimulatePaymentRequest) ToUseCaseRequest(userID int64, defaultCurrency domain.Currency) *simulatePayment.Request {
	currency := domain.Currency(r.Currency)
	if r.Currency == "" {
		currency = defaultCurrency
	}

	return &simulatePayment.Request{
		UserID:        userID,
		CartID:        r.CartID,
		PaymentMethod: domain.PaymentMethod(r.PaymentMethod),
		Currency:      currency,
		AppointmentID: r.AppointmentID,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *simulatePayment.Response) *SimulatePaymentResponse {
	return &SimulatePaymentResponse{
		Status:                  resp.Status,
		TransactionID:           resp.TransactionID,
		Amount:                  resp.Amount,
		Currency:                resp.Currency,
		PaymentMethod:           resp.PaymentMethod,
		CartTotal:               resp.CartTotal,
		ServiceFee:              resp.ServiceFee,
		TotalAmount:             resp.TotalAmount,
		EstimatedProcessingTime: resp.EstimatedProcessingTime,
		SuccessProbability:      resp.SuccessProbability,
		Message:                 resp.Message,
		AppointmentID:           resp.AppointmentID,
	}
}
