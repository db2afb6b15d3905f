package simulate_payment

import "github.com/m04kA/HSM-AppointmentService/internal/domain"

// Request модель запроса симуляции оплаты
type Request struct {
	UserID        int64                // ID вызывающего (из X-User-ID)
	CartID        int64                // ID корзины (должна принадлежать вызывающему)
	PaymentMethod domain.PaymentMethod // Метод оплаты
	Currency      domain.Currency      // Валюта (по умолчанию USD)
	AppointmentID *int64               // Запись для оплаты (опционально)
}

// Response результат симуляции оплаты
// Эфемерный расчет: как отдельная сущность не персистится, след остается
// в payment_reference записи
type Response struct {
	Status                  string  // Всегда "simulation_success"
	TransactionID           string  // Уникальный ID транзакции (simulated_<uuid>)
	Amount                  float64 // Сумма к списанию (== TotalAmount)
	Currency                string
	PaymentMethod           string
	CartTotal               float64
	ServiceFee              float64
	TotalAmount             float64
	EstimatedProcessingTime string
	SuccessProbability      float64
	Message                 string
	AppointmentID           *int64
}
