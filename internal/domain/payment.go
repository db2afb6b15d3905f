package domain

import "math"

// PaymentMethod represents a supported simulated payment method
type PaymentMethod string

const (
	MethodCreditCard PaymentMethod = "credit_card"
	MethodDebitCard  PaymentMethod = "debit_card"
	MethodCash       PaymentMethod = "cash"
	MethodTransfer   PaymentMethod = "transfer"
	MethodPayPal     PaymentMethod = "paypal"
)

// Currency represents a supported currency code
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

// DefaultFeeRate комиссия для неизвестного метода (запас на будущие методы)
const DefaultFeeRate = 0.030

// feeRates фиксированная таблица комиссий по методам оплаты
var feeRates = map[PaymentMethod]float64{
	MethodCreditCard: 0.035,
	MethodDebitCard:  0.025,
	MethodCash:       0.020,
	MethodTransfer:   0.015,
	MethodPayPal:     0.029,
}

// processingTimes ожидаемое время обработки по методам оплаты
var processingTimes = map[PaymentMethod]string{
	MethodCreditCard: "instant",
	MethodDebitCard:  "instant",
	MethodCash:       "on service delivery",
	MethodTransfer:   "1-2 business days",
	MethodPayPal:     "instant",
}

// successProbabilities базовая вероятность успеха по методам оплаты
var successProbabilities = map[PaymentMethod]float64{
	MethodCreditCard: 0.95,
	MethodDebitCard:  0.97,
	MethodCash:       0.99,
	MethodTransfer:   0.92,
	MethodPayPal:     0.94,
}

// HighValueProbabilityPenalty снижение вероятности успеха для крупных сумм
const HighValueProbabilityPenalty = 0.05

// IsValid returns true for a supported payment method
func (m PaymentMethod) IsValid() bool {
	_, ok := feeRates[m]
	return ok
}

// FeeRate returns the fee rate for the method (DefaultFeeRate for unknown ones)
func (m PaymentMethod) FeeRate() float64 {
	if rate, ok := feeRates[m]; ok {
		return rate
	}
	return DefaultFeeRate
}

// ProcessingTime returns the human-readable estimated processing time
func (m PaymentMethod) ProcessingTime() string {
	if t, ok := processingTimes[m]; ok {
		return t
	}
	return "unknown"
}

// SuccessProbability returns the simulated success probability, adjusted
// downward when totalAmount exceeds highValueThreshold
func (m PaymentMethod) SuccessProbability(totalAmount, highValueThreshold float64) float64 {
	probability, ok := successProbabilities[m]
	if !ok {
		probability = 0.90
	}
	if totalAmount > highValueThreshold {
		probability -= HighValueProbabilityPenalty
	}
	return probability
}

// IsValid returns true for a supported currency
func (c Currency) IsValid() bool {
	return c == CurrencyUSD || c == CurrencyEUR
}

// Round2 rounds a monetary amount to 2 decimal places
func Round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}
