package simulate_payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/HSM-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/HSM-AppointmentService/internal/infra/storage/appointment"
	cartRepo "github.com/m04kA/HSM-AppointmentService/internal/infra/storage/cart"
)

// UseCase use case симуляции оплаты
// Реальный платежный шлюз не вызывается: "успех" означает, что все гарды
// прошли и синтезирован результат транзакции. Побочные эффекты (mark-paid
// записи + очистка корзины) применяются одной сериализуемой транзакцией
type UseCase struct {
	appointmentRepo    AppointmentRepository
	cartRepo           CartRepository
	txManager          TransactionManager
	highValueThreshold float64
	timeProvider       TimeProvider
	logger             Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	cartRepo CartRepository,
	txManager TransactionManager,
	highValueThreshold float64,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo:    appointmentRepo,
		cartRepo:           cartRepo,
		txManager:          txManager,
		highValueThreshold: highValueThreshold,
		timeProvider:       &RealTimeProvider{},
		logger:             logger,
	}
}

// Execute выполняет симуляцию оплаты
// Порядок валидации: корзина существует и принадлежит вызывающему → корзина
// непуста → (если передана запись) запись существует, принадлежит вызывающему,
// временная, не истекла, не оплачена. Все гарды перепроверяются внутри
// транзакции непосредственно перед мутацией
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("SimulatePayment: user=%d, cart=%d, method=%s, currency=%s",
		req.UserID, req.CartID, req.PaymentMethod, req.Currency)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("SimulatePayment: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	transactionID := "simulated_" + uuid.NewString()

	var result *Response

	// 2. Все проверки и мутации — в одной сериализуемой транзакции,
	// записи и корзина перечитываются под FOR UPDATE
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Корзина: существует, принадлежит вызывающему, непуста
		cart, err := uc.cartRepo.GetByID(txCtx, req.CartID)
		if err != nil {
			if errors.Is(err, cartRepo.ErrCartNotFound) {
				uc.logger.Warn("SimulatePayment: cart id=%d not found", req.CartID)
				return ErrCartNotFound
			}
			uc.logger.Error("SimulatePayment: failed to get cart id=%d: %v", req.CartID, err)
			return fmt.Errorf("%w: failed to get cart: %v", ErrInternal, err)
		}

		if cart.UserID != req.UserID {
			uc.logger.Warn("SimulatePayment: cart id=%d belongs to user=%d, caller=%d",
				req.CartID, cart.UserID, req.UserID)
			return ErrCartAccessDenied
		}

		if cart.IsEmpty() {
			uc.logger.Warn("SimulatePayment: cart id=%d is empty", req.CartID)
			return ErrCartEmpty
		}

		// 2.2. Запись (если передана): перечитываем под блокировкой и
		// проверяем гарды оплаты
		if req.AppointmentID != nil {
			appt, err := uc.appointmentRepo.GetByID(txCtx, *req.AppointmentID)
			if err != nil {
				if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
					uc.logger.Warn("SimulatePayment: appointment id=%d not found", *req.AppointmentID)
					return ErrAppointmentNotFound
				}
				uc.logger.Error("SimulatePayment: failed to get appointment id=%d: %v", *req.AppointmentID, err)
				return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
			}

			if err := validateAppointmentPayable(appt, req.UserID, now); err != nil {
				uc.logger.Warn("SimulatePayment: appointment id=%d not payable: %v", *req.AppointmentID, err)
				return err
			}

			// Переход mark-paid с привязкой транзакции
			if err := uc.appointmentRepo.MarkPaid(txCtx, appt.ID, &transactionID); err != nil {
				uc.logger.Error("SimulatePayment: failed to mark appointment id=%d paid: %v", appt.ID, err)
				return fmt.Errorf("%w: failed to mark appointment paid: %v", ErrInternal, err)
			}
		}

		// 2.3. Расчет сумм по содержимому корзины
		cartTotal := cart.Subtotal()
		serviceFee := domain.Round2(cartTotal * req.PaymentMethod.FeeRate())
		totalAmount := domain.Round2(cartTotal + serviceFee)

		// 2.4. Очистка корзины — в той же транзакции, что и mark-paid
		if err := uc.cartRepo.ClearItems(txCtx, cart.ID); err != nil {
			uc.logger.Error("SimulatePayment: failed to clear cart id=%d: %v", cart.ID, err)
			return fmt.Errorf("%w: failed to clear cart: %v", ErrInternal, err)
		}

		result = &Response{
			Status:                  "simulation_success",
			TransactionID:           transactionID,
			Amount:                  totalAmount,
			Currency:                string(req.Currency),
			PaymentMethod:           string(req.PaymentMethod),
			CartTotal:               cartTotal,
			ServiceFee:              serviceFee,
			TotalAmount:             totalAmount,
			EstimatedProcessingTime: req.PaymentMethod.ProcessingTime(),
			SuccessProbability:      req.PaymentMethod.SuccessProbability(totalAmount, uc.highValueThreshold),
			Message: fmt.Sprintf("Payment of %.2f %s simulated successfully via %s",
				totalAmount, req.Currency, req.PaymentMethod),
			AppointmentID: req.AppointmentID,
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("SimulatePayment: success, transaction_id=%s, total=%.2f %s",
		result.TransactionID, result.TotalAmount, result.Currency)

	return result, nil
}
