package simulate_payment

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HSM-AppointmentService/internal/domain"
	appointmentStorage "github.com/m04kA/HSM-AppointmentService/internal/infra/storage/appointment"
	cartStorage "github.com/m04kA/HSM-AppointmentService/internal/infra/storage/cart"
	"github.com/m04kA/HSM-AppointmentService/pkg/ptr"
)

// Фиксированное "сейчас": понедельник 13 октября 2025, 12:00 UTC
var testNow = time.Date(2025, 10, 13, 12, 0, 0, 0, time.UTC)

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (l *nopLogger) Info(format string, v ...interface{})  {}
func (l *nopLogger) Warn(format string, v ...interface{})  {}
func (l *nopLogger) Error(format string, v ...interface{}) {}

type fakeAppointmentRepo struct {
	appt          *domain.Appointment
	getErr        error
	markPaidCalls int
	paidID        int64
	paidReference *string
}

func (r *fakeAppointmentRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.appt, nil
}

func (r *fakeAppointmentRepo) MarkPaid(ctx context.Context, id int64, paymentReference *string) error {
	r.markPaidCalls++
	r.paidID = id
	r.paidReference = paymentReference
	return nil
}

type fakeCartRepo struct {
	cart       *domain.Cart
	getErr     error
	clearCalls int
	clearedID  int64
}

func (r *fakeCartRepo) GetByID(ctx context.Context, id int64) (*domain.Cart, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.cart, nil
}

func (r *fakeCartRepo) ClearItems(ctx context.Context, cartID int64) error {
	r.clearCalls++
	r.clearedID = cartID
	return nil
}

// fakeTxManager прогоняет fn без реальной транзакции
type fakeTxManager struct {
	calls int
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

func newTestUseCase(appts *fakeAppointmentRepo, carts *fakeCartRepo, tx *fakeTxManager) *UseCase {
	uc := NewUseCase(appts, carts, tx, 500.0, &nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: testNow}
	return uc
}

func cartWithItems(userID int64) *domain.Cart {
	return &domain.Cart{
		ID:     7,
		UserID: userID,
		Items: []domain.CartItem{
			{ServiceID: 10, Quantity: 2, ServiceTitle: "Уборка квартиры", UnitPrice: 49.99},
			{ServiceID: 11, Quantity: 1, ServiceTitle: "Мытье окон", UnitPrice: 120.50},
		},
	}
}

func payableAppointment(consumerID int64) *domain.Appointment {
	expiresAt := testNow.Add(15 * time.Minute)
	return &domain.Appointment{
		ID:          101,
		ConsumerID:  consumerID,
		Status:      domain.StatusTemporary,
		IsTemporary: true,
		ExpiresAt:   &expiresAt,
	}
}

func validRequest() *Request {
	return &Request{
		UserID:        1,
		CartID:        7,
		PaymentMethod: domain.MethodCreditCard,
		Currency:      domain.CurrencyUSD,
	}
}

func TestUseCase_Execute_Success(t *testing.T) {
	carts := &fakeCartRepo{cart: cartWithItems(1)}
	tx := &fakeTxManager{}
	uc := newTestUseCase(&fakeAppointmentRepo{}, carts, tx)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// 2*49.99 + 120.50 = 220.48; комиссия credit_card 3.5%
	assert.Equal(t, "simulation_success", resp.Status)
	assert.Equal(t, 220.48, resp.CartTotal)
	assert.Equal(t, 7.72, resp.ServiceFee)
	assert.Equal(t, 228.20, resp.TotalAmount)
	assert.Equal(t, resp.TotalAmount, resp.Amount)
	assert.Equal(t, "USD", resp.Currency)
	assert.Equal(t, "credit_card", resp.PaymentMethod)
	assert.Equal(t, "instant", resp.EstimatedProcessingTime)
	assert.Equal(t, 0.95, resp.SuccessProbability)
	assert.True(t, strings.HasPrefix(resp.TransactionID, "simulated_"))
	assert.Equal(t, "Payment of 228.20 USD simulated successfully via credit_card", resp.Message)
	assert.Nil(t, resp.AppointmentID)

	assert.Equal(t, 1, tx.calls)
	assert.Equal(t, 1, carts.clearCalls)
	assert.Equal(t, int64(7), carts.clearedID)
}

func TestUseCase_Execute_FeePerMethod(t *testing.T) {
	tests := []struct {
		method  domain.PaymentMethod
		fee     float64
		total   float64
		procStr string
	}{
		{method: domain.MethodCreditCard, fee: 7.72, total: 228.20, procStr: "instant"},
		{method: domain.MethodDebitCard, fee: 5.51, total: 225.99, procStr: "instant"},
		{method: domain.MethodCash, fee: 4.41, total: 224.89, procStr: "on service delivery"},
		{method: domain.MethodTransfer, fee: 3.31, total: 223.79, procStr: "1-2 business days"},
		{method: domain.MethodPayPal, fee: 6.39, total: 226.87, procStr: "instant"},
	}

	for _, tt := range tests {
		t.Run(string(tt.method), func(t *testing.T) {
			uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeCartRepo{cart: cartWithItems(1)}, &fakeTxManager{})
			req := validRequest()
			req.PaymentMethod = tt.method

			resp, err := uc.Execute(context.Background(), req)
			require.NoError(t, err)
			assert.Equal(t, tt.fee, resp.ServiceFee)
			assert.Equal(t, tt.total, resp.TotalAmount)
			assert.Equal(t, tt.procStr, resp.EstimatedProcessingTime)
		})
	}
}

func TestUseCase_Execute_HighValuePenalty(t *testing.T) {
	// 3 * 200.00 = 600.00 > порога 500: вероятность успеха снижается на 0.05
	cart := &domain.Cart{
		ID:     7,
		UserID: 1,
		Items: []domain.CartItem{
			{ServiceID: 10, Quantity: 3, ServiceTitle: "Генеральная уборка", UnitPrice: 200.00},
		},
	}
	uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeCartRepo{cart: cart}, &fakeTxManager{})
	req := validRequest()
	req.PaymentMethod = domain.MethodCash

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 600.00, resp.CartTotal)
	assert.InDelta(t, 0.94, resp.SuccessProbability, 1e-9)
}

func TestUseCase_Execute_WithAppointment(t *testing.T) {
	appts := &fakeAppointmentRepo{appt: payableAppointment(1)}
	carts := &fakeCartRepo{cart: cartWithItems(1)}
	uc := newTestUseCase(appts, carts, &fakeTxManager{})

	apptID := int64(101)
	req := validRequest()
	req.AppointmentID = &apptID

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, appts.markPaidCalls)
	assert.Equal(t, int64(101), appts.paidID)
	require.NotNil(t, appts.paidReference)
	assert.Equal(t, resp.TransactionID, *appts.paidReference, "payment_reference — ID симулированной транзакции")
	assert.Equal(t, 1, carts.clearCalls, "корзина очищается в той же транзакции")
	require.NotNil(t, resp.AppointmentID)
	assert.Equal(t, int64(101), *resp.AppointmentID)
}

func TestUseCase_Execute_CartGuards(t *testing.T) {
	t.Run("корзина не найдена", func(t *testing.T) {
		uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeCartRepo{getErr: cartStorage.ErrCartNotFound}, &fakeTxManager{})
		_, err := uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrCartNotFound)
	})

	t.Run("чужая корзина", func(t *testing.T) {
		uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeCartRepo{cart: cartWithItems(2)}, &fakeTxManager{})
		_, err := uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrCartAccessDenied)
	})

	t.Run("пустая корзина", func(t *testing.T) {
		empty := &domain.Cart{ID: 7, UserID: 1}
		carts := &fakeCartRepo{cart: empty}
		uc := newTestUseCase(&fakeAppointmentRepo{}, carts, &fakeTxManager{})
		_, err := uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrCartEmpty)
		assert.Equal(t, 0, carts.clearCalls)
	})
}

func TestUseCase_Execute_AppointmentGuards(t *testing.T) {
	apptID := int64(101)

	tests := []struct {
		name    string
		appt    func() *domain.Appointment
		getErr  error
		wantErr error
	}{
		{
			name:    "запись не найдена",
			getErr:  appointmentStorage.ErrAppointmentNotFound,
			wantErr: ErrAppointmentNotFound,
		},
		{
			name: "чужая запись",
			appt: func() *domain.Appointment {
				return payableAppointment(99)
			},
			wantErr: ErrAppointmentAccessDenied,
		},
		{
			name: "уже оплачена",
			appt: func() *domain.Appointment {
				a := payableAppointment(1)
				a.PaymentCompleted = true
				return a
			},
			wantErr: ErrAppointmentAlreadyPaid,
		},
		{
			name: "не временный холд",
			appt: func() *domain.Appointment {
				a := payableAppointment(1)
				a.IsTemporary = false
				a.Status = domain.StatusPending
				return a
			},
			wantErr: ErrAppointmentNotTemporary,
		},
		{
			name: "холд истек",
			appt: func() *domain.Appointment {
				a := payableAppointment(1)
				expired := testNow.Add(-time.Minute)
				a.ExpiresAt = &expired
				return a
			},
			wantErr: ErrAppointmentExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appts := &fakeAppointmentRepo{getErr: tt.getErr}
			if tt.appt != nil {
				appts.appt = tt.appt()
			}
			carts := &fakeCartRepo{cart: cartWithItems(1)}
			uc := newTestUseCase(appts, carts, &fakeTxManager{})

			req := validRequest()
			req.AppointmentID = &apptID

			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 0, appts.markPaidCalls)
			assert.Equal(t, 0, carts.clearCalls, "при провале гарда корзина не очищается")
		})
	}
}

func TestUseCase_Execute_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(req *Request)
		wantErr error
	}{
		{name: "нулевой userID", mutate: func(req *Request) { req.UserID = 0 }, wantErr: ErrInvalidInput},
		{name: "нулевой cartID", mutate: func(req *Request) { req.CartID = 0 }, wantErr: ErrInvalidInput},
		{name: "неизвестный метод оплаты", mutate: func(req *Request) { req.PaymentMethod = "bitcoin" }, wantErr: ErrInvalidPaymentMethod},
		{name: "неподдерживаемая валюта", mutate: func(req *Request) { req.Currency = "RUB" }, wantErr: ErrInvalidCurrency},
		{
			name:    "отрицательный appointmentID",
			mutate:  func(req *Request) { req.AppointmentID = ptr.Ptr(int64(-1)) },
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := &fakeTxManager{}
			uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeCartRepo{cart: cartWithItems(1)}, tx)
			req := validRequest()
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 0, tx.calls, "валидация до открытия транзакции")
		})
	}
}
