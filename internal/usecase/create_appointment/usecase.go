package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/HSM-AppointmentService/internal/domain"
	catalogClient "github.com/m04kA/HSM-AppointmentService/internal/integrations/catalogservice"
	identityClient "github.com/m04kA/HSM-AppointmentService/internal/integrations/identityservice"
	"github.com/m04kA/HSM-AppointmentService/pkg/ptr"
)

// UseCase use case создания временного холда записи
// Запись создается в статусе temporary с окном оплаты holdDuration;
// неоплаченный холд позже удаляется свипером
type UseCase struct {
	appointmentRepo AppointmentRepository
	catalogClient   CatalogServiceClient
	identityClient  IdentityServiceClient
	holdDuration    time.Duration
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	catalogClient CatalogServiceClient,
	identityClient IdentityServiceClient,
	holdDuration time.Duration,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		catalogClient:   catalogClient,
		identityClient:  identityClient,
		holdDuration:    holdDuration,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания временного холда
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: consumer=%d, service=%d, date=%s, time=%s",
		req.ConsumerID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Валидация даты и времени (окно записи, воскресенье, сетка слотов)
	if err := validateDate(req.Date, now); err != nil {
		uc.logger.Warn("CreateAppointment: date validation failed: %v", err)
		return nil, err
	}

	if err := validateTime(req.StartTime); err != nil {
		uc.logger.Warn("CreateAppointment: time validation failed: %v", err)
		return nil, err
	}

	// 4. Разрешаем роль вызывающего — записи создают только потребители
	user, err := uc.identityClient.GetUser(ctx, req.ConsumerID)
	if err != nil {
		if errors.Is(err, identityClient.ErrUserNotFound) {
			uc.logger.Warn("CreateAppointment: user id=%d not found", req.ConsumerID)
			return nil, ErrUserNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get user id=%d: %v", req.ConsumerID, err)
		return nil, fmt.Errorf("%w: failed to get user: %v", ErrInternal, err)
	}

	if !user.IsConsumer() {
		uc.logger.Warn("CreateAppointment: user id=%d has role=%s, not consumer", req.ConsumerID, user.Role)
		return nil, ErrNotConsumer
	}

	// 5. Получаем услугу — провайдер записи берется из каталога
	service, err := uc.catalogClient.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !service.IsActive {
		uc.logger.Warn("CreateAppointment: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceInactive
	}

	// 6. Создаем временный холд с окном оплаты
	expiresAt := now.Add(uc.holdDuration)

	appt := &domain.Appointment{
		ConsumerID:      req.ConsumerID,
		ProviderID:      service.ProviderID,
		ServiceID:       req.ServiceID,
		AppointmentDate: req.Date,
		AppointmentTime: req.StartTime,
		Status:          domain.StatusTemporary,
		Notes:           req.Notes,

		IsTemporary:      true,
		ExpiresAt:        ptr.Ptr(expiresAt),
		PaymentCompleted: false,

		// Денормализация данных услуги
		ServiceTitle: service.Title,
		ServicePrice: service.Price,
	}

	created, err := uc.appointmentRepo.Create(ctx, appt)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
		return nil, fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateAppointment: successfully created temporary appointment id=%d, expires_at=%s",
		created.ID, expiresAt.Format(time.RFC3339))

	remaining, _ := created.TimeUntilExpiry(now)

	return &Response{
		ID:         created.ID,
		ConsumerID: created.ConsumerID,
		ProviderID: created.ProviderID,
		ServiceID:  created.ServiceID,
		Date:       created.AppointmentDate,
		StartTime:  created.AppointmentTime,
		Status:     string(created.Status),
		Notes:      created.Notes,

		IsTemporary:            created.IsTemporary,
		ExpiresAt:              expiresAt,
		TimeUntilExpirySeconds: int64(remaining.Seconds()),
		PaymentCompleted:       created.PaymentCompleted,

		ServiceTitle: created.ServiceTitle,
		ServicePrice: created.ServicePrice,

		CreatedAt: created.CreatedAt,
		UpdatedAt: created.UpdatedAt,
	}, nil
}
