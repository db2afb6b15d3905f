package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/HSM-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/HSM-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/HSM-AppointmentService/internal/service/appointments/models"
)

// Service сервис для работы с записями на услуги
type Service struct {
	appointmentRepo AppointmentRepository
	identityClient  IdentityServiceClient
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	identityClient IdentityServiceClient,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		identityClient:  identityClient,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// GetByID получает запись по ID
// Проверяет права доступа - запись видят только её клиент, её исполнитель
// или пользователь с ролью management
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for user=%d", id, userID)

	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if err := s.checkUserAccess(ctx, appointment, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%d", userID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%d", id)
	return models.FromDomainAppointment(appointment, s.timeProvider.Now()), nil
}

// GetConsumerAppointments получает историю записей клиента
// Доступно самому клиенту или пользователю с ролью management.
// Временные неоплаченные брони по умолчанию скрыты, includeTemporary
// возвращает и их
func (s *Service) GetConsumerAppointments(ctx context.Context, req *models.GetConsumerAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetConsumerAppointments: fetching appointments for consumer=%d, caller=%d, status=%v, includeTemporary=%t",
		req.ConsumerID, req.CallerID, req.Status, req.IncludeTemporary)

	if req.CallerID != req.ConsumerID {
		if err := s.checkManagementAccess(ctx, req.CallerID); err != nil {
			s.logger.Warn("GetConsumerAppointments: access denied for caller=%d to consumer=%d", req.CallerID, req.ConsumerID)
			return nil, err
		}
	}

	filter := domain.ConsumerAppointmentsFilter{
		ConsumerID:       req.ConsumerID,
		IncludeTemporary: req.IncludeTemporary,
	}

	if req.Status != nil {
		status, err := models.ToDomainAppointmentStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetConsumerAppointments: invalid status=%s for consumer=%d", *req.Status, req.ConsumerID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
	}

	appointments, err := s.appointmentRepo.GetByConsumer(ctx, filter)
	if err != nil {
		s.logger.Error("GetConsumerAppointments: repository error for consumer=%d: %v", req.ConsumerID, err)
		return nil, fmt.Errorf("%w: GetConsumerAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetConsumerAppointments: successfully fetched %d appointments for consumer=%d", len(appointments), req.ConsumerID)
	return models.FromDomainAppointmentList(appointments, s.timeProvider.Now()), nil
}

// GetProviderAppointments получает записи исполнителя
// Доступно самому исполнителю или пользователю с ролью management.
// Временные неоплаченные брони в выдачу не попадают
func (s *Service) GetProviderAppointments(ctx context.Context, req *models.GetProviderAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetProviderAppointments: fetching appointments for provider=%d, caller=%d, status=%v",
		req.ProviderID, req.CallerID, req.Status)

	if req.CallerID != req.ProviderID {
		if err := s.checkManagementAccess(ctx, req.CallerID); err != nil {
			s.logger.Warn("GetProviderAppointments: access denied for caller=%d to provider=%d", req.CallerID, req.ProviderID)
			return nil, err
		}
	}

	filter := domain.ProviderAppointmentsFilter{
		ProviderID: req.ProviderID,
		Date:       req.Date,
	}

	if req.Status != nil {
		status, err := models.ToDomainAppointmentStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetProviderAppointments: invalid status=%s for provider=%d", *req.Status, req.ProviderID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
	}

	appointments, err := s.appointmentRepo.GetByProvider(ctx, filter)
	if err != nil {
		s.logger.Error("GetProviderAppointments: repository error for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: GetProviderAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetProviderAppointments: successfully fetched %d appointments for provider=%d", len(appointments), req.ProviderID)
	return models.FromDomainAppointmentList(appointments, s.timeProvider.Now()), nil
}

// Cancel отменяет запись
// Клиент может отменить свою запись (включая временную бронь),
// исполнитель - только подтвержденную или ожидающую запись на свои услуги
func (s *Service) Cancel(ctx context.Context, appointmentID int64, req *models.CancelAppointmentRequest) error {
	s.logger.Info("Cancel: cancelling appointment id=%d by user=%d", appointmentID, req.UserID)

	appointment, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	// Определяем актора и применимые правила отмены
	switch {
	case appointment.ConsumerID == req.UserID:
		if !appointment.CanBeCancelledByConsumer() {
			s.logger.Warn("Cancel: appointment id=%d cannot be cancelled by consumer, status=%s", appointmentID, appointment.Status)
			return ErrCannotCancel
		}
	case appointment.ProviderID == req.UserID:
		if !appointment.CanBeCancelledByProvider() {
			s.logger.Warn("Cancel: appointment id=%d cannot be cancelled by provider, status=%s", appointmentID, appointment.Status)
			return ErrCannotCancel
		}
	default:
		if err := s.checkManagementAccess(ctx, req.UserID); err != nil {
			s.logger.Warn("Cancel: access denied for user=%d to cancel appointment id=%d", req.UserID, appointmentID)
			return ErrAccessDenied
		}
		if appointment.IsTerminal() {
			s.logger.Warn("Cancel: appointment id=%d is in terminal status=%s", appointmentID, appointment.Status)
			return ErrCannotCancel
		}
	}

	if err := s.appointmentRepo.Cancel(ctx, appointmentID, req.Reason); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found during cancellation", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%d", appointmentID)
	return nil
}

// UpdateStatus обновляет статус записи
// Доступно только исполнителю записи, переходы ограничены таблицей
// допустимых переходов (pending→confirmed/cancelled, confirmed→completed/cancelled)
func (s *Service) UpdateStatus(ctx context.Context, appointmentID int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s by user=%d",
		appointmentID, req.Status, req.UserID)

	// Валидируем и конвертируем статус
	newStatus, err := models.ToDomainAppointmentStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", req.Status, appointmentID)
		return fmt.Errorf("%w: invalid status", ErrInvalidStatus)
	}

	appointment, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("UpdateStatus: appointment id=%d not found", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	// Статусом управляет только исполнитель записи
	if appointment.ProviderID != req.UserID {
		s.logger.Warn("UpdateStatus: user=%d is not the provider of appointment id=%d", req.UserID, appointmentID)
		return ErrAccessDenied
	}

	if !appointment.CanProviderTransitionTo(newStatus) {
		s.logger.Warn("UpdateStatus: transition %s -> %s is not allowed for appointment id=%d",
			appointment.Status, newStatus, appointmentID)
		return ErrInvalidTransition
	}

	if err := s.appointmentRepo.UpdateStatus(ctx, appointmentID, newStatus, req.Notes); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("UpdateStatus: appointment id=%d not found during update", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: successfully updated appointment id=%d to status=%s", appointmentID, newStatus)
	return nil
}

// MarkPaid отмечает запись как оплаченную
// Доступно только клиенту записи. Проверки и мутация выполняются в одной
// сериализуемой транзакции, запись перечитывается под FOR UPDATE, чтобы
// закрыть гонку двойной оплаты
func (s *Service) MarkPaid(ctx context.Context, appointmentID int64, req *models.MarkPaidRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("MarkPaid: marking appointment id=%d as paid by user=%d", appointmentID, req.UserID)

	now := s.timeProvider.Now()

	var result *models.AppointmentResponse

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		appointment, err := s.appointmentRepo.GetByID(txCtx, appointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: MarkPaid - repository error: %v", ErrInternal, err)
		}

		if appointment.ConsumerID != req.UserID {
			return ErrAccessDenied
		}

		// Гарды оплаты в строгом порядке: уже оплачена → не временная → истекла
		if appointment.PaymentCompleted {
			return ErrAlreadyPaid
		}
		if !appointment.IsTemporary {
			return ErrNotTemporary
		}
		if appointment.IsExpired(now) {
			return ErrHoldExpired
		}

		if err := s.appointmentRepo.MarkPaid(txCtx, appointmentID, req.PaymentReference); err != nil {
			return fmt.Errorf("%w: MarkPaid - repository error: %v", ErrInternal, err)
		}

		updated, err := s.appointmentRepo.GetByID(txCtx, appointmentID)
		if err != nil {
			return fmt.Errorf("%w: MarkPaid - repository error: %v", ErrInternal, err)
		}

		result = models.FromDomainAppointment(updated, now)
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) || errors.Is(err, ErrAccessDenied) ||
			errors.Is(err, ErrAlreadyPaid) || errors.Is(err, ErrNotTemporary) || errors.Is(err, ErrHoldExpired) {
			s.logger.Warn("MarkPaid: appointment id=%d: %v", appointmentID, err)
			return nil, err
		}
		s.logger.Error("MarkPaid: transaction failed for appointment id=%d: %v", appointmentID, err)
		return nil, err
	}

	s.logger.Info("MarkPaid: successfully marked appointment id=%d as paid", appointmentID)
	return result, nil
}

// Вспомогательные методы

// checkUserAccess проверяет, что пользователь имеет доступ к записи
// Запись видят её клиент, её исполнитель или пользователь с ролью management
func (s *Service) checkUserAccess(ctx context.Context, appointment *domain.Appointment, userID int64) error {
	if appointment.ConsumerID == userID || appointment.ProviderID == userID {
		return nil
	}

	if err := s.checkManagementAccess(ctx, userID); err != nil {
		// Ошибка уже залогирована в checkManagementAccess
		return ErrAccessDenied
	}

	return nil
}

// checkManagementAccess проверяет, что пользователь имеет роль management
func (s *Service) checkManagementAccess(ctx context.Context, userID int64) error {
	user, err := s.identityClient.GetUser(ctx, userID)
	if err != nil {
		s.logger.Warn("checkManagementAccess: failed to get user id=%d: %v", userID, err)
		return ErrAccessDenied
	}

	if !user.IsManagement() {
		s.logger.Warn("checkManagementAccess: user=%d does not have management role", userID)
		return ErrAccessDenied
	}

	return nil
}
