package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/HSM-AppointmentService/internal/domain"
	catalogClient "github.com/m04kA/HSM-AppointmentService/internal/integrations/catalogservice"
	"github.com/m04kA/HSM-AppointmentService/pkg/types"
)

// UseCase use case для получения доступных слотов записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	catalogClient   CatalogServiceClient
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	catalogClient CatalogServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		catalogClient:   catalogClient,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения доступных слотов
// Сетка слотов фиксированная (почасовая в рабочие часы). Прошедшие даты и
// воскресенья возвращают пустой список, а не ошибку. Временные неоплаченные
// брони слоты не занимают
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: service=%d, date=%s",
		req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Проверяем горизонт бронирования
	if err := validateDateHorizon(req.Date, now); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 3. Проверяем существование и активность услуги
	service, err := uc.catalogClient.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !service.IsActive {
		uc.logger.Warn("GetAvailableSlots: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceInactive
	}

	allSlots := domain.FixedDailySlots()

	// 4. Прошедшие даты и нерабочие дни — пустой список
	if isDateInPast(req.Date, now) || !domain.IsWorkingDay(req.Date) {
		uc.logger.Info("GetAvailableSlots: no slots for service=%d on %s (past date or non-working day)",
			req.ServiceID, req.Date.Format(domain.DateFormat))
		return &Response{
			ServiceID:      req.ServiceID,
			Date:           req.Date,
			AvailableSlots: []types.TimeString{},
			OccupiedSlots:  []types.TimeString{},
			TotalSlots:     len(allSlots),
		}, nil
	}

	// 5. Получаем занятые времена (только pending/confirmed)
	occupied, err := uc.appointmentRepo.GetOccupiedTimes(ctx, req.ServiceID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get occupied times: %v", err)
		return nil, fmt.Errorf("%w: failed to get occupied times: %v", ErrInternal, err)
	}

	// 6. Вычитаем занятые времена из сетки дня
	available, occupiedOnGrid := subtractOccupied(allSlots, occupied)

	uc.logger.Info("GetAvailableSlots: service=%d, date=%s: %d available of %d",
		req.ServiceID, req.Date.Format(domain.DateFormat), len(available), len(allSlots))

	return &Response{
		ServiceID:      req.ServiceID,
		Date:           req.Date,
		AvailableSlots: available,
		OccupiedSlots:  occupiedOnGrid,
		TotalSlots:     len(allSlots),
	}, nil
}

// subtractOccupied разбивает сетку дня на свободные и занятые слоты.
// Сравнение только по точному совпадению времени начала, пересечение
// длительностей не учитывается
func subtractOccupied(allSlots, occupied []types.TimeString) (available, occupiedOnGrid []types.TimeString) {
	occupiedSet := make(map[types.TimeString]struct{}, len(occupied))
	for _, t := range occupied {
		occupiedSet[t] = struct{}{}
	}

	available = make([]types.TimeString, 0, len(allSlots))
	occupiedOnGrid = make([]types.TimeString, 0, len(occupied))
	for _, slot := range allSlots {
		if _, ok := occupiedSet[slot]; ok {
			occupiedOnGrid = append(occupiedOnGrid, slot)
		} else {
			available = append(available, slot)
		}
	}

	return available, occupiedOnGrid
}
