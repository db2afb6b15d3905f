package sweep_expired

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/HSM-AppointmentService/internal/domain"
)

// UseCase use case очистки просроченных временных броней
// Удаляются только временные неоплаченные записи с истекшим expires_at.
// Оплаченные и подтвержденные записи под условия фильтра не попадают
type UseCase struct {
	appointmentRepo         AppointmentRepository
	defaultThresholdMinutes int
	timeProvider            TimeProvider
	logger                  Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(appointmentRepo AppointmentRepository, defaultThresholdMinutes int, logger Logger) *UseCase {
	if defaultThresholdMinutes <= 0 {
		defaultThresholdMinutes = domain.DefaultSweepThresholdMinutes
	}
	return &UseCase{
		appointmentRepo:         appointmentRepo,
		defaultThresholdMinutes: defaultThresholdMinutes,
		timeProvider:            &RealTimeProvider{},
		logger:                  logger,
	}
}

// Execute выполняет очистку просроченных временных записей
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	threshold := uc.defaultThresholdMinutes
	if req.ThresholdMinutes != nil {
		if *req.ThresholdMinutes <= 0 {
			return nil, fmt.Errorf("%w: thresholdMinutes must be positive", ErrInvalidInput)
		}
		threshold = *req.ThresholdMinutes
	}

	now := uc.timeProvider.Now()
	cutoff := now.Add(-time.Duration(threshold) * time.Minute)

	uc.logger.Info("SweepExpired: dryRun=%t, threshold=%dm, cutoff=%s",
		req.DryRun, threshold, cutoff.Format(time.RFC3339))

	filter := domain.ExpiredAppointmentsFilter{ExpiredBefore: cutoff}

	if req.DryRun {
		expired, err := uc.appointmentRepo.ListExpired(ctx, filter)
		if err != nil {
			uc.logger.Error("SweepExpired: failed to list expired appointments: %v", err)
			return nil, fmt.Errorf("%w: failed to list expired appointments: %v", ErrInternal, err)
		}

		candidates := make([]ExpiredAppointment, 0, len(expired))
		for _, appt := range expired {
			candidate := ExpiredAppointment{
				ID:           appt.ID,
				ConsumerID:   appt.ConsumerID,
				ServiceID:    appt.ServiceID,
				ServiceTitle: appt.ServiceTitle,
			}
			if appt.ExpiresAt != nil {
				candidate.ExpiresAt = *appt.ExpiresAt
			}
			candidates = append(candidates, candidate)
		}

		uc.logger.Info("SweepExpired: dry run, %d candidates", len(candidates))

		return &Response{
			DryRun:           true,
			ThresholdMinutes: threshold,
			CutoffTime:       cutoff,
			DeletedCount:     0,
			Candidates:       candidates,
		}, nil
	}

	deleted, err := uc.appointmentRepo.DeleteExpired(ctx, filter)
	if err != nil {
		uc.logger.Error("SweepExpired: failed to delete expired appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to delete expired appointments: %v", ErrInternal, err)
	}

	uc.logger.Info("SweepExpired: deleted %d expired appointments", deleted)

	return &Response{
		DryRun:           false,
		ThresholdMinutes: threshold,
		CutoffTime:       cutoff,
		DeletedCount:     deleted,
		Candidates:       []ExpiredAppointment{},
	}, nil
}
