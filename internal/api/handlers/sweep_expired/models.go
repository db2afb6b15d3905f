package sweep_expired

import (
	"time"

	sweepExpired "github.com/m04kA/HSM-AppointmentService/internal/usecase/sweep_expired"
)

// SweepExpiredRequest HTTP request model
type SweepExpiredRequest struct {
	DryRun           bool `json:"dryRun,omitempty"`
	ThresholdMinutes *int `json:"thresholdMinutes,omitempty"`
}

// ExpiredAppointmentResponse кандидат на удаление
type ExpiredAppointmentResponse struct {
	ID           int64  `json:"id"`
	ConsumerID   int64  `json:"consumerId"`
	ServiceID    int64  `json:"serviceId"`
	ServiceTitle string `json:"serviceTitle"`
	ExpiresAt    string `json:"expiresAt"`
}

// SweepExpiredResponse HTTP response model
type SweepExpiredResponse struct {
	DryRun           bool                         `json:"dryRun"`
	ThresholdMinutes int                          `json:"thresholdMinutes"`
	CutoffTime       string                       `json:"cutoffTime"`
	DeletedCount     int64                        `json:"deletedCount"`
	Candidates       []ExpiredAppointmentResponse `json:"candidates,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *SweepExpiredRequest) ToUseCaseRequest() *sweepExpired.Request {
	return &sweepExpired.Request{
		DryRun:           r.DryRun,
		ThresholdMinutes: r.ThresholdMinutes,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *sweepExpired.Response) *SweepExpiredResponse {
	candidates := make([]ExpiredAppointmentResponse, len(resp.Candidates))
	for i, c := range resp.Candidates {
		candidates[i] = ExpiredAppointmentResponse{
			ID:           c.ID,
			ConsumerID:   c.ConsumerID,
			ServiceID:    c.ServiceID,
			ServiceTitle: c.ServiceTitle,
			ExpiresAt:    c.ExpiresAt.Format(time.RFC3339),
		}
	}

	return &SweepExpiredResponse{
		DryRun:           resp.DryRun,
		ThresholdMinutes: resp.ThresholdMinutes,
		CutoffTime:       resp.CutoffTime.Format(time.RFC3339),
		DeletedCount:     resp.DeletedCount,
		Candidates:       candidates,
	}
}
