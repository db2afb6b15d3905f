package mark_appointment_paid

import (
	"context"

	"github.com/m04kA/HSM-AppointmentService/internal/service/appointments/models"
)

type AppointmentService interface {
	MarkPaid(ctx context.Context, appointmentID int64, req *models.MarkPaidRequest) (*models.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
