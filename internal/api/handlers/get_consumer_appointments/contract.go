package get_consumer_appointments

import (
	"context"

	"github.com/m04kA/HSM-AppointmentService/internal/service/appointments/models"
)

type AppointmentService interface {
	GetConsumerAppointments(ctx context.Context, req *models.GetConsumerAppointmentsRequest) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
