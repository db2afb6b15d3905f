package get_cart

import (
	"context"

	"github.com/m04kA/HSM-AppointmentService/internal/service/carts/models"
)

type CartService interface {
	GetByUser(ctx context.Context, userID int64) (*models.CartResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
