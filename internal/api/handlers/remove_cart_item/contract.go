package remove_cart_item

import (
	"context"

	"github.com/m04kA/HSM-AppointmentService/internal/service/carts/models"
)

type CartService interface {
	RemoveItem(ctx context.Context, userID int64, serviceID int64) (*models.CartResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
