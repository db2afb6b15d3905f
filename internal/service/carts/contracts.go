package carts

import (
	"context"

	"github.com/m04kA/HSM-AppointmentService/internal/domain"
	"github.com/m04kA/HSM-AppointmentService/internal/integrations/catalogservice"
)

// CartRepository интерфейс репозитория корзин
type CartRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*domain.Cart, error)
	GetOrCreateByUserID(ctx context.Context, userID int64) (*domain.Cart, error)
	UpsertItem(ctx context.Context, item *domain.CartItem) error
	RemoveItem(ctx context.Context, cartID int64, serviceID int64) error
}

// CatalogServiceClient интерфейс клиента для CatalogService
type CatalogServiceClient interface {
	GetService(ctx context.Context, serviceID int64) (*catalogservice.Service, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
