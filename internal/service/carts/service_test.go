package carts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HSM-AppointmentService/internal/domain"
	cartStorage "github.com/m04kA/HSM-AppointmentService/internal/infra/storage/cart"
	"github.com/m04kA/HSM-AppointmentService/internal/integrations/catalogservice"
	"github.com/m04kA/HSM-AppointmentService/internal/service/carts/models"
)

type nopLogger struct{}

func (l *nopLogger) Info(format string, v ...interface{})  {}
func (l *nopLogger) Warn(format string, v ...interface{})  {}
func (l *nopLogger) Error(format string, v ...interface{}) {}

type fakeCartRepo struct {
	cart       *domain.Cart
	getErr     error
	upserted   *domain.CartItem
	removedSvc int64
	removeErr  error
}

func (r *fakeCartRepo) GetByUserID(ctx context.Context, userID int64) (*domain.Cart, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.cart, nil
}

func (r *fakeCartRepo) GetOrCreateByUserID(ctx context.Context, userID int64) (*domain.Cart, error) {
	if r.cart == nil {
		r.cart = &domain.Cart{ID: 7, UserID: userID, Items: []domain.CartItem{}}
	}
	return r.cart, nil
}

func (r *fakeCartRepo) UpsertItem(ctx context.Context, item *domain.CartItem) error {
	r.upserted = item
	r.cart.Items = append(r.cart.Items, *item)
	return nil
}

func (r *fakeCartRepo) RemoveItem(ctx context.Context, cartID int64, serviceID int64) error {
	if r.removeErr != nil {
		return r.removeErr
	}
	r.removedSvc = serviceID
	kept := r.cart.Items[:0]
	for _, item := range r.cart.Items {
		if item.ServiceID != serviceID {
			kept = append(kept, item)
		}
	}
	r.cart.Items = kept
	return nil
}

type fakeCatalogClient struct {
	service *catalogservice.Service
	err     error
}

func (c *fakeCatalogClient) GetService(ctx context.Context, serviceID int64) (*catalogservice.Service, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.service, nil
}

func activeService() *catalogservice.Service {
	return &catalogservice.Service{ID: 10, ProviderID: 5, Title: "Уборка квартиры", Price: 49.99, IsActive: true}
}

func cartWithItem(userID int64) *domain.Cart {
	return &domain.Cart{
		ID:     7,
		UserID: userID,
		Items: []domain.CartItem{
			{ID: 1, CartID: 7, ServiceID: 10, Quantity: 2, ServiceTitle: "Уборка квартиры", UnitPrice: 49.99, AddedAt: time.Now()},
		},
	}
}

func TestService_GetByUser_CreatesLazily(t *testing.T) {
	repo := &fakeCartRepo{}
	svc := NewService(repo, &fakeCatalogClient{service: activeService()}, &nopLogger{})

	resp, err := svc.GetByUser(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, int64(1), resp.UserID)
	assert.Empty(t, resp.Items)
	assert.Equal(t, 0, resp.TotalItems)
	assert.Equal(t, 0.0, resp.TotalPrice)
}

func TestService_AddItem(t *testing.T) {
	t.Run("денормализация названия и цены из каталога", func(t *testing.T) {
		repo := &fakeCartRepo{}
		svc := NewService(repo, &fakeCatalogClient{service: activeService()}, &nopLogger{})

		resp, err := svc.AddItem(context.Background(), &models.AddItemRequest{UserID: 1, ServiceID: 10, Quantity: 2})
		require.NoError(t, err)

		require.NotNil(t, repo.upserted)
		assert.Equal(t, "Уборка квартиры", repo.upserted.ServiceTitle)
		assert.Equal(t, 49.99, repo.upserted.UnitPrice)
		assert.Equal(t, 2, repo.upserted.Quantity)

		require.Len(t, resp.Items, 1)
		assert.Equal(t, 99.98, resp.Items[0].Subtotal)
		assert.Equal(t, 99.98, resp.TotalPrice)
	})

	t.Run("нулевое количество", func(t *testing.T) {
		svc := NewService(&fakeCartRepo{}, &fakeCatalogClient{service: activeService()}, &nopLogger{})

		_, err := svc.AddItem(context.Background(), &models.AddItemRequest{UserID: 1, ServiceID: 10, Quantity: 0})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("услуга не найдена", func(t *testing.T) {
		svc := NewService(&fakeCartRepo{}, &fakeCatalogClient{err: catalogservice.ErrServiceNotFound}, &nopLogger{})

		_, err := svc.AddItem(context.Background(), &models.AddItemRequest{UserID: 1, ServiceID: 10, Quantity: 1})
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("услуга неактивна", func(t *testing.T) {
		inactive := activeService()
		inactive.IsActive = false
		svc := NewService(&fakeCartRepo{}, &fakeCatalogClient{service: inactive}, &nopLogger{})

		_, err := svc.AddItem(context.Background(), &models.AddItemRequest{UserID: 1, ServiceID: 10, Quantity: 1})
		assert.ErrorIs(t, err, ErrServiceInactive)
	})
}

func TestService_RemoveItem(t *testing.T) {
	t.Run("удаление позиции", func(t *testing.T) {
		repo := &fakeCartRepo{cart: cartWithItem(1)}
		svc := NewService(repo, &fakeCatalogClient{service: activeService()}, &nopLogger{})

		resp, err := svc.RemoveItem(context.Background(), 1, 10)
		require.NoError(t, err)

		assert.Equal(t, int64(10), repo.removedSvc)
		assert.Empty(t, resp.Items)
		assert.Equal(t, 0.0, resp.TotalPrice)
	})

	t.Run("корзина не найдена", func(t *testing.T) {
		repo := &fakeCartRepo{getErr: cartStorage.ErrCartNotFound}
		svc := NewService(repo, &fakeCatalogClient{service: activeService()}, &nopLogger{})

		_, err := svc.RemoveItem(context.Background(), 1, 10)
		assert.ErrorIs(t, err, ErrCartNotFound)
	})

	t.Run("позиция не найдена", func(t *testing.T) {
		repo := &fakeCartRepo{cart: cartWithItem(1), removeErr: cartStorage.ErrItemNotFound}
		svc := NewService(repo, &fakeCatalogClient{service: activeService()}, &nopLogger{})

		_, err := svc.RemoveItem(context.Background(), 1, 99)
		assert.ErrorIs(t, err, ErrItemNotFound)
	})
}
