package carts

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/HSM-AppointmentService/internal/domain"
	cartRepo "github.com/m04kA/HSM-AppointmentService/internal/infra/storage/cart"
	catalogClient "github.com/m04kA/HSM-AppointmentService/internal/integrations/catalogservice"
	"github.com/m04kA/HSM-AppointmentService/internal/service/carts/models"
)

// Service сервис для работы с корзинами
type Service struct {
	cartRepo      CartRepository
	catalogClient CatalogServiceClient
	logger        Logger
}

// NewService создает новый экземпляр сервиса корзин
func NewService(
	cartRepo CartRepository,
	catalogClient CatalogServiceClient,
	logger Logger,
) *Service {
	return &Service{
		cartRepo:      cartRepo,
		catalogClient: catalogClient,
		logger:        logger,
	}
}

// GetByUser получает корзину пользователя
// Корзина создается лениво при первом обращении
func (s *Service) GetByUser(ctx context.Context, userID int64) (*models.CartResponse, error) {
	s.logger.Info("GetByUser: fetching cart for user=%d", userID)

	cart, err := s.cartRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("GetByUser: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: GetByUser - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetByUser: successfully fetched cart id=%d for user=%d, %d items",
		cart.ID, userID, cart.TotalItems())
	return models.FromDomainCart(cart), nil
}

// AddItem добавляет услугу в корзину пользователя
// Название и цена услуги денормализуются на момент добавления, поэтому
// последующие правки каталога не меняют сумму к оплате.
// Повторное добавление той же услуги увеличивает количество
func (s *Service) AddItem(ctx context.Context, req *models.AddItemRequest) (*models.CartResponse, error) {
	s.logger.Info("AddItem: adding service=%d x%d to cart of user=%d", req.ServiceID, req.Quantity, req.UserID)

	if req.Quantity <= 0 {
		s.logger.Warn("AddItem: invalid quantity=%d for user=%d", req.Quantity, req.UserID)
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}

	// Проверяем существование и активность услуги в каталоге
	service, err := s.catalogClient.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			s.logger.Warn("AddItem: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("AddItem: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: AddItem - failed to get service: %v", ErrInternal, err)
	}

	if !service.IsActive {
		s.logger.Warn("AddItem: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceInactive
	}

	cart, err := s.cartRepo.GetOrCreateByUserID(ctx, req.UserID)
	if err != nil {
		s.logger.Error("AddItem: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: AddItem - repository error: %v", ErrInternal, err)
	}

	item := &domain.CartItem{
		CartID:       cart.ID,
		ServiceID:    req.ServiceID,
		Quantity:     req.Quantity,
		ServiceTitle: service.Title,
		UnitPrice:    service.Price,
	}

	if err := s.cartRepo.UpsertItem(ctx, item); err != nil {
		s.logger.Error("AddItem: failed to upsert item service=%d into cart id=%d: %v", req.ServiceID, cart.ID, err)
		return nil, fmt.Errorf("%w: AddItem - repository error: %v", ErrInternal, err)
	}

	// Перечитываем корзину с обновленными позициями
	updated, err := s.cartRepo.GetByUserID(ctx, req.UserID)
	if err != nil {
		s.logger.Error("AddItem: failed to reload cart for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: AddItem - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("AddItem: successfully added service=%d to cart id=%d", req.ServiceID, cart.ID)
	return models.FromDomainCart(updated), nil
}

// RemoveItem удаляет позицию из корзины пользователя
func (s *Service) RemoveItem(ctx context.Context, userID int64, serviceID int64) (*models.CartResponse, error) {
	s.logger.Info("RemoveItem: removing service=%d from cart of user=%d", serviceID, userID)

	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, cartRepo.ErrCartNotFound) {
			s.logger.Warn("RemoveItem: cart not found for user=%d", userID)
			return nil, ErrCartNotFound
		}
		s.logger.Error("RemoveItem: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: RemoveItem - repository error: %v", ErrInternal, err)
	}

	if err := s.cartRepo.RemoveItem(ctx, cart.ID, serviceID); err != nil {
		if errors.Is(err, cartRepo.ErrItemNotFound) {
			s.logger.Warn("RemoveItem: service=%d not found in cart id=%d", serviceID, cart.ID)
			return nil, ErrItemNotFound
		}
		s.logger.Error("RemoveItem: failed to remove service=%d from cart id=%d: %v", serviceID, cart.ID, err)
		return nil, fmt.Errorf("%w: RemoveItem - repository error: %v", ErrInternal, err)
	}

	updated, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("RemoveItem: failed to reload cart for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: RemoveItem - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("RemoveItem: successfully removed service=%d from cart id=%d", serviceID, cart.ID)
	return models.FromDomainCart(updated), nil
}
