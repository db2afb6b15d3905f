package models

import (
	"time"

	"github.com/m04kA/HSM-AppointmentService/internal/domain"
)

// Request модели

// AddItemRequest запрос на добавление позиции в корзину
type AddItemRequest struct {
	UserID    int64 `json:"userId"`
	ServiceID int64 `json:"serviceId"`
	Quantity  int   `json:"quantity"`
}

// Response модели

// CartItemResponse позиция корзины
type CartItemResponse struct {
	ID           int64   `json:"id"`
	ServiceID    int64   `json:"serviceId"`
	ServiceTitle string  `json:"serviceTitle"`
	UnitPrice    float64 `json:"unitPrice"`
	Quantity     int     `json:"quantity"`
	Subtotal     float64 `json:"subtotal"`
}

// CartResponse ответ с данными корзины
type CartResponse struct {
	ID         int64              `json:"id"`
	UserID     int64              `json:"userId"`
	Items      []CartItemResponse `json:"items"`
	TotalItems int                `json:"totalItems"`
	TotalPrice float64            `json:"totalPrice"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

// Методы конвертации

// FromDomainCart конвертирует domain модель в DTO
func FromDomainCart(c *domain.Cart) *CartResponse {
	if c == nil {
		return nil
	}

	items := make([]CartItemResponse, len(c.Items))
	for i, item := range c.Items {
		items[i] = CartItemResponse{
			ID:           item.ID,
			ServiceID:    item.ServiceID,
			ServiceTitle: item.ServiceTitle,
			UnitPrice:    item.UnitPrice,
			Quantity:     item.Quantity,
			Subtotal:     item.TotalPrice(),
		}
	}

	return &CartResponse{
		ID:         c.ID,
		UserID:     c.UserID,
		Items:      items,
		TotalItems: c.TotalItems(),
		TotalPrice: c.Subtotal(),
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}
