package domain

import "time"

// Cart represents a shopping cart, one per user
type Cart struct {
	ID        int64
	UserID    int64
	Items     []CartItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartItem represents one service line in a cart
type CartItem struct {
	ID        int64
	CartID    int64
	ServiceID int64
	Quantity  int

	// Denormalized at add time so the checkout total survives catalog edits
	ServiceTitle string
	UnitPrice    float64

	AddedAt time.Time
}

// TotalPrice returns the line total
func (i *CartItem) TotalPrice() float64 {
	return Round2(i.UnitPrice * float64(i.Quantity))
}

// IsEmpty returns true if the cart has no items
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// TotalItems returns the number of lines in the cart
func (c *Cart) TotalItems() int {
	return len(c.Items)
}

// Subtotal returns the sum of all line totals, rounded to 2 decimal places
func (c *Cart) Subtotal() float64 {
	var sum float64
	for i := range c.Items {
		sum += c.Items[i].TotalPrice()
	}
	return Round2(sum)
}
