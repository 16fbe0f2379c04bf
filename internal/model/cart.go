package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is a user's collection of selected products.
type Cart struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Items     []CartItem `json:"items"`
	Total     float64    `json:"total"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem is a line in a cart. Price is captured when the product is added.
type CartItem struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// CalculateTotal sums price×quantity over all lines using decimal
// arithmetic and returns the result rounded to cents.
func (c *Cart) CalculateTotal() float64 {
	total := decimal.Zero
	for _, item := range c.Items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	return total.Round(2).InexactFloat64()
}

// MergeItem adds item to the cart, incrementing the quantity of an existing
// line for the same product instead of appending a duplicate.
// It reports whether an existing line was updated.
func (c *Cart) MergeItem(item CartItem) bool {
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID {
			c.Items[i].Quantity += item.Quantity
			return true
		}
	}
	c.Items = append(c.Items, item)
	return false
}

// RemoveItem drops the line for productID and reports whether it existed.
func (c *Cart) RemoveItem(productID string) bool {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

// AddToCartRequest is the request payload for adding a product to a cart.
type AddToCartRequest struct {
	ProductID string `json:"product_id"`
	Quantity  *int   `json:"quantity,omitempty"`
}

// MessageResponse is a plain acknowledgement payload.
type MessageResponse struct {
	Message string `json:"message"`
}
