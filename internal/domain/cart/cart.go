package cart

import (
	"errors"
	"time"

	"github.com/Zhima-Mochi/bookstore-saga/internal/pkg/money"
)

var (
	ErrNotFound     = errors.New("cart: not found")
	ErrItemNotFound = errors.New("cart: item not found in cart")
)

// Item is a cart line. Price is the product price captured when the line was first added.
type Item struct {
	ProductID int64   `json:"productId"`
	Title     string  `json:"title"`
	Author    string  `json:"author"`
	Price     float64 `json:"price"`
	ImageURL  string  `json:"imageUrl,omitempty"`
	Quantity  int     `json:"quantity"`
	Subtotal  float64 `json:"subtotal"`
}

// Cart holds a user's lines. TotalPrice and TotalItems are derived from Items on every mutation.
type Cart struct {
	UserID     string    `json:"userId"`
	Items      []Item    `json:"items"`
	TotalPrice float64   `json:"totalPrice"`
	TotalItems int       `json:"totalItems"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Snapshot is the product data copied into a new line.
type Snapshot struct {
	ProductID int64
	Title     string
	Author    string
	Price     float64
	ImageURL  string
}

func New(userID string) *Cart {
	return &Cart{
		UserID:    userID,
		Items:     []Item{},
		UpdatedAt: time.Now().UTC(),
	}
}

// AddItem increments an existing line or appends a new one priced from the snapshot.
// Quantity is validated by the caller.
func (c *Cart) AddItem(p Snapshot, quantity int) {
	if i := c.indexOf(p.ProductID); i >= 0 {
		c.Items[i].Quantity += quantity
		c.Items[i].Subtotal = money.Line(c.Items[i].Price, c.Items[i].Quantity)
	} else {
		c.Items = append(c.Items, Item{
			ProductID: p.ProductID,
			Title:     p.Title,
			Author:    p.Author,
			Price:     p.Price,
			ImageURL:  p.ImageURL,
			Quantity:  quantity,
			Subtotal:  money.Line(p.Price, quantity),
		})
	}
	c.recalculate()
}

// UpdateItem sets the quantity of a line, removing it when quantity <= 0.
// It reports false when the product is not in the cart.
func (c *Cart) UpdateItem(productID int64, quantity int) bool {
	i := c.indexOf(productID)
	if i < 0 {
		return false
	}
	if quantity <= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	} else {
		c.Items[i].Quantity = quantity
		c.Items[i].Subtotal = money.Line(c.Items[i].Price, quantity)
	}
	c.recalculate()
	return true
}

func (c *Cart) RemoveItem(productID int64) bool {
	return c.UpdateItem(productID, 0)
}

// Clear empties the cart without discarding it.
func (c *Cart) Clear() {
	c.Items = []Item{}
	c.recalculate()
}

func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Items = append([]Item{}, c.Items...)
	return &clone
}

func (c *Cart) indexOf(productID int64) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) recalculate() {
	subtotals := make([]float64, 0, len(c.Items))
	items := 0
	for _, it := range c.Items {
		subtotals = append(subtotals, it.Subtotal)
		items += it.Quantity
	}
	c.TotalPrice = money.Sum(subtotals...)
	c.TotalItems = items
	c.UpdatedAt = time.Now().UTC()
}
