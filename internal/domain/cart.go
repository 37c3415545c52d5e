package domain

import (
	"errors"

	"github.com/Skotchmaster/artshop/internal/models"
)

var (
	ErrNonPositiveQuantity = errors.New("quantity must be greater than zero")
	ErrLineExists          = errors.New("cart already has a line for this product")
)

// Cart holds at most one line per product, in insertion order.
type Cart struct {
	lines []models.CartLine
	index map[string]int
}

// NewCart copies lines; the caller's slice is never mutated.
func NewCart(lines []models.CartLine) *Cart {
	c := &Cart{lines: append([]models.CartLine(nil), lines...)}
	c.reindex()
	return c
}

func (c *Cart) reindex() {
	c.index = make(map[string]int, len(c.lines))
	for i, l := range c.lines {
		c.index[l.ProductID] = i
	}
}

func (c *Cart) Has(productID string) bool {
	_, ok := c.index[productID]
	return ok
}

func (c *Cart) Quantity(productID string) int {
	if i, ok := c.index[productID]; ok {
		return c.lines[i].Quantity
	}
	return 0
}

// Adjust applies delta to an existing line and reports whether the line is
// still there. A resulting quantity <= 0 drops the line.
func (c *Cart) Adjust(productID string, delta int) bool {
	i, ok := c.index[productID]
	if !ok {
		return false
	}
	q := c.lines[i].Quantity + delta
	if q <= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
		c.reindex()
		return false
	}
	c.lines[i].Quantity = q
	return true
}

func (c *Cart) Add(productID string, quantity int) error {
	if quantity <= 0 {
		return ErrNonPositiveQuantity
	}
	if c.Has(productID) {
		return ErrLineExists
	}
	c.index[productID] = len(c.lines)
	c.lines = append(c.lines, models.CartLine{ProductID: productID, Quantity: quantity})
	return nil
}

func (c *Cart) Lines() []models.CartLine {
	out := make([]models.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) ProductIDs() []string {
	out := make([]string, len(c.lines))
	for i, l := range c.lines {
		out[i] = l.ProductID
	}
	return out
}

func (c *Cart) Len() int { return len(c.lines) }

// Total is the summed quantity across lines.
func (c *Cart) Total() int {
	return TotalQuantity(c.lines)
}

func TotalQuantity(lines []models.CartLine) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}
