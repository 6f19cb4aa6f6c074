package domain

import (
	"errors"
	"strings"
)

var (
	ErrEmptyName        = errors.New("product name is required")
	ErrNegativePrice    = errors.New("price must not be negative")
	ErrNegativeQuantity = errors.New("quantity must not be negative")
)

// Product is a catalog item with its available stock. Quantity is
// mutated by admin CRUD here and decremented by the reservation engine;
// it never goes negative.
type Product struct {
	ID          int64
	Name        string
	Description string
	UnitPrice   float64
	Quantity    int32
	ImageURL    string
	Allergens   []string
}

// NewProduct validates and constructs a product.
func NewProduct(id int64, name string, price float64, quantity int32) (*Product, error) {
	product := &Product{ID: id, UnitPrice: price, Quantity: quantity}
	if err := product.SetName(name); err != nil {
		return nil, err
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	return product, nil
}

// SetName trims and validates the display name.
func (p *Product) SetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	p.Name = name
	return nil
}

// Validate enforces invariants on the aggregate.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if p.UnitPrice < 0 {
		return ErrNegativePrice
	}
	if p.Quantity < 0 {
		return ErrNegativeQuantity
	}
	return nil
}
