package domain

import "errors"

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrInvalidProductID = errors.New("product id must be greater than zero")
	ErrInvalidQuantity  = errors.New("quantity must be greater than zero")
	ErrNegativePrice    = errors.New("price must not be negative")
)

// CartLine is one product/quantity request inside a submitted cart.
// Price and name are snapshots supplied by the client at request time;
// they are recorded on the ledger as-is rather than re-read from the
// catalog.
type CartLine struct {
	ProductID int64
	Name      string
	UnitPrice float64
	Quantity  int32
}

// Validate enforces per-line invariants.
func (l CartLine) Validate() error {
	if l.ProductID <= 0 {
		return ErrInvalidProductID
	}
	if l.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if l.UnitPrice < 0 {
		return ErrNegativePrice
	}
	return nil
}

// ValidateCart checks the cart as a whole before any store access.
func ValidateCart(lines []CartLine) error {
	if len(lines) == 0 {
		return ErrEmptyCart
	}
	for _, line := range lines {
		if err := line.Validate(); err != nil {
			return err
		}
	}
	return nil
}
