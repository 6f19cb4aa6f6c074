package application

import (
	"errors"
	"fmt"

	"github.com/DanielPerezVapo/panaderia-api/internal/domains/orders/domain"
)

var (
	// ErrInvalidInput signals the request violated a cart invariant.
	ErrInvalidInput = errors.New("invalid cart input")
	// ErrInfrastructure wraps connection/transaction-layer faults. It is
	// the only class a caller may reasonably retry.
	ErrInfrastructure = errors.New("infrastructure failure")
)

// ProductNotFoundError rejects a cart referencing an unknown product.
type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

// InsufficientStockError rejects a cart line asking for more units than
// the locked row holds.
type InsufficientStockError struct {
	ProductID int64
	Available int32
	Requested int32
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: available %d, requested %d",
		e.ProductID, e.Available, e.Requested)
}

// IsBusinessError reports whether err is a deterministic rejection of
// the submitted cart, as opposed to a transient infrastructure fault.
func IsBusinessError(err error) bool {
	var notFound *ProductNotFoundError
	var shortfall *InsufficientStockError
	return errors.Is(err, domain.ErrEmptyCart) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.As(err, &notFound) ||
		errors.As(err, &shortfall)
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidProductID) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrNegativePrice) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if IsBusinessError(err) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrInfrastructure, err)
}
