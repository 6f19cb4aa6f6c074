package ports

import (
	"context"

	"github.com/DanielPerezVapo/panaderia-api/internal/domains/orders/domain"
)

// Service exposes order placement use cases to adapters.
type Service interface {
	PlaceOrder(ctx context.Context, lines []domain.CartLine) (*domain.Receipt, error)
}
