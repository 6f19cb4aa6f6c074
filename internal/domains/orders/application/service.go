package application

import (
	"context"
	"errors"

	"github.com/DanielPerezVapo/panaderia-api/internal/domains/orders/domain"
	"github.com/DanielPerezVapo/panaderia-api/internal/domains/orders/ports"
)

// Service is the reservation engine: it validates a submitted cart
// against current stock and applies ledger appends plus stock
// decrements as one atomic unit, or rejects the whole cart.
type Service struct {
	uow ports.UnitOfWork
}

func NewService(uow ports.UnitOfWork) *Service {
	return &Service{uow: uow}
}

// PlaceOrder reserves every line of the cart or none of them.
//
// Lines are processed in the order received. Each product row is read
// under an exclusive lock, checked against the requested quantity,
// snapshotted onto the ledger, and decremented. The first failing line
// aborts the scope; no partial order lines or decrements survive.
func (s *Service) PlaceOrder(ctx context.Context, lines []domain.CartLine) (*domain.Receipt, error) {
	if err := domain.ValidateCart(lines); err != nil {
		return nil, mapError(err)
	}

	receipt := &domain.Receipt{ProductIDs: make([]int64, 0, len(lines))}
	err := s.uow.Do(ctx, func(inv ports.Inventory, ledger ports.Ledger) error {
		for _, line := range lines {
			stock, err := inv.ProductForUpdate(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, ports.ErrProductMissing) {
					return &ProductNotFoundError{ProductID: line.ProductID}
				}
				return err
			}
			if stock.Available < line.Quantity {
				return &InsufficientStockError{
					ProductID: line.ProductID,
					Available: stock.Available,
					Requested: line.Quantity,
				}
			}
			if _, err := ledger.Append(ctx, domain.LineFromCart(line)); err != nil {
				return err
			}
			if err := inv.Decrement(ctx, line.ProductID, line.Quantity); err != nil {
				return err
			}
			receipt.Lines++
			receipt.ProductIDs = append(receipt.ProductIDs, line.ProductID)
		}
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return receipt, nil
}

var _ ports.Service = (*Service)(nil)
