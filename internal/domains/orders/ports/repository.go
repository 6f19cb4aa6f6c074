package ports

import (
	"context"
	"errors"

	"github.com/DanielPerezVapo/panaderia-api/internal/domains/orders/domain"
)

// ErrProductMissing reports a product id with no inventory row.
var ErrProductMissing = errors.New("product not found")

// Inventory exposes stock reads and decrements inside one reservation
// scope. ProductForUpdate must hold row-level exclusivity until the
// enclosing unit of work commits or rolls back: a competing scope may
// not observe or modify the row in between.
type Inventory interface {
	ProductForUpdate(ctx context.Context, productID int64) (*domain.Stock, error)
	Decrement(ctx context.Context, productID int64, quantity int32) error
}

// Ledger appends completed order lines. Append participates in the same
// atomic scope as the Inventory calls; no read or delete operations are
// part of this contract.
type Ledger interface {
	Append(ctx context.Context, line *domain.OrderLine) (int64, error)
}

// UnitOfWork binds Inventory and Ledger into a single all-or-nothing
// scope. Do runs fn inside that scope; a nil return commits every write
// made through the handles, any error discards all of them. The
// underlying connection is owned by one Do invocation for its entire
// duration and is released on both paths.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(inv Inventory, ledger Ledger) error) error
}
