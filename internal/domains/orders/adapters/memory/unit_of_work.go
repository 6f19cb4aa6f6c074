package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/DanielPerezVapo/panaderia-api/internal/domains/orders/domain"
	"github.com/DanielPerezVapo/panaderia-api/internal/domains/orders/ports"
)

var _ ports.UnitOfWork = (*UnitOfWork)(nil)

// ErrStockConflict reports that the stock table changed between a
// scope's availability check and its commit, so the reservation was
// discarded. Retrying re-reads the current quantities.
var ErrStockConflict = errors.New("stock changed during reservation")

// Inventory is the in-process stock table the unit of work reserves
// against. The catalog memory repository satisfies it so both domains
// share one stock view when running without PostgreSQL. AdjustStock
// must refuse a delta that would take the quantity below zero.
type Inventory interface {
	StockFor(productID int64) (int32, bool)
	AdjustStock(productID int64, delta int32) bool
}

// UnitOfWork serializes reservations behind a single mutex. Writes are
// staged per scope and applied only when fn returns nil, which gives
// the same all-or-nothing visibility as the transactional adapter.
type UnitOfWork struct {
	mu     sync.Mutex
	inv    Inventory
	lines  []domain.OrderLine
	nextID int64
}

func NewUnitOfWork(inv Inventory) *UnitOfWork {
	return &UnitOfWork{inv: inv}
}

func (u *UnitOfWork) Do(ctx context.Context, fn func(inv ports.Inventory, ledger ports.Ledger) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	scope := &txScope{uow: u, pending: map[int64]int32{}}
	if err := fn(scope, scope); err != nil {
		return err
	}
	if err := u.commitDecrements(scope.pending); err != nil {
		return err
	}
	u.lines = append(u.lines, scope.appended...)
	return nil
}

// commitDecrements applies the staged reservations. The catalog
// repository guards its own map with a separate lock, so an admin write
// may land between a scope's check and this commit; AdjustStock refuses
// to go below zero, and a refusal rolls back the decrements already
// applied and fails the whole scope.
func (u *UnitOfWork) commitDecrements(pending map[int64]int32) error {
	applied := make([]int64, 0, len(pending))
	for id, reserved := range pending {
		if !u.inv.AdjustStock(id, -reserved) {
			for _, appliedID := range applied {
				u.inv.AdjustStock(appliedID, pending[appliedID])
			}
			return ErrStockConflict
		}
		applied = append(applied, id)
	}
	return nil
}

// Lines returns a copy of the committed ledger.
func (u *UnitOfWork) Lines() []domain.OrderLine {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]domain.OrderLine, len(u.lines))
	copy(out, u.lines)
	return out
}

// txScope stages decrements and appends until commit. Reads observe the
// scope's own pending decrements so a cart may touch one product twice.
type txScope struct {
	uow      *UnitOfWork
	pending  map[int64]int32
	appended []domain.OrderLine
}

func (s *txScope) ProductForUpdate(_ context.Context, productID int64) (*domain.Stock, error) {
	available, ok := s.uow.inv.StockFor(productID)
	if !ok {
		return nil, ports.ErrProductMissing
	}
	return &domain.Stock{ProductID: productID, Available: available - s.pending[productID]}, nil
}

func (s *txScope) Decrement(_ context.Context, productID int64, quantity int32) error {
	if _, ok := s.uow.inv.StockFor(productID); !ok {
		return ports.ErrProductMissing
	}
	s.pending[productID] += quantity
	return nil
}

// Append assigns the line's identity immediately, like a database
// sequence: a rolled-back scope leaves a gap instead of reusing ids, so
// the id a caller sees inside the scope is the committed one.
func (s *txScope) Append(_ context.Context, line *domain.OrderLine) (int64, error) {
	s.uow.nextID++
	line.ID = s.uow.nextID
	line.CreatedAt = time.Now()
	s.appended = append(s.appended, *line)
	return line.ID, nil
}

var (
	_ ports.Inventory = (*txScope)(nil)
	_ ports.Ledger    = (*txScope)(nil)
)

// StockTable is a standalone Inventory used by tests and by deployments
// that run the order domain without the catalog.
type StockTable struct {
	mu    sync.RWMutex
	stock map[int64]int32
}

func NewStockTable() *StockTable {
	return &StockTable{stock: map[int64]int32{}}
}

// Seed sets the available quantity for a product.
func (t *StockTable) Seed(productID int64, quantity int32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stock[productID] = quantity
}

func (t *StockTable) StockFor(productID int64) (int32, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	qty, ok := t.stock[productID]
	return qty, ok
}

func (t *StockTable) AdjustStock(productID int64, delta int32) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	qty, ok := t.stock[productID]
	if !ok || qty+delta < 0 {
		return false
	}
	t.stock[productID] = qty + delta
	return true
}

var _ Inventory = (*StockTable)(nil)
