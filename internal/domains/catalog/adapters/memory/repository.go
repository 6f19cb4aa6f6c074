package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/DanielPerezVapo/panaderia-api/internal/domains/catalog/domain"
	"github.com/DanielPerezVapo/panaderia-api/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory product persistence adapter. It doubles as
// the stock table for the order domain's in-memory unit of work via
// StockFor/AdjustStock, so reservations and catalog reads share one
// view when running without PostgreSQL.
type Repository struct {
	mu       sync.RWMutex
	products map[int64]*domain.Product
	nextID   int64
}

func NewRepository() *Repository {
	return &Repository{products: map[int64]*domain.Product{}}
}

func (r *Repository) Create(_ context.Context, product *domain.Product) (*domain.Product, error) {
	clone := cloneProduct(product)
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	r.products[clone.ID] = clone
	return cloneProduct(clone), nil
}

func (r *Repository) Update(_ context.Context, product *domain.Product) (*domain.Product, error) {
	clone := cloneProduct(product)
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[clone.ID]; !ok {
		return nil, ports.ErrNotFound
	}
	r.products[clone.ID] = clone
	return cloneProduct(clone), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneProduct(product), nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

// List returns all products ordered by id.
func (r *Repository) List(_ context.Context) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Product, 0, len(r.products))
	for _, product := range r.products {
		list = append(list, cloneProduct(product))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

// StockFor reports the available quantity for a product.
func (r *Repository) StockFor(productID int64) (int32, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[productID]
	if !ok {
		return 0, false
	}
	return product.Quantity, true
}

// AdjustStock applies a committed reservation delta. It refuses a delta
// that would take the quantity below zero, so a catalog write landing
// between a reservation's check and its commit fails the reservation
// instead of producing negative stock.
func (r *Repository) AdjustStock(productID int64, delta int32) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[productID]
	if !ok || product.Quantity+delta < 0 {
		return false
	}
	product.Quantity += delta
	return true
}

func cloneProduct(product *domain.Product) *domain.Product {
	clone := *product
	if product.Allergens != nil {
		clone.Allergens = append([]string(nil), product.Allergens...)
	}
	return &clone
}
