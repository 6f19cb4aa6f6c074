package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/DanielPerezVapo/panaderia-api/internal/domains/orders/domain"
	"github.com/DanielPerezVapo/panaderia-api/internal/domains/orders/ports"
)

var _ ports.UnitOfWork = (*UnitOfWork)(nil)

// UnitOfWork runs reservations inside one PostgreSQL transaction using
// GORM. Stock reads take a row-level FOR UPDATE lock so two concurrent
// reservations on the same product serialize on the database.
type UnitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork wires a PostgreSQL-backed unit of work. Caller manages DB lifecycle.
func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	uow := &UnitOfWork{db: db}
	if db != nil {
		_ = db.AutoMigrate(&orderLineRecord{})
	}
	return uow
}

// orderLineRecord maps a ledger line to its relational table.
type orderLineRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	Name      string    `gorm:"column:name"`
	UnitPrice float64   `gorm:"column:unit_price"`
	Quantity  int32     `gorm:"column:quantity"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
}

func (orderLineRecord) TableName() string { return "order_lines" }

// stockRow reads only the columns the reservation needs from products.
type stockRow struct {
	ID       int64 `gorm:"column:id"`
	Quantity int32 `gorm:"column:quantity"`
}

// Do opens a transaction and hands transaction-bound Inventory and
// Ledger handles to fn. GORM commits on nil, rolls back on error or
// panic, and returns the connection to the pool on both paths.
func (u *UnitOfWork) Do(ctx context.Context, fn func(inv ports.Inventory, ledger ports.Ledger) error) error {
	if err := u.ensureDB(); err != nil {
		return err
	}
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scoped := &txScope{tx: tx}
		return fn(scoped, scoped)
	})
}

func (u *UnitOfWork) ensureDB() error {
	if u == nil || u.db == nil {
		return errors.New("postgres order unit of work not configured")
	}
	return nil
}

// txScope implements the Inventory and Ledger ports against one open
// transaction.
type txScope struct {
	tx *gorm.DB
}

// ProductForUpdate reads the product's quantity under SELECT ... FOR
// UPDATE. A competing transaction holding the same row blocks here
// until it commits or rolls back.
func (s *txScope) ProductForUpdate(ctx context.Context, productID int64) (*domain.Stock, error) {
	var row stockRow
	err := s.tx.WithContext(ctx).
		Table("products").
		Select("id", "quantity").
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", productID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrProductMissing
		}
		return nil, err
	}
	return &domain.Stock{ProductID: row.ID, Available: row.Quantity}, nil
}

// Decrement lowers the product's quantity by the reserved amount.
func (s *txScope) Decrement(ctx context.Context, productID int64, quantity int32) error {
	result := s.tx.WithContext(ctx).
		Table("products").
		Where("id = ?", productID).
		Update("quantity", gorm.Expr("quantity - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrProductMissing
	}
	return nil
}

// Append inserts one immutable ledger line and reports its identity.
func (s *txScope) Append(ctx context.Context, line *domain.OrderLine) (int64, error) {
	if line == nil {
		return 0, errors.New("order line is nil")
	}
	record := orderLineRecord{
		Name:      line.ProductName,
		UnitPrice: line.UnitPrice,
		Quantity:  line.Quantity,
	}
	if err := s.tx.WithContext(ctx).Create(&record).Error; err != nil {
		return 0, err
	}
	line.ID = record.ID
	line.CreatedAt = record.CreatedAt
	return record.ID, nil
}

var (
	_ ports.Inventory = (*txScope)(nil)
	_ ports.Ledger    = (*txScope)(nil)
)
