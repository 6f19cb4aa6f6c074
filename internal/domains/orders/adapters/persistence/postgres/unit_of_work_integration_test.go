//go:build integration

package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	catalogpostgres "github.com/DanielPerezVapo/panaderia-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogdomain "github.com/DanielPerezVapo/panaderia-api/internal/domains/catalog/domain"
	"github.com/DanielPerezVapo/panaderia-api/internal/domains/orders/application"
	"github.com/DanielPerezVapo/panaderia-api/internal/domains/orders/domain"
	"github.com/DanielPerezVapo/panaderia-api/internal/platform/migrations"
)

func setupOrdersPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("panaderia_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, quantity int32) int64 {
	t.Helper()
	product, err := catalogdomain.NewProduct(0, name, price, quantity)
	require.NoError(t, err)
	created, err := catalogpostgres.NewRepository(db).Create(context.Background(), product)
	require.NoError(t, err)
	return created.ID
}

func productQuantity(t *testing.T, db *gorm.DB, id int64) int32 {
	t.Helper()
	var quantity int32
	require.NoError(t, db.Table("products").Select("quantity").Where("id = ?", id).Scan(&quantity).Error)
	return quantity
}

func ledgerCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Table("order_lines").Count(&count).Error)
	return count
}

func TestUnitOfWork_PlaceOrderCommits(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	id := seedProduct(t, db, "Baguette", 2.5, 10)
	svc := application.NewService(NewUnitOfWork(db))

	receipt, err := svc.PlaceOrder(context.Background(), []domain.CartLine{
		{ProductID: id, Name: "Baguette", UnitPrice: 2.5, Quantity: 4},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, receipt.Lines)
	assert.Equal(t, int32(6), productQuantity(t, db, id))
	assert.Equal(t, int64(1), ledgerCount(t, db))
}

func TestUnitOfWork_RejectionLeavesNoTrace(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	okID := seedProduct(t, db, "Baguette", 2.5, 10)
	lowID := seedProduct(t, db, "Croissant", 1.2, 2)
	svc := application.NewService(NewUnitOfWork(db))

	_, err := svc.PlaceOrder(context.Background(), []domain.CartLine{
		{ProductID: okID, Name: "Baguette", UnitPrice: 2.5, Quantity: 1},
		{ProductID: lowID, Name: "Croissant", UnitPrice: 1.2, Quantity: 5},
	})
	var shortfall *application.InsufficientStockError
	require.ErrorAs(t, err, &shortfall)
	assert.Equal(t, int32(2), shortfall.Available)

	assert.Equal(t, int32(10), productQuantity(t, db, okID))
	assert.Equal(t, int32(2), productQuantity(t, db, lowID))
	assert.Equal(t, int64(0), ledgerCount(t, db))
}

func TestUnitOfWork_ConcurrentReservationsSerializeOnRowLock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	id := seedProduct(t, db, "Baguette", 2.5, 5)
	svc := application.NewService(NewUnitOfWork(db))
	cart := []domain.CartLine{{ProductID: id, Name: "Baguette", UnitPrice: 2.5, Quantity: 3}}

	results := make([]error, 2)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.PlaceOrder(context.Background(), cart)
		}(i)
	}
	wg.Wait()

	var successes int
	for _, err := range results {
		if err == nil {
			successes++
			continue
		}
		var shortfall *application.InsufficientStockError
		require.ErrorAs(t, err, &shortfall)
		assert.Equal(t, int32(2), shortfall.Available)
	}
	require.Equal(t, 1, successes, "the second locked read must observe the first decrement")
	assert.Equal(t, int32(2), productQuantity(t, db, id))
	assert.Equal(t, int64(1), ledgerCount(t, db))
}
