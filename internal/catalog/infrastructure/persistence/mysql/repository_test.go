package mysql_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/smartbuy/internal/catalog/domain"
	catalogmysql "github.com/wyfcoding/smartbuy/internal/catalog/infrastructure/persistence/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&domain.Product{}))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, stock int) *domain.Product {
	t.Helper()
	p := &domain.Product{
		Name:      name,
		Brand:     "Acme",
		Price:     decimal.RequireFromString("99.90"),
		Stock:     stock,
		Category:  "Accessories",
		Available: true,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestInventoryRepository_DecrementIfAvailable(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Laptop", 5)
	inventory := catalogmysql.NewInventoryRepository(db)
	products := catalogmysql.NewProductRepository(db)
	ctx := context.Background()

	require.NoError(t, inventory.DecrementIfAvailable(ctx, p.ID, 3))

	got, err := products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stock)

	// 剩余 2，再要 3 必须整体拒绝，库存原样保留
	err = inventory.DecrementIfAvailable(ctx, p.ID, 3)
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, p.ID, stockErr.ProductID)
	assert.Equal(t, "Laptop", stockErr.ProductName)
	assert.Equal(t, 2, stockErr.Available)
	assert.Equal(t, 3, stockErr.Requested)

	got, err = products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stock)
}

func TestInventoryRepository_DecrementIfAvailable_DrainsToZero(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Mouse", 2)
	inventory := catalogmysql.NewInventoryRepository(db)
	ctx := context.Background()

	require.NoError(t, inventory.DecrementIfAvailable(ctx, p.ID, 2))

	err := inventory.DecrementIfAvailable(ctx, p.ID, 1)
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 0, stockErr.Available)
	assert.Equal(t, 1, stockErr.Requested)
}

func TestInventoryRepository_DecrementIfAvailable_UnavailableProduct(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Headphones", 10)
	require.NoError(t, db.Model(p).Update("available", false).Error)
	inventory := catalogmysql.NewInventoryRepository(db)

	err := inventory.DecrementIfAvailable(context.Background(), p.ID, 1)

	// 下架商品留有库存也不可扣减，报告可用量为 0
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 0, stockErr.Available)
	assert.Equal(t, 1, stockErr.Requested)

	var got domain.Product
	require.NoError(t, db.First(&got, p.ID).Error)
	assert.Equal(t, 10, got.Stock)
}

func TestInventoryRepository_DecrementIfAvailable_UnknownProduct(t *testing.T) {
	db := newTestDB(t)
	inventory := catalogmysql.NewInventoryRepository(db)

	err := inventory.DecrementIfAvailable(context.Background(), 9999, 1)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestInventoryRepository_CheckAvailable(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Keyboard", 4)
	inventory := catalogmysql.NewInventoryRepository(db)
	ctx := context.Background()

	ok, err := inventory.CheckAvailable(ctx, p.ID, 4)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = inventory.CheckAvailable(ctx, p.ID, 5)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = inventory.CheckAvailable(ctx, 9999, 1)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}
