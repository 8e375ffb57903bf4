package mysql_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cartdomain "github.com/wyfcoding/smartbuy/internal/cart/domain"
	cartmysql "github.com/wyfcoding/smartbuy/internal/cart/infrastructure/persistence/mysql"
	catalogdomain "github.com/wyfcoding/smartbuy/internal/catalog/domain"
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
	require.NoError(t, db.AutoMigrate(&catalogdomain.Product{}, &cartdomain.CartItem{}))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name, price string) *catalogdomain.Product {
	t.Helper()
	p := &catalogdomain.Product{
		Name:      name,
		Brand:     "Acme",
		Price:     decimal.RequireFromString(price),
		Stock:     100,
		Category:  "Accessories",
		Available: true,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestCartRepository_AddOrIncrement_Accumulates(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Laptop", "999.99")
	repo := cartmysql.NewCartRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.AddOrIncrement(ctx, "u1", p.ID, 2))
	require.NoError(t, repo.AddOrIncrement(ctx, "u1", p.ID, 3))

	lines, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.Equal(t, "Laptop", lines[0].ProductName)
	assert.True(t, lines[0].Price.Equal(decimal.RequireFromString("999.99")))

	count, err := repo.ItemCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestCartRepository_ReAddAfterRemove(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Mouse", "24.50")
	repo := cartmysql.NewCartRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.AddOrIncrement(ctx, "u1", p.ID, 2))
	lines, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, lines, 1)

	require.NoError(t, repo.Remove(ctx, lines[0].CartItemID))

	// 删除后重新加购必须生成可见的新条目，数量从头计
	require.NoError(t, repo.AddOrIncrement(ctx, "u1", p.ID, 3))

	lines, err = repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)

	count, err := repo.ItemCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestCartRepository_ReAddAfterClear(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Keyboard", "79.00")
	repo := cartmysql.NewCartRepository(db)
	ctx := context.Background()

	// 结算成功后购物车被清空，用户接着继续购物
	require.NoError(t, repo.AddOrIncrement(ctx, "u1", p.ID, 2))
	require.NoError(t, repo.Clear(ctx, "u1"))
	require.NoError(t, repo.AddOrIncrement(ctx, "u1", p.ID, 3))

	count, err := repo.ItemCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	lines, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestCartRepository_SetQuantity(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Monitor", "249.00")
	repo := cartmysql.NewCartRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.AddOrIncrement(ctx, "u1", p.ID, 2))
	lines, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	itemID := lines[0].CartItemID

	require.NoError(t, repo.SetQuantity(ctx, itemID, 7))
	lines, err = repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 7, lines[0].Quantity)

	// 数量归零等同删除，行被物理移除
	require.NoError(t, repo.SetQuantity(ctx, itemID, 0))
	lines, err = repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, lines)

	err = repo.SetQuantity(ctx, itemID, 5)
	assert.ErrorIs(t, err, cartdomain.ErrCartItemNotFound)
}

func TestCartRepository_Remove_UnknownItem(t *testing.T) {
	db := newTestDB(t)
	repo := cartmysql.NewCartRepository(db)

	err := repo.Remove(context.Background(), 9999)
	assert.ErrorIs(t, err, cartdomain.ErrCartItemNotFound)
}

func TestCartRepository_ListByUser_SkipsDeletedProducts(t *testing.T) {
	db := newTestDB(t)
	live := seedProduct(t, db, "Laptop", "999.99")
	gone := seedProduct(t, db, "Discontinued", "10.00")
	repo := cartmysql.NewCartRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.AddOrIncrement(ctx, "u1", live.ID, 1))
	require.NoError(t, repo.AddOrIncrement(ctx, "u1", gone.ID, 2))

	require.NoError(t, db.Delete(gone).Error)

	lines, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, live.ID, lines[0].ProductID)
}
