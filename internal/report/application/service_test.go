package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	catalogdomain "github.com/wyfcoding/smartbuy/internal/catalog/domain"
	orderdomain "github.com/wyfcoding/smartbuy/internal/order/domain"
	"github.com/wyfcoding/smartbuy/internal/report/application"
	"github.com/wyfcoding/smartbuy/internal/report/domain"
)

type mockOrderRepository struct {
	listAllFunc            func(ctx context.Context) ([]*orderdomain.Order, error)
	listCreatedBetweenFunc func(ctx context.Context, start, end time.Time) ([]*orderdomain.Order, error)
}

func (m *mockOrderRepository) Create(ctx context.Context, order *orderdomain.Order) error {
	return nil
}
func (m *mockOrderRepository) GetByOrderNo(ctx context.Context, orderNo string) (*orderdomain.Order, error) {
	return nil, nil
}
func (m *mockOrderRepository) ListByUser(ctx context.Context, userID string) ([]*orderdomain.Order, error) {
	return nil, nil
}
func (m *mockOrderRepository) ListAll(ctx context.Context) ([]*orderdomain.Order, error) {
	return m.listAllFunc(ctx)
}
func (m *mockOrderRepository) ListCreatedBetween(ctx context.Context, start, end time.Time) ([]*orderdomain.Order, error) {
	return m.listCreatedBetweenFunc(ctx, start, end)
}
func (m *mockOrderRepository) UpdateStatus(ctx context.Context, orderNo string, status orderdomain.OrderStatus) (orderdomain.OrderStatus, error) {
	return "", nil
}
func (m *mockOrderRepository) WithTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type mockProductRepository struct {
	getByIDsFunc func(ctx context.Context, ids []uint) ([]*catalogdomain.Product, error)
}

func (m *mockProductRepository) Save(ctx context.Context, product *catalogdomain.Product) error {
	return nil
}
func (m *mockProductRepository) GetByID(ctx context.Context, id uint) (*catalogdomain.Product, error) {
	return nil, nil
}
func (m *mockProductRepository) GetByIDs(ctx context.Context, ids []uint) ([]*catalogdomain.Product, error) {
	return m.getByIDsFunc(ctx, ids)
}
func (m *mockProductRepository) List(ctx context.Context, category string, offset, limit int) ([]*catalogdomain.Product, int64, error) {
	return nil, 0, nil
}
func (m *mockProductRepository) Search(ctx context.Context, keyword string, offset, limit int) ([]*catalogdomain.Product, int64, error) {
	return nil, 0, nil
}

func testOrder(orderNo string, items ...orderdomain.OrderItem) *orderdomain.Order {
	return orderdomain.NewOrder(orderNo, "u1", "1 Main St", "Online", items)
}

func testOrders() []*orderdomain.Order {
	return []*orderdomain.Order{
		testOrder("ORD-1",
			orderdomain.NewOrderItem(1, "Laptop", 1, decimal.RequireFromString("999.99")),
			orderdomain.NewOrderItem(2, "Mouse", 2, decimal.RequireFromString("24.50")),
		),
		testOrder("ORD-2",
			orderdomain.NewOrderItem(2, "Mouse", 1, decimal.RequireFromString("24.50")),
			orderdomain.NewOrderItem(3, "Headphones", 1, decimal.RequireFromString("149.00")),
		),
	}
}

func catalogProducts(ctx context.Context, ids []uint) ([]*catalogdomain.Product, error) {
	products := []*catalogdomain.Product{
		{Name: "Laptop", Category: "Computers"},
		{Name: "Mouse", Category: "Accessories"},
		{Name: "Headphones", Category: "Audio"},
	}
	products[0].ID = 1
	products[1].ID = 2
	products[2].ID = 3
	return products, nil
}

func TestReportService_Totals(t *testing.T) {
	orders := &mockOrderRepository{
		listAllFunc: func(ctx context.Context) ([]*orderdomain.Order, error) {
			return testOrders(), nil
		},
	}
	svc := application.NewReportService(orders, &mockProductRepository{})

	summary, err := svc.Totals(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, summary.OrderCount)
	assert.Equal(t, 5, summary.TotalItemsSold)
	// 999.99 + 49.00 + 24.50 + 149.00
	assert.True(t, summary.TotalRevenue.Equal(decimal.RequireFromString("1222.49")),
		"got revenue %s", summary.TotalRevenue)
}

func TestReportService_Totals_Empty(t *testing.T) {
	orders := &mockOrderRepository{
		listAllFunc: func(ctx context.Context) ([]*orderdomain.Order, error) { return nil, nil },
	}
	svc := application.NewReportService(orders, &mockProductRepository{})

	summary, err := svc.Totals(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, summary.OrderCount)
	assert.Equal(t, 0, summary.TotalItemsSold)
	assert.True(t, summary.TotalRevenue.IsZero())
}

func TestReportService_CategoryBreakdown(t *testing.T) {
	orders := &mockOrderRepository{
		listAllFunc: func(ctx context.Context) ([]*orderdomain.Order, error) {
			return testOrders(), nil
		},
	}
	products := &mockProductRepository{getByIDsFunc: catalogProducts}
	svc := application.NewReportService(orders, products)

	stats, err := svc.CategoryBreakdown(context.Background())

	require.NoError(t, err)
	require.Len(t, stats, 3)

	// 营收降序
	assert.Equal(t, "Computers", stats[0].Category)
	assert.True(t, stats[0].Revenue.Equal(decimal.RequireFromString("999.99")))
	assert.Equal(t, 1, stats[0].UnitsSold)
	assert.Equal(t, "Audio", stats[1].Category)
	assert.Equal(t, "Accessories", stats[2].Category)
	assert.True(t, stats[2].Revenue.Equal(decimal.RequireFromString("73.50")))
	assert.Equal(t, 3, stats[2].UnitsSold)

	// 分类营收之和必须与总营收一致
	sum := decimal.Zero
	for _, s := range stats {
		sum = sum.Add(s.Revenue)
	}
	assert.True(t, sum.Equal(decimal.RequireFromString("1222.49")), "got sum %s", sum)
}

func TestReportService_CategoryBreakdown_DeletedProduct(t *testing.T) {
	orders := &mockOrderRepository{
		listAllFunc: func(ctx context.Context) ([]*orderdomain.Order, error) {
			return []*orderdomain.Order{
				testOrder("ORD-1", orderdomain.NewOrderItem(9, "Discontinued", 2, decimal.RequireFromString("10.00"))),
			}, nil
		},
	}
	products := &mockProductRepository{
		getByIDsFunc: func(ctx context.Context, ids []uint) ([]*catalogdomain.Product, error) {
			return nil, nil
		},
	}
	svc := application.NewReportService(orders, products)

	stats, err := svc.CategoryBreakdown(context.Background())

	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, "Uncategorized", stats[0].Category)
	assert.Equal(t, 2, stats[0].UnitsSold)
	assert.True(t, stats[0].Revenue.Equal(decimal.RequireFromString("20.00")))
}

func TestReportService_RangeSummary(t *testing.T) {
	var gotStart, gotEnd time.Time
	orders := &mockOrderRepository{
		listCreatedBetweenFunc: func(ctx context.Context, start, end time.Time) ([]*orderdomain.Order, error) {
			gotStart, gotEnd = start, end
			return testOrders()[:1], nil
		},
	}
	svc := application.NewReportService(orders, &mockProductRepository{})

	loc := time.Local
	start := time.Date(2026, 3, 1, 15, 4, 5, 0, loc)
	end := time.Date(2026, 3, 3, 9, 0, 0, 0, loc)

	summary, err := svc.RangeSummary(context.Background(), start, end)

	require.NoError(t, err)
	assert.Equal(t, 1, summary.OrderCount)

	// 日历日闭区间：[3月1日 00:00, 3月4日 00:00)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, loc), gotStart)
	assert.Equal(t, time.Date(2026, 3, 4, 0, 0, 0, 0, loc), gotEnd)
}

func TestReportService_RangeSummary_SingleDay(t *testing.T) {
	var gotStart, gotEnd time.Time
	orders := &mockOrderRepository{
		listCreatedBetweenFunc: func(ctx context.Context, start, end time.Time) ([]*orderdomain.Order, error) {
			gotStart, gotEnd = start, end
			return nil, nil
		},
	}
	svc := application.NewReportService(orders, &mockProductRepository{})

	day := time.Date(2026, 3, 1, 12, 0, 0, 0, time.Local)
	_, err := svc.RangeSummary(context.Background(), day, day)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local), gotStart)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local), gotEnd)
}

func TestReportService_RangeSummary_InvertedRange(t *testing.T) {
	orders := &mockOrderRepository{
		listCreatedBetweenFunc: func(ctx context.Context, start, end time.Time) ([]*orderdomain.Order, error) {
			t.Fatal("repository must not be queried for an inverted range")
			return nil, nil
		},
	}
	svc := application.NewReportService(orders, &mockProductRepository{})

	start := time.Date(2026, 3, 5, 0, 0, 0, 0, time.Local)
	end := time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local)

	_, err := svc.RangeSummary(context.Background(), start, end)
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
}
