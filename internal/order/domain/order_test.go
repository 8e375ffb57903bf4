package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/wyfcoding/smartbuy/internal/order/domain"
)

func TestInitialStatus(t *testing.T) {
	tests := []struct {
		name          string
		paymentMethod string
		want          domain.OrderStatus
	}{
		{name: "online", paymentMethod: "Online", want: domain.OrderStatusPaid},
		{name: "online_payment", paymentMethod: "Online Payment", want: domain.OrderStatusPaid},
		{name: "credit_card", paymentMethod: "Credit Card", want: domain.OrderStatusPaid},
		{name: "alipay", paymentMethod: "Alipay", want: domain.OrderStatusPaid},
		{name: "wechat_pay", paymentMethod: "WeChat Pay", want: domain.OrderStatusPaid},
		{name: "cash_on_delivery", paymentMethod: "Cash on Delivery", want: domain.OrderStatusPending},
		{name: "bank_transfer", paymentMethod: "Bank Transfer", want: domain.OrderStatusPending},
		{name: "case_sensitive", paymentMethod: "online", want: domain.OrderStatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.InitialStatus(tt.paymentMethod))
		})
	}
}

func TestOrderStatus_IsValid(t *testing.T) {
	valid := []domain.OrderStatus{
		domain.OrderStatusPending,
		domain.OrderStatusPaid,
		domain.OrderStatusShipped,
		domain.OrderStatusCompleted,
		domain.OrderStatusCancelled,
	}
	for _, s := range valid {
		assert.True(t, s.IsValid(), "expected %q to be valid", s)
	}

	invalid := []domain.OrderStatus{"", "pending", "Delivered", "PAID", "Unknown"}
	for _, s := range invalid {
		assert.False(t, s.IsValid(), "expected %q to be invalid", s)
	}
}

func TestNewOrderItem(t *testing.T) {
	item := domain.NewOrderItem(7, "Mechanical Keyboard", 3, decimal.RequireFromString("19.99"))

	assert.Equal(t, uint(7), item.ProductID)
	assert.Equal(t, "Mechanical Keyboard", item.ProductName)
	assert.Equal(t, 3, item.Quantity)
	assert.True(t, item.UnitPrice.Equal(decimal.RequireFromString("19.99")))
	assert.True(t, item.Subtotal.Equal(decimal.RequireFromString("59.97")),
		"got subtotal %s", item.Subtotal)
}

func TestNewOrder(t *testing.T) {
	items := []domain.OrderItem{
		domain.NewOrderItem(1, "USB-C Cable", 2, decimal.RequireFromString("0.10")),
		domain.NewOrderItem(2, "Wireless Mouse", 1, decimal.RequireFromString("0.20")),
	}

	order := domain.NewOrder("ORD-1001", "user-1", "1 Main St", "Credit Card", items)

	assert.Equal(t, "ORD-1001", order.OrderNo)
	assert.Equal(t, "user-1", order.UserID)
	assert.Equal(t, domain.OrderStatusPaid, order.Status)
	assert.Len(t, order.Items, 2)
	// 0.10*2 + 0.20 精确等于 0.40，不允许出现二进制浮点误差
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("0.40")),
		"got total %s", order.TotalAmount)
}

func TestNewOrder_PendingForDeferredPayment(t *testing.T) {
	items := []domain.OrderItem{
		domain.NewOrderItem(1, "Monitor", 1, decimal.RequireFromString("249.00")),
	}

	order := domain.NewOrder("ORD-1002", "user-2", "2 Side St", "Cash on Delivery", items)

	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("249.00")))
}
