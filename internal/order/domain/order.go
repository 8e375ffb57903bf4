// Package domain 订单的领域模型
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus 订单状态
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusPaid      OrderStatus = "Paid"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusCompleted OrderStatus = "Completed"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// IsValid 是否为五个合法状态之一
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// immediateSettlement 即时到账支付方式；下单即置为 Paid，其余为 Pending
var immediateSettlement = map[string]bool{
	"Online":         true,
	"Online Payment": true,
	"Credit Card":    true,
	"Alipay":         true,
	"WeChat Pay":     true,
}

// InitialStatus 按支付方式确定订单初始状态
func InitialStatus(paymentMethod string) OrderStatus {
	if immediateSettlement[paymentMethod] {
		return OrderStatusPaid
	}
	return OrderStatusPending
}

// Order 订单实体
// 创建后除 status/updated_at 外不可变
type Order struct {
	gorm.Model
	// 订单号（业务主键）
	OrderNo string `gorm:"column:order_no;type:varchar(32);uniqueIndex;not null" json:"order_no"`
	// 用户 ID
	UserID string `gorm:"column:user_id;type:varchar(36);index;not null" json:"user_id"`
	// 订单总额 = 各行小计之和，精确小数
	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:decimal(10,2);not null" json:"total_amount"`
	// 订单状态
	Status OrderStatus `gorm:"column:status;type:varchar(20);index;not null" json:"status"`
	// 收货地址
	ShippingAddress string `gorm:"column:shipping_address;type:varchar(500);not null" json:"shipping_address"`
	// 支付方式（仅作标签，不对接支付网关）
	PaymentMethod string `gorm:"column:payment_method;type:varchar(50);not null" json:"payment_method"`
	// 订单明细
	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

// TableName 指定表名
func (Order) TableName() string { return "orders" }

// OrderItem 订单明细，下单时随订单一次性创建，此后不再变更
// 名称与单价是下单时刻的快照，后续改价不影响历史订单
type OrderItem struct {
	gorm.Model
	OrderID     uint            `gorm:"column:order_id;index;not null" json:"order_id"`
	ProductID   uint            `gorm:"column:product_id;index;not null" json:"product_id"`
	ProductName string          `gorm:"column:product_name;type:varchar(255);not null" json:"product_name"`
	Quantity    int             `gorm:"column:quantity;not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:decimal(10,2);not null" json:"unit_price"`
	Subtotal    decimal.Decimal `gorm:"column:subtotal;type:decimal(10,2);not null" json:"subtotal"`
}

// TableName 指定表名
func (OrderItem) TableName() string { return "order_items" }

// NewOrderItem 构造一条明细，小计 = 单价 × 数量
func NewOrderItem(productID uint, productName string, qty int, unitPrice decimal.Decimal) OrderItem {
	return OrderItem{
		ProductID:   productID,
		ProductName: productName,
		Quantity:    qty,
		UnitPrice:   unitPrice,
		Subtotal:    unitPrice.Mul(decimal.NewFromInt(int64(qty))),
	}
}

// NewOrder 创建订单，总额由明细小计累加，初始状态按支付方式确定
func NewOrder(orderNo, userID, shippingAddress, paymentMethod string, items []OrderItem) *Order {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal)
	}
	return &Order{
		OrderNo:         orderNo,
		UserID:          userID,
		TotalAmount:     total,
		Status:          InitialStatus(paymentMethod),
		ShippingAddress: shippingAddress,
		PaymentMethod:   paymentMethod,
		Items:           items,
	}
}

var (
	// ErrOrderNotFound 订单不存在
	ErrOrderNotFound = errors.New("order not found")
	// ErrEmptyCart 购物车为空，无法结算
	ErrEmptyCart = errors.New("cart is empty")
	// ErrShippingAddressRequired 收货地址为空
	ErrShippingAddressRequired = errors.New("shipping address is required")
	// ErrPaymentMethodRequired 未选择支付方式
	ErrPaymentMethodRequired = errors.New("payment method is required")
	// ErrInvalidStatus 不在五个合法状态之内
	ErrInvalidStatus = errors.New("invalid order status")
)

// OrderRepository 订单仓储接口
type OrderRepository interface {
	// Create 保存订单及其明细
	Create(ctx context.Context, order *Order) error
	// GetByOrderNo 按订单号获取订单（含明细）
	GetByOrderNo(ctx context.Context, orderNo string) (*Order, error)
	// ListByUser 用户订单历史，新单在前
	ListByUser(ctx context.Context, userID string) ([]*Order, error)
	// ListAll 全部订单（管理端），新单在前
	ListAll(ctx context.Context) ([]*Order, error)
	// ListCreatedBetween 创建时间位于 [start, end) 的订单
	ListCreatedBetween(ctx context.Context, start, end time.Time) ([]*Order, error)
	// UpdateStatus 覆盖状态并刷新 updated_at，返回变更前的状态
	// 读取与写入必须在同一事务内，变更前状态不允许出现并发错位
	UpdateStatus(ctx context.Context, orderNo string, status OrderStatus) (OrderStatus, error)
	// WithTx 在单个事务中执行 fn，事务经 context 传递给仓储调用
	WithTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

// EventPublisher 订单事件发布接口
type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, event any) error
}
