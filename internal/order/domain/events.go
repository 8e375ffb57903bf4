package domain

import "time"

// 订单事件主题
const (
	OrderCreatedTopic       = "order.created"
	OrderStatusChangedTopic = "order.status.changed"
)

// OrderCreatedEvent 订单创建事件
type OrderCreatedEvent struct {
	OrderNo     string    `json:"order_no"`
	UserID      string    `json:"user_id"`
	TotalAmount string    `json:"total_amount"`
	Status      string    `json:"status"`
	ItemCount   int       `json:"item_count"`
	Timestamp   time.Time `json:"timestamp"`
}

// OrderStatusChangedEvent 订单状态变更事件
type OrderStatusChangedEvent struct {
	OrderNo   string    `json:"order_no"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	Timestamp time.Time `json:"timestamp"`
}
