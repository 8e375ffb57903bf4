package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wyfcoding/pkg/idgen"
	cartdomain "github.com/wyfcoding/smartbuy/internal/cart/domain"
	catalogdomain "github.com/wyfcoding/smartbuy/internal/catalog/domain"
	"github.com/wyfcoding/smartbuy/internal/order/domain"
	"github.com/wyfcoding/smartbuy/pkg/logger"
	"github.com/wyfcoding/smartbuy/pkg/metrics"
)

// CheckoutCommand 结算命令
type CheckoutCommand struct {
	UserID          string
	ShippingAddress string
	PaymentMethod   string
}

// OrderService 订单应用服务
// Checkout 拥有跨实体事务：扣库存、落订单、清购物车要么全部生效要么全部回滚
type OrderService struct {
	orders    domain.OrderRepository
	carts     cartdomain.CartRepository
	inventory catalogdomain.InventoryRepository
	publisher domain.EventPublisher
	metrics   *metrics.Metrics
}

// NewOrderService 创建订单应用服务实例
func NewOrderService(
	orders domain.OrderRepository,
	carts cartdomain.CartRepository,
	inventory catalogdomain.InventoryRepository,
	publisher domain.EventPublisher,
	m *metrics.Metrics,
) *OrderService {
	return &OrderService{
		orders:    orders,
		carts:     carts,
		inventory: inventory,
		publisher: publisher,
		metrics:   m,
	}
}

// Checkout 将用户购物车原子地转换为一张订单
//
// 校验在事务外完成且无副作用；进入事务后按购物车逐行做条件扣减，
// 任何一行库存不足都会回滚整个事务，其余商品的扣减不会残留。
// 明细单价取结算时刻的商品价格快照，订单创建成功后清空购物车。
func (s *OrderService) Checkout(ctx context.Context, cmd CheckoutCommand) (*domain.Order, error) {
	if strings.TrimSpace(cmd.ShippingAddress) == "" {
		return nil, domain.ErrShippingAddressRequired
	}
	if strings.TrimSpace(cmd.PaymentMethod) == "" {
		return nil, domain.ErrPaymentMethodRequired
	}

	var created *domain.Order

	err := s.orders.WithTx(ctx, func(txCtx context.Context) error {
		lines, err := s.carts.ListByUser(txCtx, cmd.UserID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return domain.ErrEmptyCart
		}

		items := make([]domain.OrderItem, 0, len(lines))
		for _, line := range lines {
			if err := s.inventory.DecrementIfAvailable(txCtx, line.ProductID, line.Quantity); err != nil {
				return err
			}
			items = append(items, domain.NewOrderItem(line.ProductID, line.ProductName, line.Quantity, line.Price))
		}

		orderNo := fmt.Sprintf("ORD-%d", idgen.GenID())
		order := domain.NewOrder(orderNo, cmd.UserID, strings.TrimSpace(cmd.ShippingAddress), cmd.PaymentMethod, items)

		if err := s.orders.Create(txCtx, order); err != nil {
			return err
		}
		if err := s.carts.Clear(txCtx, cmd.UserID); err != nil {
			return err
		}

		created = order
		return nil
	})

	if err != nil {
		s.recordCheckoutFailure(err)
		var stockErr *catalogdomain.InsufficientStockError
		if errors.As(err, &stockErr) {
			logger.Warn(ctx, "checkout rejected: insufficient stock",
				"user_id", cmd.UserID,
				"product_id", stockErr.ProductID,
				"available", stockErr.Available,
				"requested", stockErr.Requested,
			)
			return nil, err
		}
		logger.Error(ctx, "checkout failed", "user_id", cmd.UserID, "error", err)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.OrdersPlacedTotal.Inc()
	}
	logger.Info(ctx, "order placed",
		"order_no", created.OrderNo,
		"user_id", created.UserID,
		"total_amount", created.TotalAmount.String(),
		"status", string(created.Status),
	)

	// 事件发布是尽力而为，不影响已提交的订单
	event := domain.OrderCreatedEvent{
		OrderNo:     created.OrderNo,
		UserID:      created.UserID,
		TotalAmount: created.TotalAmount.String(),
		Status:      string(created.Status),
		ItemCount:   len(created.Items),
		Timestamp:   time.Now(),
	}
	if err := s.publisher.Publish(ctx, domain.OrderCreatedTopic, created.OrderNo, event); err != nil {
		logger.Warn(ctx, "failed to publish order created event", "order_no", created.OrderNo, "error", err)
	}

	return created, nil
}

func (s *OrderService) recordCheckoutFailure(err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.CheckoutFailuresTotal.Inc()
	var stockErr *catalogdomain.InsufficientStockError
	if errors.As(err, &stockErr) {
		s.metrics.StockRejectionsTotal.Inc()
	}
}

// UpdateStatus 更新订单状态
// 五个合法状态中的任意目标值都被接受，不校验状态迁移的先后次序
func (s *OrderService) UpdateStatus(ctx context.Context, orderNo string, status domain.OrderStatus) error {
	if !status.IsValid() {
		return domain.ErrInvalidStatus
	}

	oldStatus, err := s.orders.UpdateStatus(ctx, orderNo, status)
	if err != nil {
		if !errors.Is(err, domain.ErrOrderNotFound) {
			logger.Error(ctx, "failed to update order status",
				"order_no", orderNo, "status", string(status), "error", err)
		}
		return err
	}

	if s.metrics != nil {
		s.metrics.StatusUpdatesTotal.Inc()
	}
	logger.Info(ctx, "order status updated",
		"order_no", orderNo,
		"old_status", string(oldStatus),
		"new_status", string(status),
	)

	event := domain.OrderStatusChangedEvent{
		OrderNo:   orderNo,
		OldStatus: string(oldStatus),
		NewStatus: string(status),
		Timestamp: time.Now(),
	}
	if err := s.publisher.Publish(ctx, domain.OrderStatusChangedTopic, orderNo, event); err != nil {
		logger.Warn(ctx, "failed to publish status changed event", "order_no", orderNo, "error", err)
	}

	return nil
}

// GetOrder 获取订单（含明细）
func (s *OrderService) GetOrder(ctx context.Context, orderNo string) (*domain.Order, error) {
	return s.orders.GetByOrderNo(ctx, orderNo)
}

// ListOrdersForUser 用户订单历史
func (s *OrderService) ListOrdersForUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// ListAllOrders 全部订单（管理端）
func (s *OrderService) ListAllOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.orders.ListAll(ctx)
}
