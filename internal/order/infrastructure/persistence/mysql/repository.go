// Package mysql 订单仓储的 MySQL GORM 实现
package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wyfcoding/pkg/contextx"
	"github.com/wyfcoding/smartbuy/internal/order/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type orderRepository struct{ db *gorm.DB }

// NewOrderRepository 创建订单仓储实例
func NewOrderRepository(db *gorm.DB) domain.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := contextx.GetTx(ctx); tx != nil {
		if gormTx, ok := tx.(*gorm.DB); ok {
			return gormTx
		}
	}
	return r.db.WithContext(ctx)
}

// WithTx 开启事务并通过 context 传递给仓储调用
func (r *orderRepository) WithTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(contextx.WithTx(ctx, tx))
	})
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	// 明细经由关联一并写入
	if err := r.getDB(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order %s: %w", order.OrderNo, err)
	}
	return nil
}

func (r *orderRepository) GetByOrderNo(ctx context.Context, orderNo string) (*domain.Order, error) {
	var order domain.Order
	err := r.getDB(ctx).Preload("Items").Where("order_no = ?", orderNo).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order %s: %w", orderNo, err)
	}
	return &order, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	var orders []*domain.Order
	err := r.getDB(ctx).Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for user %s: %w", userID, err)
	}
	return orders, nil
}

func (r *orderRepository) ListAll(ctx context.Context) ([]*domain.Order, error) {
	var orders []*domain.Order
	err := r.getDB(ctx).Preload("Items").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (r *orderRepository) ListCreatedBetween(ctx context.Context, start, end time.Time) ([]*domain.Order, error) {
	var orders []*domain.Order
	err := r.getDB(ctx).Preload("Items").
		Where("created_at >= ? AND created_at < ?", start, end).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders between %s and %s: %w", start, end, err)
	}
	return orders, nil
}

// UpdateStatus 行锁下读旧状态再覆盖，二者在同一事务内完成
func (r *orderRepository) UpdateStatus(ctx context.Context, orderNo string, status domain.OrderStatus) (domain.OrderStatus, error) {
	var previous domain.OrderStatus
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order domain.Order
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("order_no = ?", orderNo).
			First(&order).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrOrderNotFound
			}
			return fmt.Errorf("failed to load order %s: %w", orderNo, err)
		}
		previous = order.Status

		err = tx.Model(&domain.Order{}).
			Where("order_no = ?", orderNo).
			Updates(map[string]any{
				"status":     status,
				"updated_at": time.Now(),
			}).Error
		if err != nil {
			return fmt.Errorf("failed to update status of order %s: %w", orderNo, err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return previous, nil
}
