// Package mysql 购物车仓储的 MySQL GORM 实现
package mysql

import (
	"context"
	"errors"
	"fmt"

	"github.com/wyfcoding/pkg/contextx"
	"github.com/wyfcoding/smartbuy/internal/cart/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type cartRepository struct{ db *gorm.DB }

// NewCartRepository 创建购物车仓储实例
func NewCartRepository(db *gorm.DB) domain.CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := contextx.GetTx(ctx); tx != nil {
		if gormTx, ok := tx.(*gorm.DB); ok {
			return gormTx
		}
	}
	return r.db.WithContext(ctx)
}

// AddOrIncrement 依赖 (user_id, product_id) 唯一索引做 upsert 累加
func (r *cartRepository) AddOrIncrement(ctx context.Context, userID string, productID uint, qty int) error {
	item := &domain.CartItem{UserID: userID, ProductID: productID, Quantity: qty}
	err := r.getDB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]any{"quantity": gorm.Expr("quantity + ?", qty)}),
	}).Create(item).Error
	if err != nil {
		return fmt.Errorf("failed to add cart item: %w", err)
	}
	return nil
}

func (r *cartRepository) SetQuantity(ctx context.Context, cartItemID uint, qty int) error {
	db := r.getDB(ctx)

	if qty <= 0 {
		res := db.Delete(&domain.CartItem{}, cartItemID)
		if res.Error != nil {
			return fmt.Errorf("failed to delete cart item %d: %w", cartItemID, res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrCartItemNotFound
		}
		return nil
	}

	res := db.Model(&domain.CartItem{}).Where("id = ?", cartItemID).Update("quantity", qty)
	if res.Error != nil {
		return fmt.Errorf("failed to update cart item %d: %w", cartItemID, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrCartItemNotFound
	}
	return nil
}

func (r *cartRepository) Remove(ctx context.Context, cartItemID uint) error {
	res := r.getDB(ctx).Delete(&domain.CartItem{}, cartItemID)
	if res.Error != nil {
		return fmt.Errorf("failed to remove cart item %d: %w", cartItemID, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrCartItemNotFound
	}
	return nil
}

func (r *cartRepository) Clear(ctx context.Context, userID string) error {
	err := r.getDB(ctx).Where("user_id = ?", userID).Delete(&domain.CartItem{}).Error
	if err != nil {
		return fmt.Errorf("failed to clear cart for user %s: %w", userID, err)
	}
	return nil
}

func (r *cartRepository) ListByUser(ctx context.Context, userID string) ([]domain.CartLine, error) {
	var lines []domain.CartLine
	err := r.getDB(ctx).Table("cart_items").
		Select("cart_items.id AS cart_item_id, cart_items.product_id, products.name AS product_name, products.brand, products.price, cart_items.quantity, products.available").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.user_id = ? AND products.deleted_at IS NULL", userID).
		Order("cart_items.created_at ASC").
		Scan(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list cart for user %s: %w", userID, err)
	}
	return lines, nil
}

func (r *cartRepository) ItemCount(ctx context.Context, userID string) (int, error) {
	var count *int
	err := r.getDB(ctx).Model(&domain.CartItem{}).
		Select("SUM(quantity)").
		Where("user_id = ?", userID).
		Scan(&count).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("failed to count cart items for user %s: %w", userID, err)
	}
	if count == nil {
		return 0, nil
	}
	return *count, nil
}
