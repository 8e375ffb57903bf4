// Package domain 购物车的领域模型
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// CartItem 购物车条目，(user_id, product_id) 唯一，一个商品一行
// 重复加购累加数量而不是新增行
// 条目是结算前的暂存数据，删除即物理删除，不留软删除墓碑，
// 否则墓碑行会与唯一索引冲突，吞掉之后的重新加购
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"column:user_id;type:varchar(36);uniqueIndex:uk_user_product;not null" json:"user_id"`
	ProductID uint      `gorm:"column:product_id;uniqueIndex:uk_user_product;not null" json:"product_id"`
	Quantity  int       `gorm:"column:quantity;not null" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名
func (CartItem) TableName() string { return "cart_items" }

// CartLine 购物车读模型，关联当前商品信息用于展示与结算
type CartLine struct {
	CartItemID  uint            `json:"cart_item_id"`
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Brand       string          `json:"brand"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Available   bool            `json:"available"`
}

// Subtotal 行小计 = 当前单价 × 数量
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// ErrCartItemNotFound 购物车条目不存在
var ErrCartItemNotFound = errors.New("cart item not found")

// ErrInvalidQuantity 加购数量必须为正数
var ErrInvalidQuantity = errors.New("quantity must be positive")

// CartRepository 购物车仓储接口
// 所有操作只作用于单个用户的数据，单行原子即可
type CartRepository interface {
	// AddOrIncrement 条目已存在则累加数量，否则新建
	AddOrIncrement(ctx context.Context, userID string, productID uint, qty int) error
	// SetQuantity qty<=0 删除该条目，否则覆盖数量
	SetQuantity(ctx context.Context, cartItemID uint, qty int) error
	// Remove 删除条目
	Remove(ctx context.Context, cartItemID uint) error
	// Clear 清空用户购物车
	Clear(ctx context.Context, userID string) error
	// ListByUser 列出用户购物车，带当前商品快照
	ListByUser(ctx context.Context, userID string) ([]CartLine, error)
	// ItemCount 用户购物车内商品总件数（数量求和）
	ItemCount(ctx context.Context, userID string) (int, error)
}
