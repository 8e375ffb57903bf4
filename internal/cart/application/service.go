package application

import (
	"context"
	"fmt"

	cartdomain "github.com/wyfcoding/smartbuy/internal/cart/domain"
	catalogdomain "github.com/wyfcoding/smartbuy/internal/catalog/domain"
	"github.com/wyfcoding/smartbuy/pkg/logger"
)

// AddItemCommand 添加商品到购物车命令
type AddItemCommand struct {
	UserID    string
	ProductID uint
	Quantity  int
}

// CartService 购物车应用服务
type CartService struct {
	carts    cartdomain.CartRepository
	products catalogdomain.ProductRepository
}

// NewCartService 创建购物车应用服务实例
func NewCartService(carts cartdomain.CartRepository, products catalogdomain.ProductRepository) *CartService {
	return &CartService{carts: carts, products: products}
}

// AddItem 加购；已存在的条目累加数量
// 此处不做库存校验，库存只在结算时强制
func (s *CartService) AddItem(ctx context.Context, cmd AddItemCommand) error {
	if cmd.Quantity <= 0 {
		return fmt.Errorf("%w, got %d", cartdomain.ErrInvalidQuantity, cmd.Quantity)
	}

	// 校验商品存在，避免购物车里挂着悬空引用
	if _, err := s.products.GetByID(ctx, cmd.ProductID); err != nil {
		return err
	}

	if err := s.carts.AddOrIncrement(ctx, cmd.UserID, cmd.ProductID, cmd.Quantity); err != nil {
		logger.Error(ctx, "failed to add item to cart",
			"user_id", cmd.UserID, "product_id", cmd.ProductID, "error", err)
		return err
	}
	return nil
}

// UpdateQuantity 覆盖条目数量；数量归零等同删除
func (s *CartService) UpdateQuantity(ctx context.Context, cartItemID uint, qty int) error {
	return s.carts.SetQuantity(ctx, cartItemID, qty)
}

// RemoveItem 删除条目
func (s *CartService) RemoveItem(ctx context.Context, cartItemID uint) error {
	return s.carts.Remove(ctx, cartItemID)
}

// ClearCart 清空用户购物车
func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	return s.carts.Clear(ctx, userID)
}

// ListCart 列出用户购物车（带当前商品信息）
func (s *CartService) ListCart(ctx context.Context, userID string) ([]cartdomain.CartLine, error) {
	return s.carts.ListByUser(ctx, userID)
}

// ItemCount 购物车角标数量
func (s *CartService) ItemCount(ctx context.Context, userID string) (int, error) {
	return s.carts.ItemCount(ctx, userID)
}
