// Package domain 商品目录的领域模型
package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product 商品实体
// 价格使用精确小数；库存由 InventoryRepository 以原子方式扣减
type Product struct {
	gorm.Model
	// 商品名称
	Name string `gorm:"column:name;type:varchar(255);not null" json:"name"`
	// 品牌
	Brand string `gorm:"column:brand;type:varchar(100)" json:"brand"`
	// 描述
	Description string `gorm:"column:description;type:text" json:"description"`
	// 单价
	Price decimal.Decimal `gorm:"column:price;type:decimal(10,2);not null" json:"price"`
	// 库存，永不为负
	Stock int `gorm:"column:stock;not null;default:0" json:"stock"`
	// 分类
	Category string `gorm:"column:category;type:varchar(100);index" json:"category"`
	// 是否上架
	Available bool `gorm:"column:available;not null;default:true" json:"available"`
}

// TableName 指定表名
func (Product) TableName() string { return "products" }

// ErrProductNotFound 商品不存在
var ErrProductNotFound = errors.New("product not found")

// InsufficientStockError 库存不足错误，携带当前可用量与请求量
type InsufficientStockError struct {
	ProductID   uint
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d (%s): available %d, requested %d",
		e.ProductID, e.ProductName, e.Available, e.Requested)
}

// ProductRepository 商品仓储接口
type ProductRepository interface {
	Save(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, id uint) (*Product, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*Product, error)
	List(ctx context.Context, category string, offset, limit int) ([]*Product, int64, error)
	Search(ctx context.Context, keyword string, offset, limit int) ([]*Product, int64, error)
}

// InventoryRepository 库存台账接口
// DecrementIfAvailable 是唯一的扣减原语：检查与扣减必须是同一个原子操作，
// 同一商品上的并发扣减彼此串行，库存不可能被扣成负数
type InventoryRepository interface {
	// CheckAvailable 当前库存是否满足数量，仅作参考，不构成预留
	CheckAvailable(ctx context.Context, productID uint, qty int) (bool, error)
	// DecrementIfAvailable 条件扣减；库存不足返回 *InsufficientStockError
	DecrementIfAvailable(ctx context.Context, productID uint, qty int) error
	// SetStock 管理端绝对覆盖库存，与进行中的扣减互斥
	SetStock(ctx context.Context, productID uint, value int) error
	// SetAvailability 上下架
	SetAvailability(ctx context.Context, productID uint, available bool) error
}
