// Package mysql 商品目录与库存台账的 MySQL GORM 实现
package mysql

import (
	"context"
	"errors"
	"fmt"

	"github.com/wyfcoding/pkg/contextx"
	"github.com/wyfcoding/smartbuy/internal/catalog/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type productRepository struct{ db *gorm.DB }

// NewProductRepository 创建商品仓储实例
func NewProductRepository(db *gorm.DB) domain.ProductRepository {
	return &productRepository{db: db}
}

// getDB 优先使用 context 中的事务连接
func (r *productRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := contextx.GetTx(ctx); tx != nil {
		if gormTx, ok := tx.(*gorm.DB); ok {
			return gormTx
		}
	}
	return r.db.WithContext(ctx)
}

func (r *productRepository) Save(ctx context.Context, product *domain.Product) error {
	if err := r.getDB(ctx).Save(product).Error; err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id uint) (*domain.Product, error) {
	var p domain.Product
	if err := r.getDB(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return &p, nil
}

func (r *productRepository) GetByIDs(ctx context.Context, ids []uint) ([]*domain.Product, error) {
	var products []*domain.Product
	if err := r.getDB(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	return products, nil
}

func (r *productRepository) List(ctx context.Context, category string, offset, limit int) ([]*domain.Product, int64, error) {
	var products []*domain.Product
	var total int64
	q := r.getDB(ctx).Model(&domain.Product{}).Where("available = ?", true)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&products).Error
	return products, total, err
}

func (r *productRepository) Search(ctx context.Context, keyword string, offset, limit int) ([]*domain.Product, int64, error) {
	var products []*domain.Product
	var total int64
	pattern := "%" + keyword + "%"
	q := r.getDB(ctx).Model(&domain.Product{}).
		Where("available = ?", true).
		Where("name LIKE ? OR brand LIKE ?", pattern, pattern)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&products).Error
	return products, total, err
}

type inventoryRepository struct{ db *gorm.DB }

// NewInventoryRepository 创建库存台账实例
func NewInventoryRepository(db *gorm.DB) domain.InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := contextx.GetTx(ctx); tx != nil {
		if gormTx, ok := tx.(*gorm.DB); ok {
			return gormTx
		}
	}
	return r.db.WithContext(ctx)
}

func (r *inventoryRepository) CheckAvailable(ctx context.Context, productID uint, qty int) (bool, error) {
	var p domain.Product
	if err := r.getDB(ctx).Select("stock", "available").First(&p, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, domain.ErrProductNotFound
		}
		return false, err
	}
	return p.Available && p.Stock >= qty, nil
}

// DecrementIfAvailable 检查与扣减合并为一条条件 UPDATE，
// 行锁保证同一商品上的并发扣减线性化，stock 不会越过零
func (r *inventoryRepository) DecrementIfAvailable(ctx context.Context, productID uint, qty int) error {
	db := r.getDB(ctx)

	res := db.Model(&domain.Product{}).
		Where("id = ? AND available = ? AND stock >= ?", productID, true, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return fmt.Errorf("failed to decrement stock for product %d: %w", productID, res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// 扣减未命中：区分商品不存在与库存不足，带回当前可用量
	// 此处只是诊断读，扣减的权威判定在上面的条件 UPDATE
	var p domain.Product
	if err := db.First(&p, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrProductNotFound
		}
		return fmt.Errorf("failed to load product %d: %w", productID, err)
	}

	available := p.Stock
	if !p.Available {
		available = 0
	}
	return &domain.InsufficientStockError{
		ProductID:   p.ID,
		ProductName: p.Name,
		Available:   available,
		Requested:   qty,
	}
}

// SetStock 绝对覆盖库存；行锁与进行中的条件扣减互斥
func (r *inventoryRepository) SetStock(ctx context.Context, productID uint, value int) error {
	if value < 0 {
		return fmt.Errorf("stock value must be non-negative, got %d", value)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p domain.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrProductNotFound
			}
			return err
		}
		return tx.Model(&p).Update("stock", value).Error
	})
}

func (r *inventoryRepository) SetAvailability(ctx context.Context, productID uint, available bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p domain.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrProductNotFound
			}
			return err
		}
		return tx.Model(&p).Update("available", available).Error
	})
}
