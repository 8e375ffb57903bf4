package application

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/smartbuy/internal/catalog/domain"
	"github.com/wyfcoding/smartbuy/pkg/logger"
)

// CreateProductCommand 创建商品命令
type CreateProductCommand struct {
	Name        string
	Brand       string
	Description string
	Price       decimal.Decimal
	Stock       int
	Category    string
}

// UpdateProductCommand 更新商品命令
type UpdateProductCommand struct {
	ID          uint
	Name        string
	Brand       string
	Description string
	Price       decimal.Decimal
	Category    string
	Available   bool
}

// CatalogService 商品目录应用服务，含库存管理操作
type CatalogService struct {
	products  domain.ProductRepository
	inventory domain.InventoryRepository
}

// NewCatalogService 创建商品目录应用服务实例
func NewCatalogService(products domain.ProductRepository, inventory domain.InventoryRepository) *CatalogService {
	return &CatalogService{products: products, inventory: inventory}
}

// CreateProduct 创建商品
func (s *CatalogService) CreateProduct(ctx context.Context, cmd CreateProductCommand) (uint, error) {
	p := &domain.Product{
		Name:        cmd.Name,
		Brand:       cmd.Brand,
		Description: cmd.Description,
		Price:       cmd.Price,
		Stock:       cmd.Stock,
		Category:    cmd.Category,
		Available:   true,
	}
	if err := s.products.Save(ctx, p); err != nil {
		logger.Error(ctx, "failed to create product", "name", cmd.Name, "error", err)
		return 0, err
	}
	return p.ID, nil
}

// UpdateProduct 更新商品信息；库存不在此路径上修改，见 SetStock
func (s *CatalogService) UpdateProduct(ctx context.Context, cmd UpdateProductCommand) error {
	p, err := s.products.GetByID(ctx, cmd.ID)
	if err != nil {
		return err
	}

	p.Name = cmd.Name
	p.Brand = cmd.Brand
	p.Description = cmd.Description
	p.Price = cmd.Price
	p.Category = cmd.Category
	p.Available = cmd.Available

	if err := s.products.Save(ctx, p); err != nil {
		logger.Error(ctx, "failed to update product", "product_id", cmd.ID, "error", err)
		return err
	}
	return nil
}

// GetProduct 获取商品
func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

// ListProducts 按分类分页列出上架商品
func (s *CatalogService) ListProducts(ctx context.Context, category string, page, size int) ([]*domain.Product, int64, error) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	return s.products.List(ctx, category, (page-1)*size, size)
}

// SearchProducts 按名称/品牌搜索上架商品
func (s *CatalogService) SearchProducts(ctx context.Context, keyword string, page, size int) ([]*domain.Product, int64, error) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	return s.products.Search(ctx, keyword, (page-1)*size, size)
}

// SetStock 管理端覆盖库存
func (s *CatalogService) SetStock(ctx context.Context, productID uint, value int) error {
	if err := s.inventory.SetStock(ctx, productID, value); err != nil {
		logger.Error(ctx, "failed to set stock", "product_id", productID, "value", value, "error", err)
		return err
	}
	return nil
}

// SetAvailability 上下架
func (s *CatalogService) SetAvailability(ctx context.Context, productID uint, available bool) error {
	return s.inventory.SetAvailability(ctx, productID, available)
}

// CheckAvailable 查询库存是否满足数量，仅作参考
func (s *CatalogService) CheckAvailable(ctx context.Context, productID uint, qty int) (bool, error) {
	return s.inventory.CheckAvailable(ctx, productID, qty)
}
