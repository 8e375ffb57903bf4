package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/wyfcoding/smartbuy/internal/catalog/application"
	"github.com/wyfcoding/smartbuy/internal/catalog/domain"
	"github.com/wyfcoding/smartbuy/pkg/logger"
	"github.com/wyfcoding/smartbuy/pkg/response"
)

// CatalogHandler 商品目录 HTTP 处理器
type CatalogHandler struct {
	app *application.CatalogService
}

// NewCatalogHandler 创建 HTTP 处理器实例
func NewCatalogHandler(app *application.CatalogService) *CatalogHandler {
	return &CatalogHandler{app: app}
}

// RegisterRoutes 注册路由
func (h *CatalogHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1/products")
	{
		api.POST("", h.CreateProduct)
		api.PUT("/:id", h.UpdateProduct)
		api.GET("/:id", h.GetProduct)
		api.GET("", h.ListProducts)
		api.GET("/search", h.SearchProducts)
		api.PUT("/:id/stock", h.SetStock)
		api.PUT("/:id/availability", h.SetAvailability)
	}
}

type createProductRequest struct {
	Name        string `json:"name" binding:"required"`
	Brand       string `json:"brand"`
	Description string `json:"description"`
	Price       string `json:"price" binding:"required"`
	Stock       int    `json:"stock"`
	Category    string `json:"category"`
}

// CreateProduct 创建商品
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid price")
		return
	}
	if price.IsNegative() {
		response.ErrorWithStatus(c, http.StatusBadRequest, "price must not be negative")
		return
	}
	if req.Stock < 0 {
		response.ErrorWithStatus(c, http.StatusBadRequest, "stock must not be negative")
		return
	}

	id, err := h.app.CreateProduct(c.Request.Context(), application.CreateProductCommand{
		Name:        req.Name,
		Brand:       req.Brand,
		Description: req.Description,
		Price:       price,
		Stock:       req.Stock,
		Category:    req.Category,
	})
	if err != nil {
		logger.Error(c.Request.Context(), "failed to create product", "error", err)
		response.Error(c, err.Error())
		return
	}

	response.Success(c, gin.H{"id": id})
}

type updateProductRequest struct {
	Name        string `json:"name" binding:"required"`
	Brand       string `json:"brand"`
	Description string `json:"description"`
	Price       string `json:"price" binding:"required"`
	Category    string `json:"category"`
	Available   bool   `json:"available"`
}

// UpdateProduct 更新商品
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid product id")
		return
	}

	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid price")
		return
	}

	err = h.app.UpdateProduct(c.Request.Context(), application.UpdateProductCommand{
		ID:          uint(id),
		Name:        req.Name,
		Brand:       req.Brand,
		Description: req.Description,
		Price:       price,
		Category:    req.Category,
		Available:   req.Available,
	})
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, "product not found")
			return
		}
		logger.Error(c.Request.Context(), "failed to update product", "id", id, "error", err)
		response.Error(c, err.Error())
		return
	}

	response.Success(c, nil)
}

// GetProduct 获取商品详情
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.app.GetProduct(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, "product not found")
			return
		}
		logger.Error(c.Request.Context(), "failed to get product", "id", id, "error", err)
		response.Error(c, err.Error())
		return
	}

	response.Success(c, product)
}

// ListProducts 分页列出商品，支持按分类过滤
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	page, size, ok := pagination(c)
	if !ok {
		return
	}
	category := c.Query("category")

	products, total, err := h.app.ListProducts(c.Request.Context(), category, page, size)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to list products", "error", err)
		response.Error(c, err.Error())
		return
	}

	response.Success(c, gin.H{"items": products, "total": total})
}

// SearchProducts 按名称或品牌关键字搜索
func (h *CatalogHandler) SearchProducts(c *gin.Context) {
	keyword := c.Query("keyword")
	if keyword == "" {
		response.ErrorWithStatus(c, http.StatusBadRequest, "keyword is required")
		return
	}
	page, size, ok := pagination(c)
	if !ok {
		return
	}

	products, total, err := h.app.SearchProducts(c.Request.Context(), keyword, page, size)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to search products", "keyword", keyword, "error", err)
		response.Error(c, err.Error())
		return
	}

	response.Success(c, gin.H{"items": products, "total": total})
}

type setStockRequest struct {
	Stock *int `json:"stock" binding:"required"`
}

// SetStock 管理端覆盖库存
func (h *CatalogHandler) SetStock(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid product id")
		return
	}

	var req setStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}
	if *req.Stock < 0 {
		response.ErrorWithStatus(c, http.StatusBadRequest, "stock must not be negative")
		return
	}

	if err := h.app.SetStock(c.Request.Context(), uint(id), *req.Stock); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, "product not found")
			return
		}
		logger.Error(c.Request.Context(), "failed to set stock", "id", id, "error", err)
		response.Error(c, err.Error())
		return
	}

	response.Success(c, nil)
}

type setAvailabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}

// SetAvailability 上下架商品
func (h *CatalogHandler) SetAvailability(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid product id")
		return
	}

	var req setAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.app.SetAvailability(c.Request.Context(), uint(id), *req.Available); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, "product not found")
			return
		}
		logger.Error(c.Request.Context(), "failed to set availability", "id", id, "error", err)
		response.Error(c, err.Error())
		return
	}

	response.Success(c, nil)
}

func pagination(c *gin.Context) (page, size int, ok bool) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid page")
		return 0, 0, false
	}
	size, err = strconv.Atoi(c.DefaultQuery("size", "20"))
	if err != nil || size < 1 || size > 100 {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid size")
		return 0, 0, false
	}
	return page, size, true
}
