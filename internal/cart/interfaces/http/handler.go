package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/smartbuy/internal/cart/application"
	"github.com/wyfcoding/smartbuy/internal/cart/domain"
	catalogdomain "github.com/wyfcoding/smartbuy/internal/catalog/domain"
	"github.com/wyfcoding/smartbuy/pkg/logger"
	"github.com/wyfcoding/smartbuy/pkg/response"
)

// CartHandler 购物车 HTTP 处理器
type CartHandler struct {
	app *application.CartService
}

// NewCartHandler 创建 HTTP 处理器实例
func NewCartHandler(app *application.CartService) *CartHandler {
	return &CartHandler{app: app}
}

// RegisterRoutes 注册路由
func (h *CartHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1/cart")
	{
		api.POST("/items", h.AddItem)
		api.PUT("/items/:id", h.UpdateQuantity)
		api.DELETE("/items/:id", h.RemoveItem)
		api.DELETE("/:user_id", h.ClearCart)
		api.GET("/:user_id", h.ListCart)
		api.GET("/:user_id/count", h.ItemCount)
	}
}

type addItemRequest struct {
	UserID    string `json:"user_id" binding:"required"`
	ProductID uint   `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

// AddItem 加入购物车，同商品重复加入时数量累加
func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	err := h.app.AddItem(c.Request.Context(), application.AddItemCommand{
		UserID:    req.UserID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidQuantity):
			response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, catalogdomain.ErrProductNotFound):
			response.ErrorWithStatus(c, http.StatusNotFound, "product not found")
		default:
			logger.Error(c.Request.Context(), "failed to add cart item",
				"user_id", req.UserID, "product_id", req.ProductID, "error", err)
			response.Error(c, err.Error())
		}
		return
	}

	response.Success(c, nil)
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// UpdateQuantity 覆盖条目数量，0 及负数等价于删除
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid cart item id")
		return
	}

	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.app.UpdateQuantity(c.Request.Context(), uint(id), *req.Quantity); err != nil {
		if errors.Is(err, domain.ErrCartItemNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, "cart item not found")
			return
		}
		logger.Error(c.Request.Context(), "failed to update cart quantity", "id", id, "error", err)
		response.Error(c, err.Error())
		return
	}

	response.Success(c, nil)
}

// RemoveItem 删除条目
func (h *CartHandler) RemoveItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid cart item id")
		return
	}

	if err := h.app.RemoveItem(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, domain.ErrCartItemNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, "cart item not found")
			return
		}
		logger.Error(c.Request.Context(), "failed to remove cart item", "id", id, "error", err)
		response.Error(c, err.Error())
		return
	}

	response.Success(c, nil)
}

// ClearCart 清空用户购物车
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID := c.Param("user_id")
	if userID == "" {
		response.ErrorWithStatus(c, http.StatusBadRequest, "user_id is required")
		return
	}

	if err := h.app.ClearCart(c.Request.Context(), userID); err != nil {
		logger.Error(c.Request.Context(), "failed to clear cart", "user_id", userID, "error", err)
		response.Error(c, err.Error())
		return
	}

	response.Success(c, nil)
}

// ListCart 列出购物车内容，含商品快照与小计
func (h *CartHandler) ListCart(c *gin.Context) {
	userID := c.Param("user_id")
	if userID == "" {
		response.ErrorWithStatus(c, http.StatusBadRequest, "user_id is required")
		return
	}

	lines, err := h.app.ListCart(c.Request.Context(), userID)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to list cart", "user_id", userID, "error", err)
		response.Error(c, err.Error())
		return
	}

	type lineView struct {
		domain.CartLine
		Subtotal string `json:"subtotal"`
	}
	views := make([]lineView, 0, len(lines))
	for _, line := range lines {
		views = append(views, lineView{CartLine: line, Subtotal: line.Subtotal().String()})
	}

	response.Success(c, gin.H{"items": views})
}

// ItemCount 购物车角标数量
func (h *CartHandler) ItemCount(c *gin.Context) {
	userID := c.Param("user_id")
	if userID == "" {
		response.ErrorWithStatus(c, http.StatusBadRequest, "user_id is required")
		return
	}

	count, err := h.app.ItemCount(c.Request.Context(), userID)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to count cart items", "user_id", userID, "error", err)
		response.Error(c, err.Error())
		return
	}

	response.Success(c, gin.H{"count": count})
}
