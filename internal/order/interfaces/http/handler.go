package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/wyfcoding/smartbuy/internal/catalog/domain"
	"github.com/wyfcoding/smartbuy/internal/order/application"
	"github.com/wyfcoding/smartbuy/internal/order/domain"
	"github.com/wyfcoding/smartbuy/pkg/logger"
	"github.com/wyfcoding/smartbuy/pkg/response"
)

// OrderHandler 订单 HTTP 处理器
type OrderHandler struct {
	app *application.OrderService
}

// NewOrderHandler 创建 HTTP 处理器实例
func NewOrderHandler(app *application.OrderService) *OrderHandler {
	return &OrderHandler{app: app}
}

// RegisterRoutes 注册路由
func (h *OrderHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1/orders")
	{
		api.POST("/checkout", h.Checkout)
		api.GET("", h.ListAll)
		api.GET("/:order_no", h.Get)
		api.PUT("/:order_no/status", h.UpdateStatus)
		api.GET("/user/:user_id", h.ListByUser)
	}
}

type checkoutRequest struct {
	UserID          string `json:"user_id" binding:"required"`
	ShippingAddress string `json:"shipping_address"`
	PaymentMethod   string `json:"payment_method"`
}

// Checkout 结算下单
// 库存不足返回 409，其余校验错误返回 400
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	order, err := h.app.Checkout(c.Request.Context(), application.CheckoutCommand{
		UserID:          req.UserID,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		var stockErr *catalogdomain.InsufficientStockError
		switch {
		case errors.Is(err, domain.ErrEmptyCart),
			errors.Is(err, domain.ErrShippingAddressRequired),
			errors.Is(err, domain.ErrPaymentMethodRequired):
			response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		case errors.As(err, &stockErr):
			response.ErrorWithStatus(c, http.StatusConflict, stockErr.Error())
		case errors.Is(err, catalogdomain.ErrProductNotFound):
			response.ErrorWithStatus(c, http.StatusConflict, err.Error())
		default:
			response.Error(c, err.Error())
		}
		return
	}

	response.Success(c, order)
}

// Get 获取订单详情
func (h *OrderHandler) Get(c *gin.Context) {
	orderNo := c.Param("order_no")
	if orderNo == "" {
		response.ErrorWithStatus(c, http.StatusBadRequest, "order_no is required")
		return
	}

	order, err := h.app.GetOrder(c.Request.Context(), orderNo)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, "order not found")
			return
		}
		logger.Error(c.Request.Context(), "failed to get order", "order_no", orderNo, "error", err)
		response.Error(c, err.Error())
		return
	}

	response.Success(c, order)
}

// ListByUser 用户订单历史
func (h *OrderHandler) ListByUser(c *gin.Context) {
	userID := c.Param("user_id")
	if userID == "" {
		response.ErrorWithStatus(c, http.StatusBadRequest, "user_id is required")
		return
	}

	orders, err := h.app.ListOrdersForUser(c.Request.Context(), userID)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to list user orders", "user_id", userID, "error", err)
		response.Error(c, err.Error())
		return
	}

	response.Success(c, gin.H{"items": orders})
}

// ListAll 全部订单（管理端）
func (h *OrderHandler) ListAll(c *gin.Context) {
	orders, err := h.app.ListAllOrders(c.Request.Context())
	if err != nil {
		logger.Error(c.Request.Context(), "failed to list orders", "error", err)
		response.Error(c, err.Error())
		return
	}

	response.Success(c, gin.H{"items": orders})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus 更新订单状态
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderNo := c.Param("order_no")
	if orderNo == "" {
		response.ErrorWithStatus(c, http.StatusBadRequest, "order_no is required")
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	err := h.app.UpdateStatus(c.Request.Context(), orderNo, domain.OrderStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidStatus):
			response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrOrderNotFound):
			response.ErrorWithStatus(c, http.StatusNotFound, "order not found")
		default:
			logger.Error(c.Request.Context(), "failed to update order status",
				"order_no", orderNo, "error", err)
			response.Error(c, err.Error())
		}
		return
	}

	response.Success(c, nil)
}
