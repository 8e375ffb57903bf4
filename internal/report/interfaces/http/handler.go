package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/smartbuy/internal/report/application"
	"github.com/wyfcoding/smartbuy/internal/report/domain"
	"github.com/wyfcoding/smartbuy/pkg/logger"
	"github.com/wyfcoding/smartbuy/pkg/response"
)

const dateLayout = "2006-01-02"

// ReportHandler 销售报表 HTTP 处理器
type ReportHandler struct {
	app *application.ReportService
}

// NewReportHandler 创建 HTTP 处理器实例
func NewReportHandler(app *application.ReportService) *ReportHandler {
	return &ReportHandler{app: app}
}

// RegisterRoutes 注册路由
func (h *ReportHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1/reports")
	{
		api.GET("/totals", h.Totals)
		api.GET("/categories", h.CategoryBreakdown)
		api.GET("/range", h.RangeSummary)
	}
}

// Totals 全量销售汇总
func (h *ReportHandler) Totals(c *gin.Context) {
	summary, err := h.app.Totals(c.Request.Context())
	if err != nil {
		logger.Error(c.Request.Context(), "failed to build totals report", "error", err)
		response.Error(c, err.Error())
		return
	}
	response.Success(c, summary)
}

// CategoryBreakdown 分类维度销售统计
func (h *ReportHandler) CategoryBreakdown(c *gin.Context) {
	stats, err := h.app.CategoryBreakdown(c.Request.Context())
	if err != nil {
		logger.Error(c.Request.Context(), "failed to build category report", "error", err)
		response.Error(c, err.Error())
		return
	}
	response.Success(c, gin.H{"categories": stats})
}

// RangeSummary 按日历日统计，start/end 取 YYYY-MM-DD，两端闭区间
func (h *ReportHandler) RangeSummary(c *gin.Context) {
	start, err := time.ParseInLocation(dateLayout, c.Query("start"), time.Local)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid start date, expected YYYY-MM-DD")
		return
	}
	end, err := time.ParseInLocation(dateLayout, c.Query("end"), time.Local)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid end date, expected YYYY-MM-DD")
		return
	}

	summary, err := h.app.RangeSummary(c.Request.Context(), start, end)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidDateRange) {
			response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
			return
		}
		logger.Error(c.Request.Context(), "failed to build range report", "error", err)
		response.Error(c, err.Error())
		return
	}
	response.Success(c, summary)
}
