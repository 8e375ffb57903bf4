package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInvalidDateRange 起始日期晚于结束日期
var ErrInvalidDateRange = errors.New("invalid date range: start date after end date")

// TotalsSummary 全量销售汇总
type TotalsSummary struct {
	OrderCount     int             `json:"order_count"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	TotalItemsSold int             `json:"total_items_sold"`
}

// CategoryStat 单个分类的销售统计
type CategoryStat struct {
	Category  string          `json:"category"`
	Revenue   decimal.Decimal `json:"revenue"`
	UnitsSold int             `json:"units_sold"`
}
