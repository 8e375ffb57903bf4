package application

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	catalogdomain "github.com/wyfcoding/smartbuy/internal/catalog/domain"
	orderdomain "github.com/wyfcoding/smartbuy/internal/order/domain"
	"github.com/wyfcoding/smartbuy/internal/report/domain"
)

// 已从目录中删除的商品在分类统计中的归属
const uncategorized = "Uncategorized"

// ReportService 销售报表应用服务
// 汇总在内存中基于订单明细完成，金额运算全程使用 decimal 保持精确
type ReportService struct {
	orders   orderdomain.OrderRepository
	products catalogdomain.ProductRepository
}

// NewReportService 创建报表应用服务实例
func NewReportService(orders orderdomain.OrderRepository, products catalogdomain.ProductRepository) *ReportService {
	return &ReportService{orders: orders, products: products}
}

// Totals 全量销售汇总
func (s *ReportService) Totals(ctx context.Context) (*domain.TotalsSummary, error) {
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return summarize(orders), nil
}

// RangeSummary 按下单日期统计，start 与 end 均为日历日且两端闭区间
func (s *ReportService) RangeSummary(ctx context.Context, start, end time.Time) (*domain.TotalsSummary, error) {
	startDay := dayStart(start)
	endDay := dayStart(end)
	if startDay.After(endDay) {
		return nil, domain.ErrInvalidDateRange
	}

	orders, err := s.orders.ListCreatedBetween(ctx, startDay, endDay.Add(24*time.Hour))
	if err != nil {
		return nil, err
	}
	return summarize(orders), nil
}

// CategoryBreakdown 按商品当前分类统计销量与营收，营收降序
// 分类取自商品目录的当前值，历史订单不保存分类快照
func (s *ReportService) CategoryBreakdown(ctx context.Context) ([]domain.CategoryStat, error) {
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	idSet := make(map[uint]struct{})
	for _, order := range orders {
		for _, item := range order.Items {
			idSet[item.ProductID] = struct{}{}
		}
	}
	ids := make([]uint, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	categories := make(map[uint]string, len(ids))
	if len(ids) > 0 {
		products, err := s.products.GetByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, p := range products {
			categories[p.ID] = p.Category
		}
	}

	byCategory := make(map[string]*domain.CategoryStat)
	for _, order := range orders {
		for _, item := range order.Items {
			category := categories[item.ProductID]
			if category == "" {
				category = uncategorized
			}
			stat, ok := byCategory[category]
			if !ok {
				stat = &domain.CategoryStat{Category: category, Revenue: decimal.Zero}
				byCategory[category] = stat
			}
			stat.Revenue = stat.Revenue.Add(item.Subtotal)
			stat.UnitsSold += item.Quantity
		}
	}

	stats := make([]domain.CategoryStat, 0, len(byCategory))
	for _, stat := range byCategory {
		stats = append(stats, *stat)
	}
	sort.Slice(stats, func(i, j int) bool {
		if !stats[i].Revenue.Equal(stats[j].Revenue) {
			return stats[i].Revenue.GreaterThan(stats[j].Revenue)
		}
		return stats[i].Category < stats[j].Category
	})
	return stats, nil
}

func summarize(orders []*orderdomain.Order) *domain.TotalsSummary {
	summary := &domain.TotalsSummary{TotalRevenue: decimal.Zero}
	for _, order := range orders {
		summary.OrderCount++
		summary.TotalRevenue = summary.TotalRevenue.Add(order.TotalAmount)
		for _, item := range order.Items {
			summary.TotalItemsSold += item.Quantity
		}
	}
	return summary
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
