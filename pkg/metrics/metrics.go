// Package metrics 提供 Prometheus helper，包含常用 counter/gauge/histogram 模板
package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 指标集合
type Metrics struct {
	// HTTP 请求计数
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTP 请求耗时
	HTTPRequestDuration prometheus.Histogram

	// 下单成功计数
	OrdersPlacedTotal prometheus.Counter
	// 结算失败计数
	CheckoutFailuresTotal prometheus.Counter
	// 库存不足拒绝计数
	StockRejectionsTotal prometheus.Counter
	// 订单状态变更计数
	StatusUpdatesTotal prometheus.Counter
}

// New 创建指标实例
func New(serviceName string) *Metrics {
	return &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "smartbuy",
			Subsystem: serviceName,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "smartbuy",
			Subsystem: serviceName,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}),
		OrdersPlacedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "smartbuy",
			Subsystem: serviceName,
			Name:      "orders_placed_total",
			Help:      "Successfully committed orders",
		}),
		CheckoutFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "smartbuy",
			Subsystem: serviceName,
			Name:      "checkout_failures_total",
			Help:      "Checkout attempts that failed for any reason",
		}),
		StockRejectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "smartbuy",
			Subsystem: serviceName,
			Name:      "stock_rejections_total",
			Help:      "Checkouts rejected because of insufficient stock",
		}),
		StatusUpdatesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "smartbuy",
			Subsystem: serviceName,
			Name:      "order_status_updates_total",
			Help:      "Order status transitions applied",
		}),
	}
}

// Register 注册所有指标
func (m *Metrics) Register() error {
	collectors := []prometheus.Collector{
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.OrdersPlacedTotal,
		m.CheckoutFailuresTotal,
		m.StockRejectionsTotal,
		m.StatusUpdatesTotal,
	}
	for _, c := range collectors {
		if err := prometheus.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// StartHTTPServer 启动 Prometheus 指标暴露服务
func StartHTTPServer(port int, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.Handler())

	go func() {
		_ = http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
	}()

	return nil
}
