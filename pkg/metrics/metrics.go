// Package metrics Prometheus指标定义
//
// 所有指标在InitMetrics中注册到默认Registry，由/metrics端点暴露。
// InitMetrics可以重复调用，只会注册一次。
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数
	// 标签：method、path(路由模板，如 /api/books/:id)、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// 业务指标

	// BookMutationsTotal 图书写操作次数
	// 标签：operation(create/update/availability/delete)
	BookMutationsTotal *prometheus.CounterVec

	// CacheRequestsTotal 图书详情缓存访问
	// 标签：result(hit/miss/error/bypass)
	CacheRequestsTotal *prometheus.CounterVec

	// EventsPublishedTotal 目录事件发布
	// 标签：type(book.created等)、result(success/failure)
	EventsPublishedTotal *prometheus.CounterVec

	// 熔断器指标

	// CircuitBreakerState 熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 熔断器请求
	// 标签：name、result(success/failure/rejected)
	CircuitBreakerRequests *prometheus.CounterVec
)

// InitMetrics 注册全部指标
func InitMetrics() {
	once.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP请求总数",
			},
			[]string{"method", "path", "status"},
		)

		HTTPRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP请求耗时（秒）",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"method", "path"},
		)

		HTTPRequestsInProgress = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_progress",
				Help: "正在处理的HTTP请求数",
			},
		)

		BookMutationsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_books_mutations_total",
				Help: "图书写操作次数",
			},
			[]string{"operation"},
		)

		CacheRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_cache_requests_total",
				Help: "图书详情缓存访问次数",
			},
			[]string{"result"},
		)

		EventsPublishedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_events_published_total",
				Help: "目录事件发布次数",
			},
			[]string{"type", "result"},
		)

		CircuitBreakerState = promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "catalog_circuit_breaker_state",
				Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
			},
			[]string{"name"},
		)

		CircuitBreakerRequests = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_circuit_breaker_requests_total",
				Help: "熔断器请求总数",
			},
			[]string{"name", "result"},
		)
	})
}

// IncCounterVec Counter+1，指标未初始化时忽略
func IncCounterVec(vec *prometheus.CounterVec, labels ...string) {
	if vec == nil {
		return
	}
	vec.WithLabelValues(labels...).Inc()
}

// ObserveHistogramVec 记录一次观测值
func ObserveHistogramVec(vec *prometheus.HistogramVec, value float64, labels ...string) {
	if vec == nil {
		return
	}
	vec.WithLabelValues(labels...).Observe(value)
}

// SetGaugeVec 设置Gauge值
func SetGaugeVec(vec *prometheus.GaugeVec, value float64, labels ...string) {
	if vec == nil {
		return
	}
	vec.WithLabelValues(labels...).Set(value)
}

// 便捷函数，调用方不用关心标签顺序

// RecordBookMutation 图书写操作计数
func RecordBookMutation(operation string) {
	IncCounterVec(BookMutationsTotal, operation)
}

// RecordCache 缓存访问计数
func RecordCache(result string) {
	IncCounterVec(CacheRequestsTotal, result)
}

// RecordEvent 事件发布计数
func RecordEvent(eventType string, ok bool) {
	result := "success"
	if !ok {
		result = "failure"
	}
	IncCounterVec(EventsPublishedTotal, eventType, result)
}
