// Package circuitbreaker 熔断器
//
// 基于sony/gobreaker，补上配置项和Prometheus状态上报。
// 目前用于保护Redis缓存：Redis连续失败时直接跳过缓存走数据库，
// 避免每个请求都等一次Redis超时。
//
// 状态机：
//
//	CLOSED --连续失败达到阈值--> OPEN --Timeout到期--> HALF_OPEN
//	HALF_OPEN --探测成功--> CLOSED
//	HALF_OPEN --探测失败--> OPEN
package circuitbreaker

import (
	"errors"
	"time"

	"github.com/sony/gobreaker"

	"github.com/xiebiao/bookcatalog/pkg/metrics"
)

// ErrOpen 熔断器打开或半开状态下探测名额已满
var ErrOpen = errors.New("circuit breaker is open")

// Config 熔断器配置
type Config struct {
	MaxRequests         uint32        // 半开状态允许的探测请求数
	Interval            time.Duration // 关闭状态下清零计数的周期，0表示不清零
	Timeout             time.Duration // 打开状态持续多久后进入半开
	ConsecutiveFailures uint32        // 连续失败多少次后打开
}

// DefaultConfig 连续5次失败打开，30秒后半开
func DefaultConfig() Config {
	return Config{
		MaxRequests:         1,
		Interval:            time.Minute,
		Timeout:             30 * time.Second,
		ConsecutiveFailures: 5,
	}
}

// CircuitBreaker 带指标上报的熔断器
type CircuitBreaker struct {
	name string
	cb   *gobreaker.CircuitBreaker
}

// New 创建熔断器
func New(name string, cfg Config) *CircuitBreaker {
	threshold := cfg.ConsecutiveFailures
	if threshold == 0 {
		threshold = 5
	}

	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, _, to gobreaker.State) {
			metrics.SetGaugeVec(metrics.CircuitBreakerState, stateValue(to), name)
		},
	}

	metrics.SetGaugeVec(metrics.CircuitBreakerState, 0, name)
	return &CircuitBreaker{name: name, cb: gobreaker.NewCircuitBreaker(st)}
}

// Name 熔断器名称
func (c *CircuitBreaker) Name() string {
	return c.name
}

// Execute 在熔断器保护下执行fn
// 熔断时不调用fn，直接返回ErrOpen
func (c *CircuitBreaker) Execute(fn func() error) error {
	_, err := c.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.IncCounterVec(metrics.CircuitBreakerRequests, c.name, "rejected")
		return ErrOpen
	case err != nil:
		metrics.IncCounterVec(metrics.CircuitBreakerRequests, c.name, "failure")
		return err
	default:
		metrics.IncCounterVec(metrics.CircuitBreakerRequests, c.name, "success")
		return nil
	}
}

// State 当前状态：closed / open / half-open
func (c *CircuitBreaker) State() string {
	return c.cb.State().String()
}

// stateValue 与Gauge的取值约定保持一致
func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return 0
	}
}
