// Package metrics 暴露 Prometheus 指标：名册不一致计数与 HTTP 请求统计。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "roster"

// 不一致类型
const (
	KindInstructorWithoutCourse = "instructor_without_course"
	KindStudentWithoutRecord    = "student_without_record"
)

// Metrics 进程内指标集合
// 所有方法对 nil 接收者安全，未启用指标时可直接传 nil
type Metrics struct {
	registry        *prometheus.Registry
	inconsistencies *prometheus.CounterVec
	requests        *prometheus.CounterVec
	latency         *prometheus.HistogramVec
}

// New 创建独立的指标注册表并注册全部指标
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		inconsistencies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inconsistencies_total",
			Help:      "跨存储引用不一致的次数（如教师记录引用已删除的课程）",
		}, []string{"kind"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP 请求总数",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP 请求耗时",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		m.inconsistencies,
		m.requests,
		m.latency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// RecordInconsistency 累加 n 次指定类型的不一致
func (m *Metrics) RecordInconsistency(kind string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.inconsistencies.WithLabelValues(kind).Add(float64(n))
}

// ObserveRequest 记录一次 HTTP 请求；route 使用路由模板而非原始路径
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler 返回 /metrics 的 HTTP 处理器
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Inconsistencies 返回指定类型的计数器（供测试读取）
func (m *Metrics) Inconsistencies(kind string) prometheus.Counter {
	return m.inconsistencies.WithLabelValues(kind)
}
