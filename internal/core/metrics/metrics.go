package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace 指标名前缀
const Namespace = "regform"

// 校验结果标签值
const (
	ResultValid   = "valid"
	ResultInvalid = "invalid"
)

// Metrics 指标集合
type Metrics struct {
	registry *prometheus.Registry

	httpRequests     *prometheus.CounterVec
	pageEvents       *prometheus.CounterVec
	fieldValidations *prometheus.CounterVec
}

// New 创建指标集合并注册到新的私有注册表
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests handled, by route pattern and status code.",
		}, []string{"route", "code"}),
		pageEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "page_events_total",
			Help:      "Events observed by page scripts.",
		}, []string{"event"}),
		fieldValidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "field_validations_total",
			Help:      "Per-field validation outcomes.",
		}, []string{"field", "result"}),
	}

	m.registry.MustRegister(
		m.httpRequests,
		m.pageEvents,
		m.fieldValidations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registry 返回私有注册表
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler 返回 /metrics 处理器
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest 记录一次 HTTP 请求
func (m *Metrics) ObserveRequest(route string, code int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// PageEvent 记录一次页面事件
func (m *Metrics) PageEvent(event string) {
	if m == nil {
		return
	}
	m.pageEvents.WithLabelValues(event).Inc()
}

// FieldValidation 记录一次字段校验结果
func (m *Metrics) FieldValidation(field string, valid bool) {
	if m == nil {
		return
	}
	result := ResultInvalid
	if valid {
		result = ResultValid
	}
	m.fieldValidations.WithLabelValues(field, result).Inc()
}

// HTTPRequests 返回请求计数器，供测试读取
func (m *Metrics) HTTPRequests() *prometheus.CounterVec { return m.httpRequests }

// PageEvents 返回页面事件计数器，供测试读取
func (m *Metrics) PageEvents() *prometheus.CounterVec { return m.pageEvents }

// FieldValidations 返回字段校验计数器，供测试读取
func (m *Metrics) FieldValidations() *prometheus.CounterVec { return m.fieldValidations }
