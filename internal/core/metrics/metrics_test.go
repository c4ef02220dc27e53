package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-regform/config"
)

// TestMetrics_Counters 测试计数器递增
func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ObserveRequest("POST /echo", http.StatusOK)
	m.ObserveRequest("POST /echo", http.StatusOK)
	m.PageEvent("echo")
	m.FieldValidation("name", true)
	m.FieldValidation("name", false)
	m.FieldValidation("name", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests().WithLabelValues("POST /echo", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PageEvents().WithLabelValues("echo")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FieldValidations().WithLabelValues("name", ResultValid)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.FieldValidations().WithLabelValues("name", ResultInvalid)))
}

// TestMetrics_NilSafe 测试 nil 接收者
func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveRequest("GET /", 200)
		m.PageEvent("echo")
		m.FieldValidation("age", true)
	})
	assert.Nil(t, m.Registry())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// TestMetrics_Handler 测试指标导出
func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.PageEvent("registration.created")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `regform_page_events_total{event="registration.created"} 1`)
}

// TestModule_Disabled 测试禁用指标时提供 nil
func TestModule_Disabled(t *testing.T) {
	cfg := config.NewConfig()
	cfg.HTTP.EnableMetrics = false

	var m *Metrics
	app := fxtest.New(t, fx.Supply(cfg), Module, fx.Populate(&m))
	app.RequireStart().RequireStop()

	assert.Nil(t, m)
}

// TestModule_Enabled 测试默认启用
func TestModule_Enabled(t *testing.T) {
	var m *Metrics
	app := fxtest.New(t, Module, fx.Populate(&m))
	app.RequireStart().RequireStop()

	assert.NotNil(t, m)
}
