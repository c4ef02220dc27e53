// Package web 提供注册表单的 HTTP 服务
//
// 端点：
//   - GET  /registration            - 注册表单
//   - POST /registration            - 创建注册（成功 303，失败 422）
//   - GET  /registration/{id}       - 注册详情
//   - GET  /registration/js1 ...    - 脚本示例页（js1..js3, web1..web3）
//   - POST /registration/validate   - 单字段校验 (JSON)
//   - POST /echo                    - 在页面总线上触发 echo
//   - GET  /events                  - 页面事件流 (WebSocket)
//   - GET  /health                  - 健康检查
//   - GET  /metrics                 - Prometheus 指标
//
// 页面脚本相关的工作都交给 Page 的脚本循环执行，
// HTTP 处理器 goroutine 从不直接访问事件总线。
package web

import (
	"bufio"
	"context"
	"embed"
	"errors"
	"html/template"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/klauspost/compress/gzhttp"

	"github.com/dep2p/go-regform/config"
	"github.com/dep2p/go-regform/internal/core/metrics"
	"github.com/dep2p/go-regform/internal/registration"
	"github.com/dep2p/go-regform/pkg/lib/log"
)

var logger = log.Logger("web")

//go:embed templates/*.html
var templateFS embed.FS

// ScriptPages 静态脚本示例页
var ScriptPages = []string{"js1", "js2", "js3", "web1", "web2", "web3"}

// Server 注册表单 HTTP 服务
type Server struct {
	cfg     config.HTTPConfig
	svc     *registration.Service
	page    *Page
	metrics *metrics.Metrics
	tmpl    *template.Template
	mux     *http.ServeMux

	// HTTP 服务器
	server   *http.Server
	listener net.Listener

	// 状态
	running bool
	mu      sync.Mutex
}

// NewServer 创建 HTTP 服务
//
// m 为 nil 时不注册 /metrics。
func NewServer(cfg config.HTTPConfig, svc *registration.Service, page *Page, m *metrics.Metrics) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:     cfg,
		svc:     svc,
		page:    page,
		metrics: m,
		tmpl:    tmpl,
		mux:     http.NewServeMux(),
	}
	s.routes()
	return s, nil
}

// routes 注册路由
func (s *Server) routes() {
	s.handle("GET /registration", s.handleIndex)
	s.handle("POST /registration", s.handleCreate)
	s.handle("GET /registration/{id}", s.handleShow)
	s.handle("POST /registration/validate", s.handleValidate)
	for _, name := range ScriptPages {
		s.handle("GET /registration/"+name, s.handleScriptPage(name))
	}
	s.handle("POST /echo", s.handleEcho)
	s.handle("GET /health", s.handleHealth)

	// WebSocket 需要劫持连接，不经过压缩
	s.mux.Handle("GET /events", s.instrument("GET /events", s.handleEvents))

	if s.metrics != nil && s.cfg.EnableMetrics {
		s.mux.Handle("GET /metrics", s.metrics.Handler())
	}
}

// handle 注册带请求计数与 gzip 压缩的处理器
func (s *Server) handle(pattern string, h http.HandlerFunc) {
	s.mux.Handle(pattern, gzhttp.GzipHandler(s.instrument(pattern, h)))
}

// Handler 返回路由处理器
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start 启动服务
func (s *Server) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	s.listener = listener

	s.server = &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout.Duration(),
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP 服务异常退出", "error", err)
		}
	}()

	s.running = true
	logger.Info("HTTP 服务已启动", "addr", listener.Addr().String())
	return nil
}

// Stop 停止服务
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	timeout := s.cfg.ShutdownTimeout.Duration()
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		logger.Error("关闭 HTTP 服务失败", "error", err)
		return err
	}

	s.running = false
	logger.Info("HTTP 服务已停止")
	return nil
}

// Addr 返回实际监听地址
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.cfg.Addr
}

// ============================================================================
//                              中间件
// ============================================================================

// statusRecorder 记录响应状态码
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.code == 0 {
		r.code = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.code == 0 {
		r.code = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// Hijack 供 WebSocket 升级使用
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("web: response writer does not support hijacking")
	}
	if r.code == 0 {
		r.code = http.StatusSwitchingProtocols
	}
	return h.Hijack()
}

// Unwrap 返回底层 ResponseWriter（http.ResponseController 使用）
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// instrument 按路由模式统计请求
func (s *Server) instrument(pattern string, h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w}
		h(rec, r)
		if rec.code == 0 {
			rec.code = http.StatusOK
		}
		s.metrics.ObserveRequest(pattern, rec.code)
		logger.Debug("请求完成", "route", pattern, "code", rec.code)
	})
}
