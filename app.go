package regform

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/fx"

	"github.com/dep2p/go-regform/config"
	"github.com/dep2p/go-regform/internal/registration"
	"github.com/dep2p/go-regform/internal/web"
	"github.com/dep2p/go-regform/pkg/lib/log"
)

var logger = log.Logger("regform")

// App 注册表单应用
//
// App 组装存储、注册服务、页面脚本与 HTTP 服务。
// 生命周期：New → Start → Stop，停止后不可重新启动。
type App struct {
	cfg  *config.Config
	opts *options
	app  *fx.App

	mu    sync.Mutex
	state State

	server  *web.Server
	page    *web.Page
	service *registration.Service
}

// New 创建应用（不启动）
//
// cfg 为 nil 时使用默认配置。
func New(cfg *config.Config, opts ...Option) (*App, error) {
	cfg, o, err := applyOptions(cfg, opts)
	if err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, opts: o}
	app, err := buildFxApp(cfg, o, a)
	if err != nil {
		return nil, err
	}
	a.app = app
	return a, nil
}

// Start 启动应用
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch a.state {
	case StateRunning, StateStarting:
		return ErrAlreadyStarted
	case StateStopping, StateStopped:
		return ErrStopped
	}

	a.state = StateStarting
	logger.Info("正在启动应用", "addr", a.cfg.HTTP.Addr)

	startCtx, cancel := context.WithTimeout(ctx, a.opts.startTimeout)
	defer cancel()

	if err := a.app.Start(startCtx); err != nil {
		// fx 已回滚已启动的模块，应用不可再用
		a.state = StateStopped
		logger.Error("应用启动失败", "error", err)
		return fmt.Errorf("start failed: %w", err)
	}

	a.state = StateRunning
	logger.Info("应用已启动", "addr", a.server.Addr())
	return nil
}

// Stop 停止应用
func (a *App) Stop(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch a.state {
	case StateIdle:
		return ErrNotStarted
	case StateStopped:
		return nil
	}

	a.state = StateStopping
	logger.Info("正在停止应用")

	stopCtx, cancel := context.WithTimeout(ctx, a.opts.stopTimeout)
	defer cancel()

	err := a.app.Stop(stopCtx)
	a.state = StateStopped
	if err != nil {
		logger.Warn("应用停止时出错", "error", err)
		return fmt.Errorf("stop failed: %w", err)
	}

	logger.Info("应用已停止")
	return nil
}

// Done 返回收到停止信号（fx.Shutdowner）时关闭的通道
func (a *App) Done() <-chan fx.ShutdownSignal {
	return a.app.Wait()
}

// State 返回当前状态
func (a *App) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Config 返回生效配置的副本
func (a *App) Config() *config.Config {
	return config.CloneConfig(a.cfg)
}

// Addr 返回 HTTP 监听地址（未启动时为配置地址）
func (a *App) Addr() string {
	return a.server.Addr()
}

// Server 返回 HTTP 服务
func (a *App) Server() *web.Server { return a.server }

// Page 返回页面脚本宿主
func (a *App) Page() *web.Page { return a.page }

// Service 返回注册服务
func (a *App) Service() *registration.Service { return a.service }
