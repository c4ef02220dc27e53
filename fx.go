package regform

import (
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/dep2p/go-regform/config"
	"github.com/dep2p/go-regform/internal/core/eventbus"
	"github.com/dep2p/go-regform/internal/core/metrics"
	"github.com/dep2p/go-regform/internal/core/storage"
	"github.com/dep2p/go-regform/internal/registration"
	"github.com/dep2p/go-regform/internal/web"
	"github.com/dep2p/go-regform/pkg/lib/log"
)

var fxLogger = log.Logger("regform/fx")

// buildFxApp 构建 Fx 应用
//
// 加载顺序（按依赖）：
//  1. Core: EventBus → Storage → Metrics（按配置）
//  2. Registration: Store → Service
//  3. Web: Page → Server
func buildFxApp(cfg *config.Config, o *options, a *App) (*fx.App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	modules := []fx.Option{
		// 配置注入
		fx.Supply(cfg),

		eventbus.Module(),
		storage.Module(),
	}

	if cfg.HTTP.EnableMetrics {
		modules = append(modules, metrics.Module)
	}

	modules = append(modules,
		registration.Module(),
		web.Module(),
	)

	modules = append(modules, o.fxOptions...)

	modules = append(modules,
		fx.Populate(&a.server, &a.page, &a.service),
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: o.fxLogger}
		}),
	)

	fxLogger.Debug("Fx 模块已组装", "modules", len(modules), "metrics", cfg.HTTP.EnableMetrics)

	app := fx.New(modules...)
	if err := app.Err(); err != nil {
		return nil, fmt.Errorf("build fx app: %w", err)
	}
	return app, nil
}
