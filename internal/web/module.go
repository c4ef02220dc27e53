package web

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/multierr"

	"github.com/dep2p/go-regform/config"
	"github.com/dep2p/go-regform/internal/core/metrics"
	"github.com/dep2p/go-regform/internal/registration"
	pkgif "github.com/dep2p/go-regform/pkg/interfaces"
)

// ModuleInput 模块输入
type ModuleInput struct {
	fx.In

	EventBus   pkgif.EventBus
	Service    *registration.Service
	Metrics    *metrics.Metrics `optional:"true"`
	UnifiedCfg *config.Config   `optional:"true"`
}

// ModuleOutput 模块输出
type ModuleOutput struct {
	fx.Out

	Page   *Page
	Server *Server
}

// ProvideServer 提供页面与 HTTP 服务
func ProvideServer(in ModuleInput) (ModuleOutput, error) {
	cfg := in.UnifiedCfg
	if cfg == nil {
		cfg = config.NewConfig()
	}

	page := NewPage(in.EventBus, in.Metrics, cfg.Page)
	server, err := NewServer(cfg.HTTP, in.Service, page, in.Metrics)
	if err != nil {
		return ModuleOutput{}, err
	}

	return ModuleOutput{
		Page:   page,
		Server: server,
	}, nil
}

// Module 返回 web fx 模块
//
// 启动顺序：页面脚本先于 HTTP 服务；停止顺序相反。
func Module() fx.Option {
	return fx.Module("web",
		fx.Provide(ProvideServer),
		fx.Invoke(func(lc fx.Lifecycle, page *Page, s *Server) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					if err := page.Start(ctx); err != nil {
						return err
					}
					if err := s.Start(ctx); err != nil {
						return multierr.Append(err, page.Stop(ctx))
					}
					return nil
				},
				OnStop: func(ctx context.Context) error {
					return multierr.Append(s.Stop(ctx), page.Stop(ctx))
				},
			})
		}),
	)
}
