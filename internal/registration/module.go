package registration

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-regform/config"
	pkgif "github.com/dep2p/go-regform/pkg/interfaces"
)

// ModuleParams registration 模块依赖参数
type ModuleParams struct {
	fx.In

	Engine     pkgif.Engine
	UnifiedCfg *config.Config `optional:"true"`
}

// ModuleResult registration 模块提供的结果
type ModuleResult struct {
	fx.Out

	Store   pkgif.RegistrationStore
	Service *Service
}

// Module 返回 registration Fx 模块
func Module() fx.Option {
	return fx.Module("registration",
		fx.Provide(ProvideService),
	)
}

// ProvideService 提供注册记录存储与服务
func ProvideService(p ModuleParams) (ModuleResult, error) {
	cfg := config.DefaultRegistrationConfig()
	if p.UnifiedCfg != nil {
		cfg = p.UnifiedCfg.Registration
	}

	store, err := NewKVStore(p.Engine, cfg.CacheSize)
	if err != nil {
		return ModuleResult{}, err
	}

	return ModuleResult{
		Store:   store,
		Service: NewService(store, WithBcryptCost(cfg.BcryptCost)),
	}, nil
}
