package regform

import (
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/dep2p/go-regform/config"
)

// Option 应用配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	// 预设配置名
	preset string

	// fx 事件日志
	fxLogger *zap.Logger

	// 额外 fx 选项（测试或扩展用）
	fxOptions []fx.Option

	startTimeout time.Duration
	stopTimeout  time.Duration
}

func defaultOptions() *options {
	return &options{
		fxLogger:     zap.NewNop(),
		startTimeout: 15 * time.Second,
		stopTimeout:  15 * time.Second,
	}
}

// WithPreset 在用户配置之上应用预设（development / production）
func WithPreset(name string) Option {
	return func(o *options) error {
		if name == "" {
			return fmt.Errorf("preset name is empty")
		}
		o.preset = name
		return nil
	}
}

// WithFxLogger 设置 fx 事件日志使用的 zap logger
//
// 默认使用 zap.NewNop()，不输出 fx 内部事件。
func WithFxLogger(l *zap.Logger) Option {
	return func(o *options) error {
		if l == nil {
			return fmt.Errorf("fx logger is nil")
		}
		o.fxLogger = l
		return nil
	}
}

// WithFxOptions 追加 fx 选项
func WithFxOptions(opts ...fx.Option) Option {
	return func(o *options) error {
		o.fxOptions = append(o.fxOptions, opts...)
		return nil
	}
}

// WithTimeouts 设置启动与停止超时
func WithTimeouts(start, stop time.Duration) Option {
	return func(o *options) error {
		if start <= 0 || stop <= 0 {
			return fmt.Errorf("timeouts must be positive")
		}
		o.startTimeout = start
		o.stopTimeout = stop
		return nil
	}
}

// applyOptions 应用选项并返回最终配置
//
// 传入的配置不会被修改。
func applyOptions(cfg *config.Config, opts []Option) (*config.Config, *options, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, nil, fmt.Errorf("apply option: %w", err)
		}
	}

	if cfg == nil {
		cfg = config.NewConfig()
	} else {
		cfg = config.CloneConfig(cfg)
	}

	if o.preset != "" {
		if err := config.ApplyPreset(cfg, o.preset); err != nil {
			return nil, nil, err
		}
	}
	return cfg, o, nil
}
