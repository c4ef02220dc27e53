package web

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/multierr"

	"github.com/dep2p/go-regform/config"
	"github.com/dep2p/go-regform/internal/core/metrics"
	"github.com/dep2p/go-regform/internal/registration"
	pkgif "github.com/dep2p/go-regform/pkg/interfaces"
)

// 页面事件名
const (
	EventEcho = "echo"

	// 注册结果事件，前缀 registration
	EventCreated  = "created"
	EventRejected = "rejected"
)

// 事件命名空间
var (
	RegistrationPrefix = pkgif.Prefix("registration")
	FieldPrefix        = pkgif.Prefix("registration", "field")
)

// maxEchoes 保留的最近 echo 消息数
const maxEchoes = 16

// Page 页面脚本的持有者
//
// Page 独占一条事件总线，并安装以下脚本：
//   - echo 日志（可配置）与 echo 记录
//   - 注册结果计数（registration.created / registration.rejected）
//   - 字段校验计数（registration.field.<field>）
//
// 总线与脚本状态只在脚本循环 goroutine 上访问。
type Page struct {
	bus     pkgif.EventBus
	loop    *scriptLoop
	metrics *metrics.Metrics
	cfg     config.PageConfig

	// 以下字段只在脚本循环上读写
	subs    []pkgif.Subscription
	echoLog *pkgif.Callback
	echoes  []string
	feeds   map[*feed]struct{}
}

// NewPage 创建页面
func NewPage(bus pkgif.EventBus, m *metrics.Metrics, cfg config.PageConfig) *Page {
	return &Page{
		bus:     bus,
		loop:    newScriptLoop(cfg.QueueSize),
		metrics: m,
		cfg:     cfg,
	}
}

// Start 启动脚本循环并安装脚本
func (p *Page) Start(ctx context.Context) error {
	p.loop.start()
	return p.loop.do(ctx, func() error {
		p.install()
		return nil
	})
}

// Stop 卸载脚本并停止脚本循环
func (p *Page) Stop(ctx context.Context) error {
	err := p.loop.do(ctx, func() error {
		p.uninstall()
		return nil
	})
	if errors.Is(err, ErrLoopStopped) {
		err = nil
	}
	return multierr.Append(err, p.loop.stop(ctx))
}

// Do 在脚本循环上执行 fn
func (p *Page) Do(ctx context.Context, fn func(bus pkgif.EventBus) error) error {
	return p.loop.do(ctx, func() error {
		return fn(p.bus)
	})
}

// Echo 触发 echo 事件，返回派发时的观察者数量
func (p *Page) Echo(ctx context.Context, message string) (int, error) {
	var observers int
	err := p.Do(ctx, func(bus pkgif.EventBus) error {
		observers = bus.Count(EventEcho)
		return bus.Fire(pkgif.Name(EventEcho), message)
	})
	return observers, err
}

// Echoes 返回最近的 echo 消息，旧的在前
func (p *Page) Echoes(ctx context.Context) ([]string, error) {
	var out []string
	err := p.loop.do(ctx, func() error {
		out = append([]string(nil), p.echoes...)
		return nil
	})
	return out, err
}

// RegistrationCreated 通知页面注册成功
func (p *Page) RegistrationCreated(ctx context.Context, rec *pkgif.Registration) error {
	return p.Do(ctx, func(bus pkgif.EventBus) error {
		return bus.Fire(pkgif.Bulk{
			Prefix:  RegistrationPrefix,
			Entries: []pkgif.Entry{{Name: EventCreated, Value: rec}},
		})
	})
}

// RegistrationRejected 通知页面注册被拒绝
func (p *Page) RegistrationRejected(ctx context.Context, errs registration.Errors) error {
	return p.Do(ctx, func(bus pkgif.EventBus) error {
		return bus.Fire(pkgif.Bulk{
			Prefix:  RegistrationPrefix,
			Entries: []pkgif.Entry{{Name: EventRejected, Value: errs}},
		})
	})
}

// FieldsValidated 按提交顺序为每个字段触发 registration.field.<field>
//
// 每个事件的唯一参数是该字段是否通过校验。
func (p *Page) FieldsValidated(ctx context.Context, res registration.ValidationResult) error {
	entries := make([]pkgif.Entry, 0, len(res.Submitted))
	for _, field := range res.Submitted {
		entries = append(entries, pkgif.Entry{Name: field, Value: len(res.Fields[field]) == 0})
	}

	return p.Do(ctx, func(bus pkgif.EventBus) error {
		return bus.Fire(pkgif.Bulk{Prefix: FieldPrefix, Entries: entries})
	})
}

// EventNames 返回当前有观察者的事件名
func (p *Page) EventNames(ctx context.Context) ([]string, error) {
	var names []string
	err := p.Do(ctx, func(bus pkgif.EventBus) error {
		names = bus.EventNames()
		return nil
	})
	return names, err
}

// ============================================================================
// 脚本
// ============================================================================

// install 安装页面脚本，只在脚本循环上调用
func (p *Page) install() {
	if p.cfg.EchoLog {
		p.echoLog = pkgif.NewCallback(func(evt pkgif.Event, args ...any) error {
			logger.Info("收到 echo 事件", "event", evt.Name, "args", args)
			return nil
		})
		p.bus.Observe(EventEcho, p.echoLog)
	}

	p.subs = append(p.subs,
		p.bus.On(pkgif.Name(EventEcho), pkgif.NewCallback(p.recordEcho)),

		p.bus.On(pkgif.Bulk{
			Prefix:  RegistrationPrefix,
			Entries: pkgif.Names(EventCreated, EventRejected),
		}, pkgif.NewCallback(func(evt pkgif.Event, _ ...any) error {
			p.metrics.PageEvent(evt.Name)
			return nil
		})),

		p.bus.On(pkgif.Bulk{
			Prefix:  FieldPrefix,
			Entries: pkgif.Mapping(p.fieldCounters()),
		}, nil),
	)
}

// uninstall 卸载脚本安装的订阅，并关闭所有事件流
func (p *Page) uninstall() {
	for f := range p.feeds {
		p.closeFeed(f)
	}
	for _, sub := range p.subs {
		sub.Stop()
	}
	p.subs = nil
	if p.echoLog != nil {
		// 日志脚本通过 Observe 注册，按引用移除
		p.bus.StopObserving(pkgif.Name(EventEcho), p.echoLog)
		p.echoLog = nil
	}
}

func (p *Page) recordEcho(evt pkgif.Event, args ...any) error {
	p.metrics.PageEvent(evt.Name)

	msg := ""
	if len(args) > 0 {
		msg = fmt.Sprint(args[0])
	}
	p.echoes = append(p.echoes, msg)
	if len(p.echoes) > maxEchoes {
		p.echoes = p.echoes[len(p.echoes)-maxEchoes:]
	}
	return nil
}

// fieldCounters 为每个允许字段创建独立的计数回调
func (p *Page) fieldCounters() map[string]*pkgif.Callback {
	counters := make(map[string]*pkgif.Callback, len(registration.PermittedFields))
	for _, field := range registration.PermittedFields {
		field := field
		counters[field] = pkgif.NewCallback(func(_ pkgif.Event, args ...any) error {
			valid, _ := firstBool(args)
			p.metrics.FieldValidation(field, valid)
			return nil
		})
	}
	return counters
}

func firstBool(args []any) (bool, bool) {
	if len(args) == 0 {
		return false, false
	}
	b, ok := args[0].(bool)
	return b, ok
}

// ============================================================================
// 事件流
// ============================================================================

// PageEvent 推送给事件流订阅者的页面事件
type PageEvent struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// feed 单个事件流订阅者，只在脚本循环上访问
type feed struct {
	ch      chan PageEvent
	subs    []pkgif.Subscription
	dropped int
}

// Subscribe 订阅 echo 与注册结果事件
//
// 返回的通道在 cancel 或 Page 停止时关闭。订阅者读取过慢、
// 缓冲已满时事件被丢弃。cancel 可重复调用。
func (p *Page) Subscribe(ctx context.Context) (<-chan PageEvent, func(), error) {
	f := &feed{ch: make(chan PageEvent, p.cfg.FeedBuffer)}

	err := p.loop.do(ctx, func() error {
		cb := pkgif.NewCallback(func(evt pkgif.Event, args ...any) error {
			select {
			case f.ch <- PageEvent{Event: evt.Name, Data: eventData(args)}:
			default:
				f.dropped++
				logger.Debug("事件流缓冲已满，丢弃事件", "event", evt.Name, "dropped", f.dropped)
			}
			return nil
		})
		f.subs = append(f.subs,
			p.bus.On(pkgif.Name(EventEcho), cb),
			p.bus.On(pkgif.Bulk{
				Prefix:  RegistrationPrefix,
				Entries: pkgif.Names(EventCreated, EventRejected),
			}, cb),
		)

		if p.feeds == nil {
			p.feeds = make(map[*feed]struct{})
		}
		p.feeds[f] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			// 循环已停止时 uninstall 已关闭该事件流
			_ = p.loop.do(context.Background(), func() error {
				p.closeFeed(f)
				return nil
			})
		})
	}
	return f.ch, cancel, nil
}

// closeFeed 取消事件流的订阅并关闭通道
func (p *Page) closeFeed(f *feed) {
	if _, ok := p.feeds[f]; !ok {
		return
	}
	for _, sub := range f.subs {
		sub.Stop()
	}
	close(f.ch)
	delete(p.feeds, f)
}

// eventData 将事件参数转换为可推送的数据，不外泄注册记录的敏感字段
func eventData(args []any) any {
	if len(args) == 0 {
		return nil
	}
	switch v := args[0].(type) {
	case *pkgif.Registration:
		return map[string]string{"id": v.ID}
	case string:
		if v == "" {
			return nil
		}
		return v
	default:
		return v
	}
}
