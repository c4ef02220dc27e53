// Package eventbus 实现事件总线
package eventbus

// Option 事件总线选项
type Option func(*settings)

// settings 事件总线设置
type settings struct {
	// target 回调收到的 Event.Target，默认为总线本身
	target any

	// isolateErrors 回调出错时是否继续派发
	isolateErrors bool
}

// WithTarget 设置持有者
//
// 持有者作为 Event.Target 传给所有回调。
func WithTarget(owner any) Option {
	return func(s *settings) {
		s.target = owner
	}
}

// WithIsolatedErrors 回调出错时继续派发
//
// 默认行为是第一个错误即中止本次派发。启用后所有回调都会被调用，
// Fire 返回合并后的错误（go.uber.org/multierr）。
func WithIsolatedErrors() Option {
	return func(s *settings) {
		s.isolateErrors = true
	}
}
