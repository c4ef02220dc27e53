// Package eventbus 实现事件总线
package eventbus

import (
	pkgif "github.com/dep2p/go-regform/pkg/interfaces"
)

// ============================================================================
// Subscription 实现
// ============================================================================

// Subscription 单个回调槽的订阅句柄
type Subscription struct {
	stop    func()
	stopped bool
}

var _ pkgif.Subscription = (*Subscription)(nil)

// newSubscription 创建订阅句柄
func newSubscription(stop func()) *Subscription {
	return &Subscription{stop: stop}
}

// Stop 取消订阅
//
// 只移除 On 注册的那一个回调槽，同一回调的其他注册不受影响。
// 可以多次调用，第二次起什么也不做。
func (s *Subscription) Stop() {
	if s.stopped {
		return
	}
	s.stopped = true
	s.stop()
}

// ============================================================================
// MultiSubscription 实现
// ============================================================================

// MultiSubscription 聚合订阅句柄
type MultiSubscription struct {
	subs []pkgif.Subscription
}

var _ pkgif.Subscription = (*MultiSubscription)(nil)

// newMultiSubscription 创建聚合订阅句柄
func newMultiSubscription(subs []pkgif.Subscription) *MultiSubscription {
	return &MultiSubscription{subs: subs}
}

// Stop 按注册顺序取消全部订阅
func (m *MultiSubscription) Stop() {
	for _, sub := range m.subs {
		sub.Stop()
	}
}

// Len 返回聚合的订阅数
func (m *MultiSubscription) Len() int {
	return len(m.subs)
}
