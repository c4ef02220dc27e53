// Package eventbus 实现事件总线
package eventbus

import (
	"sort"
	"strings"

	"go.uber.org/multierr"

	pkgif "github.com/dep2p/go-regform/pkg/interfaces"
	"github.com/dep2p/go-regform/pkg/lib/log"
)

var logger = log.Logger("core/eventbus")

// ============================================================================
// Bus 实现
// ============================================================================

// Bus 事件总线
//
// 零值不可用，请使用 NewBus 创建。Bus 不是并发安全的。
type Bus struct {
	// callbacks 事件名到回调列表的映射，首次注册时创建
	callbacks map[string]*slotList

	settings settings
}

// slot 回调槽
type slot struct {
	cb      *pkgif.Callback
	removed bool // 墓碑：已移除但尚未压缩
}

// slotList 单个事件的回调列表
type slotList struct {
	slots  []*slot
	firing int // 正在遍历本列表的派发层数
}

// live 返回活跃回调数
func (l *slotList) live() int {
	n := 0
	for _, s := range l.slots {
		if !s.removed {
			n++
		}
	}
	return n
}

// tombstoneAll 将所有回调槽标记为已移除
func (l *slotList) tombstoneAll() {
	for _, s := range l.slots {
		s.removed = true
	}
}

// removeAt 原地删除下标 i 的回调槽，并清空底层数组中残留的尾部元素
func (l *slotList) removeAt(i int) {
	last := len(l.slots) - 1
	copy(l.slots[i:], l.slots[i+1:])
	l.slots[last] = nil
	l.slots = l.slots[:last]
}

// compact 删除全部墓碑，只能在没有派发遍历本列表时调用
func (l *slotList) compact() {
	for i := 0; i < len(l.slots); {
		if l.slots[i].removed {
			l.removeAt(i)
			continue
		}
		i++
	}
}

// NewBus 创建新的事件总线
func NewBus(opts ...Option) *Bus {
	b := &Bus{}
	for _, opt := range opts {
		opt(&b.settings)
	}
	return b
}

// ============================================================================
// EventBus 接口实现
// ============================================================================

// Observe 将回调追加到事件的回调列表末尾
//
// 同一回调可以多次注册，每次占用独立的回调槽。
func (b *Bus) Observe(name string, cb *pkgif.Callback) pkgif.EventBus {
	b.observe(name, cb)
	return b
}

// On 注册回调并返回订阅句柄
//
// Name 形式注册单个回调；Bulk 形式为每一项注册回调，项的值为
// *Callback 时使用该值，否则使用 cb。On 不识别空格分隔的事件名。
func (b *Bus) On(d pkgif.Descriptor, cb *pkgif.Callback) pkgif.Subscription {
	switch d := d.(type) {
	case pkgif.Name:
		name := string(d)
		list, s := b.observe(name, cb)
		return newSubscription(func() { b.drop(name, list, s) })

	case pkgif.Bulk:
		prefix := ResolvePrefix(d.Prefix)
		subs := make([]pkgif.Subscription, 0, len(d.Entries))
		for _, e := range d.Entries {
			handler := cb
			if c, ok := e.Value.(*pkgif.Callback); ok && c != nil {
				handler = c
			}
			subs = append(subs, b.On(pkgif.Name(prefix+e.Name), handler))
		}
		return newMultiSubscription(subs)

	case *pkgif.Bulk:
		if d == nil {
			return newMultiSubscription(nil)
		}
		return b.On(*d, cb)
	}

	return newMultiSubscription(nil)
}

// Fire 触发事件
//
// 回调收到的第一个参数为事件信息，其后为 args。回调返回错误时
// 默认中止本次派发并返回该错误；WithIsolatedErrors 下继续派发并合并所有错误。
// 回调中的 panic 不会被恢复。
func (b *Bus) Fire(d pkgif.Descriptor, args ...any) error {
	if b.callbacks == nil {
		return nil
	}

	switch d := d.(type) {
	case pkgif.Name:
		return b.fire(string(d), args)

	case pkgif.Bulk:
		prefix := ResolvePrefix(d.Prefix)
		var errs error
		for _, e := range d.Entries {
			if err := b.fire(prefix+e.Name, []any{e.Value}); err != nil {
				if !b.settings.isolateErrors {
					return err
				}
				errs = multierr.Append(errs, err)
			}
		}
		return errs

	case *pkgif.Bulk:
		if d == nil {
			return nil
		}
		return b.Fire(*d, args...)
	}

	return nil
}

// Trigger 是 Fire 的别名
func (b *Bus) Trigger(d pkgif.Descriptor, args ...any) error {
	return b.Fire(d, args...)
}

// StopObserving 移除回调
//
//   - d 为 nil 或空事件名：清空全部事件
//   - 事件名包含空格：拆分为多个事件，逐个清空（不转发 cb）
//   - Bulk：逐项处理，项的值为 *Callback 时移除该回调，值为 nil、nil 回调
//     或 "" 时清空该事件，其他值不匹配任何回调槽，什么也不做
//   - cb 为 nil：清空该事件的全部回调
//   - 否则：移除第一个匹配的回调槽，没有匹配时什么也不做
func (b *Bus) StopObserving(d pkgif.Descriptor, cb *pkgif.Callback) pkgif.EventBus {
	switch d := d.(type) {
	case nil:
		b.clear()

	case pkgif.Name:
		name := string(d)
		if strings.Contains(name, " ") {
			return b.StopObserving(pkgif.Bulk{Entries: pkgif.Names(splitNames(name)...)}, nil)
		}
		if name == "" {
			b.clear()
			return b
		}
		b.remove(name, cb)

	case pkgif.Bulk:
		prefix := ResolvePrefix(d.Prefix)
		for _, e := range d.Entries {
			name := pkgif.Name(prefix + e.Name)
			switch v := e.Value.(type) {
			case nil:
				b.StopObserving(name, nil)
			case string:
				if v == "" {
					b.StopObserving(name, nil)
				}
			case *pkgif.Callback:
				// nil 指针同样清空该事件
				b.StopObserving(name, v)
			}
		}

	case *pkgif.Bulk:
		if d == nil {
			b.clear()
			return b
		}
		return b.StopObserving(*d, cb)
	}

	return b
}

// Off 是 StopObserving 的别名
func (b *Bus) Off(d pkgif.Descriptor, cb *pkgif.Callback) pkgif.EventBus {
	return b.StopObserving(d, cb)
}

// EventNames 返回拥有活跃回调的事件名
func (b *Bus) EventNames() []string {
	names := make([]string, 0, len(b.callbacks))
	for name, list := range b.callbacks {
		if list.live() > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Count 返回事件的活跃回调数
func (b *Bus) Count(name string) int {
	list, ok := b.callbacks[name]
	if !ok {
		return 0
	}
	return list.live()
}

// ============================================================================
// 内部方法
// ============================================================================

// observe 追加回调槽并返回所在列表与该槽
func (b *Bus) observe(name string, cb *pkgif.Callback) (*slotList, *slot) {
	if b.callbacks == nil {
		b.callbacks = make(map[string]*slotList)
	}
	list, ok := b.callbacks[name]
	if !ok {
		list = &slotList{}
		b.callbacks[name] = list
	}

	s := &slot{cb: cb}
	list.slots = append(list.slots, s)
	return list, s
}

// fire 派发单个事件
//
// 边界 l 在派发开始时确定，派发中新注册的回调不会被调用。
// 只有最外层派发压缩墓碑，嵌套派发仅跳过墓碑；最外层派发结束时
// 再压缩一次，清除游标已经越过的墓碑。
func (b *Bus) fire(name string, args []any) error {
	list, ok := b.callbacks[name]
	if !ok {
		return nil
	}

	evt := pkgif.Event{
		Type:   name,
		Name:   name,
		Target: b.target(),
	}

	list.firing++
	defer func() {
		list.firing--
		if list.firing == 0 {
			// 游标已越过的墓碑
			list.compact()
		}
	}()

	var errs error
	for i, l := 0, len(list.slots); i < l; i++ {
		s := list.slots[i]
		if s.removed {
			if list.firing == 1 {
				// 压缩后停留在同一下标，边界同步递减
				list.removeAt(i)
				i--
				l--
			}
			continue
		}

		if err := s.cb.Invoke(evt, args...); err != nil {
			if !b.settings.isolateErrors {
				logger.Debug("回调失败，中止派发", "event", name, "index", i, "error", err)
				return err
			}
			errs = multierr.Append(errs, err)
		}
	}

	return errs
}

// remove 移除事件的回调
func (b *Bus) remove(name string, cb *pkgif.Callback) {
	if b.callbacks == nil {
		return
	}

	list, ok := b.callbacks[name]
	if !ok {
		return
	}

	if cb == nil {
		// 正在进行的派发仍持有旧列表，标记墓碑后它不会再调用其中的回调
		list.tombstoneAll()
		delete(b.callbacks, name)
		return
	}

	for _, s := range list.slots {
		if !s.removed && s.cb == cb {
			b.drop(name, list, s)
			return
		}
	}
}

// drop 将回调槽标记为墓碑
//
// 没有派发遍历该列表时立即压缩；列表已空且仍登记在 name 下时一并删除。
func (b *Bus) drop(name string, list *slotList, s *slot) {
	s.removed = true
	if list.firing > 0 {
		return
	}

	list.compact()
	if len(list.slots) == 0 && b.callbacks[name] == list {
		delete(b.callbacks, name)
	}
}

// clear 清空全部事件
func (b *Bus) clear() {
	for _, list := range b.callbacks {
		list.tombstoneAll()
	}
	b.callbacks = make(map[string]*slotList)
	logger.Debug("已清空全部回调")
}

// target 返回回调的调用上下文
func (b *Bus) target() any {
	if b.settings.target != nil {
		return b.settings.target
	}
	return b
}
