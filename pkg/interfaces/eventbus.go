// Package interfaces 定义 regform 公共接口
//
// 本文件定义 EventBus 接口，提供命名空间化的事件观察/触发功能。
package interfaces

import (
	"errors"
	"sort"
)

// ErrNotCallable 回调不可调用
//
// 注册 nil 回调总是成功，错误在派发时才暴露。
var ErrNotCallable = errors.New("eventbus: callback is not callable")

// ============================================================================
// EventBus 接口
// ============================================================================

// EventBus 定义事件总线接口
//
// EventBus 是同步、可重入的观察者注册表：
//   - 回调按注册顺序调用
//   - 派发过程中移除的回调不会再被调用
//   - 支持点号前缀命名空间和批量（取消）注册
//
// 实现不是并发安全的，持有者负责串行化访问。
type EventBus interface {
	// Observe 将回调追加到事件的回调列表末尾
	Observe(name string, cb *Callback) EventBus

	// On 注册回调并返回可取消的订阅句柄
	On(d Descriptor, cb *Callback) Subscription

	// Fire 触发事件，附加参数原样传递给回调
	Fire(d Descriptor, args ...any) error

	// Trigger 是 Fire 的别名
	Trigger(d Descriptor, args ...any) error

	// StopObserving 移除回调
	//
	// d 为 nil 时清空全部事件；cb 为 nil 时清空该事件的全部回调。
	StopObserving(d Descriptor, cb *Callback) EventBus

	// Off 是 StopObserving 的别名
	Off(d Descriptor, cb *Callback) EventBus

	// EventNames 返回拥有活跃回调的事件名（已排序）
	EventNames() []string

	// Count 返回事件的活跃回调数
	Count(name string) int
}

// Subscription 定义订阅句柄接口
type Subscription interface {
	// Stop 取消订阅，可多次调用
	Stop()
}

// ============================================================================
// 事件与回调
// ============================================================================

// Event 派发时传给回调的事件信息
type Event struct {
	// Type 事件类型（完整事件名）
	Type string

	// Name 事件名，与 Type 相同
	Name string

	// Target 持有事件总线的对象
	Target any
}

// CallbackFunc 回调函数类型
type CallbackFunc func(evt Event, args ...any) error

// Callback 回调引用
//
// Go 的函数值不可比较，StopObserving 需要按引用匹配回调，
// 因此回调总是以 *Callback 的形式注册和移除。
type Callback struct {
	fn CallbackFunc
}

// NewCallback 包装回调函数
func NewCallback(fn CallbackFunc) *Callback {
	return &Callback{fn: fn}
}

// Invoke 调用回调
func (c *Callback) Invoke(evt Event, args ...any) error {
	if c == nil || c.fn == nil {
		return ErrNotCallable
	}
	return c.fn(evt, args...)
}

// ============================================================================
// 事件描述符
// ============================================================================

// Descriptor 事件描述符
//
// 只有 Name 和 Bulk 两种实现。
type Descriptor interface {
	descriptor()
}

// Name 单个事件名
type Name string

func (Name) descriptor() {}

// Entry 批量描述符中的一项
//
// Value 的含义取决于操作：
//   - Fire: 作为唯一的附加参数
//   - On / StopObserving: 若为 *Callback，则作为该项的回调
type Entry struct {
	Name  string
	Value any
}

// Bulk 批量事件描述符
type Bulk struct {
	// Prefix 命名空间前缀，各段以 "." 连接
	Prefix []string

	// Entries 有序事件项
	Entries []Entry
}

func (Bulk) descriptor() {}

// Names 由事件名列表构造事件项，值均为空字符串
func Names(names ...string) []Entry {
	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		entries = append(entries, Entry{Name: name, Value: ""})
	}
	return entries
}

// Mapping 由映射构造事件项
//
// Go 的 map 无序，事件项按键名排序以保证派发顺序确定。
func Mapping[V any](m map[string]V) []Entry {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]Entry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, Entry{Name: k, Value: m[k]})
	}
	return entries
}

// Prefix 构造前缀段列表
func Prefix(parts ...string) []string {
	return parts
}
