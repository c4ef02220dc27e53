package eventbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgif "github.com/dep2p/go-regform/pkg/interfaces"
)

// ============================================================================
// 接口契约测试
// ============================================================================

// TestSubscription_ImplementsInterface 验证订阅句柄实现接口
func TestSubscription_ImplementsInterface(t *testing.T) {
	bus := NewBus()

	var _ pkgif.Subscription = bus.On(pkgif.Name("e"), nil)
	var _ pkgif.Subscription = bus.On(pkgif.Bulk{Entries: pkgif.Names("a")}, nil)
}

// ============================================================================
// Subscription 测试
// ============================================================================

// TestSubscription_Stop 测试取消订阅
func TestSubscription_Stop(t *testing.T) {
	bus := NewBus()
	rec := &recorder{}

	sub := bus.On(pkgif.Name("greet"), rec.callback("greet"))
	sub.Stop()

	require.NoError(t, bus.Fire(pkgif.Name("greet")))
	if len(rec.calls) != 0 {
		t.Errorf("callback called %d times after Stop()", len(rec.calls))
	}
}

// TestSubscription_StopTwice 测试重复取消订阅
func TestSubscription_StopTwice(t *testing.T) {
	bus := NewBus()
	rec := &recorder{}
	cb := rec.callback("greet")

	// 同一回调注册两次；第二次 Stop 不能移除另一次注册
	sub := bus.On(pkgif.Name("greet"), cb)
	bus.Observe("greet", cb)

	sub.Stop()
	sub.Stop()

	assert.Equal(t, 1, bus.Count("greet"))
}

// TestSubscription_StopExactSlot 测试只移除句柄对应的回调槽
func TestSubscription_StopExactSlot(t *testing.T) {
	bus := NewBus()
	rec := &recorder{}
	cb := rec.callback("cb")

	bus.Observe("e", cb)
	sub := bus.On(pkgif.Name("e"), cb)
	bus.Observe("e", rec.callback("tail"))

	sub.Stop()

	require.NoError(t, bus.Fire(pkgif.Name("e")))
	assert.Equal(t, []string{"cb", "tail"}, rec.tags())
}

// TestSubscription_StopDuringFire 测试派发中取消后续订阅
func TestSubscription_StopDuringFire(t *testing.T) {
	bus := NewBus()
	rec := &recorder{}

	var later pkgif.Subscription
	bus.On(pkgif.Name("e"), pkgif.NewCallback(func(evt pkgif.Event, args ...any) error {
		rec.calls = append(rec.calls, call{tag: "stopper"})
		later.Stop()
		return nil
	}))
	later = bus.On(pkgif.Name("e"), rec.callback("later"))

	require.NoError(t, bus.Fire(pkgif.Name("e")))
	assert.Equal(t, []string{"stopper"}, rec.tags())
}

// TestSubscription_StopAfterClear 测试清空后再取消订阅
func TestSubscription_StopAfterClear(t *testing.T) {
	bus := NewBus()
	rec := &recorder{}

	sub := bus.On(pkgif.Name("e"), rec.callback("old"))
	bus.Off(nil, nil)
	bus.Observe("e", rec.callback("new"))

	sub.Stop()

	require.NoError(t, bus.Fire(pkgif.Name("e")))
	assert.Equal(t, []string{"new"}, rec.tags())
}

// ============================================================================
// MultiSubscription 测试
// ============================================================================

// TestMultiSubscription_Stop 测试聚合句柄取消全部订阅
func TestMultiSubscription_Stop(t *testing.T) {
	bus := NewBus()
	rec := &recorder{}

	sub := bus.On(pkgif.Bulk{
		Prefix:  pkgif.Prefix("user"),
		Entries: pkgif.Names("created", "deleted"),
	}, rec.callback("user"))
	bus.Observe("user.created", rec.callback("other"))

	multi, ok := sub.(*MultiSubscription)
	require.True(t, ok)
	assert.Equal(t, 2, multi.Len())

	sub.Stop()
	sub.Stop()

	assert.Equal(t, []string{"user.created"}, bus.EventNames())
	assert.Equal(t, 1, bus.Count("user.created"))
}

// TestMultiSubscription_Empty 测试空聚合句柄
func TestMultiSubscription_Empty(t *testing.T) {
	bus := NewBus()

	sub := bus.On(nil, nil)
	assert.NotPanics(t, sub.Stop)

	var d *pkgif.Bulk
	sub = bus.On(d, nil)
	assert.NotPanics(t, sub.Stop)
}
