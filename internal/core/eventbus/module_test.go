package eventbus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	pkgif "github.com/dep2p/go-regform/pkg/interfaces"
)

// ============================================================================
// Fx 模块测试
// ============================================================================

// TestModule_Load 测试 Fx 模块加载
func TestModule_Load(t *testing.T) {
	var loadedBus pkgif.EventBus

	app := fx.New(
		Module(),
		fx.NopLogger,
		fx.Invoke(func(bus pkgif.EventBus) {
			loadedBus = bus
		}),
	)

	ctx := context.Background()

	if err := app.Start(ctx); err != nil {
		t.Fatalf("app.Start() failed: %v", err)
	}

	if loadedBus == nil {
		t.Error("EventBus not injected by Fx")
	}

	if err := app.Stop(ctx); err != nil {
		t.Errorf("app.Stop() failed: %v", err)
	}
}

// TestModule_Provides 测试模块提供的类型
func TestModule_Provides(t *testing.T) {
	result := ProvideEventBus()

	if result.EventBus == nil {
		t.Error("ProvideEventBus() did not provide EventBus")
	}
}

// TestModule_StopClearsCallbacks 测试应用停止时清空回调
func TestModule_StopClearsCallbacks(t *testing.T) {
	var bus pkgif.EventBus

	app := fxtest.New(t,
		Module(),
		fx.Populate(&bus),
	)
	app.RequireStart()

	bus.Observe("e", pkgif.NewCallback(func(pkgif.Event, ...any) error { return nil }))
	require.Equal(t, 1, bus.Count("e"))

	app.RequireStop()
	assert.Empty(t, bus.EventNames())
}
