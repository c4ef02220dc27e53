package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-regform/config"
	pkgif "github.com/dep2p/go-regform/pkg/interfaces"
)

// TestConfigFromUnified 测试从统一配置转换
func TestConfigFromUnified(t *testing.T) {
	assert.Equal(t, DefaultConfig(), ConfigFromUnified(nil))

	cfg := config.NewConfig()
	cfg.Storage.DataDir = "/var/lib/regform"
	cfg.Storage.SyncWrites = true
	cfg.Storage.GCInterval = config.Duration(5 * time.Minute)

	got := ConfigFromUnified(cfg)
	assert.Equal(t, cfg.Storage.DBPath(), got.Path)
	assert.True(t, got.SyncWrites)
	assert.Equal(t, 5*time.Minute, got.GCInterval)
}

// TestConfig_Validate 测试配置验证与修正
func TestConfig_Validate(t *testing.T) {
	cfg := Config{}
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = Config{InMemory: true, GCInterval: time.Second}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, time.Minute, cfg.GCInterval)
	assert.Equal(t, 0.5, cfg.GCDiscardRatio)
}

// TestModule_Lifecycle 测试 Fx 模块生命周期
func TestModule_Lifecycle(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Storage.DataDir = t.TempDir()

	var eng pkgif.Engine
	var internal InternalEngine

	app := fxtest.New(t,
		fx.Supply(cfg),
		Module(),
		fx.Populate(&eng, &internal),
	)
	app.RequireStart()

	require.NoError(t, eng.Put([]byte("k"), []byte("v")))
	assert.Same(t, internal, eng)

	store := NewKVStore(eng, []byte("r/"))
	ok, err := store.Has([]byte("missing"))
	require.NoError(t, err)
	assert.False(t, ok)

	app.RequireStop()

	_, err = eng.Get([]byte("k"))
	assert.ErrorIs(t, err, ErrClosed)
}
