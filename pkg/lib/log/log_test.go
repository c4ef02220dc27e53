package log

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestLazyLogger_ResolvesDefault 测试组件日志器使用之后安装的默认 logger
func TestLazyLogger_ResolvesDefault(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	l := Logger("core/eventbus")
	assert.Equal(t, "core/eventbus", l.Component())

	var buf bytes.Buffer
	SetOutputWithLevel(&buf, LevelDebug)

	l.Debug("派发事件", "name", "echo")
	assert.Contains(t, buf.String(), "component=core/eventbus")
	assert.Contains(t, buf.String(), "name=echo")
}

// TestTruncateID 测试 ID 截取
func TestTruncateID(t *testing.T) {
	assert.Equal(t, "abc", TruncateID("abc", 8))
	assert.Equal(t, "01234567", TruncateID("0123456789", 8))
}
