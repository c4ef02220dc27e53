package logger

import (
	"io"
	"log/slog"
)

// Install 安装进程级日志 handler
//
// 所有通过 log.Logger 创建的组件日志器都会使用该 handler，
// 包括 Install 之前创建的组件日志器。
//
// 示例:
//
//	cfg := logger.ConfigFromEnv()
//	logger.Install(cfg, os.Stderr)
func Install(cfg *Config, w io.Writer) *slog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	l := slog.New(newHandler(cfg, w))
	slog.SetDefault(l)
	return l
}

// Discard 返回一个丢弃所有日志的 Logger
//
// 主要用于测试，避免日志输出干扰测试结果。
func Discard() *slog.Logger {
	return slog.New(discardHandler{})
}
