package main

import (
	"os"
	"strings"

	"github.com/dep2p/go-regform/config"
	"github.com/dep2p/go-regform/internal/util/logger"
)

// ============================================================================
//                              配置加载（CLI 专用）
// ============================================================================

// 环境变量名（均使用 REGFORM_ 前缀）
const (
	EnvAddr      = "REGFORM_ADDR"
	EnvDataDir   = "REGFORM_DATA_DIR"
	EnvInMemory  = "REGFORM_IN_MEMORY"
	EnvMetrics   = "REGFORM_METRICS"
	EnvPreset    = "REGFORM_PRESET"
	EnvLogLevel  = logger.EnvLogLevel
	EnvLogFormat = logger.EnvLogFormat
)

// loadConfig 加载配置文件，路径为空时返回默认配置
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.NewConfig(), nil
	}
	return config.LoadFile(path)
}

// applyEnvOverrides 应用环境变量覆盖配置
//
// 环境变量优先级高于配置文件，但低于命令行参数。
func applyEnvOverrides(cfg *config.Config) error {
	if v := os.Getenv(EnvPreset); v != "" {
		if err := config.ApplyPreset(cfg, v); err != nil {
			return err
		}
	}
	if v := os.Getenv(EnvAddr); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv(EnvInMemory); v != "" {
		cfg.Storage.InMemory = parseBool(v)
	}
	if v := os.Getenv(EnvMetrics); v != "" {
		cfg.HTTP.EnableMetrics = parseBool(v)
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Log.Format = v
	}
	return nil
}

// applyFlagOverrides 应用命令行参数（空值表示未设置）
func applyFlagOverrides(cfg *config.Config, addr, dataDir, logLevel string) {
	if addr != "" {
		cfg.HTTP.Addr = addr
	}
	if dataDir != "" {
		cfg.Storage.DataDir = dataDir
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
}

// loggerConfig 将日志配置转换为进程 handler 配置
//
// Level 支持 "component=level,...,default" 格式。
func loggerConfig(c config.LogConfig) *logger.Config {
	lc := logger.DefaultConfig()
	lc.ApplyLevels(c.Level)
	lc.Format = logger.ParseFormat(c.Format)
	lc.AddSource = c.AddSource
	return lc
}

// parseBool 解析布尔值字符串
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}
