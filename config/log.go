package config

import (
	"fmt"
	"strings"
)

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别规格，格式同 REGFORM_LOG_LEVEL
	// 例如 "info" 或 "core/eventbus=debug,warn"
	Level string `json:"level"`

	// Format 输出格式: text | json
	Format string `json:"format"`

	// AddSource 是否输出源码位置
	AddSource bool `json:"add_source"`
}

// DefaultLogConfig 返回默认的日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:  "info",
		Format: "text",
	}
}

// Validate 验证日志配置
func (c *LogConfig) Validate() error {
	switch strings.ToLower(c.Format) {
	case "", "text", "json":
		return nil
	default:
		return fmt.Errorf("log: unknown format %q", c.Format)
	}
}
