package config

import (
	"fmt"
	"net"
	"time"
)

// HTTPConfig HTTP 服务配置
type HTTPConfig struct {
	// Addr 监听地址
	// 默认值: ":3000"
	Addr string `json:"addr"`

	// ReadHeaderTimeout 读取请求头超时
	ReadHeaderTimeout Duration `json:"read_header_timeout"`

	// ShutdownTimeout 优雅关闭超时
	ShutdownTimeout Duration `json:"shutdown_timeout"`

	// EnableMetrics 是否暴露 /metrics
	EnableMetrics bool `json:"enable_metrics"`
}

// DefaultHTTPConfig 返回默认的 HTTP 配置
func DefaultHTTPConfig() HTTPConfig {
	return HTTPConfig{
		Addr:              ":3000",
		ReadHeaderTimeout: Duration(10 * time.Second),
		ShutdownTimeout:   Duration(5 * time.Second),
		EnableMetrics:     true,
	}
}

// Validate 验证 HTTP 配置
func (c *HTTPConfig) Validate() error {
	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		return fmt.Errorf("http: invalid addr %q: %w", c.Addr, err)
	}
	if c.ReadHeaderTimeout < 0 {
		return fmt.Errorf("http: read_header_timeout must be non-negative")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("http: shutdown_timeout must be positive")
	}
	return nil
}
