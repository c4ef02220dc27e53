package config

import "fmt"

// PageConfig 页面脚本运行时配置
type PageConfig struct {
	// QueueSize 脚本任务队列长度
	QueueSize int `json:"queue_size"`

	// EchoLog 是否安装 echo 日志脚本
	EchoLog bool `json:"echo_log"`

	// FeedBuffer 事件流订阅者的缓冲长度，缓冲满时丢弃事件
	FeedBuffer int `json:"feed_buffer"`
}

// DefaultPageConfig 返回默认的页面配置
func DefaultPageConfig() PageConfig {
	return PageConfig{
		QueueSize:  64,
		EchoLog:    true,
		FeedBuffer: 32,
	}
}

// Validate 验证页面配置
func (c *PageConfig) Validate() error {
	if c.QueueSize < 1 {
		return fmt.Errorf("page: queue_size must be at least 1")
	}
	if c.FeedBuffer < 1 {
		return fmt.Errorf("page: feed_buffer must be at least 1")
	}
	return nil
}
