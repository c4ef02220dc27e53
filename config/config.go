// Package config 提供统一的配置管理
//
// 本包采用混合配置模式：
//   - 主 Config 结构体嵌入所有子配置
//   - 每个子配置在独立文件中定义
//   - 支持从 JSON 加载和保存配置
//   - 支持预设配置（development/production）
//
// 使用示例：
//
//	cfg := config.NewConfig()
//	cfg.HTTP.Addr = ":3000"
//
//	// 应用预设到现有配置
//	config.ApplyPreset(cfg, "production")
//
//	// 从 JSON 文件加载
//	cfg, err := config.LoadFile("regform.json")
package config

// Config 是 regform 的完整配置结构
//
// 配置按照功能模块组织：
//   - HTTP: HTTP 服务
//   - Storage: 数据存储
//   - Log: 日志
//   - Page: 页面脚本运行时
//   - Registration: 注册表单
type Config struct {
	// HTTP HTTP 服务配置
	HTTP HTTPConfig `json:"http"`

	// Storage 存储配置
	Storage StorageConfig `json:"storage"`

	// Log 日志配置
	Log LogConfig `json:"log"`

	// Page 页面脚本运行时配置
	Page PageConfig `json:"page"`

	// Registration 注册表单配置
	Registration RegistrationConfig `json:"registration"`
}

// NewConfig 创建默认配置
func NewConfig() *Config {
	return &Config{
		HTTP:         DefaultHTTPConfig(),
		Storage:      DefaultStorageConfig(),
		Log:          DefaultLogConfig(),
		Page:         DefaultPageConfig(),
		Registration: DefaultRegistrationConfig(),
	}
}

// Validate 验证配置的有效性
//
// 检查所有子配置是否有效，返回第一个发现的错误。
func (c *Config) Validate() error {
	if err := c.HTTP.Validate(); err != nil {
		return err
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.Page.Validate(); err != nil {
		return err
	}
	if err := c.Registration.Validate(); err != nil {
		return err
	}
	return nil
}
