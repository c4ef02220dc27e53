package config

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// RegistrationConfig 注册表单配置
type RegistrationConfig struct {
	// CacheSize 记录 LRU 缓存容量
	CacheSize int `json:"cache_size"`

	// BcryptCost 密码摘要的 bcrypt 代价
	BcryptCost int `json:"bcrypt_cost"`
}

// DefaultRegistrationConfig 返回默认的注册配置
func DefaultRegistrationConfig() RegistrationConfig {
	return RegistrationConfig{
		CacheSize:  1024,
		BcryptCost: bcrypt.DefaultCost,
	}
}

// Validate 验证注册配置
func (c *RegistrationConfig) Validate() error {
	if c.CacheSize < 1 {
		return fmt.Errorf("registration: cache_size must be at least 1")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("registration: bcrypt_cost must be in [%d, %d]", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}
