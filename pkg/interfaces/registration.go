// Package interfaces - Registration 注册记录接口
package interfaces

import (
	"context"
	"errors"
	"time"
)

// ErrRegistrationNotFound 注册记录不存在
var ErrRegistrationNotFound = errors.New("registration: not found")

// Registration 已保存的注册记录
type Registration struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
	Email    string `json:"email"`
	Age      int    `json:"age"`
	Gender   string `json:"gender"`

	// PasswordDigest bcrypt 摘要，明文密码从不落盘
	PasswordDigest []byte `json:"password_digest,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// RegistrationStore 注册记录存储
//
// 实现必须保证并发安全。
type RegistrationStore interface {
	// Put 保存记录，ID 相同则覆盖
	Put(ctx context.Context, r *Registration) error

	// Get 读取记录，不存在时返回 ErrRegistrationNotFound
	Get(ctx context.Context, id string) (*Registration, error)

	// Count 返回已保存的记录数
	Count(ctx context.Context) (int64, error)
}
