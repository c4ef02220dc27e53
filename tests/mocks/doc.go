// Package mocks 提供统一的测试 Mock 实现
//
//   - MockRegistrationStore: 模拟 interfaces.RegistrationStore
//
// # 设计原则
//
// 1. 函数式注入: 每个 Mock 都支持通过 XxxFunc 字段注入自定义行为
// 2. 调用记录: 关键 Mock 记录调用历史，便于验证测试行为
//
// # 使用示例
//
//	store := &mocks.MockRegistrationStore{
//	    PutFunc: func(ctx context.Context, r *interfaces.Registration) error {
//	        return errors.New("disk full")
//	    },
//	}
package mocks
