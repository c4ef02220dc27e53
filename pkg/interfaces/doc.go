// Package interfaces 定义 regform 的公共接口
//
// 接口文件与实现目录一一对应：
//   - eventbus.go      - 命名空间事件总线（internal/core/eventbus）
//   - storage.go       - 键值存储引擎（internal/core/storage）
//   - registration.go  - 注册记录与存储（internal/registration）
//
// 实现包只依赖本包中的接口，不相互引用具体类型。
package interfaces
