// Package interfaces - Storage 存储引擎接口
//
// 本文件定义 regform 存储引擎的公共接口。注册记录等持久化数据
// 都通过该接口读写，默认实现基于 BadgerDB。
package interfaces

import "errors"

// ErrStopIteration 由 Iterate 回调返回，提前结束遍历且不视为错误
var ErrStopIteration = errors.New("storage: stop iteration")

// Engine 存储引擎基础接口
//
// 线程安全：实现必须保证所有方法的线程安全性。
//
// 示例:
//
//	value, err := engine.Get([]byte("r/42"))
//	if errors.Is(err, storage.ErrNotFound) {
//	    // ...
//	}
type Engine interface {
	// Get 获取指定键的值
	//
	// 返回值的副本；键不存在时返回 ErrNotFound。
	Get(key []byte) ([]byte, error)

	// Put 设置键值对，已存在则覆盖
	Put(key, value []byte) error

	// Delete 删除指定键（幂等）
	Delete(key []byte) error

	// Has 检查键是否存在
	Has(key []byte) (bool, error)

	// Iterate 按键序遍历具有指定前缀的键值对
	//
	// fn 收到的 key 与 value 均为副本。fn 返回 ErrStopIteration 时
	// 遍历结束并返回 nil，返回其他错误时原样传出。
	Iterate(prefix []byte, fn func(key, value []byte) error) error

	// Close 关闭存储引擎，多次调用安全
	Close() error
}
