// Package storage 提供统一的持久化存储服务
//
// Storage 模块基于 BadgerDB 实现，为 regform 提供键值存储后端。
//
// # 架构
//
//	┌───────────────────────────────────────────┐
//	│          使用方模块 (registration)          │
//	└───────────────────────────────────────────┘
//	                     │
//	                     ▼
//	┌───────────────────────────────────────────┐
//	│               storage (本包)               │
//	│   kv.Store       带前缀隔离的 KV 抽象       │
//	│   engine/badger  BadgerDB 实现 + 值日志 GC  │
//	└───────────────────────────────────────────┘
//
// # 键空间设计
//
//	前缀  | 模块          | 说明
//	------|---------------|-------------
//	r/    | registration  | 注册记录 JSON
//
// # 生命周期
//
// Fx OnStart 启动值日志 GC，OnStop 关闭引擎。
package storage
