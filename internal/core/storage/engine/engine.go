// Package engine 定义存储引擎的内部接口
//
// 本包扩展 pkg/interfaces 中的公共 Engine 接口，
// 增加由 Fx 生命周期驱动的后台任务（值日志 GC）。
//
//	pkg/interfaces.Engine     - 公共基础接口
//	    ↓
//	engine.InternalEngine     - 内部扩展接口
package engine

import (
	pkgif "github.com/dep2p/go-regform/pkg/interfaces"
)

// InternalEngine 内部扩展接口
type InternalEngine interface {
	pkgif.Engine

	// Start 启动后台任务
	//
	// 重复调用无副作用。
	Start() error

	// Stats 返回运行时统计
	Stats() Stats
}

// Stats 引擎统计信息
type Stats struct {
	// GCRuns 值日志 GC 执行次数（含无可回收文件的执行）
	GCRuns int64 `json:"gc_runs"`

	// LSMSize LSM 树大小（字节）
	LSMSize int64 `json:"lsm_size"`

	// VLogSize 值日志大小（字节）
	VLogSize int64 `json:"vlog_size"`
}
