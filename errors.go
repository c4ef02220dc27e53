package regform

import "errors"

// 公共错误定义
var (
	// ErrAlreadyStarted 应用已启动
	ErrAlreadyStarted = errors.New("app already started")

	// ErrNotStarted 应用未启动
	ErrNotStarted = errors.New("app not started")

	// ErrStopped 应用已停止
	ErrStopped = errors.New("app stopped")
)
