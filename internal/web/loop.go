package web

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrLoopStopped 脚本循环已停止
var ErrLoopStopped = errors.New("web: script loop stopped")

// scriptLoop 在单个 goroutine 上串行执行页面脚本任务
//
// 事件总线没有内部锁，所有对它的访问都必须经过这里。
type scriptLoop struct {
	tasks chan func()

	started   atomic.Bool
	startOnce sync.Once
	stopOnce  sync.Once
	quit      chan struct{}
	done      chan struct{}
}

func newScriptLoop(queue int) *scriptLoop {
	if queue < 1 {
		queue = 1
	}
	return &scriptLoop{
		tasks: make(chan func(), queue),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
}

// start 启动循环 goroutine，重复调用无副作用
func (l *scriptLoop) start() {
	l.startOnce.Do(func() {
		l.started.Store(true)
		go l.run()
	})
}

func (l *scriptLoop) run() {
	defer close(l.done)
	for {
		select {
		case task := <-l.tasks:
			task()
		case <-l.quit:
			// 执行已入队的任务后退出
			for {
				select {
				case task := <-l.tasks:
					task()
				default:
					return
				}
			}
		}
	}
}

// do 提交任务并等待其完成
//
// 任务中的 panic 会在调用方 goroutine 重新抛出。
func (l *scriptLoop) do(ctx context.Context, fn func() error) error {
	type result struct {
		err   error
		panic any
	}
	resCh := make(chan result, 1)

	task := func() {
		var res result
		defer func() {
			if r := recover(); r != nil {
				res.panic = r
			}
			resCh <- res
		}()
		res.err = fn()
	}

	select {
	case <-l.quit:
		return ErrLoopStopped
	default:
	}

	select {
	case l.tasks <- task:
	case <-l.quit:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case res := <-resCh:
		if res.panic != nil {
			panic(res.panic)
		}
		return res.err
	case <-l.done:
		// 循环在排空队列时已执行过该任务
		select {
		case res := <-resCh:
			if res.panic != nil {
				panic(res.panic)
			}
			return res.err
		default:
			return ErrLoopStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// stop 停止循环并等待 goroutine 退出
func (l *scriptLoop) stop(ctx context.Context) error {
	l.stopOnce.Do(func() {
		close(l.quit)
	})
	if !l.started.Load() {
		return nil
	}
	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
