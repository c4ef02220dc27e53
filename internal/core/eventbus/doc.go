// Package eventbus 实现进程内命名空间事件总线
//
// 提供同步、可重入的观察者注册表，支持：
//   - 单个事件与批量事件（Bulk）
//   - 点号前缀命名空间（"user.created"）
//   - 空格分隔的批量取消注册（"a b c"）
//   - 派发过程中安全移除回调
//
// # 快速开始
//
//	bus := eventbus.NewBus()
//
//	echo := pkgif.NewCallback(func(evt pkgif.Event, args ...any) error {
//	    fmt.Println(evt.Name, args)
//	    return nil
//	})
//
//	// 订阅事件
//	sub := bus.On(pkgif.Name("echo"), echo)
//	defer sub.Stop()
//
//	// 触发事件
//	_ = bus.Fire(pkgif.Name("echo"), "payload")
//
//	// 批量订阅：user.created, user.deleted
//	bus.On(pkgif.Bulk{
//	    Prefix:  pkgif.Prefix("user"),
//	    Entries: pkgif.Names("created", "deleted"),
//	}, echo)
//
// # Fx 模块
//
//	app := fx.New(
//	    eventbus.Module(),
//	    fx.Invoke(func(bus pkgif.EventBus) {
//	        bus.Observe("echo", echo)
//	    }),
//	)
//
// # 墓碑与压缩
//
// StopObserving 从不直接删除回调槽，只将其标记为已移除（墓碑）。
// 墓碑由最外层的派发循环在经过时原地压缩，派发边界在每次压缩后
// 同步递减。这样回调在派发中移除自己或后续回调时：
//   - 已移除的回调不会被调用
//   - 活跃回调不会被跳过，也不会被调用两次
//
// 嵌套派发（回调内再次触发同一事件）只跳过墓碑，不做压缩，
// 外层派发的下标因此保持有效。
//
// # 并发安全
//
// Bus 不是并发安全的，也不加锁：回调同步且可重入地执行，
// 加锁会导致重入死锁。需要跨 goroutine 使用时，由持有者串行化访问。
//
// # 架构定位
//
// Tier: Core Layer Level 1（无依赖）
//
// 依赖关系：
//   - 依赖：pkg/interfaces
//   - 被依赖：web（页面脚本层）
package eventbus
