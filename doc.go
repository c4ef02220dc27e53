// Package regform 提供带页面脚本事件总线的注册表单服务
//
// regform 由两部分组成：
//
//   - EventBus: 按命名空间组织的发布/订阅总线（internal/core/eventbus），
//     支持单名与批量描述符、事件映射和订阅句柄
//   - 注册表单: 字段校验、BadgerDB 持久化、HTTP 表单页与校验接口
//
// # 快速开始
//
//	cfg := config.NewConfig()
//	cfg.Storage.InMemory = true
//
//	app, err := regform.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := app.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer app.Stop(context.Background())
//
// # 模块结构
//
//	┌─────────────────────────────────────────────┐
//	│  web: Server(HTTP) ── Page(scriptLoop+Bus)  │
//	├─────────────────────────────────────────────┤
//	│  registration: Service ── KVStore(LRU)      │
//	├─────────────────────────────────────────────┤
//	│  core: eventbus │ storage(badger) │ metrics  │
//	└─────────────────────────────────────────────┘
//
// # 文件组织
//
//   - regform.go: 版本信息与应用状态
//   - app.go: App 生命周期
//   - fx.go: Fx 模块组装
//   - options.go: 选项
//   - errors.go: 公共错误
package regform
