// Package main 提供 regform 命令行入口
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	regform "github.com/dep2p/go-regform"
	"github.com/dep2p/go-regform/config"
	"github.com/dep2p/go-regform/internal/util/logger"
	"github.com/dep2p/go-regform/pkg/lib/log"
)

var cmdLogger = log.Logger("regform/cmd")

// ═══════════════════════════════════════════════════════════════════════════
// 命令行参数
// ═══════════════════════════════════════════════════════════════════════════
//
// 优先级：命令行参数 > 环境变量 > 配置文件 > 默认值
var (
	configFile  = flag.String("config", "", "配置文件路径（JSON）")
	addr        = flag.String("addr", "", "HTTP 监听地址（默认: :3000）")
	dataDir     = flag.String("data-dir", "", "数据目录（默认: ./data）")
	logLevel    = flag.String("log-level", "", "日志级别（component=level,...,default）")
	showVersion = flag.Bool("version", false, "显示版本信息")
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()

	if *showVersion {
		fmt.Println(regform.VersionInfo())
		return nil
	}

	cfg, err := buildConfig()
	if err != nil {
		return fmt.Errorf("配置错误: %w", err)
	}

	logger.Install(loggerConfig(cfg.Log), os.Stderr)
	cmdLogger.Info("启动 regform", "version", regform.Version, "commit", regform.GitCommit)

	app, err := regform.New(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Start(ctx); err != nil {
		return err
	}
	fmt.Printf("regform 已启动: http://%s/registration，按 Ctrl+C 退出\n", app.Addr())

	select {
	case <-ctx.Done():
		cmdLogger.Info("收到退出信号")
	case sig := <-app.Done():
		cmdLogger.Info("应用请求关闭", "signal", sig.Signal)
	}

	// 信号上下文已取消，停止使用独立上下文
	return app.Stop(context.Background())
}

// buildConfig 按优先级合并配置
func buildConfig() (*config.Config, error) {
	cfg, err := loadConfig(*configFile)
	if err != nil {
		return nil, err
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	applyFlagOverrides(cfg, *addr, *dataDir, *logLevel)

	if err := config.ValidateAll(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
