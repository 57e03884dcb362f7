package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/habitlog/internal/config"
	"github.com/habitlog/internal/handler"
	"github.com/habitlog/internal/router"
	"github.com/habitlog/internal/service"
	"github.com/habitlog/internal/storage"
	"github.com/spf13/pflag"
)

func main() {
	flags := pflag.NewFlagSet("habitlog", pflag.ExitOnError)
	flags.String("config", "", "配置文件路径 (yaml)")
	flags.String("listen-addr", "", "HTTP 监听地址")
	flags.String("backend", "", "存储后端 (csv|sqlite|memory)")
	flags.String("csv-path", "", "CSV 数据文件路径")
	flags.String("sqlite-path", "", "SQLite 数据库路径")
	if err := flags.Parse(os.Args[1:]); err != nil {
		log.Fatalf("failed to parse flags: %v", err)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	gin.SetMode(cfg.Server.Mode)

	backend, err := openBackend(cfg.Storage)
	if err != nil {
		log.Fatalf("failed to open storage backend: %v", err)
	}

	records := service.NewRecordService(backend).WithCacheTTL(cfg.Tracker.CacheTTL)
	api := handler.NewAPI(records, cfg.Tracker)

	r := router.SetupRouter(api)
	if err := r.Run(cfg.Server.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}

// openBackend 按配置选择持久化后端。
func openBackend(cfg config.StorageConfig) (storage.Backend, error) {
	switch cfg.Backend {
	case "csv":
		return storage.NewCSVBackend(cfg.CSVPath), nil
	case "sqlite":
		return storage.OpenSQLite(cfg.SQLitePath)
	case "memory":
		return storage.NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
