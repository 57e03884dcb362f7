package main

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/habitlog/internal/config"
	"github.com/habitlog/internal/service"
	"github.com/habitlog/internal/storage"
)

// 测试数据生成器：向配置的持久层写入最近 30 天的演示数据
func main() {
	cfg, err := config.Load(nil)
	if err != nil {
		log.Fatal("加载配置失败:", err)
	}

	backend, err := openBackend(cfg.Storage)
	if err != nil {
		log.Fatal("初始化持久层失败:", err)
	}

	fmt.Println("开始生成测试数据...")

	records := service.NewRecordService(backend)
	habits := []string{"晨跑", "阅读", "冥想", "早睡"}

	for _, habit := range habits {
		if _, err := records.AddHabit(habit); err != nil {
			log.Fatalf("创建习惯 %s 失败: %v", habit, err)
		}
	}

	rng := rand.New(rand.NewSource(42))
	today := time.Now()

	for offset := 29; offset >= 0; offset-- {
		date := today.AddDate(0, 0, -offset).Format("2006-01-02")

		for _, habit := range habits {
			// 七成概率完成，保留一些缺口让连胜和日历有起伏
			if _, err := records.UpsertStatus(date, habit, rng.Intn(10) < 7); err != nil {
				log.Fatalf("写入打卡状态失败: %v", err)
			}
		}

		if _, err := records.SetDayMood(date, 1+rng.Intn(10)); err != nil {
			log.Fatalf("写入心情失败: %v", err)
		}
	}

	if _, err := records.SetDayReflection(today.Format("2006-01-02"), "今天状态不错，继续保持。"); err != nil {
		log.Fatalf("写入反思失败: %v", err)
	}

	fmt.Println("测试数据生成完成！")
	fmt.Printf("习惯: %d 个，覆盖最近 30 天\n", len(habits))
	fmt.Printf("持久层: %s\n", cfg.Storage.Backend)
}

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
