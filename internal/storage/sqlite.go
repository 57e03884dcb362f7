package storage

import (
	"fmt"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Observation 是 sqlite 后端的表模型，一行对应一条观测。
// 自增主键保留行的写入顺序，习惯目录的首次出现顺序依赖它。
type Observation struct {
	ID              uint   `gorm:"primarykey"`
	Date            string `gorm:"index:idx_observation_key,unique"`
	Habit           string `gorm:"index:idx_observation_key,unique"`
	Completed       bool
	IsActive        bool
	DailyReflection string
	Mood            int
}

// TableName 固定表名，避免跟随结构体改名漂移。
func (Observation) TableName() string {
	return "observations"
}

// SQLiteBackend 将观测日志保存在 SQLite 表中，写入为整表覆盖。
type SQLiteBackend struct {
	db *gorm.DB
}

// OpenSQLite 打开数据库文件并完成自动迁移。path 为空时回退到默认值。
func OpenSQLite(path string) (*SQLiteBackend, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = "habitlog.db"
	}

	if err := ensureParentDir(path); err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return NewSQLiteBackend(gdb)
}

// NewSQLiteBackend 在已有连接上构造后端并迁移表结构，便于测试注入内存库。
func NewSQLiteBackend(gdb *gorm.DB) (*SQLiteBackend, error) {
	if err := gdb.AutoMigrate(&Observation{}); err != nil {
		return nil, fmt.Errorf("migrate observations: %w", err)
	}
	return &SQLiteBackend{db: gdb}, nil
}

// Load 按写入顺序读取全部观测行。
func (b *SQLiteBackend) Load() ([]Row, error) {
	var observations []Observation
	if err := b.db.Order("id ASC").Find(&observations).Error; err != nil {
		return nil, fmt.Errorf("load observations: %w", err)
	}

	rows := make([]Row, 0, len(observations))
	for _, o := range observations {
		rows = append(rows, Row{
			Date:            o.Date,
			Habit:           o.Habit,
			Completed:       o.Completed,
			IsActive:        o.IsActive,
			DailyReflection: o.DailyReflection,
			Mood:            o.Mood,
		})
	}

	return rows, nil
}

// Save 在单个事务内清空并重写整表，落盘语义与文件后端一致。
func (b *SQLiteBackend) Save(rows []Row) error {
	err := b.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&Observation{}).Error; err != nil {
			return err
		}

		if len(rows) == 0 {
			return nil
		}

		observations := make([]Observation, 0, len(rows))
		for _, row := range rows {
			observations = append(observations, Observation{
				Date:            row.Date,
				Habit:           row.Habit,
				Completed:       row.Completed,
				IsActive:        row.IsActive,
				DailyReflection: row.DailyReflection,
				Mood:            row.Mood,
			})
		}

		return tx.Create(&observations).Error
	})
	if err != nil {
		return fmt.Errorf("save observations: %w", err)
	}

	return nil
}
