package storage

import (
	"strconv"
	"strings"
)

// SentinelHabit 是为仅有心情/反思的日期合成的占位习惯名，
// 与原始数据文件保持一致，不会出现在习惯目录中。
const SentinelHabit = "Mood_Entry"

// Row 是持久层的规范行：每个 (Date, Habit) 对应一条观测。
// 日级字段（Mood/DailyReflection）按原始表结构冗余复制到当天的每一行，
// IsActive 同样按习惯冗余复制到该习惯的每一行。
type Row struct {
	Date            string // ISO-8601，格式 2006-01-02
	Habit           string
	Completed       bool
	IsActive        bool
	DailyReflection string
	Mood            int
}

// Backend 是核心依赖的唯一持久化端口：整表读取、整表覆盖写入。
// 实现方可以是本地文件、SQL 表或任何支持这两个操作的存储。
type Backend interface {
	Load() ([]Row, error)
	Save(rows []Row) error
}

// CoerceBool 将持久层中的布尔取值解析为 bool。
// 兼容 pandas 风格的 True/False 以及 1/0；无法识别的值回退为 false，
// 保证畸形行被纠正而不是丢弃。
func CoerceBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "1.0":
		return true
	default:
		return false
	}
}

// CoerceMood 将持久层中的心情编码解析为非负整数。
// 非数字或负数回退为 0（未设置）；兼容 pandas 可能写出的浮点形式。
func CoerceMood(raw string) int {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0
	}

	if v, err := strconv.Atoi(trimmed); err == nil {
		if v < 0 {
			return 0
		}
		return v
	}

	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		if f < 0 {
			return 0
		}
		return int(f)
	}

	return 0
}
