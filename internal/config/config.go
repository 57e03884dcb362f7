package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// envPrefix 是环境变量前缀，例如 HABITLOG_SERVER_LISTEN_ADDR。
const envPrefix = "HABITLOG_"

// flagKeys 将命令行 flag 映射到配置树中的键，未列出的 flag（如 --config）不进入配置。
var flagKeys = map[string]string{
	"listen-addr": "server.listen_addr",
	"backend":     "storage.backend",
	"csv-path":    "storage.csv_path",
	"sqlite-path": "storage.sqlite_path",
}

// Config 汇总运行服务所需的全部配置。
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Storage StorageConfig `koanf:"storage"`
	Tracker TrackerConfig `koanf:"tracker"`
}

// ServerConfig 是 HTTP 服务相关配置。
type ServerConfig struct {
	ListenAddr string `koanf:"listen_addr" validate:"required"`
	Mode       string `koanf:"mode" validate:"oneof=debug release test"`
}

// StorageConfig 选择持久化后端及其数据位置。
type StorageConfig struct {
	Backend    string `koanf:"backend" validate:"oneof=csv sqlite memory"`
	CSVPath    string `koanf:"csv_path"`
	SQLitePath string `koanf:"sqlite_path"`
}

// TrackerConfig 是引擎行为配置：热力图窗口、读缓存 TTL、
// 徽章阈值表与心情词表。阈值与词表是配置而非行为，可整体替换。
type TrackerConfig struct {
	HeatmapWindowDays int            `koanf:"heatmap_window_days" validate:"min=1"`
	CacheTTL          time.Duration  `koanf:"cache_ttl"`
	NoStreakLabel     string         `koanf:"no_streak_label" validate:"required"`
	BadgeThresholds   map[int]string `koanf:"badge_thresholds" validate:"required,min=1"`
	MoodVocabulary    map[int]string `koanf:"mood_vocabulary" validate:"required,min=1"`
}

// Default 返回与原始数据文件兼容的默认配置。
func Default() Config {
	return Config{
		Server: ServerConfig{
			ListenAddr: ":8082",
			Mode:       "release",
		},
		Storage: StorageConfig{
			Backend:    "csv",
			CSVPath:    "habit_data.csv",
			SQLitePath: "habitlog.db",
		},
		Tracker: TrackerConfig{
			HeatmapWindowDays: 365,
			CacheTTL:          5 * time.Second,
			NoStreakLabel:     "❄️ No Streak",
			BadgeThresholds: map[int]string{
				1:  "🌟 New Start",
				7:  "🏆 Bronze Star",
				30: "🥈 Silver Champion",
				90: "🥇 Gold Titan",
			},
			MoodVocabulary: map[int]string{
				1:  "☺️ Happy",
				2:  "😑 Meh",
				3:  "😞 Disappointed",
				4:  "😭 Crying",
				5:  "🥰 Loved",
				6:  "👼 Peaceful",
				7:  "🥳 Excited",
				8:  "🤩 Amazed",
				9:  "🥱 Tired",
				10: "🤧 Sick",
			},
		},
	}
}

// Load 按 默认值 → 配置文件(yaml) → 环境变量 → 命令行 的顺序合并配置并校验。
// flags 可以为 nil，此时只读文件与环境变量。
func Load(flags *pflag.FlagSet) (Config, error) {
	cfg := Default()
	k := koanf.New(".")

	if flags != nil {
		if path, err := flags.GetString("config"); err == nil && strings.TrimSpace(path) != "" {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return cfg, fmt.Errorf("load config file: %w", err)
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envToKey), nil); err != nil {
		return cfg, fmt.Errorf("load env config: %w", err)
	}

	if flags != nil {
		provider := posflag.ProviderWithValue(flags, ".", k, func(key, value string) (string, interface{}) {
			mapped, ok := flagKeys[key]
			if !ok || !flags.Changed(key) {
				return "", nil
			}
			return mapped, value
		})
		if err := k.Load(provider, nil); err != nil {
			return cfg, fmt.Errorf("load flag config: %w", err)
		}
	}

	// 阈值表与词表是整体替换而非合并：配置里出现就丢掉默认表
	if k.Exists("tracker.badge_thresholds") {
		cfg.Tracker.BadgeThresholds = nil
	}
	if k.Exists("tracker.mood_vocabulary") {
		cfg.Tracker.MoodVocabulary = nil
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// envToKey 把 HABITLOG_SERVER_LISTEN_ADDR 这样的变量名映射为 server.listen_addr。
func envToKey(name string) string {
	trimmed := strings.ToLower(strings.TrimPrefix(name, envPrefix))
	return strings.Replace(trimmed, "_", ".", 1)
}
