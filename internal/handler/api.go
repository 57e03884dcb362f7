package handler

import (
	"github.com/habitlog/internal/config"
	"github.com/habitlog/internal/service"
)

// API 聚合各服务与引擎配置，供 HTTP 处理函数共享。
type API struct {
	records       *service.RecordService
	streaks       *service.StreakService
	badges        *service.BadgeAssigner
	analytics     *service.AnalyticsService
	moods         map[int]string
	heatmapWindow int
}

// NewAPI 基于记录服务与引擎配置构造处理器集合。
func NewAPI(records *service.RecordService, cfg config.TrackerConfig) *API {
	streaks := service.NewStreakService()
	badges := service.NewBadgeAssigner(cfg.BadgeThresholds, cfg.NoStreakLabel)

	return &API{
		records:       records,
		streaks:       streaks,
		badges:        badges,
		analytics:     service.NewAnalyticsService(streaks, badges),
		moods:         cfg.MoodVocabulary,
		heatmapWindow: cfg.HeatmapWindowDays,
	}
}
