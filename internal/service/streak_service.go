package service

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// StreakService 计算习惯的连续打卡天数。
type StreakService struct {
	now func() time.Time
}

// NewStreakService 构造 StreakService。
func NewStreakService() *StreakService {
	return &StreakService{now: time.Now}
}

// WithClock 注入时钟，供测试固定“今天”。
func (s *StreakService) WithClock(now func() time.Time) *StreakService {
	if now == nil {
		return s
	}
	s.now = now
	return s
}

// Streak 返回截止今天的连续完成天数。
// 今天尚未打卡时从昨天起算：到昨天为止的连胜不会因为今天还没行动而清零，
// 但今天也不计入，直到真正错过一天才断档。未知习惯返回 0。
func (s *StreakService) Streak(l *Log, habit string) int {
	completed := l.CompletedDates(habit)
	if len(completed) == 0 {
		return 0
	}

	check := dateOnly(s.now())
	if !completed[dateKey(check)] {
		check = check.AddDate(0, 0, -1)
	}

	streak := 0
	for completed[dateKey(check)] {
		streak++
		check = check.AddDate(0, 0, -1)
	}

	return streak
}

// BadgeTier 是一档徽章：达到 MinDays 天连胜即授予 Label。
type BadgeTier struct {
	MinDays int
	Label   string
}

// BadgeAssigner 把连胜天数映射到徽章等级。
// 阈值从高到低逐档匹配，取不低于连胜值的最高档；阈值集合来自配置。
type BadgeAssigner struct {
	tiers    []BadgeTier
	noStreak string
}

// NewBadgeAssigner 根据 {最低天数 → 等级名} 的映射构造 BadgeAssigner。
func NewBadgeAssigner(thresholds map[int]string, noStreakLabel string) *BadgeAssigner {
	tiers := make([]BadgeTier, 0, len(thresholds))
	for minDays, label := range thresholds {
		if minDays <= 0 {
			continue
		}
		tiers = append(tiers, BadgeTier{MinDays: minDays, Label: label})
	}
	sort.Slice(tiers, func(i, j int) bool {
		return tiers[i].MinDays > tiers[j].MinDays
	})

	return &BadgeAssigner{tiers: tiers, noStreak: noStreakLabel}
}

// Badge 返回连胜对应的徽章文案，带天数；连胜为 0 时返回独立的无连胜文案。
func (b *BadgeAssigner) Badge(streak int) string {
	if streak <= 0 {
		return b.noStreak
	}

	label := ""
	for _, tier := range b.tiers {
		if streak >= tier.MinDays {
			label = tier.Label
			break
		}
	}

	return strings.TrimSpace(fmt.Sprintf("%s (%d Days)", label, streak))
}
