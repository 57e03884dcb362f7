package service

import (
	"sort"
	"time"
)

// LeaderboardRow 对应排行榜中的一行。
type LeaderboardRow struct {
	Habit            string `json:"habit"`
	CurrentStreak    int    `json:"current_streak"`
	Badge            string `json:"badge"`
	TotalCompletions int    `json:"total_completions"`
	Active           bool   `json:"active"`
}

// DatePoint 是按日统计的时间序列中的一个点。
type DatePoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// MoodPoint 是心情趋势中的一个点。
type MoodPoint struct {
	Date string `json:"date"`
	Mood int    `json:"mood"`
}

// AnalyticsService 基于日志计算图表所需的聚合视图。
// 所有方法都是对内存数据的纯计算：不产生副作用，空输入返回空结果。
type AnalyticsService struct {
	streaks *StreakService
	badges  *BadgeAssigner
	now     func() time.Time
}

// NewAnalyticsService 构造 AnalyticsService。
func NewAnalyticsService(streaks *StreakService, badges *BadgeAssigner) *AnalyticsService {
	return &AnalyticsService{
		streaks: streaks,
		badges:  badges,
		now:     time.Now,
	}
}

// WithClock 注入时钟，供测试固定热力图窗口的终点。
func (s *AnalyticsService) WithClock(now func() time.Time) *AnalyticsService {
	if now == nil {
		return s
	}
	s.now = now
	return s
}

// Leaderboard 生成排行榜：每个习惯一行（含已归档），按当前连胜降序，
// 并列时保持首次出现顺序。
func (s *AnalyticsService) Leaderboard(l *Log) []LeaderboardRow {
	habits := l.Habits()
	rows := make([]LeaderboardRow, 0, len(habits))

	for _, habit := range habits {
		streak := s.streaks.Streak(l, habit.Name)
		rows = append(rows, LeaderboardRow{
			Habit:            habit.Name,
			CurrentStreak:    streak,
			Badge:            s.badges.Badge(streak),
			TotalCompletions: len(l.CompletedDates(habit.Name)),
			Active:           habit.Active,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].CurrentStreak > rows[j].CurrentStreak
	})

	return rows
}

// DailyCompletionCounts 统计每天完成的习惯数，按时间升序。
// 序列是稀疏的：没有任何完成的日期不出现，也不补零。
func (s *AnalyticsService) DailyCompletionCounts(l *Log) []DatePoint {
	counts := make(map[string]int)
	for _, date := range l.Dates() {
		for _, habit := range l.AllHabits() {
			if l.Completed(date, habit) {
				counts[date]++
			}
		}
	}

	dates := make([]string, 0, len(counts))
	for date := range counts {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	points := make([]DatePoint, 0, len(dates))
	for _, date := range dates {
		points = append(points, DatePoint{Date: date, Count: counts[date]})
	}

	return points
}

// ConsistencyCalendar 生成习惯的稠密打卡日历：以今天为终点的
// windowDays 天窗口内每天一个点，缺勤日补零，长度恒等于窗口大小。
func (s *AnalyticsService) ConsistencyCalendar(l *Log, habit string, windowDays int) []DatePoint {
	if windowDays <= 0 {
		return nil
	}

	completed := l.CompletedDates(habit)
	end := dateOnly(s.now())
	start := end.AddDate(0, 0, -(windowDays - 1))

	points := make([]DatePoint, 0, windowDays)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		count := 0
		if completed[dateKey(day)] {
			count = 1
		}
		points = append(points, DatePoint{Date: dateKey(day), Count: count})
	}

	return points
}

// MoodSeries 返回心情趋势：每个设置过心情的日期一个点，按时间升序。
func (s *AnalyticsService) MoodSeries(l *Log) []MoodPoint {
	points := make([]MoodPoint, 0)
	for _, date := range l.Dates() {
		meta := l.Day(date)
		if meta.Mood == 0 {
			continue
		}
		points = append(points, MoodPoint{Date: date, Mood: meta.Mood})
	}

	return points
}
