package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/habitlog/internal/storage"
)

const dateLayout = "2006-01-02"

// HabitInfo 是习惯注册表中的一项，按首次出现顺序排列。
type HabitInfo struct {
	Name   string
	Active bool
}

// DayMeta 保存日级字段：当天的心情编码与反思文本。
// 它的真实粒度是每天一份，持久化时才冗余复制到当天的每一行。
type DayMeta struct {
	Mood       int
	Reflection string
}

// Log 是观测日志的内存模型，把持久层的反规范化行拆成三个实体：
// 习惯注册表（含 active 标记）、日级字段、以及 (日期, 习惯) 的完成记录。
// 同一键至多一条完成记录，日级字段天然全天一致，
// 持久化时由 Rows 重新铺回六列行结构。
type Log struct {
	habits  []HabitInfo
	habitIx map[string]int
	days    map[string]DayMeta
	entries map[string]map[string]bool
}

// NewLog 构造空日志。
func NewLog() *Log {
	return &Log{
		habitIx: make(map[string]int),
		days:    make(map[string]DayMeta),
		entries: make(map[string]map[string]bool),
	}
}

// LogFromRows 从持久层行构建内存模型。
// 习惯的 active 以首次遇到的行为准；日级字段取当天首个非零值；
// 重复键按 upsert 语义取后写的一条。占位行只贡献日级字段。
func LogFromRows(rows []storage.Row) *Log {
	l := NewLog()

	for _, row := range rows {
		if row.Date == "" {
			continue
		}

		meta := l.days[row.Date]
		if meta.Mood == 0 && row.Mood > 0 {
			meta.Mood = row.Mood
		}
		if meta.Reflection == "" && row.DailyReflection != "" {
			meta.Reflection = row.DailyReflection
		}
		l.days[row.Date] = meta

		if row.Habit == "" || row.Habit == storage.SentinelHabit {
			continue
		}

		l.ensureHabit(row.Habit, row.IsActive)
		l.setEntry(row.Date, row.Habit, row.Completed)
	}

	return l
}

// Rows 将内存模型铺回持久层的六列行结构：
// 日期升序，同日内按习惯的首次出现顺序；日级字段广播到当天每一行，
// IsActive 从注册表重新生成；仅有日级字段的日期合成一条占位行。
func (l *Log) Rows() []storage.Row {
	dates := l.Dates()
	rows := make([]storage.Row, 0, len(dates))

	for _, date := range dates {
		meta := l.days[date]
		entries := l.entries[date]

		if len(entries) == 0 {
			if meta.Mood == 0 && meta.Reflection == "" {
				continue
			}
			rows = append(rows, storage.Row{
				Date:            date,
				Habit:           storage.SentinelHabit,
				Completed:       false,
				IsActive:        false,
				DailyReflection: meta.Reflection,
				Mood:            meta.Mood,
			})
			continue
		}

		for _, habit := range l.habits {
			completed, ok := entries[habit.Name]
			if !ok {
				continue
			}
			rows = append(rows, storage.Row{
				Date:            date,
				Habit:           habit.Name,
				Completed:       completed,
				IsActive:        habit.Active,
				DailyReflection: meta.Reflection,
				Mood:            meta.Mood,
			})
		}
	}

	return rows
}

// Clone 返回日志的深拷贝，变更操作在副本上进行，落盘失败不污染缓存。
func (l *Log) Clone() *Log {
	c := NewLog()

	c.habits = make([]HabitInfo, len(l.habits))
	copy(c.habits, l.habits)
	for name, i := range l.habitIx {
		c.habitIx[name] = i
	}
	for date, meta := range l.days {
		c.days[date] = meta
	}
	for date, entries := range l.entries {
		dup := make(map[string]bool, len(entries))
		for habit, completed := range entries {
			dup[habit] = completed
		}
		c.entries[date] = dup
	}

	return c
}

// Habits 返回注册表全量内容（首次出现顺序），不含占位习惯。
func (l *Log) Habits() []HabitInfo {
	habits := make([]HabitInfo, len(l.habits))
	copy(habits, l.habits)
	return habits
}

// AllHabits 返回全部习惯名，无论是否归档。
func (l *Log) AllHabits() []string {
	names := make([]string, 0, len(l.habits))
	for _, h := range l.habits {
		names = append(names, h.Name)
	}
	return names
}

// ActiveHabits 返回当前活跃的习惯名。
func (l *Log) ActiveHabits() []string {
	names := make([]string, 0, len(l.habits))
	for _, h := range l.habits {
		if h.Active {
			names = append(names, h.Name)
		}
	}
	return names
}

// HasHabit 判断习惯是否存在（大小写敏感，含已归档）。
func (l *Log) HasHabit(name string) bool {
	_, ok := l.habitIx[name]
	return ok
}

// HabitActive 返回习惯的 active 标记，第二个返回值表示习惯是否存在。
func (l *Log) HabitActive(name string) (bool, bool) {
	i, ok := l.habitIx[name]
	if !ok {
		return false, false
	}
	return l.habits[i].Active, true
}

// Completed 返回 (日期, 习惯) 是否已完成；没有记录等价于未完成。
func (l *Log) Completed(date, habit string) bool {
	return l.entries[date][habit]
}

// HasEntry 判断 (日期, 习惯) 是否已物化过记录。
func (l *Log) HasEntry(date, habit string) bool {
	_, ok := l.entries[date][habit]
	return ok
}

// CompletedDates 返回习惯全部完成日期的集合。
func (l *Log) CompletedDates(habit string) map[string]bool {
	dates := make(map[string]bool)
	for date, entries := range l.entries {
		if entries[habit] {
			dates[date] = true
		}
	}
	return dates
}

// Day 返回指定日期的日级字段。
func (l *Log) Day(date string) DayMeta {
	return l.days[date]
}

// Dates 返回日志涉及的全部日期，升序排列。
// ISO 日期串的字典序即时间序。
func (l *Log) Dates() []string {
	seen := make(map[string]bool, len(l.days)+len(l.entries))
	for date, meta := range l.days {
		if meta.Mood != 0 || meta.Reflection != "" {
			seen[date] = true
		}
	}
	for date, entries := range l.entries {
		if len(entries) > 0 {
			seen[date] = true
		}
	}

	dates := make([]string, 0, len(seen))
	for date := range seen {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

// Empty 判断日志是否没有任何内容。
func (l *Log) Empty() bool {
	return len(l.Dates()) == 0
}

func (l *Log) ensureHabit(name string, active bool) {
	if _, ok := l.habitIx[name]; ok {
		return
	}
	l.habitIx[name] = len(l.habits)
	l.habits = append(l.habits, HabitInfo{Name: name, Active: active})
}

func (l *Log) setEntry(date, habit string, completed bool) {
	if l.entries[date] == nil {
		l.entries[date] = make(map[string]bool)
	}
	l.entries[date][habit] = completed
}

func (l *Log) setMood(date string, mood int) {
	meta := l.days[date]
	meta.Mood = mood
	l.days[date] = meta
}

func (l *Log) setReflection(date, text string) {
	meta := l.days[date]
	meta.Reflection = text
	l.days[date] = meta
}

func (l *Log) setHabitActive(name string, active bool) bool {
	i, ok := l.habitIx[name]
	if !ok {
		return false
	}
	l.habits[i].Active = active
	return true
}

func (l *Log) removeHabit(name string) bool {
	i, ok := l.habitIx[name]
	if !ok {
		return false
	}

	l.habits = append(l.habits[:i], l.habits[i+1:]...)
	delete(l.habitIx, name)
	for j := i; j < len(l.habits); j++ {
		l.habitIx[l.habits[j].Name] = j
	}

	for date, entries := range l.entries {
		delete(entries, name)
		if len(entries) == 0 {
			delete(l.entries, date)
		}
	}

	return true
}

// parseDate 校验 ISO-8601 日期串并返回规范形式。
func parseDate(date string) (string, error) {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return t.Format(dateLayout), nil
}

// dateKey 将时间截断为 ISO 日期串。
func dateKey(t time.Time) string {
	return t.Format(dateLayout)
}

// dateOnly 将时间归一化为当天零点，供逐日回溯使用。
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
