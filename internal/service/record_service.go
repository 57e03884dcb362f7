package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/habitlog/internal/storage"
)

const defaultCacheTTL = 5 * time.Second

var (
	// ErrHabitNotFound 在指定习惯不存在时返回
	ErrHabitNotFound = errors.New("habit not found")
	// ErrDuplicateHabit 在新增的习惯名已存在（含已归档）时返回
	ErrDuplicateHabit = errors.New("habit already exists")
	// ErrHabitNameRequired 在习惯名为空时返回
	ErrHabitNameRequired = errors.New("habit name is required")
	// ErrHabitNameReserved 在习惯名与占位行冲突时返回
	ErrHabitNameReserved = errors.New("habit name is reserved")
	// ErrInvalidDate 在日期串不是合法的 ISO-8601 格式时返回
	ErrInvalidDate = errors.New("invalid date")
)

// RecordService 负责观测日志的读写：所有变更走 读取 → 副本上修改 → 整表落盘，
// 成功后立即失效读缓存，保证进程内读己之写。
// 持久层读失败退化为上一次成功加载的数据（或空日志）并记录告警，
// 写失败向调用方返回错误，本次变更丢弃。
type RecordService struct {
	backend storage.Backend

	mu      sync.Mutex
	cached  *Log
	fetched time.Time
	ttl     time.Duration
	now     func() time.Time
}

// NewRecordService 构造 RecordService，默认缓存 TTL 为 5 秒。
func NewRecordService(backend storage.Backend) *RecordService {
	return &RecordService{
		backend: backend,
		ttl:     defaultCacheTTL,
		now:     time.Now,
	}
}

// WithCacheTTL 调整读缓存的存活时间，非正值保持默认。
func (s *RecordService) WithCacheTTL(d time.Duration) *RecordService {
	if d <= 0 {
		return s
	}
	s.ttl = d
	return s
}

// WithClock 注入时钟，供测试固定“今天”。
func (s *RecordService) WithClock(now func() time.Time) *RecordService {
	if now == nil {
		return s
	}
	s.now = now
	return s
}

// Load 返回完整日志。持久层不可用时不向上层抛错，
// 退化为可用的（可能为空的）日志，周边界面保持可交互。
func (s *RecordService) Load() *Log {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

// UpsertStatus 写入 (日期, 习惯) 的完成状态。
// 已有记录则原地更新；否则新建记录，active 继承该习惯已知状态，
// 新习惯默认活跃。同一键绝不产生第二条记录。
func (s *RecordService) UpsertStatus(date, habit string, completed bool) (*Log, error) {
	habit, err := normalizeHabitName(habit)
	if err != nil {
		return nil, err
	}
	date, err = parseDate(date)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.loadLocked().Clone()
	active := true
	if known, ok := l.HabitActive(habit); ok {
		active = known
	}
	l.ensureHabit(habit, active)
	l.setEntry(date, habit, completed)

	if err := s.saveLocked(l); err != nil {
		return nil, err
	}
	return l, nil
}

// SetDayMood 写入某天的心情编码（0 表示清除）。
// 心情是日级字段；当天没有任何习惯记录时，落盘会合成一条占位行承载它。
func (s *RecordService) SetDayMood(date string, mood int) (*Log, error) {
	date, err := parseDate(date)
	if err != nil {
		return nil, err
	}
	if mood < 0 {
		return nil, fmt.Errorf("invalid mood code %d", mood)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.loadLocked().Clone()
	l.setMood(date, mood)

	if err := s.saveLocked(l); err != nil {
		return nil, err
	}
	return l, nil
}

// SetDayReflection 写入某天的反思文本（空串表示清除），语义与 SetDayMood 一致。
func (s *RecordService) SetDayReflection(date, text string) (*Log, error) {
	date, err := parseDate(date)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.loadLocked().Clone()
	l.setReflection(date, text)

	if err := s.saveLocked(l); err != nil {
		return nil, err
	}
	return l, nil
}

// SetHabitActive 归档或激活习惯；落盘时该习惯的每一条历史行都会重写标记。
func (s *RecordService) SetHabitActive(habit string, active bool) (*Log, error) {
	habit, err := normalizeHabitName(habit)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.loadLocked().Clone()
	if !l.setHabitActive(habit, active) {
		return nil, ErrHabitNotFound
	}

	if err := s.saveLocked(l); err != nil {
		return nil, err
	}
	return l, nil
}

// DeleteHabit 永久删除习惯及其全部记录，不做软删除。
// 当天的心情/反思属于日期而非习惯，保留不动。
func (s *RecordService) DeleteHabit(habit string) (*Log, error) {
	habit, err := normalizeHabitName(habit)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.loadLocked().Clone()
	if !l.removeHabit(habit) {
		return nil, ErrHabitNotFound
	}

	if err := s.saveLocked(l); err != nil {
		return nil, err
	}
	return l, nil
}

// AddHabit 新增习惯并物化今天的未完成记录。
// 名称大小写敏感，与任何已知习惯（含已归档）重名时拒绝，日志保持不变。
func (s *RecordService) AddHabit(habit string) (*Log, error) {
	habit, err := normalizeHabitName(habit)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.loadLocked().Clone()
	if l.HasHabit(habit) {
		return nil, ErrDuplicateHabit
	}

	l.ensureHabit(habit, true)
	l.setEntry(dateKey(s.now()), habit, false)

	if err := s.saveLocked(l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *RecordService) loadLocked() *Log {
	if s.cached != nil && s.now().Sub(s.fetched) < s.ttl {
		return s.cached
	}

	rows, err := s.backend.Load()
	if err != nil {
		log.Printf("load observations: %v (serving last known log)", err)
		if s.cached != nil {
			return s.cached
		}
		return NewLog()
	}

	s.cached = LogFromRows(rows)
	s.fetched = s.now()
	return s.cached
}

func (s *RecordService) saveLocked(l *Log) error {
	if err := s.backend.Save(l.Rows()); err != nil {
		return fmt.Errorf("save observations: %w", err)
	}

	// 写成功即失效缓存，下一次读取回到持久层
	s.cached = nil
	s.fetched = time.Time{}
	return nil
}

func normalizeHabitName(habit string) (string, error) {
	habit = strings.TrimSpace(habit)
	if habit == "" {
		return "", ErrHabitNameRequired
	}
	if habit == storage.SentinelHabit {
		return "", ErrHabitNameReserved
	}
	return habit, nil
}
