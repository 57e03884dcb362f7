package storage

import "sync"

// MemoryBackend 将观测日志保存在进程内存中，用于测试与临时运行。
type MemoryBackend struct {
	mu   sync.Mutex
	rows []Row
}

// NewMemoryBackend 构造空的内存后端。
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

// Load 返回当前保存的全部行的副本。
func (b *MemoryBackend) Load() ([]Row, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	rows := make([]Row, len(b.rows))
	copy(rows, b.rows)
	return rows, nil
}

// Save 覆盖保存全部行。
func (b *MemoryBackend) Save(rows []Row) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.rows = make([]Row, len(rows))
	copy(b.rows, rows)
	return nil
}
