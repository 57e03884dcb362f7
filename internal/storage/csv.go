package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
)

// 列名沿用原始数据文件的表头，保证新旧文件互相兼容。
var csvHeader = []string{"Date", "Habit", "Status", "Is_Active", "Daily_Reflection", "Mood"}

// CSVBackend 将观测日志保存为本地 CSV 文件。
// 文件不存在视为空日志；旧版文件缺少的列在读取时补默认值。
type CSVBackend struct {
	path string
}

// NewCSVBackend 构造 CSVBackend，path 为空时回退到默认文件名。
func NewCSVBackend(path string) *CSVBackend {
	if path == "" {
		path = "habit_data.csv"
	}
	return &CSVBackend{path: path}
}

// Load 读取全部观测行。缺文件返回空结果而非错误，
// 畸形单元格按安全默认值纠正，不丢行、不中断加载。
func (b *CSVBackend) Load() ([]Row, error) {
	f, err := os.Open(b.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read data file: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	// 按表头定位列，旧版文件可能没有 Is_Active/Daily_Reflection/Mood
	columns := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		columns[name] = i
	}

	cell := func(record []string, name string) (string, bool) {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return "", false
		}
		return record[idx], true
	}

	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		date, ok := cell(record, "Date")
		if !ok {
			continue
		}
		habit, _ := cell(record, "Habit")

		row := Row{
			Date:     date,
			Habit:    habit,
			IsActive: true,
		}
		if raw, ok := cell(record, "Status"); ok {
			row.Completed = CoerceBool(raw)
		}
		if raw, ok := cell(record, "Is_Active"); ok {
			row.IsActive = CoerceBool(raw)
		}
		if raw, ok := cell(record, "Daily_Reflection"); ok {
			row.DailyReflection = raw
		}
		if raw, ok := cell(record, "Mood"); ok {
			row.Mood = CoerceMood(raw)
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// Save 覆盖写出全部观测行。先写临时文件再原子替换，避免半截写入。
func (b *CSVBackend) Save(rows []Row) error {
	if err := ensureParentDir(b.path); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(b.path), ".habit_data-*.csv")
	if err != nil {
		return fmt.Errorf("create temp data file: %w", err)
	}
	tmpPath := tmp.Name()

	writer := csv.NewWriter(tmp)
	if err := writer.Write(csvHeader); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write data header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.Date,
			row.Habit,
			formatBool(row.Completed),
			formatBool(row.IsActive),
			row.DailyReflection,
			strconv.Itoa(row.Mood),
		}
		if err := writer.Write(record); err != nil {
			tmp.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("write data row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("flush data file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp data file: %w", err)
	}

	if err := os.Rename(tmpPath, b.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace data file: %w", err)
	}

	return nil
}

// formatBool 写出 pandas 风格的布尔，保持与原始文件字节兼容。
func formatBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("data path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
