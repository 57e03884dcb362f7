package storage

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func newTestCSVBackend(t *testing.T) *CSVBackend {
	t.Helper()
	return NewCSVBackend(filepath.Join(t.TempDir(), "habit_data.csv"))
}

func TestCSVBackendMissingFile(t *testing.T) {
	b := newTestCSVBackend(t)

	rows, err := b.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected empty log, got %d rows", len(rows))
	}
}

func TestCSVBackendRoundTrip(t *testing.T) {
	b := newTestCSVBackend(t)

	rows := []Row{
		{Date: "2024-01-01", Habit: "晨跑", Completed: true, IsActive: true, DailyReflection: "今天跑了 5 公里, 状态不错\n继续保持", Mood: 7},
		{Date: "2024-01-01", Habit: "Read", Completed: false, IsActive: true, DailyReflection: "今天跑了 5 公里, 状态不错\n继续保持", Mood: 7},
		{Date: "2024-01-02", Habit: "晨跑", Completed: false, IsActive: false, DailyReflection: "", Mood: 0},
	}

	if err := b.Save(rows); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := b.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !reflect.DeepEqual(rows, loaded) {
		t.Fatalf("round trip mismatch:\nwant %+v\ngot  %+v", rows, loaded)
	}
}

func TestCSVBackendOverwrite(t *testing.T) {
	b := newTestCSVBackend(t)

	first := []Row{
		{Date: "2024-01-01", Habit: "Run", Completed: true, IsActive: true},
		{Date: "2024-01-02", Habit: "Run", Completed: true, IsActive: true},
	}
	if err := b.Save(first); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	second := []Row{
		{Date: "2024-01-02", Habit: "Run", Completed: false, IsActive: true},
	}
	if err := b.Save(second); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := b.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !reflect.DeepEqual(second, loaded) {
		t.Fatalf("expected second save to win, got %+v", loaded)
	}
}

func TestCSVBackendLegacyColumns(t *testing.T) {
	// 旧版文件只有三列，读取时补默认值：活跃、无反思、未设置心情
	path := filepath.Join(t.TempDir(), "habit_data.csv")
	legacy := "Date,Habit,Status\n2024-01-01,Run,True\n2024-01-02,Run,False\n"
	if err := os.WriteFile(path, []byte(legacy), 0o644); err != nil {
		t.Fatalf("failed to write legacy file: %v", err)
	}

	rows, err := NewCSVBackend(path).Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	want := Row{Date: "2024-01-01", Habit: "Run", Completed: true, IsActive: true, DailyReflection: "", Mood: 0}
	if rows[0] != want {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Completed {
		t.Fatal("expected second row to be not completed")
	}
}

func TestCSVBackendMalformedCells(t *testing.T) {
	// 畸形单元格按安全默认值纠正，不丢行、不中断加载
	path := filepath.Join(t.TempDir(), "habit_data.csv")
	content := "Date,Habit,Status,Is_Active,Daily_Reflection,Mood\n" +
		"2024-01-01,Run,maybe,TRUE,,banana\n" +
		"2024-01-02,Run,True,1,ok,5.0\n" +
		"2024-01-03,Run,True,True,,-3\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write data file: %v", err)
	}

	rows, err := NewCSVBackend(path).Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected all rows kept, got %d", len(rows))
	}

	if rows[0].Completed {
		t.Fatal("expected junk status to coerce to false")
	}
	if !rows[0].IsActive {
		t.Fatal("expected TRUE to parse as active")
	}
	if rows[0].Mood != 0 {
		t.Fatalf("expected junk mood to coerce to 0, got %d", rows[0].Mood)
	}

	if !rows[1].IsActive || rows[1].Mood != 5 {
		t.Fatalf("expected numeric forms to parse, got %+v", rows[1])
	}
	if rows[2].Mood != 0 {
		t.Fatalf("expected negative mood to coerce to 0, got %d", rows[2].Mood)
	}
}

func TestCSVBackendSaveCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data", "habit_data.csv")
	b := NewCSVBackend(path)

	if err := b.Save([]Row{{Date: "2024-01-01", Habit: "Run", Completed: true, IsActive: true}}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected data file to exist: %v", err)
	}
}
