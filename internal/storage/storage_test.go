package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nibzard/taskclaw/internal/config"
	"github.com/nibzard/taskclaw/internal/datadir"
	"github.com/nibzard/taskclaw/internal/logging"
	"github.com/nibzard/taskclaw/internal/task"
)

func fixedClock() func() time.Time {
	ts := time.Date(2024, 5, 30, 8, 0, 0, 0, time.UTC)
	return func() time.Time { return ts }
}

func openStore(t *testing.T, b Backend) *task.Store {
	t.Helper()
	snap, _, err := b.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return task.NewStore(snap, task.WithPersister(b), task.WithClock(fixedClock()))
}

func backends(t *testing.T) map[string]func(dir string) Backend {
	t.Helper()
	mk := func(format string) func(string) Backend {
		return func(dir string) Backend {
			b, err := NewAggregate(dir, format, logging.Discard())
			if err != nil {
				t.Fatalf("NewAggregate(%q) error = %v", format, err)
			}
			return b
		}
	}
	return map[string]func(string) Backend{
		"files":          func(dir string) Backend { return NewFiles(dir, logging.Discard()) },
		"aggregate json": mk(config.FormatJSON),
		"aggregate yaml": mk(config.FormatYAML),
		"aggregate toml": mk(config.FormatTOML),
	}
}

func TestRoundTrip(t *testing.T) {
	due := time.Date(2024, 6, 1, 17, 30, 0, 0, time.UTC)

	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			s := openStore(t, open(dir))
			if _, err := s.Add("Task 1"); err != nil {
				t.Fatal(err)
			}
			if _, err := s.Add("Task 2", task.WithTags("home", "garden"), task.WithProject("chores"), task.WithDue(due)); err != nil {
				t.Fatal(err)
			}
			if _, err := s.Add("Task 3"); err != nil {
				t.Fatal(err)
			}
			if ok, err := s.Complete(task.IDRef(1)); !ok || err != nil {
				t.Fatalf("Complete() = %v, %v", ok, err)
			}
			if ok, err := s.Remove(task.IDRef(0)); !ok || err != nil {
				t.Fatalf("Remove() = %v, %v", ok, err)
			}
			want := s.Snapshot()

			reloaded := openStore(t, open(dir))
			got := reloaded.Snapshot()
			if len(got.Tasks) != 2 {
				t.Fatalf("reloaded %d tasks, want 2", len(got.Tasks))
			}
			for i := range want.Tasks {
				if !sameTask(want.Tasks[i], got.Tasks[i]) {
					t.Errorf("task %d = %+v, want %+v", i, got.Tasks[i], want.Tasks[i])
				}
			}
			if reloaded.NextID() != 3 {
				t.Errorf("NextID() = %d, want 3", reloaded.NextID())
			}
			if lines := []string{got.Tasks[0].String(), got.Tasks[1].String()}; lines[0] != "✓ [1] Task 2" || lines[1] != "○ [2] Task 3" {
				t.Errorf("listing = %q", lines)
			}
		})
	}
}

func TestLoadMissingDataIsEmpty(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			snap, report, err := open(filepath.Join(t.TempDir(), "absent")).Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if len(snap.Tasks) != 0 || snap.NextID != 0 {
				t.Errorf("snapshot = %+v, want empty", snap)
			}
			if !report.OK() {
				t.Errorf("report = %+v", report)
			}
		})
	}
}

func TestFilesLayout(t *testing.T) {
	dir := t.TempDir()
	s := openStore(t, NewFiles(dir, logging.Discard()))
	added, err := s.Add("Write docs")
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(datadir.TaskPath(dir, added.ID))
	if err != nil {
		t.Fatalf("record not written: %v", err)
	}
	text := string(data)
	if !strings.HasPrefix(text, "{\n  \"id\": 0,") {
		t.Errorf("record is not 2-space indented JSON:\n%s", text)
	}
	if !strings.HasSuffix(text, "}\n") {
		t.Error("record lacks trailing newline")
	}
	if err := ValidateRecord(data); err != nil {
		t.Errorf("written record fails schema: %v", err)
	}

	entries, err := os.ReadDir(datadir.TasksPath(dir))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("tasks dir has %d entries, want 1 (temp files left behind?)", len(entries))
	}
}

func TestFilesLoadSkipsBadRecords(t *testing.T) {
	dir := t.TempDir()
	tasksDir := datadir.TasksPath(dir)
	if err := os.MkdirAll(tasksDir, 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"0.json":     `{"id": 0, "uuid": "0190b6d2-5c1e-7a44-9f0e-3c2b1a9d8e7f", "title": "good", "completed": false}`,
		"4.json":     `{"id": 4, "uuid": "0190b6d2-5c1e-7a44-9f0e-3c2b1a9d8e80", "title": "also good", "completed": true}`,
		"5.json":     `{"id": 5, "title": `,
		"6.json":     `{"id": "six", "title": "bad id", "completed": false}`,
		"7.json":     `{"id": 8, "uuid": "0190b6d2-5c1e-7a44-9f0e-3c2b1a9d8e81", "title": "misfiled", "completed": false}`,
		"notes.txt":  "not a task",
		"9.json.tmp": "{}",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(tasksDir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	snap, report, err := NewFiles(dir, logging.Discard()).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(snap.Tasks) != 2 || snap.Tasks[0].ID != 0 || snap.Tasks[1].ID != 4 {
		t.Fatalf("tasks = %+v", snap.Tasks)
	}
	if snap.NextID != 5 {
		t.Errorf("NextID = %d, want 5", snap.NextID)
	}
	if report.Loaded != 2 || len(report.Skipped) != 3 {
		t.Fatalf("report = loaded %d, skipped %v", report.Loaded, report.Skipped)
	}
	var schemaErrs int
	for _, rec := range report.Skipped {
		var se *SchemaError
		if errors.As(rec, &se) {
			schemaErrs++
		}
	}
	if schemaErrs != 1 {
		t.Errorf("schema errors = %d, want 1 (the bad id)", schemaErrs)
	}
}

func TestFilesLoadBackfillsUUID(t *testing.T) {
	dir := t.TempDir()
	path := datadir.TaskPath(dir, 2)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(`{"id": 2, "title": "old", "completed": false}`), 0o644); err != nil {
		t.Fatal(err)
	}

	b := NewFiles(dir, logging.Discard())
	snap, report, err := b.Load()
	if err != nil {
		t.Fatal(err)
	}
	if snap.Tasks[0].UUID == uuid.Nil {
		t.Fatal("uuid was not assigned")
	}
	if len(report.Repaired) != 1 {
		t.Errorf("Repaired = %v", report.Repaired)
	}
	again, _, err := b.Load()
	if err != nil {
		t.Fatal(err)
	}
	if again.Tasks[0].UUID != snap.Tasks[0].UUID {
		t.Error("assigned uuid was not persisted")
	}
}

func TestFilesDeleteMissingIsSuccess(t *testing.T) {
	b := NewFiles(t.TempDir(), logging.Discard())
	if err := b.Delete(task.Task{ID: 42}, task.Snapshot{}); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
}

func TestWriteFailureRollsBack(t *testing.T) {
	dir := t.TempDir()
	// A regular file where the tasks directory should be makes every write fail.
	if err := os.WriteFile(datadir.TasksPath(dir), []byte("in the way"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := task.NewStore(task.Snapshot{}, task.WithPersister(NewFiles(dir, logging.Discard())))

	if _, err := s.Add("doomed"); err == nil {
		t.Fatal("Add() succeeded despite unwritable data dir")
	}
	if !s.IsEmpty() || s.NextID() != 0 {
		t.Errorf("store changed after failed write: len %d next %d", s.Len(), s.NextID())
	}
}

func TestAggregateCorruptDocument(t *testing.T) {
	dir := t.TempDir()
	b, err := NewAggregate(dir, config.FormatYAML, logging.Discard())
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b.Path(), []byte("tasks: [unclosed\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	snap, report, err := b.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(snap.Tasks) != 0 {
		t.Errorf("tasks = %+v, want none", snap.Tasks)
	}
	if report.OK() || report.Skipped[0].Path != b.Path() {
		t.Errorf("report = %+v", report)
	}
}

func TestAggregateDropsDuplicates(t *testing.T) {
	dir := t.TempDir()
	b, err := NewAggregate(dir, config.FormatJSON, logging.Discard())
	if err != nil {
		t.Fatal(err)
	}
	doc := `{
  "next_id": 6,
  "tasks": [
    {"id": 3, "uuid": "0190b6d2-5c1e-7a44-9f0e-3c2b1a9d8e7f", "title": "first", "completed": false},
    {"id": 3, "uuid": "0190b6d2-5c1e-7a44-9f0e-3c2b1a9d8e80", "title": "same id", "completed": false},
    {"id": 4, "uuid": "0190b6d2-5c1e-7a44-9f0e-3c2b1a9d8e7f", "title": "same uuid", "completed": false},
    {"id": 5, "uuid": "0190b6d2-5c1e-7a44-9f0e-3c2b1a9d8e81", "title": "other", "completed": true}
  ]
}`
	if err := os.WriteFile(b.Path(), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	s, report, err := OpenStore(b)
	if err != nil {
		t.Fatalf("OpenStore() error = %v", err)
	}
	if report.Loaded != 2 || len(report.Skipped) != 2 {
		t.Fatalf("report = loaded %d, skipped %v", report.Loaded, report.Skipped)
	}
	for i, want := range []string{"tasks[1]", "tasks[2]"} {
		if !strings.Contains(report.Skipped[i].Path, want) {
			t.Errorf("skipped[%d] = %v, want %s", i, report.Skipped[i], want)
		}
	}
	if got, _ := s.Get(task.IDRef(3)); got.Title != "first" {
		t.Errorf("Get(3) = %+v, want the first record", got)
	}

	if ok, err := s.Remove(task.IDRef(3)); !ok || err != nil {
		t.Fatalf("Remove(3) = %v, %v", ok, err)
	}
	if _, found := s.Get(task.IDRef(3)); found {
		t.Error("task 3 still present after remove")
	}
	if s.NextID() != 6 {
		t.Errorf("NextID() = %d, want 6", s.NextID())
	}
}

func TestFilesDropsDuplicateUUID(t *testing.T) {
	dir := t.TempDir()
	tasksDir := datadir.TasksPath(dir)
	if err := os.MkdirAll(tasksDir, 0o755); err != nil {
		t.Fatal(err)
	}
	records := map[string]string{
		"0.json": `{"id": 0, "uuid": "0190b6d2-5c1e-7a44-9f0e-3c2b1a9d8e7f", "title": "original", "completed": false}`,
		"1.json": `{"id": 1, "uuid": "0190b6d2-5c1e-7a44-9f0e-3c2b1a9d8e7f", "title": "copy", "completed": false}`,
	}
	for name, content := range records {
		if err := os.WriteFile(filepath.Join(tasksDir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	snap, report, err := NewFiles(dir, logging.Discard()).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(snap.Tasks) != 1 || snap.Tasks[0].Title != "original" {
		t.Fatalf("tasks = %+v", snap.Tasks)
	}
	if len(report.Skipped) != 1 || report.Skipped[0].Path != filepath.Join(tasksDir, "1.json") {
		t.Errorf("skipped = %v", report.Skipped)
	}
}

func TestFilesUnreadableDirIsReported(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(datadir.TasksPath(dir), []byte("in the way"), 0o644); err != nil {
		t.Fatal(err)
	}

	snap, report, err := NewFiles(dir, logging.Discard()).Load()
	if err != nil {
		t.Fatalf("Load() error = %v, want it reported instead", err)
	}
	if len(snap.Tasks) != 0 || snap.NextID != 0 {
		t.Errorf("snapshot = %+v, want empty", snap)
	}
	if report.OK() || report.Skipped[0].Path != datadir.TasksPath(dir) {
		t.Errorf("report = %+v", report)
	}
}

func TestAggregateKeepsCounter(t *testing.T) {
	dir := t.TempDir()
	b, err := NewAggregate(dir, config.FormatJSON, logging.Discard())
	if err != nil {
		t.Fatal(err)
	}
	s := openStore(t, b)
	for _, title := range []string{"a", "b"} {
		if _, err := s.Add(title); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := s.Remove(task.IDRef(1)); err != nil {
		t.Fatal(err)
	}

	reloaded := openStore(t, b)
	if reloaded.NextID() != 2 {
		t.Errorf("NextID() = %d, want 2 (ids are not reused)", reloaded.NextID())
	}
}

func TestFlush(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			b := open(dir)
			s := openStore(t, b)
			for _, title := range []string{"keep", "change", "drop"} {
				if _, err := s.Add(title); err != nil {
					t.Fatal(err)
				}
			}

			before := s.Snapshot()
			session := s.Detached()
			if _, err := session.Toggle(task.IDRef(1)); err != nil {
				t.Fatal(err)
			}
			if _, err := session.Remove(task.IDRef(2)); err != nil {
				t.Fatal(err)
			}
			if _, err := session.Add("new"); err != nil {
				t.Fatal(err)
			}
			if err := b.Flush(before, session.Snapshot()); err != nil {
				t.Fatalf("Flush() error = %v", err)
			}

			got := openStore(t, open(dir)).Tasks()
			if len(got) != 3 {
				t.Fatalf("reloaded %d tasks, want 3: %+v", len(got), got)
			}
			if got[0].Title != "keep" || got[1].Title != "change" || !got[1].Completed || got[2].Title != "new" || got[2].ID != 3 {
				t.Errorf("reloaded = %+v", got)
			}
		})
	}
}

func TestFlushUnchangedWritesNothing(t *testing.T) {
	dir := t.TempDir()
	b, err := NewAggregate(dir, config.FormatTOML, logging.Discard())
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Flush(task.Snapshot{}, task.Snapshot{}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(b.Path()); !os.IsNotExist(err) {
		t.Errorf("document created for an unchanged session: %v", err)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		cfg     config.Config
		want    string
		wantErr bool
	}{
		{name: "files", cfg: config.Config{DataDir: dir, Storage: "files", DataFormat: "json"}, want: "files"},
		{name: "aggregate", cfg: config.Config{DataDir: dir, Storage: "aggregate", DataFormat: "toml"}, want: "aggregate toml"},
		{name: "bad format", cfg: config.Config{DataDir: dir, Storage: "aggregate", DataFormat: "xml"}, wantErr: true},
		{name: "bad layout", cfg: config.Config{DataDir: dir, Storage: "sqlite"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Open(&tt.cfg, nil)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Open() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			if !strings.HasPrefix(b.Describe(), tt.want) {
				t.Errorf("Describe() = %q, want prefix %q", b.Describe(), tt.want)
			}
		})
	}
}

func TestValidateRecord(t *testing.T) {
	tests := []struct {
		name    string
		record  string
		wantErr bool
	}{
		{name: "minimal", record: `{"id": 1, "title": "x", "completed": false}`},
		{name: "full", record: `{"id": 1, "uuid": "0190b6d2-5c1e-7a44-9f0e-3c2b1a9d8e7f", "title": "x", "completed": true, "tags": ["a"], "project": "p", "due": "2024-06-01T00:00:00Z", "created_at": "2024-05-30T08:00:00Z", "updated_at": "2024-05-30T08:00:00Z"}`},
		{name: "missing title", record: `{"id": 1, "completed": false}`, wantErr: true},
		{name: "negative id", record: `{"id": -1, "title": "x", "completed": false}`, wantErr: true},
		{name: "fractional id", record: `{"id": 1.5, "title": "x", "completed": false}`, wantErr: true},
		{name: "bad uuid", record: `{"id": 1, "uuid": "nope", "title": "x", "completed": false}`, wantErr: true},
		{name: "bad date", record: `{"id": 1, "title": "x", "completed": false, "due": "tomorrow"}`, wantErr: true},
		{name: "not json", record: `{`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRecord([]byte(tt.record))
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRecord() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
