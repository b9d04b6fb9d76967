package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/nibzard/taskclaw/internal/datadir"
	"github.com/nibzard/taskclaw/internal/task"
)

// Files keeps one JSON record per task under <data_dir>/tasks.
type Files struct {
	dataDir string
	logger  *log.Logger
}

// NewFiles returns the per-task files backend rooted at dataDir.
func NewFiles(dataDir string, logger *log.Logger) *Files {
	return &Files{dataDir: dataDir, logger: logger}
}

// Describe implements Backend.
func (f *Files) Describe() string {
	return "files (" + datadir.TasksPath(f.dataDir) + ")"
}

// Load reads every *.json record, sorted by id. The next id is one past the
// largest id found.
func (f *Files) Load() (task.Snapshot, *LoadReport, error) {
	dir := datadir.TasksPath(f.dataDir)
	report := &LoadReport{Source: dir}

	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		f.logger.Debug("no task directory yet", "dir", dir)
		return task.Snapshot{}, report, nil
	}
	if err != nil {
		err = fmt.Errorf("read task directory: %w", err)
		f.logger.Warn("cannot read task directory", "dir", dir, "err", err)
		report.skip(dir, err)
		return task.Snapshot{}, report, nil
	}

	var (
		snap  task.Snapshot
		paths []string
	)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), datadir.TaskExt) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		t, err := readRecord(path)
		if err != nil {
			f.logger.Warn("skipping task file", "path", path, "err", err)
			report.skip(path, err)
			continue
		}
		if want := datadir.TaskFileName(t.ID); entry.Name() != want {
			err := fmt.Errorf("record id %d does not match file name", t.ID)
			f.logger.Warn("skipping task file", "path", path, "err", err)
			report.skip(path, err)
			continue
		}
		if f.backfill(&t) {
			if err := f.writeTask(t); err != nil {
				f.logger.Warn("could not upgrade task file", "path", path, "err", err)
			} else {
				report.Repaired = append(report.Repaired, path)
			}
		}
		snap.Tasks = append(snap.Tasks, t)
		paths = append(paths, path)
	}
	snap.Tasks = dropDuplicates(snap.Tasks, func(i int) string { return paths[i] }, report, f.logger)

	sort.Slice(snap.Tasks, func(i, j int) bool {
		return snap.Tasks[i].ID < snap.Tasks[j].ID
	})
	if hi, ok := snap.MaxID(); ok {
		snap.NextID = hi + 1
	}
	report.Loaded = len(snap.Tasks)
	f.logger.Debug("loaded tasks", "count", report.Loaded, "skipped", len(report.Skipped))
	return snap, report, nil
}

// backfill assigns the fields that records written by older versions lack.
func (f *Files) backfill(t *task.Task) bool {
	changed := false
	if t.UUID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return false
		}
		t.UUID = id
		changed = true
	}
	if t.CreatedAt.IsZero() && !t.UpdatedAt.IsZero() {
		t.CreatedAt = t.UpdatedAt
		changed = true
	}
	return changed
}

func readRecord(path string) (task.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return task.Task{}, err
	}
	if err := ValidateRecord(data); err != nil {
		return task.Task{}, err
	}
	var t task.Task
	if err := json.Unmarshal(data, &t); err != nil {
		return task.Task{}, fmt.Errorf("decode record: %w", err)
	}
	return t, nil
}

// Put writes the changed task's record.
func (f *Files) Put(changed task.Task, _ task.Snapshot) error {
	return f.writeTask(changed)
}

// Delete removes the task's record. A record that is already gone counts
// as deleted.
func (f *Files) Delete(removed task.Task, _ task.Snapshot) error {
	path := datadir.TaskPath(f.dataDir, removed.ID)
	if err := removeIfExists(path); err != nil {
		return fmt.Errorf("remove task file: %w", err)
	}
	f.logger.Debug("removed task file", "path", path)
	return nil
}

// Flush writes new and changed records and deletes records of tasks that
// no longer exist. It keeps going after a failure and returns all errors.
func (f *Files) Flush(before, after task.Snapshot) error {
	old := make(map[uint64]task.Task, len(before.Tasks))
	for _, t := range before.Tasks {
		old[t.ID] = t
	}

	var errs []error
	for _, t := range after.Tasks {
		prev, existed := old[t.ID]
		delete(old, t.ID)
		if existed && sameTask(prev, t) {
			continue
		}
		if err := f.writeTask(t); err != nil {
			errs = append(errs, err)
		}
	}
	for _, t := range old {
		if err := f.Delete(t, after); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f *Files) writeTask(t task.Task) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal task %d: %w", t.ID, err)
	}
	data = append(data, '\n')

	path := datadir.TaskPath(f.dataDir, t.ID)
	if err := writeFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write task file: %w", err)
	}
	f.logger.Debug("wrote task file", "path", path)
	return nil
}

func sameTask(a, b task.Task) bool {
	if a.ID != b.ID || a.UUID != b.UUID || a.Title != b.Title || a.Completed != b.Completed || a.Project != b.Project {
		return false
	}
	if !a.CreatedAt.Equal(b.CreatedAt) || !a.UpdatedAt.Equal(b.UpdatedAt) {
		return false
	}
	if (a.Due == nil) != (b.Due == nil) || (a.Due != nil && !a.Due.Equal(*b.Due)) {
		return false
	}
	if len(a.Tags) != len(b.Tags) {
		return false
	}
	for i := range a.Tags {
		if a.Tags[i] != b.Tags[i] {
			return false
		}
	}
	return true
}

