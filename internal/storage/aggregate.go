package storage

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskclaw/internal/datadir"
	"github.com/nibzard/taskclaw/internal/task"
)

// Aggregate keeps the whole store in one document, rewritten on every change.
type Aggregate struct {
	path   string
	format string
	codec  codec
	logger *log.Logger
}

// NewAggregate returns the single-document backend for the given format.
func NewAggregate(dataDir, format string, logger *log.Logger) (*Aggregate, error) {
	c, err := codecFor(format)
	if err != nil {
		return nil, err
	}
	return &Aggregate{
		path:   datadir.AggregatePath(dataDir, format),
		format: format,
		codec:  c,
		logger: logger,
	}, nil
}

// Path returns the document location.
func (a *Aggregate) Path() string {
	return a.path
}

// Describe implements Backend.
func (a *Aggregate) Describe() string {
	return "aggregate " + a.format + " (" + a.path + ")"
}

// Load reads the document. A missing document is an empty store; one that
// cannot be decoded is reported and also yields an empty store. Records
// repeating an earlier id or uuid are reported and dropped.
func (a *Aggregate) Load() (task.Snapshot, *LoadReport, error) {
	report := &LoadReport{Source: a.path}

	data, err := os.ReadFile(a.path)
	if errors.Is(err, os.ErrNotExist) {
		a.logger.Debug("no task document yet", "path", a.path)
		return task.Snapshot{}, report, nil
	}
	if err != nil {
		a.logger.Warn("cannot read task document", "path", a.path, "err", err)
		report.skip(a.path, err)
		return task.Snapshot{}, report, nil
	}

	var snap task.Snapshot
	if err := a.codec.Unmarshal(data, &snap); err != nil {
		err = fmt.Errorf("decode %s document: %w", a.format, err)
		a.logger.Warn("ignoring task document", "path", a.path, "err", err)
		report.skip(a.path, err)
		return task.Snapshot{}, report, nil
	}

	snap.Tasks = dropDuplicates(snap.Tasks, func(i int) string {
		return fmt.Sprintf("%s tasks[%d]", a.path, i)
	}, report, a.logger)

	report.Loaded = len(snap.Tasks)
	a.logger.Debug("loaded tasks", "count", report.Loaded, "next_id", snap.NextID)
	return snap, report, nil
}

// Put rewrites the document with the post-change state.
func (a *Aggregate) Put(_ task.Task, after task.Snapshot) error {
	return a.write(after)
}

// Delete rewrites the document with the post-change state.
func (a *Aggregate) Delete(_ task.Task, after task.Snapshot) error {
	return a.write(after)
}

// Flush rewrites the document when the session changed anything.
func (a *Aggregate) Flush(before, after task.Snapshot) error {
	if sameSnapshot(before, after) {
		return nil
	}
	return a.write(after)
}

func (a *Aggregate) write(s task.Snapshot) error {
	if s.Tasks == nil {
		s.Tasks = []task.Task{}
	}
	data, err := a.codec.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode %s document: %w", a.format, err)
	}
	if err := writeFileAtomic(a.path, data, 0o644); err != nil {
		return fmt.Errorf("write task document: %w", err)
	}
	a.logger.Debug("wrote task document", "path", a.path, "tasks", len(s.Tasks))
	return nil
}

func sameSnapshot(a, b task.Snapshot) bool {
	if a.NextID != b.NextID || len(a.Tasks) != len(b.Tasks) {
		return false
	}
	for i := range a.Tasks {
		if !sameTask(a.Tasks[i], b.Tasks[i]) {
			return false
		}
	}
	return true
}
