package storage

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/nibzard/taskclaw/internal/config"
	"github.com/nibzard/taskclaw/internal/logging"
	"github.com/nibzard/taskclaw/internal/task"
)

// Backend is a persistence layout for a task store.
type Backend interface {
	task.Persister

	// Load reads the persisted state. Unusable records, and a location that
	// cannot be read at all, are reported rather than returned as errors.
	Load() (task.Snapshot, *LoadReport, error)

	// Flush writes the difference between before and after, as produced by
	// an in-memory session over a detached store.
	Flush(before, after task.Snapshot) error

	// Describe names the layout and location for diagnostics.
	Describe() string
}

// RecordError describes a persisted record that could not be used.
type RecordError struct {
	Path string
	Err  error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *RecordError) Unwrap() error {
	return e.Err
}

// LoadReport summarizes a Load.
type LoadReport struct {
	Source   string
	Loaded   int
	Skipped  []*RecordError
	Repaired []string
}

// OK reports whether every record was usable.
func (r *LoadReport) OK() bool {
	return r == nil || len(r.Skipped) == 0
}

func (r *LoadReport) skip(path string, err error) {
	r.Skipped = append(r.Skipped, &RecordError{Path: path, Err: err})
}

// Open returns the backend selected by cfg. A nil logger discards output.
func Open(cfg *config.Config, logger *log.Logger) (Backend, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	switch strings.ToLower(cfg.Storage) {
	case config.StorageFiles, "":
		return NewFiles(cfg.DataDir, logger), nil
	case config.StorageAggregate:
		return NewAggregate(cfg.DataDir, cfg.DataFormat, logger)
	default:
		return nil, fmt.Errorf("unknown storage layout %q", cfg.Storage)
	}
}

// OpenStore loads the backend's state into a store that persists through it.
func OpenStore(b Backend) (*task.Store, *LoadReport, error) {
	snap, report, err := b.Load()
	if err != nil {
		return nil, nil, err
	}
	return task.NewStore(snap, task.WithPersister(b)), report, nil
}

// dropDuplicates keeps the first task for each id and each uuid. Later
// duplicates are skipped and reported under label(i).
func dropDuplicates(tasks []task.Task, label func(i int) string, report *LoadReport, logger *log.Logger) []task.Task {
	ids := make(map[uint64]bool, len(tasks))
	uuids := make(map[uuid.UUID]bool, len(tasks))
	var kept []task.Task
	for i, t := range tasks {
		var err error
		switch {
		case ids[t.ID]:
			err = fmt.Errorf("duplicate id %d", t.ID)
		case t.UUID != uuid.Nil && uuids[t.UUID]:
			err = fmt.Errorf("duplicate uuid %s", t.UUID)
		}
		if err != nil {
			logger.Warn("skipping duplicate task", "record", label(i), "err", err)
			report.skip(label(i), err)
			continue
		}
		ids[t.ID] = true
		if t.UUID != uuid.Nil {
			uuids[t.UUID] = true
		}
		kept = append(kept, t)
	}
	return kept
}
