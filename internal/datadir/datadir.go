// Package datadir describes the on-disk layout of the claw data directory.
package datadir

import (
	"path/filepath"
	"strconv"
)

const (
	// TasksDir is the directory holding one file per task.
	TasksDir = "tasks"

	// AggregateBase is the file name, without extension, of the single
	// document used by the aggregate layout.
	AggregateBase = "tasks"

	// TaskExt is the extension of per-task record files.
	TaskExt = ".json"
)

// TasksPath returns the per-task directory inside dataDir.
func TasksPath(dataDir string) string {
	return filepath.Join(dataDir, TasksDir)
}

// TaskPath returns the record file for the task with the given id.
func TaskPath(dataDir string, id uint64) string {
	return filepath.Join(TasksPath(dataDir), TaskFileName(id))
}

// TaskFileName returns the base name of a per-task record file.
func TaskFileName(id uint64) string {
	return strconv.FormatUint(id, 10) + TaskExt
}

// AggregatePath returns the aggregate document for the given format,
// e.g. "tasks.yaml".
func AggregatePath(dataDir, format string) string {
	return filepath.Join(dataDir, AggregateBase+"."+format)
}
