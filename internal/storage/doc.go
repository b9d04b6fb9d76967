// Package storage persists a task.Store to the data directory.
//
// Two layouts are supported:
//
//	files      <data_dir>/tasks/<id>.json, one record per task
//	aggregate  <data_dir>/tasks.<json|yaml|toml>, one document for the store
//
// Both implement task.Persister, so every store mutation is written before
// it is committed in memory. Writes replace files atomically. Loading never
// fails because of a bad record: such records are skipped and listed in the
// LoadReport.
package storage
