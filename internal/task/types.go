package task

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Task is a single trackable unit of work.
type Task struct {
	ID        uint64     `json:"id" yaml:"id" toml:"id"`
	UUID      uuid.UUID  `json:"uuid" yaml:"uuid" toml:"uuid"`
	Title     string     `json:"title" yaml:"title" toml:"title"`
	Completed bool       `json:"completed" yaml:"completed" toml:"completed"`
	Tags      []string   `json:"tags,omitempty" yaml:"tags,omitempty" toml:"tags,omitempty"`
	Project   string     `json:"project,omitempty" yaml:"project,omitempty" toml:"project,omitempty"`
	Due       *time.Time `json:"due,omitempty" yaml:"due,omitempty" toml:"due,omitempty"`
	CreatedAt time.Time  `json:"created_at" yaml:"created_at" toml:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" yaml:"updated_at" toml:"updated_at"`
}

// StatusIcon returns the glyph used when listing the task.
func (t Task) StatusIcon() string {
	if t.Completed {
		return "✓"
	}
	return "○"
}

// String renders the task the way the list command prints it.
func (t Task) String() string {
	return fmt.Sprintf("%s [%d] %s", t.StatusIcon(), t.ID, t.Title)
}

func (t Task) clone() Task {
	c := t
	if t.Tags != nil {
		c.Tags = append([]string(nil), t.Tags...)
	}
	if t.Due != nil {
		due := *t.Due
		c.Due = &due
	}
	return c
}

// Snapshot is the persistable state of a store: its tasks in insertion
// order plus the next identifier to hand out.
type Snapshot struct {
	NextID uint64 `json:"next_id" yaml:"next_id" toml:"next_id"`
	Tasks  []Task `json:"tasks" yaml:"tasks" toml:"tasks"`
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	c := Snapshot{NextID: s.NextID, Tasks: make([]Task, len(s.Tasks))}
	for i, t := range s.Tasks {
		c.Tasks[i] = t.clone()
	}
	return c
}

// MaxID returns the largest identifier in the snapshot and whether there
// was any task at all.
func (s Snapshot) MaxID() (uint64, bool) {
	var hi uint64
	for i, t := range s.Tasks {
		if i == 0 || t.ID > hi {
			hi = t.ID
		}
	}
	return hi, len(s.Tasks) > 0
}

// normalize raises NextID above every identifier present.
func (s *Snapshot) normalize() {
	if hi, ok := s.MaxID(); ok && s.NextID <= hi {
		s.NextID = hi + 1
	}
}

// Persister writes store mutations to durable storage. The snapshot passed
// alongside each call is the state the store will hold once the call
// succeeds.
type Persister interface {
	Put(changed Task, after Snapshot) error
	Delete(removed Task, after Snapshot) error
}
