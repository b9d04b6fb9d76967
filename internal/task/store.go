package task

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Store is the ordered task collection for one run of the program.
// It is not safe for concurrent use.
type Store struct {
	tasks     []Task
	nextID    uint64
	persister Persister
	now       func() time.Time
	newUUID   func() (uuid.UUID, error)
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithPersister makes every mutation go through p before it is committed.
func WithPersister(p Persister) StoreOption {
	return func(s *Store) {
		s.persister = p
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore builds a store from a loaded snapshot. The snapshot is copied
// and its counter repaired if it does not exceed every present id.
func NewStore(snap Snapshot, opts ...StoreOption) *Store {
	snap = snap.Clone()
	snap.normalize()
	s := &Store{
		tasks:   snap.Tasks,
		nextID:  snap.NextID,
		now:     time.Now,
		newUUID: uuid.NewV7,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Detached returns an in-memory copy of s that shares nothing with it.
func (s *Store) Detached() *Store {
	return NewStore(s.Snapshot(), WithClock(s.now))
}

// AddOption sets optional fields on a task being added.
type AddOption func(*Task)

// WithTags sets the task's tags.
func WithTags(tags ...string) AddOption {
	return func(t *Task) {
		if len(tags) > 0 {
			t.Tags = append([]string(nil), tags...)
		}
	}
}

// WithProject sets the task's project.
func WithProject(project string) AddOption {
	return func(t *Task) {
		t.Project = project
	}
}

// WithDue sets the task's due date.
func WithDue(due time.Time) AddOption {
	return func(t *Task) {
		d := due.UTC()
		t.Due = &d
	}
}

// Add appends a new pending task and returns it. Titles are not validated
// here; callers reject empty input at their boundary.
func (s *Store) Add(title string, opts ...AddOption) (Task, error) {
	id, err := s.newUUID()
	if err != nil {
		return Task{}, fmt.Errorf("generate task uuid: %w", err)
	}
	now := s.now().UTC()
	t := Task{
		ID:        s.nextID,
		UUID:      id,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(&t)
	}

	after := s.Snapshot()
	after.Tasks = append(after.Tasks, t.clone())
	after.NextID = s.nextID + 1
	if s.persister != nil {
		if err := s.persister.Put(t, after); err != nil {
			return Task{}, fmt.Errorf("save task %d: %w", t.ID, err)
		}
	}

	s.tasks = append(s.tasks, t)
	s.nextID++
	return t.clone(), nil
}

// Complete marks the referenced task as done. It reports false when no
// task matches or when the change could not be persisted; in the latter
// case the error is non-nil and the task is left as it was.
func (s *Store) Complete(ref Ref) (bool, error) {
	return s.SetCompleted(ref, true)
}

// SetCompleted sets the completion flag of the referenced task.
func (s *Store) SetCompleted(ref Ref, done bool) (bool, error) {
	i := s.indexOf(ref)
	if i < 0 {
		return false, nil
	}
	return s.update(i, func(t *Task) {
		t.Completed = done
	})
}

// Toggle flips the completion flag of the referenced task.
func (s *Store) Toggle(ref Ref) (bool, error) {
	i := s.indexOf(ref)
	if i < 0 {
		return false, nil
	}
	return s.update(i, func(t *Task) {
		t.Completed = !t.Completed
	})
}

func (s *Store) update(i int, fn func(*Task)) (bool, error) {
	changed := s.tasks[i].clone()
	fn(&changed)
	changed.UpdatedAt = s.now().UTC()

	if s.persister != nil {
		after := s.Snapshot()
		after.Tasks[i] = changed.clone()
		if err := s.persister.Put(changed, after); err != nil {
			return false, fmt.Errorf("save task %d: %w", changed.ID, err)
		}
	}
	s.tasks[i] = changed
	return true, nil
}

// Remove deletes the referenced task. If the persisted copy cannot be
// deleted the task stays in the store and the error is returned.
func (s *Store) Remove(ref Ref) (bool, error) {
	i := s.indexOf(ref)
	if i < 0 {
		return false, nil
	}
	removed := s.tasks[i]

	if s.persister != nil {
		after := s.Snapshot()
		after.Tasks = append(after.Tasks[:i], after.Tasks[i+1:]...)
		if err := s.persister.Delete(removed, after); err != nil {
			return false, fmt.Errorf("delete task %d: %w", removed.ID, err)
		}
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return true, nil
}

// Get returns the referenced task.
func (s *Store) Get(ref Ref) (Task, bool) {
	i := s.indexOf(ref)
	if i < 0 {
		return Task{}, false
	}
	return s.tasks[i].clone(), true
}

// At returns the task at position i in insertion order.
func (s *Store) At(i int) (Task, bool) {
	if i < 0 || i >= len(s.tasks) {
		return Task{}, false
	}
	return s.tasks[i].clone(), true
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// IsEmpty reports whether the store holds no tasks.
func (s *Store) IsEmpty() bool {
	return len(s.tasks) == 0
}

// Pending returns the number of tasks not yet completed.
func (s *Store) Pending() int {
	n := 0
	for _, t := range s.tasks {
		if !t.Completed {
			n++
		}
	}
	return n
}

// NextID returns the identifier the next Add will assign.
func (s *Store) NextID() uint64 {
	return s.nextID
}

// Tasks returns a copy of all tasks in insertion order.
func (s *Store) Tasks() []Task {
	return s.Snapshot().Tasks
}

// Snapshot returns a deep copy of the store state.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{NextID: s.nextID, Tasks: s.tasks}.Clone()
}

// linear scan; stores stay small
func (s *Store) indexOf(ref Ref) int {
	for i := range s.tasks {
		if ref.Matches(s.tasks[i]) {
			return i
		}
	}
	return -1
}
