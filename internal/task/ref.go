package task

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidRef is returned when a task reference is neither an unsigned
// integer nor a UUID.
var ErrInvalidRef = errors.New("invalid task id or uuid")

// RefKind says which identifier a Ref carries.
type RefKind int

const (
	RefByID RefKind = iota
	RefByUUID
)

// Ref identifies a task by integer id or by UUID.
type Ref struct {
	Kind RefKind
	ID   uint64
	UUID uuid.UUID
}

// IDRef returns a reference to the task with the given integer id.
func IDRef(id uint64) Ref {
	return Ref{Kind: RefByID, ID: id}
}

// UUIDRef returns a reference to the task with the given UUID.
func UUIDRef(u uuid.UUID) Ref {
	return Ref{Kind: RefByUUID, UUID: u}
}

// ParseRef parses user input into a Ref. An unsigned integer parse is
// tried first, so "12" is always an id and never a (malformed) UUID.
func ParseRef(s string) (Ref, error) {
	s = strings.TrimSpace(s)
	if id, err := strconv.ParseUint(s, 10, 64); err == nil {
		return IDRef(id), nil
	}
	if u, err := uuid.Parse(s); err == nil {
		return UUIDRef(u), nil
	}
	return Ref{}, fmt.Errorf("%w: %s", ErrInvalidRef, s)
}

// Matches reports whether t is the task the reference points at.
func (r Ref) Matches(t Task) bool {
	if r.Kind == RefByUUID {
		return t.UUID == r.UUID
	}
	return t.ID == r.ID
}

func (r Ref) String() string {
	if r.Kind == RefByUUID {
		return r.UUID.String()
	}
	return strconv.FormatUint(r.ID, 10)
}
