package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"todo/internal/task"
)

// TaskRef represents a parsed task reference.
type TaskRef struct {
	Pos   int    // 1-based position as printed by list; 0 if ID is set
	ID    string // task id or id prefix
	Exact bool   // ID must match exactly (written as id:<id>)
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// idPrefix marks a reference as an exact task id, so ids made of digits
// can still be addressed.
const idPrefix = "id:"

// ParseTaskRef parses a task reference from the first arg.
//
// Parsing rules:
// 1. No arg or blank arg → error: task reference required
// 2. id:<id> → exact task id
// 3. All digits → position (must be >= 1)
// 4. Anything else → task id or id prefix
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return TaskRef{}, ErrTaskRefRequired
	}

	ref := strings.TrimSpace(args[0])
	if id, ok := strings.CutPrefix(ref, idPrefix); ok {
		if id == "" {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", ref)
		}
		return TaskRef{ID: id, Exact: true}, nil
	}
	if isAllDigits(ref) {
		num, err := strconv.Atoi(ref)
		if err != nil || num < 1 {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", ref)
		}
		return TaskRef{Pos: num}, nil
	}
	return TaskRef{ID: ref}, nil
}

// Resolve finds the task ref points at in tasks. An exact id match anywhere
// in the list wins over prefix matches; otherwise the prefix must be unique.
func (r TaskRef) Resolve(tasks []task.Task) (task.Task, error) {
	if r.Pos > 0 {
		if r.Pos > len(tasks) {
			return task.Task{}, fmt.Errorf("task not found: %d", r.Pos)
		}
		return tasks[r.Pos-1], nil
	}

	for _, t := range tasks {
		if t.ID == r.ID {
			return t, nil
		}
	}
	if r.Exact {
		return task.Task{}, fmt.Errorf("task not found: %s", r.ID)
	}

	var match *task.Task
	for i := range tasks {
		if !strings.HasPrefix(tasks[i].ID, r.ID) {
			continue
		}
		if match != nil {
			return task.Task{}, fmt.Errorf("ambiguous task reference: %s", r.ID)
		}
		match = &tasks[i]
	}
	if match == nil {
		return task.Task{}, fmt.Errorf("task not found: %s", r.ID)
	}
	return *match, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
