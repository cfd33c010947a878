// Package task holds the task list model and the manager that owns it.
package task

import (
	"errors"

	"github.com/google/uuid"
)

// MaxImportTextLen is the rune limit applied to imported task text.
const MaxImportTextLen = 200

var (
	// ErrNotFound reports that no task has the requested id. The list is unchanged.
	ErrNotFound = errors.New("task not found")

	// ErrEmptyText reports that the text was empty after trimming. Nothing was added.
	ErrEmptyText = errors.New("task text is empty")
)

// Task is a single to-do item.
type Task struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	Created   int64  `json:"created"` // milliseconds since the Unix epoch
}

// NewID returns a short opaque id made of a millisecond timestamp and random bits.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// The random source failed; a v4 id keeps ids unique without the time prefix.
		return uuid.NewString()
	}
	return id.String()
}

// OpenCount returns the number of tasks that are not completed.
func OpenCount(tasks []Task) int {
	n := 0
	for _, t := range tasks {
		if !t.Completed {
			n++
		}
	}
	return n
}
