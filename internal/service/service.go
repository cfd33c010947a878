// Package service defines the backend-agnostic interface for remote task lists.
package service

import "context"

// Service defines the operations push needs from a remote task backend.
// All Google Tasks API calls go through this interface.
// Commands never import Google SDK directly.
type Service interface {
	// DefaultList returns the user's default task list.
	DefaultList(ctx context.Context) (TaskList, error)

	// ListLists returns all task lists in API order.
	ListLists(ctx context.Context) ([]TaskList, error)

	// ResolveList finds a list by name (case-insensitive, trimmed).
	// Returns error if not found or ambiguous.
	ResolveList(ctx context.Context, name string) (TaskList, error)

	// CreateTask creates a task in the specified list.
	CreateTask(ctx context.Context, listID string, task Task) error
}
