package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"todo/internal/kv"
	"todo/internal/logger"
	"todo/internal/task"
)

// FixedTime is the clock NewManager's tasks are stamped with.
var FixedTime = time.UnixMilli(1700000000000)

// NewManager returns a task.Manager over a memory store with a fixed clock,
// sequential ids (id-1, id-2, ...) and synchronous writes. texts are added
// in order, so the last one ends up first.
func NewManager(t *testing.T, texts ...string) (*task.Manager, *kv.Memory) {
	t.Helper()

	store := kv.NewMemory()
	n := 0
	m := task.NewManager(store,
		task.WithClock(func() time.Time { return FixedTime }),
		task.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
		task.WithDebounce(0),
		task.WithLogger(logger.Discard()),
	)

	ctx := context.Background()
	for _, text := range texts {
		if _, err := m.Add(ctx, text); err != nil {
			t.Fatalf("seed %q: %v", text, err)
		}
	}
	t.Cleanup(func() { m.Close(context.Background()) })
	return m, store
}
