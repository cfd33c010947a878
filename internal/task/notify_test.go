package task

import (
	"testing"

	"todo/internal/kv"
	"todo/internal/logger"
)

func TestNotifyRender_DropsOlderVersion(t *testing.T) {
	m := NewManager(kv.NewMemory(), WithLogger(logger.Discard()))

	var got [][]Task
	var counts []int
	m.Subscribe(ViewFuncs{
		OnRender: func(tasks []Task) { got = append(got, tasks) },
		OnCount:  func(open int) { counts = append(counts, open) },
	})

	newer := []Task{{ID: "b"}, {ID: "a"}}
	older := []Task{{ID: "a"}}

	m.notifyRender(2, newer)
	m.notifyRender(1, older)
	m.notify(2, func(v View) { v.RenderCount(2) })
	m.notify(1, func(v View) { v.RenderCount(1) })

	if len(got) != 1 || len(got[0]) != 2 {
		t.Errorf("expected only the newer render, got %+v", got)
	}
	if len(counts) != 1 || counts[0] != 2 {
		t.Errorf("expected only the newer count, got %v", counts)
	}
}
