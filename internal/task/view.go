package task

// View is a projection of the task list. The manager calls it after every
// mutation, outside its lock, with copies of the affected data. Calls are
// serialized and never deliver an older list after a newer one. A view may
// read from the manager but must not mutate it from inside a call.
type View interface {
	// Render redraws the whole list.
	Render(tasks []Task)

	// RenderItem redraws a single task whose state changed.
	RenderItem(t Task)

	// RenderCount redraws the open task counter.
	RenderCount(open int)
}

// ViewFuncs adapts plain functions to View. Nil fields are skipped.
type ViewFuncs struct {
	OnRender func(tasks []Task)
	OnItem   func(t Task)
	OnCount  func(open int)
}

func (v ViewFuncs) Render(tasks []Task) {
	if v.OnRender != nil {
		v.OnRender(tasks)
	}
}

func (v ViewFuncs) RenderItem(t Task) {
	if v.OnItem != nil {
		v.OnItem(t)
	}
}

func (v ViewFuncs) RenderCount(open int) {
	if v.OnCount != nil {
		v.OnCount(open)
	}
}
