package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"todo/internal/task"
)

// Bridge implements task.View by forwarding manager notifications to a
// running program. Messages are queued and delivered in order from a
// separate goroutine, since the manager notifies from inside Update.
type Bridge struct {
	send func(tea.Msg)

	mu      sync.Mutex
	queue   []tea.Msg
	wake    chan struct{}
	done    chan struct{}
	stopped sync.Once
}

var _ task.View = (*Bridge)(nil)

// NewBridge starts a Bridge that delivers messages with send, usually
// (*tea.Program).Send.
func NewBridge(send func(tea.Msg)) *Bridge {
	b := &Bridge{
		send: send,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go b.run()
	return b
}

func (b *Bridge) Render(tasks []task.Task) { b.push(renderMsg{tasks: tasks}) }
func (b *Bridge) RenderItem(t task.Task)   { b.push(itemMsg{task: t}) }
func (b *Bridge) RenderCount(open int)     { b.push(countMsg{open: open}) }

// Stop ends delivery. Queued messages are dropped.
func (b *Bridge) Stop() {
	b.stopped.Do(func() { close(b.done) })
}

func (b *Bridge) push(msg tea.Msg) {
	b.mu.Lock()
	b.queue = append(b.queue, msg)
	b.mu.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
	}
}

func (b *Bridge) run() {
	for {
		select {
		case <-b.done:
			return
		case <-b.wake:
		}

		b.mu.Lock()
		batch := b.queue
		b.queue = nil
		b.mu.Unlock()

		for _, msg := range batch {
			select {
			case <-b.done:
				return
			default:
			}
			b.send(msg)
		}
	}
}
