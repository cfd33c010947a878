package debounce_test

import (
	"sync/atomic"
	"testing"
	"time"

	"todo/internal/debounce"
)

func TestDebouncer_CoalescesTriggers(t *testing.T) {
	var calls atomic.Int32
	d := debounce.New(30*time.Millisecond, func() { calls.Add(1) })

	for i := 0; i < 10; i++ {
		d.Trigger()
	}

	time.Sleep(150 * time.Millisecond)

	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 call, got %d", got)
	}
	if d.Cancel() {
		t.Error("expected nothing pending after the call ran")
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	var calls atomic.Int32
	d := debounce.New(20*time.Millisecond, func() { calls.Add(1) })

	d.Trigger()
	if !d.Cancel() {
		t.Error("Cancel should report the pending call")
	}
	if d.Cancel() {
		t.Error("second Cancel should find nothing pending")
	}

	time.Sleep(80 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Errorf("expected no calls after Cancel, got %d", got)
	}
}

func TestDebouncer_StopIgnoresTriggers(t *testing.T) {
	var calls atomic.Int32
	d := debounce.New(10*time.Millisecond, func() { calls.Add(1) })

	d.Trigger()
	d.Stop()
	d.Trigger()

	time.Sleep(60 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Errorf("expected no calls after Stop, got %d", got)
	}
}

func TestDebouncer_ZeroIntervalIsSynchronous(t *testing.T) {
	var calls atomic.Int32
	d := debounce.New(0, func() { calls.Add(1) })

	d.Trigger()
	d.Trigger()

	if got := calls.Load(); got != 2 {
		t.Errorf("expected 2 synchronous calls, got %d", got)
	}
}
