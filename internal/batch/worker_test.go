package batch

import (
	"testing"
	"time"
)

// fakeClock advances by step every time it is read.
type fakeClock struct {
	t    time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	now := c.t
	c.t = c.t.Add(c.step)
	return now
}

func TestSubmitDeduplicates(t *testing.T) {
	w := New[int](Config{})
	var got []string
	if !w.Submit(1, func() { got = append(got, "1a") }) {
		t.Error("first Submit should queue")
	}
	w.Submit(2, func() { got = append(got, "2") })
	if w.Submit(1, func() { got = append(got, "1b") }) {
		t.Error("second Submit for the same key should replace")
	}
	if w.Len() != 2 {
		t.Fatalf("Len = %d, want 2", w.Len())
	}

	w.Flush()
	if len(got) != 2 || got[0] != "1b" || got[1] != "2" {
		t.Errorf("ran %v, want [1b 2]", got)
	}
	s := w.Stats()
	if s.Submitted != 2 || s.Replaced != 1 || s.Run != 2 || s.Pending != 0 {
		t.Errorf("stats = %+v", s)
	}
}

func TestSubmitNilJob(t *testing.T) {
	w := New[string](Config{})
	if w.Submit("a", nil) {
		t.Error("nil job should not be queued")
	}
	if w.Len() != 0 {
		t.Error("queue should stay empty")
	}
}

func TestFlushRespectsBudget(t *testing.T) {
	// Each clock read advances 1ms; the budget allows two jobs.
	clock := &fakeClock{t: time.Unix(0, 0), step: time.Millisecond}
	w := New[int](Config{Budget: 2 * time.Millisecond, Clock: clock.Now})
	ran := 0
	for i := 0; i < 5; i++ {
		w.Submit(i, func() { ran++ })
	}

	if n := w.Flush(); n != 2 {
		t.Errorf("first Flush ran %d, want 2", n)
	}
	if w.Len() != 3 {
		t.Errorf("Len = %d, want 3 deferred", w.Len())
	}
	if w.Stats().Deferred != 1 {
		t.Errorf("Deferred = %d, want 1", w.Stats().Deferred)
	}
	for w.Len() > 0 {
		w.Flush()
	}
	if ran != 5 {
		t.Errorf("ran = %d, want 5", ran)
	}
}

func TestFlushRunsMinimumWhenBudgetSpent(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0), step: time.Second}
	w := New[int](Config{Budget: time.Nanosecond, MinPerFlush: 2, Clock: clock.Now})
	for i := 0; i < 4; i++ {
		w.Submit(i, func() {})
	}
	if n := w.Flush(); n != 2 {
		t.Errorf("Flush ran %d, want MinPerFlush 2", n)
	}
}

func TestJobsSubmittedDuringFlushWait(t *testing.T) {
	w := New[int](Config{Budget: time.Hour})
	var order []int
	w.Submit(1, func() {
		order = append(order, 1)
		w.Submit(2, func() { order = append(order, 2) })
	})
	if n := w.Flush(); n != 1 {
		t.Errorf("Flush ran %d, want 1", n)
	}
	if !w.Pending(2) {
		t.Fatal("job submitted during Flush should be pending")
	}
	w.Flush()
	if len(order) != 2 || order[1] != 2 {
		t.Errorf("order = %v, want [1 2]", order)
	}
}

func TestCancelAndClear(t *testing.T) {
	w := New[string](Config{})
	ran := false
	w.Submit("a", func() { ran = true })
	w.Submit("b", func() {})
	if !w.Cancel("a") {
		t.Error("Cancel should report a pending job")
	}
	if w.Cancel("a") {
		t.Error("second Cancel should report false")
	}
	w.Clear()
	if w.Len() != 0 || w.Pending("b") {
		t.Error("Clear should drop every job")
	}
	if w.Flush() != 0 || ran {
		t.Error("cancelled job ran")
	}
}
