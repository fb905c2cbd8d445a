// Package batch runs keyed jobs a few at a time under a per-frame time
// budget. Submitting a job for a key that is already pending replaces the
// pending job without changing its place in the queue, so bursts of
// requests for the same key collapse into one run.
package batch

import (
	"container/list"
	"sync"
	"time"
)

// Default configuration constants.
const (
	// DefaultBudget is the time Flush may spend running jobs.
	DefaultBudget = 2 * time.Millisecond
	// DefaultMinPerFlush is how many jobs Flush runs even when the budget
	// is already spent.
	DefaultMinPerFlush = 1
)

// Job is a unit of deferred work.
type Job func()

// Config configures a Worker.
type Config struct {
	// Budget bounds the time one Flush spends running jobs. A job that
	// starts within the budget always runs to completion. Defaults to
	// DefaultBudget if <= 0.
	Budget time.Duration

	// MinPerFlush is the number of jobs Flush runs regardless of the
	// budget. Defaults to DefaultMinPerFlush if <= 0.
	MinPerFlush int

	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time
}

// Stats contains worker counters for monitoring.
type Stats struct {
	// Pending is the number of queued keys.
	Pending int
	// Submitted counts Submit calls that queued a new key.
	Submitted uint64
	// Replaced counts Submit calls that replaced a pending job.
	Replaced uint64
	// Run counts executed jobs.
	Run uint64
	// Deferred counts Flush calls that stopped with jobs left over.
	Deferred uint64
}

type entry[K comparable] struct {
	key K
	job Job
}

// Worker is a FIFO of keyed jobs. It is safe for concurrent use; jobs run
// on the goroutine calling Flush, without the worker's lock held.
type Worker[K comparable] struct {
	mu      sync.Mutex
	pending map[K]*list.Element
	queue   *list.List

	budget time.Duration
	minRun int
	now    func() time.Time

	stats Stats
}

// New creates a worker with the given configuration.
func New[K comparable](cfg Config) *Worker[K] {
	if cfg.Budget <= 0 {
		cfg.Budget = DefaultBudget
	}
	if cfg.MinPerFlush <= 0 {
		cfg.MinPerFlush = DefaultMinPerFlush
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Worker[K]{
		pending: make(map[K]*list.Element),
		queue:   list.New(),
		budget:  cfg.Budget,
		minRun:  cfg.MinPerFlush,
		now:     cfg.Clock,
	}
}

// Submit queues job under key. It reports whether key was newly queued; a
// job already pending for key is replaced in place.
func (w *Worker[K]) Submit(key K, job Job) bool {
	if job == nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if el, ok := w.pending[key]; ok {
		el.Value.(*entry[K]).job = job
		w.stats.Replaced++
		return false
	}
	w.pending[key] = w.queue.PushBack(&entry[K]{key: key, job: job})
	w.stats.Submitted++
	return true
}

// Cancel drops the pending job for key. It reports whether one was queued.
func (w *Worker[K]) Cancel(key K) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	el, ok := w.pending[key]
	if !ok {
		return false
	}
	w.queue.Remove(el)
	delete(w.pending, key)
	return true
}

// Pending reports whether a job is queued for key.
func (w *Worker[K]) Pending(key K) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.pending[key]
	return ok
}

// Len returns the number of queued jobs.
func (w *Worker[K]) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.queue.Len()
}

// Clear drops every pending job.
func (w *Worker[K]) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.queue.Init()
	clear(w.pending)
}

// Flush runs queued jobs in submission order until the budget is spent or
// the queue is empty, and returns how many ran. Jobs submitted while
// Flush runs wait for the next call.
func (w *Worker[K]) Flush() int {
	start := w.now()

	w.mu.Lock()
	limit := w.queue.Len()
	w.mu.Unlock()

	ran := 0
	for ran < limit {
		if ran >= w.minRun && w.now().Sub(start) >= w.budget {
			break
		}
		job, ok := w.pop()
		if !ok {
			break
		}
		job()
		ran++
	}

	w.mu.Lock()
	w.stats.Run += uint64(ran)
	if w.queue.Len() > 0 {
		w.stats.Deferred++
	}
	w.mu.Unlock()
	return ran
}

func (w *Worker[K]) pop() (Job, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	el := w.queue.Front()
	if el == nil {
		return nil, false
	}
	e := w.queue.Remove(el).(*entry[K])
	delete(w.pending, e.key)
	return e.job, true
}

// Stats returns a snapshot of the worker's counters.
func (w *Worker[K]) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := w.stats
	s.Pending = w.queue.Len()
	return s
}
