package simnet

// PollStatus is the result of polling a Task or a leaf future.
type PollStatus int

const (
	// StatusPending means the task/future is not yet complete and has
	// registered its waker somewhere it expects to be woken from.
	StatusPending PollStatus = iota
	// StatusReady means the task/future has completed.
	StatusReady
)

// Waker is a single-shot callback used to tell the scheduler a
// previously-pending task may be able to make progress. Invoking a
// Waker after its task has already completed, or after the scheduler
// that created it has been discarded, is always a safe no-op: this
// core never makes waking fallible.
type Waker struct {
	wake func()
}

// NewWaker wraps f as a Waker. A nil f produces a Waker whose Wake is a
// no-op, which is convenient for tests that don't care about re-polling.
func NewWaker(f func()) *Waker {
	return &Waker{wake: f}
}

// Wake invokes the underlying callback, if any. Safe to call on a nil
// *Waker.
func (w *Waker) Wake() {
	if w != nil && w.wake != nil {
		w.wake()
	}
}

// Task is a resumable state machine: the Go stand-in for a Rust Future
// in a language without native async/await, per the core's design note
// on modelling tasks without built-in continuations. A scheduler
// dequeues tasks whose waker has been signalled and calls Poll again.
type Task interface {
	Poll(w *Waker) PollStatus
}

// TaskFunc adapts a plain poll function to the Task interface.
type TaskFunc func(w *Waker) PollStatus

func (f TaskFunc) Poll(w *Waker) PollStatus { return f(w) }

type taskRecord struct {
	task   Task
	queued bool
	done   bool
}

// Scheduler is the minimal single-threaded task runner SimDriver drives
// to quiescence. It fulfils, to the extent this core needs something
// concrete, the role spec.md assigns to an external executor: spawn,
// poll, and wake. It is deliberately not safe for concurrent use from
// multiple goroutines — per the concurrency model, there is exactly one
// control thread.
type Scheduler struct {
	tasks    map[uint64]*taskRecord
	nextID   uint64
	runQueue []uint64
}

// NewScheduler creates an empty, idle scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{tasks: make(map[uint64]*taskRecord)}
}

// Spawn registers t and marks it runnable for the next drive pass.
func (s *Scheduler) Spawn(t Task) uint64 {
	s.nextID++
	id := s.nextID
	s.tasks[id] = &taskRecord{task: t}
	s.schedule(id)
	return id
}

func (s *Scheduler) schedule(id uint64) {
	rec, ok := s.tasks[id]
	if !ok || rec.done || rec.queued {
		return
	}
	rec.queued = true
	s.runQueue = append(s.runQueue, id)
}

func (s *Scheduler) waker(id uint64) *Waker {
	return NewWaker(func() { s.schedule(id) })
}

// drainOnce polls every task currently in the run queue exactly once,
// in FIFO order, and reports whether there was anything to poll. Tasks
// woken as a side effect of this pass land in the *next* run queue
// rather than being re-polled within this pass, matching a single
// macrotask-style turn (grounded on the teacher's handlePending/
// handleEvents pending-queue swap).
func (s *Scheduler) drainOnce() bool {
	if len(s.runQueue) == 0 {
		return false
	}
	queue := s.runQueue
	s.runQueue = nil
	for _, id := range queue {
		rec, ok := s.tasks[id]
		if !ok || rec.done {
			continue
		}
		rec.queued = false
		if rec.task.Poll(s.waker(id)) == StatusReady {
			rec.done = true
			delete(s.tasks, id)
		}
	}
	return true
}

// DriveToQuiescence repeatedly polls ready tasks until no task is woken
// and not yet polled: the poll_until_idle contract.
func (s *Scheduler) DriveToQuiescence() {
	for s.drainOnce() {
	}
}

// Idle reports whether the scheduler currently has no runnable tasks.
func (s *Scheduler) Idle() bool { return len(s.runQueue) == 0 }

// NumTasks reports the number of tasks still registered (spawned and
// not yet returned StatusReady).
func (s *Scheduler) NumTasks() int { return len(s.tasks) }
