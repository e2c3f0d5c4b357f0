package simnet

// SleepFuture is the leaf future that resolves once virtual time has
// reached a deadline. It is created unscheduled: the first poll, if the
// deadline is still in the future, registers an entry in the owning
// TimerQueue and remembers a weak handle to it so a later Reset can
// reposition that same entry instead of leaking a stale one.
type SleepFuture struct {
	clock    *SimClock
	queue    *TimerQueue
	deadline SimTime

	handle    *TimerHandle
	lastWaker *Waker
}

// NewSleepFuture creates a SleepFuture bound to clock and queue, with
// the given initial deadline.
func NewSleepFuture(clock *SimClock, queue *TimerQueue, deadline SimTime) *SleepFuture {
	return &SleepFuture{clock: clock, queue: queue, deadline: deadline}
}

// Deadline returns the time at which this future will (or did) resolve.
func (s *SleepFuture) Deadline() SimTime { return s.deadline }

// IsElapsed reports whether the deadline has already passed, without
// polling.
func (s *SleepFuture) IsElapsed() bool { return s.deadline <= s.clock.Now() }

// Poll implements Task. It resolves on the first poll where now >=
// deadline, and never before. A future polled repeatedly while still
// pending (e.g. composed inside a select-style wrapper future) keeps
// exactly one live timer entry: the first pending poll registers it,
// and every later pending poll repositions that same entry in place
// rather than pushing a new one.
func (s *SleepFuture) Poll(w *Waker) PollStatus {
	now := s.clock.Now()
	if s.deadline > now {
		if s.handle == nil {
			s.handle = s.queue.Push(w, s.deadline)
		} else if newHandle, ok := s.queue.Reposition(s.handle, w, s.deadline); ok {
			s.handle = newHandle
		} else {
			s.handle = s.queue.Push(w, s.deadline)
		}
		s.lastWaker = w
		return StatusPending
	}
	return StatusReady
}

// Reset retargets the future at newDeadline. If the future is currently
// registered in the queue (already polled at least once while pending),
// its existing entry is repositioned in place. If the prior entry's
// slot already fired (it is no longer in the queue), the future reverts to
// "not yet scheduled": its next poll will register fresh at the new
// deadline. If the future has never been polled, Reset simply updates
// the deadline that the eventual first poll will use.
func (s *SleepFuture) Reset(newDeadline SimTime) {
	s.deadline = newDeadline
	if s.handle == nil {
		return
	}
	newHandle, ok := s.queue.Reposition(s.handle, s.lastWaker, newDeadline)
	if !ok {
		s.handle = nil
		return
	}
	s.handle = newHandle
}

// Cancel removes this future's entry from the queue, if registered. It
// is the explicit analogue of dropping the future in a language with
// destructors: after Cancel, the future behaves as if it had never been
// scheduled.
func (s *SleepFuture) Cancel() {
	if s.handle != nil {
		s.queue.Cancel(s.handle)
		s.handle = nil
	}
}
