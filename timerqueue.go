package simnet

import (
	"sort"
	"sync/atomic"
	"weak"
)

// TimerEntry is a (entry-id, waker) pair living within one TimerSlot.
// Entry ids are unique across the process.
type TimerEntry struct {
	ID    uint64
	Waker *Waker
}

// TimerSlot binds a deadline to an ordered set of wakers. Entries keep
// their original insertion order within a slot: equal-deadline timers
// wake in the order they were pushed.
type TimerSlot struct {
	Deadline SimTime
	entries  []TimerEntry
}

// Entries returns the wakers registered on this slot, in insertion
// order. The returned slice must not be retained past the slot's use.
func (s *TimerSlot) Entries() []TimerEntry {
	return s.entries
}

func (s *TimerSlot) removeID(id uint64) bool {
	for i, e := range s.entries {
		if e.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return true
		}
	}
	return false
}

// TimerHandle is a weak, non-owning reference to a timer entry. It lets
// a SleepFuture reposition or cancel its entry without extending the
// slot's lifetime beyond the queue's own ownership of it.
type TimerHandle struct {
	id   uint64
	slot weak.Pointer[TimerSlot]
}

var timerEntryIDs atomic.Uint64

func nextTimerEntryID() uint64 {
	return timerEntryIDs.Add(1)
}

// TimerQueue is an ordered sequence of TimerSlots keyed by deadline, plus
// the last-observed current time. A queue is shared between the driver
// and every outstanding sleep future via this type's pointer identity;
// slots within it are likewise shared via TimerHandle.
type TimerQueue struct {
	slots   []*TimerSlot // strictly increasing by Deadline
	lastNow SimTime
}

// NewTimerQueue creates an empty queue.
func NewTimerQueue() *TimerQueue {
	return &TimerQueue{}
}

// Push registers waker to fire at deadline, which must be >= the queue's
// last-observed time. Violating this precondition is a programmer error
// and panics.
func (q *TimerQueue) Push(waker *Waker, deadline SimTime) *TimerHandle {
	if deadline < q.lastNow {
		panic("simnet: TimerQueue.Push with deadline before last observed time")
	}
	id := nextTimerEntryID()
	entry := TimerEntry{ID: id, Waker: waker}

	i := sort.Search(len(q.slots), func(i int) bool {
		return q.slots[i].Deadline >= deadline
	})

	var slot *TimerSlot
	if i < len(q.slots) && q.slots[i].Deadline == deadline {
		slot = q.slots[i]
		slot.entries = append(slot.entries, entry)
	} else {
		slot = &TimerSlot{Deadline: deadline, entries: []TimerEntry{entry}}
		q.slots = append(q.slots, nil)
		copy(q.slots[i+1:], q.slots[i:])
		q.slots[i] = slot
	}
	return &TimerHandle{id: id, slot: weak.Make(slot)}
}

// NextWakeup returns the smallest deadline currently registered, if any.
func (q *TimerQueue) NextWakeup() (SimTime, bool) {
	q.dropEmptyPrefix()
	if len(q.slots) == 0 {
		return 0, false
	}
	return q.slots[0].Deadline, true
}

func (q *TimerQueue) dropEmptyPrefix() {
	i := 0
	for i < len(q.slots) && len(q.slots[i].entries) == 0 {
		i++
	}
	if i > 0 {
		q.slots = q.slots[i:]
	}
}

// PopDue removes and returns, in increasing deadline order, every slot
// whose deadline is <= now. It updates the queue's last-observed time to
// now. Empty slots (every entry cancelled) are dropped rather than
// returned.
func (q *TimerQueue) PopDue(now SimTime) []*TimerSlot {
	i := 0
	for i < len(q.slots) && q.slots[i].Deadline <= now {
		i++
	}
	due := q.slots[:i:i]
	q.slots = q.slots[i:]
	if now > q.lastNow {
		q.lastNow = now
	}

	out := make([]*TimerSlot, 0, len(due))
	for _, s := range due {
		if len(s.entries) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// Reset drops all slots, returning the queue to empty. Used on node
// restart. It does not rewind the last-observed time.
func (q *TimerQueue) Reset() {
	q.slots = nil
}

// Cancel removes the entry named by h, if its slot is still live. It is
// a no-op if the slot already fired (weak reference expired) or the
// entry was already removed from it.
func (q *TimerQueue) Cancel(h *TimerHandle) {
	if h == nil {
		return
	}
	slot := h.slot.Value()
	if slot == nil {
		return
	}
	slot.removeID(h.id)
	if len(slot.entries) == 0 {
		q.removeSlot(slot)
	}
}

func (q *TimerQueue) removeSlot(slot *TimerSlot) {
	for i, s := range q.slots {
		if s == slot {
			q.slots = append(q.slots[:i], q.slots[i+1:]...)
			return
		}
	}
}

// Reposition cancels h's entry, if its slot is still live, and pushes
// waker at newDeadline, returning the new handle. If h's slot already
// fired (it is no longer in the queue, or the weak reference has
// expired), ok is false and nothing is pushed: the caller must treat
// itself as not-yet-scheduled and push fresh on its next poll instead.
func (q *TimerQueue) Reposition(h *TimerHandle, waker *Waker, newDeadline SimTime) (handle *TimerHandle, ok bool) {
	if h == nil {
		return q.Push(waker, newDeadline), true
	}
	slot := h.slot.Value()
	live := false
	for _, s := range q.slots {
		if s == slot {
			live = true
			break
		}
	}
	if slot == nil || !live {
		return nil, false
	}
	slot.removeID(h.id)
	if len(slot.entries) == 0 {
		q.removeSlot(slot)
	}
	return q.Push(waker, newDeadline), true
}
