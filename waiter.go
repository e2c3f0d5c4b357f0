package simnet

import "net/netip"

// InterestKind names the six resource/direction combinations a task can
// suspend on.
type InterestKind int

const (
	InterestUdpRead InterestKind = iota
	InterestUdpWrite
	InterestTcpAccept
	InterestTcpConnect
	InterestTcpRead
	InterestTcpWrite
)

func (k InterestKind) String() string {
	switch k {
	case InterestUdpRead:
		return "udp-read"
	case InterestUdpWrite:
		return "udp-write"
	case InterestTcpAccept:
		return "tcp-accept"
	case InterestTcpConnect:
		return "tcp-connect"
	case InterestTcpRead:
		return "tcp-read"
	case InterestTcpWrite:
		return "tcp-write"
	default:
		return "unknown"
	}
}

// Interest identifies the resource and direction a Waiter cares about.
// Peer is the zero value for interests that don't name a peer (UDP,
// TcpAccept).
type Interest struct {
	Kind InterestKind
	Addr netip.AddrPort
	Peer netip.AddrPort
}

// Waiter is a (interest, waker) pair stored on a resource handle, to be
// signalled when the resource becomes ready.
type Waiter struct {
	Interest Interest
	Waker    *Waker
}

// waiterList is the small per-resource collection of waiters, in
// registration order, used by udp/tcp handles. Grounded on the
// teacher's fdDesc{readers, writers list.List} per-fd waiter lists,
// generalized to per-socket waiter lists keyed by Interest.
type waiterList struct {
	items []Waiter
}

// add registers w, or — if a waiter with the same Interest is already
// registered — replaces its Waker in place. This keeps a resource
// polled repeatedly while still pending (the common case: a task
// re-polls on every scheduler pass until ready) from accumulating one
// waiter per poll.
func (l *waiterList) add(w Waiter) {
	for i, existing := range l.items {
		if existing.Interest == w.Interest {
			l.items[i].Waker = w.Waker
			return
		}
	}
	l.items = append(l.items, w)
}

// wakeAll wakes and clears every waiter.
func (l *waiterList) wakeAll() {
	for _, w := range l.items {
		w.Waker.Wake()
	}
	l.items = nil
}

// wakeKind wakes and removes only the waiters matching kind.
func (l *waiterList) wakeKind(kind InterestKind) {
	kept := l.items[:0]
	for _, w := range l.items {
		if w.Interest.Kind == kind {
			w.Waker.Wake()
		} else {
			kept = append(kept, w)
		}
	}
	l.items = kept
}
