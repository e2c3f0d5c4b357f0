package simnet

import "net/netip"

// Node bundles one simulated host's ambient state: its clock, timer
// queue, network context, and task scheduler. spec.md §9 describes
// virtual time and the per-node NetContext as thread-local ambient
// state, switched by an explicit swap when a single simulator hosts
// multiple nodes. Go has no implicit thread-local storage a library
// should reach for, so Node makes that state an explicit value and
// SetCurrentNode/CurrentNode provide the same "active context" swap as
// a thin, opt-in convenience over the explicit-pointer-passing core
// API below.
type Node struct {
	Clock   *SimClock
	Timers  *TimerQueue
	Net     *NetContext
	Sched   *Scheduler
}

// NewNode creates a node with a fresh clock, timer queue, scheduler,
// and the default loopback+en0 network topology.
func NewNode(mac [6]byte, v4 netip.Addr) *Node {
	clock := NewSimClock()
	return &Node{
		Clock:  clock,
		Timers: NewTimerQueue(),
		Net:    NewNetContext(clock, mac, v4),
		Sched:  NewScheduler(),
	}
}

var currentNode *Node

// SetCurrentNode installs n as the ambient "current" node, or clears it
// if n is nil. Code that prefers explicit pointer-passing never needs
// to call this.
func SetCurrentNode(n *Node) { currentNode = n }

// CurrentNode returns the ambient node set by SetCurrentNode, or nil
// outside any context. Per spec.md §9, operating outside an active
// context is a programmer error signalled via ErrNoActiveContext rather
// than left undefined.
func CurrentNode() *Node { return currentNode }

// RequireCurrentNode returns the ambient node or ErrNoActiveContext.
func RequireCurrentNode() (*Node, error) {
	if currentNode == nil {
		return nil, ErrNoActiveContext
	}
	return currentNode, nil
}
