package simnet

import "github.com/rs/zerolog"

// SimDriver is the outer loop of one simulated node (spec.md §4.E): it
// accepts an externally chosen event, advances time, fires expired
// timers, and drains ready tasks, reporting the next wake time so the
// host can reinsert a wake event into its own event queue. It never
// advances the clock itself — the host is the sole time authority.
type SimDriver struct {
	node *Node
	log  zerolog.Logger
}

// NewSimDriver wraps node with the outer step contract.
func NewSimDriver(node *Node) *SimDriver {
	return &SimDriver{node: node, log: zerolog.Nop()}
}

// SetLogger attaches a logger for step diagnostics.
func (d *SimDriver) SetLogger(l zerolog.Logger) { d.log = l }

// SetNow advances the node's clock to t. See SimClock.SetNow.
func (d *SimDriver) SetNow(t SimTime) {
	d.node.Clock.SetNow(t)
}

// PollTimeEvents pops every timer slot whose deadline is <= the node's
// current time and wakes every entry in each, in increasing-deadline,
// then insertion, order.
func (d *SimDriver) PollTimeEvents() {
	now := d.node.Clock.Now()
	due := d.node.Timers.PopDue(now)
	for _, slot := range due {
		for _, entry := range slot.Entries() {
			entry.Waker.Wake()
		}
	}
	if len(due) > 0 {
		d.log.Debug().Int("slots", len(due)).Str("now", now.String()).Msg("fired timer slots")
	}
}

// PollUntilIdle drives the node's scheduler to quiescence: every task
// woken by a timer or injected packet gets polled, and every task that
// wakes as a side effect of being polled gets polled too, until no task
// is runnable and not yet polled.
func (d *SimDriver) PollUntilIdle() {
	d.node.Sched.DriveToQuiescence()
}

// BlockOrIdleOn drives fut to completion if it can complete without
// advancing time, otherwise it drains whatever other progress is
// possible and yields control back to the host with fut still pending.
func (d *SimDriver) BlockOrIdleOn(fut Task) PollStatus {
	status := fut.Poll(NewWaker(nil))
	if status == StatusReady {
		return StatusReady
	}
	d.node.Sched.DriveToQuiescence()
	return fut.Poll(NewWaker(nil))
}

// NextTimePoll returns the earliest deadline currently registered in
// the node's TimerQueue, or ok=false if none is pending.
func (d *SimDriver) NextTimePoll() (t SimTime, ok bool) {
	return d.node.Timers.NextWakeup()
}

// InjectUDP delivers msg into the node's NetContext, as an external
// "step" event.
func (d *SimDriver) InjectUDP(msg UdpMessage) DeliveryOutcome {
	outcome := d.node.Net.ProcessUDP(msg)
	d.log.Debug().Str("outcome", outcome.String()).Msg("processed udp datagram")
	return outcome
}

// InjectTcpConnect delivers one half of a TCP handshake.
func (d *SimDriver) InjectTcpConnect(msg TcpConnectMessage) DeliveryOutcome {
	return d.node.Net.ProcessTcpConnect(msg)
}

// InjectTcpConnectTimeout fires a previously scheduled connect timeout.
func (d *SimDriver) InjectTcpConnectTimeout(msg TcpConnectMessage) DeliveryOutcome {
	return d.node.Net.ProcessTcpConnectTimeout(msg)
}

// InjectTcpPacket delivers an inbound TCP stream segment.
func (d *SimDriver) InjectTcpPacket(msg TcpMessage) DeliveryOutcome {
	return d.node.Net.ProcessTcpPacket(msg)
}

// InjectIOTick fires the node's pending IoTick wakeups.
func (d *SimDriver) InjectIOTick() {
	d.node.Net.IOTick()
}

// YieldIntents drains the node's outbound intents for the host to
// route onto the simulated wire.
func (d *SimDriver) YieldIntents() []Intent {
	return d.node.Net.YieldIntents()
}

// Spawn registers t with the node's scheduler for the next drive pass.
func (d *SimDriver) Spawn(t Task) uint64 {
	return d.node.Sched.Spawn(t)
}

// Reset restores the node's TimerQueue and NetContext to empty, as for
// a simulated restart. The clock is not rewound.
func (d *SimDriver) Reset() {
	d.node.Timers.Reset()
	d.node.Net.Reset()
}
