package simnet

import (
	"net/netip"
	"sort"

	"github.com/rs/zerolog"
)

// streamKey identifies a TCP stream by its (local, peer) address pair.
type streamKey struct {
	Local netip.AddrPort
	Peer  netip.AddrPort
}

// NetContext is one simulated node's network state: its interfaces,
// socket tables, pending intents, and readiness waiters. It stands in
// for the thread-local ambient IOContext of the original source; Go
// code threads it explicitly instead of relying on thread-local storage
// (see DESIGN.md's netctx.go entry).
type NetContext struct {
	log zerolog.Logger

	clock *SimClock

	interfaces []*NetInterface

	udpSockets map[netip.AddrPort]*UdpSocketHandle
	listeners  map[netip.AddrPort]*TcpListenerHandle
	streams    map[streamKey]*TcpStreamHandle

	nextPort uint32 // wide enough to detect wraparound past 65535

	intents []Intent

	tickWaiters []*Waker
	lastTick    SimTime
	hasLastTick bool
}

// NewNetContext creates a node with the default loopback+en0 topology
// (§5.C of SPEC_FULL.md) and an ephemeral port counter starting at 1024.
func NewNetContext(clock *SimClock, mac [6]byte, v4 netip.Addr) *NetContext {
	return &NetContext{
		log:    zerolog.Nop(),
		clock:  clock,
		nextPort: 1024,
		interfaces: []*NetInterface{
			NewLoopbackInterface(),
			NewEthernetInterface("en0", mac, v4),
		},
		udpSockets: make(map[netip.AddrPort]*UdpSocketHandle),
		listeners:  make(map[netip.AddrPort]*TcpListenerHandle),
		streams:    make(map[streamKey]*TcpStreamHandle),
	}
}

// SetLogger attaches a logger to the context. The context stores it;
// none of its bind, delivery, or intent operations write to it.
func (n *NetContext) SetLogger(l zerolog.Logger) { n.log = l }

// Interfaces returns the node's configured interfaces.
func (n *NetContext) Interfaces() []*NetInterface { return n.interfaces }

// AddInterface installs an additional interface (beyond the default
// loopback+en0 pair).
func (n *NetContext) AddInterface(iface *NetInterface) { n.interfaces = append(n.interfaces, iface) }

func (n *NetContext) addrInUse(ap netip.AddrPort) bool {
	if _, ok := n.udpSockets[ap]; ok {
		return true
	}
	if _, ok := n.listeners[ap]; ok {
		return true
	}
	for k := range n.streams {
		if k.Local == ap {
			return true
		}
	}
	return false
}

func (n *NetContext) findInterface(ip netip.Addr) (*NetInterface, bool) {
	var best *NetInterface
	var bestBits int
	found := false
	for _, iface := range n.interfaces {
		if pfx, ok := iface.matches(ip); ok {
			if !found || pfx.Bits() > bestBits {
				best, bestBits, found = iface, pfx.Bits(), true
			}
		}
	}
	return best, found
}

// allocPort returns the next free ephemeral port for ip, skipping ports
// already bound at (ip, port), per spec.md §6/§8's port-counter contract.
func (n *NetContext) allocPort(ip netip.Addr) (uint16, bool) {
	for n.nextPort <= 0xFFFF {
		candidate := uint16(n.nextPort)
		n.nextPort++
		ap := netip.AddrPortFrom(ip, candidate)
		if !n.addrInUse(ap) {
			return candidate, true
		}
	}
	return 0, false
}

// bindAddr resolves a requested (possibly unspecified-IP, possibly
// zero-port) address to a concrete bindable one, per spec.md §4.C.
func (n *NetContext) bindAddr(requested netip.AddrPort) (netip.AddrPort, error) {
	ip := requested.Addr()
	port := requested.Port()

	if !ip.IsValid() || ip.IsUnspecified() {
		ifaces := append([]*NetInterface(nil), n.interfaces...)
		sort.SliceStable(ifaces, func(i, j int) bool { return ifaces[i].Priority < ifaces[j].Priority })

		for _, iface := range ifaces {
			if !iface.usable() {
				continue
			}
			for _, a := range iface.Addrs {
				if a.Ether {
					continue
				}
				candidateIP := a.IP.Addr()
				p := port
				if p == 0 {
					var ok bool
					p, ok = n.allocPort(candidateIP)
					if !ok {
						continue
					}
				} else if n.addrInUse(netip.AddrPortFrom(candidateIP, p)) {
					continue
				}
				return netip.AddrPortFrom(candidateIP, p), nil
			}
		}
		return netip.AddrPort{}, ErrAddrNotAvailable
	}

	if ip.Is6() && !ip.Is4In6() {
		// IPv6 is unimplemented; per spec this is an address-not-available
		// failure, not a distinct "unsupported" category.
		return netip.AddrPort{}, ErrAddrNotAvailable
	}

	iface, found := n.findInterface(ip)
	if !found {
		return netip.AddrPort{}, ErrAddrNotAvailable
	}
	if !iface.usable() {
		return netip.AddrPort{}, ErrNotFound
	}

	p := port
	if p == 0 {
		var ok bool
		p, ok = n.allocPort(ip)
		if !ok {
			return netip.AddrPort{}, ErrAddrNotAvailable
		}
	} else if n.addrInUse(netip.AddrPortFrom(ip, p)) {
		return netip.AddrPort{}, ErrAddrInUse
	}
	return netip.AddrPortFrom(ip, p), nil
}

// YieldIntents drains every accumulated intent plus one TcpSendPacket
// intent per outgoing segment across all streams (with a per-segment
// send delay increasing by 5ms), plus an IoTick intent if warranted.
func (n *NetContext) YieldIntents() []Intent {
	out := n.intents
	n.intents = nil

	for key, s := range n.streams {
		segs := s.Outgoing.YieldSegments()
		for _, seg := range segs {
			delay := s.segmentDelay
			s.segmentDelay += tcpSegmentDelayStep
			out = append(out, Intent{
				Kind: IntentTcpSendPacket,
				TcpData: TcpMessage{
					Content: seg,
					Src:     key.Local,
					Dst:     key.Peer,
					TTL:     s.Config.TTL,
				},
				Delay: delay,
			})
		}
	}

	if len(n.tickWaiters) > 0 {
		tickAt := n.nextTickTime()
		if !n.hasLastTick || tickAt > n.lastTick {
			out = append(out, Intent{Kind: IntentIoTick, TickAt: tickAt})
			n.lastTick = tickAt
			n.hasLastTick = true
		}
	}

	return out
}

func (n *NetContext) nextTickTime() SimTime {
	var maxDelay int64
	for _, s := range n.streams {
		if d := int64(s.segmentDelay); d > maxDelay {
			maxDelay = d
		}
	}
	return n.clock.Now().Add(durationFromNanos(maxDelay))
}

// AwaitIOTick registers w to be woken the next time IOTick fires —
// the mechanism by which a task that blocked because an outgoing
// buffer was full learns when to retry, per spec.md §4.C's "pending
// tick wakeups" text.
func (n *NetContext) AwaitIOTick(w *Waker) {
	n.tickWaiters = append(n.tickWaiters, w)
}

// IOTick wakes and drops all tick wakeups.
func (n *NetContext) IOTick() {
	for _, w := range n.tickWaiters {
		w.Wake()
	}
	n.tickWaiters = nil
	n.hasLastTick = false
}

// Reset clears sockets, listeners, streams, and intents, and resets the
// port counter. Used when a simulated node restarts.
func (n *NetContext) Reset() {
	n.udpSockets = make(map[netip.AddrPort]*UdpSocketHandle)
	n.listeners = make(map[netip.AddrPort]*TcpListenerHandle)
	n.streams = make(map[streamKey]*TcpStreamHandle)
	n.intents = nil
	n.tickWaiters = nil
	n.hasLastTick = false
	n.nextPort = 1024
}
