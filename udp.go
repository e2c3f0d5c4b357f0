package simnet

import "net/netip"

// UdpSocketState distinguishes a bare bound socket from one that has
// fixed a peer via udp_connect (which only records the peer; reads are
// not filtered by it at this layer, and the simulator never establishes
// a UDP handshake).
type UdpSocketState int

const (
	UdpBound UdpSocketState = iota
	UdpConnected
)

// UdpSocketHandle is one simulated UDP socket: a bound local address, an
// optional connected peer, and the incoming datagram queue a host drains
// via UdpTryRead.
type UdpSocketHandle struct {
	LocalAddr netip.AddrPort
	State     UdpSocketState
	Peer      netip.AddrPort
	TTL       uint32
	Broadcast bool
	Multicast bool

	incoming []UdpMessage
	readers  waiterList
}

func isIPv4Broadcast(ip netip.Addr) bool {
	return ip.Is4() && ip == netip.AddrFrom4([4]byte{255, 255, 255, 255})
}

// UdpBind allocates (or resolves) a local address and registers a new
// UDP socket there, per spec.md §4.A.
func (n *NetContext) UdpBind(requested netip.AddrPort) (*UdpSocketHandle, error) {
	addr, err := n.bindAddr(requested)
	if err != nil {
		return nil, err
	}
	h := &UdpSocketHandle{LocalAddr: addr, State: UdpBound, TTL: 64}
	n.udpSockets[addr] = h
	return h, nil
}

// UdpConnect fixes h's peer. It does not perform any handshake: UDP is
// connectionless, so this only affects which deliveries Read will see in
// any peer-filtering caller above this layer.
func (n *NetContext) UdpConnect(h *UdpSocketHandle, peer netip.AddrPort) error {
	if _, ok := n.udpSockets[h.LocalAddr]; !ok {
		return ErrClosed
	}
	h.State = UdpConnected
	h.Peer = peer
	return nil
}

// UdpSend queues an IntentUdpSend for the host to route. Broadcasting to
// 255.255.255.255 without h.Broadcast set is rejected outright.
func (n *NetContext) UdpSend(h *UdpSocketHandle, dst netip.AddrPort, data []byte) error {
	if _, ok := n.udpSockets[h.LocalAddr]; !ok {
		return ErrClosed
	}
	if isIPv4Broadcast(dst.Addr()) && !h.Broadcast {
		return ErrOther
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	n.intents = append(n.intents, Intent{
		Kind: IntentUdpSend,
		Udp: UdpMessage{
			Content: cp,
			Src:     h.LocalAddr,
			Dst:     dst,
			TTL:     h.TTL,
		},
	})
	return nil
}

// UdpTryRead pops the oldest queued datagram without blocking.
func (n *NetContext) UdpTryRead(h *UdpSocketHandle) (UdpMessage, error) {
	if len(h.incoming) == 0 {
		return UdpMessage{}, ErrWouldBlock
	}
	m := h.incoming[0]
	h.incoming = h.incoming[1:]
	return m, nil
}

// UdpReadPoll is the readiness check behind an IOInterest{Kind:
// InterestUdpRead} future: ready immediately if a datagram is already
// queued, otherwise registers w and reports pending.
func (n *NetContext) UdpReadPoll(h *UdpSocketHandle, w *Waker) bool {
	if len(h.incoming) > 0 {
		return true
	}
	h.readers.add(Waiter{Interest: Interest{Kind: InterestUdpRead, Addr: h.LocalAddr}, Waker: w})
	return false
}

// UdpDrop removes the socket. Per the cancellation policy (spec.md §7),
// outstanding waiters are not woken — they simply become unreachable
// once nothing else references the handle.
func (n *NetContext) UdpDrop(addr netip.AddrPort) {
	delete(n.udpSockets, addr)
}

// ProcessUDP delivers an inbound datagram into this node's socket table.
// A destination of 255.255.255.255 fans out to every socket bound on
// the matching port.
func (n *NetContext) ProcessUDP(msg UdpMessage) DeliveryOutcome {
	if isIPv4Broadcast(msg.Dst.Addr()) {
		delivered := false
		for addr, h := range n.udpSockets {
			if addr.Port() != msg.Dst.Port() {
				continue
			}
			h.incoming = append(h.incoming, msg)
			h.readers.wakeKind(InterestUdpRead)
			delivered = true
		}
		if delivered {
			return Delivered
		}
		return Dropped
	}

	h, ok := n.udpSockets[msg.Dst]
	if !ok {
		return Dropped
	}
	h.incoming = append(h.incoming, msg)
	h.readers.wakeKind(InterestUdpRead)
	return Delivered
}
