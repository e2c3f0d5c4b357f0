package simnet

import (
	"net/netip"
	"time"
)

// tcpSegmentDelayStep is the per-segment increase in simulated
// serialization delay applied by YieldIntents, per spec.md §4.C.
const tcpSegmentDelayStep = 5 * time.Millisecond

// TcpListenerHandle is a bound, listening TCP endpoint: a queue of
// pending (not yet accepted) client addresses and the accept-interest
// waiters blocked on it.
type TcpListenerHandle struct {
	LocalAddr netip.AddrPort
	Config    TCPConfig

	pending   []netip.AddrPort
	acceptors waiterList
}

// TcpStreamHandle is one TCP connection endpoint, either accepted from a
// listener or created via tcp_bind_stream. Acked becomes true once the
// handshake completes (immediately, for an accepted stream); until then
// TcpConnectPoll reports pending, unless the connect timeout has fired,
// in which case it reports ready with ErrNotConnected.
type TcpStreamHandle struct {
	LocalAddr netip.AddrPort
	PeerAddr  netip.AddrPort
	Config    TCPConfig

	Incoming *IncomingBuffer
	Outgoing *OutgoingBuffer

	Acked            bool
	ConnectionFailed bool
	initiated        bool
	segmentDelay     time.Duration

	connectWaiters waiterList
	readWaiters    waiterList
}

// TcpBindListener resolves a local address and registers a new listener
// there.
func (n *NetContext) TcpBindListener(requested netip.AddrPort, cfg TCPConfig) (*TcpListenerHandle, error) {
	addr, err := n.bindAddr(requested)
	if err != nil {
		return nil, err
	}
	l := &TcpListenerHandle{LocalAddr: addr, Config: cfg}
	n.listeners[addr] = l
	return l, nil
}

// TcpBindStream allocates a local address (auto-selected from the
// node's interfaces, as for an unspecified bind) for a stream that will
// connect out to peer.
func (n *NetContext) TcpBindStream(peer netip.AddrPort, cfg TCPConfig) (*TcpStreamHandle, error) {
	addr, err := n.bindAddr(netip.AddrPortFrom(netip.IPv4Unspecified(), 0))
	if err != nil {
		return nil, err
	}
	s := &TcpStreamHandle{
		LocalAddr: addr,
		PeerAddr:  peer,
		Config:    cfg,
		Incoming:  NewIncomingBuffer(cfg.RecvBufferSize),
		Outgoing:  NewOutgoingBuffer(cfg.SendBufferSize),
	}
	n.streams[streamKey{Local: addr, Peer: peer}] = s
	return s, nil
}

// TcpAccept pops the oldest pending connection on a listener and
// materializes it as a fully-acknowledged stream, without blocking.
func (n *NetContext) TcpAccept(l *TcpListenerHandle) (*TcpStreamHandle, error) {
	if _, ok := n.listeners[l.LocalAddr]; !ok {
		return nil, ErrClosed
	}
	if len(l.pending) == 0 {
		return nil, ErrWouldBlock
	}
	client := l.pending[0]
	l.pending = l.pending[1:]

	s := &TcpStreamHandle{
		LocalAddr: l.LocalAddr,
		PeerAddr:  client,
		Config:    l.Config,
		Incoming:  NewIncomingBuffer(l.Config.RecvBufferSize),
		Outgoing:  NewOutgoingBuffer(l.Config.SendBufferSize),
		Acked:     true,
	}
	n.streams[streamKey{Local: l.LocalAddr, Peer: client}] = s
	return s, nil
}

// TcpAcceptPoll is the readiness check behind an IOInterest{Kind:
// InterestTcpAccept} future.
func (n *NetContext) TcpAcceptPoll(l *TcpListenerHandle, w *Waker) bool {
	if len(l.pending) > 0 {
		return true
	}
	l.acceptors.add(Waiter{Interest: Interest{Kind: InterestTcpAccept, Addr: l.LocalAddr}, Waker: w})
	return false
}

// TcpDropListener removes the listener; pending connections are
// abandoned and any waiters are left unsignalled.
func (n *NetContext) TcpDropListener(addr netip.AddrPort) {
	delete(n.listeners, addr)
}

// TcpConnectPoll drives the client side of the 2-step handshake. The
// first call emits a ClientInitiate intent plus its matching connect
// timeout; subsequent calls just register a waiter until the handshake
// resolves one way or the other.
func (n *NetContext) TcpConnectPoll(s *TcpStreamHandle, w *Waker) (ready bool, err error) {
	if _, ok := n.streams[streamKey{Local: s.LocalAddr, Peer: s.PeerAddr}]; !ok {
		return false, ErrClosed
	}
	if s.Acked {
		return true, nil
	}
	if s.ConnectionFailed {
		s.ConnectionFailed = false
		return true, ErrNotConnected
	}
	if !s.initiated {
		s.initiated = true
		n.intents = append(n.intents, Intent{
			Kind:       IntentTcpConnect,
			TcpConnect: TcpConnectMessage{Kind: TcpClientInitiate, Client: s.LocalAddr, Server: s.PeerAddr},
		})
		n.intents = append(n.intents, Intent{
			Kind:       IntentTcpConnectTimeout,
			TcpConnect: TcpConnectMessage{Kind: TcpClientInitiate, Client: s.LocalAddr, Server: s.PeerAddr},
			Delay:      s.Config.ConnectTimeout,
		})
	}
	s.connectWaiters.add(Waiter{
		Interest: Interest{Kind: InterestTcpConnect, Addr: s.LocalAddr, Peer: s.PeerAddr},
		Waker:    w,
	})
	return false, nil
}

// TcpWrite buffers data for later segmentation and delivery via
// YieldIntents, returning the number of bytes actually accepted (which
// may be less than len(data) if the send buffer is near capacity).
func (n *NetContext) TcpWrite(s *TcpStreamHandle, data []byte) (int, error) {
	if _, ok := n.streams[streamKey{Local: s.LocalAddr, Peer: s.PeerAddr}]; !ok {
		return 0, ErrClosed
	}
	return s.Outgoing.Write(data), nil
}

// TcpTryRead copies buffered bytes into buf without blocking.
func (n *NetContext) TcpTryRead(s *TcpStreamHandle, buf []byte) (int, error) {
	if _, ok := n.streams[streamKey{Local: s.LocalAddr, Peer: s.PeerAddr}]; !ok {
		return 0, ErrClosed
	}
	if s.Incoming.Len() == 0 {
		return 0, ErrWouldBlock
	}
	return s.Incoming.Read(buf), nil
}

// TcpReadPoll is the readiness check behind an IOInterest{Kind:
// InterestTcpRead} future. Per DESIGN.md's Open Question decision, a
// partial read (buffer non-empty but smaller than the caller wants)
// still counts as ready: only a fully empty buffer registers a waiter.
func (n *NetContext) TcpReadPoll(s *TcpStreamHandle, w *Waker) (ready bool, err error) {
	if _, ok := n.streams[streamKey{Local: s.LocalAddr, Peer: s.PeerAddr}]; !ok {
		return false, ErrClosed
	}
	if s.Incoming.Len() > 0 {
		return true, nil
	}
	s.readWaiters.add(Waiter{
		Interest: Interest{Kind: InterestTcpRead, Addr: s.LocalAddr, Peer: s.PeerAddr},
		Waker:    w,
	})
	return false, nil
}

// TcpDropStream removes the stream; any outstanding connect/read
// waiters are left unsignalled.
func (n *NetContext) TcpDropStream(local, peer netip.AddrPort) {
	delete(n.streams, streamKey{Local: local, Peer: peer})
}

// ProcessTcpConnect delivers one half of the handshake. A
// ClientInitiate arriving at a listener queues a pending connection
// (dropped silently past the configured backlog) and replies with a
// ServerAcknowledge intent; a ServerAcknowledge arriving at the
// initiating stream marks it connected and wakes its connect waiters.
func (n *NetContext) ProcessTcpConnect(msg TcpConnectMessage) DeliveryOutcome {
	switch msg.Kind {
	case TcpClientInitiate:
		l, ok := n.listeners[msg.Server]
		if !ok {
			return Undeliverable
		}
		if l.Config.ListenBacklog <= 0 || len(l.pending) < l.Config.ListenBacklog {
			l.pending = append(l.pending, msg.Client)
		}
		l.acceptors.wakeKind(InterestTcpAccept)
		n.intents = append(n.intents, Intent{
			Kind:       IntentTcpConnect,
			TcpConnect: TcpConnectMessage{Kind: TcpServerAcknowledge, Client: msg.Client, Server: msg.Server},
		})
		return Delivered

	case TcpServerAcknowledge:
		s, ok := n.streams[streamKey{Local: msg.Client, Peer: msg.Server}]
		if !ok {
			return Undeliverable
		}
		s.Acked = true
		s.connectWaiters.wakeKind(InterestTcpConnect)
		return Delivered

	default:
		return Undeliverable
	}
}

// ProcessTcpConnectTimeout fires a previously scheduled connect
// timeout. If the stream has not been acknowledged by now, it is marked
// failed and its connect waiters are woken to observe ErrNotConnected.
func (n *NetContext) ProcessTcpConnectTimeout(msg TcpConnectMessage) DeliveryOutcome {
	s, ok := n.streams[streamKey{Local: msg.Client, Peer: msg.Server}]
	if !ok {
		return Undeliverable
	}
	if !s.Acked {
		s.ConnectionFailed = true
		s.connectWaiters.wakeKind(InterestTcpConnect)
	}
	return Delivered
}

// ProcessTcpPacket delivers an inbound stream segment into the matching
// stream's incoming buffer.
func (n *NetContext) ProcessTcpPacket(msg TcpMessage) DeliveryOutcome {
	s, ok := n.streams[streamKey{Local: msg.Dst, Peer: msg.Src}]
	if !ok {
		return Undeliverable
	}
	s.Incoming.Push(msg.Content)
	s.readWaiters.wakeKind(InterestTcpRead)
	return Delivered
}
