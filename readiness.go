package simnet

// IOInterest is the leaf future behind every blocking I/O call: it polls
// true readiness against a NetContext resource and implements Task so a
// Scheduler can drive it, per spec.md §4.D's six poll rules. The caller
// performs the actual non-blocking operation (UdpTryRead, TcpAccept,
// TcpTryRead, ...) once Poll reports StatusReady.
type IOInterest struct {
	kind InterestKind
	ctx  *NetContext

	udp      *UdpSocketHandle
	listener *TcpListenerHandle
	stream   *TcpStreamHandle

	err error
}

// NewUdpReadInterest reports ready once h has a queued datagram.
func NewUdpReadInterest(ctx *NetContext, h *UdpSocketHandle) *IOInterest {
	return &IOInterest{kind: InterestUdpRead, ctx: ctx, udp: h}
}

// NewUdpWriteInterest reports ready immediately: UDP sends buffer
// synchronously and never block.
func NewUdpWriteInterest(ctx *NetContext, h *UdpSocketHandle) *IOInterest {
	return &IOInterest{kind: InterestUdpWrite, ctx: ctx, udp: h}
}

// NewTcpAcceptInterest reports ready once l has a pending connection.
func NewTcpAcceptInterest(ctx *NetContext, l *TcpListenerHandle) *IOInterest {
	return &IOInterest{kind: InterestTcpAccept, ctx: ctx, listener: l}
}

// NewTcpConnectInterest reports ready once s's handshake resolves,
// either with a nil error (acknowledged) or ErrNotConnected (timed out).
func NewTcpConnectInterest(ctx *NetContext, s *TcpStreamHandle) *IOInterest {
	return &IOInterest{kind: InterestTcpConnect, ctx: ctx, stream: s}
}

// NewTcpReadInterest reports ready once s's incoming buffer is
// non-empty.
func NewTcpReadInterest(ctx *NetContext, s *TcpStreamHandle) *IOInterest {
	return &IOInterest{kind: InterestTcpRead, ctx: ctx, stream: s}
}

// NewTcpWriteInterest reports ready immediately: writes buffer
// synchronously against OutgoingBuffer's cap and never block.
func NewTcpWriteInterest(ctx *NetContext, s *TcpStreamHandle) *IOInterest {
	return &IOInterest{kind: InterestTcpWrite, ctx: ctx, stream: s}
}

// Err returns the error the future resolved with, if any. Only
// meaningful once Poll has returned StatusReady for a TcpConnect or
// TcpRead interest.
func (f *IOInterest) Err() error { return f.err }

func (f *IOInterest) Poll(w *Waker) PollStatus {
	switch f.kind {
	case InterestUdpRead:
		if f.ctx.UdpReadPoll(f.udp, w) {
			return StatusReady
		}
		return StatusPending

	case InterestUdpWrite:
		return StatusReady

	case InterestTcpAccept:
		if f.ctx.TcpAcceptPoll(f.listener, w) {
			return StatusReady
		}
		return StatusPending

	case InterestTcpConnect:
		ready, err := f.ctx.TcpConnectPoll(f.stream, w)
		if ready || err != nil {
			f.err = err
			return StatusReady
		}
		return StatusPending

	case InterestTcpRead:
		ready, err := f.ctx.TcpReadPoll(f.stream, w)
		if ready || err != nil {
			f.err = err
			return StatusReady
		}
		return StatusPending

	case InterestTcpWrite:
		return StatusReady

	default:
		return StatusReady
	}
}
