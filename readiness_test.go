package simnet

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIOInterest_UdpRead_PendingThenReady(t *testing.T) {
	n := newTestNetContext()
	addr := netip.AddrPortFrom(netip.MustParseAddr("127.0.0.1"), 7000)
	h, err := n.UdpBind(addr)
	require.NoError(t, err)

	fut := NewUdpReadInterest(n, h)
	require.Equal(t, StatusPending, fut.Poll(NewWaker(nil)))

	n.ProcessUDP(UdpMessage{Content: []byte("x"), Dst: addr})
	require.Equal(t, StatusReady, fut.Poll(NewWaker(nil)))
}

func TestIOInterest_UdpWrite_AlwaysReady(t *testing.T) {
	n := newTestNetContext()
	h, err := n.UdpBind(netip.AddrPortFrom(netip.MustParseAddr("127.0.0.1"), 7000))
	require.NoError(t, err)

	fut := NewUdpWriteInterest(n, h)
	require.Equal(t, StatusReady, fut.Poll(NewWaker(nil)))
}

func TestIOInterest_TcpConnect_ResolvesWithError(t *testing.T) {
	n := newTestNetContext()
	serverAddr := netip.AddrPortFrom(netip.MustParseAddr("127.0.0.1"), 9000)
	stream, err := n.TcpBindStream(serverAddr, DefaultStreamConfig())
	require.NoError(t, err)

	fut := NewTcpConnectInterest(n, stream)
	require.Equal(t, StatusPending, fut.Poll(NewWaker(nil)))

	intents := n.YieldIntents()
	require.Len(t, intents, 2)
	n.ProcessTcpConnectTimeout(intents[1].TcpConnect)

	require.Equal(t, StatusReady, fut.Poll(NewWaker(nil)))
	require.ErrorIs(t, fut.Err(), ErrNotConnected)
}
