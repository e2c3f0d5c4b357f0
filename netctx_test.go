package simnet

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestNetContext() *NetContext {
	return NewNetContext(NewSimClock(), [6]byte{0x02, 0, 0, 0, 0, 1}, netip.MustParseAddr("10.0.0.5"))
}

func TestBindAddr_UnspecifiedZeroPort_PrefersLowerPriorityInterface(t *testing.T) {
	n := newTestNetContext()

	addr, err := n.bindAddr(netip.AddrPortFrom(netip.IPv4Unspecified(), 0))
	require.NoError(t, err)
	// en0 has priority 10, loopback 100: ascending-priority iteration
	// picks en0 first, per DESIGN.md's Open Question 1 decision.
	require.Equal(t, "10.0.0.5", addr.Addr().String())
}

func TestBindAddr_UnspecifiedZeroPort_MonotonicCounter(t *testing.T) {
	n := newTestNetContext()

	a1, err := n.bindAddr(netip.AddrPortFrom(netip.IPv4Unspecified(), 0))
	require.NoError(t, err)
	a2, err := n.bindAddr(netip.AddrPortFrom(netip.IPv4Unspecified(), 0))
	require.NoError(t, err)

	require.NotEqual(t, a1.Port(), a2.Port())
	require.Less(t, a1.Port(), a2.Port())
}

func TestBindAddr_SpecifiedAddr_Matches(t *testing.T) {
	n := newTestNetContext()

	addr, err := n.bindAddr(netip.AddrPortFrom(netip.MustParseAddr("127.0.0.1"), 9000))
	require.NoError(t, err)
	require.Equal(t, uint16(9000), addr.Port())
}

func TestBindAddr_SpecifiedAddr_NotAvailable(t *testing.T) {
	n := newTestNetContext()

	_, err := n.bindAddr(netip.AddrPortFrom(netip.MustParseAddr("192.168.1.1"), 9000))
	require.ErrorIs(t, err, ErrAddrNotAvailable)
}

func TestBindAddr_SpecifiedAddr_AddrInUse(t *testing.T) {
	n := newTestNetContext()

	_, err := n.UdpBind(netip.AddrPortFrom(netip.MustParseAddr("127.0.0.1"), 9000))
	require.NoError(t, err)

	_, err = n.bindAddr(netip.AddrPortFrom(netip.MustParseAddr("127.0.0.1"), 9000))
	require.ErrorIs(t, err, ErrAddrInUse)
}

func TestBindAddr_IPv6Specified_AddrNotAvailable(t *testing.T) {
	n := newTestNetContext()

	_, err := n.bindAddr(netip.AddrPortFrom(netip.MustParseAddr("::1"), 9000))
	require.ErrorIs(t, err, ErrAddrNotAvailable)
}

func TestNetContext_Reset_ClearsTablesAndPortCounter(t *testing.T) {
	n := newTestNetContext()

	_, err := n.UdpBind(netip.AddrPortFrom(netip.MustParseAddr("127.0.0.1"), 0))
	require.NoError(t, err)

	n.Reset()

	addr, err := n.bindAddr(netip.AddrPortFrom(netip.MustParseAddr("127.0.0.1"), 0))
	require.NoError(t, err)
	require.Equal(t, uint16(1024), addr.Port())
}
