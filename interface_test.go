package simnet

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNetInterface_Loopback_MatchesOwnPrefixesOnly(t *testing.T) {
	lo := NewLoopbackInterface()
	require.True(t, lo.usable())

	_, ok := lo.matches(netip.MustParseAddr("127.0.0.1"))
	require.True(t, ok)

	_, ok = lo.matches(netip.MustParseAddr("10.0.0.1"))
	require.False(t, ok)
}

func TestNetInterface_Ethernet_MatchesItsSubnet(t *testing.T) {
	eth := NewEthernetInterface("en0", [6]byte{0x02, 0, 0, 0, 0, 1}, netip.MustParseAddr("10.0.0.5"))
	require.True(t, eth.usable())

	pfx, ok := eth.matches(netip.MustParseAddr("10.0.0.200"))
	require.True(t, ok)
	require.Equal(t, 24, pfx.Bits())

	_, ok = eth.matches(netip.MustParseAddr("10.0.1.1"))
	require.False(t, ok)
}

func TestNetInterface_InactiveIsNotUsable(t *testing.T) {
	eth := NewEthernetInterface("en0", [6]byte{}, netip.MustParseAddr("10.0.0.5"))
	eth.Status = InterfaceInactive
	require.False(t, eth.usable())
}
