package simnet

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCurrentNode_RequiresExplicitActivation(t *testing.T) {
	SetCurrentNode(nil)
	_, err := RequireCurrentNode()
	require.ErrorIs(t, err, ErrNoActiveContext)

	n := NewNode([6]byte{}, netip.MustParseAddr("10.0.0.5"))
	SetCurrentNode(n)
	t.Cleanup(func() { SetCurrentNode(nil) })

	got, err := RequireCurrentNode()
	require.NoError(t, err)
	require.Same(t, n, got)
	require.Same(t, n, CurrentNode())
}
