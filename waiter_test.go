package simnet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWaiterList_WakeKind_KeepsOthers(t *testing.T) {
	var l waiterList
	var woke []string

	l.add(Waiter{Interest: Interest{Kind: InterestUdpRead}, Waker: NewWaker(func() { woke = append(woke, "read") })})
	l.add(Waiter{Interest: Interest{Kind: InterestUdpWrite}, Waker: NewWaker(func() { woke = append(woke, "write") })})

	l.wakeKind(InterestUdpRead)
	require.Equal(t, []string{"read"}, woke)
	require.Len(t, l.items, 1)
	require.Equal(t, InterestUdpWrite, l.items[0].Interest.Kind)
}

func TestWaiterList_WakeAll_ClearsEverything(t *testing.T) {
	var l waiterList
	count := 0
	l.add(Waiter{Interest: Interest{Kind: InterestUdpRead}, Waker: NewWaker(func() { count++ })})
	l.add(Waiter{Interest: Interest{Kind: InterestUdpWrite}, Waker: NewWaker(func() { count++ })})

	l.wakeAll()
	require.Equal(t, 2, count)
	require.Empty(t, l.items)
}
