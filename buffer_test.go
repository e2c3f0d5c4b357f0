package simnet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIncomingBuffer_PushReadAcrossSegments(t *testing.T) {
	b := NewIncomingBuffer(100)
	b.Push([]byte("abc"))
	b.Push([]byte("def"))
	require.Equal(t, 6, b.Len())

	buf := make([]byte, 4)
	n := b.Read(buf)
	require.Equal(t, 4, n)
	require.Equal(t, "abcd", string(buf))
	require.Equal(t, 2, b.Len())

	n = b.Read(buf)
	require.Equal(t, 2, n)
	require.Equal(t, "ef", string(buf[:n]))
	require.Zero(t, b.Len())
}

func TestIncomingBuffer_DropsBeyondCap(t *testing.T) {
	b := NewIncomingBuffer(3)
	b.Push([]byte("abcdef"))
	require.Equal(t, 3, b.Len())

	buf := make([]byte, 10)
	n := b.Read(buf)
	require.Equal(t, 3, n)
	require.Equal(t, "abc", string(buf[:n]))
}

func TestIncomingBuffer_Peek_DoesNotConsume(t *testing.T) {
	b := NewIncomingBuffer(10)
	b.Push([]byte("abc"))

	buf := make([]byte, 3)
	n := b.Peek(buf)
	require.Equal(t, 3, n)
	require.Equal(t, 3, b.Len())
}

func TestOutgoingBuffer_WriteAndYield(t *testing.T) {
	b := NewOutgoingBuffer(100)
	n := b.Write([]byte("hello"))
	require.Equal(t, 5, n)
	require.Equal(t, 5, b.Len())

	segs := b.YieldSegments()
	require.Len(t, segs, 1)
	require.Equal(t, "hello", string(segs[0]))
	require.Zero(t, b.Len())
	require.Nil(t, b.YieldSegments())
}

func TestOutgoingBuffer_WriteTruncatesAtCap(t *testing.T) {
	b := NewOutgoingBuffer(3)
	n := b.Write([]byte("abcdef"))
	require.Equal(t, 3, n)

	segs := b.YieldSegments()
	require.Len(t, segs, 1)
	require.Equal(t, "abc", string(segs[0]))
}

func TestOutgoingBuffer_SplitsAcrossMaxSegment(t *testing.T) {
	b := NewOutgoingBuffer(maxOutgoingSegment * 2)
	data := make([]byte, maxOutgoingSegment+10)
	n := b.Write(data)
	require.Equal(t, len(data), n)

	segs := b.YieldSegments()
	require.Len(t, segs, 2)
	require.Len(t, segs[0], maxOutgoingSegment)
	require.Len(t, segs[1], 10)
}
