package simnet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSleepFuture_PendingThenReady(t *testing.T) {
	clock := NewSimClock()
	queue := NewTimerQueue()
	fut := NewSleepFuture(clock, queue, SimTime(5*time.Second))

	woke := false
	status := fut.Poll(NewWaker(func() { woke = true }))
	require.Equal(t, StatusPending, status)
	require.False(t, fut.IsElapsed())

	clock.SetNow(SimTime(5 * time.Second))
	due := queue.PopDue(clock.Now())
	require.Len(t, due, 1)
	for _, e := range due[0].Entries() {
		e.Waker.Wake()
	}
	require.True(t, woke)

	require.Equal(t, StatusReady, fut.Poll(NewWaker(nil)))
	require.True(t, fut.IsElapsed())
}

func TestSleepFuture_ImmediatelyReady_WhenDeadlineAlreadyPast(t *testing.T) {
	clock := NewSimClock()
	clock.SetNow(SimTime(10 * time.Second))
	queue := NewTimerQueue()
	fut := NewSleepFuture(clock, queue, SimTime(time.Second))

	require.Equal(t, StatusReady, fut.Poll(NewWaker(nil)))
}

func TestSleepFuture_Reset_BeforeAnyPoll(t *testing.T) {
	clock := NewSimClock()
	queue := NewTimerQueue()
	fut := NewSleepFuture(clock, queue, SimTime(time.Second))

	fut.Reset(SimTime(10 * time.Second))
	require.Equal(t, SimTime(10*time.Second), fut.Deadline())

	clock.SetNow(SimTime(time.Second))
	require.Equal(t, StatusPending, fut.Poll(NewWaker(nil)))

	clock.SetNow(SimTime(10 * time.Second))
	due := queue.PopDue(clock.Now())
	require.Len(t, due, 1)
}

func TestSleepFuture_Reset_AfterPoll_Repositions(t *testing.T) {
	clock := NewSimClock()
	queue := NewTimerQueue()
	fut := NewSleepFuture(clock, queue, SimTime(time.Second))

	woke := false
	fut.Poll(NewWaker(func() { woke = true }))

	fut.Reset(SimTime(10 * time.Second))

	due := queue.PopDue(SimTime(time.Second))
	require.Empty(t, due)
	require.False(t, woke)

	due = queue.PopDue(SimTime(10 * time.Second))
	require.Len(t, due, 1)
}

func TestSleepFuture_Cancel_RemovesFromQueue(t *testing.T) {
	clock := NewSimClock()
	queue := NewTimerQueue()
	fut := NewSleepFuture(clock, queue, SimTime(time.Second))

	woke := false
	fut.Poll(NewWaker(func() { woke = true }))
	fut.Cancel()

	due := queue.PopDue(SimTime(time.Second))
	require.Empty(t, due)
	require.False(t, woke)
}
