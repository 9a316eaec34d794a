package clock

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScheduleOrdersByDateThenInsertion(t *testing.T) {
	c := New()
	var order []string
	c.Schedule(2.0, func(float64) { order = append(order, "b-2.0-first") })
	c.Schedule(2.0, func(float64) { order = append(order, "c-2.0-second") })
	c.Schedule(1.0, func(float64) { order = append(order, "a-1.0") })

	c.PopDue(5.0)
	require.Equal(t, []string{"a-1.0", "b-2.0-first", "c-2.0-second"}, order)
}

func TestCancelRemovesEvent(t *testing.T) {
	c := New()
	fired := false
	h := c.Schedule(1.0, func(float64) { fired = true })
	c.Cancel(h)
	c.PopDue(10.0)
	require.False(t, fired)
}

func TestNextDueInfinityWhenEmpty(t *testing.T) {
	c := New()
	require.True(t, math.IsInf(c.NextDue(), 1))
}

func TestPopDueOnlyFiresEventsScheduledDuringSamePass(t *testing.T) {
	c := New()
	var order []string
	c.Schedule(1.0, func(now float64) {
		order = append(order, "first")
		// Scheduled for the same pass boundary: should still fire now.
		c.Schedule(1.0, func(float64) { order = append(order, "chained-same-date") })
		// Scheduled beyond now: must not fire this pass.
		c.Schedule(5.0, func(float64) { order = append(order, "chained-future") })
	})
	c.PopDue(1.0)
	require.Equal(t, []string{"first", "chained-same-date"}, order)
	require.Equal(t, 5.0, c.NextDue())
}

func TestClockMonotonic(t *testing.T) {
	c := New()
	c.Advance(3.0)
	require.Equal(t, 3.0, c.Now())
	c.Advance(1.0) // must not go backwards
	require.Equal(t, 3.0, c.Now())
}
