package simcall

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/simgrid/simgrid/internal/actor"
	"github.com/simgrid/simgrid/internal/host"
	"github.com/simgrid/simgrid/internal/resource"
)

func TestIssueYieldsWithObserverAttached(t *testing.T) {
	cpu := resource.NewCpu("cpu", []float64{1e9}, 1)
	h := host.New("H1", cpu, nil)

	var ran bool
	a := actor.New(1, 0, "a1", h, func(self *actor.Actor) {
		Issue(self, KindSleep, map[string]any{"duration": 1.0}, func() {
			ran = true
			self.MarkRunnable()
		})
	})
	a.Start()
	a.MarkRunnable()
	a.Resume() // parks at Issue's Yield before code() has run

	require.False(t, ran)
	sc := a.PendingSimcall()
	require.NotNil(t, sc)
	obs, ok := sc.Observer.(Observer)
	require.True(t, ok)
	require.Equal(t, KindSleep, obs.Kind)
	require.Equal(t, int64(1), obs.PID)
	require.Equal(t, 1.0, obs.Args["duration"])

	sc.Code()
	require.True(t, ran)
	require.True(t, a.IsRunnable())
}

func TestRecorderAccumulatesInDispatchOrder(t *testing.T) {
	r := NewRecorder()
	r.Record(1, KindSleep, 0.0)
	r.Record(2, KindCommSend, 0.0)
	r.Record(1, KindCommWait, 0.5)

	got := r.Records()
	require.Len(t, got, 3)
	require.Equal(t, Record{PID: 1, Kind: KindSleep, Now: 0.0}, got[0])
	require.Equal(t, Record{PID: 1, Kind: KindCommWait, Now: 0.5}, got[2])
}
