package actor

import (
	"testing"

	"github.com/simgrid/simgrid/internal/host"
	"github.com/simgrid/simgrid/internal/resource"
	"github.com/stretchr/testify/require"
)

func newTestHost(name string) *host.Host {
	cpu := resource.NewCpu(name+"-cpu", []float64{1e9}, 1)
	return host.New(name, cpu, nil)
}

func TestActorRunsUntilYield(t *testing.T) {
	h := newTestHost("H1")
	var trace []string
	a := New(1, 0, "a1", h, func(self *Actor) {
		trace = append(trace, "before-yield")
		self.Yield()
		trace = append(trace, "after-yield")
	})
	a.Start()
	a.MarkRunnable()
	a.Resume()
	require.Equal(t, []string{"before-yield"}, trace)
	require.False(t, a.Dead())

	a.MarkRunnable()
	a.Resume()
	require.Equal(t, []string{"before-yield", "after-yield"}, trace)
	require.True(t, a.Dead())
}

func TestOnExitHooksRunInReverseOrder(t *testing.T) {
	h := newTestHost("H1")
	var order []int
	a := New(1, 0, "a1", h, func(self *Actor) {
		self.OnExit(func(error) { order = append(order, 1) })
		self.OnExit(func(error) { order = append(order, 2) })
		self.OnExit(func(error) { order = append(order, 3) })
	})
	a.Start()
	a.MarkRunnable()
	a.Resume()

	require.Equal(t, []int{3, 2, 1}, order)
}

func TestOnExitPanicIsSwallowed(t *testing.T) {
	h := newTestHost("H1")
	ran := false
	a := New(1, 0, "a1", h, func(self *Actor) {
		self.OnExit(func(error) { panic("boom") })
		self.OnExit(func(error) { ran = true })
	})
	a.Start()
	a.MarkRunnable()
	require.NotPanics(t, func() { a.Resume() })
	require.True(t, ran)
}

func TestKillCancelsWaitingActivities(t *testing.T) {
	h := newTestHost("H1")
	a := New(1, 0, "a1", h, func(self *Actor) {
		self.Yield()
	})
	a.Start()
	a.MarkRunnable()
	a.Resume() // parks on Yield

	canceled := false
	a.WaitOn(cancelFunc(func() { canceled = true }))
	a.Kill(0)

	require.True(t, canceled)
	require.True(t, a.WannaDie())
}

type cancelFunc func()

func (c cancelFunc) Cancel() { c() }

func TestSuspendPreventsRunnable(t *testing.T) {
	h := newTestHost("H1")
	a := New(1, 0, "a1", h, func(self *Actor) {})
	a.Suspend()
	a.MarkRunnable()
	require.False(t, a.IsRunnable())
	a.ResumeFromSuspend()
	require.True(t, a.IsRunnable())
}

func TestDaemonFlag(t *testing.T) {
	h := newTestHost("H1")
	a := New(1, 0, "a1", h, func(self *Actor) {})
	require.False(t, a.IsDaemon())
	a.Daemonize()
	require.True(t, a.IsDaemon())
}

func TestMailboxRendezvous(t *testing.T) {
	mb := NewMailbox("m")
	require.False(t, mb.HasPendingRecv())
	send := fakeComm{send: true}
	match := mb.Put(send)
	require.Nil(t, match)
	require.False(t, mb.HasPendingRecv())
	require.True(t, mb.HasPendingSend())

	recv := fakeComm{send: false}
	match2 := mb.Get(recv)
	require.Equal(t, send, match2)
	require.False(t, mb.HasPendingSend())
}

type fakeComm struct{ send bool }

func (f fakeComm) MatchKey() string { return "" }
func (f fakeComm) IsSend() bool     { return f.send }
