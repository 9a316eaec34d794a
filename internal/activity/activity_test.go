package activity

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/simgrid/simgrid/internal/actor"
	"github.com/simgrid/simgrid/internal/host"
	"github.com/simgrid/simgrid/internal/lmm"
	"github.com/simgrid/simgrid/internal/netzone"
	"github.com/simgrid/simgrid/internal/resource"
)

func newHost(solver *lmm.Solver, name string, speed float64) *host.Host {
	cpu := resource.NewCpu(name+"-cpu", []float64{speed}, 1)
	cpu.BindConstraint(solver.NewConstraint(speed, lmm.Shared))
	return host.New(name, cpu, nil)
}

func TestExecCompletesAfterExpectedDelta(t *testing.T) {
	solver := lmm.New()
	h := newHost(solver, "H1", 1e9)
	mgr := NewManager(solver)

	e := NewExec(solver, "compute", h, 1e9) // 1 second of work alone on a 1 Gflop/s host
	mgr.AddExec(e)

	solver.Solve()
	require.InDelta(t, 1e9, e.rate(), 1e-6)

	delta := mgr.NextEventDelta()
	require.InDelta(t, 1.0, delta, 1e-6)

	mgr.Advance(delta)
	require.Equal(t, Finished, e.State)
	require.Nil(t, e.Err())
}

func TestExecSharesCpuEqually(t *testing.T) {
	solver := lmm.New()
	h := newHost(solver, "H1", 1e9)
	mgr := NewManager(solver)

	a := NewExec(solver, "a", h, 1e9)
	b := NewExec(solver, "b", h, 1e9)
	mgr.AddExec(a)
	mgr.AddExec(b)

	solver.Solve()
	require.InDelta(t, 5e8, a.rate(), 1e-6)
	require.InDelta(t, 5e8, b.rate(), 1e-6)
}

func TestExecFailsWhenHostTurnsOff(t *testing.T) {
	solver := lmm.New()
	h := newHost(solver, "H1", 1e9)
	mgr := NewManager(solver)

	e := NewExec(solver, "compute", h, 1e9)
	mgr.AddExec(e)
	solver.Solve()

	h.TurnOff(0)
	mgr.Advance(0.1)

	require.Equal(t, Failed, e.State)
	require.ErrorContains(t, e.Err(), "HostFailure")
}

func TestCommWaitsThroughLatencyBeforeConsumingBandwidth(t *testing.T) {
	solver := lmm.New()
	h1 := newHost(solver, "H1", 1e9)
	h2 := newHost(solver, "H2", 1e9)

	link := resource.NewLink("L1", 1e6, 0.01)
	link.BindConstraint(solver.NewConstraint(1e6, lmm.Shared))

	route := &netzone.Route{}
	route.Append(netzone.LinkRef{Link: link})

	mgr := NewManager(solver)
	c := NewComm(solver, "msg", h1, h2, 1e6, true, "", route)
	mgr.AddComm(c)

	solver.Solve()
	require.Equal(t, 0.0, c.rate()) // still in latency phase, excluded from solve

	delta := mgr.NextEventDelta()
	require.InDelta(t, 0.01, delta, 1e-9)
	mgr.Advance(delta)
	require.True(t, c.inFlight)
	require.Equal(t, Running, c.State)

	solver.Solve()
	require.InDelta(t, 1e6, c.rate(), 1e-6)

	delta = mgr.NextEventDelta()
	mgr.Advance(delta)
	require.Equal(t, Finished, c.State)
}

func TestCommFailsWithNetworkFailureWhenLinkTurnsOff(t *testing.T) {
	solver := lmm.New()
	h1 := newHost(solver, "H1", 1e9)
	h2 := newHost(solver, "H2", 1e9)

	link := resource.NewLink("L1", 1e6, 0)
	link.BindConstraint(solver.NewConstraint(1e6, lmm.Shared))

	route := &netzone.Route{}
	route.Append(netzone.LinkRef{Link: link})

	mgr := NewManager(solver)
	c := NewComm(solver, "msg", h1, h2, 1e6, true, "", route)
	mgr.AddComm(c)
	require.True(t, c.inFlight) // zero latency, activates immediately

	link.TurnOff()
	solver.Solve()
	mgr.Advance(0.1)

	require.Equal(t, Failed, c.State)
	require.ErrorContains(t, c.Err(), "NetworkFailure")
}

func TestSleepCompletesAfterDuration(t *testing.T) {
	solver := lmm.New()
	mgr := NewManager(solver)

	s := NewSleep("nap", 5.0)
	mgr.AddSleep(s)

	require.InDelta(t, 5.0, mgr.NextEventDelta(), 1e-9)
	mgr.Advance(5.0)
	require.Equal(t, Finished, s.State)
}

func TestWaiterIsWokenWhenActivityIsCanceled(t *testing.T) {
	solver := lmm.New()
	h := newHost(solver, "H1", 1e9)
	mgr := NewManager(solver)

	e := NewExec(solver, "compute", h, 1e9)
	mgr.AddExec(e)

	a := actor.New(1, 0, "waiter", h, func(self *actor.Actor) {})
	e.AddWaiter(a)
	require.False(t, a.IsRunnable())

	e.Cancel()
	require.True(t, a.IsRunnable())
	require.ErrorContains(t, e.Err(), "Cancel")
}

func TestIoCompletesAgainstDiskBandwidth(t *testing.T) {
	solver := lmm.New()
	h := newHost(solver, "H1", 1e9)
	d := resource.NewDisk("d1", 1e6, 1e6)
	readC := solver.NewConstraint(1e6, lmm.Shared)
	writeC := solver.NewConstraint(1e6, lmm.Shared)
	d.BindDirectionalConstraints(readC, writeC)

	mgr := NewManager(solver)
	io := NewIo(solver, "read1", h, d, 1e6, resource.Read)
	mgr.AddIo(io)

	solver.Solve()
	require.InDelta(t, 1e6, io.rate(), 1e-6)
	delta := mgr.NextEventDelta()
	mgr.Advance(delta)
	require.Equal(t, Finished, io.State)
}
