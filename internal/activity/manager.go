package activity

import (
	"github.com/simgrid/simgrid/internal/lmm"
	"github.com/simgrid/simgrid/internal/simerr"
)

// Manager owns the live activities of every kind and drives their
// resource-model update per spec §4.3's update_actions_state, combining
// responsibilities the spec splits across per-kind Resource Models: in Go
// there's exactly one remaining-work accounting loop regardless of kind, so
// one Manager walks all four rather than reimplementing the same loop four
// times.
type Manager struct {
	Solver *lmm.Solver

	execs  []*Exec
	comms  []*Comm
	ios    []*Io
	sleeps []*Sleep
}

// NewManager returns a Manager driving solver.
func NewManager(solver *lmm.Solver) *Manager {
	return &Manager{Solver: solver}
}

// AddExec begins tracking e until it settles.
func (m *Manager) AddExec(e *Exec) { m.execs = append(m.execs, e) }

// AddComm begins tracking c until it settles.
func (m *Manager) AddComm(c *Comm) { m.comms = append(m.comms, c) }

// AddIo begins tracking io until it settles.
func (m *Manager) AddIo(io *Io) { m.ios = append(m.ios, io) }

// AddSleep begins tracking s until it settles.
func (m *Manager) AddSleep(s *Sleep) { m.sleeps = append(m.sleeps, s) }

// Counts reports how many activities of each kind are still tracked
// (settled or not — callers wanting only live ones should call this right
// after Advance, which sweeps settled entries out). Exposed for telemetry
// gauges, not consulted by the kernel itself.
func (m *Manager) Counts() (execs, comms, ios, sleeps int) {
	return len(m.execs), len(m.comms), len(m.ios), len(m.sleeps)
}

// NextEventDelta returns the soonest simulated-time distance at which some
// tracked activity would either leave its latency phase or complete,
// combining the solver's bandwidth/cpu-bound completions (spec §4.2) with
// the comm latency countdowns and sleep deadlines the solver doesn't know
// about. Returns +Inf if nothing is pending.
func (m *Manager) NextEventDelta() float64 {
	best := m.Solver.NextEventCompletion()
	for _, c := range m.comms {
		if c.State != Running {
			continue
		}
		if !c.inFlight && c.latencyRemaining < best {
			best = c.latencyRemaining
		}
	}
	for _, s := range m.sleeps {
		if s.State != Running {
			continue
		}
		if s.Remaining < best {
			best = s.Remaining
		}
	}
	return best
}

// Advance moves every tracked activity forward by delta simulated seconds:
// it decrements comm latency countdowns (flipping into the bandwidth phase
// once exhausted), decrements sleep deadlines, and decrements solver-backed
// remaining work by rate*delta, finishing whichever activities hit zero.
// Call Solver.Solve() before Advance so rates reflect the current delta.
func (m *Manager) Advance(delta float64) {
	if delta <= 0 {
		return
	}

	for _, c := range m.comms {
		if c.State != Running || c.inFlight {
			continue
		}
		c.latencyRemaining -= delta
		if c.latencyRemaining <= m.Solver.Epsilon {
			c.latencyRemaining = 0
			c.activateBandwidthPhase()
		}
	}

	for _, s := range m.sleeps {
		if s.State != Running {
			continue
		}
		s.Remaining -= delta
		if s.Remaining <= m.Solver.Epsilon {
			s.finish()
		}
	}

	for _, e := range m.execs {
		if e.State != Running {
			continue
		}
		if e.resourceOff() {
			m.settleHostFailure(&e.Base, e.Variable)
			continue
		}
		r := e.rate() * delta
		rem := e.remaining() - r
		if rem <= m.Solver.Epsilon {
			e.setRemaining(0)
			m.Solver.RemoveVariable(e.Variable)
			e.finish()
		} else {
			e.setRemaining(rem)
		}
	}

	for _, c := range m.comms {
		if c.State != Running || !c.inFlight {
			continue
		}
		if c.resourceOff() {
			if c.SrcHost.IsOn() && c.DstHost.IsOn() {
				if c.Variable != nil {
					m.Solver.RemoveVariable(c.Variable)
				}
				c.fail(simerr.New(simerr.NetworkFailure, c.Name, "link turned off"))
			} else {
				m.settleHostFailure(&c.Base, c.Variable)
			}
			continue
		}
		r := c.rate() * delta
		rem := c.remaining() - r
		if rem <= m.Solver.Epsilon {
			c.setRemaining(0)
			m.Solver.RemoveVariable(c.Variable)
			c.finish()
		} else {
			c.setRemaining(rem)
		}
	}

	for _, io := range m.ios {
		if io.State != Running {
			continue
		}
		if io.resourceOff() {
			m.settleHostFailure(&io.Base, io.Variable)
			continue
		}
		r := io.rate() * delta
		rem := io.remaining() - r
		if rem <= m.Solver.Epsilon {
			io.setRemaining(0)
			m.Solver.RemoveVariable(io.Variable)
			io.finish()
		} else {
			io.setRemaining(rem)
		}
	}

	m.sweep()
}

func (m *Manager) settleHostFailure(b *Base, v *lmm.Variable) {
	if v != nil {
		m.Solver.RemoveVariable(v)
	}
	b.fail(simerr.New(simerr.HostFailure, b.Name, "resource turned off"))
}

// FailHost fails every in-flight activity referencing hostName with
// HostFailure, per spec §4.6's TurnOff contract. Wired as
// host.Host.CancelHostActivities by the kernel.
func (m *Manager) FailHost(hostName string) {
	for _, e := range m.execs {
		if e.State != Running {
			continue
		}
		for _, h := range e.Hosts {
			if h.Name == hostName {
				m.settleHostFailure(&e.Base, e.Variable)
				break
			}
		}
	}
	for _, io := range m.ios {
		if io.State == Running && io.Host.Name == hostName {
			m.settleHostFailure(&io.Base, io.Variable)
		}
	}
	for _, c := range m.comms {
		if c.State != Running {
			continue
		}
		if c.SrcHost.Name == hostName || c.DstHost.Name == hostName {
			m.settleHostFailure(&c.Base, c.Variable)
		}
	}
}

// sweep drops settled activities from the tracked slices so future ticks
// don't keep re-checking dead ones.
func (m *Manager) sweep() {
	m.execs = filterRunning(m.execs, func(e *Exec) bool { return e.State == Running })
	m.comms = filterRunning(m.comms, func(c *Comm) bool { return c.State == Running })
	m.ios = filterRunning(m.ios, func(io *Io) bool { return io.State == Running })
	m.sleeps = filterRunning(m.sleeps, func(s *Sleep) bool { return s.State == Running })
}

func filterRunning[T any](in []T, keep func(T) bool) []T {
	out := in[:0]
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// Idle reports whether the manager has nothing left to advance, the
// maestro loop's cue that the simulation either deadlocked or is done.
func (m *Manager) Idle() bool {
	return len(m.execs) == 0 && len(m.comms) == 0 && len(m.ios) == 0 && len(m.sleeps) == 0
}
