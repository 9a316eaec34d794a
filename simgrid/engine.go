// Package simgrid is the public facade of the simulation kernel: Actor,
// Host, Link, Disk, Mailbox, and Engine, wrapping the internal/ packages
// the way the teacher's `sim` package is the public face of its
// sim/cluster, sim/trace, sim/workload sub-packages. User code only ever
// imports this package; everything under internal/ is implementation
// detail reached exclusively through a kernel simcall.
package simgrid

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/simgrid/simgrid/internal/actor"
	"github.com/simgrid/simgrid/internal/kernel"
	"github.com/simgrid/simgrid/internal/platform"
	"github.com/simgrid/simgrid/internal/telemetry"
)

// Engine is the top-level simulation handle: load a platform, create
// actors on its hosts, then Run.
type Engine struct {
	core      *kernel.Engine
	plat      *platform.Platform
	mailboxes map[string]*actor.Mailbox
}

// NewEngine returns an empty Engine with no platform loaded.
func NewEngine() *Engine {
	return &Engine{core: kernel.New(), mailboxes: make(map[string]*actor.Mailbox)}
}

// LoadPlatform parses the XML platform description at path and registers
// every host it declares with the engine, per spec §6's platform
// description input. Must be called before creating any actors.
func (e *Engine) LoadPlatform(path string) error {
	plat, err := platform.Load(path, e.core.Solver)
	if err != nil {
		return fmt.Errorf("simgrid: load platform: %w", err)
	}
	e.plat = plat
	for name, h := range plat.Hosts {
		e.core.RegisterHost(h)
		if p, ok := plat.HostAvailabilityProfile(name); ok {
			p.Schedule(e.core.Clock, h.Cpu.SetScale)
		}
		if p, ok := plat.HostStateProfile(name); ok {
			p.Schedule(e.core.Clock, func(v float64) {
				if v != 0 {
					h.TurnOn()
				} else {
					h.TurnOff(0)
				}
			})
		}
	}
	for name, l := range plat.Links {
		if p, ok := plat.LinkBandwidthProfile(name); ok {
			p.Schedule(e.core.Clock, l.SetPeak)
		}
		if p, ok := plat.LinkLatencyProfile(name); ok {
			p.Schedule(e.core.Clock, func(v float64) { l.Latency = v })
		}
	}
	return nil
}

// SetDeadline stops Run once simulated time reaches t even if work
// remains, an engine-level escape hatch (not a spec requirement).
func (e *Engine) SetDeadline(t float64) { e.core.Deadline = t }

// Clock returns the current simulated time.
func (e *Engine) Clock() float64 { return e.core.Clock.Now() }

// HostByName looks up a platform host by name, per spec §6's `get_host_by_name`
// style accessor every SimGrid binding exposes.
func (e *Engine) HostByName(name string) (*Host, bool) {
	if e.plat == nil {
		return nil, false
	}
	h, ok := e.plat.Hosts[name]
	if !ok {
		return nil, false
	}
	return &Host{core: h, engine: e}, true
}

// LinkByName looks up a platform link by name.
func (e *Engine) LinkByName(name string) (*Link, bool) {
	if e.plat == nil {
		return nil, false
	}
	l, ok := e.plat.Links[name]
	if !ok {
		return nil, false
	}
	return &Link{core: l, engine: e}, true
}

// CreateActor spawns a new actor named name on host h, running code. ppid
// is 0 (created outside any actor's own code), matching platform-deployment
// style creation — use Actor.Create from inside running actor code for a
// child actor with the right ppid.
func (e *Engine) CreateActor(h *Host, name string, code func(self *Actor)) *Actor {
	var facade *Actor
	a := e.core.CreateActor(0, name, h.core, func(core *actor.Actor) {
		facade = &Actor{core: core, engine: e}
		code(facade)
	})
	return &Actor{core: a, engine: e}
}

// Run drives the maestro loop until no work remains or the deadline is hit.
func (e *Engine) Run() {
	e.core.Run()
}

// SetLogLevel parses and applies a logrus level string ("debug", "info",
// "warn", ...), per the `--log` CLI flag.
func SetLogLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("simgrid: invalid log level %q: %w", level, err)
	}
	logrus.SetLevel(lvl)
	return nil
}

// SolverEpsilon reports the engine's numerical epsilon, useful for callers
// comparing simulated completion times against expectations.
func (e *Engine) SolverEpsilon() float64 { return e.core.Solver.Epsilon }

// SetSolverEpsilon overrides the LMM solver's convergence/settle epsilon.
func (e *Engine) SetSolverEpsilon(eps float64) { e.core.Solver.Epsilon = eps }

// TelemetrySnapshot reports the counters telemetry.Metrics.Sample needs,
// for callers (cmd/observe.go) polling the engine from a separate goroutine
// while Run executes.
func (e *Engine) TelemetrySnapshot() telemetry.EngineSnapshot {
	now, actors, hosts, execs, comms, ios, sleeps := e.core.Snapshot()
	return telemetry.EngineSnapshot{
		Now: now, ActorCount: actors, HostCount: hosts,
		Execs: execs, Comms: comms, Ios: ios, Sleeps: sleeps,
	}
}
