// Package kernel implements the Engine: the maestro and its run loop, per
// spec §4.9. It owns every other package's top-level objects (clock,
// solver, activity manager, hosts, actors) and is the only thing allowed to
// mutate them — user-facing code (the simgrid facade) only ever reaches
// the kernel through simcall.Issue.
//
// Grounded on the teacher's sim/simulator.go run-loop shape (a clock plus
// an event queue driving a fixed phase order each tick) and cmd/root.go's
// logrus conventions, generalized from "one discrete-event simulation of
// inference requests" to "the generic actor/activity/resource kernel".
package kernel

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/simgrid/simgrid/internal/activity"
	"github.com/simgrid/simgrid/internal/actor"
	"github.com/simgrid/simgrid/internal/clock"
	"github.com/simgrid/simgrid/internal/host"
	"github.com/simgrid/simgrid/internal/lmm"
	"github.com/simgrid/simgrid/internal/simcall"
)

// Engine is the maestro: the singleton (per spec §9, "passed by reference,
// never looked up statically") holding every kernel data structure.
type Engine struct {
	Clock      *clock.Clock
	Solver     *lmm.Solver
	Activities *activity.Manager
	Recorder   *simcall.Recorder

	Hosts map[string]*host.Host

	actors    map[int64]*actor.Actor
	allActors []*actor.Actor // ascending pid, stable iteration order (spec §4.9, §8)
	nextPID   int64

	// Deadline, if > 0, stops Run once Clock.Now() reaches it even if work
	// remains — a user-configured escape hatch, not a spec requirement.
	Deadline float64
}

// New constructs an empty Engine: zero hosts, zero actors, clock at 0.
func New() *Engine {
	solver := lmm.New()
	return &Engine{
		Clock:      clock.New(),
		Solver:     solver,
		Activities: activity.NewManager(solver),
		Recorder:   simcall.NewRecorder(),
		Hosts:      make(map[string]*host.Host),
		actors:     make(map[int64]*actor.Actor),
	}
}

// RegisterHost adds h to the engine and wires its kernel-mediated hooks:
// CancelHostActivities (fired on turn_off, per spec §4.6) and BootFn
// (re-creates auto_restart actors on turn_on).
func (e *Engine) RegisterHost(h *host.Host) {
	e.Hosts[h.Name] = h
	h.CancelHostActivities = func(name string) {
		logrus.Warnf("kernel: host %s turned off, failing in-flight activities", name)
		e.Activities.FailHost(name)
	}
	h.BootFn = func(entry host.BootEntry) {
		logrus.Infof("kernel: host %s rebooting actor %s (auto_restart)", h.Name, entry.Name)
		entry.Code()
	}
}

// CreateActor allocates a fresh monotonic pid, constructs the actor on h,
// registers it with both the engine and the host, and makes it runnable
// for the next pass, per spec §3's ActorImpl creation lifecycle. ppid is 0
// for actors created outside any actor's own code (e.g. platform
// deployment). code receives the new actor as its `self`; host.BootEntry's
// Code simply re-invokes CreateActor with the same (name, h, code) triple,
// so a restarted actor "starts from the beginning of its code" per spec §8
// scenario 5 — a fresh pid, a fresh closure invocation.
func (e *Engine) CreateActor(ppid int64, name string, h *host.Host, code func(self *actor.Actor)) *actor.Actor {
	e.nextPID++
	pid := e.nextPID

	a := actor.New(pid, ppid, name, h, code)
	a.SetOnTerminate(func(a *actor.Actor) {
		logrus.Infof("kernel: actor %s (pid=%d) terminated", a.Name, a.PID())
		h.RemoveActor(a.PID())
		delete(e.actors, a.PID())
	})

	e.actors[pid] = a
	e.allActors = append(e.allActors, a)

	entry := host.BootEntry{
		Name: name,
		Code: func() { e.CreateActor(ppid, name, h, code) },
	}
	h.AddActor(a, entry)

	logrus.Infof("kernel: actor %s (pid=%d) created on host %s", name, pid, h.Name)
	a.Start()
	a.MarkRunnable()
	return a
}

// KillActor kills the actor with the given pid on behalf of issuerPID, a
// no-op if it's already dead or doesn't exist.
func (e *Engine) KillActor(issuerPID, targetPID int64) {
	if a, ok := e.actors[targetPID]; ok {
		a.Kill(issuerPID)
	}
}

// Actor looks up a live actor by pid.
func (e *Engine) Actor(pid int64) (*actor.Actor, bool) {
	a, ok := e.actors[pid]
	return a, ok
}

// runnableSnapshot returns the actors ready to run this pass, in ascending
// pid order — spec §4.9's "ties broken by ascending pid" tie-break and
// "stable" ordering in one step, since allActors is already pid-ordered at
// insertion (pids are assigned monotonically).
func (e *Engine) runnableSnapshot() []*actor.Actor {
	var out []*actor.Actor
	for _, a := range e.allActors {
		if a.IsRunnable() {
			out = append(out, a)
		}
	}
	return out
}

// hasLiveNonDaemon reports whether any non-daemon actor is still alive —
// a daemon actor's mere presence never keeps the simulation running, per
// spec §6's `daemonize`.
func (e *Engine) hasLiveNonDaemon() bool {
	for _, a := range e.allActors {
		if !a.Dead() && !a.IsDaemon() {
			return true
		}
	}
	return false
}

// HasMoreWork reports whether the simulation has anything left to do: a
// live non-daemon actor, an in-flight activity, or a pending timer event,
// per spec §2's termination condition.
func (e *Engine) HasMoreWork() bool {
	if e.hasLiveNonDaemon() {
		return true
	}
	if !e.Activities.Idle() {
		return true
	}
	return !math.IsInf(e.Clock.NextDue(), 1)
}

// Run drives the maestro loop until no work remains or Deadline is reached,
// per spec §4.9's pseudo-contract.
func (e *Engine) Run() {
	for e.HasMoreWork() {
		if e.Deadline > 0 && e.Clock.Now() >= e.Deadline {
			logrus.Infof("kernel: deadline %.6f reached, stopping", e.Deadline)
			return
		}
		e.runPass()
	}
	logrus.Infof("kernel: no more work at t=%.6f, simulation complete", e.Clock.Now())
}

// runPass executes one full iteration of the maestro pseudo-contract: run
// every ready actor to its next yield, dispatch the simcalls they issued,
// then solve-and-advance the clock.
func (e *Engine) runPass() {
	snapshot := e.runnableSnapshot()
	for _, a := range snapshot {
		a.Resume()
	}

	logrus.Debugf("kernel: dispatching %d simcall(s) at t=%.6f", len(snapshot), e.Clock.Now())
	for _, a := range snapshot {
		if a.Dead() {
			continue
		}
		sc := a.PendingSimcall()
		if sc == nil {
			continue
		}
		if obs, ok := sc.Observer.(simcall.Observer); ok {
			e.Recorder.Record(obs.PID, obs.Kind, e.Clock.Now())
		}
		sc.Code()
	}

	e.solveAndAdvance()
	e.reap()
}

// solveAndAdvance computes fair-share rates, advances the clock by the
// smallest of the solver's next completion and the event set's next due
// date, lets the activity manager settle whatever that reaches, then fires
// due timer events — spec §4.9's solve_and_advance phase.
func (e *Engine) solveAndAdvance() {
	e.Solver.Solve()

	delta := e.Activities.NextEventDelta()
	if due := e.Clock.NextDue() - e.Clock.Now(); due < delta {
		delta = due
	}
	if math.IsInf(delta, 1) {
		return
	}
	if delta < 0 {
		delta = 0
	}
	if e.Deadline > 0 && e.Clock.Now()+delta > e.Deadline {
		delta = e.Deadline - e.Clock.Now()
	}

	next := e.Clock.Now() + delta
	e.Clock.Advance(next)
	logrus.Debugf("kernel: clock advanced by %.9f to t=%.6f", delta, next)
	e.Activities.Advance(delta)
	e.Clock.PopDue(next)
}

// Snapshot reports the counters telemetry.Metrics.Sample needs: simulated
// time, live actor/host counts, and per-kind in-flight activity counts.
// Kept on Engine rather than telemetry so the latter never needs to know
// this package's internals beyond these seven numbers.
func (e *Engine) Snapshot() (now float64, actors, hosts, execs, comms, ios, sleeps int) {
	execs, comms, ios, sleeps = e.Activities.Counts()
	return e.Clock.Now(), len(e.allActors), len(e.Hosts), execs, comms, ios, sleeps
}

// reap drops terminated actors from the ordered snapshot slice; their
// engine/host bookkeeping was already cleared by SetOnTerminate.
func (e *Engine) reap() {
	kept := e.allActors[:0]
	for _, a := range e.allActors {
		if !a.Dead() {
			kept = append(kept, a)
		}
	}
	e.allActors = kept
}
