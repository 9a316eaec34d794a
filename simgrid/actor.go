package simgrid

import (
	"runtime"

	"github.com/simgrid/simgrid/internal/actor"
	"github.com/simgrid/simgrid/internal/host"
	"github.com/simgrid/simgrid/internal/resource"
	"github.com/simgrid/simgrid/internal/simcall"
)

// Actor is the public handle user code receives as `self`, and the handle
// other actors use to control it, per spec §6's Actor operations (`kill`,
// `suspend`, `resume`, `join`, `set_host`, `set_auto_restart`, `daemonize`,
// `on_exit`, `restart`) plus the This-actor ops (`sleep_for`, `execute`,
// `parallel_execute`, `yield`, `exit`, ...).
type Actor struct {
	core   *actor.Actor
	engine *Engine
}

// PID returns the actor's globally unique, monotonically assigned id.
func (a *Actor) PID() int64 { return a.core.PID() }

// Host returns the host this actor currently resides on.
func (a *Actor) Host() *Host { return &Host{core: a.core.Host, engine: a.engine} }

// SetHost moves this actor onto h, the way a live-migrated actor would,
// per spec §6's `set_host`. Purely a bookkeeping move: any activity
// already in flight keeps referencing the host it was started on.
func (a *Actor) SetHost(h *Host) { a.core.Host = h.core }

// Restart kills this actor and respawns an equivalent one (same name,
// host, and code) with a fresh pid, per spec §6's `restart` and §8
// scenario 5's "starts from the beginning of its code" contract.
func (a *Actor) Restart() *Actor {
	name, residentHost, code := a.core.Name, a.core.Host, a.core.Code()
	ppid := a.core.PPID()
	a.core.Kill(a.core.PID())
	core := a.engine.core.CreateActor(ppid, name, residentHost, code)
	return &Actor{core: core, engine: a.engine}
}

// Create spawns a child actor named name on h, with this actor as parent
// (spec §6's `create`).
func (a *Actor) Create(h *Host, name string, code func(self *Actor)) *Actor {
	var facade *Actor
	core := a.engine.core.CreateActor(a.core.PID(), name, h.core, func(c *actor.Actor) {
		facade = &Actor{core: c, engine: a.engine}
		code(facade)
	})
	return &Actor{core: core, engine: a.engine}
}

// Kill terminates target on behalf of a (spec §6's `kill`).
func (a *Actor) Kill(target *Actor) { a.engine.core.KillActor(a.core.PID(), target.core.PID()) }

// Suspend/Resume pause and resume this actor's scheduling eligibility.
func (a *Actor) Suspend()           { a.core.Suspend() }
func (a *Actor) ResumeFromSuspend() { a.core.ResumeFromSuspend() }
func (a *Actor) Suspended() bool    { return a.core.Suspended() }

// Join blocks self until target terminates (spec §6's `join(timeout)`; the
// timeout itself is left to the caller, e.g. race against SleepFor).
func (a *Actor) Join(target *Actor) { a.engine.core.Join(a.core, target.core) }

// SetAutoRestart marks whether this actor is recreated when its host
// reboots (spec §6's `set_auto_restart`).
func (a *Actor) SetAutoRestart(v bool) { a.core.SetAutoRestart(v) }

// Daemonize marks this actor as a daemon: its presence alone never keeps
// the simulation running (spec §6's `daemonize`).
func (a *Actor) Daemonize() { a.core.Daemonize() }

// OnExit registers a teardown hook, run in LIFO order when the actor dies
// (spec §6's `on_exit`).
func (a *Actor) OnExit(cb func(err error)) { a.core.OnExit(cb) }

// SleepFor blocks self for duration simulated seconds (spec §6's `sleep_for`).
func (a *Actor) SleepFor(duration float64) error {
	s := a.engine.core.SleepAsync(duration)
	return a.engine.core.Wait(a.core, simcall.KindSleep, s)
}

// SleepUntil blocks self until simulated time date (spec §6's `sleep_until`).
func (a *Actor) SleepUntil(date float64) error {
	now := a.engine.core.Clock.Now()
	if date <= now {
		return nil
	}
	return a.SleepFor(date - now)
}

// Execute runs flops of work on this actor's current host and blocks until
// it completes (spec §6's `execute`).
func (a *Actor) Execute(flops float64) error {
	ex := a.engine.core.ExecAsync(a.core.Host, flops)
	return a.engine.core.Wait(a.core, simcall.KindExecWait, ex)
}

// ExecAsync starts flops of work without blocking, per spec §6's
// `exec_async`; call Wait on the result to block later.
func (a *Actor) ExecAsync(flops float64) *Exec {
	return &Exec{core: a.engine.core.ExecAsync(a.core.Host, flops)}
}

// ParallelExecute runs a coupled task across several hosts (and,
// optionally, links), per spec §6's `parallel_execute`, and blocks until it
// completes.
func (a *Actor) ParallelExecute(hosts []*Host, hostFlops []float64, links []*Link, linkBytes []float64) error {
	coreHosts := make([]*host.Host, len(hosts))
	for i, h := range hosts {
		coreHosts[i] = h.core
	}
	coreLinks := make([]*resource.Link, len(links))
	for i, l := range links {
		coreLinks[i] = l.core
	}
	ex := a.engine.core.ParallelExecAsync(coreHosts, hostFlops, coreLinks, linkBytes)
	return a.engine.core.Wait(a.core, simcall.KindExecWait, ex)
}

// IoAsync starts a disk read/write without blocking, per spec §6's `io_init`.
func (a *Actor) IoAsync(d *Disk, bytes float64, dir resource.Direction) *Io {
	return &Io{core: a.engine.core.IoAsync(a.core.Host, d.core, bytes, dir)}
}

// Io blocks self until a disk transfer of bytes in direction dir completes.
func (a *Actor) Io(d *Disk, bytes float64, dir resource.Direction) error {
	io := a.engine.core.IoAsync(a.core.Host, d.core, bytes, dir)
	return a.engine.core.Wait(a.core, simcall.KindIoWait, io)
}

// Send blocks self until bytes have been transferred through mb to
// whichever Recv matches it (spec §6's Mailbox `put`).
func (a *Actor) Send(mb *Mailbox, bytes float64) error {
	return a.engine.core.Send(a.core, mb.core, bytes)
}

// Recv blocks self until a matching Send arrives on mb (spec §6's Mailbox
// `get`).
func (a *Actor) Recv(mb *Mailbox) error {
	return a.engine.core.Recv(a.core, mb.core)
}

// Yield gives other runnable actors a chance to run before self resumes
// on the next maestro pass (spec §6's `yield`).
func (a *Actor) Yield() {
	a.core.MarkRunnable()
	a.core.Yield()
}

// Exit terminates self immediately, running its on_exit hooks (spec §6's
// `exit`).
func (a *Actor) Exit() {
	a.core.Kill(a.core.PID())
	runtime.Goexit()
}
