// Package actor implements ActorImpl: actor creation, lifecycle
// (start/yield/kill/daemonize/auto_restart/on_exit), and the simulated
// thread of control that executes user code, per spec §3, §4.8, §4.9.
package actor

import (
	"github.com/sirupsen/logrus"

	"github.com/simgrid/simgrid/internal/actorctx"
	"github.com/simgrid/simgrid/internal/host"
)

// Activity is the subset of an ActivityImpl an actor needs in order to
// cancel whatever it's waiting on at kill time (spec §5's Cancellation).
type Activity interface {
	Cancel()
}

// Simcall mirrors spec §3's Simcall: the trap an actor uses to request a
// kernel-mediated operation. Code is the closure maestro executes in
// kernel context; Observer optionally carries typed arguments for
// introspection (spec §4.7).
type Simcall struct {
	Code     func()
	Observer any
}

// Actor is the kernel-side handle for one simulated thread of control,
// per spec §3's ActorImpl.
type Actor struct {
	pid  int64
	ppid int64
	Name string
	Host *host.Host // non-owning

	ctx *actorctx.Context

	suspended   bool
	daemon      bool
	wannadie    bool
	autoRestart bool

	code func(self *Actor)

	onExit []func(err error)

	mailboxes  map[string]*Mailbox // owned receivers
	activities []Activity          // strong refs the actor currently holds
	waiting    []Activity          // the subset it's actually blocked on

	pendingSimcall *Simcall

	// runnable is set by the kernel/activity layer when an activity this
	// actor was waiting on completes/fails/cancels, so the scheduler knows
	// to resume it on the next maestro pass.
	runnable bool

	onTerminate func(a *Actor) // kernel hook: remove from engine/host bookkeeping
}

// New constructs an actor with the given pid/ppid, resident on host, that
// will run code when started. The kernel assigns pid (globally unique,
// monotonic per spec §3).
func New(pid, ppid int64, name string, h *host.Host, code func(self *Actor)) *Actor {
	a := &Actor{
		pid:       pid,
		ppid:      ppid,
		Name:      name,
		Host:      h,
		ctx:       actorctx.New(),
		code:      code,
		mailboxes: make(map[string]*Mailbox),
	}
	return a
}

// PID returns the actor's globally unique, monotonically assigned id.
func (a *Actor) PID() int64 { return a.pid }

// PPID returns the parent actor's pid.
func (a *Actor) PPID() int64 { return a.ppid }

// Code returns the closure this actor runs, so a caller can respawn an
// equivalent actor (spec §6's `restart`) without this package exposing the
// field directly.
func (a *Actor) Code() func(self *Actor) { return a.code }

// SetOnTerminate installs the kernel's cleanup hook, called exactly once
// when this actor finishes unwinding.
func (a *Actor) SetOnTerminate(fn func(a *Actor)) { a.onTerminate = fn }

// Start launches the actor's goroutine context. It does not run user code
// until the first call to Resume.
func (a *Actor) Start() {
	a.ctx.Start(func(ctx *actorctx.Context) {
		a.code(a)
	})
}

// Resume runs the actor until it next yields (i.e. issues a simcall) or
// terminates, per spec §4.8's context contract.
func (a *Actor) Resume() {
	a.runnable = false
	a.ctx.Resume()
	if a.ctx.Dead() {
		a.terminate(nil)
	}
}

// Yield suspends the actor until maestro next resumes it. Called from
// within the actor's own goroutine at every simcall (spec §5).
func (a *Actor) Yield() { a.ctx.Yield() }

// IsRunnable reports whether the actor is ready to be resumed on the next
// maestro pass.
func (a *Actor) IsRunnable() bool { return a.runnable && !a.suspended }

// MarkRunnable flags the actor as ready to run on the next pass, called by
// the kernel when its pending simcall is answered or an awaited activity
// completes.
func (a *Actor) MarkRunnable() { a.runnable = true }

// Dead reports whether the actor's code has returned (unwound and
// terminated).
func (a *Actor) Dead() bool { return a.ctx.Dead() }

// PendingSimcall returns (and clears) the simcall the actor issued on its
// last yield, or nil if it terminated without issuing one.
func (a *Actor) PendingSimcall() *Simcall {
	sc := a.pendingSimcall
	a.pendingSimcall = nil
	return sc
}

// SetPendingSimcall is called from within the actor's own goroutine to
// record the simcall it's about to yield on.
func (a *Actor) SetPendingSimcall(sc *Simcall) { a.pendingSimcall = sc }

// Suspend marks the actor as not runnable until Resumed via ResumeFromSuspend.
func (a *Actor) Suspend() { a.suspended = true }

// ResumeFromSuspend clears the suspended flag (spec §6's actor `resume`).
func (a *Actor) ResumeFromSuspend() {
	a.suspended = false
	a.runnable = true
}

// Suspended reports whether the actor is currently suspended.
func (a *Actor) Suspended() bool { return a.suspended }

// Daemonize marks the actor as a daemon: its presence does not keep the
// simulation alive on its own (spec §6's `daemonize`).
func (a *Actor) Daemonize() { a.daemon = true }

// IsDaemon reports the daemon flag.
func (a *Actor) IsDaemon() bool { return a.daemon }

// SetAutoRestart sets whether this actor is recreated when its host
// reboots after a failure (spec §6's `set_auto_restart`).
func (a *Actor) SetAutoRestart(v bool) { a.autoRestart = v }

// AutoRestart reports the auto_restart flag (host.ActorRef).
func (a *Actor) AutoRestart() bool { return a.autoRestart }

// OnExit registers a callback run during teardown, in LIFO order, per
// spec §6's `on_exit`.
func (a *Actor) OnExit(cb func(err error)) { a.onExit = append(a.onExit, cb) }

// HoldActivity registers a strong reference to an activity this actor
// created (spec §3's back-reference discipline).
func (a *Actor) HoldActivity(act Activity) { a.activities = append(a.activities, act) }

// WaitOn marks an activity as one the actor is actually blocked on, so
// Kill knows to cancel it.
func (a *Actor) WaitOn(act Activity) { a.waiting = append(a.waiting, act) }

// ClearWait drops the waiting-on bookkeeping once the wait resolves.
func (a *Actor) ClearWait() { a.waiting = nil }

// Kill marks the actor wannadie, cancels everything it's waiting on, and
// marks it runnable so it is resumed on the next pass.
func (a *Actor) Kill(issuerPID int64) {
	if a.wannadie || a.Dead() {
		return
	}
	a.wannadie = true
	for _, act := range a.waiting {
		act.Cancel()
	}
	a.waiting = nil
	// Nothing reads wannadie to unwind the actor: on its next resume the
	// simcall it was blocked in returns the Cancel (or failure) error of
	// its wait, and its code carries on from there. Resume calls
	// terminate() once that code returns.
	if !a.ctx.Dead() {
		a.runnable = true
	} else {
		a.terminate(nil)
	}
}

// WannaDie reports whether Kill has been requested for this actor.
func (a *Actor) WannaDie() bool { return a.wannadie }

// terminate runs on_exit hooks in reverse order (spec §7: errors inside
// on_exit are logged and swallowed so shutdown continues), cancels
// remaining held activities, and invokes the kernel's cleanup hook.
func (a *Actor) terminate(err error) {
	for i := len(a.onExit) - 1; i >= 0; i-- {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logrus.Warnf("actor %s (pid=%d): on_exit hook panicked: %v", a.Name, a.pid, r)
				}
			}()
			a.onExit[i](err)
		}()
	}
	for _, act := range a.activities {
		act.Cancel()
	}
	a.activities = nil
	if a.onTerminate != nil {
		a.onTerminate(a)
	}
}

// CreateMailbox returns (creating if necessary) the mailbox this actor
// owns as a receiver, keyed by name.
func (a *Actor) CreateMailbox(name string) *Mailbox {
	if mb, ok := a.mailboxes[name]; ok {
		return mb
	}
	mb := NewMailbox(name)
	a.mailboxes[name] = mb
	return mb
}
