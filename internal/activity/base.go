// Package activity implements ActivityImpl and its four concrete variants
// (Exec/Comm/Sleep/Io), per spec §3 and §4.4: the things actors wait on.
// Exec, Comm and Io are each bound to an lmm.Variable and zero or more
// resource constraints; Sleep carries neither.
//
// Grounded on the teacher's sim/cluster task-lifecycle style (a small state
// enum plus waiter bookkeeping resolved by a tick loop), generalized here to
// the four activity kinds the spec's simulation kernel requires.
package activity

import (
	"github.com/simgrid/simgrid/internal/actor"
	"github.com/simgrid/simgrid/internal/lmm"
	"github.com/simgrid/simgrid/internal/simerr"
)

// State is an activity's lifecycle state, per spec §3.
type State int

const (
	Inited State = iota
	Starting
	Running
	Finished
	Canceled
	Failed
)

func (s State) String() string {
	switch s {
	case Inited:
		return "inited"
	case Starting:
		return "starting"
	case Running:
		return "running"
	case Finished:
		return "finished"
	case Canceled:
		return "canceled"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Base carries the fields and lifecycle transitions common to every
// activity kind: state, the waiters blocked on it, and the LMM variable
// that ties it into the fair-share solver.
type Base struct {
	Name     string
	State    State
	Variable *lmm.Variable // nil until the owning kind binds it to a solver

	err     error
	waiters []*actor.Actor

	// OnSettled, if set, is invoked exactly once when the activity leaves
	// Running (Finished/Canceled/Failed), after waiters are woken — the
	// kernel/manager layer uses this to unregister bookkeeping (e.g. comm
	// mailbox membership, host activity sets) without this package needing
	// to import them back.
	OnSettled func(b *Base)
}

// AddWaiter registers an actor as blocked on this activity, per spec §5's
// wait/test simcalls. The actor's WaitOn bookkeeping lets Actor.Kill cancel
// it without this package needing to be told about kills directly.
func (b *Base) AddWaiter(a *actor.Actor) {
	b.waiters = append(b.waiters, a)
	a.WaitOn(activityCanceler{b})
}

// activityCanceler adapts Base to actor.Activity (Cancel-only) so an actor
// can cancel whatever it's waiting on at kill time without this package
// exposing its full surface to actor.
type activityCanceler struct{ b *Base }

func (c activityCanceler) Cancel() { c.b.Cancel() }

// Err returns the terminal error of a Finished/Canceled/Failed activity, or
// nil if it finished successfully or hasn't settled yet.
func (b *Base) Err() error { return b.err }

// wake marks every waiter runnable and clears the waiter list, per spec
// §4.8's "answer the pending simcall by making the actor runnable again".
func (b *Base) wake() {
	for _, a := range b.waiters {
		a.ClearWait()
		a.MarkRunnable()
	}
	b.waiters = nil
	if b.OnSettled != nil {
		b.OnSettled(b)
	}
}

// finish transitions to Finished, waking waiters with no error.
func (b *Base) finish() {
	if b.settled() {
		return
	}
	b.State = Finished
	b.wake()
}

// fail transitions to Failed with the given error.
func (b *Base) fail(err error) {
	if b.settled() {
		return
	}
	b.State = Failed
	b.err = err
	b.wake()
}

// Cancel transitions to Canceled, per spec §5. Idempotent: canceling an
// already-settled activity is a no-op, matching the original's tolerance of
// a race between an activity finishing and its canceling actor dying.
func (b *Base) Cancel() {
	if b.settled() {
		return
	}
	b.State = Canceled
	b.err = simerr.New(simerr.Cancel, b.Name, "")
	b.wake()
}

func (b *Base) settled() bool {
	return b.State == Finished || b.State == Canceled || b.State == Failed
}

// Settled reports whether the activity has left the Running state.
func (b *Base) Settled() bool { return b.settled() }
