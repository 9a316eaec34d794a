// Package simcall formalizes the trap described in spec §4.7: a uniform
// tagged-union Observer carrying typed arguments for introspection, plus
// the Issue helper every blocking user-facing operation (exec, comm, sleep,
// io, wait, host control) funnels through so maestro's dispatch loop never
// needs a hand-rolled per-call-type switch (spec §9's explicit guidance).
//
// Grounded on the teacher's sim/cluster observer-pattern style for
// recording structured call metadata (cmd/root.go's --trace flag feeds a
// similar event log), generalized here from "record an HTTP-ish RPC" to
// "record a kernel trap".
package simcall

import "github.com/simgrid/simgrid/internal/actor"

// Kind names the operation a simcall performs. Kept as a plain string
// rather than an enum so new simgrid facade calls don't require editing
// this package — only the Observer arguments need to be typed per spec
// §4.7 ("observers carry typed arguments so the tracer can introspect
// simcalls without understanding every closure").
type Kind string

const (
	KindExecWait    Kind = "exec_wait"
	KindExecTest    Kind = "exec_test"
	KindCommSend    Kind = "comm_send"
	KindCommRecv    Kind = "comm_recv"
	KindCommWait    Kind = "comm_wait"
	KindCommTest    Kind = "comm_test"
	KindSleep       Kind = "sleep"
	KindIoWait      Kind = "io_wait"
	KindWaitAny     Kind = "wait_any"
	KindBarrier     Kind = "barrier"
	KindMutexLock   Kind = "mutex_lock"
	KindHostOnOff   Kind = "host_on_off"
	KindActorKill   Kind = "actor_kill"
	KindActorSuspend Kind = "actor_suspend"
	KindActorJoin   Kind = "actor_join"
)

// Observer is the typed-argument payload attached to every Simcall, per
// spec §4.7. Args holds call-specific fields (e.g. {"bytes": 1e6,
// "mailbox": "m1"} for a comm_send) — a map rather than one struct-per-Kind
// keeps Issue's call sites terse; callers that need strong typing on the
// way back out (none currently do — Observer is write-only, consulted by
// tracing/model-checking, not by the actor that issued it) can grow a typed
// accessor later without breaking this shape.
type Observer struct {
	Kind Kind
	PID  int64
	Args map[string]any
}

// Issue records observer, installs code as the actor's pending simcall, and
// yields — the only way user-facing code traps into the kernel, per spec
// §4.7/§4.8. code runs in maestro's kernel context on the next dispatch
// pass; it must either mark the actor runnable itself (the "answered"
// case) or register the actor as a waiter on some activity (the "blocking"
// case) — Issue doesn't know or care which, mirroring the original's
// single simcall_answer()-or-not-yet branch.
func Issue(a *actor.Actor, kind Kind, args map[string]any, code func()) {
	obs := Observer{Kind: kind, PID: a.PID(), Args: args}
	a.SetPendingSimcall(&actor.Simcall{Code: code, Observer: obs})
	a.Yield()
}

// Record is one entry of the maestro dispatch trace: which actor issued
// which kind of simcall at what simulated time, per spec §8's BC-9
// determinism property ("the sequence of (pid, simcall_type, now) records
// produced by maestro is bit-identical across runs").
type Record struct {
	PID  int64
	Kind Kind
	Now  float64
}

// Recorder accumulates dispatch Records for a run. The kernel package
// appends one entry per simcall it dispatches, so two runs of the same
// scenario can be compared by their Recorder.Records().
type Recorder struct {
	records []Record
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// Record appends one dispatch entry.
func (r *Recorder) Record(pid int64, kind Kind, now float64) {
	r.records = append(r.records, Record{PID: pid, Kind: kind, Now: now})
}

// Records returns the accumulated trace in dispatch order.
func (r *Recorder) Records() []Record { return r.records }
