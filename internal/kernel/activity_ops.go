package kernel

import (
	"github.com/simgrid/simgrid/internal/activity"
	"github.com/simgrid/simgrid/internal/actor"
	"github.com/simgrid/simgrid/internal/host"
	"github.com/simgrid/simgrid/internal/netzone"
	"github.com/simgrid/simgrid/internal/resource"
	"github.com/simgrid/simgrid/internal/simcall"
	"github.com/simgrid/simgrid/internal/xbtassert"
)

// Waitable is any tracked activity a simgrid-facade call can block on — the
// four concrete kinds (Exec, Comm, Sleep, Io) all satisfy it via their
// embedded activity.Base, per spec §3's common ActivityImpl surface.
type Waitable interface {
	AddWaiter(a *actor.Actor)
	Settled() bool
	Err() error
}

// ExecAsync starts a compute activity on h for flops and begins tracking
// it, per spec §6's `exec_async`. The caller (simgrid facade) typically
// follows with Wait to block until it settles.
func (e *Engine) ExecAsync(h *host.Host, flops float64) *activity.Exec {
	ex := activity.NewExec(e.Solver, "exec", h, flops)
	e.Activities.AddExec(ex)
	return ex
}

// SleepAsync begins a pure time-advance activity, per spec §6's
// `sleep_for`/§4.4's SleepImpl.
func (e *Engine) SleepAsync(duration float64) *activity.Sleep {
	s := activity.NewSleep("sleep", duration)
	e.Activities.AddSleep(s)
	return s
}

// ParallelExecAsync starts a coupled computation spanning several hosts
// (and, optionally, links), per spec §6's `parallel_execute`/`exec_init`
// with multiple participants. hostFlops/linkBytes give each participant's
// portion of the total work.
func (e *Engine) ParallelExecAsync(hosts []*host.Host, hostFlops []float64, links []*resource.Link, linkBytes []float64) *activity.Exec {
	ex := activity.NewParallelExec(e.Solver, "parallel_exec", hosts, hostFlops, links, linkBytes)
	e.Activities.AddExec(ex)
	return ex
}

// IoAsync starts a disk read/write activity, per spec §6's `io_init`.
func (e *Engine) IoAsync(h *host.Host, d *resource.Disk, bytes float64, dir resource.Direction) *activity.Io {
	io := activity.NewIo(e.Solver, "io", h, d, bytes, dir)
	e.Activities.AddIo(io)
	return io
}

// Wait blocks self (via a simcall) until w settles, then returns its
// terminal error (nil on success), per spec §4.7's blocking-simcall
// contract: the code closure registers self as a waiter and returns
// without answering; self is woken only once w transitions out of Running.
func (e *Engine) Wait(self *actor.Actor, kind simcall.Kind, w Waitable) error {
	if w.Settled() {
		return w.Err()
	}
	simcall.Issue(self, kind, nil, func() {
		w.AddWaiter(self)
	})
	return w.Err()
}

// commRequest is the Mailbox-matching record for one side of a pending
// rendezvous (spec §3/§4.4). It implements actor.CommRef so Mailbox can
// match it without this package exposing more than that.
type commRequest struct {
	who      *actor.Actor
	host     *host.Host
	bytes    float64
	send     bool
	matchKey string
	comm     *activity.Comm // set once matched
}

func (r *commRequest) MatchKey() string { return r.matchKey }
func (r *commRequest) IsSend() bool     { return r.send }

// matchAndSpawn resolves the route between the matched pair's hosts,
// constructs the transfer activity, and registers both sides as waiters on
// it — spec §4.4's "both sides transition to MATCHED and an Action is
// spawned on the src→dst route".
func (e *Engine) matchAndSpawn(mbName string, local, peer *commRequest) *activity.Comm {
	src, dst := local, peer
	if !local.send {
		src, dst = peer, local
	}
	route, err := netzone.GetGlobalRoute(src.host.NetPoint, dst.host.NetPoint)
	if err != nil {
		xbtassert.Impossible("kernel: no route %s -> %s for mailbox %s: %v", src.host.Name, dst.host.Name, mbName, err)
	}
	comm := activity.NewComm(e.Solver, mbName, src.host, dst.host, src.bytes, true, "", route)
	e.Activities.AddComm(comm)
	local.comm = comm
	peer.comm = comm
	comm.AddWaiter(local.who)
	comm.AddWaiter(peer.who)
	return comm
}

// Send blocks self until bytes have been transferred through mb to
// whichever recv matches it (spec §6's Mailbox `put`), returning the
// transfer's terminal error.
func (e *Engine) Send(self *actor.Actor, mb *actor.Mailbox, bytes float64) error {
	req := &commRequest{who: self, host: self.Host, bytes: bytes, send: true}
	simcall.Issue(self, simcall.KindCommSend, map[string]any{"mailbox": mb.Name, "bytes": bytes}, func() {
		if peerAny := mb.Put(req); peerAny != nil {
			e.matchAndSpawn(mb.Name, req, peerAny.(*commRequest))
		}
		// else: queued; a later Recv's Get() call matches it and wakes self.
	})
	if req.comm == nil {
		return nil
	}
	return req.comm.Err()
}

// HostTurnOff turns h off on behalf of self, per spec §6's `turn_on/off`.
// Modeled as an "answered" simcall (spec §4.7): the closure runs
// synchronously and marks self runnable immediately, since turning a host
// off/on is never itself something self waits on.
func (e *Engine) HostTurnOff(self *actor.Actor, h *host.Host) {
	simcall.Issue(self, simcall.KindHostOnOff, map[string]any{"host": h.Name, "on": false}, func() {
		h.TurnOff(self.PID())
		self.MarkRunnable()
	})
}

// HostTurnOn turns h back on, per spec §6's `turn_on/off`.
func (e *Engine) HostTurnOn(self *actor.Actor, h *host.Host) {
	simcall.Issue(self, simcall.KindHostOnOff, map[string]any{"host": h.Name, "on": true}, func() {
		h.TurnOn()
		self.MarkRunnable()
	})
}

// Join blocks self until target terminates, per spec §6's `join(timeout)`
// (the timeout itself is left to the caller, via Deadline or a racing
// Sleep — this is the unconditional wait). A no-op if target is already
// dead by the time Join is issued.
func (e *Engine) Join(self *actor.Actor, target *actor.Actor) {
	if target.Dead() {
		return
	}
	simcall.Issue(self, simcall.KindActorJoin, map[string]any{"target": target.PID()}, func() {
		target.OnExit(func(error) { self.MarkRunnable() })
	})
}

// Recv blocks self until a matching send arrives on mb (spec §6's Mailbox
// `get`), returning the transfer's terminal error.
func (e *Engine) Recv(self *actor.Actor, mb *actor.Mailbox) error {
	req := &commRequest{who: self, host: self.Host, send: false}
	simcall.Issue(self, simcall.KindCommRecv, map[string]any{"mailbox": mb.Name}, func() {
		if peerAny := mb.Get(req); peerAny != nil {
			e.matchAndSpawn(mb.Name, req, peerAny.(*commRequest))
		}
	})
	if req.comm == nil {
		return nil
	}
	return req.comm.Err()
}
