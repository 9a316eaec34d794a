package activity

import (
	"github.com/simgrid/simgrid/internal/host"
	"github.com/simgrid/simgrid/internal/lmm"
	"github.com/simgrid/simgrid/internal/resource"
)

// Exec is a computation activity. Most execs bind one host's Cpu
// (Hosts has length 1); a parallel task (spec §4.4's "maps flops and bytes
// to a single coupled action across multiple Cpus and Links sharing one
// LMM variable") binds several hosts and links to the same Variable, each
// with its own share of the total work as its Expand coefficient.
type Exec struct {
	Base
	Host     *host.Host // the sole host, for the common single-host case
	Hosts    []*host.Host
	Flops    float64 // total work, consumed as Variable.RemainingWork
	Priority float64 // 1.0 by default; scales the actor's fair share
}

// NewExec creates an Exec activity for flops of work on h, registering its
// variable against h's Cpu constraint with coefficient 1 (one flop of work
// consumes one flop/s of rate).
func NewExec(solver *lmm.Solver, name string, h *host.Host, flops float64) *Exec {
	e := &Exec{
		Host:     h,
		Hosts:    []*host.Host{h},
		Flops:    flops,
		Priority: 1,
	}
	e.Name = name
	e.State = Running
	v := solver.NewVariable()
	v.RemainingWork = flops
	if c := h.Cpu.Constraint(); c != nil {
		solver.Expand(c, v, 1)
	}
	e.Variable = v
	return e
}

// NewParallelExec creates one coupled Exec spanning several hosts and
// (optionally) links, per spec §4.4's parallel task. hostFlops/linkBytes
// give each participant's share of the total work; the shared Variable's
// rate represents overall progress, and each constraint is expanded with
// the fraction of the total its participant contributes. This is a
// simplified coupling (one combined progress rate rather than the
// original's full flops/bytes matrix), sufficient for a single fair-share
// variable to be genuinely shared across heterogeneous resources.
func NewParallelExec(solver *lmm.Solver, name string, hosts []*host.Host, hostFlops []float64, links []*resource.Link, linkBytes []float64) *Exec {
	e := &Exec{Hosts: hosts, Priority: 1}
	if len(hosts) > 0 {
		e.Host = hosts[0]
	}
	e.Name = name
	e.State = Running

	total := 0.0
	for _, f := range hostFlops {
		total += f
	}
	for _, b := range linkBytes {
		total += b
	}
	if total <= 0 {
		total = 1
	}
	e.Flops = total

	v := solver.NewVariable()
	for i, h := range hosts {
		if i >= len(hostFlops) || hostFlops[i] <= 0 {
			continue
		}
		if c := h.Cpu.Constraint(); c != nil {
			solver.Expand(c, v, hostFlops[i]/total)
		}
	}
	for i, l := range links {
		if i >= len(linkBytes) || linkBytes[i] <= 0 {
			continue
		}
		if c := l.Constraint(); c != nil {
			solver.Expand(c, v, linkBytes[i]/total)
		}
	}
	v.RemainingWork = total
	e.Variable = v
	return e
}

// SetPriority scales the variable's weight (spec §6's `set_priority`).
func (e *Exec) SetPriority(p float64) {
	e.Priority = p
	if e.Variable != nil {
		e.Variable.Priority = p
	}
}

// SetBound caps the exec's rate regardless of fair share (spec §6's
// `set_bound`).
func (e *Exec) SetBound(flopsPerSecond float64) {
	if e.Variable != nil {
		e.Variable.Bound = flopsPerSecond
	}
}

// remaining exposes the LMM-tracked remaining work for the manager's tick.
func (e *Exec) remaining() float64 {
	if e.Variable == nil {
		return 0
	}
	return e.Variable.RemainingWork
}

func (e *Exec) setRemaining(v float64) {
	if e.Variable != nil {
		e.Variable.RemainingWork = v
	}
}

func (e *Exec) rate() float64 {
	if e.Variable == nil {
		return 0
	}
	return e.Variable.Rate()
}

// resourceOff reports whether any host this exec runs on is off, the
// trigger for a HostFailure per spec §7: a parallel task fails wholesale
// if any one of its participating hosts fails.
func (e *Exec) resourceOff() bool {
	for _, h := range e.Hosts {
		if !h.IsOn() {
			return true
		}
	}
	return false
}
