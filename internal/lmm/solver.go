// Package lmm implements the Linear Max-Min constraint solver: the
// bipartite graph of variables (activities) against constraints
// (resources) that produces instantaneous fair-share rates, per spec §4.2.
//
// The algorithm is progressive filling (water-filling) max-min fairness
// with priorities, grounded on the teacher's container/heap-based
// determinism discipline (sim/cluster/event_heap.go: tie-break by a stable
// id, never by map iteration order) and cross-checked in tests against
// gonum's dense linear algebra for the textbook equal-share case.
package lmm

import (
	"math"
	"sort"
)

// SharingPolicy controls how a constraint aggregates the demand of the
// variables that reference it.
type SharingPolicy int

const (
	// Shared: the sum of rate*coefficient across variables is bounded by
	// capacity (ordinary max-min fair sharing).
	Shared SharingPolicy = iota
	// FatPipe: the max, not the sum, of rate*coefficient is bounded by
	// capacity — variables don't compete for this resource.
	FatPipe
	// Nonlinear: the aggregated raw demand is passed through a callback
	// before being compared against capacity.
	Nonlinear
)

// DefaultEpsilon is sg_precision_timing from spec §4.2: two rates within
// this distance are considered equal, and rates below it are clamped to 0.
const DefaultEpsilon = 1e-9

// Constraint is a resource (Cpu/Link/Disk) shared by zero or more
// variables.
type Constraint struct {
	id       int64
	Capacity float64
	Policy   SharingPolicy
	// NonlinearFunc transforms aggregated raw usage into the quantity
	// compared against Capacity. Only consulted when Policy == Nonlinear.
	// Must be non-decreasing; negative outputs are undefined behavior in
	// the original and are clamped to 0 here per spec §9's open question.
	NonlinearFunc func(rawUsage float64) float64
	// WifiCaps, when non-nil, bounds each referencing variable's rate
	// individually (per-host rate cap stored on the link), applied in
	// addition to whatever the shared/fatpipe accounting yields.
	WifiCaps map[int64]float64

	elements []*element
	active   bool // true while still unsaturated during solve()
}

// ID is a stable, monotonically assigned identifier used only to break
// ties deterministically; it carries no other meaning.
func (c *Constraint) ID() int64 { return c.id }

type element struct {
	v           *Variable
	constraint  *Constraint
	coefficient float64
}

// Variable is an activity's claim on one or more constraints.
type Variable struct {
	id       int64
	Weight   float64 // fair-share weight, default 1
	Priority float64 // multiplier on Weight; <= 0 excludes the variable
	Bound    float64 // explicit user rate cap; <= 0 means unbounded
	// RemainingWork, if set (> 0), is consulted by NextEventCompletion to
	// find the soonest activity finish, expressed in the same units as
	// rate (e.g. bytes or flops remaining).
	RemainingWork float64

	elements []*element
	rate     float64
	fixed    bool // true once its final rate has been determined
}

// ID is a stable, monotonically assigned identifier; ties in the solver
// break on ascending ID per spec §4.2 ("ties broken by variable id").
func (v *Variable) ID() int64   { return v.id }
func (v *Variable) Rate() float64 { return v.rate }

// Solver owns the bipartite graph and computes rates via Solve().
type Solver struct {
	Epsilon     float64
	constraints []*Constraint
	variables   []*Variable
	nextCID     int64
	nextVID     int64
}

// New returns a Solver using DefaultEpsilon.
func New() *Solver {
	return &Solver{Epsilon: DefaultEpsilon}
}

// NewConstraint registers and returns a new constraint with the given
// capacity and sharing policy.
func (s *Solver) NewConstraint(capacity float64, policy SharingPolicy) *Constraint {
	s.nextCID++
	c := &Constraint{id: s.nextCID, Capacity: capacity, Policy: policy}
	s.constraints = append(s.constraints, c)
	return c
}

// NewVariable registers and returns a new variable with default weight 1.
func (s *Solver) NewVariable() *Variable {
	s.nextVID++
	v := &Variable{id: s.nextVID, Weight: 1, Priority: 1}
	s.variables = append(s.variables, v)
	return v
}

// RemoveVariable deletes a variable and its edges from the graph — used
// when an activity completes, fails, or is canceled.
func (s *Solver) RemoveVariable(v *Variable) {
	for _, e := range v.elements {
		c := e.constraint
		idx := -1
		for i, ce := range c.elements {
			if ce.v == v {
				idx = i
				break
			}
		}
		if idx >= 0 {
			c.elements = append(c.elements[:idx], c.elements[idx+1:]...)
		}
	}
	v.elements = nil
	for i, existing := range s.variables {
		if existing == v {
			s.variables = append(s.variables[:i], s.variables[i+1:]...)
			break
		}
	}
}

// RemoveConstraint deletes a constraint, e.g. when a resource is destroyed.
// Any variable left with zero edges keeps a rate of 0 on the next Solve.
func (s *Solver) RemoveConstraint(c *Constraint) {
	for _, e := range c.elements {
		v := e.v
		idx := -1
		for i, ve := range v.elements {
			if ve.constraint == c {
				idx = i
				break
			}
		}
		if idx >= 0 {
			v.elements = append(v.elements[:idx], v.elements[idx+1:]...)
		}
	}
	c.elements = nil
	for i, existing := range s.constraints {
		if existing == c {
			s.constraints = append(s.constraints[:i], s.constraints[i+1:]...)
			break
		}
	}
}

// Expand creates an edge between v and c with the given per-unit-rate
// resource consumption coefficient.
func (s *Solver) Expand(c *Constraint, v *Variable, coefficient float64) {
	e := &element{v: v, constraint: c, coefficient: coefficient}
	c.elements = append(c.elements, e)
	v.elements = append(v.elements, e)
}

// effectiveWeight folds Priority into Weight; priority <= 0 disables the
// variable entirely (it gets rate 0 and never constrains anyone).
func effectiveWeight(v *Variable) float64 {
	if v.Priority <= 0 {
		return 0
	}
	w := v.Weight * v.Priority
	if w <= 0 {
		return 0
	}
	return w
}

// Solve computes, for every live variable, its current fair-share rate.
// Implements progressive filling: repeatedly find the constraint (or
// per-variable bound) that would be the first to saturate if all
// still-free variables grew proportionally to their weight, fix the
// variables that hit it at that rate, and repeat on the residual problem.
func (s *Solver) Solve() {
	for _, v := range s.variables {
		v.rate = 0
		v.fixed = effectiveWeight(v) == 0
	}
	for _, c := range s.constraints {
		c.active = true
	}

	for {
		progressed := s.stepFill()
		if !progressed {
			break
		}
	}
}

// stepFill performs one saturation round; returns false once every
// variable is fixed (no further progress possible).
func (s *Solver) stepFill() bool {
	type candidate struct {
		increment  float64
		constraint *Constraint
		vars       []*Variable
	}

	var best *candidate

	// Per-variable explicit bounds (user rate cap, wifi cap) are treated
	// as single-variable "constraints" competing in the same pool so that
	// a tightly bounded variable saturates before a shared link does.
	for _, v := range s.variables {
		if v.fixed {
			continue
		}
		bound := boundFor(v)
		if bound < 0 {
			continue
		}
		w := effectiveWeight(v)
		if w == 0 {
			continue
		}
		// Store as a per-weight increment so it composes with
		// constraint-derived increments below via the same
		// increment*effectiveWeight(v) reconstruction.
		inc := bound / w
		if best == nil || inc < best.increment-s.Epsilon {
			best = &candidate{increment: inc, vars: []*Variable{v}}
		} else if math.Abs(inc-best.increment) <= s.Epsilon {
			best.vars = append(best.vars, v)
		}
	}

	for _, c := range s.constraints {
		if !c.active {
			continue
		}
		inc, vars := s.constraintIncrement(c)
		if vars == nil {
			c.active = false
			continue
		}
		if best == nil || inc < best.increment-s.Epsilon {
			best = &candidate{increment: inc, constraint: c, vars: vars}
		} else if math.Abs(inc-best.increment) <= s.Epsilon {
			best.vars = append(best.vars, vars...)
		}
	}

	if best == nil {
		return false
	}

	// Deterministic tie-break: ascending variable id (spec §4.2, §9).
	sort.Slice(best.vars, func(i, j int) bool { return best.vars[i].id < best.vars[j].id })
	seen := make(map[int64]bool)
	for _, v := range best.vars {
		if v.fixed || seen[v.id] {
			continue
		}
		seen[v.id] = true
		rate := best.increment * effectiveWeight(v)
		if rate < s.Epsilon {
			rate = 0
		}
		v.rate = rate
		v.fixed = true
	}
	if best.constraint != nil {
		best.constraint.active = false
	}
	return true
}

// boundFor returns the strictest explicit per-variable cap (user Bound,
// wifi per-host cap), or -1 if unbounded.
func boundFor(v *Variable) float64 {
	bound := -1.0
	if v.Bound > 0 {
		bound = v.Bound
	}
	for _, e := range v.elements {
		if e.constraint.WifiCaps == nil {
			continue
		}
		if cap, ok := e.constraint.WifiCaps[v.id]; ok {
			effective := cap
			if e.coefficient > 0 {
				effective = cap / e.coefficient
			}
			if bound < 0 || effective < bound {
				bound = effective
			}
		}
	}
	return bound
}

// constraintIncrement computes, for an active constraint, the per-weight
// rate increment that would exactly saturate it given the still-free
// variables referencing it, and returns which of those variables saturate
// at that increment (for FatPipe, every free variable saturates
// independently since consumption isn't summed).
func (s *Solver) constraintIncrement(c *Constraint) (float64, []*Variable) {
	var free []*element
	usedByFixed := 0.0
	for _, e := range c.elements {
		if e.v.fixed {
			if c.Policy != FatPipe {
				usedByFixed += e.v.rate * e.coefficient
			}
			continue
		}
		if effectiveWeight(e.v) == 0 {
			continue
		}
		free = append(free, e)
	}
	if len(free) == 0 {
		return 0, nil
	}

	capacity := c.Capacity
	if c.Policy == Nonlinear && c.NonlinearFunc != nil {
		capacity = inverseNonlinear(c.NonlinearFunc, c.Capacity)
	}
	remaining := capacity - usedByFixed
	if remaining < 0 {
		remaining = 0
	}

	switch c.Policy {
	case FatPipe:
		// Each free variable can independently reach remaining/coefficient;
		// the first to saturate is whichever has the largest coefficient,
		// but since they don't interact, return the smallest such bound and
		// mark only that element's variable fixed this round — the rest
		// stay free for a later, tighter round.
		minInc := math.Inf(1)
		var vars []*Variable
		for _, e := range free {
			if e.coefficient <= 0 {
				continue
			}
			inc := remaining / (e.coefficient * effectiveWeight(e.v))
			if inc < minInc-s.Epsilon {
				minInc = inc
				vars = []*Variable{e.v}
			} else if math.Abs(inc-minInc) <= s.Epsilon {
				vars = append(vars, e.v)
			}
		}
		if vars == nil {
			return 0, nil
		}
		return minInc, vars
	default: // Shared, Nonlinear
		weighted := 0.0
		for _, e := range free {
			weighted += e.coefficient * effectiveWeight(e.v)
		}
		if weighted <= 0 {
			return 0, nil
		}
		inc := remaining / weighted
		vars := make([]*Variable, 0, len(free))
		for _, e := range free {
			vars = append(vars, e.v)
		}
		return inc, vars
	}
}

// inverseNonlinear finds, via bisection, the raw usage u such that
// f(u) == capacity, assuming f is non-decreasing. Used so the nonlinear
// policy can be folded into the same linear progressive-filling loop.
func inverseNonlinear(f func(float64) float64, capacity float64) float64 {
	lo, hi := 0.0, 1.0
	for f(hi) < capacity && hi < 1e18 {
		hi *= 2
	}
	for i := 0; i < 100; i++ {
		mid := (lo + hi) / 2
		if f(mid) < capacity {
			lo = mid
		} else {
			hi = mid
		}
	}
	return hi
}

// NextEventCompletion returns the smallest positive Δ at which some
// variable with a tracked RemainingWork and nonzero rate would complete,
// or +Inf if none are active. Resource-model callers combine this with
// their own profile-event clock to get the full next_event_delta of §4.2.
func (s *Solver) NextEventCompletion() float64 {
	best := math.Inf(1)
	for _, v := range s.variables {
		if v.rate <= 0 || v.RemainingWork <= 0 {
			continue
		}
		d := v.RemainingWork / v.rate
		if d < best {
			best = d
		}
	}
	return best
}
