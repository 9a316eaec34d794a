package activity

import (
	"github.com/simgrid/simgrid/internal/actor"
	"github.com/simgrid/simgrid/internal/host"
	"github.com/simgrid/simgrid/internal/lmm"
	"github.com/simgrid/simgrid/internal/netzone"
)

// Comm is a point-to-point communication activity, per spec §3/§4.4's
// rendezvous-then-transfer model. It implements actor.CommRef so a Mailbox
// can match it against a pending send/recv without importing this package.
type Comm struct {
	Base
	SrcHost  *host.Host
	DstHost  *host.Host
	Bytes    float64
	send     bool
	matchKey string

	route            *netzone.Route
	latencyRemaining float64
	inFlight         bool // true once the route's latency has fully elapsed
}

// NewComm constructs a Comm that has matched with its peer and knows its
// route; it starts in the route's latency phase (spec §4.4's "network
// latency elapses before bandwidth-sharing begins").
func NewComm(solver *lmm.Solver, name string, src, dst *host.Host, bytes float64, send bool, matchKey string, route *netzone.Route) *Comm {
	c := &Comm{
		SrcHost:          src,
		DstHost:          dst,
		Bytes:            bytes,
		send:             send,
		matchKey:         matchKey,
		route:            route,
		latencyRemaining: route.Latency,
	}
	c.Name = name
	c.State = Running

	v := solver.NewVariable()
	v.RemainingWork = bytes
	v.Priority = 0 // excluded from fair-share until latency elapses
	for _, hop := range route.Links {
		if l := hop.Resolve(); l != nil {
			if c := l.Constraint(); c != nil {
				solver.Expand(c, v, 1)
			}
		}
	}
	c.Variable = v
	if route.Latency <= 0 {
		c.activateBandwidthPhase()
	}
	return c
}

// MatchKey implements actor.CommRef.
func (c *Comm) MatchKey() string { return c.matchKey }

// IsSend implements actor.CommRef.
func (c *Comm) IsSend() bool { return c.send }

// activateBandwidthPhase flips the variable from latency-held to
// fair-share-participating once the route's latency has fully elapsed.
func (c *Comm) activateBandwidthPhase() {
	c.inFlight = true
	if c.Variable != nil {
		c.Variable.Priority = 1
	}
}

func (c *Comm) remaining() float64 {
	if c.Variable == nil {
		return 0
	}
	return c.Variable.RemainingWork
}

func (c *Comm) setRemaining(v float64) {
	if c.Variable != nil {
		c.Variable.RemainingWork = v
	}
}

func (c *Comm) rate() float64 {
	if c.Variable == nil || !c.inFlight {
		return 0
	}
	return c.Variable.Rate()
}

// resourceOff reports whether either endpoint host or any link along the
// route is off. Manager.Advance fails the comm with HostFailure when an
// endpoint host is off and with NetworkFailure when only a link is off.
func (c *Comm) resourceOff() bool {
	if !c.SrcHost.IsOn() || !c.DstHost.IsOn() {
		return true
	}
	for _, hop := range c.route.Links {
		if l := hop.Resolve(); l != nil && !l.IsOn() {
			return true
		}
	}
	return false
}

var _ actor.CommRef = (*Comm)(nil)
