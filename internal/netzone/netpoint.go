// Package netzone implements the hierarchical network topology: zones of
// hosts and routers, route resolution between endpoints (possibly across
// nested zones), and bypass routes, per spec §3 and §4.5.
package netzone

import (
	"github.com/google/uuid"

	"github.com/simgrid/simgrid/internal/resource"
)

// PointKind identifies what a NetPoint addresses.
type PointKind int

const (
	KindHost PointKind = iota
	KindRouter
	KindZone
)

// NetPoint is any addressable network element: a host, a router, or a
// zone itself (spec §3). Names are globally unique; ID is an internal
// bookkeeping key (not required to be monotonic, unlike actor PIDs).
type NetPoint struct {
	Name          string
	Kind          PointKind
	EnglobingZone *NetZone
	ID            uuid.UUID
}

// LinkRef is one hop of a Route: either a plain Link, or one directional
// sub-link of a SplitDuplexLink chosen by traversal direction (spec §4.5).
type LinkRef struct {
	Link    *resource.Link
	Duplex  *resource.SplitDuplexLink // non-nil if this hop is split-duplex
	Forward bool                      // traversal direction, consulted only if Duplex != nil
}

// Resolve returns the concrete Link to apply to an activity for this hop.
func (r LinkRef) Resolve() *resource.Link {
	if r.Duplex != nil {
		return r.Duplex.Directional(r.Forward)
	}
	return r.Link
}
