package netzone

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/simgrid/simgrid/internal/resource"
)

type bypassKey struct{ src, dst string }

// NetZone is a node in the hierarchical network topology: it contains
// hosts, routers, links, and possibly sub-zones, per spec §3.
type NetZone struct {
	Name     string
	ID       uuid.UUID
	Parent   *NetZone
	Children []*NetZone

	hosts       map[string]*NetPoint
	routers     map[string]*NetPoint
	links       map[string]*resource.Link
	duplexLinks map[string]*resource.SplitDuplexLink
	bypass      map[bypassKey]*Route

	// Gateway is the NetPoint (router or host) through which routes enter
	// and leave this zone from its parent's point of view (spec §3's
	// "gateways (role→NetPoint)", simplified to the common single-gateway
	// case; additional named roles can be added via Gateways).
	Gateway  *NetPoint
	Gateways map[string]*NetPoint

	Strategy Strategy
	sealed   bool
}

// New constructs an unsealed NetZone using the given intra-zone routing
// strategy.
func New(name string, strategy Strategy) *NetZone {
	return &NetZone{
		Name:        name,
		ID:          uuid.New(),
		hosts:       make(map[string]*NetPoint),
		routers:     make(map[string]*NetPoint),
		links:       make(map[string]*resource.Link),
		duplexLinks: make(map[string]*resource.SplitDuplexLink),
		bypass:      make(map[bypassKey]*Route),
		Gateways:    make(map[string]*NetPoint),
		Strategy:    strategy,
	}
}

// AddChild registers a sub-zone, per spec §3 (ordered children).
func (z *NetZone) AddChild(child *NetZone) {
	child.Parent = z
	z.Children = append(z.Children, child)
}

// AddHost registers a new NetPoint of kind Host addressable within this
// zone.
func (z *NetZone) AddHost(name string) *NetPoint {
	np := &NetPoint{Name: name, Kind: KindHost, EnglobingZone: z, ID: uuid.New()}
	z.hosts[name] = np
	return np
}

// AddRouter registers a new NetPoint of kind Router.
func (z *NetZone) AddRouter(name string) *NetPoint {
	np := &NetPoint{Name: name, Kind: KindRouter, EnglobingZone: z, ID: uuid.New()}
	z.routers[name] = np
	return np
}

// AddLink registers a plain (non-split-duplex) link available to this
// zone's routing strategy.
func (z *NetZone) AddLink(l *resource.Link) { z.links[l.Name] = l }

// AddSplitDuplexLink registers a split-duplex link pair.
func (z *NetZone) AddSplitDuplexLink(l *resource.SplitDuplexLink) {
	z.duplexLinks[l.Name] = l
}

// Link looks up a previously registered plain link by name.
func (z *NetZone) Link(name string) *resource.Link { return z.links[name] }

// SplitDuplexLink looks up a previously registered split-duplex link.
func (z *NetZone) SplitDuplexLink(name string) *resource.SplitDuplexLink {
	return z.duplexLinks[name]
}

// SetBypassRoute installs an explicit override of the default hierarchical
// route between src and dst, consulted by GetGlobalRoute before falling
// back to the strategy (spec §3, §4.5 step 3).
func (z *NetZone) SetBypassRoute(src, dst *NetPoint, route *Route) {
	z.bypass[bypassKey{src.Name, dst.Name}] = route
}

// Seal finalizes this zone's structure (and recursively its children),
// delegating to the routing strategy for any precomputation. Only sealed
// zones may serve routes (spec §4.5 invariant). Sealing twice is a no-op
// (spec §8).
func (z *NetZone) Seal() error {
	if z.sealed {
		return nil
	}
	for _, c := range z.Children {
		if err := c.Seal(); err != nil {
			return err
		}
	}
	if z.Strategy != nil {
		if err := z.Strategy.Seal(); err != nil {
			return fmt.Errorf("zone %s: %w", z.Name, err)
		}
	}
	z.sealed = true
	return nil
}

// Sealed reports whether Seal has completed for this zone.
func (z *NetZone) Sealed() bool { return z.sealed }

// ancestorChain returns [zone, zone.Parent, ..., root].
func ancestorChain(z *NetZone) []*NetZone {
	var chain []*NetZone
	for c := z; c != nil; c = c.Parent {
		chain = append(chain, c)
	}
	return chain
}

// immediateChildOf returns the direct child of zone whose subtree contains
// np's englobing zone, or nil if np is directly hosted in zone itself.
func immediateChildOf(zone *NetZone, np *NetPoint) *NetZone {
	if np.EnglobingZone == zone {
		return nil
	}
	for c := np.EnglobingZone; c != nil; c = c.Parent {
		if c.Parent == zone {
			return c
		}
	}
	return nil
}

// lca finds the lowest common ancestor zone of src and dst, per spec
// §4.5 steps 1-2 (compute ancestor chains, strip common suffix).
func lca(src, dst *NetPoint) (*NetZone, error) {
	srcChain := ancestorChain(src.EnglobingZone)
	dstChain := ancestorChain(dst.EnglobingZone)

	dstSet := make(map[*NetZone]bool, len(dstChain))
	for _, z := range dstChain {
		dstSet[z] = true
	}
	for _, z := range srcChain {
		if dstSet[z] {
			return z, nil
		}
	}
	return nil, fmt.Errorf("netzone: %s and %s share no common ancestor zone", src.Name, dst.Name)
}

// GetGlobalRoute resolves the route between any two NetPoints, possibly
// crossing nested zones, following spec §4.5 steps 1-6.
func GetGlobalRoute(src, dst *NetPoint) (*Route, error) {
	if src == dst {
		return &Route{GwSrc: src, GwDst: dst}, nil
	}
	top, err := lca(src, dst)
	if err != nil {
		return nil, err
	}
	if !top.Sealed() {
		return nil, fmt.Errorf("netzone: zone %s must be sealed before routes are resolved", top.Name)
	}
	return routeWithin(top, src, dst)
}

// routeWithin resolves the route between src and dst, both reachable from
// within zone's subtree (zone is their LCA or an ancestor on the descent).
func routeWithin(zone *NetZone, src, dst *NetPoint) (*Route, error) {
	if r, ok := zone.bypass[bypassKey{src.Name, dst.Name}]; ok {
		return cloneRoute(r), nil
	}

	srcChild := immediateChildOf(zone, src)
	dstChild := immediateChildOf(zone, dst)

	gwSrc, gwDst := src, dst
	if srcChild != nil {
		if srcChild.Gateway == nil {
			return nil, fmt.Errorf("netzone: sub-zone %s has no gateway set", srcChild.Name)
		}
		gwSrc = srcChild.Gateway
	}
	if dstChild != nil {
		if dstChild.Gateway == nil {
			return nil, fmt.Errorf("netzone: sub-zone %s has no gateway set", dstChild.Name)
		}
		gwDst = dstChild.Gateway
	}

	local, err := zone.Strategy.LocalRoute(gwSrc, gwDst)
	if err != nil {
		return nil, fmt.Errorf("netzone: zone %s local route %s->%s: %w", zone.Name, gwSrc.Name, gwDst.Name, err)
	}

	route := &Route{GwSrc: src, GwDst: dst}

	if srcChild != nil {
		descend, err := routeWithin(srcChild, src, gwSrc)
		if err != nil {
			return nil, err
		}
		route.Prepend(descend.Links)
	}
	route.AppendAll(local.Links)
	if dstChild != nil {
		descend, err := routeWithin(dstChild, gwDst, dst)
		if err != nil {
			return nil, err
		}
		route.AppendAll(descend.Links)
	}
	return route, nil
}

func cloneRoute(r *Route) *Route {
	out := &Route{GwSrc: r.GwSrc, GwDst: r.GwDst, Latency: r.Latency}
	out.Links = append(out.Links, r.Links...)
	return out
}
