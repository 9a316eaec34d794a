package netzone

import "fmt"

// FullStrategy is a full routing table: every (src,dst) pair's route is
// declared explicitly (the platform XML's plain <route> elements), per
// spec §6 ("Full" zone variant).
type FullStrategy struct {
	routes map[bypassKey]*Route
}

// NewFullStrategy returns an empty full-routing-table strategy.
func NewFullStrategy() *FullStrategy {
	return &FullStrategy{routes: make(map[bypassKey]*Route)}
}

// AddRoute declares the route for one ordered (src,dst) pair. If symmetric
// is true, the reverse direction is derived automatically (platform XML's
// `symmetrical="yes"`, the default).
func (f *FullStrategy) AddRoute(src, dst *NetPoint, hops []LinkRef, symmetric bool) {
	r := &Route{GwSrc: src, GwDst: dst}
	r.AppendAll(hops)
	f.routes[bypassKey{src.Name, dst.Name}] = r
	if symmetric {
		rr := &Route{GwSrc: dst, GwDst: src}
		rr.AppendAll(reversed(hops))
		f.routes[bypassKey{dst.Name, src.Name}] = rr
	}
}

func (f *FullStrategy) LocalRoute(src, dst *NetPoint) (*Route, error) {
	if r, ok := f.routes[bypassKey{src.Name, dst.Name}]; ok {
		return cloneRoute(r), nil
	}
	return nil, fmt.Errorf("full routing: no route declared for %s -> %s", src.Name, dst.Name)
}

func (f *FullStrategy) Seal() error { return nil }
