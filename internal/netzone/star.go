package netzone

import "fmt"

// StarStrategy routes every pair through a single center NetPoint, per
// spec §6 ("Star" zone variant). Each leaf declares the hop(s) to/from the
// center; routing between two leaves concatenates leaf→center + center→leaf.
type StarStrategy struct {
	center *NetPoint
	toward map[string][]LinkRef // leaf name -> hops from leaf to center
	away   map[string][]LinkRef // leaf name -> hops from center to leaf
}

// NewStarStrategy returns a star strategy centered on the given NetPoint.
func NewStarStrategy(center *NetPoint) *StarStrategy {
	return &StarStrategy{center: center, toward: make(map[string][]LinkRef), away: make(map[string][]LinkRef)}
}

// AddLeaf declares the hop(s) connecting leaf to the center. If symmetric,
// the return path is the reverse of toward.
func (s *StarStrategy) AddLeaf(leaf *NetPoint, toward []LinkRef, symmetric bool) {
	s.toward[leaf.Name] = toward
	if symmetric {
		s.away[leaf.Name] = reversed(toward)
	}
}

// AddLeafAsymmetric declares distinct hop sequences for each direction.
func (s *StarStrategy) AddLeafAsymmetric(leaf *NetPoint, toward, away []LinkRef) {
	s.toward[leaf.Name] = toward
	s.away[leaf.Name] = away
}

func (s *StarStrategy) LocalRoute(src, dst *NetPoint) (*Route, error) {
	route := &Route{GwSrc: src, GwDst: dst}
	if src.Name == s.center.Name && dst.Name == s.center.Name {
		return route, nil
	}
	if src.Name != s.center.Name {
		hops, ok := s.toward[src.Name]
		if !ok {
			return nil, fmt.Errorf("star routing: leaf %s not registered", src.Name)
		}
		route.AppendAll(hops)
	}
	if dst.Name != s.center.Name {
		hops, ok := s.away[dst.Name]
		if !ok {
			return nil, fmt.Errorf("star routing: leaf %s not registered", dst.Name)
		}
		route.AppendAll(hops)
	}
	return route, nil
}

func (s *StarStrategy) Seal() error { return nil }
