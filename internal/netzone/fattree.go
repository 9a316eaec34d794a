package netzone

import "fmt"

// FatTreeStrategy models a k-ary fat-tree by recording, for each leaf, the
// chain of uplinks from the leaf to the root switch (leaf→edge→
// aggregation→core, …), per spec §6 ("Fat-tree" zone variant). A route
// between two leaves ascends from src to the lowest switch common to both
// chains, then descends the mirrored dst chain — the textbook fat-tree
// routing shape without requiring a full explicit topology generator.
type FatTreeStrategy struct {
	// ascent[leaf] is the ordered list of uplinks from that leaf to the
	// root, and switchChain[leaf] the switch NetPoint reached by each hop
	// (switchChain[leaf][i] is the switch at the top of ascent[leaf][i]).
	ascent      map[string][]LinkRef
	switchChain map[string][]*NetPoint
}

// NewFatTreeStrategy returns an empty fat-tree strategy.
func NewFatTreeStrategy() *FatTreeStrategy {
	return &FatTreeStrategy{ascent: make(map[string][]LinkRef), switchChain: make(map[string][]*NetPoint)}
}

// SetUplinks records leaf's chain of uplinks and the switch reached at each
// level, root-most last.
func (f *FatTreeStrategy) SetUplinks(leaf *NetPoint, uplinks []LinkRef, switches []*NetPoint) {
	f.ascent[leaf.Name] = uplinks
	f.switchChain[leaf.Name] = switches
}

func (f *FatTreeStrategy) LocalRoute(src, dst *NetPoint) (*Route, error) {
	srcUp, ok := f.ascent[src.Name]
	if !ok {
		return nil, fmt.Errorf("fat-tree routing: leaf %s not registered", src.Name)
	}
	dstUp, ok := f.ascent[dst.Name]
	if !ok {
		return nil, fmt.Errorf("fat-tree routing: leaf %s not registered", dst.Name)
	}
	srcSw := f.switchChain[src.Name]
	dstSw := f.switchChain[dst.Name]

	// Find the lowest level whose switch matches between the two chains.
	meet := -1
	for i := 0; i < len(srcSw) && i < len(dstSw); i++ {
		if srcSw[i].Name == dstSw[i].Name {
			meet = i
			break
		}
	}
	if meet == -1 {
		return nil, fmt.Errorf("fat-tree routing: %s and %s share no common switch", src.Name, dst.Name)
	}

	route := &Route{GwSrc: src, GwDst: dst}
	route.AppendAll(srcUp[:meet+1])
	route.AppendAll(reversed(dstUp[:meet+1]))
	return route, nil
}

func (f *FatTreeStrategy) Seal() error { return nil }
