package netzone

import "fmt"

// TorusStrategy models an n-dimensional torus: each node has integer
// coordinates, and dimension-order routing advances one dimension at a
// time along the wraparound link for that dimension, per spec §6 ("Torus"
// zone variant).
type TorusStrategy struct {
	dims  []int // size of each dimension
	coord map[string][]int
	// linkAt[dim][nodeName] is the link from that node to its +1 neighbor
	// in dimension dim (wrapping at dims[dim]).
	linkAt    []map[string]LinkRef
	byCoord   map[string]*NetPoint // "d0,d1,..." -> node at that coordinate
}

// NewTorusStrategy returns a torus strategy with the given dimension
// sizes (e.g. []int{4,4} for a 4x4 mesh).
func NewTorusStrategy(dims []int) *TorusStrategy {
	return &TorusStrategy{
		dims:    dims,
		coord:   make(map[string][]int),
		linkAt:  make([]map[string]LinkRef, len(dims)),
		byCoord: make(map[string]*NetPoint),
	}
}

func coordKey(c []int) string {
	key := ""
	for i, v := range c {
		if i > 0 {
			key += ","
		}
		key += fmt.Sprintf("%d", v)
	}
	return key
}

// AddNode places np at the given coordinate.
func (t *TorusStrategy) AddNode(np *NetPoint, coord []int) {
	t.coord[np.Name] = coord
	t.byCoord[coordKey(coord)] = np
}

// AddDimLink registers the link from node (at its current coordinate) to
// its +1 neighbor along dimension dim.
func (t *TorusStrategy) AddDimLink(node *NetPoint, dim int, link LinkRef) {
	if t.linkAt[dim] == nil {
		t.linkAt[dim] = make(map[string]LinkRef)
	}
	t.linkAt[dim][node.Name] = link
}

func (t *TorusStrategy) LocalRoute(src, dst *NetPoint) (*Route, error) {
	sc, ok := t.coord[src.Name]
	if !ok {
		return nil, fmt.Errorf("torus routing: %s has no coordinate", src.Name)
	}
	dc, ok := t.coord[dst.Name]
	if !ok {
		return nil, fmt.Errorf("torus routing: %s has no coordinate", dst.Name)
	}

	route := &Route{GwSrc: src, GwDst: dst}
	cur := append([]int{}, sc...)
	curNode := src
	for dim := range t.dims {
		size := t.dims[dim]
		for cur[dim] != dc[dim] {
			link, ok := t.linkAt[dim][curNode.Name]
			if !ok {
				return nil, fmt.Errorf("torus routing: no dim-%d link at %s", dim, curNode.Name)
			}
			route.Append(link)
			cur[dim] = (cur[dim] + 1) % size
			curNode = t.byCoord[coordKey(cur)]
			if curNode == nil {
				return nil, fmt.Errorf("torus routing: no node at coordinate %v", cur)
			}
		}
	}
	return route, nil
}

func (t *TorusStrategy) Seal() error { return nil }
