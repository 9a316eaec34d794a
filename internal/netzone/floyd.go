package netzone

import "fmt"

// FloydStrategy computes all-pairs shortest paths (minimizing total
// latency) over an explicit graph of NetPoints and links at Seal time,
// per spec §6 ("Floyd" zone variant).
type FloydStrategy struct {
	points []*NetPoint
	index  map[string]int
	edge   map[[2]int]LinkRef

	dist [][]float64
	next [][]int // next[i][j] = index of the next hop from i toward j, -1 if none
	links [][][]LinkRef // links[i][j] = the single hop to take from i toward j
}

// NewFloydStrategy returns an empty graph; call AddLink for each edge
// before Seal.
func NewFloydStrategy() *FloydStrategy {
	return &FloydStrategy{index: make(map[string]int)}
}

func (f *FloydStrategy) pointIdx(np *NetPoint) int {
	if i, ok := f.index[np.Name]; ok {
		return i
	}
	i := len(f.points)
	f.index[np.Name] = i
	f.points = append(f.points, np)
	return i
}

// AddLink registers an edge between a and b carried by hop. If symmetric,
// the reverse edge is added too (direction-flipped for split-duplex).
func (f *FloydStrategy) AddLink(a, b *NetPoint, hop LinkRef, symmetric bool) {
	ia, ib := f.pointIdx(a), f.pointIdx(b)
	if f.edge == nil {
		f.edge = make(map[[2]int]LinkRef)
	}
	f.edge[[2]int{ia, ib}] = hop
	if symmetric {
		rev := hop
		if rev.Duplex != nil {
			rev.Forward = !rev.Forward
		}
		f.edge[[2]int{ib, ia}] = rev
	}
}

func (f *FloydStrategy) Seal() error {
	n := len(f.points)
	const inf = 1e18
	f.dist = make([][]float64, n)
	f.next = make([][]int, n)
	f.links = make([][][]LinkRef, n)
	for i := 0; i < n; i++ {
		f.dist[i] = make([]float64, n)
		f.next[i] = make([]int, n)
		f.links[i] = make([][]LinkRef, n)
		for j := 0; j < n; j++ {
			if i == j {
				f.dist[i][j] = 0
			} else {
				f.dist[i][j] = inf
			}
			f.next[i][j] = -1
		}
	}
	for pair, hop := range f.edge {
		i, j := pair[0], pair[1]
		l := hop.Resolve()
		w := 0.0
		if l != nil {
			w = l.Latency
		}
		if w < f.dist[i][j] {
			f.dist[i][j] = w
			f.next[i][j] = j
			f.links[i][j] = []LinkRef{hop}
		}
	}
	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			if f.dist[i][k] >= inf {
				continue
			}
			for j := 0; j < n; j++ {
				if f.dist[k][j] >= inf {
					continue
				}
				if nd := f.dist[i][k] + f.dist[k][j]; nd < f.dist[i][j] {
					f.dist[i][j] = nd
					f.next[i][j] = f.next[i][k]
				}
			}
		}
	}
	return nil
}

func (f *FloydStrategy) LocalRoute(src, dst *NetPoint) (*Route, error) {
	i, ok1 := f.index[src.Name]
	j, ok2 := f.index[dst.Name]
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("floyd routing: unknown endpoint %s or %s", src.Name, dst.Name)
	}
	if i == j {
		return &Route{GwSrc: src, GwDst: dst}, nil
	}
	if f.next[i][j] == -1 {
		return nil, fmt.Errorf("floyd routing: no path from %s to %s", src.Name, dst.Name)
	}
	route := &Route{GwSrc: src, GwDst: dst}
	cur := i
	for cur != j {
		nxt := f.next[cur][j]
		route.AppendAll(f.links[cur][nxt])
		cur = nxt
	}
	return route, nil
}
