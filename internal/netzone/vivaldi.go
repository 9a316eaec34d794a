package netzone

import (
	"fmt"
	"math"

	"github.com/simgrid/simgrid/internal/resource"
)

// VivaldiStrategy predicts latency from network coordinates instead of an
// explicit link topology, per spec §6 ("Vivaldi" zone variant). Each node
// carries an (x, y, height) coordinate; the route between two nodes is a
// single synthetic link whose latency is the Vivaldi distance formula
// (Euclidean distance in the plane plus both nodes' height terms, modeling
// access-link delay) and whose bandwidth is unconstrained, since Vivaldi
// zones predict latency only, not throughput.
type VivaldiStrategy struct {
	coord map[string][3]float64 // x, y, height
}

// NewVivaldiStrategy returns an empty Vivaldi strategy.
func NewVivaldiStrategy() *VivaldiStrategy {
	return &VivaldiStrategy{coord: make(map[string][3]float64)}
}

// AddNode assigns np the coordinate (x, y, height).
func (v *VivaldiStrategy) AddNode(np *NetPoint, x, y, height float64) {
	v.coord[np.Name] = [3]float64{x, y, height}
}

func (v *VivaldiStrategy) LocalRoute(src, dst *NetPoint) (*Route, error) {
	sc, ok := v.coord[src.Name]
	if !ok {
		return nil, fmt.Errorf("vivaldi routing: %s has no coordinate", src.Name)
	}
	dc, ok := v.coord[dst.Name]
	if !ok {
		return nil, fmt.Errorf("vivaldi routing: %s has no coordinate", dst.Name)
	}
	dx, dy := sc[0]-dc[0], sc[1]-dc[1]
	latency := math.Sqrt(dx*dx+dy*dy) + sc[2] + dc[2]
	if latency < 0 {
		latency = 0
	}
	synthetic := resource.NewLink(fmt.Sprintf("vivaldi(%s,%s)", src.Name, dst.Name), math.Inf(1), latency)
	route := &Route{GwSrc: src, GwDst: dst}
	route.Append(LinkRef{Link: synthetic})
	return route, nil
}

func (v *VivaldiStrategy) Seal() error { return nil }
