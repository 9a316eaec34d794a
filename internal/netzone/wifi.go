package netzone

import (
	"fmt"

	"github.com/simgrid/simgrid/internal/resource"
)

// WifiStrategy models a single shared medium link, traversed once if
// either endpoint is the access point, twice otherwise, per spec §4.5's
// final paragraph and §6's "Wi-Fi" zone variant.
type WifiStrategy struct {
	medium *resource.Link
	ap     *NetPoint
	stations map[string]bool
}

// NewWifiStrategy returns a wifi strategy with the given shared medium
// link and access point.
func NewWifiStrategy(medium *resource.Link, ap *NetPoint) *WifiStrategy {
	return &WifiStrategy{medium: medium, ap: ap, stations: make(map[string]bool)}
}

// AddStation registers a station associated with this access point.
func (w *WifiStrategy) AddStation(np *NetPoint) { w.stations[np.Name] = true }

func (w *WifiStrategy) LocalRoute(src, dst *NetPoint) (*Route, error) {
	if src.Name != w.ap.Name && !w.stations[src.Name] {
		return nil, fmt.Errorf("wifi routing: %s is not a station of this access point", src.Name)
	}
	if dst.Name != w.ap.Name && !w.stations[dst.Name] {
		return nil, fmt.Errorf("wifi routing: %s is not a station of this access point", dst.Name)
	}
	route := &Route{GwSrc: src, GwDst: dst}
	hop := LinkRef{Link: w.medium}
	route.Append(hop)
	if src.Name != w.ap.Name && dst.Name != w.ap.Name {
		// Neither endpoint is the access point: the frame crosses the
		// shared medium twice (station -> AP -> station).
		route.Append(hop)
	}
	return route, nil
}

func (w *WifiStrategy) Seal() error { return nil }
