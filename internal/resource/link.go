package resource

import "github.com/simgrid/simgrid/internal/lmm"

// Link models a network link: peak bandwidth, latency, and a sharing
// policy, per spec §3 and §6 (bandwidth/latency/sharing_policy attributes
// of the platform XML schema).
type Link struct {
	Base
	Latency float64
	Policy  lmm.SharingPolicy
	// WifiRates maps a host name to its individual rate cap on this link,
	// as recorded by SetHostWifiRate; the solver and comms do not read it.
	WifiRates map[string]float64
	IsWifi    bool
}

// NewLink constructs a Link with the given peak bandwidth and latency.
func NewLink(name string, bandwidth, latency float64) *Link {
	return &Link{
		Base:    NewBase(name, KindLink, bandwidth),
		Latency: latency,
		Policy:  lmm.Shared,
	}
}

// SetHostWifiRate records a per-host rate cap for a wifi link (§6's
// `set_host_wifi_rate`).
func (l *Link) SetHostWifiRate(host string, rate float64) {
	if l.WifiRates == nil {
		l.WifiRates = make(map[string]float64)
	}
	l.WifiRates[host] = rate
	l.IsWifi = true
}

// SplitDuplexLink is a pair of independent directional sub-links, grounded
// on original_source/include (SplitDuplexLinkImpl.hpp): one link for each
// traversal direction so that up/down traffic don't share a constraint.
type SplitDuplexLink struct {
	Name string
	Up   *Link // the "forward" direction as declared in the platform file
	Down *Link // the reverse direction
}

// NewSplitDuplexLink constructs a split-duplex link from two symmetric
// directional sub-links, both carrying the given bandwidth/latency.
func NewSplitDuplexLink(name string, bandwidth, latency float64) *SplitDuplexLink {
	return &SplitDuplexLink{
		Name: name,
		Up:   NewLink(name+"_UP", bandwidth, latency),
		Down: NewLink(name+"_DOWN", bandwidth, latency),
	}
}

// Directional returns the sub-link to use for a traversal in the given
// direction: forward (src→dst as declared) or backward.
func (s *SplitDuplexLink) Directional(forward bool) *Link {
	if forward {
		return s.Up
	}
	return s.Down
}

// TurnOn/TurnOff affect both sub-links together, since the physical medium
// is one link.
func (s *SplitDuplexLink) TurnOn() {
	s.Up.TurnOn()
	s.Down.TurnOn()
}

func (s *SplitDuplexLink) TurnOff() {
	s.Up.TurnOff()
	s.Down.TurnOff()
}
