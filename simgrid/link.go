package simgrid

import (
	"github.com/simgrid/simgrid/internal/lmm"
	"github.com/simgrid/simgrid/internal/platform"
	"github.com/simgrid/simgrid/internal/resource"
)

// Link is the public handle for one platform link, per spec §6's Link
// operations (`set_bandwidth/latency[profile]`, `set_sharing_policy`,
// `turn_on/off`, `set_host_wifi_rate`).
type Link struct {
	core   *resource.Link
	engine *Engine
}

// Name returns the link's platform-declared name.
func (l *Link) Name() string { return l.core.Name }

// Bandwidth returns the link's current peak bandwidth in bytes/s.
func (l *Link) Bandwidth() float64 { return l.core.Peak() }

// SetBandwidth updates the link's peak bandwidth (spec §6's `set_bandwidth`).
func (l *Link) SetBandwidth(bps float64) { l.core.SetPeak(bps) }

// SetLatency updates the link's latency (spec §6's `set_latency`).
func (l *Link) SetLatency(seconds float64) { l.core.Latency = seconds }

// SetBandwidthProfile schedules p's events to drive bandwidth over time,
// per spec §6's `set_bandwidth[profile]`.
func (l *Link) SetBandwidthProfile(p *platform.Profile) {
	p.Schedule(l.engine.core.Clock, l.core.SetPeak)
}

// SetLatencyProfile schedules p's events to drive latency over time, per
// spec §6's `set_latency[profile]`.
func (l *Link) SetLatencyProfile(p *platform.Profile) {
	p.Schedule(l.engine.core.Clock, func(v float64) { l.core.Latency = v })
}

// SharingPolicy names a link's contention discipline, re-exported from
// internal/lmm so facade callers never import internal/ packages directly.
type SharingPolicy = lmm.SharingPolicy

const (
	Shared  = lmm.Shared
	FatPipe = lmm.FatPipe
)

// SetSharingPolicy changes how concurrent transfers share l's bandwidth
// (spec §6's `set_sharing_policy`).
func (l *Link) SetSharingPolicy(p SharingPolicy) {
	l.core.Policy = p
	if c := l.core.Constraint(); c != nil {
		c.Policy = p
	}
}

// TurnOff/TurnOn take the link offline/online (spec §6's `turn_on/off`).
func (l *Link) TurnOff() { l.core.TurnOff() }
func (l *Link) TurnOn()  { l.core.TurnOn() }

// SetHostWifiRate records a per-host rate cap on a wifi-medium link (spec
// §6's `set_host_wifi_rate`).
func (l *Link) SetHostWifiRate(hostName string, rate float64) {
	l.core.SetHostWifiRate(hostName, rate)
}
