package netzone

import (
	"testing"

	"github.com/simgrid/simgrid/internal/resource"
	"github.com/stretchr/testify/require"
)

func TestFlatZoneFullRouting(t *testing.T) {
	strat := NewFullStrategy()
	z := New("z0", strat)
	h1 := z.AddHost("H1")
	h2 := z.AddHost("H2")
	link := resource.NewLink("l1", 100e6, 0.001)
	strat.AddRoute(h1, h2, []LinkRef{{Link: link}}, true)
	require.NoError(t, z.Seal())
	require.True(t, z.Seal() == nil) // sealing twice is a no-op

	route, err := GetGlobalRoute(h1, h2)
	require.NoError(t, err)
	require.Len(t, route.Links, 1)
	require.InDelta(t, 0.001, route.Latency, 1e-9)

	back, err := GetGlobalRoute(h2, h1)
	require.NoError(t, err)
	require.Len(t, back.Links, 1)
}

func TestBypassRouteOverridesDefault(t *testing.T) {
	// Zones Z1 ⊃ {H1}, Z2 ⊃ {H2}, parent Z0 — spec §8 scenario 6.
	z1 := New("Z1", NewFullStrategy())
	z2 := New("Z2", NewFullStrategy())
	z0 := New("Z0", NewFullStrategy())
	z0.AddChild(z1)
	z0.AddChild(z2)

	h1 := z1.AddHost("H1")
	h2 := z2.AddHost("H2")
	gw1 := z1.AddRouter("Z1-GW")
	gw2 := z2.AddRouter("Z2-GW")
	z1.Gateway = gw1
	z2.Gateway = gw2

	defaultLink := resource.NewLink("default", 1e9, 0.010)
	z0.Strategy.(*FullStrategy).AddRoute(gw1, gw2, []LinkRef{{Link: defaultLink}}, true)
	// Host to gateway is a zero-hop local link within each leaf zone.
	z1.Strategy.(*FullStrategy).AddRoute(h1, gw1, nil, true)
	z2.Strategy.(*FullStrategy).AddRoute(h2, gw2, nil, true)

	require.NoError(t, z0.Seal())

	route, err := GetGlobalRoute(h1, h2)
	require.NoError(t, err)
	require.InDelta(t, 0.010, route.Latency, 1e-9)

	bypassLink := resource.NewLink("bypass", 1e9, 0.001)
	z0.SetBypassRoute(h1, h2, &Route{GwSrc: h1, GwDst: h2, Links: []LinkRef{{Link: bypassLink}}, Latency: 0.001})

	route2, err := GetGlobalRoute(h1, h2)
	require.NoError(t, err)
	require.InDelta(t, 0.001, route2.Latency, 1e-9)
}

func TestFloydAllPairsShortestPath(t *testing.T) {
	strat := NewFloydStrategy()
	z := New("z0", strat)
	a := z.AddHost("A")
	b := z.AddRouter("B")
	c := z.AddHost("C")

	lAB := resource.NewLink("ab", 1e9, 0.001)
	lBC := resource.NewLink("bc", 1e9, 0.002)
	lAC := resource.NewLink("ac", 1e9, 0.010)
	strat.AddLink(a, b, LinkRef{Link: lAB}, true)
	strat.AddLink(b, c, LinkRef{Link: lBC}, true)
	strat.AddLink(a, c, LinkRef{Link: lAC}, true)

	require.NoError(t, z.Seal())

	route, err := strat.LocalRoute(a, c)
	require.NoError(t, err)
	// A->B->C (0.003) is shorter than direct A->C (0.010).
	require.Len(t, route.Links, 2)
	require.InDelta(t, 0.003, route.Latency, 1e-9)
}

func TestStarRoutingThroughCenter(t *testing.T) {
	center := &NetPoint{Name: "core"}
	strat := NewStarStrategy(center)
	z := New("star", strat)
	center.EnglobingZone = z
	h1 := z.AddHost("H1")
	h2 := z.AddHost("H2")
	strat.AddLeaf(h1, []LinkRef{{Link: resource.NewLink("h1-core", 1e9, 0.001)}}, true)
	strat.AddLeaf(h2, []LinkRef{{Link: resource.NewLink("h2-core", 1e9, 0.001)}}, true)
	require.NoError(t, z.Seal())

	route, err := strat.LocalRoute(h1, h2)
	require.NoError(t, err)
	require.Len(t, route.Links, 2)
}

func TestClusterRoutingHostBackboneHost(t *testing.T) {
	backbone := LinkRef{Link: resource.NewLink("backbone", 10e9, 0.0005)}
	strat := NewClusterStrategy(backbone)
	z := New("cluster", strat)
	h1 := z.AddHost("H1")
	h2 := z.AddHost("H2")
	strat.AddHostLink(h1, LinkRef{Link: resource.NewLink("h1-bb", 1e9, 0.0001)})
	strat.AddHostLink(h2, LinkRef{Link: resource.NewLink("h2-bb", 1e9, 0.0001)})
	require.NoError(t, z.Seal())

	route, err := strat.LocalRoute(h1, h2)
	require.NoError(t, err)
	require.Len(t, route.Links, 3)
}

func TestWifiRouteTraversesMediumOnceOrTwice(t *testing.T) {
	ap := &NetPoint{Name: "ap"}
	medium := resource.NewLink("medium", 54e6, 0.001)
	strat := NewWifiStrategy(medium, ap)
	z := New("wifi", strat)
	ap.EnglobingZone = z
	s1 := z.AddHost("S1")
	s2 := z.AddHost("S2")
	strat.AddStation(s1)
	strat.AddStation(s2)
	require.NoError(t, z.Seal())

	// Station to station: crosses the medium twice.
	route, err := strat.LocalRoute(s1, s2)
	require.NoError(t, err)
	require.Len(t, route.Links, 2)

	// AP to station: crosses the medium once.
	route2, err := strat.LocalRoute(ap, s1)
	require.NoError(t, err)
	require.Len(t, route2.Links, 1)
}

func TestGetGlobalRouteUnsealedZoneFails(t *testing.T) {
	z := New("z0", NewFullStrategy())
	h1 := z.AddHost("H1")
	h2 := z.AddHost("H2")
	_, err := GetGlobalRoute(h1, h2)
	require.Error(t, err)
}

func TestSplitDuplexDirectionInRoute(t *testing.T) {
	strat := NewFullStrategy()
	z := New("z0", strat)
	h1 := z.AddHost("H1")
	h2 := z.AddHost("H2")
	sd := resource.NewSplitDuplexLink("sd", 1e9, 0.001)
	strat.AddRoute(h1, h2, []LinkRef{{Duplex: sd, Forward: true}}, true)
	require.NoError(t, z.Seal())

	fwd, err := GetGlobalRoute(h1, h2)
	require.NoError(t, err)
	require.Same(t, sd.Up, fwd.Links[0].Resolve())

	back, err := GetGlobalRoute(h2, h1)
	require.NoError(t, err)
	require.Same(t, sd.Down, back.Links[0].Resolve())
}
