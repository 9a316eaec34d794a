package platform

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/simgrid/simgrid/internal/lmm"
	"github.com/simgrid/simgrid/internal/netzone"
)

func getGlobalRouteForTest(plat *Platform, src, dst string) (*netzone.Route, error) {
	return netzone.GetGlobalRoute(plat.Hosts[src].NetPoint, plat.Hosts[dst].NetPoint)
}

const twoHostXML = `<?xml version="1.0"?>
<platform version="4.1">
  <zone id="AS0" routing="Full">
    <host id="H1" speed="1Gf" core="1"/>
    <host id="H2" speed="1Gf" core="1"/>
    <link id="L1" bandwidth="100MBps" latency="1ms"/>
    <route src="H1" dst="H2">
      <link_ctn id="L1"/>
    </route>
  </zone>
</platform>`

func TestParseTwoHostPlatform(t *testing.T) {
	solver := lmm.New()
	plat, err := Parse(strings.NewReader(twoHostXML), solver)
	require.NoError(t, err)
	require.Len(t, plat.Hosts, 2)
	require.Contains(t, plat.Hosts, "H1")
	require.Contains(t, plat.Hosts, "H2")

	h1 := plat.Hosts["H1"]
	require.InDelta(t, 1e9, h1.Cpu.Peak(), 1e-6)

	l1 := plat.Links["L1"]
	require.NotNil(t, l1)
	require.InDelta(t, 1e8, l1.Capacity(), 1e-6)
	require.InDelta(t, 0.001, l1.Latency, 1e-9)

	route, err := getGlobalRouteForTest(plat, "H1", "H2")
	require.NoError(t, err)
	require.Len(t, route.Links, 1)
	require.InDelta(t, 0.001, route.Latency, 1e-9)
}

func TestParseRejectsUnknownRoutingStrategy(t *testing.T) {
	solver := lmm.New()
	_, err := Parse(strings.NewReader(`<platform><zone id="Z" routing="bogus"></zone></platform>`), solver)
	require.Error(t, err)
}

func TestParseSplitDuplexLink(t *testing.T) {
	const doc = `<platform>
  <zone id="AS0" routing="Full">
    <host id="H1" speed="1Gf"/>
    <host id="H2" speed="1Gf"/>
    <link id="L1" bandwidth="10MBps" latency="0" sharing_policy="SPLITDUPLEX"/>
    <route src="H1" dst="H2"><link_ctn id="L1"/></route>
  </zone>
</platform>`
	solver := lmm.New()
	plat, err := Parse(strings.NewReader(doc), solver)
	require.NoError(t, err)
	require.Contains(t, plat.DuplexLinks, "L1")
	sd := plat.DuplexLinks["L1"]
	require.NotSame(t, sd.Up, sd.Down)
}

func TestParseBypassRouteAcrossZones(t *testing.T) {
	const doc = `<platform>
  <zone id="Z0" routing="Full">
    <zone id="Z1" routing="Full" access_point="H1">
      <host id="H1" speed="1Gf"/>
    </zone>
    <zone id="Z2" routing="Full" access_point="H2">
      <host id="H2" speed="1Gf"/>
    </zone>
    <link id="backboneLink" bandwidth="1MBps" latency="10ms"/>
    <route src="Z1" dst="Z2"><link_ctn id="backboneLink"/></route>
    <link id="shortcut" bandwidth="1MBps" latency="1ms"/>
    <bypassRoute src="H1" dst="H2"><link_ctn id="shortcut"/></bypassRoute>
  </zone>
</platform>`
	solver := lmm.New()
	plat, err := Parse(strings.NewReader(doc), solver)
	require.NoError(t, err)

	route, err := getGlobalRouteForTest(plat, "H1", "H2")
	require.NoError(t, err)
	require.InDelta(t, 0.001, route.Latency, 1e-9)
}

func TestParseBandwidthUnits(t *testing.T) {
	v, err := ParseBandwidth("100MBps")
	require.NoError(t, err)
	require.InDelta(t, 1e8, v, 1e-6)

	v, err = ParseSpeed("1Gf")
	require.NoError(t, err)
	require.InDelta(t, 1e9, v, 1e-6)

	v, err = ParseDuration("10ms")
	require.NoError(t, err)
	require.InDelta(t, 0.01, v, 1e-9)
}

func TestParseProfileWithLoop(t *testing.T) {
	const text = "0.0 1.0\n1.0 0.5\n# comment\nLOOPAFTER 2.0\n"
	pr, err := ParseProfile(strings.NewReader(text))
	require.NoError(t, err)
	require.Len(t, pr.Events, 2)
	require.Equal(t, 2.0, pr.LoopAfter)
}

func TestParseProfileRejectsNonMonotonicDates(t *testing.T) {
	_, err := ParseProfile(strings.NewReader("1.0 1.0\n0.5 0.2\n"))
	require.Error(t, err)
}
