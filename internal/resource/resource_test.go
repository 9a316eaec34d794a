package resource

import (
	"testing"

	"github.com/simgrid/simgrid/internal/lmm"
	"github.com/stretchr/testify/require"
)

func TestCapacityZeroWhenOff(t *testing.T) {
	c := NewCpu("h1-cpu", []float64{1e9}, 1)
	require.Equal(t, 1e9, c.Capacity())
	c.TurnOff()
	require.Equal(t, 0.0, c.Capacity())
	c.TurnOn()
	require.Equal(t, 1e9, c.Capacity())
}

func TestSealIsIdempotent(t *testing.T) {
	l := NewLink("l1", 1e8, 0.001)
	l.Seal()
	require.True(t, l.Sealed())
	l.Seal()
	require.True(t, l.Sealed())
}

func TestPstateSwitchesPeak(t *testing.T) {
	c := NewCpu("h1-cpu", []float64{1e9, 2e9, 0.5e9}, 4)
	require.Equal(t, 1e9, c.Peak())
	c.SetPstate(1)
	require.Equal(t, 2e9, c.Peak())
}

func TestScaleClampedToUnitInterval(t *testing.T) {
	l := NewLink("l1", 1e8, 0.001)
	l.SetScale(1.5)
	require.Equal(t, 1e8, l.Capacity())
	l.SetScale(-1)
	require.Equal(t, 0.0, l.Capacity())
}

func TestConstraintCapacityTracksResourceState(t *testing.T) {
	s := lmm.New()
	cpu := NewCpu("h1-cpu", []float64{100}, 1)
	constraint := s.NewConstraint(100, lmm.Shared)
	cpu.BindConstraint(constraint)
	require.Equal(t, 100.0, constraint.Capacity)

	cpu.TurnOff()
	require.Equal(t, 0.0, constraint.Capacity)

	cpu.TurnOn()
	require.Equal(t, 100.0, constraint.Capacity)
}

func TestSplitDuplexLinkDirections(t *testing.T) {
	sd := NewSplitDuplexLink("backbone", 1e9, 0.0001)
	require.Same(t, sd.Up, sd.Directional(true))
	require.Same(t, sd.Down, sd.Directional(false))

	sd.TurnOff()
	require.False(t, sd.Up.IsOn())
	require.False(t, sd.Down.IsOn())
}

func TestDiskBandwidthForDirection(t *testing.T) {
	d := NewDisk("disk0", 500e6, 200e6)
	require.Equal(t, 500e6, d.BandwidthFor(Read))
	require.Equal(t, 200e6, d.BandwidthFor(Write))
}

func TestWifiRateCap(t *testing.T) {
	l := NewLink("wifi0", 54e6, 0.001)
	l.SetHostWifiRate("h1", 6e6)
	require.True(t, l.IsWifi)
	require.Equal(t, 6e6, l.WifiRates["h1"])
}
