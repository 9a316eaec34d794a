package resource

import "github.com/simgrid/simgrid/internal/lmm"

// Cpu models a host's processor: a list of per-pstate peak speeds (flops/s),
// a core count, an optional concurrency limit, and a sharing policy, per
// spec §3.
type Cpu struct {
	Base
	Pstates          []float64 // peak speed per performance state
	CurPstate        int
	Cores            int
	ConcurrencyLimit int // 0 means unlimited
	Policy           lmm.SharingPolicy
}

// NewCpu constructs a Cpu at pstate 0 with the given per-pstate speeds.
func NewCpu(name string, pstates []float64, cores int) *Cpu {
	peak := 0.0
	if len(pstates) > 0 {
		peak = pstates[0]
	}
	return &Cpu{
		Base:    NewBase(name, KindCpu, peak),
		Pstates: pstates,
		Cores:   cores,
		Policy:  lmm.Shared,
	}
}

// SetPstate switches the active performance state, updating peak speed.
func (c *Cpu) SetPstate(idx int) {
	if idx < 0 || idx >= len(c.Pstates) {
		return
	}
	c.CurPstate = idx
	c.SetPeak(c.Pstates[idx])
}

// NumCores reports the configured core count (at least 1).
func (c *Cpu) NumCores() int {
	if c.Cores <= 0 {
		return 1
	}
	return c.Cores
}
