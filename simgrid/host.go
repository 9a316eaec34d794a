package simgrid

import (
	"fmt"

	"github.com/simgrid/simgrid/internal/host"
	"github.com/simgrid/simgrid/internal/lmm"
	"github.com/simgrid/simgrid/internal/platform"
	"github.com/simgrid/simgrid/internal/resource"
)

// Host is the public handle for one platform host, per spec §6's Host
// operations (`create_disk`, `create_vm`, `turn_on/off`, `set_pstate`,
// `set_speed_profile`, `set_state_profile`, `set_concurrency_limit`).
type Host struct {
	core   *host.Host
	engine *Engine
}

// Name returns the host's platform-declared name.
func (h *Host) Name() string { return h.core.Name }

// IsOn reports whether the host currently accepts work.
func (h *Host) IsOn() bool { return h.core.IsOn() }

// Speed returns the host's current peak compute rate, in flops/s.
func (h *Host) Speed() float64 { return h.core.Cpu.Peak() }

// SetPstate switches the host's active performance state (spec §6's
// `set_pstate`).
func (h *Host) SetPstate(idx int) { h.core.SetPstate(idx) }

// SetConcurrencyLimit records limit on the host's Cpu (spec §6's
// `set_concurrency_limit`). The solver does not consult it, so the number
// of actors or executions running on the host at once is not capped.
func (h *Host) SetConcurrencyLimit(limit int) { h.core.SetConcurrencyLimit(limit) }

// TurnOff turns the host off on behalf of issuer, killing resident actors
// and failing every activity touching it (spec §6's `turn_on/off`).
func (h *Host) TurnOff(issuer *Actor) { h.engine.core.HostTurnOff(issuer.core, h.core) }

// TurnOn turns the host back on, re-creating auto_restart actors (spec §4.6).
func (h *Host) TurnOn(issuer *Actor) { h.engine.core.HostTurnOn(issuer.core, h.core) }

// CreateDisk attaches a new disk with independent read/write bandwidths,
// per spec §6's `create_disk`.
func (h *Host) CreateDisk(name string, readBW, writeBW float64) *Disk {
	d := resource.NewDisk(name, readBW, writeBW)
	read := h.engine.core.Solver.NewConstraint(readBW, lmm.Shared)
	write := h.engine.core.Solver.NewConstraint(writeBW, lmm.Shared)
	d.BindDirectionalConstraints(read, write)
	h.core.CreateDisk(d)
	return &Disk{core: d, host: h}
}

// CreateVM attaches a VM host pinned to h, sharing h's network position
// (a simulated VM has no topology of its own), per spec §6's `create_vm`.
func (h *Host) CreateVM(name string, speed float64, cores int) *Host {
	cpu := resource.NewCpu(name+"-cpu", []float64{speed}, cores)
	cpu.BindConstraint(h.engine.core.Solver.NewConstraint(speed, lmm.Shared))
	vm := host.New(name, cpu, h.core.NetPoint)
	h.core.CreateVM(vm)
	return &Host{core: vm, engine: h.engine}
}

// SetSpeedProfile schedules p's events to drive this host's peak compute
// rate over time, per spec §6's `set_speed_profile`.
func (h *Host) SetSpeedProfile(p *platform.Profile) {
	p.Schedule(h.engine.core.Clock, h.core.Cpu.SetPeak)
}

// SetStateProfile schedules p's events (0/1 booleans) to drive this host's
// on/off state over time, per spec §6's `set_state_profile`.
func (h *Host) SetStateProfile(p *platform.Profile) {
	p.Schedule(h.engine.core.Clock, func(v float64) {
		if v != 0 {
			h.core.TurnOn()
		} else {
			h.core.TurnOff(0)
		}
	})
}

// AddActor creates a new actor resident on h, per spec §6's `add_actor`.
func (h *Host) AddActor(name string, code func(self *Actor)) *Actor {
	return h.engine.CreateActor(h, name, code)
}

func (h *Host) String() string {
	return fmt.Sprintf("Host(%s)", h.core.Name)
}
