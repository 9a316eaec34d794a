package activity

import (
	"github.com/simgrid/simgrid/internal/host"
	"github.com/simgrid/simgrid/internal/lmm"
	"github.com/simgrid/simgrid/internal/resource"
)

// Io is a disk read/write activity, per spec §3/§6's `io_init`.
type Io struct {
	Base
	Host      *host.Host
	Disk      *resource.Disk
	Bytes     float64
	Direction resource.Direction
}

// NewIo creates an Io activity for bytes of the given direction on disk,
// binding its variable to whichever constraint (coupled or directional)
// the disk exposes for that direction.
func NewIo(solver *lmm.Solver, name string, h *host.Host, d *resource.Disk, bytes float64, dir resource.Direction) *Io {
	io := &Io{Host: h, Disk: d, Bytes: bytes, Direction: dir}
	io.Name = name
	io.State = Running

	v := solver.NewVariable()
	v.RemainingWork = bytes
	if c := d.ConstraintFor(dir); c != nil {
		solver.Expand(c, v, 1)
	}
	io.Variable = v
	return io
}

func (io *Io) remaining() float64 {
	if io.Variable == nil {
		return 0
	}
	return io.Variable.RemainingWork
}

func (io *Io) setRemaining(v float64) {
	if io.Variable != nil {
		io.Variable.RemainingWork = v
	}
}

func (io *Io) rate() float64 {
	if io.Variable == nil {
		return 0
	}
	return io.Variable.Rate()
}

func (io *Io) resourceOff() bool {
	return !io.Host.IsOn() || !io.Disk.IsOn()
}
