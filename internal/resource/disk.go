package resource

import "github.com/simgrid/simgrid/internal/lmm"

// Disk models a host-local block device with independent (or optionally
// coupled) read and write bandwidths, per spec §3.
type Disk struct {
	Base
	ReadBW  float64
	WriteBW float64
	// Coupled, when true, means reads and writes share a single aggregate
	// bandwidth constraint (Base's, read+write <= ReadBW) instead of the two
	// independent ones below.
	Coupled bool

	readConstraint  *lmm.Constraint
	writeConstraint *lmm.Constraint
}

// NewDisk constructs a Disk with independent read/write bandwidths.
func NewDisk(name string, readBW, writeBW float64) *Disk {
	return &Disk{
		Base:    NewBase(name, KindDisk, readBW),
		ReadBW:  readBW,
		WriteBW: writeBW,
	}
}

// BindDirectionalConstraints attaches the two independent LMM constraints
// used when Coupled is false; ReadConstraint/WriteConstraint return these.
func (d *Disk) BindDirectionalConstraints(read, write *lmm.Constraint) {
	d.readConstraint = read
	d.writeConstraint = write
}

// ConstraintFor returns the constraint an I/O activity in the given
// direction should bind to: the shared coupled constraint if Coupled, else
// the direction-specific one.
func (d *Disk) ConstraintFor(dir Direction) *lmm.Constraint {
	if d.Coupled {
		return d.Constraint()
	}
	if dir == Write {
		return d.writeConstraint
	}
	return d.readConstraint
}

// Direction selects which bandwidth a Disk I/O activity consumes.
type Direction int

const (
	Read Direction = iota
	Write
)

// BandwidthFor returns the peak bandwidth for the given I/O direction.
func (d *Disk) BandwidthFor(dir Direction) float64 {
	if dir == Write {
		return d.WriteBW
	}
	return d.ReadBW
}

// TurnOn brings the disk back online, syncing both the coupled and the
// directional constraints (Base.TurnOn only knows about the former).
func (d *Disk) TurnOn() {
	d.Base.TurnOn()
	d.syncDirectional()
}

// TurnOff takes the disk offline, collapsing every bound constraint's
// capacity to 0.
func (d *Disk) TurnOff() {
	d.Base.TurnOff()
	d.syncDirectional()
}

func (d *Disk) syncDirectional() {
	cap := 0.0
	if d.IsOn() {
		cap = 1
	}
	if d.readConstraint != nil {
		d.readConstraint.Capacity = d.ReadBW * cap
	}
	if d.writeConstraint != nil {
		d.writeConstraint.Capacity = d.WriteBW * cap
	}
}
