package simgrid

import "github.com/simgrid/simgrid/internal/resource"

// Disk is the public handle for one host-local disk.
type Disk struct {
	core *resource.Disk
	host *Host
}

// Name returns the disk's platform-declared name.
func (d *Disk) Name() string { return d.core.Name }

// ReadBandwidth/WriteBandwidth return the disk's peak directional
// bandwidths in bytes/s.
func (d *Disk) ReadBandwidth() float64  { return d.core.ReadBW }
func (d *Disk) WriteBandwidth() float64 { return d.core.WriteBW }

// TurnOff/TurnOn take the disk offline/online.
func (d *Disk) TurnOff() { d.core.TurnOff() }
func (d *Disk) TurnOn()  { d.core.TurnOn() }
