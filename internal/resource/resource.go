// Package resource models the CPUs, links, and disks that activities
// contend for, grounded on spec §3 (Resource data model) and on the
// teacher's model_hardware_config.go / sim/cluster/model_config.go style of
// a small typed config struct plus a constructor that seals it.
package resource

import (
	"fmt"

	"github.com/simgrid/simgrid/internal/lmm"
)

// Kind identifies which concrete resource a Resource is.
type Kind int

const (
	KindCpu Kind = iota
	KindLink
	KindDisk
)

// Base holds the fields common to every resource variant (spec §3).
type Base struct {
	Name       string
	Kind       Kind
	isOn       bool
	peak       float64
	scale      float64 // availability factor in [0,1], profile-driven
	sealed     bool
	constraint *lmm.Constraint
}

// NewBase constructs a resource that starts on, at full scale.
func NewBase(name string, kind Kind, peak float64) Base {
	return Base{Name: name, Kind: kind, isOn: true, peak: peak, scale: 1.0}
}

// IsOn reports whether the resource currently accepts work.
func (b *Base) IsOn() bool { return b.isOn }

// Seal freezes the resource's static parameters. Sealing twice is a no-op
// (spec §8 idempotence property).
func (b *Base) Seal() { b.sealed = true }

// Sealed reports whether Seal has been called.
func (b *Base) Sealed() bool { return b.sealed }

// Capacity returns peak*scale when on, 0 when off, per spec §3's invariant.
func (b *Base) Capacity() float64 {
	if !b.isOn {
		return 0
	}
	return b.peak * b.scale
}

// Peak returns the nominal peak capacity, ignoring on/off and scale.
func (b *Base) Peak() float64 { return b.peak }

// SetPeak updates the nominal peak capacity (e.g. a pstate switch or a
// speed profile event). Refuses to mutate a sealed resource's structural
// shape, but peak/scale are explicitly profile-driven and remain mutable
// after sealing — only the resource's existence/topology is frozen.
func (b *Base) SetPeak(peak float64) {
	b.peak = peak
	b.syncConstraint()
}

// SetScale updates the availability fraction (e.g. an availability_file
// profile event delivering a value in [0,1]).
func (b *Base) SetScale(scale float64) {
	if scale < 0 {
		scale = 0
	}
	if scale > 1 {
		scale = 1
	}
	b.scale = scale
	b.syncConstraint()
}

// TurnOn brings the resource back online at its last known peak/scale.
func (b *Base) TurnOn() {
	b.isOn = true
	b.syncConstraint()
}

// TurnOff takes the resource offline; its constraint capacity collapses to
// 0, so the LMM solver gives every referencing variable a rate of 0 on the
// next Solve. Callers (the owning Model) are responsible for failing the
// activities that were using it.
func (b *Base) TurnOff() {
	b.isOn = false
	b.syncConstraint()
}

// BindConstraint attaches the LMM constraint backing this resource, kept
// in sync by SetPeak/SetScale/TurnOn/TurnOff.
func (b *Base) BindConstraint(c *lmm.Constraint) {
	b.constraint = c
	b.syncConstraint()
}

// Constraint returns the bound LMM constraint, or nil if unbound.
func (b *Base) Constraint() *lmm.Constraint { return b.constraint }

func (b *Base) syncConstraint() {
	if b.constraint != nil {
		b.constraint.Capacity = b.Capacity()
	}
}

func (b Base) String() string {
	state := "on"
	if !b.isOn {
		state = "off"
	}
	return fmt.Sprintf("%s(%s, peak=%.3f, scale=%.3f)", b.Name, state, b.peak, b.scale)
}
