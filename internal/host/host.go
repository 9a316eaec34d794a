// Package host implements the Host aggregate: a Cpu, a set of Disks, the
// actors currently resident on it, and any VMs it carries, per spec §3 and
// §4.6. To avoid an import cycle with the actor package (a Host weakly
// references its actors; an actor non-owningly references its Host), Host
// depends only on a small ActorRef interface that internal/actor satisfies.
package host

import (
	"github.com/simgrid/simgrid/internal/netzone"
	"github.com/simgrid/simgrid/internal/resource"
)

// ActorRef is the subset of ActorImpl a Host needs to manage residency and
// forced shutdown, per spec §3/§4.6.
type ActorRef interface {
	PID() int64
	Kill(issuerPID int64)
	AutoRestart() bool
}

// BootEntry is one entry of a host's restart roster (spec §3's
// "actors_at_boot"): enough information to recreate an actor on TurnOn.
type BootEntry struct {
	Name string
	Code func()
}

// Host groups a CPU, a set of Disks, the actors currently resident on it,
// and any VMs it owns (spec §3).
type Host struct {
	Name     string
	Cpu      *resource.Cpu
	Disks    map[string]*resource.Disk
	NetPoint *netzone.NetPoint

	// PhysicalHost is non-nil when this Host is actually a VM pinned to a
	// physical host (spec §3's Host/VM relationship).
	PhysicalHost *Host
	vms          []*Host

	actors       []ActorRef // weak references: Host does not own actor lifetime
	actorsAtBoot []BootEntry

	// BootFn recreates an actor from a boot-roster entry; set by the
	// kernel layer that owns actor construction, since Host itself cannot
	// construct an ActorImpl without importing internal/actor.
	BootFn func(entry BootEntry)

	// CancelHostActivities is invoked during TurnOff to fail every
	// in-flight activity that touches this host with HostFailure; wired
	// by the kernel layer that tracks activity↔host membership.
	CancelHostActivities func(hostName string)
}

// New constructs a Host with the given Cpu and NetPoint, initially on.
func New(name string, cpu *resource.Cpu, np *netzone.NetPoint) *Host {
	return &Host{
		Name:     name,
		Cpu:      cpu,
		Disks:    make(map[string]*resource.Disk),
		NetPoint: np,
	}
}

// CreateDisk attaches a new Disk to this host (spec §6's `create_disk`).
func (h *Host) CreateDisk(d *resource.Disk) { h.Disks[d.Name] = d }

// CreateVM attaches a VM pinned to this host (spec §6's `create_vm`). The
// VM is itself a Host whose PhysicalHost points back here.
func (h *Host) CreateVM(vm *Host) {
	vm.PhysicalHost = h
	h.vms = append(h.vms, vm)
}

// VMs returns the VMs currently pinned to this host.
func (h *Host) VMs() []*Host { return h.vms }

// AddActor registers an actor as resident on this host, with the boot
// entry the kernel should use to recreate it if this host reboots while
// the actor has auto_restart set.
func (h *Host) AddActor(a ActorRef, entry BootEntry) {
	h.actors = append(h.actors, a)
	h.actorsAtBoot = append(h.actorsAtBoot, entry)
}

// RemoveActor drops an actor from residency (called from the actor's own
// cleanup phase per spec §9's back-reference discipline).
func (h *Host) RemoveActor(pid int64) {
	for i, a := range h.actors {
		if a.PID() == pid {
			h.actors = append(h.actors[:i], h.actors[i+1:]...)
			if i < len(h.actorsAtBoot) {
				h.actorsAtBoot = append(h.actorsAtBoot[:i], h.actorsAtBoot[i+1:]...)
			}
			return
		}
	}
}

// Actors returns the actors currently resident on this host.
func (h *Host) Actors() []ActorRef { return h.actors }

// IsOn reports whether the host's Cpu (and thus the host itself) is on.
func (h *Host) IsOn() bool { return h.Cpu.IsOn() }

// TurnOff shuts down owned VMs, turns off the Cpu and Disks, fails the
// activities referencing this host (CancelHostActivities), then kills all
// resident actors on behalf of issuer and prunes the restart roster to keep
// only auto_restart entries, per spec §4.6.
func (h *Host) TurnOff(issuerPID int64) {
	for _, vm := range h.vms {
		vm.TurnOff(issuerPID)
	}
	h.Cpu.TurnOff()
	for _, d := range h.Disks {
		d.TurnOff()
	}

	// Fail activities touching this host (HostFailure/NetworkFailure) before
	// killing resident actors: an actor's Kill only reaches Cancel semantics
	// on whatever it's still waiting on, so activities must already be
	// settled by the resource-level failure for their waiters to observe
	// the right exception kind, per spec §4.4/§4.6.
	if h.CancelHostActivities != nil {
		h.CancelHostActivities(h.Name)
	}

	var kept []BootEntry
	actors := append([]ActorRef{}, h.actors...)
	entries := append([]BootEntry{}, h.actorsAtBoot...)
	for i, a := range actors {
		restart := a.AutoRestart()
		a.Kill(issuerPID)
		if restart && i < len(entries) {
			kept = append(kept, entries[i])
		}
	}
	h.actors = nil
	h.actorsAtBoot = kept
}

// TurnOn brings the host back online and re-creates actors from the
// remaining (auto_restart) roster, per spec §4.6 and §8's round-trip
// property.
func (h *Host) TurnOn() {
	h.Cpu.TurnOn()
	for _, d := range h.Disks {
		d.TurnOn()
	}
	roster := h.actorsAtBoot
	h.actorsAtBoot = nil
	for _, entry := range roster {
		if h.BootFn != nil {
			h.BootFn(entry)
		}
	}
}

// SetConcurrencyLimit sets the Cpu's concurrency limit (spec §6's
// `set_concurrency_limit`).
func (h *Host) SetConcurrencyLimit(limit int) {
	h.Cpu.ConcurrencyLimit = limit
}

// SetPstate switches the host Cpu's active performance state.
func (h *Host) SetPstate(idx int) { h.Cpu.SetPstate(idx) }
