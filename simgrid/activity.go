package simgrid

import (
	"github.com/simgrid/simgrid/internal/activity"
	"github.com/simgrid/simgrid/internal/simcall"
)

// Exec is a handle to a computation started with ExecAsync/ParallelExecute,
// per spec §6's `exec_init`/`exec_async`.
type Exec struct {
	core *activity.Exec
}

// SetPriority scales this exec's share of its host's fair-share rate
// (spec §6's `set_priority`).
func (e *Exec) SetPriority(p float64) { e.core.SetPriority(p) }

// SetBound caps this exec's rate regardless of fair share (spec §6's
// `set_bound`).
func (e *Exec) SetBound(flopsPerSecond float64) { e.core.SetBound(flopsPerSecond) }

// Test reports whether the exec has already settled, without blocking
// (spec §6's `test`).
func (e *Exec) Test() bool { return e.core.Settled() }

// Cancel stops the exec early (spec §6's `cancel`).
func (e *Exec) Cancel() { e.core.Cancel() }

// Wait blocks self until the exec settles and returns its terminal error.
func (e *Exec) Wait(self *Actor) error {
	return self.engine.core.Wait(self.core, simcall.KindExecWait, e.core)
}

// Io is a handle to a disk transfer started with IoAsync, per spec §6's
// `io_init`.
type Io struct {
	core *activity.Io
}

func (io *Io) Test() bool  { return io.core.Settled() }
func (io *Io) Cancel()     { io.core.Cancel() }
func (io *Io) Wait(self *Actor) error {
	return self.engine.core.Wait(self.core, simcall.KindIoWait, io.core)
}

// Sleep is a handle to a sleep started indirectly via SleepFor; exposed
// for symmetry with Exec/Io, though SleepFor already blocks.
type Sleep struct {
	core *activity.Sleep
}

func (s *Sleep) Test() bool { return s.core.Settled() }
func (s *Sleep) Cancel()    { s.core.Cancel() }
func (s *Sleep) Wait(self *Actor) error {
	return self.engine.core.Wait(self.core, simcall.KindSleep, s.core)
}
