package trace

import "github.com/sirupsen/logrus"

// Collector fans one observed event out to whichever sinks are enabled:
// the Paje text writer, the live websocket hub, and the sqlite sink. Any
// of the three may be nil; Collector skips disabled outputs, mirroring
// sim/trace.SimulationTrace's "collect what the config turned on" shape.
type Collector struct {
	Paje *PajeWriter
	Hub  *Hub
	Sink *Sink
}

// RecordSimcall pushes one (pid, kind, now) observation to the hub and the
// sqlite sink, whichever are enabled, per spec §8's determinism tuple. The
// Paje writer does not receive it.
func (c *Collector) RecordSimcall(pid int64, kind string, now float64) {
	ev := Event{PID: pid, Kind: kind, Now: now}
	if c.Hub != nil {
		c.Hub.Broadcast(ev)
	}
	if c.Sink != nil {
		if err := c.Sink.Record(ev); err != nil {
			logrus.Warnf("trace: sqlite sink write failed: %v", err)
		}
	}
}

// RecordStatePush/RecordStatePop mirror an activity's settle/wait onto the
// Paje container trace, when one is enabled.
func (c *Collector) RecordStatePush(now float64, container, value string) {
	if c.Paje != nil {
		c.Paje.PushState(now, container, value)
	}
}

func (c *Collector) RecordStatePop(now float64, container string) {
	if c.Paje != nil {
		c.Paje.PopState(now, container)
	}
}
