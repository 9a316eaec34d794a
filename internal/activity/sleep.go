package activity

// Sleep is a pure simulated-time wait, per spec §3/§6's `sleep_for`: it
// consumes no resource and is never subject to fair-share contention, so
// unlike Exec/Comm/Io it carries no lmm.Variable — the manager decrements
// its Remaining directly by elapsed simulated time on every tick.
type Sleep struct {
	Base
	Remaining float64
}

// NewSleep constructs a Sleep activity for duration seconds.
func NewSleep(name string, duration float64) *Sleep {
	s := &Sleep{Remaining: duration}
	s.Name = name
	s.State = Running
	return s
}
