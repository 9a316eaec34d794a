// Package actorctx implements the pluggable context factory of spec §4.8:
// a mechanism to swap an actor onto its own execution context and back to
// maestro. Go has no portable ucontext/boost.context equivalent, so this
// follows the spec's documented "Thread" variant — each actor backed by
// its own goroutine, synchronized so that exactly one of {maestro, any
// actor} ever runs at a time, preserving the "single logical executor"
// invariant of spec §5 with the same Resume/Yield contract the other
// variants expose.
package actorctx

// Context is one actor's cooperative execution context.
type Context struct {
	resume chan struct{}
	yield  chan struct{}
	done   chan struct{}
	dead   bool
}

// New constructs an idle Context. Start gives it code, which first runs on
// the first Resume. code must call Yield (via the Context passed to it, see
// Start) at every suspension point; when code returns, the context is
// marked dead.
func New() *Context {
	return &Context{
		resume: make(chan struct{}),
		yield:  make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start launches code on its own goroutine. code receives this same
// Context so it can call Yield at its suspension points. Start does not
// block; the goroutine parks immediately waiting for the first Resume.
func (c *Context) Start(code func(ctx *Context)) {
	go func() {
		<-c.resume
		defer func() {
			c.dead = true
			close(c.done)
			// A panic inside actor code must not take down the whole
			// kernel goroutine; the maestro observes death via Dead().
			recover()
		}()
		code(c)
	}()
}

// Resume returns when the actor next calls Yield, or when it terminates.
// From maestro's point of view this is the entire "run one actor" step of
// spec §4.9's run loop.
func (c *Context) Resume() {
	if c.dead {
		return
	}
	c.resume <- struct{}{}
	select {
	case <-c.yield:
	case <-c.done:
	}
}

// Yield suspends the calling actor until maestro next calls Resume. Must
// only be called from within the goroutine started by Start.
func (c *Context) Yield() {
	c.yield <- struct{}{}
	<-c.resume
}

// Dead reports whether the actor's code has returned.
func (c *Context) Dead() bool { return c.dead }
