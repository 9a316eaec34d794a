// Package trace emits the simulation's observable event stream in three
// forms: a Paje text trace (spec §6), a live protobuf-over-websocket feed,
// and an optional queryable sqlite sink. None of this is consulted by the
// kernel itself, and the kernel does not call into it: events reach these
// outputs only through Collector's Record methods, grounded on sim/trace's
// collector-with-Record-methods shape.
package trace

import (
	"fmt"
	"io"

	"github.com/simgrid/simgrid/internal/xbtassert"
)

// PajeWriter emits the Paje text format: an %EventDef header block
// followed by one record per line, grounded on instr_paje_header.c /
// instr_paje_trace.c's container-tree + state-push/pop discipline.
type PajeWriter struct {
	w     io.Writer
	stack []string // container ids with an unmatched PushState, LIFO
}

// NewPajeWriter wraps w and emits the fixed event-type header SimGrid's
// own Paje traces use: container creation, state push/pop, and link
// start/end, each with the (date, container, value) fields spec §6 names.
func NewPajeWriter(w io.Writer) *PajeWriter {
	p := &PajeWriter{w: w}
	p.writeHeader()
	return p
}

func (p *PajeWriter) writeHeader() {
	fmt.Fprintln(p.w, "%EventDef PajeDefineContainerType 1")
	fmt.Fprintln(p.w, "%       Alias string")
	fmt.Fprintln(p.w, "%       Name string")
	fmt.Fprintln(p.w, "%EndEventDef")
	fmt.Fprintln(p.w, "%EventDef PajeSetState 10")
	fmt.Fprintln(p.w, "%       Time date")
	fmt.Fprintln(p.w, "%       Container string")
	fmt.Fprintln(p.w, "%       Value string")
	fmt.Fprintln(p.w, "%EndEventDef")
	fmt.Fprintln(p.w, "%EventDef PajeStartLink 20")
	fmt.Fprintln(p.w, "%       Time date")
	fmt.Fprintln(p.w, "%       Container string")
	fmt.Fprintln(p.w, "%       Key string")
	fmt.Fprintln(p.w, "%EndEventDef")
	fmt.Fprintln(p.w, "%EventDef PajeEndLink 21")
	fmt.Fprintln(p.w, "%       Time date")
	fmt.Fprintln(p.w, "%       Container string")
	fmt.Fprintln(p.w, "%       Key string")
	fmt.Fprintln(p.w, "%EndEventDef")
}

// Comment emits a `#`-prefixed comment line (spec §6).
func (p *PajeWriter) Comment(s string) {
	fmt.Fprintf(p.w, "# %s\n", s)
}

// DefineContainer declares a container (host, actor, link) in the trace's
// container tree.
func (p *PajeWriter) DefineContainer(alias, name string) {
	fmt.Fprintf(p.w, "1 %s %s\n", alias, name)
}

// PushState records container entering value at date, and remembers it so
// the matching Pop can be checked for well-formedness.
func (p *PajeWriter) PushState(date float64, container, value string) {
	fmt.Fprintf(p.w, "10 %.9f %s %s\n", date, container, value)
	p.stack = append(p.stack, container)
}

// PopState records container leaving its current state at date. Popping a
// container with no matching push is a tracing invariant violation (spec
// §7's "Tracing/ParseError" kind): fatal, not recoverable.
func (p *PajeWriter) PopState(date float64, container string) {
	for i := len(p.stack) - 1; i >= 0; i-- {
		if p.stack[i] == container {
			p.stack = append(p.stack[:i], p.stack[i+1:]...)
			fmt.Fprintf(p.w, "10 %.9f %s %s\n", date, container, "")
			return
		}
	}
	xbtassert.Impossible("trace: pop of container %s with no matching push", container)
}

// StartLink/EndLink bracket a communication for the visual "arrow" Paje
// traces use to depict messages in flight.
func (p *PajeWriter) StartLink(date float64, container, key string) {
	fmt.Fprintf(p.w, "20 %.9f %s %s\n", date, container, key)
}

func (p *PajeWriter) EndLink(date float64, container, key string) {
	fmt.Fprintf(p.w, "21 %.9f %s %s\n", date, container, key)
}

// Balanced reports whether every PushState has been matched by a PopState
// — a well-formedness check a caller can run at simulation end.
func (p *PajeWriter) Balanced() bool { return len(p.stack) == 0 }
