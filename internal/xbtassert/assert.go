// Package xbtassert provides a fatal, non-recoverable assertion used for
// programmer-error invariant violations that the kernel must not try to
// survive (spec's "Assertion / Impossible" error kind).
package xbtassert

import "fmt"

// Assert panics with a formatted message if cond is false. Unlike the rest
// of the kernel's error taxonomy this is never caught by user actors: it
// signals a broken kernel invariant, not a simulated failure.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("simgrid: assertion failed: "+format, args...))
	}
}

// Impossible panics unconditionally; used to mark unreachable switch
// branches so a future enum addition fails loudly instead of silently.
func Impossible(format string, args ...any) {
	panic(fmt.Sprintf("simgrid: impossible: "+format, args...))
}
