// Package simerr defines the kernel's typed error taxonomy (spec §7):
// failures that propagate to user actors as the single exception raised
// from a blocking simcall, distinguished from fatal kernel invariant
// violations (xbtassert) which never propagate to actors at all.
//
// These stay on the standard library's errors.New/errors.Is/As rather than
// a wrapping library like github.com/pkg/errors: the simcall contract
// needs typed dispatch ("is this a HostFailure or a Timeout?"), not string
// context accumulation, so a small sentinel hierarchy is the right tool
// here even though the rest of the kernel follows the teacher's ecosystem
// choices wherever string-wrapping is actually what's needed.
package simerr

import "fmt"

// Kind distinguishes the failure kinds of spec §7.
type Kind int

const (
	HostFailure Kind = iota
	NetworkFailure
	Timeout
	Cancel
)

func (k Kind) String() string {
	switch k {
	case HostFailure:
		return "HostFailure"
	case NetworkFailure:
		return "NetworkFailure"
	case Timeout:
		return "Timeout"
	case Cancel:
		return "Cancel"
	default:
		return "Unknown"
	}
}

// ActivityError is the exception type raised from a blocking simcall when
// the activity it was waiting on fails, is canceled, or times out.
type ActivityError struct {
	Kind     Kind
	Activity string // the activity's Name, for diagnostics
	Detail   string
}

func (e *ActivityError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Activity, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Activity)
}

// Is lets errors.Is(err, simerr.ErrHostFailure) work against a Kind
// sentinel without comparing Detail/Activity.
func (e *ActivityError) Is(target error) bool {
	other, ok := target.(*ActivityError)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// Sentinels for errors.Is comparisons, per spec §7.
var (
	ErrHostFailure    = &ActivityError{Kind: HostFailure}
	ErrNetworkFailure = &ActivityError{Kind: NetworkFailure}
	ErrTimeout        = &ActivityError{Kind: Timeout}
	ErrCancel         = &ActivityError{Kind: Cancel}
)

// New constructs an ActivityError for the given activity.
func New(kind Kind, activity, detail string) *ActivityError {
	return &ActivityError{Kind: kind, Activity: activity, Detail: detail}
}
