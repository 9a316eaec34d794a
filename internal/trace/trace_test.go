package trace

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPajeWriterEmitsHeaderAndRecords(t *testing.T) {
	var buf bytes.Buffer
	p := NewPajeWriter(&buf)
	p.DefineContainer("h1", "H1")
	p.PushState(0.0, "h1", "running")
	p.PopState(1.0, "h1")

	out := buf.String()
	require.Contains(t, out, "%EventDef PajeSetState 10")
	require.Contains(t, out, "1 h1 H1")
	require.True(t, p.Balanced())
}

func TestPajeWriterPopWithoutPushPanics(t *testing.T) {
	var buf bytes.Buffer
	p := NewPajeWriter(&buf)
	require.Panics(t, func() { p.PopState(0.0, "ghost") })
}

func TestEventRoundTripsThroughMarshal(t *testing.T) {
	ev := Event{PID: 7, Kind: "CommWait", Now: 1.5, Detail: "mailbox m"}
	got, err := UnmarshalEvent(ev.Marshal())
	require.NoError(t, err)
	require.Equal(t, ev, got)
}

func TestCollectorSkipsDisabledOutputs(t *testing.T) {
	c := &Collector{}
	require.NotPanics(t, func() { c.RecordSimcall(1, "Sleep", 0.0) })
}

func TestCollectorPajeOutput(t *testing.T) {
	var buf bytes.Buffer
	c := &Collector{Paje: NewPajeWriter(&buf)}
	c.RecordStatePush(0.0, "a1", "running")
	c.RecordStatePop(1.0, "a1")
	require.True(t, strings.Contains(buf.String(), "running"))
}
