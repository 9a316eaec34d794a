package trace

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

func mathFloatBits(f float64) uint64    { return math.Float64bits(f) }
func mathFloatFromBits(u uint64) float64 { return math.Float64frombits(u) }

// Event is one simcall/activity observation pushed to the live trace
// stream, mirroring simcall.Record plus the settled-activity outcome
// (spec §8's `(pid, simcall_type, now)` determinism tuple, extended with
// a free-form Detail for the websocket dashboard).
type Event struct {
	PID    int64
	Kind   string
	Now    float64
	Detail string
}

// Marshal frames e as a small protobuf message by hand, field-by-field,
// via protowire — there is no .proto/generated-code step in this build,
// so the wire format is produced directly at the encoding primitive
// protobuf itself exposes for exactly this purpose.
func (e Event) Marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(e.PID))
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendString(b, e.Kind)
	b = protowire.AppendTag(b, 3, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, mathFloatBits(e.Now))
	b = protowire.AppendTag(b, 4, protowire.BytesType)
	b = protowire.AppendString(b, e.Detail)
	return b
}

// UnmarshalEvent decodes a frame produced by Event.Marshal.
func UnmarshalEvent(data []byte) (Event, error) {
	var e Event
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return Event{}, fmt.Errorf("trace: bad tag: %w", protowire.ParseError(n))
		}
		data = data[n:]
		switch {
		case num == 1 && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(data)
			if m < 0 {
				return Event{}, fmt.Errorf("trace: bad pid field: %w", protowire.ParseError(m))
			}
			e.PID = int64(v)
			data = data[m:]
		case num == 2 && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(data)
			if m < 0 {
				return Event{}, fmt.Errorf("trace: bad kind field: %w", protowire.ParseError(m))
			}
			e.Kind = v
			data = data[m:]
		case num == 3 && typ == protowire.Fixed64Type:
			v, m := protowire.ConsumeFixed64(data)
			if m < 0 {
				return Event{}, fmt.Errorf("trace: bad now field: %w", protowire.ParseError(m))
			}
			e.Now = mathFloatFromBits(v)
			data = data[m:]
		case num == 4 && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(data)
			if m < 0 {
				return Event{}, fmt.Errorf("trace: bad detail field: %w", protowire.ParseError(m))
			}
			e.Detail = v
			data = data[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, data)
			if m < 0 {
				return Event{}, fmt.Errorf("trace: bad unknown field: %w", protowire.ParseError(m))
			}
			data = data[m:]
		}
	}
	return e, nil
}
