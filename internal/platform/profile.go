package platform

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/simgrid/simgrid/internal/clock"
)

// ProfileEvent is one `<date> <value>` line of a profile file (spec §6).
type ProfileEvent struct {
	Date  float64
	Value float64
}

// Profile is a parsed availability/state/bandwidth/latency profile: a
// monotonically dated sequence of values, optionally repeating every
// LoopAfter seconds (spec §6's trailing `LOOPAFTER <period>` line).
type Profile struct {
	Events    []ProfileEvent
	LoopAfter float64 // 0 means "do not repeat"
}

// ParseProfile reads the line-oriented profile format: one `<date> <value>`
// pair per line, blank lines and `#`-prefixed comments ignored, an
// optional trailing `LOOPAFTER <period>` line. Grounded on the teacher's
// NewSimulator reading loop_step_time.txt with bufio.Scanner.
func ParseProfile(r io.Reader) (*Profile, error) {
	p := &Profile{}
	scanner := bufio.NewScanner(r)
	lastDate := -1.0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 2 && strings.EqualFold(fields[0], "LOOPAFTER") {
			period, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return nil, fmt.Errorf("platform: profile parse error: bad LOOPAFTER period %q: %w", fields[1], err)
			}
			p.LoopAfter = period
			continue
		}
		if len(fields) != 2 {
			return nil, fmt.Errorf("platform: profile parse error: malformed line %q", line)
		}
		date, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("platform: profile parse error: bad date %q: %w", fields[0], err)
		}
		if date < lastDate {
			return nil, fmt.Errorf("platform: profile parse error: dates must be non-decreasing, got %v after %v", date, lastDate)
		}
		lastDate = date
		value, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("platform: profile parse error: bad value %q: %w", fields[1], err)
		}
		p.Events = append(p.Events, ProfileEvent{Date: date, Value: value})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("platform: profile parse error: %w", err)
	}
	return p, nil
}

// Schedule registers one clock timer per event, each invoking apply(value)
// at its date; when LoopAfter > 0 the whole sequence is rescheduled with
// every date shifted by one more period, indefinitely, per spec §6's
// repeating-profile semantics.
func (p *Profile) Schedule(c *clock.Clock, apply func(value float64)) {
	p.scheduleFrom(c, apply, 0)
}

func (p *Profile) scheduleFrom(c *clock.Clock, apply func(value float64), offset float64) {
	for _, ev := range p.Events {
		value := ev.Value
		c.Schedule(offset+ev.Date, func(now float64) { apply(value) })
	}
	if p.LoopAfter > 0 {
		c.Schedule(offset+p.LoopAfter, func(now float64) {
			p.scheduleFrom(c, apply, offset+p.LoopAfter)
		})
	}
}
