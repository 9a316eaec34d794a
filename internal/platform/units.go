package platform

import (
	"fmt"
	"strconv"
	"strings"
)

// unit is one recognized SI-style suffix and the multiplier that converts
// its value to the base unit (bytes, flops, or seconds) a given attribute
// is measured in, per spec §6 ("All sizes accept SI suffixes... numeric
// parsing is locale-independent").
type unit struct {
	suffix string
	mul    float64
}

// byteUnits and flopUnits are checked longest-suffix-first so "f" doesn't
// shadow "Mf" and "Bps" doesn't shadow "MBps".
var byteUnits = []unit{
	{"TBps", 1e12}, {"GBps", 1e9}, {"MBps", 1e6}, {"kBps", 1e3}, {"Bps", 1},
	{"TB", 1e12}, {"GB", 1e9}, {"MB", 1e6}, {"kB", 1e3}, {"B", 1},
}

var flopUnits = []unit{
	{"Tf", 1e12}, {"Gf", 1e9}, {"Mf", 1e6}, {"kf", 1e3}, {"f", 1},
}

var timeUnits = []unit{
	{"ms", 1e-3}, {"us", 1e-6}, {"ns", 1e-9}, {"s", 1},
}

// ParseBandwidth parses a bandwidth/size literal such as "100MBps" or
// "1e6" (bare numbers are bytes/second) into bytes per second.
func ParseBandwidth(s string) (float64, error) { return parseWithUnits(s, byteUnits) }

// ParseSpeed parses a CPU speed literal such as "1Gf" into flops/second.
func ParseSpeed(s string) (float64, error) { return parseWithUnits(s, flopUnits) }

// ParseDuration parses a time literal such as "10ms" or "1us" into
// seconds. A bare number is already seconds.
func ParseDuration(s string) (float64, error) { return parseWithUnits(s, timeUnits) }

func parseWithUnits(s string, units []unit) (float64, error) {
	s = strings.TrimSpace(s)
	for _, u := range units {
		if strings.HasSuffix(s, u.suffix) && len(s) > len(u.suffix) {
			numPart := strings.TrimSpace(strings.TrimSuffix(s, u.suffix))
			v, err := strconv.ParseFloat(numPart, 64)
			if err != nil {
				return 0, fmt.Errorf("platform: invalid numeric literal %q: %w", s, err)
			}
			return v * u.mul, nil
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("platform: invalid numeric literal %q: %w", s, err)
	}
	return v, nil
}

// ParseSpeedList parses a comma-separated `speed` attribute ("1Gf,500Mf")
// into one flops/second value per pstate.
func ParseSpeedList(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := ParseSpeed(p)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
