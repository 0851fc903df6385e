package scale

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	frameMarker = "W:"
	DefaultUnit = "g"
)

var framePattern = regexp.MustCompile(`^W:([+-])\s*(\d+\.?\d*|\.\d+)([A-Za-z]+)`)

// Reading is one weight frame as reported by a scale.
type Reading struct {
	Value float64
	Unit  string
}

func (r Reading) String() string {
	return fmt.Sprintf("%.4f %s", r.Value, r.Unit)
}

var kgPerUnit = map[string]float64{
	"kg": 1,
	"g":  1e-3,
	"mg": 1e-6,
	"lb": 0.45359237,
	"oz": 0.028349523125,
}

// Kilograms converts the reading to kilograms.
func (r Reading) Kilograms() (float64, error) {
	f, ok := kgPerUnit[strings.ToLower(r.Unit)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, r.Unit)
	}
	return r.Value * f, nil
}

// ParseFrame extracts a reading from a raw line such as "ST,GS,W:+ 12.5g".
// Anything before the marker is ignored.
func ParseFrame(line string) (Reading, bool) {
	i := strings.Index(line, frameMarker)
	if i < 0 {
		return Reading{}, false
	}
	m := framePattern.FindStringSubmatch(line[i:])
	if m == nil {
		return Reading{}, false
	}
	v, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return Reading{}, false
	}
	if m[1] == "-" {
		v = -v
	}
	return Reading{Value: v, Unit: m[3]}, true
}
