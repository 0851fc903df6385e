package modern

import (
	"github.com/CK6170/Flatplates-go/cg"
	"gonum.org/v1/gonum/stat"
)

// Measurement is one evaluated sample set, everything that goes into a CSV row.
type Measurement struct {
	CG       cg.Result
	Masses   [3]cg.Triad // kg, per scale
	Totals   [3]float64  // kg, per scale
	AvgTotal float64
	XDom     cg.Triad
	YDom     cg.Triad
}

func Evaluate(a, b, c cg.Triad, x, y cg.Origin, k cg.Constants) (*Measurement, error) {
	r, err := cg.ComputeCG(a, b, c, x, y, k)
	if err != nil {
		return nil, err
	}
	m := &Measurement{
		CG:     r,
		Masses: [3]cg.Triad{a, b, c},
		XDom:   x.Triad(),
		YDom:   y.Triad(),
	}
	for i, t := range m.Masses {
		m.Totals[i] = cg.ComputeMass(t)
	}
	m.AvgTotal = stat.Mean(m.Totals[:], nil)
	return m, nil
}

// EvaluateSet is Evaluate for a complete SampleSet.
func EvaluateSet(s *SampleSet, x, y cg.Origin, k cg.Constants) (*Measurement, error) {
	a, b, c, err := s.Triads()
	if err != nil {
		return nil, err
	}
	return Evaluate(a, b, c, x, y, k)
}
