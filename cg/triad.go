package cg

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidMeasurement = errors.New("invalid measurement")
)

// Triad holds one value per sampling event, in event order.
type Triad [3]float64

// TriadFrom converts a slice into a Triad. The slice must hold exactly 3 values.
func TriadFrom(vals []float64) (Triad, error) {
	var t Triad
	if len(vals) != len(t) {
		return t, fmt.Errorf("%w: triad needs 3 values, got %d", ErrInvalidInput, len(vals))
	}
	copy(t[:], vals)
	return t, nil
}

type originKind int

const (
	originScalar originKind = iota
	originPerSample
)

// Origin is either one offset shared by all three sample positions or one
// offset per sample position. The zero value is a scalar 0.
type Origin struct {
	kind   originKind
	scalar float64
	triad  Triad
}

func Scalar(v float64) Origin { return Origin{kind: originScalar, scalar: v} }

func PerSample(t Triad) Origin { return Origin{kind: originPerSample, triad: t} }

// OriginFrom accepts 1 value (scalar) or 3 values (per sample).
func OriginFrom(vals []float64) (Origin, error) {
	switch len(vals) {
	case 1:
		return Scalar(vals[0]), nil
	case 3:
		return PerSample(Triad{vals[0], vals[1], vals[2]}), nil
	default:
		return Origin{}, fmt.Errorf("%w: origin needs 1 or 3 values, got %d", ErrInvalidInput, len(vals))
	}
}

func (o Origin) IsScalar() bool { return o.kind == originScalar }

// Triad returns the origin normalized to one value per sample position.
func (o Origin) Triad() Triad {
	if o.kind == originScalar {
		return Triad{o.scalar, o.scalar, o.scalar}
	}
	return o.triad
}

func (o Origin) String() string {
	if o.kind == originScalar {
		return fmt.Sprintf("%g", o.scalar)
	}
	return fmt.Sprintf("%g, %g, %g", o.triad[0], o.triad[1], o.triad[2])
}
