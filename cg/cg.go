// Package cg computes the center of gravity of a flat plate from three
// scales using the three point static moment method.
//
// Each scale contributes a mass triad: three repeated readings taken at the
// same three sampling events as the other scales. Two scales are combined per
// axis, so every axis gets two independent estimates that should agree.
package cg

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	DefaultGravity = 9.799 // m/s^2
	DefaultSpacing = 0.4   // m
)

var sqrt3 = math.Sqrt(3)

type Constants struct {
	Gravity float64 // m/s^2
	Spacing float64 // distance between sensors, m
}

func DefaultConstants() Constants {
	return Constants{Gravity: DefaultGravity, Spacing: DefaultSpacing}
}

// Result holds two estimates per axis. X1/Y1 come from scale A, X2/Z1 from
// scale B and Y2/Z2 from scale C.
type Result struct {
	X1, X2 float64
	Y1, Y2 float64
	Z1, Z2 float64
}

// Pairs returns the estimates grouped per axis: x, y, z.
func (r Result) Pairs() [3][2]float64 {
	return [3][2]float64{{r.X1, r.X2}, {r.Y1, r.Y2}, {r.Z1, r.Z2}}
}

// ComputeMass sums the three readings of one scale.
func ComputeMass(t Triad) float64 {
	return floats.Sum(t[:])
}

// ComputeCG returns the center of gravity estimates for the three mass triads
// (kg) relative to the given origins (m).
func ComputeCG(a, b, c Triad, x, y Origin, k Constants) (Result, error) {
	xd := x.Triad()
	yd := y.Triad()

	wa := weights(a, k.Gravity)
	wb := weights(b, k.Gravity)
	wc := weights(c, k.Gravity)

	da, err := divisor("A", a, k.Gravity)
	if err != nil {
		return Result{}, err
	}
	db, err := divisor("B", b, k.Gravity)
	if err != nil {
		return Result{}, err
	}
	dc, err := divisor("C", c, k.Gravity)
	if err != nil {
		return Result{}, err
	}

	l := k.Spacing
	r := Result{
		X1: (0.5*l*wa[2]+l*wa[1])/da - xd[0],
		X2: (0.5*l*wb[2]+l*wb[1])/db - xd[1],
		Y1: (0.5*sqrt3*l*wa[2])/da - yd[0],
		Y2: (0.5*sqrt3*l*wc[2])/dc - yd[2],
		Z1: (0.5*sqrt3*l*wb[2])/db - yd[1],
		Z2: (0.5*l*wc[2]+l*wc[1])/dc - xd[2],
	}
	for _, v := range []float64{r.X1, r.X2, r.Y1, r.Y2, r.Z1, r.Z2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Result{}, fmt.Errorf("%w: non-finite result", ErrInvalidMeasurement)
		}
	}
	return r, nil
}

// ComputeCGSlices is ComputeCG for callers holding plain slices. Mass slices
// must hold 3 values, origin slices 1 or 3.
func ComputeCGSlices(a, b, c, x, y []float64, k Constants) (Result, error) {
	var ts [3]Triad
	for i, s := range [][]float64{a, b, c} {
		t, err := TriadFrom(s)
		if err != nil {
			return Result{}, fmt.Errorf("scale %c: %w", 'A'+i, err)
		}
		ts[i] = t
	}
	xo, err := OriginFrom(x)
	if err != nil {
		return Result{}, fmt.Errorf("x origin: %w", err)
	}
	yo, err := OriginFrom(y)
	if err != nil {
		return Result{}, fmt.Errorf("y origin: %w", err)
	}
	return ComputeCG(ts[0], ts[1], ts[2], xo, yo, k)
}

func weights(m Triad, g float64) Triad {
	var w Triad
	for i, v := range m {
		w[i] = v * g
	}
	return w
}

// divisor is total mass times gravity for one scale.
func divisor(name string, m Triad, g float64) (float64, error) {
	tm := ComputeMass(m)
	if tm == 0 {
		return 0, fmt.Errorf("%w: total mass of scale %s is zero", ErrInvalidMeasurement, name)
	}
	d := tm * g
	if d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		return 0, fmt.Errorf("%w: scale %s divisor %v (mass %v, gravity %v)", ErrInvalidMeasurement, name, d, tm, g)
	}
	return d, nil
}
