package cg

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	massA = Triad{0.03, 0.034, 0.074}
	massB = Triad{0.035, 0.039, 0.065}
	massC = Triad{0.045, 0.019, 0.076}
)

func round5(v float64) float64 { return math.Round(v*1e5) / 1e5 }

func TestComputeMass(t *testing.T) {
	assert.Equal(t, 6.0, ComputeMass(Triad{1, 2, 3}))
	assert.Equal(t, 0.0, ComputeMass(Triad{}))
	assert.Equal(t, 0.0, ComputeMass(Triad{-1, 0.5, 0.5}))
}

func TestComputeCG_WorkedExample(t *testing.T) {
	r, err := ComputeCG(massA, massB, massC, Scalar(0.1525), Scalar(0.1465), Constants{Gravity: 9.799, Spacing: 0.4})
	require.NoError(t, err)

	assert.InDelta(t, 0.05330, round5(r.X1), 1e-12)
	assert.InDelta(t, 0.05326, round5(r.X2), 1e-12)
	assert.InDelta(t, 0.03926, round5(r.Y1), 1e-12)
	assert.InDelta(t, 0.04155, round5(r.Y2), 1e-12)
	assert.InDelta(t, 0.01549, round5(r.Z1), 1e-12)
	assert.InDelta(t, 0.01036, round5(r.Z2), 1e-12)
}

func TestComputeCG_Deterministic(t *testing.T) {
	x := PerSample(Triad{0.15, 0.14, 0.13})
	y := PerSample(Triad{0.11, 0.12, 0.13})
	first, err := ComputeCG(massA, massB, massC, x, y, DefaultConstants())
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		again, err := ComputeCG(massA, massB, massC, x, y, DefaultConstants())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestComputeCG_ScalarMatchesRepeatedTriad(t *testing.T) {
	for _, v := range []float64{0, 0.1525, -0.3, 12.75} {
		s, err := ComputeCG(massA, massB, massC, Scalar(v), Scalar(v/2), DefaultConstants())
		require.NoError(t, err)
		p, err := ComputeCG(massA, massB, massC, PerSample(Triad{v, v, v}), PerSample(Triad{v / 2, v / 2, v / 2}), DefaultConstants())
		require.NoError(t, err)
		assert.Equal(t, s, p, "origin %v", v)
	}
}

func TestComputeCG_PerSampleOriginIndices(t *testing.T) {
	base, err := ComputeCG(massA, massB, massC, Scalar(0), Scalar(0), DefaultConstants())
	require.NoError(t, err)
	r, err := ComputeCG(massA, massB, massC, PerSample(Triad{1, 2, 3}), PerSample(Triad{10, 20, 30}), DefaultConstants())
	require.NoError(t, err)

	assert.InDelta(t, base.X1-1, r.X1, 1e-12)
	assert.InDelta(t, base.X2-2, r.X2, 1e-12)
	assert.InDelta(t, base.Z2-3, r.Z2, 1e-12)
	assert.InDelta(t, base.Y1-10, r.Y1, 1e-12)
	assert.InDelta(t, base.Z1-20, r.Z1, 1e-12)
	assert.InDelta(t, base.Y2-30, r.Y2, 1e-12)
}

func TestComputeCG_GravityCancels(t *testing.T) {
	a, err := ComputeCG(massA, massB, massC, Scalar(0.1), Scalar(0.1), Constants{Gravity: 9.81, Spacing: 0.4})
	require.NoError(t, err)
	b, err := ComputeCG(massA, massB, massC, Scalar(0.1), Scalar(0.1), Constants{Gravity: 1.62, Spacing: 0.4})
	require.NoError(t, err)
	for i, p := range a.Pairs() {
		assert.InDelta(t, p[0], b.Pairs()[i][0], 1e-12)
		assert.InDelta(t, p[1], b.Pairs()[i][1], 1e-12)
	}
}

func TestComputeCG_ZeroTotalMass(t *testing.T) {
	cases := map[string][3]Triad{
		"A": {{}, massB, massC},
		"B": {massA, {0.1, -0.1, 0}, massC},
		"C": {massA, massB, {}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			r, err := ComputeCG(tc[0], tc[1], tc[2], Scalar(0), Scalar(0), DefaultConstants())
			require.ErrorIs(t, err, ErrInvalidMeasurement)
			assert.Equal(t, Result{}, r)
		})
	}
}

func TestComputeCG_ZeroGravity(t *testing.T) {
	_, err := ComputeCG(massA, massB, massC, Scalar(0), Scalar(0), Constants{Gravity: 0, Spacing: 0.4})
	require.ErrorIs(t, err, ErrInvalidMeasurement)
}

func TestComputeCG_NonFinite(t *testing.T) {
	_, err := ComputeCG(Triad{math.NaN(), 1, 1}, massB, massC, Scalar(0), Scalar(0), DefaultConstants())
	require.ErrorIs(t, err, ErrInvalidMeasurement)
	_, err = ComputeCG(massA, massB, massC, Scalar(math.Inf(1)), Scalar(0), DefaultConstants())
	require.ErrorIs(t, err, ErrInvalidMeasurement)
}

func TestComputeCGSlices(t *testing.T) {
	r, err := ComputeCGSlices(massA[:], massB[:], massC[:], []float64{0.1525}, []float64{0.1465, 0.1465, 0.1465}, DefaultConstants())
	require.NoError(t, err)
	assert.InDelta(t, 0.05330, round5(r.X1), 1e-12)

	_, err = ComputeCGSlices([]float64{1, 2}, massB[:], massC[:], []float64{0}, []float64{0}, DefaultConstants())
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = ComputeCGSlices(massA[:], massB[:], []float64{1, 2, 3, 4}, []float64{0}, []float64{0}, DefaultConstants())
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = ComputeCGSlices(massA[:], massB[:], massC[:], []float64{0, 1}, []float64{0}, DefaultConstants())
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = ComputeCGSlices(massA[:], massB[:], massC[:], []float64{0}, nil, DefaultConstants())
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestTriadFrom(t *testing.T) {
	tr, err := TriadFrom([]float64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, Triad{1, 2, 3}, tr)

	for _, bad := range [][]float64{nil, {1}, {1, 2}, {1, 2, 3, 4}} {
		_, err := TriadFrom(bad)
		assert.ErrorIs(t, err, ErrInvalidInput, "%v", bad)
	}
}

func TestOrigin(t *testing.T) {
	var zero Origin
	assert.True(t, zero.IsScalar())
	assert.Equal(t, Triad{}, zero.Triad())

	o, err := OriginFrom([]float64{0.2})
	require.NoError(t, err)
	assert.True(t, o.IsScalar())
	assert.Equal(t, Triad{0.2, 0.2, 0.2}, o.Triad())
	assert.Equal(t, "0.2", o.String())

	o, err = OriginFrom([]float64{0.15, 0.14, 0.13})
	require.NoError(t, err)
	assert.False(t, o.IsScalar())
	assert.Equal(t, Triad{0.15, 0.14, 0.13}, o.Triad())
	assert.Equal(t, "0.15, 0.14, 0.13", o.String())
}
