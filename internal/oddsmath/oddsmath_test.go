package oddsmath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fp(v float64) *float64 { return &v }

func TestImpliedProbability(t *testing.T) {
	tests := []struct {
		name    string
		odds    *float64
		want    float64
		wantOK  bool
	}{
		{name: "even money", odds: fp(2.0), want: 0.5, wantOK: true},
		{name: "outsider", odds: fp(4.0), want: 0.25, wantOK: true},
		{name: "short favourite", odds: fp(1.5), want: 1.0 / 1.5, wantOK: true},
		{name: "boundary odds of 1.0 are invalid", odds: fp(1.0), wantOK: false},
		{name: "zero odds are invalid", odds: fp(0), wantOK: false},
		{name: "negative odds are invalid", odds: fp(-2.5), wantOK: false},
		{name: "missing odds are invalid", odds: nil, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ImpliedProbability(tt.odds)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 1e-12)
			}
		})
	}
}

func TestImpliedProbabilityStrictlyDecreasing(t *testing.T) {
	prev := math.Inf(1)
	for odds := 1.01; odds < 50; odds += 0.07 {
		p, ok := ImpliedProbability(fp(odds))
		require.True(t, ok)
		require.Less(t, p, prev, "probability must decrease as odds grow (odds=%f)", odds)
		prev = p
	}
}

func TestDeltaPoints(t *testing.T) {
	// 2.0 (50%) -> 1.5 (66.67%): +16.67pp
	got, ok := DeltaPoints(fp(2.0), fp(1.5))
	require.True(t, ok)
	assert.InDelta(t, 16.67, got, 0.01)

	// 2.0 (50%) -> 3.0 (33.33%): -16.67pp
	got, ok = DeltaPoints(fp(2.0), fp(3.0))
	require.True(t, ok)
	assert.InDelta(t, -16.67, got, 0.01)

	// identity
	got, ok = DeltaPoints(fp(2.0), fp(2.0))
	require.True(t, ok)
	assert.Zero(t, got)

	// invalid inputs
	_, ok = DeltaPoints(fp(1.0), fp(2.0))
	assert.False(t, ok)
	_, ok = DeltaPoints(fp(2.0), nil)
	assert.False(t, ok)
}

func TestDeltaPointsAntisymmetry(t *testing.T) {
	pairs := [][2]float64{{2.0, 1.5}, {1.44, 2.22}, {4.56, 8.88}, {3.0, 3.0}, {1.01, 99.0}}
	for _, pair := range pairs {
		forward, ok := DeltaPoints(fp(pair[0]), fp(pair[1]))
		require.True(t, ok)
		backward, ok := DeltaPoints(fp(pair[1]), fp(pair[0]))
		require.True(t, ok)
		assert.InDelta(t, -backward, forward, 1e-9, "delta_points(%v, %v) not antisymmetric", pair[0], pair[1])
	}
}

func TestDeltaPercent(t *testing.T) {
	// 2.0 (50%) -> 1.5 (66.67%): +33.33% relative
	got, ok := DeltaPercent(fp(2.0), fp(1.5))
	require.True(t, ok)
	assert.InDelta(t, 33.33, got, 0.01)

	got, ok = DeltaPercent(fp(2.0), fp(4.0))
	require.True(t, ok)
	assert.InDelta(t, -50.0, got, 0.01)

	_, ok = DeltaPercent(nil, fp(2.0))
	assert.False(t, ok)
	_, ok = DeltaPercent(fp(0.5), fp(2.0))
	assert.False(t, ok)
}

func TestOddsPercentChange(t *testing.T) {
	got, ok := OddsPercentChange(fp(2.0), fp(1.5))
	require.True(t, ok)
	assert.InDelta(t, -25.0, got, 0.01)

	got, ok = OddsPercentChange(fp(2.0), fp(3.0))
	require.True(t, ok)
	assert.InDelta(t, 50.0, got, 0.01)

	got, ok = OddsPercentChange(fp(2.0), fp(2.0))
	require.True(t, ok)
	assert.Zero(t, got)

	_, ok = OddsPercentChange(fp(0), fp(2.0))
	assert.False(t, ok)
	_, ok = OddsPercentChange(fp(2.0), nil)
	assert.False(t, ok)
}

func TestNoVigProbabilities(t *testing.T) {
	h, d, a, ok := NoVigProbabilities(fp(2.09), fp(2.97), fp(4.56))
	require.True(t, ok)
	assert.InDelta(t, 1.0, h+d+a, 1e-9, "no-vig probabilities must sum to 1")
	assert.Greater(t, h, d)
	assert.Greater(t, d, a)

	// Any invalid leg invalidates the whole set.
	_, _, _, ok = NoVigProbabilities(fp(2.09), nil, fp(4.56))
	assert.False(t, ok)
	_, _, _, ok = NoVigProbabilities(fp(2.09), fp(0.9), fp(4.56))
	assert.False(t, ok)
}

func TestNoVigProbabilitiesSumInvariant(t *testing.T) {
	cases := [][3]float64{
		{1.44, 3.83, 8.93},
		{2.22, 3.00, 4.15},
		{1.01, 15.0, 41.0},
		{3.3, 3.3, 3.3},
	}
	for _, c := range cases {
		h, d, a, ok := NoVigProbabilities(fp(c[0]), fp(c[1]), fp(c[2]))
		require.True(t, ok)
		assert.InDelta(t, 1.0, h+d+a, 1e-9)
	}
}
