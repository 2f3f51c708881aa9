// Package oddsmath provides pure conversions between decimal odds and
// implied probabilities. Every function tolerates nil, zero and negative
// input by reporting ok=false instead of panicking; rounding is left to
// the presentation layer.
package oddsmath

// ImpliedProbability returns 1/odds for valid decimal odds (> 1.0).
func ImpliedProbability(odds *float64) (float64, bool) {
	if odds == nil || *odds <= 1.0 {
		return 0, false
	}
	return 1.0 / *odds, true
}

// DeltaPoints returns the implied-probability change between two prices in
// percentage points: (p_now - p_open) * 100.
func DeltaPoints(open, now *float64) (float64, bool) {
	pOpen, ok := ImpliedProbability(open)
	if !ok {
		return 0, false
	}
	pNow, ok := ImpliedProbability(now)
	if !ok {
		return 0, false
	}
	return (pNow - pOpen) * 100, true
}

// DeltaPercent returns the relative percentage change in implied probability:
// (p_now - p_open) / p_open * 100.
func DeltaPercent(open, now *float64) (float64, bool) {
	pOpen, ok := ImpliedProbability(open)
	if !ok || pOpen == 0 {
		return 0, false
	}
	pNow, ok := ImpliedProbability(now)
	if !ok {
		return 0, false
	}
	return (pNow - pOpen) / pOpen * 100, true
}

// OddsPercentChange returns the relative change between two prices:
// (now/open - 1) * 100. Unlike the probability helpers it accepts any
// positive price, since it operates on odds directly.
func OddsPercentChange(open, now *float64) (float64, bool) {
	if open == nil || *open <= 0 || now == nil || *now <= 0 {
		return 0, false
	}
	return (*now / *open - 1) * 100, true
}

// NoVigProbabilities returns the three implied probabilities normalized to
// sum to 1, removing the bookmaker's overround. All three prices must be
// valid decimal odds.
func NoVigProbabilities(home, draw, away *float64) (h, d, a float64, ok bool) {
	pHome, okH := ImpliedProbability(home)
	pDraw, okD := ImpliedProbability(draw)
	pAway, okA := ImpliedProbability(away)
	if !okH || !okD || !okA {
		return 0, 0, 0, false
	}
	total := pHome + pDraw + pAway
	return pHome / total, pDraw / total, pAway / total, true
}
