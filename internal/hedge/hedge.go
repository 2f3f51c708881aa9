// Package hedge computes equalizing stakes for bets whose price has moved
// since placement. All money math uses decimals so stakes round predictably.
package hedge

import (
	"errors"

	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// ErrInvalidOdds is returned when a decimal price is not above 1.0.
var ErrInvalidOdds = errors.New("hedge: odds must be greater than 1.0")

// ErrInvalidStake is returned when the original stake is not positive.
var ErrInvalidStake = errors.New("hedge: stake must be positive")

// Evaluation describes a hedge of an open position: the stake to place on the
// opposite side at the current price and the resulting profit under both
// outcomes.
type Evaluation struct {
	OriginalStake decimal.Decimal
	OriginalOdds  decimal.Decimal
	HedgeOdds     decimal.Decimal

	// HedgeStake equalizes the total return across both legs.
	HedgeStake decimal.Decimal

	// ProfitIfOriginalWins is the net result when the original bet lands.
	ProfitIfOriginalWins decimal.Decimal

	// ProfitIfHedgeWins is the net result when the hedge bet lands.
	ProfitIfHedgeWins decimal.Decimal

	// GuaranteedProfit is the floor across both outcomes. Negative when the
	// price moved against the original position.
	GuaranteedProfit decimal.Decimal
}

// OptimalStake returns the hedge stake that equalizes returns:
// stake * originalOdds / hedgeOdds.
func OptimalStake(stake, originalOdds, hedgeOdds decimal.Decimal) (decimal.Decimal, error) {
	if !stake.IsPositive() {
		return decimal.Zero, ErrInvalidStake
	}
	if originalOdds.LessThanOrEqual(one) || hedgeOdds.LessThanOrEqual(one) {
		return decimal.Zero, ErrInvalidOdds
	}
	return stake.Mul(originalOdds).Div(hedgeOdds), nil
}

// Evaluate computes the full hedge position for an open bet of stake at
// originalOdds, hedged at hedgeOdds on the opposite side.
func Evaluate(stake, originalOdds, hedgeOdds decimal.Decimal) (*Evaluation, error) {
	hedgeStake, err := OptimalStake(stake, originalOdds, hedgeOdds)
	if err != nil {
		return nil, err
	}

	profitOriginal := stake.Mul(originalOdds.Sub(one)).Sub(hedgeStake)
	profitHedge := hedgeStake.Mul(hedgeOdds.Sub(one)).Sub(stake)

	guaranteed := profitOriginal
	if profitHedge.LessThan(guaranteed) {
		guaranteed = profitHedge
	}

	return &Evaluation{
		OriginalStake:        stake,
		OriginalOdds:         originalOdds,
		HedgeOdds:            hedgeOdds,
		HedgeStake:           hedgeStake,
		ProfitIfOriginalWins: profitOriginal,
		ProfitIfHedgeWins:    profitHedge,
		GuaranteedProfit:     guaranteed,
	}, nil
}

// IsProfitable reports whether the hedge locks in a profit regardless of the
// outcome.
func (e *Evaluation) IsProfitable() bool {
	return e.GuaranteedProfit.IsPositive()
}
