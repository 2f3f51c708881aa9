package hedge

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestOptimalStake(t *testing.T) {
	// 100 at 3.0, hedged at 2.0: 100 * 3.0 / 2.0 = 150
	stake, err := OptimalStake(dec("100"), dec("3.0"), dec("2.0"))
	require.NoError(t, err)
	assert.True(t, stake.Equal(dec("150")), "got %s", stake)
}

func TestOptimalStakeRejectsInvalidInputs(t *testing.T) {
	_, err := OptimalStake(dec("0"), dec("3.0"), dec("2.0"))
	assert.ErrorIs(t, err, ErrInvalidStake)

	_, err = OptimalStake(dec("100"), dec("1.0"), dec("2.0"))
	assert.ErrorIs(t, err, ErrInvalidOdds)

	_, err = OptimalStake(dec("100"), dec("3.0"), dec("0.95"))
	assert.ErrorIs(t, err, ErrInvalidOdds)
}

func TestEvaluateLocksEqualProfit(t *testing.T) {
	// Price shortened after placement: 100 at 4.0, opposite side now at 2.0.
	// Hedge stake 200; both outcomes return 100.
	eval, err := Evaluate(dec("100"), dec("4.0"), dec("2.0"))
	require.NoError(t, err)

	assert.True(t, eval.HedgeStake.Equal(dec("200")), "got %s", eval.HedgeStake)
	assert.True(t, eval.ProfitIfOriginalWins.Equal(dec("100")), "got %s", eval.ProfitIfOriginalWins)
	assert.True(t, eval.ProfitIfHedgeWins.Equal(dec("100")), "got %s", eval.ProfitIfHedgeWins)
	assert.True(t, eval.GuaranteedProfit.Equal(dec("100")), "got %s", eval.GuaranteedProfit)
	assert.True(t, eval.IsProfitable())
}

func TestEvaluateCheapOppositeSide(t *testing.T) {
	// The opposite side drifted out to 4.0, so covering it is cheap and the
	// position locks a profit.
	eval, err := Evaluate(dec("100"), dec("2.0"), dec("4.0"))
	require.NoError(t, err)

	assert.True(t, eval.HedgeStake.Equal(dec("50")), "got %s", eval.HedgeStake)
	assert.True(t, eval.ProfitIfOriginalWins.Equal(dec("50")), "got %s", eval.ProfitIfOriginalWins)
	assert.True(t, eval.ProfitIfHedgeWins.Equal(dec("50")), "got %s", eval.ProfitIfHedgeWins)
	assert.True(t, eval.IsProfitable())
}

func TestEvaluateGuaranteedIsMinimum(t *testing.T) {
	eval, err := Evaluate(dec("50"), dec("2.5"), dec("3.2"))
	require.NoError(t, err)

	min := eval.ProfitIfOriginalWins
	if eval.ProfitIfHedgeWins.LessThan(min) {
		min = eval.ProfitIfHedgeWins
	}
	assert.True(t, eval.GuaranteedProfit.Equal(min))
}

func TestEvaluateNegativeGuarantee(t *testing.T) {
	// Both prices together imply more than 100%: equal-return hedging can
	// only cap the loss, not avoid it.
	eval, err := Evaluate(dec("100"), dec("1.5"), dec("2.0"))
	require.NoError(t, err)

	assert.True(t, eval.HedgeStake.Equal(dec("75")), "got %s", eval.HedgeStake)
	assert.True(t, eval.GuaranteedProfit.Equal(dec("-25")), "got %s", eval.GuaranteedProfit)
	assert.False(t, eval.IsProfitable())
}
