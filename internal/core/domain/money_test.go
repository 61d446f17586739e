package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSplitAmount_StandardFee(t *testing.T) {
	fee, net, err := SplitAmount(dec("1.00"), dec("2.5"))
	require.NoError(t, err)

	assert.True(t, fee.Equal(dec("0.025")), "fee = %s", fee)
	assert.True(t, net.Equal(dec("0.975")), "net = %s", net)
}

func TestSplitAmount_InvariantFeePlusNetEqualsGross(t *testing.T) {
	grosses := []string{"0", "0.000001", "0.5", "1.00", "3.333333", "250000", "0.123457"}
	pcts := []string{"0", "0.1", "2.5", "10", "33.33", "100"}

	for _, g := range grosses {
		for _, p := range pcts {
			fee, net, err := SplitAmount(dec(g), dec(p))
			require.NoError(t, err, "gross=%s pct=%s", g, p)
			assert.True(t, fee.Add(net).Equal(dec(g)), "gross=%s pct=%s fee=%s net=%s", g, p, fee, net)
			assert.False(t, fee.IsNegative())
			assert.False(t, net.IsNegative())
		}
	}
}

func TestSplitAmount_ZeroFeePercentage(t *testing.T) {
	fee, net, err := SplitAmount(dec("42.5"), decimal.Zero)
	require.NoError(t, err)

	assert.True(t, fee.IsZero())
	assert.True(t, net.Equal(dec("42.5")))
}

func TestSplitAmount_FullFeePercentage(t *testing.T) {
	fee, net, err := SplitAmount(dec("1.5"), dec("100"))
	require.NoError(t, err)

	assert.True(t, fee.Equal(dec("1.5")))
	assert.True(t, net.IsZero())
}

func TestSplitAmount_TruncatesAtMicroUnit(t *testing.T) {
	// 0.50 * 2.5% = 0.0125 exactly; 0.333333 * 2.5% = 0.0083333325 -> 0.008333
	fee, _, err := SplitAmount(dec("0.50"), dec("2.5"))
	require.NoError(t, err)
	assert.True(t, fee.Equal(dec("0.0125")))

	fee, net, err := SplitAmount(dec("0.333333"), dec("2.5"))
	require.NoError(t, err)
	assert.True(t, fee.Equal(dec("0.008333")), "fee = %s", fee)
	assert.True(t, fee.Add(net).Equal(dec("0.333333")))
}

func TestSplitAmount_NegativeGross(t *testing.T) {
	_, _, err := SplitAmount(dec("-1"), dec("2.5"))
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestSplitAmount_SubMicroPrecision(t *testing.T) {
	_, _, err := SplitAmount(dec("0.0000001"), dec("2.5"))
	assert.ErrorIs(t, err, ErrSubUnitPrecision)
}

func TestSplitAmount_FeePercentOutOfRange(t *testing.T) {
	_, _, err := SplitAmount(dec("1"), dec("-0.5"))
	assert.ErrorIs(t, err, ErrInvalidFeePercent)

	_, _, err = SplitAmount(dec("1"), dec("100.01"))
	assert.ErrorIs(t, err, ErrInvalidFeePercent)
}

func TestValidateAmount(t *testing.T) {
	assert.NoError(t, ValidateAmount(decimal.Zero))
	assert.NoError(t, ValidateAmount(dec("0.000001")))
	assert.NoError(t, ValidateAmount(dec("1000000")))
	assert.ErrorIs(t, ValidateAmount(dec("-0.01")), ErrNegativeAmount)
	assert.ErrorIs(t, ValidateAmount(dec("0.1234567")), ErrSubUnitPrecision)
}

func TestMicroUnits_RoundTrip(t *testing.T) {
	for _, s := range []string{"0", "0.000001", "1.00", "0.975", "123456.789012"} {
		n, err := MicroUnits(dec(s))
		require.NoError(t, err)
		assert.True(t, FromMicroUnits(n).Equal(dec(s)), "amount %s", s)
	}
}

func TestMicroUnits_OneUSDC(t *testing.T) {
	n, err := MicroUnits(dec("1"))
	require.NoError(t, err)
	assert.Equal(t, int64(1_000_000), n)
}
