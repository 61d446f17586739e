package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// AmountScale is the number of decimal places in the settlement currency.
// Amounts are denominated in USDC, whose smallest unit is a micro-USDC.
const AmountScale = 6

var (
	ErrNegativeAmount     = errors.New("amount must not be negative")
	ErrSubUnitPrecision   = errors.New("amount has sub-micro precision")
	ErrInvalidFeePercent  = errors.New("fee percentage must be in [0, 100]")
	ErrAmountNotRepresent = errors.New("amount not representable in micro units")
)

var oneHundred = decimal.NewFromInt(100)

// ValidateAmount checks that d is a well-formed settlement amount:
// non-negative and exactly representable in micro units.
func ValidateAmount(d decimal.Decimal) error {
	if d.IsNegative() {
		return ErrNegativeAmount
	}
	if !d.Shift(AmountScale).IsInteger() {
		return ErrSubUnitPrecision
	}
	return nil
}

// SplitAmount computes the protocol fee and net payable amount for a gross
// amount at the given fee percentage. The fee is truncated toward zero at the
// sixth decimal place, so fee + net == gross holds exactly.
func SplitAmount(gross, feePct decimal.Decimal) (fee, net decimal.Decimal, err error) {
	if err := ValidateAmount(gross); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if feePct.IsNegative() || feePct.GreaterThan(oneHundred) {
		return decimal.Zero, decimal.Zero, ErrInvalidFeePercent
	}

	fee = gross.Mul(feePct).Div(oneHundred).Truncate(AmountScale)
	net = gross.Sub(fee)
	return fee, net, nil
}

// MicroUnits converts an amount to its integer micro-unit representation.
// The amount must already satisfy ValidateAmount.
func MicroUnits(d decimal.Decimal) (int64, error) {
	shifted := d.Shift(AmountScale)
	if !shifted.IsInteger() || !shifted.BigInt().IsInt64() {
		return 0, ErrAmountNotRepresent
	}
	return shifted.IntPart(), nil
}

// FromMicroUnits converts an integer micro-unit count back to an amount.
func FromMicroUnits(n int64) decimal.Decimal {
	return decimal.New(n, -AmountScale)
}
