package domain

import "github.com/shopspring/decimal"

// Schedule is the subset of a fee link needed to price a transaction.
type Schedule struct {
	FeeType  FeeType
	FeeValue decimal.Decimal
	MinFee   *decimal.Decimal
	MaxFee   *decimal.Decimal
}

// EffectiveFee prices amount under s. Flat fees are returned as configured
// and never clamped; percentage fees are value*amount clamped to the
// optional [MinFee, MaxFee] window. The result is not rounded.
func EffectiveFee(s Schedule, amount decimal.Decimal) decimal.Decimal {
	if s.FeeType == FeeTypeFlat {
		return s.FeeValue
	}

	fee := s.FeeValue.Mul(amount)
	if s.MinFee != nil && fee.LessThan(*s.MinFee) {
		fee = *s.MinFee
	}
	if s.MaxFee != nil && fee.GreaterThan(*s.MaxFee) {
		fee = *s.MaxFee
	}
	return fee
}
