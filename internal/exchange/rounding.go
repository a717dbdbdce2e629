package exchange

import "github.com/shopspring/decimal"

// RoundingMode selects the balance rounding policy. The source this
// is modelled on rounds half-down; banker's rounding (half to even) is the
// documented acceptable alternative and is the default here since it has
// no directional bias across many balances.
type RoundingMode int

const (
	BankersRounding RoundingMode = iota
	HalfDownRounding
)

// Round applies mode at the given decimal precision, matching
// base_asset_precision/quote_asset_precision semantics.
func Round(amount decimal.Decimal, precision int32, mode RoundingMode) decimal.Decimal {
	switch mode {
	case HalfDownRounding:
		return roundHalfDown(amount, precision)
	default:
		return amount.RoundBank(precision)
	}
}

// roundHalfDown rounds to precision decimal places, rounding exact halves
// toward zero instead of to even, for callers that need byte-for-byte
// replay equivalence with the source's native rounding.
func roundHalfDown(amount decimal.Decimal, precision int32) decimal.Decimal {
	scale := decimal.New(1, precision)
	scaled := amount.Mul(scale)
	floor := scaled.Truncate(0)
	remainder := scaled.Sub(floor).Abs()
	half := decimal.NewFromFloat(0.5)

	switch {
	case remainder.LessThan(half):
		return floor.Div(scale).Truncate(precision)
	case remainder.GreaterThan(half):
		if scaled.IsPositive() {
			floor = floor.Add(decimal.NewFromInt(1))
		} else {
			floor = floor.Sub(decimal.NewFromInt(1))
		}
		return floor.Div(scale).Truncate(precision)
	default:
		// Exactly half: round toward zero.
		return floor.Div(scale).Truncate(precision)
	}
}
