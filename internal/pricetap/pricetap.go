// Package pricetap generates a deterministic synthetic price walk over a
// time range, used to drive backtests and the simulated exchange in the
// absence of historical market data. No third-party RNG appears anywhere in
// the retrieved pack (teacher and siblings alike reach for the standard
// library whenever they need randomness at all), so this is the one
// ambient concern in the module built on stdlib rather than an imported
// library -- see DESIGN.md.
package pricetap

import (
	"math/rand/v2"

	"github.com/shopspring/decimal"

	"github.com/saiputra-labs/vantage/internal/clock"
	"github.com/saiputra-labs/vantage/internal/series"
)

// Params configures a price tap.
type Params struct {
	// Range is the half-open time span to emit samples over.
	Range clock.TimeRange
	// Step is the spacing between samples; it also defines the alignment
	// grid for the first sample (floor(Range.Start, Step)).
	Step clock.Duration
	// Start is the price at k=0 before the first step is applied.
	Start decimal.Decimal
	// Drift is the multiplicative drift per day, mu; each step applies
	// Drift scaled by the step's fraction of a day.
	Drift decimal.Decimal
	// Volatility is the per-step multiplicative noise scale, sigma.
	Volatility decimal.Decimal
	// Seed makes the walk reproducible; the same Seed and Params always
	// produce the same sequence of samples.
	Seed uint64
}

// Generate emits exactly floor((Range.End - floor(Range.Start, Step)) /
// Step) samples at instants start_aligned + k*Step, k = 0..N-1, where each
// price is p[k-1] * (1 + Drift*step_fraction + Volatility*epsilon_k), with
// step_fraction = Step / clock.Day, for a
// pseudo-random epsilon_k in [-1, 1] seeded by Params.Seed.
func Generate(p Params) []series.Tick {
	n := p.Range.Buckets(p.Step)
	if n <= 0 {
		return nil
	}

	aligned := clock.Floor(p.Range.Start, p.Step)
	stepFraction := decimal.NewFromInt(int64(p.Step)).Div(decimal.NewFromInt(int64(clock.Day)))

	src := rand.New(rand.NewPCG(p.Seed, p.Seed^0x9e3779b97f4a7c15))

	out := make([]series.Tick, n)
	price := p.Start
	for k := int64(0); k < n; k++ {
		if k > 0 {
			epsilon := decimal.NewFromFloat(src.Float64()*2 - 1)
			move := p.Drift.Mul(stepFraction).Add(p.Volatility.Mul(epsilon))
			price = price.Mul(decimal.NewFromInt(1).Add(move))
		}
		out[k] = series.Tick{
			At:      aligned.Add(clock.Duration(k) * p.Step),
			Price:   price,
			HasSize: false,
		}
	}
	return out
}
