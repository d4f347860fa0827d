package engine

import (
	"fmt"
	"math"
)

// ETFProjection is the outcome of investing the same capital in a fund.
type ETFProjection struct {
	InitialInvestment float64 `json:"initial_investment"`
	FinalValue        float64 `json:"final_value"`
	TotalProfit       float64 `json:"total_profit"`
	AnnualizedReturn  float64 `json:"annualized_return"`
}

// ProjectETF compounds initial once per year at the fund's return minus its fee.
func ProjectETF(in Input, initial float64) (ETFProjection, error) {
	if err := checkYears("comparison_period_years", in.ComparisonPeriodYears); err != nil {
		return ETFProjection{}, err
	}
	if err := checkInitial(initial); err != nil {
		return ETFProjection{}, err
	}

	final := initial * math.Pow(etfGrowthFactor(in), float64(in.ComparisonPeriodYears))

	p := ETFProjection{
		InitialInvestment: initial,
		FinalValue:        final,
		TotalProfit:       final - initial,
		AnnualizedReturn:  annualizedReturn(final/initial, in.ComparisonPeriodYears),
	}
	if !finite(p.FinalValue, p.TotalProfit, p.AnnualizedReturn) {
		return ETFProjection{}, fmt.Errorf("%w: etf projection overflows", ErrInvalidInput)
	}

	return p, nil
}

// etfGrowthFactor returns 1 + the net yearly rate. A net rate below -100%
// wipes the fund out in the first year, so the factor never drops below zero.
func etfGrowthFactor(in Input) float64 {
	f := 1 + (in.ETFAnnualReturnRate-in.ETFAnnualFeeRate)/100
	if f < 0 {
		return 0
	}
	return f
}
