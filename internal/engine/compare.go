package engine

import (
	"math"
)

// Result combines both projections with the decision.
type Result struct {
	Rental           RentalProjection `json:"rental"`
	ETF              ETFProjection    `json:"etf"`
	BetterInvestment Strategy         `json:"better_investment"`
	ProfitDifference float64          `json:"profit_difference"`
}

// Compare projects both strategies from the same starting capital and picks
// the one with the higher total profit. Ties go to the ETF.
func Compare(in Input) (Result, error) {
	rental, err := ProjectRental(in)
	if err != nil {
		return Result{}, err
	}

	etf, err := ProjectETF(in, rental.InitialInvestment)
	if err != nil {
		return Result{}, err
	}

	return decide(rental, etf), nil
}

func decide(rental RentalProjection, etf ETFProjection) Result {
	better := StrategyETF
	if rental.TotalProfit > etf.TotalProfit {
		better = StrategyRental
	}

	return Result{
		Rental:           rental,
		ETF:              etf,
		BetterInvestment: better,
		ProfitDifference: math.Abs(rental.TotalProfit - etf.TotalProfit),
	}
}

// Schedule returns the yearly breakdown behind Compare: the rental cash flows
// and the property and fund values at the end of each year.
func Schedule(in Input) ([]Year, error) {
	rental, years, err := simulateRental(in)
	if err != nil {
		return nil, err
	}

	factor := etfGrowthFactor(in)
	for i := range years {
		years[i].ETFValue = rental.InitialInvestment * math.Pow(factor, float64(years[i].Year))
	}

	return years, nil
}
