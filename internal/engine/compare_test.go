package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// referenceInput mirrors a realistic scenario: 500k property, 20% down,
// 15k closing costs, 8% ETF with a 0.1% fee.
func referenceInput() Input {
	return Input{
		ComparisonPeriodYears:          10,
		PropertyPrice:                  500000,
		DownPaymentPercentage:          20,
		MortgageInterestRate:           6.5,
		MortgageTermYears:              30,
		MonthlyRent:                    3000,
		AnnualRentIncreaseRate:         3,
		AnnualPropertyAppreciationRate: 4,
		MonthlyMaintenanceCost:         200,
		AnnualPropertyTaxRate:          1.2,
		AnnualInsuranceCost:            1500,
		VacancyRatePercentage:          5,
		ClosingCosts:                   15000,
		SellingCostsPercentage:         6,
		ETFAnnualReturnRate:            8,
		ETFAnnualFeeRate:               0.1,
	}
}

func TestCompareHandComputedYear(t *testing.T) {
	in := Input{
		ComparisonPeriodYears:          1,
		PropertyPrice:                  100000,
		DownPaymentPercentage:          100,
		MortgageInterestRate:           5,
		MortgageTermYears:              30,
		MonthlyRent:                    1000,
		AnnualPropertyAppreciationRate: 5,
		MonthlyMaintenanceCost:         100,
		AnnualPropertyTaxRate:          1,
		AnnualInsuranceCost:            500,
		VacancyRatePercentage:          10,
		SellingCostsPercentage:         6,
		ETFAnnualReturnRate:            7,
		ETFAnnualFeeRate:               1,
	}

	res, err := Compare(in)
	require.NoError(t, err)

	// rent 10800 - (maintenance 1200 + tax 1000 + insurance 500)
	assert.InDelta(t, 8100, res.Rental.TotalCashFlow, 1e-6)
	assert.InDelta(t, 105000, res.Rental.PropertyValueAtEnd, 1e-6)
	// 8100 + (105000 - 6300) - 100000
	assert.InDelta(t, 6800, res.Rental.TotalProfit, 1e-6)
	assert.InDelta(t, 6.8, res.Rental.AnnualizedReturn, 1e-9)

	assert.InDelta(t, 106000, res.ETF.FinalValue, 1e-6)
	assert.InDelta(t, 6000, res.ETF.TotalProfit, 1e-6)
	assert.InDelta(t, 6, res.ETF.AnnualizedReturn, 1e-9)

	assert.Equal(t, StrategyRental, res.BetterInvestment)
	assert.InDelta(t, 800, res.ProfitDifference, 1e-6)
}

func TestInitialInvestmentShared(t *testing.T) {
	variants := []func(in *Input){
		func(in *Input) {},
		func(in *Input) { in.MonthlyRent = 9000 },
		func(in *Input) { in.MortgageInterestRate = 0 },
		func(in *Input) { in.ETFAnnualReturnRate = -20 },
		func(in *Input) { in.ComparisonPeriodYears = 40 },
	}

	for i, mutate := range variants {
		in := referenceInput()
		mutate(&in)

		res, err := Compare(in)
		require.NoError(t, err, "variant %d", i)
		assert.Equal(t, 115000.0, res.Rental.InitialInvestment, "variant %d", i)
		assert.Equal(t, res.Rental.InitialInvestment, res.ETF.InitialInvestment, "variant %d", i)
	}
}

func TestPropertyAppreciation(t *testing.T) {
	in := referenceInput()
	in.AnnualPropertyAppreciationRate = 10
	in.ComparisonPeriodYears = 5

	p, err := ProjectRental(in)
	require.NoError(t, err)
	assert.InDelta(t, 805255, p.PropertyValueAtEnd, 5000)
	assert.InDelta(t, 500000*math.Pow(1.1, 5), p.PropertyValueAtEnd, 1e-6)
}

func TestNegativeAppreciation(t *testing.T) {
	in := referenceInput()
	in.AnnualPropertyAppreciationRate = -2
	in.ComparisonPeriodYears = 5

	p, err := ProjectRental(in)
	require.NoError(t, err)
	assert.Less(t, p.PropertyValueAtEnd, in.PropertyPrice)
}

func TestETFCompounding(t *testing.T) {
	in := referenceInput()
	in.ETFAnnualReturnRate = 10
	in.ETFAnnualFeeRate = 0
	in.ComparisonPeriodYears = 5

	p, err := ProjectETF(in, 115000)
	require.NoError(t, err)
	assert.InDelta(t, 185263, p.FinalValue, 1000)
	assert.InDelta(t, p.FinalValue-115000, p.TotalProfit, 1e-9)
	assert.InDelta(t, 10, p.AnnualizedReturn, 1e-9)
}

func TestETFAnnualizedReturnRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		ret   float64
		fee   float64
		years int
	}{
		{"growth", 8, 0.5, 10},
		{"flat", 1, 1, 7},
		{"loss", -15, 0.3, 3},
		{"total loss", -100, 0, 4},
		{"fee wipes out the fund", -100, 50, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := referenceInput()
			in.ETFAnnualReturnRate = tt.ret
			in.ETFAnnualFeeRate = tt.fee
			in.ComparisonPeriodYears = tt.years

			p, err := ProjectETF(in, 115000)
			require.NoError(t, err)

			rebuilt := p.InitialInvestment * math.Pow(1+p.AnnualizedReturn/100, float64(tt.years))
			assert.InDelta(t, p.FinalValue, rebuilt, 0.01)
		})
	}
}

func TestETFNetRateBelowMinusHundred(t *testing.T) {
	in := referenceInput()
	in.ETFAnnualReturnRate = -80
	in.ETFAnnualFeeRate = 40
	in.ComparisonPeriodYears = 3

	p, err := ProjectETF(in, 115000)
	require.NoError(t, err)
	assert.Equal(t, 0.0, p.FinalValue)
	assert.Equal(t, -115000.0, p.TotalProfit)
	assert.Equal(t, -100.0, p.AnnualizedReturn)
}

func TestVacancyReducesCashFlow(t *testing.T) {
	prev := math.Inf(1)
	for _, vacancy := range []float64{0, 5, 10, 20, 50, 100} {
		in := referenceInput()
		in.VacancyRatePercentage = vacancy

		p, err := ProjectRental(in)
		require.NoError(t, err)
		assert.LessOrEqual(t, p.TotalCashFlow, prev, "vacancy %.0f%%", vacancy)
		prev = p.TotalCashFlow
	}
}

func TestDecisionAndProfitDifference(t *testing.T) {
	for _, ret := range []float64{-50, -5, 0, 4, 8, 12, 25, 60} {
		for _, appreciation := range []float64{-10, 0, 3, 8} {
			in := referenceInput()
			in.ETFAnnualReturnRate = ret
			in.AnnualPropertyAppreciationRate = appreciation

			res, err := Compare(in)
			require.NoError(t, err)

			assert.InDelta(t, math.Abs(res.Rental.TotalProfit-res.ETF.TotalProfit), res.ProfitDifference, 0.01)
			assert.GreaterOrEqual(t, res.ProfitDifference, 0.0)
			if res.Rental.TotalProfit > res.ETF.TotalProfit {
				assert.Equal(t, StrategyRental, res.BetterInvestment)
			} else {
				assert.Equal(t, StrategyETF, res.BetterInvestment)
			}
		}
	}
}

func TestDecideTieGoesToETF(t *testing.T) {
	res := decide(RentalProjection{TotalProfit: 1000}, ETFProjection{TotalProfit: 1000})
	assert.Equal(t, StrategyETF, res.BetterInvestment)
	assert.Equal(t, 0.0, res.ProfitDifference)
}

func TestCompareIsDeterministic(t *testing.T) {
	in := referenceInput()

	first, err := Compare(in)
	require.NoError(t, err)
	second, err := Compare(in)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestReferenceScenarioIsReasonable(t *testing.T) {
	res, err := Compare(referenceInput())
	require.NoError(t, err)

	assert.Greater(t, res.Rental.AnnualizedReturn, -50.0)
	assert.Less(t, res.Rental.AnnualizedReturn, 50.0)
	assert.Greater(t, res.ETF.AnnualizedReturn, -50.0)
	assert.Less(t, res.ETF.AnnualizedReturn, 50.0)
}

func TestMortgageStopsAfterTerm(t *testing.T) {
	in := referenceInput()
	in.MortgageTermYears = 5
	in.ComparisonPeriodYears = 10

	years, err := Schedule(in)
	require.NoError(t, err)
	require.Len(t, years, 10)

	payment := MonthlyPayment(400000, in.MortgageInterestRate, 60) * 12
	for _, y := range years {
		if y.Year <= 5 {
			assert.InDelta(t, payment, y.MortgagePaid, 1e-6, "year %d", y.Year)
		} else {
			assert.Zero(t, y.MortgagePaid, "year %d", y.Year)
		}
	}
}

func TestZeroRateLoanLeavesLinearBalance(t *testing.T) {
	in := Input{
		ComparisonPeriodYears: 5,
		PropertyPrice:         100000,
		MortgageTermYears:     10,
		ClosingCosts:          1000,
	}

	p, err := ProjectRental(in)
	require.NoError(t, err)

	// five years of 10000 in payments, then a sale that repays the other half
	assert.InDelta(t, -50000, p.TotalCashFlow, 1e-6)
	assert.InDelta(t, -1000, p.TotalProfit, 1e-6)
	assert.InDelta(t, -100, p.AnnualizedReturn, 1)
}

func TestScheduleAgreesWithProjections(t *testing.T) {
	in := referenceInput()

	years, err := Schedule(in)
	require.NoError(t, err)
	res, err := Compare(in)
	require.NoError(t, err)

	require.Len(t, years, in.ComparisonPeriodYears)

	var sum float64
	for _, y := range years {
		sum += y.CashFlow
	}
	last := years[len(years)-1]

	assert.InDelta(t, res.Rental.TotalCashFlow, sum, 1e-6)
	assert.InDelta(t, res.Rental.TotalCashFlow, last.CumulativeCashFlow, 1e-6)
	assert.InDelta(t, res.Rental.PropertyValueAtEnd, last.PropertyValue, 1e-6)
	assert.InDelta(t, res.ETF.FinalValue, last.ETFValue, 1e-6)
}

func TestInvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *Input)
	}{
		{"zero horizon", func(in *Input) { in.ComparisonPeriodYears = 0 }},
		{"negative horizon", func(in *Input) { in.ComparisonPeriodYears = -3 }},
		{"zero mortgage term", func(in *Input) { in.MortgageTermYears = 0 }},
		{"horizon above ceiling", func(in *Input) { in.ComparisonPeriodYears = MaxYears + 1 }},
		{"huge horizon", func(in *Input) { in.ComparisonPeriodYears = math.MaxInt32 }},
		{"term above ceiling", func(in *Input) { in.MortgageTermYears = MaxYears + 1 }},
		{"term overflowing months", func(in *Input) { in.MortgageTermYears = math.MaxInt }},
		{"no starting capital", func(in *Input) {
			in.DownPaymentPercentage = 0
			in.ClosingCosts = 0
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := referenceInput()
			tt.mutate(&in)

			_, err := Compare(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput), "got %v", err)

			_, err = Schedule(in)
			assert.True(t, errors.Is(err, ErrInvalidInput), "got %v", err)
		})
	}
}

func TestYearCeilingIsAccepted(t *testing.T) {
	in := referenceInput()
	in.ComparisonPeriodYears = MaxYears
	in.MortgageTermYears = MaxYears

	res, err := Compare(in)
	require.NoError(t, err)
	assert.Greater(t, res.ETF.FinalValue, res.ETF.InitialInvestment)

	years, err := Schedule(in)
	require.NoError(t, err)
	assert.Len(t, years, MaxYears)
}

func TestProjectETFRejectsHorizonAboveCeiling(t *testing.T) {
	in := referenceInput()
	in.ComparisonPeriodYears = MaxYears + 1
	_, err := ProjectETF(in, 100000)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestProjectETFRejectsZeroCapital(t *testing.T) {
	_, err := ProjectETF(referenceInput(), 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestValidStrategy(t *testing.T) {
	assert.True(t, ValidStrategy("rental"))
	assert.True(t, ValidStrategy("etf"))
	assert.False(t, ValidStrategy("bonds"))
	assert.False(t, ValidStrategy(""))
}
