// Package comparison stores and retrieves computed investment comparisons.
package comparison

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/evcraddock/invest-compare/internal/engine"
)

// Comparison is a persisted comparison: the input it was computed from, both
// projections and the decision. Records are written once and never updated.
type Comparison struct {
	ID int64 `json:"id"`
	engine.Input

	RentalInitialInvestment  float64 `json:"rental_initial_investment"`
	RentalTotalCashFlow      float64 `json:"rental_total_cash_flow"`
	RentalPropertyValueAtEnd float64 `json:"rental_property_value_at_end"`
	RentalTotalProfit        float64 `json:"rental_total_profit"`
	RentalAnnualizedReturn   float64 `json:"rental_annualized_return"`

	ETFInitialInvestment float64 `json:"etf_initial_investment"`
	ETFFinalValue        float64 `json:"etf_final_value"`
	ETFTotalProfit       float64 `json:"etf_total_profit"`
	ETFAnnualizedReturn  float64 `json:"etf_annualized_return"`

	BetterInvestment engine.Strategy `json:"better_investment"`
	ProfitDifference float64         `json:"profit_difference"`
	CreatedAt        time.Time       `json:"created_at"`
}

// NewComparison flattens an engine result into an unsaved record.
func NewComparison(in engine.Input, res engine.Result) *Comparison {
	return &Comparison{
		Input: in,

		RentalInitialInvestment:  res.Rental.InitialInvestment,
		RentalTotalCashFlow:      res.Rental.TotalCashFlow,
		RentalPropertyValueAtEnd: res.Rental.PropertyValueAtEnd,
		RentalTotalProfit:        res.Rental.TotalProfit,
		RentalAnnualizedReturn:   res.Rental.AnnualizedReturn,

		ETFInitialInvestment: res.ETF.InitialInvestment,
		ETFFinalValue:        res.ETF.FinalValue,
		ETFTotalProfit:       res.ETF.TotalProfit,
		ETFAnnualizedReturn:  res.ETF.AnnualizedReturn,

		BetterInvestment: res.BetterInvestment,
		ProfitDifference: res.ProfitDifference,
	}
}

// Result rebuilds the engine result stored in the record.
func (c *Comparison) Result() engine.Result {
	return engine.Result{
		Rental: engine.RentalProjection{
			InitialInvestment:  c.RentalInitialInvestment,
			TotalCashFlow:      c.RentalTotalCashFlow,
			PropertyValueAtEnd: c.RentalPropertyValueAtEnd,
			TotalProfit:        c.RentalTotalProfit,
			AnnualizedReturn:   c.RentalAnnualizedReturn,
		},
		ETF: engine.ETFProjection{
			InitialInvestment: c.ETFInitialInvestment,
			FinalValue:        c.ETFFinalValue,
			TotalProfit:       c.ETFTotalProfit,
			AnnualizedReturn:  c.ETFAnnualizedReturn,
		},
		BetterInvestment: c.BetterInvestment,
		ProfitDifference: c.ProfitDifference,
	}
}

// values returns the insert arguments in column order. Money and rate values
// are written as exact decimals.
func (c *Comparison) values() []interface{} {
	d := decimal.NewFromFloat
	return []interface{}{
		c.ComparisonPeriodYears,
		d(c.PropertyPrice),
		d(c.DownPaymentPercentage),
		d(c.MortgageInterestRate),
		c.MortgageTermYears,
		d(c.MonthlyRent),
		d(c.AnnualRentIncreaseRate),
		d(c.AnnualPropertyAppreciationRate),
		d(c.MonthlyMaintenanceCost),
		d(c.AnnualPropertyTaxRate),
		d(c.AnnualInsuranceCost),
		d(c.VacancyRatePercentage),
		d(c.ClosingCosts),
		d(c.SellingCostsPercentage),
		d(c.ETFAnnualReturnRate),
		d(c.ETFAnnualFeeRate),
		d(c.RentalInitialInvestment),
		d(c.RentalTotalCashFlow),
		d(c.RentalPropertyValueAtEnd),
		d(c.RentalTotalProfit),
		d(c.RentalAnnualizedReturn),
		d(c.ETFInitialInvestment),
		d(c.ETFFinalValue),
		d(c.ETFTotalProfit),
		d(c.ETFAnnualizedReturn),
		string(c.BetterInvestment),
		d(c.ProfitDifference),
		c.CreatedAt,
	}
}

// scanComparison scans a comparison from a database row.
func scanComparison(row interface{ Scan(...interface{}) error }) (*Comparison, error) {
	var c Comparison
	var better string
	var nums [24]decimal.Decimal

	err := row.Scan(
		&c.ID,
		&c.ComparisonPeriodYears,
		&nums[0], &nums[1], &nums[2],
		&c.MortgageTermYears,
		&nums[3], &nums[4], &nums[5], &nums[6], &nums[7], &nums[8],
		&nums[9], &nums[10], &nums[11], &nums[12], &nums[13],
		&nums[14], &nums[15], &nums[16], &nums[17], &nums[18],
		&nums[19], &nums[20], &nums[21], &nums[22],
		&better,
		&nums[23],
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	targets := []*float64{
		&c.PropertyPrice,
		&c.DownPaymentPercentage,
		&c.MortgageInterestRate,
		&c.MonthlyRent,
		&c.AnnualRentIncreaseRate,
		&c.AnnualPropertyAppreciationRate,
		&c.MonthlyMaintenanceCost,
		&c.AnnualPropertyTaxRate,
		&c.AnnualInsuranceCost,
		&c.VacancyRatePercentage,
		&c.ClosingCosts,
		&c.SellingCostsPercentage,
		&c.ETFAnnualReturnRate,
		&c.ETFAnnualFeeRate,
		&c.RentalInitialInvestment,
		&c.RentalTotalCashFlow,
		&c.RentalPropertyValueAtEnd,
		&c.RentalTotalProfit,
		&c.RentalAnnualizedReturn,
		&c.ETFInitialInvestment,
		&c.ETFFinalValue,
		&c.ETFTotalProfit,
		&c.ETFAnnualizedReturn,
		&c.ProfitDifference,
	}
	for i, t := range targets {
		*t = nums[i].InexactFloat64()
	}

	c.BetterInvestment = engine.Strategy(better)
	c.CreatedAt = c.CreatedAt.UTC()

	return &c, nil
}
