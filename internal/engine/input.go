// Package engine projects a rental property purchase and an ETF investment
// over the same horizon and decides which one ends up more profitable.
//
// Every function here is pure: it reads an Input value and returns a new
// value. Range validation happens before the engine is called; the engine only
// rejects inputs it cannot compute a finite result for.
package engine

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is returned when an input cannot be projected, for example a
// zero horizon or a zero initial investment.
var ErrInvalidInput = errors.New("invalid comparison input")

// Strategy names one of the two compared investments.
type Strategy string

const (
	StrategyRental Strategy = "rental"
	StrategyETF    Strategy = "etf"
)

// ValidStrategy returns true if s is a known strategy.
func ValidStrategy(s string) bool {
	switch Strategy(s) {
	case StrategyRental, StrategyETF:
		return true
	}
	return false
}

// Input holds the assumptions for one comparison. Rates and percentages are
// expressed in percent (6.5 means 6.5%).
type Input struct {
	ComparisonPeriodYears int `json:"comparison_period_years"`

	PropertyPrice                  float64 `json:"property_price"`
	DownPaymentPercentage          float64 `json:"down_payment_percentage"`
	MortgageInterestRate           float64 `json:"mortgage_interest_rate"`
	MortgageTermYears              int     `json:"mortgage_term_years"`
	MonthlyRent                    float64 `json:"monthly_rent"`
	AnnualRentIncreaseRate         float64 `json:"annual_rent_increase_rate"`
	AnnualPropertyAppreciationRate float64 `json:"annual_property_appreciation_rate"`
	MonthlyMaintenanceCost         float64 `json:"monthly_maintenance_cost"`
	AnnualPropertyTaxRate          float64 `json:"annual_property_tax_rate"`
	AnnualInsuranceCost            float64 `json:"annual_insurance_cost"`
	VacancyRatePercentage          float64 `json:"vacancy_rate_percentage"`
	ClosingCosts                   float64 `json:"closing_costs"`
	SellingCostsPercentage         float64 `json:"selling_costs_percentage"`

	ETFAnnualReturnRate float64 `json:"etf_annual_return_rate"`
	ETFAnnualFeeRate    float64 `json:"etf_annual_fee_rate"`
}

// DefaultInput returns a typical scenario: a 500k property with 20% down at
// 6.5% over 30 years, compared with an 8% ETF charging 0.5%, over 10 years.
func DefaultInput() Input {
	return Input{
		ComparisonPeriodYears:          10,
		PropertyPrice:                  500000,
		DownPaymentPercentage:          20,
		MortgageInterestRate:           6.5,
		MortgageTermYears:              30,
		MonthlyRent:                    2500,
		AnnualRentIncreaseRate:         3,
		AnnualPropertyAppreciationRate: 4,
		MonthlyMaintenanceCost:         200,
		AnnualPropertyTaxRate:          1.2,
		AnnualInsuranceCost:            1200,
		VacancyRatePercentage:          5,
		ClosingCosts:                   10000,
		SellingCostsPercentage:         6,
		ETFAnnualReturnRate:            8,
		ETFAnnualFeeRate:               0.5,
	}
}

// InitialInvestment returns the capital both strategies start with: the down
// payment plus closing costs.
func (in Input) InitialInvestment() float64 {
	return in.downPayment() + in.ClosingCosts
}

func (in Input) downPayment() float64 {
	return in.PropertyPrice * in.DownPaymentPercentage / 100
}

// MaxYears bounds both the comparison period and the mortgage term.
const MaxYears = 100

// check rejects inputs that would divide by zero or whose yearly loop and
// month counts would not fit in memory or an int.
func (in Input) check() error {
	if err := checkYears("comparison_period_years", in.ComparisonPeriodYears); err != nil {
		return err
	}
	return checkYears("mortgage_term_years", in.MortgageTermYears)
}

func checkYears(field string, years int) error {
	if years <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidInput, field, years)
	}
	if years > MaxYears {
		return fmt.Errorf("%w: %s must be at most %d, got %d", ErrInvalidInput, field, MaxYears, years)
	}
	return nil
}

func checkInitial(initial float64) error {
	if initial <= 0 || !finite(initial) {
		return fmt.Errorf("%w: initial investment must be positive, got %.2f", ErrInvalidInput, initial)
	}
	return nil
}

// annualizedReturn converts a growth multiple over years into a yearly rate in
// percent. A multiple of zero or less is a total loss and reports -100.
func annualizedReturn(growth float64, years int) float64 {
	if years <= 0 {
		return 0
	}
	if growth <= 0 {
		return -100
	}
	return (math.Pow(growth, 1/float64(years)) - 1) * 100
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
