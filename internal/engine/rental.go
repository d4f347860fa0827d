package engine

import "fmt"

// RentalProjection is the outcome of buying the property, renting it out and
// selling it at the end of the horizon.
type RentalProjection struct {
	InitialInvestment  float64 `json:"initial_investment"`
	TotalCashFlow      float64 `json:"total_cash_flow"`
	PropertyValueAtEnd float64 `json:"property_value_at_end"`
	TotalProfit        float64 `json:"total_profit"`
	AnnualizedReturn   float64 `json:"annualized_return"`
}

// Year is one row of the yearly schedule. PropertyValue and ETFValue are the
// values at the end of the year, after that year's growth.
type Year struct {
	Year               int     `json:"year"`
	RentCollected      float64 `json:"rent_collected"`
	MortgagePaid       float64 `json:"mortgage_paid"`
	Maintenance        float64 `json:"maintenance"`
	PropertyTax        float64 `json:"property_tax"`
	Insurance          float64 `json:"insurance"`
	CashFlow           float64 `json:"cash_flow"`
	CumulativeCashFlow float64 `json:"cumulative_cash_flow"`
	PropertyValue      float64 `json:"property_value"`
	ETFValue           float64 `json:"etf_value"`
}

// ProjectRental simulates the rental strategy year by year.
func ProjectRental(in Input) (RentalProjection, error) {
	p, _, err := simulateRental(in)
	return p, err
}

func simulateRental(in Input) (RentalProjection, []Year, error) {
	if err := in.check(); err != nil {
		return RentalProjection{}, nil, err
	}

	downPayment := in.downPayment()
	initial := downPayment + in.ClosingCosts
	if err := checkInitial(initial); err != nil {
		return RentalProjection{}, nil, err
	}

	loan := in.PropertyPrice - downPayment
	termMonths := in.MortgageTermYears * 12
	payment := MonthlyPayment(loan, in.MortgageInterestRate, termMonths)

	rent := in.MonthlyRent
	value := in.PropertyPrice
	maintenance := in.MonthlyMaintenanceCost * 12

	years := make([]Year, 0, in.ComparisonPeriodYears)
	var totalCashFlow float64

	for year := 1; year <= in.ComparisonPeriodYears; year++ {
		collected := rent * 12 * (1 - in.VacancyRatePercentage/100)

		// No payments once the loan term is over.
		var mortgage float64
		if year*12 <= termMonths {
			mortgage = payment * 12
		}

		tax := value * in.AnnualPropertyTaxRate / 100
		cashFlow := collected - (mortgage + maintenance + tax + in.AnnualInsuranceCost)
		totalCashFlow += cashFlow

		rent *= 1 + in.AnnualRentIncreaseRate/100
		value *= 1 + in.AnnualPropertyAppreciationRate/100

		years = append(years, Year{
			Year:               year,
			RentCollected:      collected,
			MortgagePaid:       mortgage,
			Maintenance:        maintenance,
			PropertyTax:        tax,
			Insurance:          in.AnnualInsuranceCost,
			CashFlow:           cashFlow,
			CumulativeCashFlow: totalCashFlow,
			PropertyValue:      value,
		})
	}

	sellingCosts := value * in.SellingCostsPercentage / 100
	balance := RemainingBalance(loan, in.MortgageInterestRate, termMonths, in.ComparisonPeriodYears*12)
	netProceeds := value - sellingCosts - balance

	profit := totalCashFlow + netProceeds - initial

	p := RentalProjection{
		InitialInvestment:  initial,
		TotalCashFlow:      totalCashFlow,
		PropertyValueAtEnd: value,
		TotalProfit:        profit,
		AnnualizedReturn:   annualizedReturn(1+profit/initial, in.ComparisonPeriodYears),
	}
	if !finite(p.TotalCashFlow, p.PropertyValueAtEnd, p.TotalProfit, p.AnnualizedReturn) {
		return RentalProjection{}, nil, fmt.Errorf("%w: rental projection overflows", ErrInvalidInput)
	}

	return p, years, nil
}
