package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/evcraddock/invest-compare/internal/client"
	"github.com/evcraddock/invest-compare/internal/comparison"
	"github.com/evcraddock/invest-compare/internal/engine"
)

func newCompareCmd() *cobra.Command {
	in := engine.DefaultInput()
	var dryRun, schedule bool

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare a rental property with an ETF",
		Long: "Project a rental property purchase and an ETF investment of the same starting capital " +
			"over the comparison period and report which one ends up more profitable. " +
			"The comparison is stored on the server unless --dry-run is given.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd.OutOrStdout(), in, dryRun, schedule)
		},
	}

	f := cmd.Flags()
	f.IntVar(&in.ComparisonPeriodYears, "years", in.ComparisonPeriodYears, "comparison period in years")
	f.Float64Var(&in.PropertyPrice, "price", in.PropertyPrice, "property price")
	f.Float64Var(&in.DownPaymentPercentage, "down-payment", in.DownPaymentPercentage, "down payment (% of price)")
	f.Float64Var(&in.MortgageInterestRate, "interest-rate", in.MortgageInterestRate, "mortgage interest rate (%/year)")
	f.IntVar(&in.MortgageTermYears, "term", in.MortgageTermYears, "mortgage term in years")
	f.Float64Var(&in.MonthlyRent, "rent", in.MonthlyRent, "monthly rent")
	f.Float64Var(&in.AnnualRentIncreaseRate, "rent-increase", in.AnnualRentIncreaseRate, "annual rent increase (%)")
	f.Float64Var(&in.AnnualPropertyAppreciationRate, "appreciation", in.AnnualPropertyAppreciationRate, "annual property appreciation (%)")
	f.Float64Var(&in.MonthlyMaintenanceCost, "maintenance", in.MonthlyMaintenanceCost, "monthly maintenance cost")
	f.Float64Var(&in.AnnualPropertyTaxRate, "property-tax", in.AnnualPropertyTaxRate, "annual property tax (% of value)")
	f.Float64Var(&in.AnnualInsuranceCost, "insurance", in.AnnualInsuranceCost, "annual insurance cost")
	f.Float64Var(&in.VacancyRatePercentage, "vacancy", in.VacancyRatePercentage, "vacancy rate (%)")
	f.Float64Var(&in.ClosingCosts, "closing-costs", in.ClosingCosts, "closing costs")
	f.Float64Var(&in.SellingCostsPercentage, "selling-costs", in.SellingCostsPercentage, "selling costs (% of sale price)")
	f.Float64Var(&in.ETFAnnualReturnRate, "etf-return", in.ETFAnnualReturnRate, "ETF annual return (%)")
	f.Float64Var(&in.ETFAnnualFeeRate, "etf-fee", in.ETFAnnualFeeRate, "ETF annual fee (%)")
	f.BoolVar(&dryRun, "dry-run", false, "compute locally without storing the comparison")
	f.BoolVar(&schedule, "schedule", false, "also print the yearly breakdown")

	return cmd
}

func runCompare(w io.Writer, in engine.Input, dryRun, schedule bool) error {
	if dryRun {
		return runLocalCompare(w, in, schedule)
	}

	c := newAPIClient()
	saved, err := c.CreateComparison(in)
	if err != nil {
		return describeAPIError(err)
	}

	var years []engine.Year
	if schedule {
		if years, err = engine.Schedule(saved.Input); err != nil {
			return err
		}
	}

	if isJSON() {
		if schedule {
			return printJSON(w, map[string]interface{}{"comparison": saved, "schedule": years})
		}
		return printJSON(w, saved)
	}

	printComparison(w, saved)
	if schedule {
		fmt.Fprintln(w)
		return printSchedule(w, years)
	}
	return nil
}

func runLocalCompare(w io.Writer, in engine.Input, schedule bool) error {
	svc := comparison.NewService(nil, nil, nil, nil)
	res, err := svc.Calculate(in)
	if err != nil {
		return err
	}

	var years []engine.Year
	if schedule {
		if years, err = engine.Schedule(in); err != nil {
			return err
		}
	}

	if isJSON() {
		out := map[string]interface{}{"input": in, "result": res}
		if schedule {
			out["schedule"] = years
		}
		return printJSON(w, out)
	}

	printResult(w, res)
	if schedule {
		fmt.Fprintln(w)
		return printSchedule(w, years)
	}
	return nil
}

// describeAPIError expands field-level validation errors from the server.
func describeAPIError(err error) error {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || len(apiErr.Fields) == 0 {
		return err
	}
	msg := "invalid input:"
	for _, f := range apiErr.Fields {
		msg += fmt.Sprintf("\n  %s: %s", f.Field, f.Message)
	}
	return fmt.Errorf("%s", msg)
}
