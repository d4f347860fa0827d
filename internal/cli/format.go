package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/evcraddock/invest-compare/internal/comparison"
	"github.com/evcraddock/invest-compare/internal/engine"
)

// printJSON marshals v as indented JSON.
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatCurrency formats dollars with thousands separators and cents,
// e.g. $1,234,567.89 or -$250.00.
func formatCurrency(v float64) string {
	s := fmt.Sprintf("%.2f", math.Abs(v))
	whole, cents, _ := strings.Cut(s, ".")

	var parts []string
	for len(whole) > 3 {
		parts = append([]string{whole[len(whole)-3:]}, parts...)
		whole = whole[:len(whole)-3]
	}
	parts = append([]string{whole}, parts...)

	out := "$" + strings.Join(parts, ",") + "." + cents
	if v < 0 && s != "0.00" {
		out = "-" + out
	}
	return out
}

// formatPercent formats a value already expressed in percent, e.g. 7.25%.
func formatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

func strategyLabel(s engine.Strategy) string {
	if s == engine.StrategyRental {
		return "Rental property"
	}
	return "ETF"
}

// printResult prints both projections and the decision.
func printResult(w io.Writer, res engine.Result) {
	fmt.Fprintln(w, "Rental property")
	fmt.Fprintf(w, "  Initial investment:  %s\n", formatCurrency(res.Rental.InitialInvestment))
	fmt.Fprintf(w, "  Total cash flow:     %s\n", formatCurrency(res.Rental.TotalCashFlow))
	fmt.Fprintf(w, "  Property value:      %s\n", formatCurrency(res.Rental.PropertyValueAtEnd))
	fmt.Fprintf(w, "  Total profit:        %s\n", formatCurrency(res.Rental.TotalProfit))
	fmt.Fprintf(w, "  Annualized return:   %s\n", formatPercent(res.Rental.AnnualizedReturn))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "ETF")
	fmt.Fprintf(w, "  Initial investment:  %s\n", formatCurrency(res.ETF.InitialInvestment))
	fmt.Fprintf(w, "  Final value:         %s\n", formatCurrency(res.ETF.FinalValue))
	fmt.Fprintf(w, "  Total profit:        %s\n", formatCurrency(res.ETF.TotalProfit))
	fmt.Fprintf(w, "  Annualized return:   %s\n", formatPercent(res.ETF.AnnualizedReturn))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Better investment: %s by %s\n", strategyLabel(res.BetterInvestment), formatCurrency(res.ProfitDifference))
}

// printComparison prints a stored comparison with its inputs.
func printComparison(w io.Writer, c *comparison.Comparison) {
	in := c.Input
	fmt.Fprintf(w, "Comparison #%d (%s)\n", c.ID, c.CreatedAt.Local().Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "  Period:       %d years\n", in.ComparisonPeriodYears)
	fmt.Fprintf(w, "  Property:     %s, %s down, %s closing\n",
		formatCurrency(in.PropertyPrice), formatPercent(in.DownPaymentPercentage), formatCurrency(in.ClosingCosts))
	fmt.Fprintf(w, "  Mortgage:     %s over %d years\n", formatPercent(in.MortgageInterestRate), in.MortgageTermYears)
	fmt.Fprintf(w, "  Rent:         %s/month, +%s/year, %s vacancy\n",
		formatCurrency(in.MonthlyRent), formatPercent(in.AnnualRentIncreaseRate), formatPercent(in.VacancyRatePercentage))
	fmt.Fprintf(w, "  Costs:        %s/month maintenance, %s/year insurance, %s tax, %s selling\n",
		formatCurrency(in.MonthlyMaintenanceCost), formatCurrency(in.AnnualInsuranceCost),
		formatPercent(in.AnnualPropertyTaxRate), formatPercent(in.SellingCostsPercentage))
	fmt.Fprintf(w, "  Appreciation: %s/year\n", formatPercent(in.AnnualPropertyAppreciationRate))
	fmt.Fprintf(w, "  ETF:          %s return, %s fee\n", formatPercent(in.ETFAnnualReturnRate), formatPercent(in.ETFAnnualFeeRate))
	fmt.Fprintln(w)
	printResult(w, c.Result())
}

// printHistoryTable prints stored comparisons as a table.
func printHistoryTable(w io.Writer, list []*comparison.Comparison) error {
	if len(list) == 0 {
		fmt.Fprintln(w, "No comparisons found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "ID\tCREATED\tYEARS\tPRICE\tRENTAL PROFIT\tETF PROFIT\tBETTER\tDIFFERENCE"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(tw, "--\t-------\t-----\t-----\t-------------\t----------\t------\t----------"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}

	for _, c := range list {
		if _, err := fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			c.ID, c.CreatedAt.Local().Format("2006-01-02 15:04"), c.ComparisonPeriodYears,
			formatCurrency(c.PropertyPrice), formatCurrency(c.RentalTotalProfit), formatCurrency(c.ETFTotalProfit),
			c.BetterInvestment, formatCurrency(c.ProfitDifference)); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	fmt.Fprintf(w, "\nTotal: %d comparisons\n", len(list))
	return nil
}

// printSchedule prints the yearly breakdown.
func printSchedule(w io.Writer, years []engine.Year) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintln(tw, "YEAR\tRENT\tMORTGAGE\tCOSTS\tCASH FLOW\tCUMULATIVE\tPROPERTY\tETF\t"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}

	for _, y := range years {
		costs := y.Maintenance + y.PropertyTax + y.Insurance
		if _, err := fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			y.Year, formatCurrency(y.RentCollected), formatCurrency(y.MortgagePaid), formatCurrency(costs),
			formatCurrency(y.CashFlow), formatCurrency(y.CumulativeCashFlow),
			formatCurrency(y.PropertyValue), formatCurrency(y.ETFValue)); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}
	return nil
}
