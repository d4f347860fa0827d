package cli

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evcraddock/invest-compare/internal/comparison"
	"github.com/evcraddock/invest-compare/internal/engine"
)

func TestCompareFlagDefaults(t *testing.T) {
	cmd := newCompareCmd()

	tests := map[string]string{
		"years":         "10",
		"price":         "500000",
		"down-payment":  "20",
		"interest-rate": "6.5",
		"term":          "30",
		"rent":          "2500",
		"rent-increase": "3",
		"appreciation":  "4",
		"maintenance":   "200",
		"property-tax":  "1.2",
		"insurance":     "1200",
		"vacancy":       "5",
		"closing-costs": "10000",
		"selling-costs": "6",
		"etf-return":    "8",
		"etf-fee":       "0.5",
	}
	for name, want := range tests {
		f := cmd.Flags().Lookup(name)
		require.NotNil(t, f, "flag --%s", name)
		assert.Equal(t, want, f.DefValue, "flag --%s", name)
	}
}

func TestCompareDryRun(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(envServerURL, "http://127.0.0.1:1")

	out, err := executeCommand("compare", "--dry-run")
	require.NoError(t, err)

	res, err := engine.Compare(engine.DefaultInput())
	require.NoError(t, err)
	assert.Contains(t, out, "Better investment: "+strategyLabel(res.BetterInvestment))
	assert.Contains(t, out, formatCurrency(res.ETF.FinalValue))
}

func TestCompareDryRunJSON(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	out, err := executeCommand("compare", "--dry-run", "--format", "json", "--years", "5", "--rent", "3000", "--schedule")
	require.NoError(t, err)

	var got struct {
		Input    engine.Input  `json:"input"`
		Result   engine.Result `json:"result"`
		Schedule []engine.Year `json:"schedule"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	want := engine.DefaultInput()
	want.ComparisonPeriodYears = 5
	want.MonthlyRent = 3000
	assert.Equal(t, want, got.Input)
	assert.Len(t, got.Schedule, 5)

	res, err := engine.Compare(want)
	require.NoError(t, err)
	assert.InDelta(t, res.ProfitDifference, got.Result.ProfitDifference, 1e-6)
}

func TestCompareDryRunRejectsInput(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := executeCommand("compare", "--dry-run", "--vacancy", "150")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vacancy_rate_percentage")

	_, err = executeCommand("compare", "--dry-run", "--down-payment", "0", "--closing-costs", "0")
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrInvalidInput)
}

func TestCompareStoresOnServer(t *testing.T) {
	svc := startAPIServer(t)

	out, err := executeCommand("compare", "--years", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Comparison #1")
	assert.Regexp(t, `Period:\s+7 years`, out)

	c, found, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 7, c.ComparisonPeriodYears)
}

func TestCompareServerValidationError(t *testing.T) {
	startAPIServer(t)

	_, err := executeCommand("compare", "--vacancy", "150", "--rent", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vacancy_rate_percentage")
	assert.Contains(t, err.Error(), "monthly_rent")
}

func TestShowAndHistory(t *testing.T) {
	svc := startAPIServer(t)
	ctx := context.Background()

	for _, years := range []int{3, 4, 5} {
		in := engine.DefaultInput()
		in.ComparisonPeriodYears = years
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	out, err := executeCommand("show", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Comparison #2")
	assert.Regexp(t, `Period:\s+4 years`, out)

	out, err = executeCommand("show", "2", "--schedule")
	require.NoError(t, err)
	assert.Contains(t, out, "CUMULATIVE")

	out, err = executeCommand("show", "2", "--format", "json")
	require.NoError(t, err)
	var c comparison.Comparison
	require.NoError(t, json.Unmarshal([]byte(out), &c))
	assert.Equal(t, int64(2), c.ID)

	_, err = executeCommand("show", "99")
	require.Error(t, err)
	assert.Equal(t, "comparison 99 not found", err.Error())

	out, err = executeCommand("history", "--format", "json", "--limit", "2")
	require.NoError(t, err)
	var list []comparison.Comparison
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 2)
	assert.Equal(t, int64(3), list[0].ID)
	assert.Equal(t, int64(2), list[1].ID)

	out, err = executeCommand("history")
	require.NoError(t, err)
	assert.Contains(t, out, "Total: 3 comparisons")
	assert.Less(t, strings.Index(out, "\n3 "), strings.Index(out, "\n1 "))
}
