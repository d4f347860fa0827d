package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// comparisonsTable lists the comparison columns once for both dialects.
// Money and rate columns hold exact decimal values.
const comparisonsTable = `CREATE TABLE IF NOT EXISTS investment_comparisons (
	id                                {{id}},
	comparison_period_years           INTEGER   NOT NULL,
	property_price                    {{num}}   NOT NULL,
	down_payment_percentage           {{num}}   NOT NULL,
	mortgage_interest_rate            {{num}}   NOT NULL,
	mortgage_term_years               INTEGER   NOT NULL,
	monthly_rent                      {{num}}   NOT NULL,
	annual_rent_increase_rate         {{num}}   NOT NULL,
	annual_property_appreciation_rate {{num}}   NOT NULL,
	monthly_maintenance_cost          {{num}}   NOT NULL,
	annual_property_tax_rate          {{num}}   NOT NULL,
	annual_insurance_cost             {{num}}   NOT NULL,
	vacancy_rate_percentage           {{num}}   NOT NULL,
	closing_costs                     {{num}}   NOT NULL,
	selling_costs_percentage          {{num}}   NOT NULL,
	etf_annual_return_rate            {{num}}   NOT NULL,
	etf_annual_fee_rate               {{num}}   NOT NULL,
	rental_initial_investment         {{num}}   NOT NULL,
	rental_total_cash_flow            {{num}}   NOT NULL,
	rental_property_value_at_end      {{num}}   NOT NULL,
	rental_total_profit               {{num}}   NOT NULL,
	rental_annualized_return          {{num}}   NOT NULL,
	etf_initial_investment            {{num}}   NOT NULL,
	etf_final_value                   {{num}}   NOT NULL,
	etf_total_profit                  {{num}}   NOT NULL,
	etf_annualized_return             {{num}}   NOT NULL,
	better_investment                 TEXT      NOT NULL CHECK (better_investment IN ('rental', 'etf')),
	profit_difference                 {{num}}   NOT NULL,
	created_at                        {{ts}}    NOT NULL
)`

const apiKeysTable = `CREATE TABLE IF NOT EXISTS api_keys (
	id           {{id}},
	name         TEXT  NOT NULL,
	key_prefix   TEXT  NOT NULL,
	key_hash     TEXT  NOT NULL UNIQUE,
	created_at   {{ts}} NOT NULL,
	last_used_at {{ts}}
)`

const createdAtIndex = `CREATE INDEX IF NOT EXISTS idx_investment_comparisons_created_at
	ON investment_comparisons (created_at DESC, id DESC)`

// migrations returns the ordered statements for a dialect.
func migrations(d Dialect) []string {
	var r *strings.Replacer
	switch d {
	case Postgres:
		r = strings.NewReplacer("{{id}}", "BIGSERIAL PRIMARY KEY", "{{num}}", "NUMERIC", "{{ts}}", "TIMESTAMPTZ")
	default:
		r = strings.NewReplacer("{{id}}", "INTEGER PRIMARY KEY AUTOINCREMENT", "{{num}}", "TEXT", "{{ts}}", "DATETIME")
	}

	return []string{
		r.Replace(comparisonsTable),
		createdAtIndex,
		r.Replace(apiKeysTable),
	}
}

// migrate runs all migrations in order.
func migrate(db *sql.DB, d Dialect) error {
	for i, m := range migrations(d) {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
