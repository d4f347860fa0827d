package comparison

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/evcraddock/invest-compare/internal/db"
)

// Repository appends and reads comparisons. The same queries serve SQLite and
// PostgreSQL; placeholders are rebound for the connection's dialect.
type Repository struct {
	conn    *sql.DB
	dialect db.Dialect
	now     func() time.Time
}

// NewRepository creates a comparison repository.
func NewRepository(conn *sql.DB, dialect db.Dialect) *Repository {
	return &Repository{conn: conn, dialect: dialect, now: time.Now}
}

const insertSQL = `INSERT INTO investment_comparisons
	(comparison_period_years, property_price, down_payment_percentage, mortgage_interest_rate,
	 mortgage_term_years, monthly_rent, annual_rent_increase_rate, annual_property_appreciation_rate,
	 monthly_maintenance_cost, annual_property_tax_rate, annual_insurance_cost, vacancy_rate_percentage,
	 closing_costs, selling_costs_percentage, etf_annual_return_rate, etf_annual_fee_rate,
	 rental_initial_investment, rental_total_cash_flow, rental_property_value_at_end,
	 rental_total_profit, rental_annualized_return,
	 etf_initial_investment, etf_final_value, etf_total_profit, etf_annualized_return,
	 better_investment, profit_difference, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const selectColumns = `id, comparison_period_years, property_price, down_payment_percentage, mortgage_interest_rate,
	mortgage_term_years, monthly_rent, annual_rent_increase_rate, annual_property_appreciation_rate,
	monthly_maintenance_cost, annual_property_tax_rate, annual_insurance_cost, vacancy_rate_percentage,
	closing_costs, selling_costs_percentage, etf_annual_return_rate, etf_annual_fee_rate,
	rental_initial_investment, rental_total_cash_flow, rental_property_value_at_end,
	rental_total_profit, rental_annualized_return,
	etf_initial_investment, etf_final_value, etf_total_profit, etf_annualized_return,
	better_investment, profit_difference, created_at`

// Insert appends a comparison and returns the stored record with its
// generated ID and creation time.
func (r *Repository) Insert(ctx context.Context, c *Comparison) (*Comparison, error) {
	row := *c
	row.CreatedAt = r.now().UTC()

	var id int64
	switch r.dialect {
	case db.Postgres:
		err := r.conn.QueryRowContext(ctx, r.dialect.Rebind(insertSQL)+" RETURNING id", row.values()...).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("inserting comparison: %w", err)
		}
	default:
		result, err := r.conn.ExecContext(ctx, insertSQL, row.values()...)
		if err != nil {
			return nil, fmt.Errorf("inserting comparison: %w", err)
		}
		id, err = result.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("getting insert id: %w", err)
		}
	}

	saved, found, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("comparison %d missing after insert", id)
	}
	return saved, nil
}

// GetByID returns a comparison by its ID. found is false when no record has
// that ID.
func (r *Repository) GetByID(ctx context.Context, id int64) (c *Comparison, found bool, err error) {
	query := r.dialect.Rebind(fmt.Sprintf("SELECT %s FROM investment_comparisons WHERE id = ?", selectColumns))

	c, err = scanComparison(r.conn.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("querying comparison %d: %w", id, err)
	}

	return c, true, nil
}

// ListOptions controls paging for List. Zero values mean no limit and no
// offset.
type ListOptions struct {
	Limit  int
	Offset int
}

// List returns comparisons newest first.
func (r *Repository) List(ctx context.Context, opts ListOptions) (comparisons []*Comparison, err error) {
	query := fmt.Sprintf("SELECT %s FROM investment_comparisons ORDER BY created_at DESC, id DESC", selectColumns)
	var args []interface{}

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	} else if opts.Offset > 0 && r.dialect == db.SQLite {
		query += " LIMIT -1"
	}
	if opts.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, opts.Offset)
	}

	rows, err := r.conn.QueryContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("listing comparisons: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	for rows.Next() {
		c, err := scanComparison(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning comparison: %w", err)
		}
		comparisons = append(comparisons, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating comparisons: %w", err)
	}

	return comparisons, nil
}
