// Package archive keeps computed runs in a SQLite database, so that the
// figures filed for a year can be audited after the dataset has changed.
//
// A run stores its financial year summaries, its Foreign Assets summaries and
// every matched allocation. Amounts are stored as decimal strings, never as
// floating point numbers.
package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/etnz/equitywise"
	"github.com/etnz/equitywise/date"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	label TEXT NOT NULL,
	created_at TEXT NOT NULL,
	vests INTEGER NOT NULL,
	sales INTEGER NOT NULL,
	failures INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS fy_summaries (
	run_id INTEGER NOT NULL,
	fy INTEGER NOT NULL,
	vested_quantity TEXT NOT NULL,
	vesting_income_inr TEXT NOT NULL,
	taxes_withheld_usd TEXT NOT NULL,
	sold_quantity TEXT NOT NULL,
	proceeds_inr TEXT NOT NULL,
	cost_basis_inr TEXT NOT NULL,
	short_term_inr TEXT NOT NULL,
	long_term_inr TEXT NOT NULL,
	incomplete BOOLEAN NOT NULL,
	FOREIGN KEY(run_id) REFERENCES runs(id),
	PRIMARY KEY (run_id, fy)
);

CREATE TABLE IF NOT EXISTS fa_summaries (
	run_id INTEGER NOT NULL,
	stream TEXT NOT NULL,
	cy INTEGER NOT NULL,
	opening_inr TEXT,
	peak_inr TEXT,
	peak_date TEXT,
	closing_inr TEXT,
	required BOOLEAN,
	error TEXT,
	FOREIGN KEY(run_id) REFERENCES runs(id),
	PRIMARY KEY (run_id, stream, cy)
);

CREATE TABLE IF NOT EXISTS allocations (
	run_id INTEGER NOT NULL,
	id TEXT NOT NULL,
	stream TEXT NOT NULL,
	sale_date TEXT NOT NULL,
	grant_id TEXT NOT NULL,
	vest_date TEXT NOT NULL,
	quantity TEXT NOT NULL,
	holding_days INTEGER NOT NULL,
	term TEXT NOT NULL,
	sale_value_inr TEXT NOT NULL,
	cost_basis_inr TEXT NOT NULL,
	gain_inr TEXT NOT NULL,
	FOREIGN KEY(run_id) REFERENCES runs(id),
	PRIMARY KEY (run_id, id)
);
`

// Archive is a SQLite database of computed runs.
type Archive struct {
	db *sql.DB
}

// Run describes an archived computation.
type Run struct {
	ID        int64
	Label     string
	CreatedAt time.Time
	Vests     int
	Sales     int
	Failures  int
}

// Year is an archived financial year summary.
type Year struct {
	Year             date.FinancialYear
	VestedQuantity   equitywise.Quantity
	VestingIncomeINR equitywise.Money
	TaxesWithheld    equitywise.Money
	SoldQuantity     equitywise.Quantity
	ProceedsINR      equitywise.Money
	CostBasisINR     equitywise.Money
	ShortTermINR     equitywise.Money
	LongTermINR      equitywise.Money
	Incomplete       bool
}

// Open opens or creates the archive at path and ensures its tables exist.
func Open(path string) (*Archive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive at %s: %w", path, err)
	}
	// SQLite has a single writer, and :memory: databases live in one connection.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open archive at %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create archive tables: %w", err)
	}
	return &Archive{db: db}, nil
}

// Close closes the database.
func (a *Archive) Close() error { return a.db.Close() }

// Save stores a computation result under label, in a single transaction.
func (a *Archive) Save(ctx context.Context, label string, res *equitywise.Result) (run Run, err error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()

	run = Run{
		Label:     label,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		Vests:     len(res.Vests),
		Sales:     len(res.Sales),
		Failures:  len(res.Failures),
	}
	r, err := tx.ExecContext(ctx,
		`INSERT INTO runs (label, created_at, vests, sales, failures) VALUES (?, ?, ?, ?, ?)`,
		run.Label, run.CreatedAt.Format(time.RFC3339), run.Vests, run.Sales, run.Failures)
	if err != nil {
		return Run{}, fmt.Errorf("failed to insert run: %w", err)
	}
	if run.ID, err = r.LastInsertId(); err != nil {
		return Run{}, fmt.Errorf("failed to read run id: %w", err)
	}

	for _, s := range res.Years {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO fy_summaries (run_id, fy, vested_quantity, vesting_income_inr, taxes_withheld_usd, sold_quantity, proceeds_inr, cost_basis_inr, short_term_inr, long_term_inr, incomplete)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, int(s.Year),
			s.VestedQuantity.Decimal().String(),
			s.VestingIncomeINR.Decimal().String(),
			s.TaxesWithheld.Decimal().String(),
			s.SoldQuantity.Decimal().String(),
			s.ProceedsINR.Decimal().String(),
			s.CostBasisINR.Decimal().String(),
			s.ShortTermINR.Decimal().String(),
			s.LongTermINR.Decimal().String(),
			s.Incomplete)
		if err != nil {
			return Run{}, fmt.Errorf("failed to insert %v summary: %w", s.Year, err)
		}
	}

	for _, s := range res.FA {
		var err error
		if s.Err != nil {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO fa_summaries (run_id, stream, cy, error) VALUES (?, ?, ?, ?)`,
				run.ID, s.Stream, s.Year, s.Err.Error())
		} else {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO fa_summaries (run_id, stream, cy, opening_inr, peak_inr, peak_date, closing_inr, required)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				run.ID, s.Stream, s.Year,
				s.Opening.Value.Decimal().String(),
				s.Peak.Value.Decimal().String(),
				s.Peak.Date.String(),
				s.Closing.Value.Decimal().String(),
				s.Declaration.Required)
		}
		if err != nil {
			return Run{}, fmt.Errorf("failed to insert CY%d summary of stream %q: %w", s.Year, s.Stream, err)
		}
	}

	for _, g := range res.Gains {
		al := g.Allocation
		_, err := tx.ExecContext(ctx,
			`INSERT INTO allocations (run_id, id, stream, sale_date, grant_id, vest_date, quantity, holding_days, term, sale_value_inr, cost_basis_inr, gain_inr)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, al.ID.String(), al.Stream, al.Sale.Date.String(), al.Grant, al.VestDate.String(),
			al.Quantity.Decimal().String(), al.HoldingDays, g.Term.String(),
			g.SaleValueINR.Decimal().String(), g.CostBasisINR.Decimal().String(), g.GainINR.Decimal().String())
		if err != nil {
			return Run{}, fmt.Errorf("failed to insert allocation %s: %w", al.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("failed to commit run: %w", err)
	}
	return run, nil
}

// Runs lists the archived runs, most recent first.
func (a *Archive) Runs(ctx context.Context) ([]Run, error) {
	rows, err := a.db.QueryContext(ctx, `SELECT id, label, created_at, vests, sales, failures FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var created string
		if err := rows.Scan(&r.ID, &r.Label, &created, &r.Vests, &r.Sales, &r.Failures); err != nil {
			return nil, fmt.Errorf("failed to read run: %w", err)
		}
		if r.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
			return nil, fmt.Errorf("invalid creation time of run %d: %w", r.ID, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Years reads back the financial year summaries of a run, sorted by year.
func (a *Archive) Years(ctx context.Context, run int64) ([]Year, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT fy, vested_quantity, vesting_income_inr, taxes_withheld_usd, sold_quantity, proceeds_inr, cost_basis_inr, short_term_inr, long_term_inr, incomplete
		FROM fy_summaries WHERE run_id = ? ORDER BY fy`, run)
	if err != nil {
		return nil, fmt.Errorf("failed to read the summaries of run %d: %w", run, err)
	}
	defer rows.Close()

	var years []Year
	for rows.Next() {
		var y Year
		var fy int
		var vested, income, withheld, sold, proceeds, cost, short, long string
		if err := rows.Scan(&fy, &vested, &income, &withheld, &sold, &proceeds, &cost, &short, &long, &y.Incomplete); err != nil {
			return nil, fmt.Errorf("failed to read summary of run %d: %w", run, err)
		}
		y.Year = date.FinancialYear(fy)
		var p parser
		y.VestedQuantity = equitywise.Q(p.decimal(vested))
		y.VestingIncomeINR = equitywise.INR(p.decimal(income))
		y.TaxesWithheld = equitywise.USD(p.decimal(withheld))
		y.SoldQuantity = equitywise.Q(p.decimal(sold))
		y.ProceedsINR = equitywise.INR(p.decimal(proceeds))
		y.CostBasisINR = equitywise.INR(p.decimal(cost))
		y.ShortTermINR = equitywise.INR(p.decimal(short))
		y.LongTermINR = equitywise.INR(p.decimal(long))
		if p.err != nil {
			return nil, fmt.Errorf("corrupted %v summary in run %d: %w", y.Year, run, p.err)
		}
		years = append(years, y)
	}
	return years, rows.Err()
}

// parser parses decimal columns and keeps the first error.
type parser struct{ err error }

func (p *parser) decimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil && p.err == nil {
		p.err = err
	}
	return d
}
