/*
Package sqlstore provides a SQL-backed implementation of finance.TxStore.

PURPOSE:
  Persists payees, payee accounts, bank accounts, deposits, transfers,
  payments and accrual runs in SQLite (default) or PostgreSQL. The same
  queries serve both; they are written with ? placeholders and rebound to
  $1, $2, ... for PostgreSQL.

STORAGE FORMAT:
  ids         TEXT (uuid strings)
  money/rates TEXT decimal strings, never floats
  dates       TEXT YYYY-MM-DD (sorts lexicographically)
  timestamps  TEXT, fixed-width UTC with microseconds (sorts lexicographically)
  booleans    INTEGER 0/1

KEY TABLES:
  payees, payee_accounts: Creditors and their accounts (engine state)
  accounts:               The user's bank accounts
  deposits, transfers:    Bank account ledger
  payments:               Payment ledger with interest/principal split
  accrual_runs:           Audit trail of batch accrual

TRANSACTIONS:
  WithTx hands the callback a Store bound to a *sql.Tx. SQLite is opened
  with a single connection, so writes are serialized and the callback
  must only use the Store it was given.

MIGRATION:
  Versioned schema in migrations/, embedded and applied by golang-migrate
  on Open().

USAGE:
  store, err := sqlstore.Open(sqlstore.DialectSQLite, "./data/finance.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - finance/store.go: Interface definitions
  - finance/store/memory.go: In-memory implementation for testing
*/
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/finance-engine/finance"
)

// Dialect is a database/sql driver name this store knows how to speak.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite3"
	DialectPostgres Dialect = "postgres"
)

// ParseDialect accepts the driver names plus the common aliases.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sqlite3", "sqlite", "":
		return DialectSQLite, nil
	case "postgres", "postgresql", "pg":
		return DialectPostgres, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q (want sqlite3 or postgres)", s)
	}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements finance.TxStore on database/sql.
type Store struct {
	db      *sql.DB
	q       querier
	dialect Dialect
	inTx    bool
}

var _ finance.TxStore = (*Store)(nil)

// New creates a SQLite store at dbPath. Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	return Open(DialectSQLite, dbPath)
}

// Open connects to the database and applies migrations.
func Open(dialect Dialect, dsn string) (*Store, error) {
	connStr := dsn
	if dialect == DialectSQLite && !strings.Contains(dsn, "?") {
		connStr = dsn + "?_foreign_keys=on&_journal_mode=WAL"
	}

	db, err := sql.Open(string(dialect), connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dialect == DialectSQLite {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := runMigrations(db, dialect, dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{db: db, q: db, dialect: dialect}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Dialect reports which database the store talks to.
func (s *Store) Dialect() Dialect { return s.dialect }

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// WithTx executes a function within a database transaction.
// Nested calls reuse the outer transaction.
func (s *Store) WithTx(ctx context.Context, fn func(finance.Store) error) error {
	if s.inTx {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	txStore := &Store{db: s.db, q: tx, dialect: s.dialect, inTx: true}
	if err := fn(txStore); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) atomic(ctx context.Context, fn func(*Store) error) error {
	return s.WithTx(ctx, func(st finance.Store) error {
		return fn(st.(*Store))
	})
}

// rebind rewrites ? placeholders for the store's dialect.
func (s *Store) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.q.ExecContext(ctx, s.rebind(query), args...)
}

func (s *Store) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.q.QueryContext(ctx, s.rebind(query), args...)
}

func (s *Store) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.q.QueryRowContext(ctx, s.rebind(query), args...)
}

// =============================================================================
// PAYEES
// =============================================================================

func (s *Store) SavePayee(ctx context.Context, p finance.Payee) error {
	_, err := s.exec(ctx, `
		INSERT INTO payees (id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			updated_at = excluded.updated_at
	`, p.ID, p.Name, formatTimestamp(p.CreatedAt), formatTimestamp(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to save payee: %w", err)
	}
	return nil
}

func (s *Store) GetPayee(ctx context.Context, id string) (*finance.Payee, error) {
	var (
		p                finance.Payee
		created, updated string
	)
	err := s.queryRow(ctx, `
		SELECT id, name, created_at, updated_at FROM payees WHERE id = ?
	`, id).Scan(&p.ID, &p.Name, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, finance.ErrPayeeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payee: %w", err)
	}
	p.CreatedAt = parseTimestamp(created)
	p.UpdatedAt = parseTimestamp(updated)
	return &p, nil
}

func (s *Store) ListPayees(ctx context.Context) ([]finance.Payee, error) {
	rows, err := s.query(ctx, `
		SELECT id, name, created_at, updated_at FROM payees ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list payees: %w", err)
	}
	defer rows.Close()

	var out []finance.Payee
	for rows.Next() {
		var (
			p                finance.Payee
			created, updated string
		)
		if err := rows.Scan(&p.ID, &p.Name, &created, &updated); err != nil {
			return nil, err
		}
		p.CreatedAt = parseTimestamp(created)
		p.UpdatedAt = parseTimestamp(updated)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) DeletePayee(ctx context.Context, id string) error {
	return s.atomic(ctx, func(st *Store) error {
		if _, err := st.GetPayee(ctx, id); err != nil {
			return err
		}
		stmts := []string{
			`DELETE FROM payments WHERE payee_account_id IN (SELECT id FROM payee_accounts WHERE payee_id = ?)`,
			`DELETE FROM accrual_runs WHERE payee_account_id IN (SELECT id FROM payee_accounts WHERE payee_id = ?)`,
			`DELETE FROM payee_accounts WHERE payee_id = ?`,
			`DELETE FROM payees WHERE id = ?`,
		}
		for _, q := range stmts {
			if _, err := st.exec(ctx, q, id); err != nil {
				return fmt.Errorf("failed to delete payee: %w", err)
			}
		}
		return nil
	})
}

// =============================================================================
// PAYEE ACCOUNTS
// =============================================================================

const payeeAccountColumns = `
	id, payee_id, account_label, account_number, category,
	interest_type, interest_rate, current_balance, principal_balance, accrued_interest,
	due_date, last_interest_calc, loan_term_months, promo_term_months,
	require_min_payment, min_payment_amount, created_at, updated_at`

func (s *Store) SavePayeeAccount(ctx context.Context, a finance.PayeeAccount) error {
	_, err := s.exec(ctx, `
		INSERT INTO payee_accounts (`+payeeAccountColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			payee_id = excluded.payee_id,
			account_label = excluded.account_label,
			account_number = excluded.account_number,
			category = excluded.category,
			interest_type = excluded.interest_type,
			interest_rate = excluded.interest_rate,
			current_balance = excluded.current_balance,
			principal_balance = excluded.principal_balance,
			accrued_interest = excluded.accrued_interest,
			due_date = excluded.due_date,
			last_interest_calc = excluded.last_interest_calc,
			loan_term_months = excluded.loan_term_months,
			promo_term_months = excluded.promo_term_months,
			require_min_payment = excluded.require_min_payment,
			min_payment_amount = excluded.min_payment_amount,
			updated_at = excluded.updated_at
	`,
		a.ID, a.PayeeID, a.Label, nullString(a.AccountNumber), a.Category,
		string(a.InterestType), a.InterestRate.String(),
		a.CurrentBalance.String(), a.PrincipalBalance.String(), a.AccruedInterest.String(),
		nullDate(a.DueDate), nullDate(a.LastInterestCalc),
		a.LoanTermMonths, a.PromoTermMonths, boolInt(a.RequireMinPayment), nullDecimal(a.MinPaymentAmount),
		formatTimestamp(a.CreatedAt), formatTimestamp(a.UpdatedAt),
	)
	if err != nil {
		if isForeignKeyError(err) {
			return fmt.Errorf("%w: %s", finance.ErrPayeeNotFound, a.PayeeID)
		}
		return fmt.Errorf("failed to save payee account: %w", err)
	}
	return nil
}

func (s *Store) GetPayeeAccount(ctx context.Context, id string) (*finance.PayeeAccount, error) {
	row := s.queryRow(ctx, `SELECT `+payeeAccountColumns+` FROM payee_accounts WHERE id = ?`, id)
	a, err := scanPayeeAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, finance.ErrPayeeAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payee account: %w", err)
	}
	return a, nil
}

func (s *Store) ListPayeeAccounts(ctx context.Context, payeeID string) ([]finance.PayeeAccount, error) {
	query := `SELECT ` + payeeAccountColumns + ` FROM payee_accounts`
	var args []any
	if payeeID != "" {
		query += ` WHERE payee_id = ?`
		args = append(args, payeeID)
	}
	query += ` ORDER BY account_label, id`
	return s.queryPayeeAccounts(ctx, query, args...)
}

func (s *Store) ListPayeeAccountsDue(ctx context.Context, from, to time.Time) ([]finance.PayeeAccount, error) {
	return s.queryPayeeAccounts(ctx, `
		SELECT `+payeeAccountColumns+` FROM payee_accounts
		WHERE due_date IS NOT NULL AND due_date >= ? AND due_date <= ?
		ORDER BY due_date, id
	`, formatDate(from), formatDate(to))
}

func (s *Store) DeletePayeeAccount(ctx context.Context, id string) error {
	return s.atomic(ctx, func(st *Store) error {
		if _, err := st.GetPayeeAccount(ctx, id); err != nil {
			return err
		}
		for _, q := range []string{
			`DELETE FROM payments WHERE payee_account_id = ?`,
			`DELETE FROM accrual_runs WHERE payee_account_id = ?`,
			`DELETE FROM payee_accounts WHERE id = ?`,
		} {
			if _, err := st.exec(ctx, q, id); err != nil {
				return fmt.Errorf("failed to delete payee account: %w", err)
			}
		}
		return nil
	})
}

func (s *Store) queryPayeeAccounts(ctx context.Context, query string, args ...any) ([]finance.PayeeAccount, error) {
	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payee accounts: %w", err)
	}
	defer rows.Close()

	var out []finance.PayeeAccount
	for rows.Next() {
		a, err := scanPayeeAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPayeeAccount(sc scanner) (*finance.PayeeAccount, error) {
	var (
		a                                      finance.PayeeAccount
		accountNumber, dueDate, lastCalc       sql.NullString
		minPayment                             sql.NullString
		interestType, rate, current, principal string
		accrued, created, updated              string
		requireMin                             int
	)
	err := sc.Scan(
		&a.ID, &a.PayeeID, &a.Label, &accountNumber, &a.Category,
		&interestType, &rate, &current, &principal, &accrued,
		&dueDate, &lastCalc, &a.LoanTermMonths, &a.PromoTermMonths,
		&requireMin, &minPayment, &created, &updated,
	)
	if err != nil {
		return nil, err
	}

	a.AccountNumber = accountNumber.String
	a.InterestType = finance.InterestType(interestType)
	a.InterestRate = parseDecimal(rate)
	a.CurrentBalance = parseDecimal(current)
	a.PrincipalBalance = parseDecimal(principal)
	a.AccruedInterest = parseDecimal(accrued)
	a.DueDate = parseNullDate(dueDate)
	a.LastInterestCalc = parseNullDate(lastCalc)
	a.RequireMinPayment = requireMin != 0
	if minPayment.Valid {
		a.MinPaymentAmount = decimal.NewNullDecimal(parseDecimal(minPayment.String))
	}
	a.CreatedAt = parseTimestamp(created)
	a.UpdatedAt = parseTimestamp(updated)
	return &a, nil
}

// =============================================================================
// BANK ACCOUNTS
// =============================================================================

func (s *Store) SaveAccount(ctx context.Context, a finance.Account) error {
	_, err := s.exec(ctx, `
		INSERT INTO accounts (id, type, nickname, balance, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			nickname = excluded.nickname,
			balance = excluded.balance
	`, a.ID, string(a.Type), a.Nickname, a.Balance.String(), formatTimestamp(a.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}
	return nil
}

func (s *Store) GetAccount(ctx context.Context, id string) (*finance.Account, error) {
	a, err := scanAccount(s.queryRow(ctx, `
		SELECT id, type, nickname, balance, created_at FROM accounts WHERE id = ?
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, finance.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return a, nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]finance.Account, error) {
	rows, err := s.query(ctx, `
		SELECT id, type, nickname, balance, created_at FROM accounts ORDER BY nickname, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var out []finance.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func scanAccount(sc scanner) (*finance.Account, error) {
	var (
		a                       finance.Account
		typ, balance, createdAt string
	)
	if err := sc.Scan(&a.ID, &typ, &a.Nickname, &balance, &createdAt); err != nil {
		return nil, err
	}
	a.Type = finance.AccountType(typ)
	a.Balance = parseDecimal(balance)
	a.CreatedAt = parseTimestamp(createdAt)
	return &a, nil
}

// =============================================================================
// LEDGER RECORDS
// =============================================================================

func (s *Store) SaveDeposit(ctx context.Context, d finance.Deposit) error {
	_, err := s.exec(ctx, `
		INSERT INTO deposits (id, account_id, source, amount, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, d.ID, d.AccountID, d.Source, d.Amount.String(), formatDate(d.Date), formatTimestamp(d.CreatedAt))
	if err != nil {
		if isForeignKeyError(err) {
			return fmt.Errorf("%w: %s", finance.ErrAccountNotFound, d.AccountID)
		}
		return fmt.Errorf("failed to save deposit: %w", err)
	}
	return nil
}

func (s *Store) ListDeposits(ctx context.Context, accountID string) ([]finance.Deposit, error) {
	query := `SELECT id, account_id, source, amount, date, created_at FROM deposits`
	var args []any
	if accountID != "" {
		query += ` WHERE account_id = ?`
		args = append(args, accountID)
	}
	query += ` ORDER BY date DESC, created_at DESC, id DESC`

	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list deposits: %w", err)
	}
	defer rows.Close()

	var out []finance.Deposit
	for rows.Next() {
		var (
			d                       finance.Deposit
			amount, date, createdAt string
		)
		if err := rows.Scan(&d.ID, &d.AccountID, &d.Source, &amount, &date, &createdAt); err != nil {
			return nil, err
		}
		d.Amount = parseDecimal(amount)
		d.Date = parseDate(date)
		d.CreatedAt = parseTimestamp(createdAt)
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) SaveTransfer(ctx context.Context, t finance.Transfer) error {
	_, err := s.exec(ctx, `
		INSERT INTO transfers (id, from_account_id, to_account_id, amount, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, t.ID, t.FromAccountID, t.ToAccountID, t.Amount.String(), formatDate(t.Date), formatTimestamp(t.CreatedAt))
	if err != nil {
		if isForeignKeyError(err) {
			return finance.ErrAccountNotFound
		}
		return fmt.Errorf("failed to save transfer: %w", err)
	}
	return nil
}

func (s *Store) ListTransfers(ctx context.Context, accountID string) ([]finance.Transfer, error) {
	query := `SELECT id, from_account_id, to_account_id, amount, date, created_at FROM transfers`
	var args []any
	if accountID != "" {
		query += ` WHERE from_account_id = ? OR to_account_id = ?`
		args = append(args, accountID, accountID)
	}
	query += ` ORDER BY date DESC, created_at DESC, id DESC`

	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}
	defer rows.Close()

	var out []finance.Transfer
	for rows.Next() {
		var (
			t                       finance.Transfer
			amount, date, createdAt string
		)
		if err := rows.Scan(&t.ID, &t.FromAccountID, &t.ToAccountID, &amount, &date, &createdAt); err != nil {
			return nil, err
		}
		t.Amount = parseDecimal(amount)
		t.Date = parseDate(date)
		t.CreatedAt = parseTimestamp(createdAt)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) SavePayment(ctx context.Context, p finance.Payment) error {
	_, err := s.exec(ctx, `
		INSERT INTO payments (id, checking_account_id, payee_account_id, amount, date,
			to_interest, to_principal, unapplied, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.CheckingAccountID, p.PayeeAccountID, p.Amount.String(), formatDate(p.Date),
		p.ToInterest.String(), p.ToPrincipal.String(), p.Unapplied.String(), formatTimestamp(p.CreatedAt))
	if err != nil {
		if isForeignKeyError(err) {
			return fmt.Errorf("%w: %s", finance.ErrPayeeAccountNotFound, p.PayeeAccountID)
		}
		return fmt.Errorf("failed to save payment: %w", err)
	}
	return nil
}

func (s *Store) ListPayments(ctx context.Context, f finance.PaymentFilter) ([]finance.Payment, error) {
	query := `SELECT id, checking_account_id, payee_account_id, amount, date,
		to_interest, to_principal, unapplied, created_at FROM payments`
	var (
		where []string
		args  []any
	)
	if f.PayeeAccountID != "" {
		where = append(where, `payee_account_id = ?`)
		args = append(args, f.PayeeAccountID)
	}
	if f.From != nil {
		where = append(where, `date >= ?`)
		args = append(args, formatDate(*f.From))
	}
	if f.To != nil {
		where = append(where, `date <= ?`)
		args = append(args, formatDate(*f.To))
	}
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY date DESC, created_at DESC, id DESC`

	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var out []finance.Payment
	for rows.Next() {
		var (
			p                                       finance.Payment
			amount, date, toInt, toPrin, unapplied string
			createdAt                               string
		)
		if err := rows.Scan(&p.ID, &p.CheckingAccountID, &p.PayeeAccountID, &amount, &date,
			&toInt, &toPrin, &unapplied, &createdAt); err != nil {
			return nil, err
		}
		p.Amount = parseDecimal(amount)
		p.Date = parseDate(date)
		p.ToInterest = parseDecimal(toInt)
		p.ToPrincipal = parseDecimal(toPrin)
		p.Unapplied = parseDecimal(unapplied)
		p.CreatedAt = parseTimestamp(createdAt)
		out = append(out, p)
	}
	return out, rows.Err()
}

// =============================================================================
// ACCRUAL RUNS
// =============================================================================

func (s *Store) SaveAccrualRun(ctx context.Context, r finance.AccrualRun) error {
	_, err := s.exec(ctx, `
		INSERT INTO accrual_runs (id, payee_account_id, period, as_of, interest_type,
			interest, balance_after, status, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.PayeeAccountID, r.Period.String(), formatDate(r.AsOf), string(r.InterestType),
		r.Interest.String(), r.BalanceAfter.String(), string(r.Status), nullString(r.Error),
		formatTimestamp(r.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to save accrual run: %w", err)
	}
	return nil
}

func (s *Store) ListAccrualRuns(ctx context.Context, payeeAccountID string, limit int) ([]finance.AccrualRun, error) {
	query := `SELECT id, payee_account_id, period, as_of, interest_type,
		interest, balance_after, status, error, created_at FROM accrual_runs`
	var args []any
	if payeeAccountID != "" {
		query += ` WHERE payee_account_id = ?`
		args = append(args, payeeAccountID)
	}
	query += ` ORDER BY as_of DESC, created_at DESC, id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list accrual runs: %w", err)
	}
	defer rows.Close()

	var out []finance.AccrualRun
	for rows.Next() {
		var (
			r                                  finance.AccrualRun
			period, asOf, interestType, status string
			interest, balanceAfter, createdAt  string
			errMsg                             sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.PayeeAccountID, &period, &asOf, &interestType,
			&interest, &balanceAfter, &status, &errMsg, &createdAt); err != nil {
			return nil, err
		}
		r.Period, _ = finance.ParsePeriod(period)
		r.AsOf = parseDate(asOf)
		r.InterestType = finance.InterestType(interestType)
		r.Interest = parseDecimal(interest)
		r.BalanceAfter = parseDecimal(balanceAfter)
		r.Status = finance.RunStatus(status)
		r.Error = errMsg.String
		r.CreatedAt = parseTimestamp(createdAt)
		out = append(out, r)
	}
	return out, rows.Err()
}
