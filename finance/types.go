/*
types.go - Domain entities for the payee balance engine

PURPOSE:
  Plain data carriers for everything the engine and its collaborators
  persist: payees, payee accounts, bank accounts, deposits, transfers,
  payments and accrual runs.

MONEY:
  All monetary values are decimal.Decimal. Every value that gets persisted
  is rounded to cents with round2() right after the step that produced it,
  so rounding drift never accumulates across periods.

DATES:
  Calendar dates (due dates, accrual stamps, payment dates) are time.Time
  values at midnight UTC. Use Date() to build them.

SEE ALSO:
  - interest.go: InterestType and per-variant rules
  - accrual.go: Accrue()
  - payment.go: ApplyPayment()
  - amortization.go: Amortize(), Recommend()
*/
package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PAYEES
// =============================================================================

// Payee is an external creditor (bank, card issuer, lender).
type Payee struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CategoryCreditCard is the payee-account category that unlocks the
// promo-payoff and pay-in-full recommendations.
const CategoryCreditCard = "credit card"

// PayeeAccount is one obligation held with a payee: a card, a loan, a mortgage.
//
// Which balance fields are authoritative depends on InterestType:
//   - loan:       PrincipalBalance and AccruedInterest; CurrentBalance is derived
//   - all others: CurrentBalance and AccruedInterest; PrincipalBalance is derived
//
// See PayeeAccount.derive().
type PayeeAccount struct {
	ID            string
	PayeeID       string
	Label         string
	AccountNumber string
	Category      string

	InterestType InterestType
	InterestRate decimal.Decimal // annual nominal rate, 0.18 = 18%

	CurrentBalance   decimal.Decimal
	PrincipalBalance decimal.Decimal
	AccruedInterest  decimal.Decimal

	DueDate          *time.Time
	LastInterestCalc *time.Time

	LoanTermMonths    int // 0 = no term
	PromoTermMonths   int // 0 = no promo
	RequireMinPayment bool
	MinPaymentAmount  decimal.NullDecimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsCreditCard reports whether the account is in the credit card category.
func (a *PayeeAccount) IsCreditCard() bool {
	return a.Category == CategoryCreditCard
}

// =============================================================================
// BANK ACCOUNTS
// =============================================================================

// AccountType distinguishes the user's own bank accounts.
type AccountType string

const (
	AccountChecking AccountType = "checking"
	AccountSavings  AccountType = "savings"
)

// Valid reports whether the account type is known.
func (t AccountType) Valid() bool {
	return t == AccountChecking || t == AccountSavings
}

// Account is one of the user's own bank accounts.
type Account struct {
	ID        string
	Type      AccountType
	Nickname  string
	Balance   decimal.Decimal
	CreatedAt time.Time
}

// Deposit is money arriving into an Account from an outside source.
type Deposit struct {
	ID        string
	AccountID string
	Source    string // e.g. "Employer A"
	Amount    decimal.Decimal
	Date      time.Time
	CreatedAt time.Time
}

// Transfer moves money between two of the user's own accounts.
type Transfer struct {
	ID            string
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
	Date          time.Time
	CreatedAt     time.Time
}

// Payment is the ledger record of money sent to a payee account.
// ToInterest, ToPrincipal and Unapplied record how ApplyPayment split it.
type Payment struct {
	ID                string
	CheckingAccountID string
	PayeeAccountID    string
	Amount            decimal.Decimal
	Date              time.Time

	ToInterest  decimal.Decimal
	ToPrincipal decimal.Decimal
	Unapplied   decimal.Decimal

	CreatedAt time.Time
}

// PaymentFilter narrows ListPayments. Zero values mean "no filter".
type PaymentFilter struct {
	PayeeAccountID string
	From           *time.Time
	To             *time.Time
}

// =============================================================================
// ACCRUAL RUNS - Audit trail of batch accrual
// =============================================================================

type RunStatus string

const (
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// AccrualRun records what happened to one payee account during one batch run.
type AccrualRun struct {
	ID             string
	PayeeAccountID string
	Period         Period
	AsOf           time.Time
	InterestType   InterestType
	Interest       decimal.Decimal
	BalanceAfter   decimal.Decimal
	Status         RunStatus
	Error          string
	CreatedAt      time.Time
}

// =============================================================================
// HELPERS
// =============================================================================

// round2 rounds to cents.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// floor0 clamps negative values to zero.
func floor0(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// minDec returns the smaller of a and b.
func minDec(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Date returns midnight UTC for the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOf truncates t to its calendar day in UTC.
func DateOf(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// Today returns the current calendar day in UTC.
func Today() time.Time {
	return DateOf(time.Now())
}

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOf(t), nil
}
