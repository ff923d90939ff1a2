package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ACCRUAL ENGINE - Advances a payee account by one period
// =============================================================================

// Accrual is the outcome of one Accrue call.
type Accrual struct {
	Period   Period
	Skipped  bool            // already accrued in Period; nothing changed
	Interest decimal.Decimal // interest posted (zero for none/pif)
	Reset    bool            // pif account was reset to zero
}

// Accrue posts one period of interest on a, as of the given date.
//
// The call is a no-op (Skipped) when a.LastInterestCalc already falls in the
// same calendar month as asOf, so running it any number of times within a
// month is safe. Otherwise the interest rule for a.InterestType runs and
// a.LastInterestCalc is stamped with asOf, whether or not a balance moved.
//
// Accrue mutates a in place and never touches storage.
func Accrue(a *PayeeAccount, asOf time.Time) (Accrual, error) {
	asOf = DateOf(asOf)
	result := Accrual{Period: PeriodOf(asOf), Interest: decimal.Zero}

	r, err := ruleFor(a.InterestType)
	if err != nil {
		return result, err
	}

	if AccruedIn(a, result.Period) {
		result.Skipped = true
		return result, nil
	}

	result.Interest = r.accrue(a)
	result.Reset = a.InterestType == InterestPIF
	a.LastInterestCalc = &asOf
	return result, nil
}

// AccruedIn reports whether a has already been accrued for period p.
func AccruedIn(a *PayeeAccount, p Period) bool {
	return a.LastInterestCalc != nil && PeriodOf(*a.LastInterestCalc) == p
}
