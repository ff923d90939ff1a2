package finance

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// PAYMENT ALLOCATOR - Applies money received to a payee account
// =============================================================================

// Allocation reports how a payment was split. For interest-bearing variants
// ToInterest is always filled before ToPrincipal. Unapplied is the overpayment
// that exceeded what was owed; it is dropped, not carried as credit.
type Allocation struct {
	ToInterest  decimal.Decimal
	ToPrincipal decimal.Decimal
	Unapplied   decimal.Decimal
}

// ApplyPayment applies amount to a and returns the split.
//
// a must already be loaded; existence checks belong to the caller. Negative
// amounts are rejected with ErrNegativePayment. A zero amount is accepted and
// changes nothing.
func ApplyPayment(a *PayeeAccount, amount decimal.Decimal) (Allocation, error) {
	if amount.IsNegative() {
		return Allocation{}, ErrNegativePayment
	}
	r, err := ruleFor(a.InterestType)
	if err != nil {
		return Allocation{}, err
	}
	return r.pay(a, round2(amount)), nil
}
