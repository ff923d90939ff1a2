/*
interest.go - Interest types and the per-variant balance rules

PURPOSE:
  InterestType is a closed set. Each value has exactly one rule
  implementation, selected by an exhaustive switch in ruleFor(). A value
  outside the set is an error everywhere, never a silent no-op.

VARIANTS:
  none      No interest. Payments reduce the current balance.
  pif       Pay-in-full. Each accrual period resets the account to zero.
  compound  Interest posts on the whole current balance (credit cards).
  loan      Interest posts on principal only (amortizing loans).

SOURCE OF TRUTH:
  loan      principal + accrued are stored, current is derived
  others    current + accrued are stored, principal is derived (floored at 0)

SEE ALSO:
  - accrual.go: Accrue() drives rule.accrue
  - payment.go: ApplyPayment() drives rule.pay
*/
package finance

import (
	"strings"

	"github.com/shopspring/decimal"
)

// InterestType selects how a payee account accrues interest and absorbs payments.
type InterestType string

const (
	InterestNone     InterestType = "none"
	InterestPIF      InterestType = "pif"
	InterestCompound InterestType = "compound"
	InterestLoan     InterestType = "loan"
)

// InterestTypes lists every supported variant.
var InterestTypes = []InterestType{InterestNone, InterestPIF, InterestCompound, InterestLoan}

// ParseInterestType normalizes s and rejects anything outside the closed set.
// An empty string means InterestNone.
func ParseInterestType(s string) (InterestType, error) {
	t := InterestType(strings.ToLower(strings.TrimSpace(s)))
	if t == "" {
		return InterestNone, nil
	}
	if _, err := ruleFor(t); err != nil {
		return "", err
	}
	return t, nil
}

// Valid reports whether t is one of the supported variants.
func (t InterestType) Valid() bool {
	_, err := ruleFor(t)
	return err == nil
}

func (t InterestType) String() string { return string(t) }

var twelve = decimal.NewFromInt(12)

// monthlyRate converts an annual nominal rate to a monthly one.
func monthlyRate(annual decimal.Decimal) decimal.Decimal {
	return annual.Div(twelve)
}

// =============================================================================
// RULES
// =============================================================================

// rule is the behavior of one interest type.
type rule interface {
	// accrue posts one period of interest and returns the amount posted.
	accrue(a *PayeeAccount) decimal.Decimal

	// pay absorbs a non-negative, cent-rounded amount.
	pay(a *PayeeAccount, amount decimal.Decimal) Allocation

	// derive recomputes the derived balance field from the stored ones.
	derive(a *PayeeAccount)
}

func ruleFor(t InterestType) (rule, error) {
	switch t {
	case InterestNone:
		return noneRule{}, nil
	case InterestPIF:
		return pifRule{}, nil
	case InterestCompound:
		return compoundRule{}, nil
	case InterestLoan:
		return loanRule{}, nil
	default:
		return nil, &UnknownInterestTypeError{Value: string(t)}
	}
}

// deriveFromCurrent is the derivation shared by every non-loan variant.
func deriveFromCurrent(a *PayeeAccount) {
	a.PrincipalBalance = floor0(round2(a.CurrentBalance.Sub(a.AccruedInterest)))
}

// payCurrent reduces the current balance, dropping any excess.
func payCurrent(a *PayeeAccount, amount decimal.Decimal) Allocation {
	paid := minDec(amount, a.CurrentBalance)
	a.CurrentBalance = floor0(round2(a.CurrentBalance.Sub(paid)))
	deriveFromCurrent(a)
	return Allocation{
		ToPrincipal: paid,
		Unapplied:   round2(amount.Sub(paid)),
	}
}

// -----------------------------------------------------------------------------
// none
// -----------------------------------------------------------------------------

type noneRule struct{}

func (noneRule) accrue(*PayeeAccount) decimal.Decimal { return decimal.Zero }

func (noneRule) pay(a *PayeeAccount, amount decimal.Decimal) Allocation {
	return payCurrent(a, amount)
}

func (noneRule) derive(a *PayeeAccount) { deriveFromCurrent(a) }

// -----------------------------------------------------------------------------
// pif
// -----------------------------------------------------------------------------

// pifRule models a statement cycle that is always paid in full, so no
// interest is ever owed and each period starts from zero.
type pifRule struct{}

func (pifRule) accrue(a *PayeeAccount) decimal.Decimal {
	a.CurrentBalance = decimal.Zero
	a.PrincipalBalance = decimal.Zero
	a.AccruedInterest = decimal.Zero
	return decimal.Zero
}

func (pifRule) pay(a *PayeeAccount, amount decimal.Decimal) Allocation {
	return payCurrent(a, amount)
}

func (pifRule) derive(a *PayeeAccount) { deriveFromCurrent(a) }

// -----------------------------------------------------------------------------
// compound
// -----------------------------------------------------------------------------

type compoundRule struct{}

func (compoundRule) accrue(a *PayeeAccount) decimal.Decimal {
	if !a.CurrentBalance.IsPositive() {
		return decimal.Zero
	}
	interest := round2(a.CurrentBalance.Mul(monthlyRate(a.InterestRate)))
	a.CurrentBalance = round2(a.CurrentBalance.Add(interest))
	a.AccruedInterest = round2(a.AccruedInterest.Add(interest))
	deriveFromCurrent(a)
	return interest
}

// pay settles accrued interest first. The whole payment comes off the
// current balance, which already includes that interest, so the interest
// share never exceeds what the balance absorbed.
func (compoundRule) pay(a *PayeeAccount, amount decimal.Decimal) Allocation {
	paid := minDec(amount, a.CurrentBalance)
	toInterest := minDec(paid, a.AccruedInterest)

	a.AccruedInterest = round2(a.AccruedInterest.Sub(toInterest))
	a.CurrentBalance = floor0(round2(a.CurrentBalance.Sub(paid)))
	if a.CurrentBalance.IsZero() {
		a.AccruedInterest = decimal.Zero
	}
	deriveFromCurrent(a)

	return Allocation{
		ToInterest:  toInterest,
		ToPrincipal: floor0(round2(paid.Sub(toInterest))),
		Unapplied:   round2(amount.Sub(paid)),
	}
}

func (compoundRule) derive(a *PayeeAccount) { deriveFromCurrent(a) }

// -----------------------------------------------------------------------------
// loan
// -----------------------------------------------------------------------------

type loanRule struct{}

func (loanRule) accrue(a *PayeeAccount) decimal.Decimal {
	if !a.PrincipalBalance.IsPositive() {
		return decimal.Zero
	}
	interest := round2(a.PrincipalBalance.Mul(monthlyRate(a.InterestRate)))
	a.AccruedInterest = round2(a.AccruedInterest.Add(interest))
	loanRule{}.derive(a)
	return interest
}

func (loanRule) pay(a *PayeeAccount, amount decimal.Decimal) Allocation {
	toInterest := minDec(amount, a.AccruedInterest)
	a.AccruedInterest = round2(a.AccruedInterest.Sub(toInterest))

	remainder := amount.Sub(toInterest)
	toPrincipal := minDec(remainder, a.PrincipalBalance)
	a.PrincipalBalance = round2(a.PrincipalBalance.Sub(toPrincipal))
	loanRule{}.derive(a)

	return Allocation{
		ToInterest:  toInterest,
		ToPrincipal: toPrincipal,
		Unapplied:   round2(remainder.Sub(toPrincipal)),
	}
}

func (loanRule) derive(a *PayeeAccount) {
	a.CurrentBalance = round2(a.PrincipalBalance.Add(a.AccruedInterest))
}
