package finance

import (
	"strings"
)

// Validate checks a payee account before it is stored.
func (a *PayeeAccount) Validate() error {
	if strings.TrimSpace(a.PayeeID) == "" {
		return invalid("payee_id", "is required")
	}
	if strings.TrimSpace(a.Label) == "" {
		return invalid("account_label", "is required")
	}
	if strings.TrimSpace(a.Category) == "" {
		return invalid("category", "is required")
	}
	if _, err := ruleFor(a.InterestType); err != nil {
		return err
	}
	if a.InterestRate.IsNegative() {
		return invalid("interest_rate", "must not be negative")
	}
	if a.CurrentBalance.IsNegative() || a.PrincipalBalance.IsNegative() || a.AccruedInterest.IsNegative() {
		return invalid("balance", "must not be negative")
	}
	if a.InterestType != InterestLoan && a.AccruedInterest.GreaterThan(a.CurrentBalance) {
		return invalid("accrued_interest", "must not exceed current_balance")
	}
	if a.LoanTermMonths < 0 {
		return invalid("loan_term_months", "must not be negative")
	}
	if a.PromoTermMonths < 0 {
		return invalid("promo_term_months", "must not be negative")
	}
	if a.MinPaymentAmount.Valid && a.MinPaymentAmount.Decimal.IsNegative() {
		return invalid("min_payment_amount", "must not be negative")
	}
	return nil
}

// Normalize rounds every balance to cents and recomputes the derived
// balance field for the account's interest type. Call it after Validate
// whenever balances are set from outside the engine.
func (a *PayeeAccount) Normalize() error {
	r, err := ruleFor(a.InterestType)
	if err != nil {
		return err
	}
	a.Category = strings.ToLower(strings.TrimSpace(a.Category))
	a.CurrentBalance = round2(a.CurrentBalance)
	a.PrincipalBalance = round2(a.PrincipalBalance)
	a.AccruedInterest = round2(a.AccruedInterest)
	if a.MinPaymentAmount.Valid {
		a.MinPaymentAmount.Decimal = round2(a.MinPaymentAmount.Decimal)
	}
	r.derive(a)
	return nil
}

// Validate checks a payee before it is stored.
func (p *Payee) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return invalid("name", "is required")
	}
	return nil
}

// Validate checks a bank account before it is stored.
func (a *Account) Validate() error {
	if !a.Type.Valid() {
		return invalid("type", "must be checking or savings, got %q", a.Type)
	}
	if strings.TrimSpace(a.Nickname) == "" {
		return invalid("nickname", "is required")
	}
	if a.Balance.IsNegative() {
		return invalid("balance", "must not be negative")
	}
	return nil
}
