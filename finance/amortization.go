/*
amortization.go - Level-payment schedules and recommended payments

PURPOSE:
  Amortize() computes the level monthly payment for a balance, rate and
  term, plus the month-by-month split of that payment into interest and
  principal. Recommend() picks a suggested payment for a payee account.

  Both are pure: no storage, no clock, safe for concurrent use.

FORMULA:
  r       = annual_rate / 12
  payment = B * r(1+r)^n / ((1+r)^n - 1)     when r > 0 and n > 0
          = B / n                            when r = 0 and n > 0
          = B                                when n = 0

  (1+r)^n is computed in float64; everything else stays in decimal.
  The schedule runs on the unrounded payment and rounds each emitted
  value to cents, flooring the remaining balance at zero.

SEE ALSO:
  - api/handlers.go: /payee-accounts/{id}/amortization, /recommended-payment
*/
package finance

import (
	"math"

	"github.com/shopspring/decimal"
)

// =============================================================================
// AMORTIZATION
// =============================================================================

// Installment is one month of an amortization schedule.
type Installment struct {
	Month     int
	Payment   decimal.Decimal
	Principal decimal.Decimal
	Interest  decimal.Decimal
	Remaining decimal.Decimal
}

// Amortization is a level payment and its schedule.
type Amortization struct {
	Payment       decimal.Decimal // rounded to cents
	TotalInterest decimal.Decimal // sum of the rounded schedule interest
	Schedule      []Installment
}

// Amortize computes the level payment and schedule for balance over termMonths.
func Amortize(balance, annualRate decimal.Decimal, termMonths int) (Amortization, error) {
	if termMonths < 0 {
		return Amortization{}, ErrInvalidTerm
	}
	if balance.IsNegative() {
		return Amortization{}, invalid("balance", "must not be negative")
	}
	if annualRate.IsNegative() {
		return Amortization{}, invalid("interest_rate", "must not be negative")
	}

	r := monthlyRate(annualRate)
	payment := levelPayment(balance, r, termMonths)

	result := Amortization{
		Payment:       round2(payment),
		TotalInterest: decimal.Zero,
		Schedule:      make([]Installment, 0, termMonths),
	}

	remaining := balance
	for m := 1; m <= termMonths; m++ {
		interest := remaining.Mul(r)
		principal := payment.Sub(interest)
		remaining = remaining.Sub(principal)

		inst := Installment{
			Month:     m,
			Payment:   round2(payment),
			Principal: round2(principal),
			Interest:  round2(interest),
			Remaining: round2(floor0(remaining)),
		}
		result.TotalInterest = result.TotalInterest.Add(inst.Interest)
		result.Schedule = append(result.Schedule, inst)
	}
	return result, nil
}

func levelPayment(balance, r decimal.Decimal, n int) decimal.Decimal {
	switch {
	case n == 0:
		return balance
	case !r.IsPositive():
		return balance.Div(decimal.NewFromInt(int64(n)))
	}
	rf := r.InexactFloat64()
	factor := math.Pow(1+rf, float64(n))
	return balance.Mul(decimal.NewFromFloat(rf * factor / (factor - 1)))
}

// ScheduleFor amortizes the account's current balance over its loan term.
// Accounts without a loan term get ErrInvalidTerm.
func ScheduleFor(a *PayeeAccount) (Amortization, error) {
	if a.LoanTermMonths <= 0 {
		return Amortization{}, ErrInvalidTerm
	}
	return Amortize(a.CurrentBalance, a.InterestRate, a.LoanTermMonths)
}

// =============================================================================
// RECOMMENDED PAYMENT
// =============================================================================

// RecommendationBasis names the rule that produced a recommendation.
type RecommendationBasis string

const (
	BasisAmortizedLoan RecommendationBasis = "amortized_loan"
	BasisPromoPayoff   RecommendationBasis = "promo_payoff"
	BasisPromoMinimum  RecommendationBasis = "promo_minimum"
	BasisPayInFull     RecommendationBasis = "pay_in_full"

	// BasisUnspecified means no rule covers the account (for example a
	// compound account outside the credit card category). The amount is zero.
	BasisUnspecified RecommendationBasis = "unspecified"
)

// Recommendation is a suggested monthly payment.
type Recommendation struct {
	Amount decimal.Decimal
	Basis  RecommendationBasis
}

// Recommend suggests a payment for a:
//   - loan with a term:          the level payment over that term
//   - credit card with promo:    balance spread over the promo months,
//     raised to the minimum payment when one is required
//   - credit card without promo: the full current balance
//   - anything else:             zero, BasisUnspecified
func Recommend(a *PayeeAccount) (Recommendation, error) {
	if _, err := ruleFor(a.InterestType); err != nil {
		return Recommendation{}, err
	}

	if a.InterestType == InterestLoan && a.LoanTermMonths > 0 {
		am, err := Amortize(a.CurrentBalance, a.InterestRate, a.LoanTermMonths)
		if err != nil {
			return Recommendation{}, err
		}
		return Recommendation{Amount: am.Payment, Basis: BasisAmortizedLoan}, nil
	}

	if a.IsCreditCard() {
		if a.PromoTermMonths > 0 {
			promo := a.CurrentBalance.Div(decimal.NewFromInt(int64(a.PromoTermMonths)))
			if a.RequireMinPayment && a.MinPaymentAmount.Valid && a.MinPaymentAmount.Decimal.IsPositive() {
				if a.MinPaymentAmount.Decimal.GreaterThan(promo) {
					return Recommendation{Amount: round2(a.MinPaymentAmount.Decimal), Basis: BasisPromoMinimum}, nil
				}
			}
			return Recommendation{Amount: round2(promo), Basis: BasisPromoPayoff}, nil
		}
		return Recommendation{Amount: round2(a.CurrentBalance), Basis: BasisPayInFull}, nil
	}

	return Recommendation{Amount: decimal.Zero, Basis: BasisUnspecified}, nil
}
