package finance_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/finance-engine/finance"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, d(want).Equal(got), "want %s, got %s %v", want, got.String(), msgAndArgs)
}

func compoundCard(balance string) *finance.PayeeAccount {
	return &finance.PayeeAccount{
		ID:             "card-1",
		PayeeID:        "payee-1",
		Label:          "Visa",
		Category:       finance.CategoryCreditCard,
		InterestType:   finance.InterestCompound,
		InterestRate:   d("0.12"),
		CurrentBalance: d(balance),
	}
}

func loan(principal, rate string) *finance.PayeeAccount {
	a := &finance.PayeeAccount{
		ID:               "loan-1",
		PayeeID:          "payee-1",
		Label:            "Car loan",
		Category:         "loan",
		InterestType:     finance.InterestLoan,
		InterestRate:     d(rate),
		PrincipalBalance: d(principal),
	}
	if err := a.Normalize(); err != nil {
		panic(err)
	}
	return a
}

func assertInvariants(t *testing.T, a *finance.PayeeAccount) {
	t.Helper()
	assert.False(t, a.CurrentBalance.IsNegative(), "current_balance negative: %s", a.CurrentBalance)
	assert.False(t, a.PrincipalBalance.IsNegative(), "principal_balance negative: %s", a.PrincipalBalance)
	assert.False(t, a.AccruedInterest.IsNegative(), "accrued_interest negative: %s", a.AccruedInterest)

	if a.InterestType == finance.InterestLoan {
		sum := a.PrincipalBalance.Add(a.AccruedInterest).Round(2)
		assert.True(t, a.CurrentBalance.Equal(sum), "loan identity: current %s != %s", a.CurrentBalance, sum)
	} else {
		want := a.CurrentBalance.Sub(a.AccruedInterest)
		if want.IsNegative() {
			want = decimal.Zero
		}
		assert.True(t, a.PrincipalBalance.Equal(want), "derived principal: %s != %s", a.PrincipalBalance, want)
	}
}

var (
	jan5  = finance.Date(2025, time.January, 5)
	jan28 = finance.Date(2025, time.January, 28)
	feb1  = finance.Date(2025, time.February, 1)
)

// =============================================================================
// ACCRUAL
// =============================================================================

func TestAccrue_Compound_PostsMonthlyInterest(t *testing.T) {
	// GIVEN: A card owing 1000 at 12% APR
	// WHEN: One accrual runs
	// THEN: 10.00 interest is posted and principal stays 1000
	a := compoundCard("1000")

	res, err := finance.Accrue(a, jan5)
	require.NoError(t, err)

	assert.False(t, res.Skipped)
	assertDec(t, "10.00", res.Interest)
	assertDec(t, "1010.00", a.CurrentBalance)
	assertDec(t, "10.00", a.AccruedInterest)
	assertDec(t, "1000.00", a.PrincipalBalance)
	require.NotNil(t, a.LastInterestCalc)
	assert.Equal(t, jan5, *a.LastInterestCalc)
	assertInvariants(t, a)
}

func TestAccrue_SameMonth_IsNoOp(t *testing.T) {
	a := compoundCard("1000")

	_, err := finance.Accrue(a, jan5)
	require.NoError(t, err)
	afterFirst := *a

	res, err := finance.Accrue(a, jan28)
	require.NoError(t, err)

	assert.True(t, res.Skipped)
	assertDec(t, "0", res.Interest)
	assert.Equal(t, afterFirst, *a, "second accrual in the same month must not change anything")
	assert.Equal(t, jan5, *a.LastInterestCalc, "stamp is left alone on skip")
}

func TestAccrue_NextMonth_CompoundsOnNewBalance(t *testing.T) {
	a := compoundCard("1000")

	_, err := finance.Accrue(a, jan5)
	require.NoError(t, err)
	res, err := finance.Accrue(a, feb1)
	require.NoError(t, err)

	assertDec(t, "10.10", res.Interest)
	assertDec(t, "1020.10", a.CurrentBalance)
	assertDec(t, "20.10", a.AccruedInterest)
	assertDec(t, "1000.00", a.PrincipalBalance)
	assertInvariants(t, a)
}

func TestAccrue_SameMonthDifferentYear_Accrues(t *testing.T) {
	a := compoundCard("1000")
	last := finance.Date(2024, time.January, 15)
	a.LastInterestCalc = &last

	res, err := finance.Accrue(a, jan5)
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assertDec(t, "10.00", res.Interest)
}

func TestAccrue_Compound_ZeroBalance_StampsOnly(t *testing.T) {
	a := compoundCard("0")

	res, err := finance.Accrue(a, jan5)
	require.NoError(t, err)

	assert.False(t, res.Skipped)
	assertDec(t, "0", res.Interest)
	assertDec(t, "0", a.CurrentBalance)
	require.NotNil(t, a.LastInterestCalc)
}

func TestAccrue_Compound_FloorsDerivedPrincipal(t *testing.T) {
	// GIVEN: Accrued interest larger than the current balance
	// THEN: Derived principal is floored at zero instead of going negative
	a := compoundCard("5")
	a.AccruedInterest = d("10")

	_, err := finance.Accrue(a, jan5)
	require.NoError(t, err)

	assertDec(t, "5.05", a.CurrentBalance)
	assertDec(t, "10.05", a.AccruedInterest)
	assertDec(t, "0", a.PrincipalBalance)
}

func TestAccrue_None_NoChangeButStamped(t *testing.T) {
	a := &finance.PayeeAccount{
		InterestType:   finance.InterestNone,
		InterestRate:   d("0.20"),
		CurrentBalance: d("300"),
	}
	require.NoError(t, a.Normalize())

	res, err := finance.Accrue(a, jan5)
	require.NoError(t, err)

	assertDec(t, "0", res.Interest)
	assertDec(t, "300", a.CurrentBalance)
	require.NotNil(t, a.LastInterestCalc, "none accounts are stamped too")
	assert.Equal(t, jan5, *a.LastInterestCalc)
}

func TestAccrue_PIF_ResetsToZero(t *testing.T) {
	a := &finance.PayeeAccount{
		InterestType:     finance.InterestPIF,
		CurrentBalance:   d("500"),
		PrincipalBalance: d("500"),
	}
	last := finance.Date(2024, time.December, 10)
	a.LastInterestCalc = &last

	res, err := finance.Accrue(a, jan5)
	require.NoError(t, err)

	assert.True(t, res.Reset)
	assertDec(t, "0", a.CurrentBalance)
	assertDec(t, "0", a.PrincipalBalance)
	assertDec(t, "0", a.AccruedInterest)
}

func TestAccrue_Loan_InterestOnPrincipalOnly(t *testing.T) {
	a := loan("10000", "0.06")

	res, err := finance.Accrue(a, jan5)
	require.NoError(t, err)

	assertDec(t, "50.00", res.Interest)
	assertDec(t, "10000", a.PrincipalBalance)
	assertDec(t, "50.00", a.AccruedInterest)
	assertDec(t, "10050.00", a.CurrentBalance)

	// Unpaid interest does not compound
	res, err = finance.Accrue(a, feb1)
	require.NoError(t, err)
	assertDec(t, "50.00", res.Interest)
	assertDec(t, "100.00", a.AccruedInterest)
	assertDec(t, "10100.00", a.CurrentBalance)
	assertInvariants(t, a)
}

func TestAccrue_Loan_ZeroPrincipal_NoInterest(t *testing.T) {
	a := loan("0", "0.06")

	res, err := finance.Accrue(a, jan5)
	require.NoError(t, err)
	assertDec(t, "0", res.Interest)
	assertDec(t, "0", a.CurrentBalance)
	require.NotNil(t, a.LastInterestCalc)
}

func TestAccrue_UnknownInterestType_Rejected(t *testing.T) {
	a := compoundCard("1000")
	a.InterestType = "fixed"

	_, err := finance.Accrue(a, jan5)

	require.Error(t, err)
	assert.ErrorIs(t, err, finance.ErrUnknownInterestType)
	var typeErr *finance.UnknownInterestTypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, "fixed", typeErr.Value)
	assert.Nil(t, a.LastInterestCalc, "account must be untouched")
	assertDec(t, "1000", a.CurrentBalance)
}

// =============================================================================
// PAYMENT ALLOCATION
// =============================================================================

func TestApplyPayment_Compound_InterestThenBalance(t *testing.T) {
	// GIVEN: The card from the accrual scenario (1010 owed, 10 of it interest)
	a := compoundCard("1000")
	_, err := finance.Accrue(a, jan5)
	require.NoError(t, err)

	// WHEN: 50 is paid
	alloc, err := finance.ApplyPayment(a, d("50"))
	require.NoError(t, err)

	// THEN: Interest is cleared first and the whole 50 comes off the balance
	assertDec(t, "10.00", alloc.ToInterest)
	assertDec(t, "40.00", alloc.ToPrincipal)
	assertDec(t, "0", alloc.Unapplied)
	assertDec(t, "0", a.AccruedInterest)
	assertDec(t, "960.00", a.CurrentBalance)
	assertDec(t, "960.00", a.PrincipalBalance)
	assertInvariants(t, a)
}

func TestApplyPayment_InterestBeforePrincipal(t *testing.T) {
	// GIVEN: accrued interest I > 0 and a payment smaller than I
	// THEN: only interest moves; principal is unchanged
	for _, tc := range []struct {
		name string
		acct func() *finance.PayeeAccount
	}{
		{"compound", func() *finance.PayeeAccount {
			a := compoundCard("1000")
			_, _ = finance.Accrue(a, jan5)
			return a
		}},
		{"loan", func() *finance.PayeeAccount {
			a := loan("10000", "0.06")
			_, _ = finance.Accrue(a, jan5)
			return a
		}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			a := tc.acct()
			interest := a.AccruedInterest
			principal := a.PrincipalBalance

			alloc, err := finance.ApplyPayment(a, d("4"))
			require.NoError(t, err)

			assert.True(t, a.AccruedInterest.Equal(interest.Sub(d("4"))), "accrued %s", a.AccruedInterest)
			assert.True(t, a.PrincipalBalance.Equal(principal), "principal %s", a.PrincipalBalance)
			assertDec(t, "4", alloc.ToInterest)
			assertDec(t, "0", alloc.ToPrincipal)
			assertInvariants(t, a)
		})
	}
}

func TestApplyPayment_Loan_SplitsAcrossInterestAndPrincipal(t *testing.T) {
	a := loan("10000", "0.06")
	_, err := finance.Accrue(a, jan5)
	require.NoError(t, err)

	alloc, err := finance.ApplyPayment(a, d("1000"))
	require.NoError(t, err)

	assertDec(t, "50.00", alloc.ToInterest)
	assertDec(t, "950.00", alloc.ToPrincipal)
	assertDec(t, "0", a.AccruedInterest)
	assertDec(t, "9050.00", a.PrincipalBalance)
	assertDec(t, "9050.00", a.CurrentBalance)
	assertInvariants(t, a)
}

func TestApplyPayment_Overpayment_IsDropped(t *testing.T) {
	tests := []struct {
		name      string
		acct      *finance.PayeeAccount
		amount    string
		unapplied string
	}{
		{"none", &finance.PayeeAccount{InterestType: finance.InterestNone, CurrentBalance: d("40")}, "100", "60"},
		{"pif", &finance.PayeeAccount{InterestType: finance.InterestPIF, CurrentBalance: d("40")}, "41.50", "1.50"},
		{"compound", compoundCard("40"), "75", "35"},
		{"loan", loan("100", "0.10"), "150", "50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alloc, err := finance.ApplyPayment(tt.acct, d(tt.amount))
			require.NoError(t, err)

			assertDec(t, "0", tt.acct.CurrentBalance)
			assertDec(t, tt.unapplied, alloc.Unapplied)
			assertInvariants(t, tt.acct)
		})
	}
}

func TestApplyPayment_Negative_Rejected(t *testing.T) {
	a := compoundCard("100")

	_, err := finance.ApplyPayment(a, d("-10"))

	assert.ErrorIs(t, err, finance.ErrNegativePayment)
	assert.True(t, finance.IsClientError(err))
	assertDec(t, "100", a.CurrentBalance)
}

func TestApplyPayment_Zero_NoChange(t *testing.T) {
	a := loan("500", "0.05")

	alloc, err := finance.ApplyPayment(a, decimal.Zero)
	require.NoError(t, err)

	assertDec(t, "500", a.PrincipalBalance)
	assertDec(t, "500", a.CurrentBalance)
	assertDec(t, "0", a.AccruedInterest)
	assertDec(t, "0", alloc.ToInterest)
	assertDec(t, "0", alloc.ToPrincipal)
}

func TestApplyPayment_NonNegativity(t *testing.T) {
	amounts := []string{"0", "0.01", "3.33", "10", "999.99", "5000", "100000"}
	build := map[finance.InterestType]func() *finance.PayeeAccount{
		finance.InterestNone: func() *finance.PayeeAccount {
			return &finance.PayeeAccount{InterestType: finance.InterestNone, CurrentBalance: d("250")}
		},
		finance.InterestPIF: func() *finance.PayeeAccount {
			return &finance.PayeeAccount{InterestType: finance.InterestPIF, CurrentBalance: d("250")}
		},
		finance.InterestCompound: func() *finance.PayeeAccount { return compoundCard("2500") },
		finance.InterestLoan:     func() *finance.PayeeAccount { return loan("2500", "0.07") },
	}

	for it, mk := range build {
		for _, amt := range amounts {
			a := mk()
			_, err := finance.Accrue(a, jan5)
			require.NoError(t, err)
			alloc, err := finance.ApplyPayment(a, d(amt))
			require.NoError(t, err, "%s/%s", it, amt)
			assertInvariants(t, a)
			assertAllocationSums(t, alloc, amt)
			_, err = finance.Accrue(a, feb1)
			require.NoError(t, err)
			assertInvariants(t, a)
		}
	}
}

func assertAllocationSums(t *testing.T, alloc finance.Allocation, amount string) {
	t.Helper()
	sum := alloc.ToInterest.Add(alloc.ToPrincipal).Add(alloc.Unapplied)
	assert.Truef(t, sum.Equal(d(amount)), "allocation %+v sums to %s, paid %s", alloc, sum, amount)
}

func TestApplyPayment_InterestNeverExceedsPayment(t *testing.T) {
	// GIVEN: a compound account stored with more interest than balance
	a := compoundCard("5")
	a.AccruedInterest = d("10")

	// WHEN: 8 is paid
	alloc, err := finance.ApplyPayment(a, d("8"))
	require.NoError(t, err)

	// THEN: only the 5 the balance absorbed is split, the rest is unapplied
	assertDec(t, "5", alloc.ToInterest)
	assertDec(t, "0", alloc.ToPrincipal)
	assertDec(t, "3", alloc.Unapplied)
	assertAllocationSums(t, alloc, "8")
	assertDec(t, "0", a.CurrentBalance)
	assertDec(t, "0", a.AccruedInterest)
	assertInvariants(t, a)
}

func TestValidate_AccruedAboveCurrent_Rejected(t *testing.T) {
	for _, it := range []finance.InterestType{finance.InterestNone, finance.InterestPIF, finance.InterestCompound} {
		t.Run(string(it), func(t *testing.T) {
			a := compoundCard("5")
			a.InterestType = it
			a.AccruedInterest = d("10")

			err := a.Validate()

			var ve *finance.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "accrued_interest", ve.Field)
			assert.True(t, finance.IsClientError(err))
		})
	}

	// Loans derive current from principal + accrued, so any split is valid.
	l := loan("5", "0.05")
	l.AccruedInterest = d("10")
	assert.NoError(t, l.Validate())
}

// =============================================================================
// AMORTIZATION
// =============================================================================

func TestAmortize_Converges(t *testing.T) {
	am, err := finance.Amortize(d("1200"), d("0.12"), 12)
	require.NoError(t, err)

	assertDec(t, "106.62", am.Payment)
	require.Len(t, am.Schedule, 12)

	last := am.Schedule[11]
	assert.Equal(t, 12, last.Month)
	assertDec(t, "0", last.Remaining)

	total := decimal.Zero
	for _, inst := range am.Schedule {
		total = total.Add(inst.Principal)
	}
	assert.True(t, total.Sub(d("1200")).Abs().LessThanOrEqual(d("0.05")), "principal sums to %s", total)

	first := am.Schedule[0]
	assertDec(t, "12.00", first.Interest)
	assertDec(t, "94.62", first.Principal)
	assertDec(t, "1105.38", first.Remaining)
}

func TestAmortize_ZeroRate_EvenSplit(t *testing.T) {
	am, err := finance.Amortize(d("1200"), decimal.Zero, 12)
	require.NoError(t, err)

	assertDec(t, "100", am.Payment)
	assertDec(t, "0", am.TotalInterest)
	assertDec(t, "0", am.Schedule[11].Remaining)
}

func TestAmortize_ZeroTerm_SinglePayment(t *testing.T) {
	am, err := finance.Amortize(d("850.40"), d("0.10"), 0)
	require.NoError(t, err)

	assertDec(t, "850.40", am.Payment)
	assert.Empty(t, am.Schedule)
}

func TestAmortize_NegativeTerm_Rejected(t *testing.T) {
	_, err := finance.Amortize(d("100"), d("0.10"), -1)
	assert.ErrorIs(t, err, finance.ErrInvalidTerm)
}

func TestScheduleFor_RequiresLoanTerm(t *testing.T) {
	a := loan("5000", "0.05")

	_, err := finance.ScheduleFor(a)
	assert.ErrorIs(t, err, finance.ErrInvalidTerm)
	assert.True(t, finance.IsClientError(err))

	a.LoanTermMonths = 24
	am, err := finance.ScheduleFor(a)
	require.NoError(t, err)
	assert.Len(t, am.Schedule, 24)
}

// =============================================================================
// RECOMMENDED PAYMENT
// =============================================================================

func TestRecommend(t *testing.T) {
	minPay := func(s string) decimal.NullDecimal { return decimal.NewNullDecimal(d(s)) }

	tests := []struct {
		name   string
		acct   finance.PayeeAccount
		amount string
		basis  finance.RecommendationBasis
	}{
		{
			name: "loan with term",
			acct: finance.PayeeAccount{InterestType: finance.InterestLoan, InterestRate: d("0.12"),
				CurrentBalance: d("1200"), LoanTermMonths: 12},
			amount: "106.62", basis: finance.BasisAmortizedLoan,
		},
		{
			name: "card with promo",
			acct: finance.PayeeAccount{InterestType: finance.InterestCompound, Category: finance.CategoryCreditCard,
				CurrentBalance: d("1200"), PromoTermMonths: 12},
			amount: "100", basis: finance.BasisPromoPayoff,
		},
		{
			name: "card with promo below required minimum",
			acct: finance.PayeeAccount{InterestType: finance.InterestCompound, Category: finance.CategoryCreditCard,
				CurrentBalance: d("1200"), PromoTermMonths: 12, RequireMinPayment: true, MinPaymentAmount: minPay("150")},
			amount: "150", basis: finance.BasisPromoMinimum,
		},
		{
			name: "card with promo above required minimum",
			acct: finance.PayeeAccount{InterestType: finance.InterestCompound, Category: finance.CategoryCreditCard,
				CurrentBalance: d("1000"), PromoTermMonths: 3, RequireMinPayment: true, MinPaymentAmount: minPay("25")},
			amount: "333.33", basis: finance.BasisPromoPayoff,
		},
		{
			name: "minimum set but not required",
			acct: finance.PayeeAccount{InterestType: finance.InterestCompound, Category: finance.CategoryCreditCard,
				CurrentBalance: d("1200"), PromoTermMonths: 12, MinPaymentAmount: minPay("150")},
			amount: "100", basis: finance.BasisPromoPayoff,
		},
		{
			name: "card without promo pays in full",
			acct: finance.PayeeAccount{InterestType: finance.InterestPIF, Category: finance.CategoryCreditCard,
				CurrentBalance: d("432.10")},
			amount: "432.10", basis: finance.BasisPayInFull,
		},
		{
			name: "loan without term",
			acct: finance.PayeeAccount{InterestType: finance.InterestLoan, Category: "mortgage",
				CurrentBalance: d("250000")},
			amount: "0", basis: finance.BasisUnspecified,
		},
		{
			name: "compound outside credit card category",
			acct: finance.PayeeAccount{InterestType: finance.InterestCompound, Category: "store account",
				CurrentBalance: d("800")},
			amount: "0", basis: finance.BasisUnspecified,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := finance.Recommend(&tt.acct)
			require.NoError(t, err)
			assertDec(t, tt.amount, rec.Amount)
			assert.Equal(t, tt.basis, rec.Basis)
		})
	}
}

// =============================================================================
// TYPES
// =============================================================================

func TestParseInterestType(t *testing.T) {
	got, err := finance.ParseInterestType(" Loan ")
	require.NoError(t, err)
	assert.Equal(t, finance.InterestLoan, got)

	got, err = finance.ParseInterestType("")
	require.NoError(t, err)
	assert.Equal(t, finance.InterestNone, got)

	_, err = finance.ParseInterestType("simple")
	assert.ErrorIs(t, err, finance.ErrUnknownInterestType)
}

func TestNormalize_DerivesPerVariant(t *testing.T) {
	l := &finance.PayeeAccount{InterestType: finance.InterestLoan, PrincipalBalance: d("1000"), AccruedInterest: d("5.555")}
	require.NoError(t, l.Normalize())
	assertDec(t, "5.56", l.AccruedInterest)
	assertDec(t, "1005.56", l.CurrentBalance)

	c := &finance.PayeeAccount{InterestType: finance.InterestCompound, CurrentBalance: d("100"), AccruedInterest: d("10"),
		PrincipalBalance: d("42")}
	require.NoError(t, c.Normalize())
	assertDec(t, "90", c.PrincipalBalance)
}

func TestPeriod(t *testing.T) {
	p := finance.PeriodOf(finance.Date(2024, time.February, 17))

	assert.Equal(t, "2024-02", p.String())
	assert.Equal(t, finance.Date(2024, time.February, 1), p.Start())
	assert.Equal(t, finance.Date(2024, time.February, 29), p.End())
	assert.True(t, p.Contains(finance.Date(2024, time.February, 29)))
	assert.False(t, p.Contains(finance.Date(2024, time.March, 1)))

	dec := finance.Period{Year: 2024, Month: time.December}
	assert.Equal(t, finance.Period{Year: 2025, Month: time.January}, dec.Next())

	parsed, err := finance.ParsePeriod("2025-07")
	require.NoError(t, err)
	assert.Equal(t, finance.Period{Year: 2025, Month: time.July}, parsed)
}
