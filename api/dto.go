/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the finance model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY:
  Amounts are decimal.Decimal. Requests accept JSON numbers or strings;
  responses are numbers when decimal.MarshalJSONWithoutQuotes is set (the
  server does this at startup) and strings otherwise.

DATES:
  Calendar dates are "YYYY-MM-DD" strings, timestamps RFC 3339.

VALIDATION:
  Validation is done in handlers and the finance package, not in DTOs.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/finance-engine/finance"
)

// =============================================================================
// PAYEES
// =============================================================================

type PayeeDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

type PayeeRequest struct {
	Name string `json:"name"`
}

func toPayeeDTO(p finance.Payee) PayeeDTO {
	return PayeeDTO{
		ID:        p.ID,
		Name:      p.Name,
		CreatedAt: formatTimestamp(p.CreatedAt),
		UpdatedAt: formatTimestamp(p.UpdatedAt),
	}
}

// =============================================================================
// PAYEE ACCOUNTS
// =============================================================================

type PayeeAccountDTO struct {
	ID                string           `json:"id"`
	PayeeID           string           `json:"payee_id"`
	Label             string           `json:"account_label"`
	AccountNumber     string           `json:"account_number,omitempty"`
	Category          string           `json:"category"`
	InterestType      string           `json:"interest_type"`
	InterestRate      decimal.Decimal  `json:"interest_rate"`
	CurrentBalance    decimal.Decimal  `json:"current_balance"`
	PrincipalBalance  decimal.Decimal  `json:"principal_balance"`
	AccruedInterest   decimal.Decimal  `json:"accrued_interest"`
	DueDate           string           `json:"due_date,omitempty"`
	LastInterestCalc  string           `json:"last_interest_calc,omitempty"`
	LoanTermMonths    int              `json:"loan_term_months"`
	PromoTermMonths   int              `json:"promo_term_months"`
	RequireMinPayment bool             `json:"require_min_payment"`
	MinPaymentAmount  *decimal.Decimal `json:"min_payment_amount,omitempty"`
	CreatedAt         string           `json:"created_at,omitempty"`
	UpdatedAt         string           `json:"updated_at,omitempty"`
}

// PayeeAccountRequest creates or updates a payee account. On update only
// the fields present in the body change.
type PayeeAccountRequest struct {
	PayeeID           *string          `json:"payee_id"`
	Label             *string          `json:"account_label"`
	AccountNumber     *string          `json:"account_number"`
	Category          *string          `json:"category"`
	InterestType      *string          `json:"interest_type"`
	InterestRate      *decimal.Decimal `json:"interest_rate"`
	CurrentBalance    *decimal.Decimal `json:"current_balance"`
	PrincipalBalance  *decimal.Decimal `json:"principal_balance"`
	AccruedInterest   *decimal.Decimal `json:"accrued_interest"`
	DueDate           *string          `json:"due_date"`
	LoanTermMonths    *int             `json:"loan_term_months"`
	PromoTermMonths   *int             `json:"promo_term_months"`
	RequireMinPayment *bool            `json:"require_min_payment"`
	MinPaymentAmount  *decimal.Decimal `json:"min_payment_amount"`
}

func toPayeeAccountDTO(a finance.PayeeAccount) PayeeAccountDTO {
	dto := PayeeAccountDTO{
		ID:                a.ID,
		PayeeID:           a.PayeeID,
		Label:             a.Label,
		AccountNumber:     a.AccountNumber,
		Category:          a.Category,
		InterestType:      string(a.InterestType),
		InterestRate:      a.InterestRate,
		CurrentBalance:    a.CurrentBalance,
		PrincipalBalance:  a.PrincipalBalance,
		AccruedInterest:   a.AccruedInterest,
		DueDate:           formatDatePtr(a.DueDate),
		LastInterestCalc:  formatDatePtr(a.LastInterestCalc),
		LoanTermMonths:    a.LoanTermMonths,
		PromoTermMonths:   a.PromoTermMonths,
		RequireMinPayment: a.RequireMinPayment,
		CreatedAt:         formatTimestamp(a.CreatedAt),
		UpdatedAt:         formatTimestamp(a.UpdatedAt),
	}
	if a.MinPaymentAmount.Valid {
		m := a.MinPaymentAmount.Decimal
		dto.MinPaymentAmount = &m
	}
	return dto
}

// RecommendationDTO is the suggested payment for a payee account.
type RecommendationDTO struct {
	PayeeAccountID string          `json:"payee_account_id"`
	Amount         decimal.Decimal `json:"amount"`
	Basis          string          `json:"basis"`
}

type InstallmentDTO struct {
	Month     int             `json:"month"`
	Payment   decimal.Decimal `json:"payment"`
	Principal decimal.Decimal `json:"principal"`
	Interest  decimal.Decimal `json:"interest"`
	Remaining decimal.Decimal `json:"remaining"`
}

type AmortizationDTO struct {
	PayeeAccountID string           `json:"payee_account_id"`
	TermMonths     int              `json:"term_months"`
	Payment        decimal.Decimal  `json:"payment"`
	TotalInterest  decimal.Decimal  `json:"total_interest"`
	Schedule       []InstallmentDTO `json:"schedule"`
}

func toAmortizationDTO(id string, term int, am finance.Amortization) AmortizationDTO {
	dto := AmortizationDTO{
		PayeeAccountID: id,
		TermMonths:     term,
		Payment:        am.Payment,
		TotalInterest:  am.TotalInterest,
		Schedule:       make([]InstallmentDTO, len(am.Schedule)),
	}
	for i, in := range am.Schedule {
		dto.Schedule[i] = InstallmentDTO{
			Month:     in.Month,
			Payment:   in.Payment,
			Principal: in.Principal,
			Interest:  in.Interest,
			Remaining: in.Remaining,
		}
	}
	return dto
}

// =============================================================================
// BANK ACCOUNTS AND LEDGER
// =============================================================================

type AccountDTO struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Nickname  string          `json:"nickname"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt string          `json:"created_at,omitempty"`
}

type CreateAccountRequest struct {
	Type     string          `json:"type"`
	Nickname string          `json:"nickname"`
	Balance  decimal.Decimal `json:"balance"`
}

func toAccountDTO(a finance.Account) AccountDTO {
	return AccountDTO{
		ID:        a.ID,
		Type:      string(a.Type),
		Nickname:  a.Nickname,
		Balance:   a.Balance,
		CreatedAt: formatTimestamp(a.CreatedAt),
	}
}

type DepositDTO struct {
	ID        string          `json:"id"`
	AccountID string          `json:"account_id"`
	Source    string          `json:"source"`
	Amount    decimal.Decimal `json:"amount"`
	Date      string          `json:"date"`
}

type DepositRequest struct {
	AccountID string          `json:"account_id"`
	Source    string          `json:"source"`
	Amount    decimal.Decimal `json:"amount"`
	Date      string          `json:"date"`
}

type TransferDTO struct {
	ID            string          `json:"id"`
	FromAccountID string          `json:"from_account_id"`
	ToAccountID   string          `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Date          string          `json:"date"`
}

type TransferRequest struct {
	FromAccountID string          `json:"from_account_id"`
	ToAccountID   string          `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Date          string          `json:"date"`
}

type PaymentDTO struct {
	ID                string          `json:"id"`
	CheckingAccountID string          `json:"checking_account_id"`
	PayeeAccountID    string          `json:"payee_account_id"`
	Amount            decimal.Decimal `json:"amount"`
	Date              string          `json:"date"`
	ToInterest        decimal.Decimal `json:"to_interest"`
	ToPrincipal       decimal.Decimal `json:"to_principal"`
	Unapplied         decimal.Decimal `json:"unapplied"`
}

type PaymentRequest struct {
	CheckingAccountID string          `json:"checking_account_id"`
	PayeeAccountID    string          `json:"payee_account_id"`
	Amount            decimal.Decimal `json:"amount"`
	Date              string          `json:"date"`
}

// PaymentResponse is a recorded payment with the payee account after it.
type PaymentResponse struct {
	Payment      PaymentDTO      `json:"payment"`
	PayeeAccount PayeeAccountDTO `json:"payee_account"`
}

func toPaymentDTO(p finance.Payment) PaymentDTO {
	return PaymentDTO{
		ID:                p.ID,
		CheckingAccountID: p.CheckingAccountID,
		PayeeAccountID:    p.PayeeAccountID,
		Amount:            p.Amount,
		Date:              p.Date.Format(finance.DateLayout),
		ToInterest:        p.ToInterest,
		ToPrincipal:       p.ToPrincipal,
		Unapplied:         p.Unapplied,
	}
}

// =============================================================================
// ACCRUAL
// =============================================================================

type AccrualRunDTO struct {
	ID             string          `json:"id"`
	PayeeAccountID string          `json:"payee_account_id"`
	Period         string          `json:"period"`
	AsOf           string          `json:"as_of"`
	InterestType   string          `json:"interest_type,omitempty"`
	Interest       decimal.Decimal `json:"interest"`
	BalanceAfter   decimal.Decimal `json:"balance_after"`
	Status         string          `json:"status"`
	Error          string          `json:"error,omitempty"`
	CreatedAt      string          `json:"created_at"`
}

func toAccrualRunDTO(r finance.AccrualRun) AccrualRunDTO {
	return AccrualRunDTO{
		ID:             r.ID,
		PayeeAccountID: r.PayeeAccountID,
		Period:         r.Period.String(),
		AsOf:           r.AsOf.Format(finance.DateLayout),
		InterestType:   string(r.InterestType),
		Interest:       r.Interest,
		BalanceAfter:   r.BalanceAfter,
		Status:         string(r.Status),
		Error:          r.Error,
		CreatedAt:      formatTimestamp(r.CreatedAt),
	}
}

type AccrualSummaryDTO struct {
	AsOf           string          `json:"as_of"`
	Period         string          `json:"period"`
	Processed      int             `json:"processed"`
	Skipped        int             `json:"skipped"`
	Failed         int             `json:"failed"`
	InterestPosted decimal.Decimal `json:"interest_posted"`
}

func toAccrualSummaryDTO(s finance.AccrualSummary) AccrualSummaryDTO {
	return AccrualSummaryDTO{
		AsOf:           s.AsOf.Format(finance.DateLayout),
		Period:         s.Period.String(),
		Processed:      s.Processed,
		Skipped:        s.Skipped,
		Failed:         s.Failed,
		InterestPosted: s.InterestPosted,
	}
}

// =============================================================================
// COMMON
// =============================================================================

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(finance.DateLayout)
}
