/*
handlers.go - HTTP API handlers for the finance engine

PURPOSE:
  Exposes payees, payee accounts, bank accounts and the payment/accrual
  operations via REST API. Handles HTTP request/response and JSON
  serialization; balance changes are delegated to finance.Service.

ENDPOINTS:
  Payees:
    GET    /api/payees                          List payees
    POST   /api/payees                          Create payee
    GET    /api/payees/{id}                     Get payee
    PUT    /api/payees/{id}                     Rename payee
    DELETE /api/payees/{id}                     Delete payee and its accounts

  Payee accounts:
    GET    /api/payee-accounts?payee_id=        List accounts
    POST   /api/payee-accounts                  Create account
    GET    /api/payee-accounts/due?within_days= Upcoming due dates (default 21)
    GET    /api/payee-accounts/{id}             Get account
    PUT    /api/payee-accounts/{id}             Partial update
    DELETE /api/payee-accounts/{id}             Delete account
    GET    /api/payee-accounts/{id}/recommended-payment
    GET    /api/payee-accounts/{id}/amortization
    GET    /api/payee-accounts/{id}/accrual-runs?limit=

  Bank accounts and ledger:
    GET/POST /api/accounts, GET /api/accounts/{id}
    GET/POST /api/deposits?account_id=
    GET/POST /api/transfers?account_id=
    GET/POST /api/payments?payee_account_id=&start_date=&end_date=

  Admin:
    POST   /api/admin/accrual?as_of=YYYY-MM-DD  Run batch accrual now

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input, unknown interest type
  - 404: Payee, payee account or bank account not found
  - 500: Internal errors (logged)

SECURITY NOTE:
  No authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/warp/finance-engine/finance"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service *finance.Service
	Store   finance.TxStore
	Log     logrus.FieldLogger
}

// NewHandler creates a handler around svc.
func NewHandler(svc *finance.Service, log logrus.FieldLogger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{Service: svc, Store: svc.Store(), Log: log}
}

func (h *Handler) now() time.Time {
	return h.Service.Now().UTC()
}

func (h *Handler) today() time.Time {
	return finance.DateOf(h.Service.Now())
}

// Health reports whether the store is reachable.
// GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.Store.(interface{ Ping(context.Context) error }); ok {
		if err := p.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "Database unavailable", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// PAYEES
// =============================================================================

// ListPayees returns all payees.
func (h *Handler) ListPayees(w http.ResponseWriter, r *http.Request) {
	payees, err := h.Store.ListPayees(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "Failed to list payees", err)
		return
	}

	dtos := make([]PayeeDTO, len(payees))
	for i, p := range payees {
		dtos[i] = toPayeeDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreatePayee(w http.ResponseWriter, r *http.Request) {
	var req PayeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	now := h.now()
	p := finance.Payee{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := p.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payee", err)
		return
	}
	if err := h.Store.SavePayee(r.Context(), p); err != nil {
		h.writeServiceError(w, r, "Failed to create payee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPayeeDTO(p))
}

func (h *Handler) GetPayee(w http.ResponseWriter, r *http.Request) {
	p, err := h.Store.GetPayee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, "Failed to get payee", err)
		return
	}
	writeJSON(w, http.StatusOK, toPayeeDTO(*p))
}

func (h *Handler) UpdatePayee(w http.ResponseWriter, r *http.Request) {
	var req PayeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	p, err := h.Store.GetPayee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, "Failed to get payee", err)
		return
	}
	p.Name = strings.TrimSpace(req.Name)
	p.UpdatedAt = h.now()
	if err := p.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payee", err)
		return
	}
	if err := h.Store.SavePayee(r.Context(), *p); err != nil {
		h.writeServiceError(w, r, "Failed to update payee", err)
		return
	}
	writeJSON(w, http.StatusOK, toPayeeDTO(*p))
}

func (h *Handler) DeletePayee(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeletePayee(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, r, "Failed to delete payee", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PAYEE ACCOUNTS
// =============================================================================

// ListPayeeAccounts returns all payee accounts, optionally for one payee.
// GET /api/payee-accounts?payee_id=
func (h *Handler) ListPayeeAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.Store.ListPayeeAccounts(r.Context(), r.URL.Query().Get("payee_id"))
	if err != nil {
		h.writeServiceError(w, r, "Failed to list payee accounts", err)
		return
	}
	writeJSON(w, http.StatusOK, toPayeeAccountDTOs(accounts))
}

// CreatePayeeAccount creates a payee account. Balances are rounded and the
// derived balance is recomputed for the interest type.
// POST /api/payee-accounts
func (h *Handler) CreatePayeeAccount(w http.ResponseWriter, r *http.Request) {
	var req PayeeAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	now := h.now()
	a := finance.PayeeAccount{
		ID:           uuid.NewString(),
		InterestType: finance.InterestNone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := applyPayeeAccountRequest(&a, req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payee account", err)
		return
	}
	if err := a.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payee account", err)
		return
	}
	if err := a.Normalize(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payee account", err)
		return
	}

	if err := h.Store.SavePayeeAccount(r.Context(), a); err != nil {
		h.writeServiceError(w, r, "Failed to create payee account", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPayeeAccountDTO(a))
}

func (h *Handler) GetPayeeAccount(w http.ResponseWriter, r *http.Request) {
	a, err := h.Store.GetPayeeAccount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, "Failed to get payee account", err)
		return
	}
	writeJSON(w, http.StatusOK, toPayeeAccountDTO(*a))
}

// UpdatePayeeAccount changes only the fields present in the body.
// PUT /api/payee-accounts/{id}
func (h *Handler) UpdatePayeeAccount(w http.ResponseWriter, r *http.Request) {
	var req PayeeAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	var updated finance.PayeeAccount
	err := h.Store.WithTx(ctx, func(tx finance.Store) error {
		a, err := tx.GetPayeeAccount(ctx, chi.URLParam(r, "id"))
		if err != nil {
			return err
		}
		if err := applyPayeeAccountRequest(a, req); err != nil {
			return err
		}
		if err := a.Validate(); err != nil {
			return err
		}
		if err := a.Normalize(); err != nil {
			return err
		}
		a.UpdatedAt = h.now()
		if err := tx.SavePayeeAccount(ctx, *a); err != nil {
			return err
		}
		updated = *a
		return nil
	})
	if err != nil {
		h.writeServiceError(w, r, "Failed to update payee account", err)
		return
	}
	writeJSON(w, http.StatusOK, toPayeeAccountDTO(updated))
}

func (h *Handler) DeletePayeeAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeletePayeeAccount(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, r, "Failed to delete payee account", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListDuePayeeAccounts returns accounts due between today and within_days
// from today.
// GET /api/payee-accounts/due?within_days=21
func (h *Handler) ListDuePayeeAccounts(w http.ResponseWriter, r *http.Request) {
	within := finance.DefaultDueWithinDays
	if v := r.URL.Query().Get("within_days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid within_days", err)
			return
		}
		within = n
	}

	due, err := h.Service.UpcomingDue(r.Context(), h.today(), within)
	if err != nil {
		h.writeServiceError(w, r, "Failed to list due accounts", err)
		return
	}
	writeJSON(w, http.StatusOK, toPayeeAccountDTOs(due))
}

// GetRecommendedPayment returns the suggested payment for the account.
// GET /api/payee-accounts/{id}/recommended-payment
func (h *Handler) GetRecommendedPayment(w http.ResponseWriter, r *http.Request) {
	a, err := h.Store.GetPayeeAccount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, "Failed to get payee account", err)
		return
	}
	rec, err := finance.Recommend(a)
	if err != nil {
		h.writeServiceError(w, r, "Failed to compute recommendation", err)
		return
	}
	writeJSON(w, http.StatusOK, RecommendationDTO{
		PayeeAccountID: a.ID,
		Amount:         rec.Amount,
		Basis:          string(rec.Basis),
	})
}

// GetAmortization returns the level payment schedule over the loan term.
// Accounts without a term get 400.
// GET /api/payee-accounts/{id}/amortization
func (h *Handler) GetAmortization(w http.ResponseWriter, r *http.Request) {
	a, err := h.Store.GetPayeeAccount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, "Failed to get payee account", err)
		return
	}
	am, err := finance.ScheduleFor(a)
	if err != nil {
		h.writeServiceError(w, r, "Failed to compute amortization", err)
		return
	}
	writeJSON(w, http.StatusOK, toAmortizationDTO(a.ID, a.LoanTermMonths, am))
}

// ListAccrualRuns returns the accrual history of one account, newest first.
// GET /api/payee-accounts/{id}/accrual-runs?limit=
func (h *Handler) ListAccrualRuns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	if _, err := h.Store.GetPayeeAccount(ctx, id); err != nil {
		h.writeServiceError(w, r, "Failed to get payee account", err)
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = n
	}

	runs, err := h.Store.ListAccrualRuns(ctx, id, limit)
	if err != nil {
		h.writeServiceError(w, r, "Failed to list accrual runs", err)
		return
	}
	dtos := make([]AccrualRunDTO, len(runs))
	for i, run := range runs {
		dtos[i] = toAccrualRunDTO(run)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func applyPayeeAccountRequest(a *finance.PayeeAccount, req PayeeAccountRequest) error {
	if req.PayeeID != nil {
		a.PayeeID = strings.TrimSpace(*req.PayeeID)
	}
	if req.Label != nil {
		a.Label = strings.TrimSpace(*req.Label)
	}
	if req.AccountNumber != nil {
		a.AccountNumber = strings.TrimSpace(*req.AccountNumber)
	}
	if req.Category != nil {
		a.Category = *req.Category
	}
	if req.InterestType != nil {
		t, err := finance.ParseInterestType(*req.InterestType)
		if err != nil {
			return err
		}
		a.InterestType = t
	}
	if req.InterestRate != nil {
		a.InterestRate = *req.InterestRate
	}
	if req.CurrentBalance != nil {
		a.CurrentBalance = *req.CurrentBalance
	}
	if req.PrincipalBalance != nil {
		a.PrincipalBalance = *req.PrincipalBalance
	}
	if req.AccruedInterest != nil {
		a.AccruedInterest = *req.AccruedInterest
	}
	if req.DueDate != nil {
		if *req.DueDate == "" {
			a.DueDate = nil
		} else {
			d, err := finance.ParseDate(*req.DueDate)
			if err != nil {
				return &finance.ValidationError{Field: "due_date", Message: "must be YYYY-MM-DD"}
			}
			a.DueDate = &d
		}
	}
	if req.LoanTermMonths != nil {
		a.LoanTermMonths = *req.LoanTermMonths
	}
	if req.PromoTermMonths != nil {
		a.PromoTermMonths = *req.PromoTermMonths
	}
	if req.RequireMinPayment != nil {
		a.RequireMinPayment = *req.RequireMinPayment
	}
	if req.MinPaymentAmount != nil {
		a.MinPaymentAmount = decimal.NewNullDecimal(*req.MinPaymentAmount)
	}
	return nil
}

func toPayeeAccountDTOs(accounts []finance.PayeeAccount) []PayeeAccountDTO {
	dtos := make([]PayeeAccountDTO, len(accounts))
	for i, a := range accounts {
		dtos[i] = toPayeeAccountDTO(a)
	}
	return dtos
}

// =============================================================================
// BANK ACCOUNTS
// =============================================================================

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.Store.ListAccounts(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "Failed to list accounts", err)
		return
	}
	dtos := make([]AccountDTO, len(accounts))
	for i, a := range accounts {
		dtos[i] = toAccountDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	a := finance.Account{
		ID:        uuid.NewString(),
		Type:      finance.AccountType(strings.ToLower(strings.TrimSpace(req.Type))),
		Nickname:  strings.TrimSpace(req.Nickname),
		Balance:   req.Balance.Round(2),
		CreatedAt: h.now(),
	}
	if err := a.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid account", err)
		return
	}
	if err := h.Store.SaveAccount(r.Context(), a); err != nil {
		h.writeServiceError(w, r, "Failed to create account", err)
		return
	}
	writeJSON(w, http.StatusCreated, toAccountDTO(a))
}

func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	a, err := h.Store.GetAccount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, "Failed to get account", err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountDTO(*a))
}

// =============================================================================
// DEPOSITS AND TRANSFERS
// =============================================================================

func (h *Handler) ListDeposits(w http.ResponseWriter, r *http.Request) {
	deposits, err := h.Store.ListDeposits(r.Context(), r.URL.Query().Get("account_id"))
	if err != nil {
		h.writeServiceError(w, r, "Failed to list deposits", err)
		return
	}
	dtos := make([]DepositDTO, len(deposits))
	for i, d := range deposits {
		dtos[i] = DepositDTO{
			ID: d.ID, AccountID: d.AccountID, Source: d.Source,
			Amount: d.Amount, Date: d.Date.Format(finance.DateLayout),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateDeposit records a deposit and raises the account balance.
// POST /api/deposits
func (h *Handler) CreateDeposit(w http.ResponseWriter, r *http.Request) {
	var req DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := parseOptionalDate("date", req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	d, err := h.Service.Deposit(r.Context(), finance.DepositInput{
		AccountID: req.AccountID,
		Source:    req.Source,
		Amount:    req.Amount,
		Date:      date,
	})
	if err != nil {
		h.writeServiceError(w, r, "Failed to record deposit", err)
		return
	}
	writeJSON(w, http.StatusCreated, DepositDTO{
		ID: d.ID, AccountID: d.AccountID, Source: d.Source,
		Amount: d.Amount, Date: d.Date.Format(finance.DateLayout),
	})
}

func (h *Handler) ListTransfers(w http.ResponseWriter, r *http.Request) {
	transfers, err := h.Store.ListTransfers(r.Context(), r.URL.Query().Get("account_id"))
	if err != nil {
		h.writeServiceError(w, r, "Failed to list transfers", err)
		return
	}
	dtos := make([]TransferDTO, len(transfers))
	for i, t := range transfers {
		dtos[i] = toTransferDTO(t)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateTransfer moves money between two bank accounts.
// POST /api/transfers
func (h *Handler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := parseOptionalDate("date", req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	t, err := h.Service.Transfer(r.Context(), finance.TransferInput{
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        req.Amount,
		Date:          date,
	})
	if err != nil {
		h.writeServiceError(w, r, "Failed to transfer", err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransferDTO(*t))
}

func toTransferDTO(t finance.Transfer) TransferDTO {
	return TransferDTO{
		ID:            t.ID,
		FromAccountID: t.FromAccountID,
		ToAccountID:   t.ToAccountID,
		Amount:        t.Amount,
		Date:          t.Date.Format(finance.DateLayout),
	}
}

// =============================================================================
// PAYMENTS
// =============================================================================

// ListPayments returns payments newest first.
// GET /api/payments?payee_account_id=&start_date=&end_date=
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := finance.PaymentFilter{PayeeAccountID: q.Get("payee_account_id")}
	for _, p := range []struct {
		name string
		dst  **time.Time
	}{
		{"start_date", &filter.From},
		{"end_date", &filter.To},
	} {
		if v := q.Get(p.name); v != "" {
			d, err := finance.ParseDate(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s (use YYYY-MM-DD)", p.name), err)
				return
			}
			*p.dst = &d
		}
	}

	payments, err := h.Store.ListPayments(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, r, "Failed to list payments", err)
		return
	}
	dtos := make([]PaymentDTO, len(payments))
	for i, p := range payments {
		dtos[i] = toPaymentDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreatePayment records a payment and applies it, interest first.
// POST /api/payments
func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := parseOptionalDate("date", req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	p, acct, err := h.Service.RecordPayment(r.Context(), finance.PaymentInput{
		CheckingAccountID: req.CheckingAccountID,
		PayeeAccountID:    req.PayeeAccountID,
		Amount:            req.Amount,
		Date:              date,
	})
	if err != nil {
		h.writeServiceError(w, r, "Failed to record payment", err)
		return
	}
	writeJSON(w, http.StatusCreated, PaymentResponse{
		Payment:      toPaymentDTO(*p),
		PayeeAccount: toPayeeAccountDTO(*acct),
	})
}

// =============================================================================
// ADMIN
// =============================================================================

// RunAccrual runs batch accrual synchronously.
// POST /api/admin/accrual?as_of=YYYY-MM-DD (default today)
func (h *Handler) RunAccrual(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseOptionalDate("as_of", r.URL.Query().Get("as_of"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of (use YYYY-MM-DD)", err)
		return
	}
	if asOf.IsZero() {
		asOf = h.today()
	}

	summary, err := h.Service.RunAccrual(r.Context(), asOf)
	if err != nil {
		h.writeServiceError(w, r, "Accrual failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toAccrualSummaryDTO(summary))
}

// =============================================================================
// HELPERS
// =============================================================================

func parseOptionalDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	d, err := finance.ParseDate(s)
	if err != nil {
		return time.Time{}, &finance.ValidationError{Field: field, Message: "must be YYYY-MM-DD"}
	}
	return d, nil
}

// writeServiceError maps finance errors to HTTP statuses.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, message string, err error) {
	switch {
	case finance.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case finance.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		h.Log.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"request_id": middleware.GetReqID(r.Context()),
		}).WithError(err).Error(message)
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
