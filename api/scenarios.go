/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:
  Provides pre-built scenarios that populate the database with realistic
  payees and accounts, one per interest type, so the accrual and payment
  endpoints can be tried without typing balances by hand.

AVAILABLE SCENARIOS:
  credit-card-promo: Compound card on a six month promotion with a minimum
  student-loan:      Amortized loan, interest on principal only
  household-bills:   Pay-in-full card and a no-interest utility bill

HOW SCENARIOS WORK:
  Every row has a fixed "demo-" id and is upserted in one transaction, so
  loading a scenario twice restores its starting balances. Other data is
  left alone.

USAGE VIA API:
  POST /api/scenarios/load
  {"scenario_id": "student-loan"}

SEE ALSO:
  - handlers.go: Endpoints that operate on the loaded data
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/finance-engine/finance"
)

// ScenarioDTO describes a loadable demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

type scenario struct {
	ScenarioDTO
	accounts func(today time.Time) []finance.PayeeAccount
}

const (
	demoPayeeID    = "demo-payee"
	demoCheckingID = "demo-checking"
)

var scenarios = []scenario{
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "credit-card-promo",
			Name:        "Credit Card Promotion",
			Description: "Compounding card, 19.99% APR, six month payoff promotion with a $35 minimum",
		},
		accounts: func(today time.Time) []finance.PayeeAccount {
			return []finance.PayeeAccount{{
				ID:                "demo-card-promo",
				Label:             "Rewards Visa",
				Category:          finance.CategoryCreditCard,
				InterestType:      finance.InterestCompound,
				InterestRate:      decimal.RequireFromString("0.1999"),
				CurrentBalance:    decimal.RequireFromString("1200.00"),
				PromoTermMonths:   6,
				RequireMinPayment: true,
				MinPaymentAmount:  decimal.NewNullDecimal(decimal.NewFromInt(35)),
				DueDate:           dayIn(today, 14),
			}}
		},
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "student-loan",
			Name:        "Student Loan",
			Description: "12,000 at 5.5% over ten years; interest accrues on principal only",
		},
		accounts: func(today time.Time) []finance.PayeeAccount {
			return []finance.PayeeAccount{{
				ID:               "demo-student-loan",
				Label:            "Student Loan",
				Category:         "loan",
				InterestType:     finance.InterestLoan,
				InterestRate:     decimal.RequireFromString("0.055"),
				PrincipalBalance: decimal.RequireFromString("12000.00"),
				LoanTermMonths:   120,
				DueDate:          dayIn(today, 10),
			}}
		},
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "household-bills",
			Name:        "Household Bills",
			Description: "Charge card paid in full each month and a flat utility bill",
		},
		accounts: func(today time.Time) []finance.PayeeAccount {
			return []finance.PayeeAccount{
				{
					ID:             "demo-charge-card",
					Label:          "Charge Card",
					Category:       finance.CategoryCreditCard,
					InterestType:   finance.InterestPIF,
					CurrentBalance: decimal.RequireFromString("640.25"),
					DueDate:        dayIn(today, 5),
				},
				{
					ID:             "demo-electric",
					Label:          "Electric",
					Category:       "utility",
					InterestType:   finance.InterestNone,
					CurrentBalance: decimal.RequireFromString("88.40"),
					DueDate:        dayIn(today, 18),
				},
			}
		},
	},
}

func dayIn(today time.Time, days int) *time.Time {
	d := today.AddDate(0, 0, days)
	return &d
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	dtos := make([]ScenarioDTO, len(scenarios))
	for i, s := range scenarios {
		dtos[i] = s.ScenarioDTO
	}
	writeJSON(w, http.StatusOK, dtos)
}

// LoadScenario upserts the scenario's payee, checking account and payee accounts.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	for _, s := range scenarios {
		if s.ID != req.ScenarioID {
			continue
		}
		accounts, err := h.loadScenario(r.Context(), s)
		if err != nil {
			h.writeServiceError(w, r, "Failed to load scenario", err)
			return
		}
		h.Log.WithField("scenario", s.ID).Info("scenario loaded")
		writeJSON(w, http.StatusOK, map[string]any{
			"scenario":       s.ScenarioDTO,
			"payee_accounts": toPayeeAccountDTOs(accounts),
		})
		return
	}
	writeError(w, http.StatusNotFound, "Unknown scenario", nil)
}

func (h *Handler) loadScenario(ctx context.Context, s scenario) ([]finance.PayeeAccount, error) {
	now := h.now()
	accounts := s.accounts(h.today())

	err := h.Store.WithTx(ctx, func(tx finance.Store) error {
		if err := tx.SavePayee(ctx, finance.Payee{
			ID: demoPayeeID, Name: "Demo Creditor", CreatedAt: now, UpdatedAt: now,
		}); err != nil {
			return err
		}
		if err := tx.SaveAccount(ctx, finance.Account{
			ID: demoCheckingID, Type: finance.AccountChecking, Nickname: "Demo Checking",
			Balance: decimal.NewFromInt(5000), CreatedAt: now,
		}); err != nil {
			return err
		}
		for i := range accounts {
			a := &accounts[i]
			a.PayeeID = demoPayeeID
			a.CreatedAt, a.UpdatedAt = now, now
			if err := a.Validate(); err != nil {
				return err
			}
			if err := a.Normalize(); err != nil {
				return err
			}
			if err := tx.SavePayeeAccount(ctx, *a); err != nil {
				return err
			}
		}
		return nil
	})
	return accounts, err
}
