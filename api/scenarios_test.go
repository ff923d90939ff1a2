package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListScenarios(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/api/scenarios", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[[]ScenarioDTO](t, rec)
	require.Len(t, got, len(scenarios))
	for _, sc := range got {
		assert.NotEmpty(t, sc.ID)
		assert.NotEmpty(t, sc.Description)
	}
}

func TestLoadScenario_AllScenariosAreValid(t *testing.T) {
	for _, sc := range scenarios {
		t.Run(sc.ID, func(t *testing.T) {
			s := newTestServer(t)
			rec := s.do(http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: sc.ID})
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			accounts, err := s.store.ListPayeeAccounts(context.Background(), demoPayeeID)
			require.NoError(t, err)
			assert.Len(t, accounts, len(sc.accounts(s.svc.Now())))
			for _, a := range accounts {
				assert.False(t, a.CurrentBalance.IsNegative())
				assert.NotNil(t, a.DueDate)
			}
		})
	}
}

func TestLoadScenario_ReloadRestoresBalances(t *testing.T) {
	s := newTestServer(t)
	load := func() {
		rec := s.do(http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "student-loan"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	load()

	// GIVEN: the loan has accrued a month of interest
	rec := s.do(http.MethodPost, "/api/admin/accrual?as_of=2025-03-01", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(http.MethodGet, "/api/payee-accounts/demo-student-loan", nil)
	assertDec(t, "55", decode[PayeeAccountDTO](t, rec).AccruedInterest)

	// WHEN: loading the scenario again
	load()

	// THEN: the starting balances are back
	rec = s.do(http.MethodGet, "/api/payee-accounts/demo-student-loan", nil)
	got := decode[PayeeAccountDTO](t, rec)
	assertDec(t, "0", got.AccruedInterest)
	assertDec(t, "12000", got.CurrentBalance)
	assert.Empty(t, got.LastInterestCalc)
}

func TestLoadScenario_Unknown(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "lottery-win"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
