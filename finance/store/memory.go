// Package store provides an in-memory finance.TxStore.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/finance-engine/finance"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory is a finance.TxStore backed by maps.
type Memory struct {
	mu sync.RWMutex
	d  *tables
}

func NewMemory() *Memory {
	return &Memory{d: newTables()}
}

var _ finance.TxStore = (*Memory)(nil)

// WithTx executes fn within a transaction.
// For memory store, this is simulated with a snapshot + rollback on error.
func (m *Memory) WithTx(_ context.Context, fn func(finance.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.d.clone()
	if err := fn(m.d); err != nil {
		m.d = snapshot
		return err
	}
	return nil
}

func (m *Memory) SavePayee(ctx context.Context, p finance.Payee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d.SavePayee(ctx, p)
}

func (m *Memory) GetPayee(ctx context.Context, id string) (*finance.Payee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.d.GetPayee(ctx, id)
}

func (m *Memory) ListPayees(ctx context.Context) ([]finance.Payee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.d.ListPayees(ctx)
}

func (m *Memory) DeletePayee(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d.DeletePayee(ctx, id)
}

func (m *Memory) SavePayeeAccount(ctx context.Context, a finance.PayeeAccount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d.SavePayeeAccount(ctx, a)
}

func (m *Memory) GetPayeeAccount(ctx context.Context, id string) (*finance.PayeeAccount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.d.GetPayeeAccount(ctx, id)
}

func (m *Memory) ListPayeeAccounts(ctx context.Context, payeeID string) ([]finance.PayeeAccount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.d.ListPayeeAccounts(ctx, payeeID)
}

func (m *Memory) ListPayeeAccountsDue(ctx context.Context, from, to time.Time) ([]finance.PayeeAccount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.d.ListPayeeAccountsDue(ctx, from, to)
}

func (m *Memory) DeletePayeeAccount(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d.DeletePayeeAccount(ctx, id)
}

func (m *Memory) SaveAccount(ctx context.Context, a finance.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d.SaveAccount(ctx, a)
}

func (m *Memory) GetAccount(ctx context.Context, id string) (*finance.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.d.GetAccount(ctx, id)
}

func (m *Memory) ListAccounts(ctx context.Context) ([]finance.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.d.ListAccounts(ctx)
}

func (m *Memory) SaveDeposit(ctx context.Context, d finance.Deposit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d.SaveDeposit(ctx, d)
}

func (m *Memory) ListDeposits(ctx context.Context, accountID string) ([]finance.Deposit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.d.ListDeposits(ctx, accountID)
}

func (m *Memory) SaveTransfer(ctx context.Context, t finance.Transfer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d.SaveTransfer(ctx, t)
}

func (m *Memory) ListTransfers(ctx context.Context, accountID string) ([]finance.Transfer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.d.ListTransfers(ctx, accountID)
}

func (m *Memory) SavePayment(ctx context.Context, p finance.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d.SavePayment(ctx, p)
}

func (m *Memory) ListPayments(ctx context.Context, filter finance.PaymentFilter) ([]finance.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.d.ListPayments(ctx, filter)
}

func (m *Memory) SaveAccrualRun(ctx context.Context, run finance.AccrualRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d.SaveAccrualRun(ctx, run)
}

func (m *Memory) ListAccrualRuns(ctx context.Context, payeeAccountID string, limit int) ([]finance.AccrualRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.d.ListAccrualRuns(ctx, payeeAccountID, limit)
}

// =============================================================================
// TABLES - Unlocked state, also the transactional view
// =============================================================================

type tables struct {
	payees        map[string]finance.Payee
	payeeAccounts map[string]finance.PayeeAccount
	accounts      map[string]finance.Account
	deposits      map[string]finance.Deposit
	transfers     map[string]finance.Transfer
	payments      map[string]finance.Payment
	runs          map[string]finance.AccrualRun
}

func newTables() *tables {
	return &tables{
		payees:        make(map[string]finance.Payee),
		payeeAccounts: make(map[string]finance.PayeeAccount),
		accounts:      make(map[string]finance.Account),
		deposits:      make(map[string]finance.Deposit),
		transfers:     make(map[string]finance.Transfer),
		payments:      make(map[string]finance.Payment),
		runs:          make(map[string]finance.AccrualRun),
	}
}

func (t *tables) clone() *tables {
	return &tables{
		payees:        copyMap(t.payees),
		payeeAccounts: copyMap(t.payeeAccounts),
		accounts:      copyMap(t.accounts),
		deposits:      copyMap(t.deposits),
		transfers:     copyMap(t.transfers),
		payments:      copyMap(t.payments),
		runs:          copyMap(t.runs),
	}
}

func copyMap[V any](src map[string]V) map[string]V {
	dst := make(map[string]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func values[V any](src map[string]V, keep func(V) bool) []V {
	out := make([]V, 0, len(src))
	for _, v := range src {
		if keep == nil || keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// Payees

func (t *tables) SavePayee(_ context.Context, p finance.Payee) error {
	t.payees[p.ID] = p
	return nil
}

func (t *tables) GetPayee(_ context.Context, id string) (*finance.Payee, error) {
	p, ok := t.payees[id]
	if !ok {
		return nil, finance.ErrPayeeNotFound
	}
	return &p, nil
}

func (t *tables) ListPayees(_ context.Context) ([]finance.Payee, error) {
	out := values(t.payees, nil)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (t *tables) DeletePayee(ctx context.Context, id string) error {
	if _, ok := t.payees[id]; !ok {
		return finance.ErrPayeeNotFound
	}
	for _, a := range t.payeeAccounts {
		if a.PayeeID == id {
			if err := t.DeletePayeeAccount(ctx, a.ID); err != nil {
				return err
			}
		}
	}
	delete(t.payees, id)
	return nil
}

// Payee accounts

func (t *tables) SavePayeeAccount(_ context.Context, a finance.PayeeAccount) error {
	if _, ok := t.payees[a.PayeeID]; !ok {
		return finance.ErrPayeeNotFound
	}
	t.payeeAccounts[a.ID] = a
	return nil
}

func (t *tables) GetPayeeAccount(_ context.Context, id string) (*finance.PayeeAccount, error) {
	a, ok := t.payeeAccounts[id]
	if !ok {
		return nil, finance.ErrPayeeAccountNotFound
	}
	return &a, nil
}

func (t *tables) ListPayeeAccounts(_ context.Context, payeeID string) ([]finance.PayeeAccount, error) {
	out := values(t.payeeAccounts, func(a finance.PayeeAccount) bool {
		return payeeID == "" || a.PayeeID == payeeID
	})
	sortPayeeAccounts(out)
	return out, nil
}

func (t *tables) ListPayeeAccountsDue(_ context.Context, from, to time.Time) ([]finance.PayeeAccount, error) {
	from, to = finance.DateOf(from), finance.DateOf(to)
	out := values(t.payeeAccounts, func(a finance.PayeeAccount) bool {
		if a.DueDate == nil {
			return false
		}
		d := finance.DateOf(*a.DueDate)
		return !d.Before(from) && !d.After(to)
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DueDate.Equal(*out[j].DueDate) {
			return out[i].DueDate.Before(*out[j].DueDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (t *tables) DeletePayeeAccount(_ context.Context, id string) error {
	if _, ok := t.payeeAccounts[id]; !ok {
		return finance.ErrPayeeAccountNotFound
	}
	for pid, p := range t.payments {
		if p.PayeeAccountID == id {
			delete(t.payments, pid)
		}
	}
	for rid, r := range t.runs {
		if r.PayeeAccountID == id {
			delete(t.runs, rid)
		}
	}
	delete(t.payeeAccounts, id)
	return nil
}

func sortPayeeAccounts(out []finance.PayeeAccount) {
	sort.Slice(out, func(i, j int) bool {
		if out[i].Label != out[j].Label {
			return out[i].Label < out[j].Label
		}
		return out[i].ID < out[j].ID
	})
}

// Bank accounts

func (t *tables) SaveAccount(_ context.Context, a finance.Account) error {
	t.accounts[a.ID] = a
	return nil
}

func (t *tables) GetAccount(_ context.Context, id string) (*finance.Account, error) {
	a, ok := t.accounts[id]
	if !ok {
		return nil, finance.ErrAccountNotFound
	}
	return &a, nil
}

func (t *tables) ListAccounts(_ context.Context) ([]finance.Account, error) {
	out := values(t.accounts, nil)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Nickname != out[j].Nickname {
			return out[i].Nickname < out[j].Nickname
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Ledger records

func (t *tables) SaveDeposit(_ context.Context, d finance.Deposit) error {
	if _, ok := t.accounts[d.AccountID]; !ok {
		return finance.ErrAccountNotFound
	}
	t.deposits[d.ID] = d
	return nil
}

func (t *tables) ListDeposits(_ context.Context, accountID string) ([]finance.Deposit, error) {
	out := values(t.deposits, func(d finance.Deposit) bool {
		return accountID == "" || d.AccountID == accountID
	})
	sort.Slice(out, func(i, j int) bool {
		return newerFirst(out[i].Date, out[j].Date, out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out, nil
}

func (t *tables) SaveTransfer(_ context.Context, tr finance.Transfer) error {
	t.transfers[tr.ID] = tr
	return nil
}

func (t *tables) ListTransfers(_ context.Context, accountID string) ([]finance.Transfer, error) {
	out := values(t.transfers, func(tr finance.Transfer) bool {
		return accountID == "" || tr.FromAccountID == accountID || tr.ToAccountID == accountID
	})
	sort.Slice(out, func(i, j int) bool {
		return newerFirst(out[i].Date, out[j].Date, out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out, nil
}

func (t *tables) SavePayment(_ context.Context, p finance.Payment) error {
	if _, ok := t.payeeAccounts[p.PayeeAccountID]; !ok {
		return finance.ErrPayeeAccountNotFound
	}
	t.payments[p.ID] = p
	return nil
}

func (t *tables) ListPayments(_ context.Context, f finance.PaymentFilter) ([]finance.Payment, error) {
	out := values(t.payments, func(p finance.Payment) bool {
		if f.PayeeAccountID != "" && p.PayeeAccountID != f.PayeeAccountID {
			return false
		}
		if f.From != nil && p.Date.Before(finance.DateOf(*f.From)) {
			return false
		}
		if f.To != nil && p.Date.After(finance.DateOf(*f.To)) {
			return false
		}
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		return newerFirst(out[i].Date, out[j].Date, out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out, nil
}

// Accrual runs

func (t *tables) SaveAccrualRun(_ context.Context, r finance.AccrualRun) error {
	t.runs[r.ID] = r
	return nil
}

func (t *tables) ListAccrualRuns(_ context.Context, payeeAccountID string, limit int) ([]finance.AccrualRun, error) {
	out := values(t.runs, func(r finance.AccrualRun) bool {
		return payeeAccountID == "" || r.PayeeAccountID == payeeAccountID
	})
	sort.Slice(out, func(i, j int) bool {
		return newerFirst(out[i].AsOf, out[j].AsOf, out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func newerFirst(di, dj, ci, cj time.Time, idi, idj string) bool {
	if !di.Equal(dj) {
		return di.After(dj)
	}
	if !ci.Equal(cj) {
		return ci.After(cj)
	}
	return idi > idj
}
