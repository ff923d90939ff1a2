/*
store.go - Persistence interface for the finance engine

PURPOSE:
  Defines the interface between the engine and the database. The engine
  itself (Accrue, ApplyPayment, Amortize) never touches a Store; only the
  Service does, and always inside WithTx when more than one row changes.

KEY INTERFACES:
  Store:   CRUD for payees, payee accounts, bank accounts, deposits,
           transfers, payments and accrual runs
  TxStore: Store + WithTx for atomic multi-row writes

NOT FOUND:
  Get* methods return ErrPayeeNotFound / ErrPayeeAccountNotFound /
  ErrAccountNotFound (possibly wrapped) when the row is absent.

IMPLEMENTATIONS:
  - store/sqlstore: SQLite and PostgreSQL
  - finance/store:  In-memory for tests and local runs

SEE ALSO:
  - service.go: The only caller that writes
*/
package finance

import (
	"context"
	"time"
)

// =============================================================================
// STORE
// =============================================================================

// Store persists every entity the engine and its collaborators work with.
// Save* methods insert or update by ID.
type Store interface {
	// Payees
	SavePayee(ctx context.Context, p Payee) error
	GetPayee(ctx context.Context, id string) (*Payee, error)
	ListPayees(ctx context.Context) ([]Payee, error)
	// DeletePayee removes the payee and everything hanging off its accounts.
	DeletePayee(ctx context.Context, id string) error

	// Payee accounts
	SavePayeeAccount(ctx context.Context, a PayeeAccount) error
	GetPayeeAccount(ctx context.Context, id string) (*PayeeAccount, error)
	// ListPayeeAccounts returns all accounts, or only those of payeeID when set.
	ListPayeeAccounts(ctx context.Context, payeeID string) ([]PayeeAccount, error)
	// ListPayeeAccountsDue returns accounts whose due date lies in [from, to],
	// ordered by due date.
	ListPayeeAccountsDue(ctx context.Context, from, to time.Time) ([]PayeeAccount, error)
	// DeletePayeeAccount removes the account with its payments and accrual runs.
	DeletePayeeAccount(ctx context.Context, id string) error

	// Bank accounts
	SaveAccount(ctx context.Context, a Account) error
	GetAccount(ctx context.Context, id string) (*Account, error)
	ListAccounts(ctx context.Context) ([]Account, error)

	// Ledger records
	SaveDeposit(ctx context.Context, d Deposit) error
	// ListDeposits returns deposits newest first, optionally for one account.
	ListDeposits(ctx context.Context, accountID string) ([]Deposit, error)
	SaveTransfer(ctx context.Context, t Transfer) error
	// ListTransfers returns transfers newest first touching accountID, or all.
	ListTransfers(ctx context.Context, accountID string) ([]Transfer, error)
	SavePayment(ctx context.Context, p Payment) error
	// ListPayments returns payments newest first.
	ListPayments(ctx context.Context, filter PaymentFilter) ([]Payment, error)

	// Accrual runs
	SaveAccrualRun(ctx context.Context, run AccrualRun) error
	// ListAccrualRuns returns runs newest first, optionally for one payee
	// account. limit <= 0 means no limit.
	ListAccrualRuns(ctx context.Context, payeeAccountID string, limit int) ([]AccrualRun, error)
}

// =============================================================================
// TRANSACTIONAL STORE
// =============================================================================

// TxStore wraps Store with transaction support.
type TxStore interface {
	Store

	// WithTx executes fn within a transaction.
	// If fn returns error, transaction is rolled back.
	// If fn returns nil, transaction is committed.
	// fn must only use the Store it is given.
	WithTx(ctx context.Context, fn func(Store) error) error
}
