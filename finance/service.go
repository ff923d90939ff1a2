/*
service.go - Orchestrates the engine against a Store

PURPOSE:
  Wraps the pure engine functions with loading, validation, persistence
  and event publishing. Handlers and the scheduler call the Service; they
  never run Accrue or ApplyPayment themselves.

UNITS OF WORK:
  RecordPayment  one transaction: payment row + payee account
  RunAccrual     one transaction PER ACCOUNT; a failing account is logged,
                 recorded as a failed run and skipped, the rest continue
  Deposit        one transaction: deposit row + account balance
  Transfer       one transaction: transfer row + both balances

CONCURRENCY:
  No row locking or version checks. Concurrent writes to the same payee
  account are only as safe as the store's default isolation level.

SEE ALSO:
  - accrual.go, payment.go: The engine
  - api/scheduler.go: Calls RunAccrual and SendDueReminders on a schedule
*/
package finance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Service runs engine operations against a TxStore.
type Service struct {
	store  TxStore
	events Publisher
	log    logrus.FieldLogger

	// Now is the clock used for CreatedAt/UpdatedAt stamps and default dates.
	Now func() time.Time
}

// NewService creates a service. events and log may be nil.
func NewService(store TxStore, events Publisher, log logrus.FieldLogger) *Service {
	if events == nil {
		events = NopPublisher{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		store:  store,
		events: events,
		log:    log,
		Now:    time.Now,
	}
}

// Store returns the underlying store.
func (s *Service) Store() TxStore { return s.store }

func (s *Service) today() time.Time { return DateOf(s.Now()) }

func (s *Service) publish(ctx context.Context, e Event) {
	if err := s.events.Publish(ctx, e); err != nil {
		s.log.WithFields(logrus.Fields{
			"event":            e.Type,
			"payee_account_id": e.PayeeAccountID,
		}).WithError(err).Warn("failed to publish event")
	}
}

// =============================================================================
// PAYMENTS
// =============================================================================

// PaymentInput is a payment to record against a payee account.
type PaymentInput struct {
	CheckingAccountID string
	PayeeAccountID    string
	Amount            decimal.Decimal
	Date              time.Time // zero = today
}

// RecordPayment stores the payment and applies it to the payee account in
// one transaction. Missing accounts are rejected before any balance moves.
func (s *Service) RecordPayment(ctx context.Context, in PaymentInput) (*Payment, *PayeeAccount, error) {
	if in.Amount.IsNegative() {
		return nil, nil, ErrNegativePayment
	}
	if strings.TrimSpace(in.CheckingAccountID) == "" {
		return nil, nil, invalid("checking_account_id", "is required")
	}
	if strings.TrimSpace(in.PayeeAccountID) == "" {
		return nil, nil, invalid("payee_account_id", "is required")
	}
	date := in.Date
	if date.IsZero() {
		date = s.today()
	}

	var (
		payment Payment
		updated PayeeAccount
	)
	err := s.store.WithTx(ctx, func(tx Store) error {
		if _, err := tx.GetAccount(ctx, in.CheckingAccountID); err != nil {
			return err
		}
		acct, err := tx.GetPayeeAccount(ctx, in.PayeeAccountID)
		if err != nil {
			return err
		}

		alloc, err := ApplyPayment(acct, in.Amount)
		if err != nil {
			return err
		}

		now := s.Now().UTC()
		acct.UpdatedAt = now
		payment = Payment{
			ID:                uuid.NewString(),
			CheckingAccountID: in.CheckingAccountID,
			PayeeAccountID:    acct.ID,
			Amount:            round2(in.Amount),
			Date:              DateOf(date),
			ToInterest:        alloc.ToInterest,
			ToPrincipal:       alloc.ToPrincipal,
			Unapplied:         alloc.Unapplied,
			CreatedAt:         now,
		}
		if err := tx.SavePayment(ctx, payment); err != nil {
			return fmt.Errorf("save payment: %w", err)
		}
		if err := tx.SavePayeeAccount(ctx, *acct); err != nil {
			return fmt.Errorf("save payee account: %w", err)
		}
		updated = *acct
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.log.WithFields(logrus.Fields{
		"payment_id":       payment.ID,
		"payee_account_id": payment.PayeeAccountID,
		"amount":           payment.Amount.StringFixed(2),
		"to_interest":      payment.ToInterest.StringFixed(2),
		"to_principal":     payment.ToPrincipal.StringFixed(2),
	}).Info("payment applied")

	s.publish(ctx, Event{
		Type:           EventPaymentApplied,
		PayeeAccountID: payment.PayeeAccountID,
		PaymentID:      payment.ID,
		Amount:         payment.Amount,
		CurrentBalance: updated.CurrentBalance,
		OccurredAt:     payment.CreatedAt,
	})
	return &payment, &updated, nil
}

// =============================================================================
// ACCRUAL
// =============================================================================

// AccrualSummary counts the outcome of one batch run.
type AccrualSummary struct {
	AsOf           time.Time
	Period         Period
	Processed      int
	Skipped        int
	Failed         int
	InterestPosted decimal.Decimal
}

// RunAccrual accrues every payee account as of asOf. Each account is its own
// unit of work, so one failure never undoes another account's accrual.
// Per-account failures are logged and counted, not returned; the returned
// error is only for failing to list the accounts at all.
func (s *Service) RunAccrual(ctx context.Context, asOf time.Time) (AccrualSummary, error) {
	asOf = DateOf(asOf)
	summary := AccrualSummary{AsOf: asOf, Period: PeriodOf(asOf), InterestPosted: decimal.Zero}
	log := s.log.WithFields(logrus.Fields{"period": summary.Period.String(), "as_of": asOf.Format(DateLayout)})

	accounts, err := s.store.ListPayeeAccounts(ctx, "")
	if err != nil {
		return summary, fmt.Errorf("list payee accounts: %w", err)
	}

	for _, a := range accounts {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		res, err := s.AccrueAccount(ctx, a.ID, asOf)
		switch {
		case err != nil:
			summary.Failed++
		case res.Skipped:
			summary.Skipped++
		default:
			summary.Processed++
			summary.InterestPosted = summary.InterestPosted.Add(res.Interest)
		}
	}

	log.WithFields(logrus.Fields{
		"processed": summary.Processed,
		"skipped":   summary.Skipped,
		"failed":    summary.Failed,
		"interest":  summary.InterestPosted.StringFixed(2),
	}).Info("accrual run completed")
	return summary, nil
}

// AccrueAccount accrues a single payee account in its own transaction and
// records the run. Failures are logged and recorded as a failed run before
// being returned.
func (s *Service) AccrueAccount(ctx context.Context, id string, asOf time.Time) (Accrual, error) {
	asOf = DateOf(asOf)
	log := s.log.WithFields(logrus.Fields{"payee_account_id": id, "period": PeriodOf(asOf).String()})

	var (
		res     Accrual
		updated PayeeAccount
	)
	err := s.store.WithTx(ctx, func(tx Store) error {
		acct, err := tx.GetPayeeAccount(ctx, id)
		if err != nil {
			return err
		}
		res, err = Accrue(acct, asOf)
		if err != nil {
			return err
		}
		if res.Skipped {
			return nil
		}

		now := s.Now().UTC()
		acct.UpdatedAt = now
		if err := tx.SavePayeeAccount(ctx, *acct); err != nil {
			return fmt.Errorf("save payee account: %w", err)
		}
		run := AccrualRun{
			ID:             uuid.NewString(),
			PayeeAccountID: acct.ID,
			Period:         res.Period,
			AsOf:           asOf,
			InterestType:   acct.InterestType,
			Interest:       res.Interest,
			BalanceAfter:   acct.CurrentBalance,
			Status:         RunCompleted,
			CreatedAt:      now,
		}
		if err := tx.SaveAccrualRun(ctx, run); err != nil {
			return fmt.Errorf("save accrual run: %w", err)
		}
		updated = *acct
		return nil
	})
	if err != nil {
		log.WithError(err).Error("accrual failed")
		s.recordFailedRun(ctx, id, asOf, err)
		return res, err
	}
	if res.Skipped {
		log.Debug("already accrued this period")
		return res, nil
	}

	log.WithField("interest", res.Interest.StringFixed(2)).Debug("accrued")
	switch {
	case res.Reset:
		s.publish(ctx, Event{
			Type:           EventAccountReset,
			PayeeAccountID: id,
			Period:         res.Period.String(),
			Amount:         decimal.Zero,
			CurrentBalance: updated.CurrentBalance,
			OccurredAt:     updated.UpdatedAt,
		})
	case res.Interest.IsPositive():
		s.publish(ctx, Event{
			Type:           EventInterestPosted,
			PayeeAccountID: id,
			Period:         res.Period.String(),
			Amount:         res.Interest,
			CurrentBalance: updated.CurrentBalance,
			OccurredAt:     updated.UpdatedAt,
		})
	}
	return res, nil
}

func (s *Service) recordFailedRun(ctx context.Context, id string, asOf time.Time, cause error) {
	if IsNotFound(cause) {
		return
	}
	run := AccrualRun{
		ID:             uuid.NewString(),
		PayeeAccountID: id,
		Period:         PeriodOf(asOf),
		AsOf:           asOf,
		Interest:       decimal.Zero,
		BalanceAfter:   decimal.Zero,
		Status:         RunFailed,
		Error:          cause.Error(),
		CreatedAt:      s.Now().UTC(),
	}
	if err := s.store.SaveAccrualRun(ctx, run); err != nil {
		s.log.WithField("payee_account_id", id).WithError(err).Warn("failed to record failed accrual run")
	}
}

// =============================================================================
// BANK ACCOUNTS
// =============================================================================

// DepositInput is money arriving into one of the user's accounts.
type DepositInput struct {
	AccountID string
	Source    string
	Amount    decimal.Decimal
	Date      time.Time // zero = today
}

// Deposit records the deposit and raises the account balance.
func (s *Service) Deposit(ctx context.Context, in DepositInput) (*Deposit, error) {
	if !in.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if strings.TrimSpace(in.Source) == "" {
		return nil, invalid("source", "is required")
	}
	date := in.Date
	if date.IsZero() {
		date = s.today()
	}

	var dep Deposit
	err := s.store.WithTx(ctx, func(tx Store) error {
		acct, err := tx.GetAccount(ctx, in.AccountID)
		if err != nil {
			return err
		}
		dep = Deposit{
			ID:        uuid.NewString(),
			AccountID: acct.ID,
			Source:    strings.TrimSpace(in.Source),
			Amount:    round2(in.Amount),
			Date:      DateOf(date),
			CreatedAt: s.Now().UTC(),
		}
		acct.Balance = round2(acct.Balance.Add(dep.Amount))
		if err := tx.SaveDeposit(ctx, dep); err != nil {
			return fmt.Errorf("save deposit: %w", err)
		}
		return tx.SaveAccount(ctx, *acct)
	})
	if err != nil {
		return nil, err
	}
	return &dep, nil
}

// TransferInput moves money between two of the user's accounts.
type TransferInput struct {
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
	Date          time.Time // zero = today
}

// Transfer moves the amount atomically. It fails on the same account,
// a non-positive amount, or insufficient funds in the source account.
func (s *Service) Transfer(ctx context.Context, in TransferInput) (*Transfer, error) {
	if in.FromAccountID == in.ToAccountID {
		return nil, ErrSameAccount
	}
	if !in.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	date := in.Date
	if date.IsZero() {
		date = s.today()
	}
	amount := round2(in.Amount)

	var tr Transfer
	err := s.store.WithTx(ctx, func(tx Store) error {
		from, err := tx.GetAccount(ctx, in.FromAccountID)
		if err != nil {
			return err
		}
		to, err := tx.GetAccount(ctx, in.ToAccountID)
		if err != nil {
			return err
		}
		if from.Balance.LessThan(amount) {
			return &InsufficientFundsError{AccountID: from.ID, Available: from.Balance, Requested: amount}
		}

		from.Balance = round2(from.Balance.Sub(amount))
		to.Balance = round2(to.Balance.Add(amount))
		tr = Transfer{
			ID:            uuid.NewString(),
			FromAccountID: from.ID,
			ToAccountID:   to.ID,
			Amount:        amount,
			Date:          DateOf(date),
			CreatedAt:     s.Now().UTC(),
		}
		if err := tx.SaveTransfer(ctx, tr); err != nil {
			return fmt.Errorf("save transfer: %w", err)
		}
		if err := tx.SaveAccount(ctx, *from); err != nil {
			return err
		}
		return tx.SaveAccount(ctx, *to)
	})
	if err != nil {
		return nil, err
	}
	return &tr, nil
}

// =============================================================================
// DUE DATES
// =============================================================================

// DefaultDueWithinDays is the look-ahead window for upcoming due dates.
const DefaultDueWithinDays = 21

// UpcomingDue returns payee accounts due within withinDays of asOf.
func (s *Service) UpcomingDue(ctx context.Context, asOf time.Time, withinDays int) ([]PayeeAccount, error) {
	if withinDays < 0 {
		return nil, invalid("within_days", "must not be negative")
	}
	from := DateOf(asOf)
	return s.store.ListPayeeAccountsDue(ctx, from, from.AddDate(0, 0, withinDays))
}

// SendDueReminders notifies r about every account with a positive balance
// that is due within withinDays of asOf. It returns how many reminders went
// out; individual failures are logged and skipped.
func (s *Service) SendDueReminders(ctx context.Context, asOf time.Time, withinDays int, r Reminder) (int, error) {
	due, err := s.UpcomingDue(ctx, asOf, withinDays)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, a := range due {
		if !a.CurrentBalance.IsPositive() {
			continue
		}
		log := s.log.WithField("payee_account_id", a.ID)
		rec, err := Recommend(&a)
		if err != nil {
			log.WithError(err).Warn("cannot recommend payment")
			continue
		}
		if err := r.RemindDue(ctx, a, rec); err != nil {
			log.WithError(err).Error("failed to send due reminder")
			continue
		}
		sent++
	}
	return sent, nil
}
