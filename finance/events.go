package finance

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// EVENTS - Published after a write commits
// =============================================================================

type EventType string

const (
	EventPaymentApplied EventType = "payment.applied"
	EventInterestPosted EventType = "interest.posted"
	EventAccountReset   EventType = "account.reset"
)

// Event describes a committed balance change on a payee account.
type Event struct {
	Type           EventType       `json:"type"`
	PayeeAccountID string          `json:"payee_account_id"`
	PaymentID      string          `json:"payment_id,omitempty"`
	Period         string          `json:"period,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	OccurredAt     time.Time       `json:"occurred_at"`
}

// Publisher delivers events to downstream consumers.
// Delivery is best effort; the Service logs and drops publish errors.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// NopPublisher discards every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Reminder notifies the user that a payee account is coming due.
type Reminder interface {
	RemindDue(ctx context.Context, a PayeeAccount, rec Recommendation) error
}
