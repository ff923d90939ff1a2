package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jordan-wright/email"
	"github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/finance-engine/finance"
)

type published struct {
	exchange, key string
	msg           amqp091.Publishing
}

type fakeChannel struct {
	sent   []published
	err    error
	closed bool
}

func (c *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp091.Publishing) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func TestAMQPPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	logger, _ := test.NewNullLogger()
	p := newAMQPPublisher(ch, "finance.events", logger)

	e := finance.Event{
		Type:           finance.EventPaymentApplied,
		PayeeAccountID: "acct-1",
		PaymentID:      "pay-1",
		Amount:         decimal.RequireFromString("50"),
		CurrentBalance: decimal.RequireFromString("960"),
		OccurredAt:     time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p.Publish(context.Background(), e))

	require.Len(t, ch.sent, 1)
	got := ch.sent[0]
	assert.Equal(t, "finance.events", got.exchange)
	assert.Equal(t, "payment.applied", got.key)
	assert.Equal(t, "application/json", got.msg.ContentType)
	assert.Equal(t, amqp091.Persistent, got.msg.DeliveryMode)

	var body map[string]any
	require.NoError(t, json.Unmarshal(got.msg.Body, &body))
	assert.Equal(t, "acct-1", body["payee_account_id"])
	assert.Equal(t, "pay-1", body["payment_id"])

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestAMQPPublisher_PublishError(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel/connection is not open")}
	p := newAMQPPublisher(ch, "finance.events", nil)

	err := p.Publish(context.Background(), finance.Event{Type: finance.EventInterestPosted})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interest.posted")
}

func dueCard() finance.PayeeAccount {
	due := finance.Date(2025, time.March, 28)
	return finance.PayeeAccount{
		ID:                "acct-1",
		Label:             "Rewards Visa",
		Category:          finance.CategoryCreditCard,
		InterestType:      finance.InterestCompound,
		CurrentBalance:    decimal.RequireFromString("1200"),
		AccruedInterest:   decimal.RequireFromString("12"),
		DueDate:           &due,
		RequireMinPayment: true,
		MinPaymentAmount:  decimal.NewNullDecimal(decimal.RequireFromString("35")),
	}
}

func TestBuildDueReminder(t *testing.T) {
	cfg := SMTPConfig{From: "bills@example.com", To: []string{"me@example.com"}}
	rec := finance.Recommendation{Amount: decimal.RequireFromString("200"), Basis: finance.BasisPromoPayoff}

	e := buildDueReminder(cfg, dueCard(), rec)
	assert.Equal(t, "bills@example.com", e.From)
	assert.Equal(t, []string{"me@example.com"}, e.To)
	assert.Equal(t, "Payment reminder: Rewards Visa due on 2025-03-28", e.Subject)

	body := string(e.Text)
	assert.Contains(t, body, "Current balance: 1200.00")
	assert.Contains(t, body, "Accrued interest: 12.00")
	assert.Contains(t, body, "Recommended payment: 200.00")
	assert.Contains(t, body, "Minimum payment: 35.00")
}

func TestBuildDueReminder_NoRecommendation(t *testing.T) {
	a := dueCard()
	a.DueDate = nil
	e := buildDueReminder(SMTPConfig{}, a, finance.Recommendation{Basis: finance.BasisUnspecified})
	assert.Contains(t, e.Subject, "due soon")
	assert.NotContains(t, string(e.Text), "Recommended payment")
}

func TestEmailReminder_SendFailureIsReturned(t *testing.T) {
	logger, hook := test.NewNullLogger()
	r := NewEmailReminder(SMTPConfig{Host: "localhost", Port: "25"}, logger)
	refused := errors.New("connection refused")
	r.send = func(*email.Email) error { return refused }

	err := r.RemindDue(context.Background(), dueCard(), finance.Recommendation{})
	require.ErrorIs(t, err, refused)
	assert.Contains(t, err.Error(), "acct-1")
	assert.Empty(t, hook.AllEntries(), "the caller logs the failure")
}

func TestEmailReminder_Sends(t *testing.T) {
	logger, hook := test.NewNullLogger()
	r := NewEmailReminder(SMTPConfig{To: []string{"me@example.com"}}, logger)
	var sent *email.Email
	r.send = func(e *email.Email) error { sent = e; return nil }

	require.NoError(t, r.RemindDue(context.Background(), dueCard(), finance.Recommendation{}))
	require.NotNil(t, sent)
	assert.Equal(t, "reminder sent", hook.LastEntry().Message)
}

func TestLogFallbacks(t *testing.T) {
	logger, hook := test.NewNullLogger()

	require.NoError(t, LogPublisher{Log: logger}.Publish(context.Background(), finance.Event{
		Type: finance.EventAccountReset, PayeeAccountID: "acct-2",
	}))
	assert.Equal(t, finance.EventAccountReset, hook.LastEntry().Data["event"])

	require.NoError(t, LogReminder{Log: logger}.RemindDue(context.Background(), dueCard(), finance.Recommendation{}))
	assert.Equal(t, "2025-03-28", hook.LastEntry().Data["due_date"])
}
