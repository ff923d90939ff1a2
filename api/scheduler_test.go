package api

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/finance-engine/finance"
)

type countingReminder struct {
	ids []string
}

func (r *countingReminder) RemindDue(_ context.Context, a finance.PayeeAccount, _ finance.Recommendation) error {
	r.ids = append(r.ids, a.ID)
	return nil
}

func TestScheduler_RunNowUsesToday(t *testing.T) {
	s := newTestServer(t)
	card := s.createCard("1000")
	logger, _ := test.NewNullLogger()
	sched := NewAccrualScheduler(s.svc, logger)

	summary, err := sched.RunNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, "2025-03", summary.Period.String())

	// Same month: skipped
	summary, err = sched.RunNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Skipped)

	acct, err := s.store.GetPayeeAccount(context.Background(), card.ID)
	require.NoError(t, err)
	assertDec(t, "1010", acct.CurrentBalance)
}

func TestScheduler_RemindNow(t *testing.T) {
	s := newTestServer(t)
	card := s.createCard("250") // due in ten days
	logger, _ := test.NewNullLogger()
	sched := NewAccrualScheduler(s.svc, logger)

	sent, err := sched.RemindNow(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent, "no reminder configured")

	r := &countingReminder{}
	sched.Reminder = r
	sent, err = sched.RemindNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, []string{card.ID}, r.ids)
}

func TestScheduler_StartStop(t *testing.T) {
	s := newTestServer(t)
	logger, _ := test.NewNullLogger()
	sched := NewAccrualScheduler(s.svc, logger)
	sched.Reminder = &countingReminder{}

	assert.True(t, sched.NextRun().IsZero())
	require.NoError(t, sched.Start())
	assert.False(t, sched.NextRun().IsZero())
	assert.Error(t, sched.Start(), "double start")

	sched.Stop()
	assert.True(t, sched.NextRun().IsZero())
	sched.Stop()
}

func TestScheduler_InvalidSpec(t *testing.T) {
	s := newTestServer(t)
	logger, _ := test.NewNullLogger()
	sched := NewAccrualScheduler(s.svc, logger)
	sched.AccrualSpec = "whenever"

	assert.Error(t, sched.Start())
	assert.True(t, sched.NextRun().IsZero())
}

func TestScheduler_NextRunIsAccrualJob(t *testing.T) {
	s := newTestServer(t)
	logger, _ := test.NewNullLogger()
	sched := NewAccrualScheduler(s.svc, logger)
	sched.Reminder = &countingReminder{}
	sched.ReminderSpec = "* * * * *"

	require.NoError(t, sched.Start())
	defer sched.Stop()

	// The reminder fires every minute; NextRun still reports the 02:00 accrual
	next := sched.NextRun()
	require.False(t, next.IsZero())
	assert.Equal(t, 2, next.Hour())
	assert.Equal(t, 0, next.Minute())
}
