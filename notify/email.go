package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
	"github.com/warp/finance-engine/finance"
)

// SMTPConfig holds the mail server settings for reminders.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	To       []string
}

// EmailReminder sends due-date reminders by email.
type EmailReminder struct {
	cfg  SMTPConfig
	log  logrus.FieldLogger
	send func(e *email.Email) error
}

var _ finance.Reminder = (*EmailReminder)(nil)

// NewEmailReminder creates a reminder that sends through cfg.
func NewEmailReminder(cfg SMTPConfig, log logrus.FieldLogger) *EmailReminder {
	if log == nil {
		log = logrus.StandardLogger()
	}
	r := &EmailReminder{cfg: cfg, log: log}
	r.send = r.sendSMTP
	return r
}

// RemindDue emails a reminder for a with the recommended payment.
func (r *EmailReminder) RemindDue(_ context.Context, a finance.PayeeAccount, rec finance.Recommendation) error {
	e := buildDueReminder(r.cfg, a, rec)
	if err := r.send(e); err != nil {
		return fmt.Errorf("send reminder for %s: %w", a.ID, err)
	}
	r.log.WithFields(logrus.Fields{
		"payee_account_id": a.ID,
		"to":               strings.Join(r.cfg.To, ","),
	}).Info("reminder sent")
	return nil
}

func (r *EmailReminder) sendSMTP(e *email.Email) error {
	addr := fmt.Sprintf("%s:%s", r.cfg.Host, r.cfg.Port)
	var auth smtp.Auth
	if r.cfg.Username != "" {
		auth = smtp.PlainAuth("", r.cfg.Username, r.cfg.Password, r.cfg.Host)
	}
	return e.Send(addr, auth)
}

func buildDueReminder(cfg SMTPConfig, a finance.PayeeAccount, rec finance.Recommendation) *email.Email {
	e := email.NewEmail()
	e.From = cfg.From
	e.To = cfg.To

	due := "soon"
	if a.DueDate != nil {
		due = "on " + a.DueDate.Format(finance.DateLayout)
	}
	e.Subject = fmt.Sprintf("Payment reminder: %s due %s", a.Label, due)

	var b strings.Builder
	fmt.Fprintf(&b, "Your %s account %q is due %s.\n\n", a.Category, a.Label, due)
	fmt.Fprintf(&b, "Current balance: %s\n", a.CurrentBalance.StringFixed(2))
	if a.InterestType == finance.InterestLoan || a.InterestType == finance.InterestCompound {
		fmt.Fprintf(&b, "Accrued interest: %s\n", a.AccruedInterest.StringFixed(2))
	}
	if rec.Basis != finance.BasisUnspecified {
		fmt.Fprintf(&b, "Recommended payment: %s (%s)\n", rec.Amount.StringFixed(2), describeBasis(rec.Basis))
	}
	if a.RequireMinPayment && a.MinPaymentAmount.Valid {
		fmt.Fprintf(&b, "Minimum payment: %s\n", a.MinPaymentAmount.Decimal.StringFixed(2))
	}
	e.Text = []byte(b.String())
	return e
}

func describeBasis(b finance.RecommendationBasis) string {
	switch b {
	case finance.BasisAmortizedLoan:
		return "level payment over the loan term"
	case finance.BasisPromoPayoff:
		return "clears the balance before the promotion ends"
	case finance.BasisPromoMinimum:
		return "required minimum"
	case finance.BasisPayInFull:
		return "full statement balance"
	default:
		return string(b)
	}
}

// LogReminder logs reminders instead of sending them.
type LogReminder struct {
	Log logrus.FieldLogger
}

func (r LogReminder) RemindDue(_ context.Context, a finance.PayeeAccount, rec finance.Recommendation) error {
	fields := logrus.Fields{
		"payee_account_id": a.ID,
		"label":            a.Label,
		"current_balance":  a.CurrentBalance.StringFixed(2),
		"recommended":      rec.Amount.StringFixed(2),
		"basis":            rec.Basis,
	}
	if a.DueDate != nil {
		fields["due_date"] = a.DueDate.Format(finance.DateLayout)
	}
	r.Log.WithFields(fields).Info("payment due")
	return nil
}
