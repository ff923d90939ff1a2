/*
Package notify delivers engine events and due-date reminders outside the
process.

PURPOSE:
  AMQPPublisher implements finance.Publisher on RabbitMQ: every committed
  balance change is published as JSON to a durable topic exchange with the
  event type as routing key (payment.applied, interest.posted,
  account.reset). EmailReminder implements finance.Reminder over SMTP.
  LogPublisher and LogReminder are the fallbacks when neither is
  configured.

SEE ALSO:
  - finance/events.go: Event, Publisher, Reminder
  - cmd/server/main.go: Wiring from config
*/
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
	"github.com/warp/finance-engine/finance"
)

const publishTimeout = 5 * time.Second

// channel is the subset of *amqp091.Channel the publisher needs.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// AMQPPublisher publishes events to a topic exchange.
type AMQPPublisher struct {
	conn     *amqp091.Connection
	ch       channel
	exchange string
	log      logrus.FieldLogger
}

var _ finance.Publisher = (*AMQPPublisher)(nil)

// DialAMQP connects to the broker and declares the exchange.
func DialAMQP(url, exchange string, log logrus.FieldLogger) (*AMQPPublisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	p := newAMQPPublisher(ch, exchange, log)
	p.conn = conn
	return p, nil
}

func newAMQPPublisher(ch channel, exchange string, log logrus.FieldLogger) *AMQPPublisher {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &AMQPPublisher{ch: ch, exchange: exchange, log: log}
}

// Publish sends e as a persistent JSON message.
func (p *AMQPPublisher) Publish(ctx context.Context, e finance.Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.ch.PublishWithContext(
		ctx,
		p.exchange,     // exchange
		string(e.Type), // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    e.OccurredAt,
			Type:         string(e.Type),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", e.Type, err)
	}

	p.log.WithFields(logrus.Fields{
		"event":            e.Type,
		"payee_account_id": e.PayeeAccountID,
		"exchange":         p.exchange,
	}).Debug("event published")
	return nil
}

// Close closes the channel and the connection.
func (p *AMQPPublisher) Close() error {
	if p.ch != nil {
		p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// LogPublisher writes events to the log instead of a broker.
type LogPublisher struct {
	Log logrus.FieldLogger
}

func (p LogPublisher) Publish(_ context.Context, e finance.Event) error {
	p.Log.WithFields(logrus.Fields{
		"event":            e.Type,
		"payee_account_id": e.PayeeAccountID,
		"payment_id":       e.PaymentID,
		"period":           e.Period,
		"amount":           e.Amount.StringFixed(2),
		"current_balance":  e.CurrentBalance.StringFixed(2),
	}).Info("event")
	return nil
}
