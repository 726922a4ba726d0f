package notify

import (
	"context"
	"counsel/pkg/kafka"
	"counsel/pkg/logger"
	"errors"
	"fmt"
	"time"
)

const (
	EventTypeEmailRequested = "email.requested"
	schemaVersion           = "1"
)

var ErrNoRecipient = errors.New("notification recipient is empty")

// Notifier delivers a plain-text message to one address.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Publisher is satisfied by *kafka.Producer.
type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// EmailRequest is the payload consumed by the mail delivery service.
type EmailRequest struct {
	To          string    `json:"to"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	RequestedAt time.Time `json:"requested_at"`
}

// KafkaNotifier hands emails off to a delivery service over Kafka.
type KafkaNotifier struct {
	publisher Publisher
	source    string
	now       func() time.Time
}

func NewKafkaNotifier(publisher Publisher, source string) *KafkaNotifier {
	return &KafkaNotifier{publisher: publisher, source: source, now: time.Now}
}

func (n *KafkaNotifier) Send(ctx context.Context, to, subject, body string) error {
	if to == "" {
		return ErrNoRecipient
	}

	msg, err := kafka.NewMessage().
		WithKey(to).
		WithValue(EmailRequest{
			To:          to,
			Subject:     subject,
			Body:        body,
			RequestedAt: n.now().UTC(),
		}).
		WithEventType(EventTypeEmailRequested).
		WithSchemaVersion(schemaVersion).
		WithSource(n.source).
		Build()
	if err != nil {
		return err
	}

	if err := n.publisher.Publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish email request: %w", err)
	}
	return nil
}

// LogNotifier writes notifications to the log instead of delivering them.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Send(ctx context.Context, to, subject, body string) error {
	if to == "" {
		return ErrNoRecipient
	}
	n.log.Info("Notification", "to", to, "subject", subject, "body_length", len(body))
	return nil
}
