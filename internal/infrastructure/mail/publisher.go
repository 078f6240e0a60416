// Package mail publishes email events to a Kafka topic. A separate mail
// worker consumes the topic and sends the actual messages, so the API never
// blocks on SMTP.
package mail

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/contactbook/backend/internal/infrastructure/config"
)

// EventType identifies the kind of mail to send
type EventType string

const (
	// EventConfirmRegistration asks the worker to send a confirmation link
	EventConfirmRegistration EventType = "confirm_registration"
)

// Event is the message published for each outgoing mail
type Event struct {
	Type     EventType `json:"type"`
	UserID   uint      `json:"user_id"`
	Email    string    `json:"email"`
	Username string    `json:"username"`
	Token    string    `json:"token"`
}

// Publisher publishes mail events
type Publisher interface {
	PublishConfirmation(ctx context.Context, userID uint, email, username, token string) error
	Close() error
}

// KafkaPublisher publishes mail events to Kafka
type KafkaPublisher struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewKafkaPublisher creates a publisher writing to the configured broker and topic
func NewKafkaPublisher(cfg config.MailConfig, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Broker),
			Topic:        cfg.Topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
			Async:        false,
			WriteTimeout: 10 * time.Second,
		},
		logger: logger.Named("mail"),
	}
}

// PublishConfirmation publishes a confirmation-mail event keyed by user ID
func (p *KafkaPublisher) PublishConfirmation(ctx context.Context, userID uint, email, username, token string) error {
	event := Event{
		Type:     EventConfirmRegistration,
		UserID:   userID,
		Email:    email,
		Username: username,
		Token:    token,
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal mail event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(userID), 10)),
		Value: value,
		Time:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to publish mail event: %w", err)
	}

	p.logger.Info("Mail event published",
		zap.String("type", string(event.Type)),
		zap.Uint("user_id", userID),
	)
	return nil
}

// Close flushes and closes the underlying writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops all events. Used when mail delivery is disabled.
type NopPublisher struct {
	logger *zap.Logger
}

// NewNopPublisher creates a publisher that only logs
func NewNopPublisher(logger *zap.Logger) *NopPublisher {
	return &NopPublisher{logger: logger.Named("mail")}
}

// PublishConfirmation logs and discards the event
func (p *NopPublisher) PublishConfirmation(_ context.Context, userID uint, email, _, _ string) error {
	p.logger.Debug("Mail delivery disabled, dropping confirmation event",
		zap.Uint("user_id", userID),
		zap.String("email", email),
	)
	return nil
}

// Close is a no-op
func (p *NopPublisher) Close() error { return nil }

var (
	_ Publisher = (*KafkaPublisher)(nil)
	_ Publisher = (*NopPublisher)(nil)
)
