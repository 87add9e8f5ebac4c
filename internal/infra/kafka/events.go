package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/proGsa/travel-booking/internal/core/domain"
	"github.com/proGsa/travel-booking/internal/core/port"
	"github.com/proGsa/travel-booking/internal/infra/config"
	"github.com/proGsa/travel-booking/internal/infra/logger"
)

const schemaVersion = "1.0"

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, log *zap.Logger) *EventPublisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: log}
}

type envelopeMetadata map[string]string

type eventEnvelope struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	Subject   string           `json:"subject,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Version   string           `json:"version"`
	Payload   any              `json:"payload"`
	Metadata  envelopeMetadata `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType, subject string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	metadata := envelopeMetadata{
		"service":     p.appCfg.Name,
		"environment": p.appCfg.Env,
	}

	if span := trace.SpanFromContext(ctx); span != nil {
		if sc := span.SpanContext(); sc.IsValid() {
			metadata["trace_id"] = sc.TraceID().String()
		}
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		Subject:   subject,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata:  metadata,
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishUserRegistered publishes security.user.registered events.
func (p *EventPublisher) PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error {
	payload := struct {
		UserID       int64          `json:"user_id"`
		Login        string         `json:"login"`
		Email        string         `json:"email,omitempty"`
		RegisteredAt time.Time      `json:"registered_at"`
		Metadata     map[string]any `json:"metadata,omitempty"`
	}{
		UserID:       event.UserID,
		Login:        event.Login,
		Email:        logger.MaskEmail(event.Email),
		RegisteredAt: event.RegisteredAt.UTC(),
		Metadata:     event.Metadata,
	}

	return p.publish(ctx, event.EventID, "security.user.registered", event.Login, event.RegisteredAt, payload)
}

// PublishAccountLocked publishes security.account.locked events.
func (p *EventPublisher) PublishAccountLocked(ctx context.Context, event domain.AccountLockedEvent) error {
	payload := struct {
		Login    string    `json:"login"`
		Failures int       `json:"failures"`
		LockedAt time.Time `json:"locked_at"`
		IP       string    `json:"ip,omitempty"`
	}{
		Login:    event.Login,
		Failures: event.Failures,
		LockedAt: event.LockedAt.UTC(),
		IP:       logger.MaskIP(event.IP),
	}

	return p.publish(ctx, event.EventID, "security.account.locked", event.Login, event.LockedAt, payload)
}

// PublishAccountRecovered publishes security.account.recovered events.
func (p *EventPublisher) PublishAccountRecovered(ctx context.Context, event domain.AccountRecoveredEvent) error {
	payload := struct {
		Login       string    `json:"login"`
		RecoveredAt time.Time `json:"recovered_at"`
		IP          string    `json:"ip,omitempty"`
	}{
		Login:       event.Login,
		RecoveredAt: event.RecoveredAt.UTC(),
		IP:          logger.MaskIP(event.IP),
	}

	return p.publish(ctx, event.EventID, "security.account.recovered", event.Login, event.RecoveredAt, payload)
}

// PublishTwoFactorIssued publishes security.twofactor.issued events.
// The code itself never enters the payload.
func (p *EventPublisher) PublishTwoFactorIssued(ctx context.Context, event domain.TwoFactorIssuedEvent) error {
	payload := struct {
		UserID    int64     `json:"user_id"`
		Login     string    `json:"login"`
		Delivery  string    `json:"delivery"`
		Contact   string    `json:"contact,omitempty"`
		IssuedAt  time.Time `json:"issued_at"`
		ExpiresAt time.Time `json:"expires_at"`
	}{
		UserID:    event.UserID,
		Login:     event.Login,
		Delivery:  event.Delivery,
		Contact:   logger.MaskEmail(event.Contact),
		IssuedAt:  event.IssuedAt.UTC(),
		ExpiresAt: event.ExpiresAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "security.twofactor.issued", event.Login, event.IssuedAt, payload)
}

// PublishPasswordChanged publishes security.password.changed events.
func (p *EventPublisher) PublishPasswordChanged(ctx context.Context, event domain.PasswordChangedEvent) error {
	payload := struct {
		UserID    int64          `json:"user_id"`
		Login     string         `json:"login"`
		ChangedAt time.Time      `json:"changed_at"`
		Metadata  map[string]any `json:"metadata,omitempty"`
	}{
		UserID:    event.UserID,
		Login:     event.Login,
		ChangedAt: event.ChangedAt.UTC(),
		Metadata:  event.Metadata,
	}

	return p.publish(ctx, event.EventID, "security.password.changed", event.Login, event.ChangedAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
