package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap/zaptest"

	"github.com/proGsa/travel-booking/internal/core/domain"
	"github.com/proGsa/travel-booking/internal/infra/config"
)

type fakeAsyncProducer struct {
	input  chan *sarama.ProducerMessage
	errors chan *sarama.ProducerError
}

func newFakeAsyncProducer() *fakeAsyncProducer {
	return &fakeAsyncProducer{
		input:  make(chan *sarama.ProducerMessage, 1),
		errors: make(chan *sarama.ProducerError, 1),
	}
}

func (f *fakeAsyncProducer) AsyncClose() {}

func (f *fakeAsyncProducer) Close() error { return nil }

func (f *fakeAsyncProducer) Input() chan<- *sarama.ProducerMessage { return f.input }

func (f *fakeAsyncProducer) Successes() <-chan *sarama.ProducerMessage { return nil }

func (f *fakeAsyncProducer) Errors() <-chan *sarama.ProducerError { return f.errors }

func (f *fakeAsyncProducer) IsTransactional() bool { return false }

func (f *fakeAsyncProducer) BeginTxn() error { return nil }

func (f *fakeAsyncProducer) CommitTxn() error { return nil }

func (f *fakeAsyncProducer) AbortTxn() error { return nil }

func (f *fakeAsyncProducer) AddOffsetsToTxn(offsets map[string][]*sarama.PartitionOffsetMetadata, groupID string) error {
	return nil
}

func (f *fakeAsyncProducer) AddMessageToTxn(msg *sarama.ConsumerMessage, groupID string, metadata *string) error {
	return nil
}

func (f *fakeAsyncProducer) TxnStatus() sarama.ProducerTxnStatusFlag {
	return sarama.ProducerTxnStatusFlag(0)
}

func newTestPublisher(t *testing.T, async *fakeAsyncProducer) *EventPublisher {
	t.Helper()

	producer := &Producer{
		producer: async,
		logger:   zaptest.NewLogger(t),
		cfg: config.KafkaSettings{
			TopicPrefix: "travel",
		},
		errChan: make(chan error, 1),
		done:    make(chan struct{}),
	}

	return NewEventPublisher(producer, config.AppSettings{
		Name: "travel-booking",
		Env:  "test",
	}, zaptest.NewLogger(t))
}

func TestPublishAccountLocked(t *testing.T) {
	asyncProducer := newFakeAsyncProducer()
	publisher := newTestPublisher(t, asyncProducer)

	lockedAt := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	event := domain.AccountLockedEvent{
		EventID:  "event-123",
		Login:    "techuser_block",
		Failures: 5,
		LockedAt: lockedAt,
		IP:       "203.0.113.7",
	}

	if err := publisher.PublishAccountLocked(context.Background(), event); err != nil {
		t.Fatalf("PublishAccountLocked returned error: %v", err)
	}

	select {
	case msg := <-asyncProducer.input:
		if msg.Topic != "travel.security.account.locked" {
			t.Fatalf("unexpected topic: %s", msg.Topic)
		}

		bytes, err := msg.Value.Encode()
		if err != nil {
			t.Fatalf("Value.Encode returned error: %v", err)
		}

		var envelope map[string]any
		if err := json.Unmarshal(bytes, &envelope); err != nil {
			t.Fatalf("failed to unmarshal envelope: %v", err)
		}

		if got := envelope["event_type"]; got != "security.account.locked" {
			t.Fatalf("unexpected event_type: %v", got)
		}
		if got := envelope["event_id"]; got != "event-123" {
			t.Fatalf("unexpected event_id: %v", got)
		}
		if got := envelope["subject"]; got != "techuser_block" {
			t.Fatalf("unexpected subject: %v", got)
		}

		payload, ok := envelope["payload"].(map[string]any)
		if !ok {
			t.Fatalf("payload not an object: %T", envelope["payload"])
		}
		if got := payload["failures"]; got != float64(5) {
			t.Fatalf("unexpected failures: %v", got)
		}
		if got := payload["ip"]; got != "203.0.113.0" {
			t.Fatalf("expected masked ip, got %v", got)
		}
	default:
		t.Fatalf("expected message on producer input channel")
	}
}

func TestPublishTwoFactorIssuedMasksContact(t *testing.T) {
	asyncProducer := newFakeAsyncProducer()
	publisher := newTestPublisher(t, asyncProducer)

	issuedAt := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	event := domain.TwoFactorIssuedEvent{
		UserID:    42,
		Login:     "techuser_2fa",
		Delivery:  "email",
		Contact:   "techuser@example.com",
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(10 * time.Minute),
	}

	if err := publisher.PublishTwoFactorIssued(context.Background(), event); err != nil {
		t.Fatalf("PublishTwoFactorIssued returned error: %v", err)
	}

	msg := <-asyncProducer.input

	bytes, err := msg.Value.Encode()
	if err != nil {
		t.Fatalf("Value.Encode returned error: %v", err)
	}

	var envelope map[string]any
	if err := json.Unmarshal(bytes, &envelope); err != nil {
		t.Fatalf("failed to unmarshal envelope: %v", err)
	}

	payload := envelope["payload"].(map[string]any)
	if got := payload["contact"]; got != "t***@example.com" {
		t.Fatalf("expected masked contact, got %v", got)
	}
}

func TestTopicName(t *testing.T) {
	producer := &Producer{cfg: config.KafkaSettings{TopicPrefix: "travel"}}

	if got := producer.TopicName("security.account.locked"); got != "travel.security.account.locked" {
		t.Fatalf("unexpected topic: %s", got)
	}
	if got := producer.TopicName("travel.security.account.locked"); got != "travel.security.account.locked" {
		t.Fatalf("expected prefix not to double, got %s", got)
	}

	bare := &Producer{cfg: config.KafkaSettings{}}
	if got := bare.TopicName("security.account.locked"); got != "security.account.locked" {
		t.Fatalf("unexpected topic without prefix: %s", got)
	}
}
