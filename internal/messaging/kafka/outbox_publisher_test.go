package kafka

import (
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	log "github.com/sirupsen/logrus"

	"github.com/dkomarov/crm/internal/domain"
)

func TestOutboxPublisher_Publish(t *testing.T) {
	t.Parallel()

	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageAndSucceed()

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-outbox-publisher-test"),
	}
	publisher := NewOutboxPublisher(producer, TopicOrderEvents)

	err := publisher.Publish(domain.OutboxMessage{
		ID:            "outbox-1",
		AggregateType: "order",
		AggregateID:   "order-123",
		EventType:     string(EventTypeOrderCreated),
		Payload:       []byte(`{"total_amount":"19.99"}`),
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestOutboxPublisher_PublishProducerError(t *testing.T) {
	t.Parallel()

	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-outbox-publisher-test"),
	}
	publisher := NewOutboxPublisher(producer, TopicOrderEvents)

	err := publisher.Publish(domain.OutboxMessage{
		ID:            "outbox-2",
		AggregateType: "customer",
		AggregateID:   "customer-42",
		EventType:     string(EventTypeCustomerCreated),
		Payload:       []byte(`{"email":"alice@example.com"}`),
	})
	if err == nil {
		t.Fatal("expected publish error, got nil")
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestOutboxPublisher_PublishNilProducer(t *testing.T) {
	t.Parallel()

	publisher := NewOutboxPublisher(nil, TopicOrderEvents)
	if err := publisher.Publish(domain.OutboxMessage{ID: "outbox-3"}); err == nil {
		t.Fatal("expected error for nil producer")
	}
}

func TestOutboxPublisher_TopicRouting(t *testing.T) {
	t.Parallel()

	publisher := &OutboxTopicPublisher{defaultTopic: "crm.misc.events"}

	tests := []struct {
		aggregateType string
		wantTopic     string
	}{
		{"customer", TopicCustomerEvents},
		{"order", TopicOrderEvents},
		{"unknown", "crm.misc.events"},
	}

	for _, tt := range tests {
		got := publisher.topicFor(domain.OutboxMessage{AggregateType: tt.aggregateType})
		if got != tt.wantTopic {
			t.Errorf("topicFor(%s) = %q, want %q", tt.aggregateType, got, tt.wantTopic)
		}
	}
}
