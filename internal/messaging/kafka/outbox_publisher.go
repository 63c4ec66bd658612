package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dkomarov/crm/internal/domain"
)

// OutboxTopicPublisher публикует outbox-сообщения в Kafka, выбирая topic
// по типу агрегата: события клиентов и заказов уходят в разные topics.
type OutboxTopicPublisher struct {
	producer     *Producer
	defaultTopic string
}

// NewOutboxPublisher создаёт Kafka-паблишер для transactional outbox.
func NewOutboxPublisher(producer *Producer, defaultTopic string) domain.OutboxPublisher {
	if defaultTopic == "" {
		defaultTopic = TopicOrderEvents
	}
	return &OutboxTopicPublisher{
		producer:     producer,
		defaultTopic: defaultTopic,
	}
}

func (p *OutboxTopicPublisher) Publish(event domain.OutboxMessage) error {
	if p == nil || p.producer == nil {
		return fmt.Errorf("kafka outbox publisher is not initialized")
	}

	key := event.AggregateID
	if key == "" {
		key = event.ID
	}

	envelope := struct {
		ID            string          `json:"id"`
		AggregateType string          `json:"aggregate_type"`
		AggregateID   string          `json:"aggregate_id"`
		EventType     string          `json:"event_type"`
		Payload       json.RawMessage `json:"payload"`
		PublishedAt   time.Time       `json:"published_at"`
	}{
		ID:            event.ID,
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		EventType:     event.EventType,
		Payload:       json.RawMessage(event.Payload),
		PublishedAt:   time.Now().UTC(),
	}

	return p.producer.PublishEvent(p.topicFor(event), key, envelope)
}

func (p *OutboxTopicPublisher) topicFor(event domain.OutboxMessage) string {
	switch event.AggregateType {
	case "customer":
		return TopicCustomerEvents
	case "order":
		return TopicOrderEvents
	default:
		return p.defaultTopic
	}
}

var _ domain.OutboxPublisher = (*OutboxTopicPublisher)(nil)
