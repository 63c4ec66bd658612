package memory_test

import (
	"testing"

	"github.com/dkomarov/crm/internal/domain"
	"github.com/dkomarov/crm/internal/storage/memory"
)

func TestOutboxRepository_EnqueuePullMark(t *testing.T) {
	repo := memory.NewOutboxRepository()

	first, err := repo.Enqueue(domain.OutboxMessage{
		AggregateType: "customer",
		AggregateID:   "c-1",
		EventType:     "crm.customer.created",
		Payload:       []byte(`{"id":"c-1"}`),
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if first.ID == "" {
		t.Fatal("expected enqueue to assign an id")
	}

	second, err := repo.Enqueue(domain.OutboxMessage{
		AggregateType: "order",
		AggregateID:   "o-1",
		EventType:     "crm.order.created",
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	pending, err := repo.PullPending(10)
	if err != nil {
		t.Fatalf("pull pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending messages, got %d", len(pending))
	}

	if err := repo.MarkSent(first.ID); err != nil {
		t.Fatalf("mark sent: %v", err)
	}
	if err := repo.MarkFailed(second.ID); err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	pending, err = repo.PullPending(10)
	if err != nil {
		t.Fatalf("pull pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected empty backlog, got %d", len(pending))
	}

	stats, err := repo.Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.PendingCount != 0 {
		t.Fatalf("expected no pending records, got %d", stats.PendingCount)
	}
}

func TestOutboxRepository_MarkUnknownID(t *testing.T) {
	repo := memory.NewOutboxRepository()

	if err := repo.MarkSent("missing"); err == nil {
		t.Fatal("expected error for unknown id")
	}
}
