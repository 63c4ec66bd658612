package crm

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/dkomarov/crm/internal/domain"
)

// BulkCreateCustomers создаёт клиентов по одному с частичным успехом:
// валидные записи сохраняются, невалидные попадают в список ошибок
// с номером записи (нумерация с единицы). Порядок проверок на запись:
// уникальность email, затем формат телефона. Операция никогда не
// возвращает глобальную ошибку — даже полный провал батча выражается
// пустым списком клиентов и непустым списком сообщений.
func (s *Service) BulkCreateCustomers(ctx context.Context, inputs []CustomerInput) ([]domain.Customer, []string) {
	start := s.now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveMutationDuration("bulkCreateCustomers", time.Since(start))
		}
	}()
	if s.metrics != nil {
		s.metrics.ObserveBulkBatchSize(len(inputs))
	}

	created := make([]domain.Customer, 0, len(inputs))
	var errorMessages []string

	for i, input := range inputs {
		record := i + 1

		// Каждая запись проверяется против уже зафиксированного
		// состояния хранилища, поэтому дубликат внутри батча ловится
		// той же проверкой, что и дубликат с существующим клиентом.
		unique, err := EmailIsUnique(s.customers, input.Email)
		if err != nil {
			errorMessages = append(errorMessages,
				fmt.Sprintf("Record %d: Could not create customer '%s'. Error: %v", record, input.Name, err))
			continue
		}
		if !unique {
			errorMessages = append(errorMessages,
				fmt.Sprintf("Record %d: Email '%s' already exists.", record, input.Email))
			continue
		}

		if !PhoneMatchesPattern(input.Phone) {
			errorMessages = append(errorMessages,
				fmt.Sprintf("Record %d: Invalid phone number format for '%s'.", record, input.Phone))
			continue
		}

		now := s.now().UTC()
		customer := domain.Customer{
			ID:        uuid.NewString(),
			Name:      input.Name,
			Email:     input.Email,
			Phone:     input.Phone,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := s.customers.Create(customer); err != nil {
			errorMessages = append(errorMessages,
				fmt.Sprintf("Record %d: Could not create customer '%s'. Error: %v", record, input.Name, err))
			continue
		}

		created = append(created, customer)
		if s.metrics != nil {
			s.metrics.RecordCustomerCreated()
		}
		s.enqueueEvent("customer", customer.ID, EventCustomerCreated,
			customerEventPayload(customer))
	}

	s.logger.WithFields(log.Fields{
		"batch_size": len(inputs),
		"created":    len(created),
		"failed":     len(errorMessages),
	}).Info("bulk customer creation finished")

	return created, errorMessages
}
