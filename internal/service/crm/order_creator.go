package crm

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/dkomarov/crm/internal/domain"
)

// CreateOrder создаёт заказ по принципу "всё или ничего": если хотя бы
// один идентификатор товара не существует, заказ не создаётся вовсе и
// ошибка перечисляет все отсутствующие идентификаторы. Сумма заказа —
// снимок цен на момент создания, посчитанный в минорных единицах.
func (s *Service) CreateOrder(ctx context.Context, input OrderInput) (domain.Order, error) {
	start := s.now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveMutationDuration("createOrder", time.Since(start))
		}
	}()

	if len(input.ProductIDs) == 0 {
		s.recordValidationFailure("empty_product_list")
		return domain.Order{}, domain.ErrEmptyProductList
	}

	if _, err := s.customers.Get(input.CustomerID); err != nil {
		if domain.IsNotFound(err) {
			s.recordValidationFailure("customer_not_found")
			return domain.Order{}, err
		}
		return domain.Order{}, wrapStoreError("get customer", err)
	}

	found, missing, err := PartitionProducts(s.products, input.ProductIDs)
	if err != nil {
		return domain.Order{}, wrapStoreError("resolve products", err)
	}
	if len(missing) > 0 {
		s.recordValidationFailure("products_not_found")
		return domain.Order{}, &domain.ProductsNotFoundError{IDs: missing}
	}

	// Дубликаты во входном списке схлопываются: заказ ссылается на
	// каждый товар не более одного раза, и сумма считается по
	// уникальному набору.
	var totalMinor int64
	productIDs := make([]string, 0, len(found))
	for _, product := range found {
		totalMinor += product.PriceMinor
		productIDs = append(productIDs, product.ID)
	}

	orderDate := s.now().UTC()
	if input.OrderDate != nil {
		orderDate = input.OrderDate.UTC()
	}

	order := domain.Order{
		ID:         uuid.NewString(),
		CustomerID: input.CustomerID,
		ProductIDs: productIDs,
		TotalMinor: totalMinor,
		OrderDate:  orderDate,
		CreatedAt:  s.now().UTC(),
	}

	if err := s.orders.Create(order); err != nil {
		if domain.IsNotFound(err) {
			return domain.Order{}, err
		}
		return domain.Order{}, wrapStoreError("create order", err)
	}

	s.logger.WithFields(log.Fields{
		"order_id":    order.ID,
		"customer_id": order.CustomerID,
		"products":    len(order.ProductIDs),
		"total_minor": order.TotalMinor,
	}).Info("order created")

	if s.metrics != nil {
		s.metrics.RecordOrderCreated()
	}
	s.enqueueEvent("order", order.ID, EventOrderCreated, orderEventPayload(order))

	return order, nil
}
