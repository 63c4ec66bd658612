package crm

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/dkomarov/crm/internal/domain"
	"github.com/dkomarov/crm/internal/metrics"
)

// CustomerInput — входные данные мутации создания клиента.
type CustomerInput struct {
	Name  string
	Email string
	// Phone опционален; пустая строка пропускает проверку формата.
	Phone string
}

// ProductInput — входные данные мутации создания товара.
// Цена приходит десятичной строкой и разбирается в минорные единицы.
type ProductInput struct {
	Name  string
	Price string
	Stock int32
}

// OrderInput — входные данные мутации создания заказа.
type OrderInput struct {
	CustomerID string
	ProductIDs []string
	// OrderDate опционален; nil означает "сейчас".
	OrderDate *time.Time
}

// Report — агрегированная сводка по CRM для отчётов.
type Report struct {
	TotalCustomers    int
	TotalOrders       int
	TotalRevenueMinor int64
}

// Service реализует операции CRM поверх хранилищ записей.
type Service struct {
	customers domain.CustomerRepository
	products  domain.ProductRepository
	orders    domain.OrderRepository
	outbox    domain.OutboxRepository // опциональный transactional outbox
	logger    *log.Entry
	metrics   *metrics.CRMMetrics
	now       func() time.Time
}

// NewService создаёт рабочий экземпляр сервиса CRM.
func NewService(
	customers domain.CustomerRepository,
	products domain.ProductRepository,
	orders domain.OrderRepository,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "crm")
	}
	return &Service{
		customers: customers,
		products:  products,
		orders:    orders,
		logger:    logger,
		metrics:   metrics.NewCRMMetrics(),
		now:       time.Now,
	}
}

// NewServiceWithOutbox создаёт сервис, публикующий события через transactional outbox.
func NewServiceWithOutbox(
	customers domain.CustomerRepository,
	products domain.ProductRepository,
	orders domain.OrderRepository,
	outbox domain.OutboxRepository,
	logger *log.Entry,
) *Service {
	s := NewService(customers, products, orders, logger)
	s.outbox = outbox
	return s
}

// NewServiceWithoutMetrics создаёт сервис без метрик (для тестов).
func NewServiceWithoutMetrics(
	customers domain.CustomerRepository,
	products domain.ProductRepository,
	orders domain.OrderRepository,
	logger *log.Entry,
) *Service {
	s := NewService(customers, products, orders, logger)
	s.metrics = nil
	return s
}

// CreateCustomer валидирует входные данные и сохраняет нового клиента.
// Порядок проверок фиксирован: уникальность email, затем формат телефона.
func (s *Service) CreateCustomer(ctx context.Context, input CustomerInput) (domain.Customer, error) {
	start := s.now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveMutationDuration("createCustomer", time.Since(start))
		}
	}()

	if input.Name == "" {
		s.recordValidationFailure("name_required")
		return domain.Customer{}, domain.ErrCustomerNameRequired
	}
	if input.Email == "" {
		s.recordValidationFailure("email_required")
		return domain.Customer{}, domain.ErrCustomerEmailRequired
	}

	unique, err := EmailIsUnique(s.customers, input.Email)
	if err != nil {
		return domain.Customer{}, wrapStoreError("check email uniqueness", err)
	}
	if !unique {
		s.recordValidationFailure("duplicate_email")
		return domain.Customer{}, &domain.DuplicateEmailError{Email: input.Email}
	}

	if !PhoneMatchesPattern(input.Phone) {
		s.recordValidationFailure("invalid_phone")
		return domain.Customer{}, &domain.PhoneFormatError{Phone: input.Phone}
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
		// Гонка между проверкой уникальности и вставкой: хранилище
		// остаётся последним арбитром уникальности email.
		if domain.IsDuplicateEmail(err) {
			s.recordValidationFailure("duplicate_email")
			return domain.Customer{}, err
		}
		return domain.Customer{}, wrapStoreError("create customer", err)
	}

	s.logger.WithFields(log.Fields{
		"customer_id": customer.ID,
		"email":       customer.Email,
	}).Info("customer created")

	if s.metrics != nil {
		s.metrics.RecordCustomerCreated()
	}
	s.enqueueEvent("customer", customer.ID, EventCustomerCreated,
		customerEventPayload(customer))

	return customer, nil
}

// CreateProduct валидирует цену и остаток и сохраняет новый товар.
func (s *Service) CreateProduct(ctx context.Context, input ProductInput) (domain.Product, error) {
	start := s.now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveMutationDuration("createProduct", time.Since(start))
		}
	}()

	if input.Name == "" {
		s.recordValidationFailure("name_required")
		return domain.Product{}, domain.ErrProductNameRequired
	}

	priceMinor, err := domain.ParseAmount(input.Price)
	if err != nil || priceMinor <= 0 {
		s.recordValidationFailure("invalid_price")
		return domain.Product{}, domain.ErrInvalidPrice
	}
	if input.Stock < 0 {
		s.recordValidationFailure("invalid_stock")
		return domain.Product{}, domain.ErrInvalidStock
	}

	product := domain.Product{
		ID:         uuid.NewString(),
		Name:       input.Name,
		PriceMinor: priceMinor,
		Stock:      input.Stock,
		CreatedAt:  s.now().UTC(),
	}

	if err := s.products.Create(product); err != nil {
		return domain.Product{}, wrapStoreError("create product", err)
	}

	s.logger.WithFields(log.Fields{
		"product_id":  product.ID,
		"price_minor": product.PriceMinor,
	}).Info("product created")

	if s.metrics != nil {
		s.metrics.RecordProductCreated()
	}

	return product, nil
}

// ListCustomers возвращает клиентов, сузив выборку предикатами фильтра.
func (s *Service) ListCustomers(ctx context.Context, predicates []domain.FilterPredicate) ([]domain.Customer, error) {
	customers, err := s.customers.List(predicates)
	if err != nil {
		return nil, wrapStoreError("list customers", err)
	}
	return customers, nil
}

// ListProducts возвращает товары, сузив выборку предикатами фильтра.
func (s *Service) ListProducts(ctx context.Context, predicates []domain.FilterPredicate) ([]domain.Product, error) {
	products, err := s.products.List(predicates)
	if err != nil {
		return nil, wrapStoreError("list products", err)
	}
	return products, nil
}

// ListOrders возвращает заказы, сузив выборку предикатами фильтра.
func (s *Service) ListOrders(ctx context.Context, predicates []domain.FilterPredicate) ([]domain.Order, error) {
	orders, err := s.orders.List(predicates)
	if err != nil {
		return nil, wrapStoreError("list orders", err)
	}
	return orders, nil
}

// GetCustomer возвращает клиента по идентификатору.
func (s *Service) GetCustomer(ctx context.Context, id string) (domain.Customer, error) {
	customer, err := s.customers.Get(id)
	if err != nil {
		if domain.IsNotFound(err) {
			return domain.Customer{}, err
		}
		return domain.Customer{}, wrapStoreError("get customer", err)
	}
	return customer, nil
}

// ProductsByIDs возвращает найденные товары по набору идентификаторов.
func (s *Service) ProductsByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	products, err := s.products.GetByIDs(ids)
	if err != nil {
		return nil, wrapStoreError("get products", err)
	}
	return products, nil
}

// GetOrder возвращает заказ по идентификатору.
func (s *Service) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	order, err := s.orders.Get(id)
	if err != nil {
		if domain.IsNotFound(err) {
			return domain.Order{}, err
		}
		return domain.Order{}, wrapStoreError("get order", err)
	}
	return order, nil
}

// BuildReport собирает сводку: число клиентов, число заказов и суммарную выручку.
func (s *Service) BuildReport(ctx context.Context) (Report, error) {
	totalCustomers, err := s.customers.Count()
	if err != nil {
		return Report{}, wrapStoreError("count customers", err)
	}
	totalOrders, revenueMinor, err := s.orders.Totals()
	if err != nil {
		return Report{}, wrapStoreError("order totals", err)
	}
	return Report{
		TotalCustomers:    totalCustomers,
		TotalOrders:       totalOrders,
		TotalRevenueMinor: revenueMinor,
	}, nil
}

func (s *Service) recordValidationFailure(kind string) {
	if s.metrics != nil {
		s.metrics.RecordValidationFailure(kind)
	}
}

// enqueueEvent кладёт событие в outbox, когда он сконфигурирован.
// Ошибка записи события не откатывает уже выполненную мутацию.
func (s *Service) enqueueEvent(aggregateType, aggregateID, eventType string, payload []byte) {
	if s.outbox == nil {
		return
	}
	msg := domain.OutboxMessage{
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       payload,
	}
	if _, err := s.outbox.Enqueue(msg); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"aggregate_id": aggregateID,
			"event_type":   eventType,
		}).Warn("failed to enqueue outbox event")
		return
	}
	if s.metrics != nil {
		s.metrics.RecordOutboxEvent()
	}
}

func wrapStoreError(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, domain.ErrStoreUnavailable, err)
}
