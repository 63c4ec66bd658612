package memory

import (
	"sort"
	"sync"

	"github.com/dkomarov/crm/internal/domain"
)

// orderRepositoryInMemory — простая in-memory реализация OrderRepository.
// Репозитории клиентов и товаров нужны для join-предикатов
// (customer_name, product_name); без них такие предикаты пропускаются.
type orderRepositoryInMemory struct {
	mu        sync.RWMutex
	items     map[string]domain.Order
	customers domain.CustomerRepository
	products  domain.ProductRepository
}

// NewOrderRepository возвращает in-memory репозиторий заказов.
func NewOrderRepository(customers domain.CustomerRepository, products domain.ProductRepository) domain.OrderRepository {
	return &orderRepositoryInMemory{
		items:     make(map[string]domain.Order),
		customers: customers,
		products:  products,
	}
}

// Create сохраняет заказ. Запись в map атомарна по построению: заказ и его
// связи с товарами — одна структура, частичного состояния не бывает.
func (r *orderRepositoryInMemory) Create(order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[order.ID]; exists {
		return domain.ErrStoreUnavailable
	}
	// Сохраняем копию слайса, чтобы избежать мутаций извне.
	order.ProductIDs = append([]string(nil), order.ProductIDs...)
	r.items[order.ID] = order
	return nil
}

// Get возвращает заказ или ErrOrderNotFound, если его нет.
func (r *orderRepositoryInMemory) Get(id string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.items[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return order, nil
}

// List возвращает заказы, удовлетворяющие всем предикатам.
func (r *orderRepositoryInMemory) List(predicates []domain.FilterPredicate) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Order, 0, len(r.items))
	for _, order := range r.items {
		if r.matchOrder(order, predicates) {
			result = append(result, order)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].OrderDate.Equal(result[j].OrderDate) {
			return result[i].OrderDate.Before(result[j].OrderDate)
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

// Totals возвращает число заказов и суммарную выручку.
func (r *orderRepositoryInMemory) Totals() (int, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var revenue int64
	for _, order := range r.items {
		revenue += order.TotalMinor
	}
	return len(r.items), revenue, nil
}

func (r *orderRepositoryInMemory) matchOrder(order domain.Order, predicates []domain.FilterPredicate) bool {
	for _, pred := range predicates {
		switch pred.Field {
		case "total_amount":
			if !matchAmount(order.TotalMinor, pred) {
				return false
			}
		case "order_date":
			if !matchTime(order.OrderDate, pred) {
				return false
			}
		case "customer_name":
			if !r.matchCustomerName(order, pred) {
				return false
			}
		case "product_name":
			if !r.matchProductName(order, pred) {
				return false
			}
		case "product_id":
			if !containsID(order.ProductIDs, pred.Value) {
				return false
			}
		}
	}
	return true
}

func (r *orderRepositoryInMemory) matchCustomerName(order domain.Order, pred domain.FilterPredicate) bool {
	if r.customers == nil {
		return true
	}
	customer, err := r.customers.Get(order.CustomerID)
	if err != nil {
		return false
	}
	return matchText(customer.Name, pred)
}

func (r *orderRepositoryInMemory) matchProductName(order domain.Order, pred domain.FilterPredicate) bool {
	if r.products == nil {
		return true
	}
	products, err := r.products.GetByIDs(order.ProductIDs)
	if err != nil {
		return false
	}
	for _, product := range products {
		if matchText(product.Name, pred) {
			return true
		}
	}
	return false
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
