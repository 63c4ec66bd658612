package memory

import (
	"sort"
	"strings"
	"sync"

	"github.com/dkomarov/crm/internal/domain"
)

// customerRepositoryInMemory — простая in-memory реализация CustomerRepository.
type customerRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Customer
	// byEmail обеспечивает уникальность email, как unique-констрейнт в БД.
	byEmail map[string]string
}

// NewCustomerRepository возвращает in-memory репозиторий для локальной
// разработки и тестов.
func NewCustomerRepository() domain.CustomerRepository {
	return &customerRepositoryInMemory{
		items:   make(map[string]domain.Customer),
		byEmail: make(map[string]string),
	}
}

// Create сохраняет нового клиента, проверяя уникальность email.
func (r *customerRepositoryInMemory) Create(customer domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := emailKey(customer.Email)
	if _, exists := r.byEmail[key]; exists {
		return &domain.DuplicateEmailError{Email: customer.Email}
	}
	r.items[customer.ID] = customer
	r.byEmail[key] = customer.ID
	return nil
}

// Get возвращает клиента или ErrCustomerNotFound, если его нет.
func (r *customerRepositoryInMemory) Get(id string) (domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customer, ok := r.items[id]
	if !ok {
		return domain.Customer{}, &domain.CustomerNotFoundError{ID: id}
	}
	return customer, nil
}

// EmailExists сообщает, занят ли email (без учёта регистра).
func (r *customerRepositoryInMemory) EmailExists(email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.byEmail[emailKey(email)]
	return exists, nil
}

// List возвращает клиентов, удовлетворяющих всем предикатам.
func (r *customerRepositoryInMemory) List(predicates []domain.FilterPredicate) ([]domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Customer, 0, len(r.items))
	for _, customer := range r.items {
		if matchCustomer(customer, predicates) {
			result = append(result, customer)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

// Count возвращает общее число клиентов.
func (r *customerRepositoryInMemory) Count() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items), nil
}

func matchCustomer(customer domain.Customer, predicates []domain.FilterPredicate) bool {
	for _, pred := range predicates {
		switch pred.Field {
		case "name":
			if !matchText(customer.Name, pred) {
				return false
			}
		case "email":
			if !matchText(customer.Email, pred) {
				return false
			}
		case "phone":
			if !matchText(customer.Phone, pred) {
				return false
			}
		case "created_at":
			if !matchTime(customer.CreatedAt, pred) {
				return false
			}
		}
	}
	return true
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var _ domain.CustomerRepository = (*customerRepositoryInMemory)(nil)
