package memory

import (
	"sort"
	"sync"

	"github.com/dkomarov/crm/internal/domain"
)

// productRepositoryInMemory — простая in-memory реализация ProductRepository.
type productRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Product
}

// NewProductRepository возвращает in-memory репозиторий товаров.
func NewProductRepository() domain.ProductRepository {
	return &productRepositoryInMemory{
		items: make(map[string]domain.Product),
	}
}

// Create сохраняет новый товар.
func (r *productRepositoryInMemory) Create(product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[product.ID] = product
	return nil
}

// Get возвращает товар или ErrProductNotFound, если его нет.
func (r *productRepositoryInMemory) Get(id string) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.items[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return product, nil
}

// GetByIDs возвращает найденные товары в порядке запрошенных идентификаторов;
// дубликаты идентификаторов схлопываются.
func (r *productRepositoryInMemory) GetByIDs(ids []string) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool, len(ids))
	result := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if product, ok := r.items[id]; ok {
			result = append(result, product)
		}
	}
	return result, nil
}

// List возвращает товары, удовлетворяющие всем предикатам.
func (r *productRepositoryInMemory) List(predicates []domain.FilterPredicate) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Product, 0, len(r.items))
	for _, product := range r.items {
		if matchProduct(product, predicates) {
			result = append(result, product)
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

func matchProduct(product domain.Product, predicates []domain.FilterPredicate) bool {
	for _, pred := range predicates {
		switch pred.Field {
		case "name":
			if !matchText(product.Name, pred) {
				return false
			}
		case "price":
			if !matchAmount(product.PriceMinor, pred) {
				return false
			}
		case "stock":
			if !matchInt(int64(product.Stock), pred) {
				return false
			}
		case "created_at":
			if !matchTime(product.CreatedAt, pred) {
				return false
			}
		}
	}
	return true
}

var _ domain.ProductRepository = (*productRepositoryInMemory)(nil)
