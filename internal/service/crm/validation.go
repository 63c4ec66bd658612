package crm

import (
	"regexp"

	"github.com/dkomarov/crm/internal/domain"
)

// phonePattern допускает опциональный код страны с "+", опциональный
// код зоны (возможно в скобках) и разделители точка/дефис/пробел перед
// финальными группами из трёх и четырёх цифр. Примеры валидных номеров:
// "+1234567890", "555-123-4567", "(555) 444-5555".
var phonePattern = regexp.MustCompile(`^(\+?\d{1,3})?[-.\s]?(\(?\d{3}\)?[-.\s]?)?\d{3}[-.\s]?\d{4}$`)

// PhoneMatchesPattern проверяет формат номера телефона.
// Пустая строка валидна: телефон — опциональное поле.
func PhoneMatchesPattern(phone string) bool {
	if phone == "" {
		return true
	}
	return phonePattern.MatchString(phone)
}

// EmailIsUnique сообщает, свободен ли email в хранилище клиентов.
func EmailIsUnique(customers domain.CustomerRepository, email string) (bool, error) {
	exists, err := customers.EmailExists(email)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// PartitionProducts разбивает набор идентификаторов на найденные товары
// и отсутствующие идентификаторы. Отсутствующие возвращаются в порядке
// первого появления во входном списке, без дубликатов.
func PartitionProducts(products domain.ProductRepository, ids []string) (found []domain.Product, missing []string, err error) {
	found, err = products.GetByIDs(ids)
	if err != nil {
		return nil, nil, err
	}

	known := make(map[string]struct{}, len(found))
	for _, p := range found {
		known[p.ID] = struct{}{}
	}

	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := known[id]; ok {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		missing = append(missing, id)
	}

	return found, missing, nil
}
