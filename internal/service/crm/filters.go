package crm

import (
	"sort"

	"github.com/dkomarov/crm/internal/domain"
)

// filterBinding связывает внешний camelCase-ключ фильтра с полем
// хранилища и оператором сравнения.
type filterBinding struct {
	field string
	op    domain.FilterOp
}

var customerFilterBindings = map[string]filterBinding{
	"nameIcontains":  {field: "name", op: domain.FilterOpIContains},
	"emailIcontains": {field: "email", op: domain.FilterOpIContains},
	"createdAtGte":   {field: "created_at", op: domain.FilterOpGte},
	"createdAtLte":   {field: "created_at", op: domain.FilterOpLte},
	// phonePattern — префиксная выборка, например по коду страны "+1".
	"phonePattern": {field: "phone", op: domain.FilterOpStartsWith},
}

var productFilterBindings = map[string]filterBinding{
	"nameIcontains": {field: "name", op: domain.FilterOpIContains},
	"priceGte":      {field: "price", op: domain.FilterOpGte},
	"priceLte":      {field: "price", op: domain.FilterOpLte},
	"stockGte":      {field: "stock", op: domain.FilterOpGte},
	"stockLte":      {field: "stock", op: domain.FilterOpLte},
	"stock":         {field: "stock", op: domain.FilterOpExact},
	// lowStock — товары с остатком строго ниже порога.
	"lowStock": {field: "stock", op: domain.FilterOpLt},
}

var orderFilterBindings = map[string]filterBinding{
	"totalAmountGte": {field: "total_amount", op: domain.FilterOpGte},
	"totalAmountLte": {field: "total_amount", op: domain.FilterOpLte},
	"orderDateGte":   {field: "order_date", op: domain.FilterOpGte},
	"orderDateLte":   {field: "order_date", op: domain.FilterOpLte},
	// Предикаты по связанным записям: реализуются хранилищем через join.
	"customerName": {field: "customer_name", op: domain.FilterOpIContains},
	"productName":  {field: "product_name", op: domain.FilterOpIContains},
	"productId":    {field: "product_id", op: domain.FilterOpExact},
}

// TranslateCustomerFilter переводит карту фильтра клиентов в предикаты.
func TranslateCustomerFilter(filter map[string]string) []domain.FilterPredicate {
	return translateFilter(customerFilterBindings, filter)
}

// TranslateProductFilter переводит карту фильтра товаров в предикаты.
func TranslateProductFilter(filter map[string]string) []domain.FilterPredicate {
	return translateFilter(productFilterBindings, filter)
}

// TranslateOrderFilter переводит карту фильтра заказов в предикаты.
func TranslateOrderFilter(filter map[string]string) []domain.FilterPredicate {
	return translateFilter(orderFilterBindings, filter)
}

// translateFilter — чистая функция: трансляция детерминирована и не
// зависит от состояния хранилищ. Неизвестные ключи пропускаются дальше
// как точные предикаты без изменений — решать их судьбу будет
// хранилище, которое незнакомые поля игнорирует.
func translateFilter(bindings map[string]filterBinding, filter map[string]string) []domain.FilterPredicate {
	if len(filter) == 0 {
		return nil
	}

	keys := make([]string, 0, len(filter))
	for key := range filter {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	predicates := make([]domain.FilterPredicate, 0, len(keys))
	for _, key := range keys {
		value := filter[key]
		if binding, ok := bindings[key]; ok {
			predicates = append(predicates, domain.FilterPredicate{
				Field: binding.field,
				Op:    binding.op,
				Value: value,
			})
			continue
		}
		predicates = append(predicates, domain.FilterPredicate{
			Field: key,
			Op:    domain.FilterOpExact,
			Value: value,
		})
	}

	return predicates
}
