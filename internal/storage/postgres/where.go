package postgres

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dkomarov/crm/internal/domain"
)

// whereClause накапливает условия и аргументы запроса. Шаблон условия
// содержит %d на месте номера placeholder-а.
type whereClause struct {
	conds []string
	args  []any
}

func (w *whereClause) add(tmpl string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, fmt.Sprintf(tmpl, len(w.args)))
}

// addFalse добавляет заведомо ложное условие: предикат с некорректным
// значением не должен расширять выборку.
func (w *whereClause) addFalse() {
	w.conds = append(w.conds, "FALSE")
}

// sql возвращает "WHERE ..." или пустую строку, если условий нет.
func (w *whereClause) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// Трансляция предикатов в SQL — явный перечислимый набор пар
// поле/оператор. Неизвестные предикаты пропускаются (permissive-политика,
// симметрично in-memory реализации).

func customerWhere(predicates []domain.FilterPredicate) *whereClause {
	w := &whereClause{}
	for _, pred := range predicates {
		switch {
		case pred.Field == "name" && pred.Op == domain.FilterOpIContains:
			w.add("name ILIKE '%%' || $%d || '%%'", pred.Value)
		case pred.Field == "email" && pred.Op == domain.FilterOpIContains:
			w.add("email ILIKE '%%' || $%d || '%%'", pred.Value)
		case pred.Field == "phone" && pred.Op == domain.FilterOpStartsWith:
			w.add("phone LIKE $%d || '%%'", pred.Value)
		case pred.Field == "created_at" && pred.Op == domain.FilterOpGte:
			w.add("created_at >= $%d::timestamptz", pred.Value)
		case pred.Field == "created_at" && pred.Op == domain.FilterOpLte:
			w.add("created_at <= $%d::timestamptz", pred.Value)
		}
	}
	return w
}

func productWhere(predicates []domain.FilterPredicate) *whereClause {
	w := &whereClause{}
	for _, pred := range predicates {
		switch {
		case pred.Field == "name" && pred.Op == domain.FilterOpIContains:
			w.add("name ILIKE '%%' || $%d || '%%'", pred.Value)
		case pred.Field == "price":
			addAmount(w, "price_minor", pred)
		case pred.Field == "stock":
			addInt(w, "stock", pred)
		case pred.Field == "created_at" && pred.Op == domain.FilterOpGte:
			w.add("created_at >= $%d::timestamptz", pred.Value)
		case pred.Field == "created_at" && pred.Op == domain.FilterOpLte:
			w.add("created_at <= $%d::timestamptz", pred.Value)
		}
	}
	return w
}

func orderWhere(predicates []domain.FilterPredicate) *whereClause {
	w := &whereClause{}
	for _, pred := range predicates {
		switch {
		case pred.Field == "total_amount":
			addAmount(w, "total_minor", pred)
		case pred.Field == "order_date" && pred.Op == domain.FilterOpGte:
			w.add("order_date >= $%d::timestamptz", pred.Value)
		case pred.Field == "order_date" && pred.Op == domain.FilterOpLte:
			w.add("order_date <= $%d::timestamptz", pred.Value)
		case pred.Field == "customer_name" && pred.Op == domain.FilterOpIContains:
			w.add("customer_id IN (SELECT id FROM customers WHERE name ILIKE '%%' || $%d || '%%')", pred.Value)
		case pred.Field == "product_name" && pred.Op == domain.FilterOpIContains:
			w.add(`id IN (
				SELECT op.order_id
				FROM order_products op
				JOIN products p ON p.id = op.product_id
				WHERE p.name ILIKE '%%' || $%d || '%%'
			)`, pred.Value)
		case pred.Field == "product_id" && pred.Op == domain.FilterOpExact:
			w.add("id IN (SELECT order_id FROM order_products WHERE product_id = $%d)", pred.Value)
		}
	}
	return w
}

func addAmount(w *whereClause, column string, pred domain.FilterPredicate) {
	minor, err := domain.ParseAmount(pred.Value)
	if err != nil {
		w.addFalse()
		return
	}
	addComparison(w, column, minor, pred.Op)
}

func addInt(w *whereClause, column string, pred domain.FilterPredicate) {
	value, err := strconv.ParseInt(pred.Value, 10, 64)
	if err != nil {
		w.addFalse()
		return
	}
	addComparison(w, column, value, pred.Op)
}

func addComparison(w *whereClause, column string, value int64, op domain.FilterOp) {
	switch op {
	case domain.FilterOpGte:
		w.add(column+" >= $%d", value)
	case domain.FilterOpLte:
		w.add(column+" <= $%d", value)
	case domain.FilterOpExact:
		w.add(column+" = $%d", value)
	case domain.FilterOpLt:
		w.add(column+" < $%d", value)
	}
}
