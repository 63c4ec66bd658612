package memory

import (
	"strconv"
	"strings"
	"time"

	"github.com/dkomarov/crm/internal/domain"
)

// Помощники сопоставления предикатов для in-memory хранилища.
// Несопоставимое значение предиката трактуется как "не совпало",
// неизвестный предикат — как "совпало" (permissive-политика).

func matchText(value string, pred domain.FilterPredicate) bool {
	switch pred.Op {
	case domain.FilterOpIContains:
		return strings.Contains(strings.ToLower(value), strings.ToLower(pred.Value))
	case domain.FilterOpStartsWith:
		return strings.HasPrefix(value, pred.Value)
	case domain.FilterOpExact:
		return value == pred.Value
	default:
		return true
	}
}

func matchInt(value int64, pred domain.FilterPredicate) bool {
	want, err := strconv.ParseInt(pred.Value, 10, 64)
	if err != nil {
		return false
	}
	return compareInt(value, want, pred.Op)
}

// matchAmount сравнивает минорные единицы с десятичной строкой предиката.
func matchAmount(minor int64, pred domain.FilterPredicate) bool {
	want, err := domain.ParseAmount(pred.Value)
	if err != nil {
		return false
	}
	return compareInt(minor, want, pred.Op)
}

func matchTime(value time.Time, pred domain.FilterPredicate) bool {
	want, ok := parseFilterTime(pred.Value)
	if !ok {
		return false
	}
	switch pred.Op {
	case domain.FilterOpGte:
		return !value.Before(want)
	case domain.FilterOpLte:
		return !value.After(want)
	default:
		return true
	}
}

func compareInt(value, want int64, op domain.FilterOp) bool {
	switch op {
	case domain.FilterOpGte:
		return value >= want
	case domain.FilterOpLte:
		return value <= want
	case domain.FilterOpExact:
		return value == want
	case domain.FilterOpLt:
		return value < want
	default:
		return true
	}
}

// parseFilterTime принимает RFC3339 и короткую форму YYYY-MM-DD.
func parseFilterTime(s string) (time.Time, bool) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, true
	}
	if ts, err := time.Parse("2006-01-02", s); err == nil {
		return ts, true
	}
	return time.Time{}, false
}
