package domain

// FilterOp — оператор сравнения предиката фильтрации.
type FilterOp string

const (
	// FilterOpIContains — подстрока без учёта регистра (текстовые поля).
	FilterOpIContains FilterOp = "icontains"
	// FilterOpStartsWith — префикс строки.
	FilterOpStartsWith FilterOp = "startswith"
	// FilterOpGte — больше либо равно (числа и даты).
	FilterOpGte FilterOp = "gte"
	// FilterOpLte — меньше либо равно (числа и даты).
	FilterOpLte FilterOp = "lte"
	// FilterOpExact — точное совпадение.
	FilterOpExact FilterOp = "exact"
	// FilterOpLt — строго меньше (например, low-stock выборка).
	FilterOpLt FilterOp = "lt"
)

// FilterPredicate — тройка поле/оператор/значение, сужающая выборку.
// Значение всегда передаётся строкой; числовые и временные значения
// интерпретирует реализация хранилища. Неизвестные предикаты хранилище
// пропускает, не считая их ошибкой.
type FilterPredicate struct {
	Field string
	Op    FilterOp
	Value string
}
