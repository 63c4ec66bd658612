package domain

import "time"

// Product представляет товар каталога.
type Product struct {
	ID   string
	Name string
	// PriceMinor — цена в минимальных денежных единицах (центы).
	// Хранение в минорных единицах исключает ошибки плавающей точки:
	// 9.99 + 20.00 считается как 999 + 2000.
	PriceMinor int64
	// Stock — остаток на складе, не может быть отрицательным.
	Stock     int32
	CreatedAt time.Time
}

// ValidateInvariants проверяет инварианты товара: цена строго положительна,
// остаток неотрицателен.
func (p *Product) ValidateInvariants() []error {
	var errs []error

	if p.Name == "" {
		errs = append(errs, ErrProductNameRequired)
	}
	if p.PriceMinor <= 0 {
		errs = append(errs, ErrInvalidPrice)
	}
	if p.Stock < 0 {
		errs = append(errs, ErrInvalidStock)
	}

	return errs
}
