package domain

import "time"

// Order агрегирует заказ: ссылку на клиента, набор товаров и снимок суммы.
type Order struct {
	ID         string
	CustomerID string
	// ProductIDs — непустой набор идентификаторов товаров заказа.
	ProductIDs []string
	// TotalMinor — сумма цен товаров на момент создания заказа.
	// Это неизменяемый снимок: последующие изменения цен его не трогают.
	TotalMinor int64
	// OrderDate — дата заказа; по умолчанию момент создания.
	OrderDate time.Time
	CreatedAt time.Time
}

// ValidateInvariants проверяет базовые инварианты заказа.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.CustomerID == "" {
		errs = append(errs, ErrCustomerRequired)
	}
	if len(o.ProductIDs) == 0 {
		errs = append(errs, ErrEmptyProductList)
	}
	if o.TotalMinor < 0 {
		errs = append(errs, ErrTotalNegative)
	}

	return errs
}
