package domain

import "time"

// Customer представляет клиента CRM.
type Customer struct {
	ID string
	// Name — отображаемое имя клиента, обязательное поле.
	Name string
	// Email уникален в пределах всего хранилища.
	Email string
	// Phone опционален; пустая строка означает "не указан".
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateInvariants проверяет базовые инварианты записи клиента.
func (c *Customer) ValidateInvariants() []error {
	var errs []error

	if c.Name == "" {
		errs = append(errs, ErrCustomerNameRequired)
	}
	if c.Email == "" {
		errs = append(errs, ErrCustomerEmailRequired)
	}

	return errs
}
