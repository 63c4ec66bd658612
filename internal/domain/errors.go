package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Ошибка отсутствующего имени клиента.
	ErrCustomerNameRequired = errors.New("customer name is required")
	// Ошибка отсутствующего email клиента.
	ErrCustomerEmailRequired = errors.New("customer email is required")
	// Ошибка отсутствующего имени товара.
	ErrProductNameRequired = errors.New("product name is required")
	// ErrDuplicateEmail возвращается при попытке создать клиента с занятым email.
	ErrDuplicateEmail = errors.New("email already exists")
	// ErrInvalidPhoneFormat — телефон не соответствует принятой грамматике номеров.
	ErrInvalidPhoneFormat = errors.New("invalid phone number format")
	// ErrInvalidPrice — цена товара должна быть строго положительной.
	ErrInvalidPrice = errors.New("price must be a positive value")
	// ErrInvalidStock — остаток товара не может быть отрицательным.
	ErrInvalidStock = errors.New("stock cannot be negative")
	// ErrInvalidAmount — строка не является корректной десятичной суммой.
	ErrInvalidAmount = errors.New("invalid decimal amount")
	// Ошибка отсутствующего идентификатора клиента в заказе.
	ErrCustomerRequired = errors.New("customer_id is required")
	// ErrEmptyProductList — заказ без товаров невалиден и не сохраняется.
	ErrEmptyProductList = errors.New("at least one product must be selected for an order")
	// Ошибка отрицательной суммы заказа.
	ErrTotalNegative = errors.New("total_amount must be non-negative")
	// ErrCustomerNotFound возвращается, если клиент не найден в хранилище.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrProductNotFound возвращается, если товар не найден в хранилище.
	ErrProductNotFound = errors.New("product not found")
	// ErrOrderNotFound возвращается, если заказ не найден в хранилище.
	ErrOrderNotFound = errors.New("order not found")
	// ErrStoreUnavailable — неожиданная ошибка хранилища; наружу уходит
	// только как структурированное сообщение операции, не как panic.
	ErrStoreUnavailable = errors.New("record store unavailable")
	// ErrOutboxPublish — ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")
)

// DuplicateEmailError уточняет ErrDuplicateEmail конкретным адресом.
type DuplicateEmailError struct {
	Email string
}

func (e *DuplicateEmailError) Error() string {
	return fmt.Sprintf("Email '%s' already exists.", e.Email)
}

func (e *DuplicateEmailError) Unwrap() error { return ErrDuplicateEmail }

// PhoneFormatError уточняет ErrInvalidPhoneFormat конкретным значением.
type PhoneFormatError struct {
	Phone string
}

func (e *PhoneFormatError) Error() string {
	return fmt.Sprintf("Invalid phone number format for '%s'.", e.Phone)
}

func (e *PhoneFormatError) Unwrap() error { return ErrInvalidPhoneFormat }

// CustomerNotFoundError уточняет ErrCustomerNotFound идентификатором.
type CustomerNotFoundError struct {
	ID string
}

func (e *CustomerNotFoundError) Error() string {
	return fmt.Sprintf("Invalid customer ID: Customer with ID %s does not exist.", e.ID)
}

func (e *CustomerNotFoundError) Unwrap() error { return ErrCustomerNotFound }

// ProductsNotFoundError перечисляет все идентификаторы товаров,
// которые не удалось найти. Проверка "всё или ничего": частичное
// создание заказа не допускается.
type ProductsNotFoundError struct {
	IDs []string
}

func (e *ProductsNotFoundError) Error() string {
	return fmt.Sprintf("Invalid product IDs found: %s", strings.Join(e.IDs, ", "))
}

func (e *ProductsNotFoundError) Unwrap() error { return ErrProductNotFound }

// IsNotFound проверяет, является ли ошибка ошибкой отсутствия записи.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCustomerNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrOrderNotFound)
}

// IsDuplicateEmail проверяет, является ли ошибка нарушением уникальности email.
func IsDuplicateEmail(err error) bool {
	return errors.Is(err, ErrDuplicateEmail)
}

// IsValidation проверяет, относится ли ошибка к классу ошибок валидации,
// которые обнаруживаются до записи и отдаются пользователю как сообщения.
func IsValidation(err error) bool {
	return errors.Is(err, ErrDuplicateEmail) ||
		errors.Is(err, ErrInvalidPhoneFormat) ||
		errors.Is(err, ErrInvalidPrice) ||
		errors.Is(err, ErrInvalidStock) ||
		errors.Is(err, ErrEmptyProductList) ||
		errors.Is(err, ErrCustomerNotFound) ||
		errors.Is(err, ErrProductNotFound)
}
