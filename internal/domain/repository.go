package domain

// CustomerRepository описывает требования к хранилищу клиентов.
type CustomerRepository interface {
	// Create сохраняет нового клиента. Возвращает ErrDuplicateEmail
	// (через DuplicateEmailError), если email уже занят.
	Create(customer Customer) error
	// Get возвращает клиента по идентификатору или ErrCustomerNotFound.
	Get(id string) (Customer, error)
	// EmailExists сообщает, есть ли в хранилище клиент с таким email.
	EmailExists(email string) (bool, error)
	// List возвращает клиентов, удовлетворяющих всем предикатам.
	List(predicates []FilterPredicate) ([]Customer, error)
	// Count возвращает общее число клиентов (для отчётов).
	Count() (int, error)
}

// ProductRepository описывает требования к хранилищу товаров.
type ProductRepository interface {
	// Create сохраняет новый товар.
	Create(product Product) error
	// Get возвращает товар по идентификатору или ErrProductNotFound.
	Get(id string) (Product, error)
	// GetByIDs возвращает найденные товары; отсутствующие идентификаторы
	// просто не попадают в результат — партиционирование делает вызывающий.
	GetByIDs(ids []string) ([]Product, error)
	// List возвращает товары, удовлетворяющие всем предикатам.
	List(predicates []FilterPredicate) ([]Product, error)
}

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create атомарно сохраняет заказ вместе со связями заказ-товар:
	// либо записаны и заказ, и все связи, либо ничего.
	Create(order Order) error
	// Get возвращает заказ по идентификатору или ErrOrderNotFound.
	Get(id string) (Order, error)
	// List возвращает заказы, удовлетворяющие всем предикатам.
	List(predicates []FilterPredicate) ([]Order, error)
	// Totals возвращает число заказов и суммарную выручку в минорных
	// единицах (для отчётов).
	Totals() (count int, revenueMinor int64, err error)
}
