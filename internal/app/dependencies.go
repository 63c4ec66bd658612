package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/dkomarov/crm/internal/domain"
	"github.com/dkomarov/crm/internal/storage/memory"
	"github.com/dkomarov/crm/internal/storage/postgres"
)

// Dependencies содержит хранилища приложения и опциональный postgres Store.
type Dependencies struct {
	Customers domain.CustomerRepository
	Products  domain.ProductRepository
	Orders    domain.OrderRepository
	Outbox    domain.OutboxRepository

	// Store не nil только для postgres-драйвера; нужен для ping и закрытия.
	Store  *postgres.Store
	Logger *log.Entry
}

// NewDependencies создаёт хранилища согласно конфигурации.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	switch cfg.StorageDriver {
	case StorageDriverPostgres:
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		if cfg.PostgresAutoMigrate {
			if err := store.EnsureSchema(ctx); err != nil {
				_ = store.Close()
				return nil, fmt.Errorf("ensure schema: %w", err)
			}
		}

		logger.Info("using postgres record store")
		return &Dependencies{
			Customers: postgres.NewCustomerRepository(store),
			Products:  postgres.NewProductRepository(store),
			Orders:    postgres.NewOrderRepository(store),
			Outbox:    postgres.NewOutboxRepository(store),
			Store:     store,
			Logger:    logger,
		}, nil

	case StorageDriverMemory, "":
		customers := memory.NewCustomerRepository()
		products := memory.NewProductRepository()

		logger.Info("using in-memory record store")
		return &Dependencies{
			Customers: customers,
			Products:  products,
			Orders:    memory.NewOrderRepository(customers, products),
			Outbox:    memory.NewOutboxRepository(),
			Logger:    logger,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.StorageDriver)
	}
}

// Close освобождает ресурсы зависимостей.
func (d *Dependencies) Close() {
	if d.Store != nil {
		if err := d.Store.Close(); err != nil {
			d.Logger.WithError(err).Warn("failed to close postgres store")
		}
	}
}
