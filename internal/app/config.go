package app

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// StorageDriver определяет реализацию хранилища записей.
type StorageDriver string

const (
	StorageDriverMemory   StorageDriver = "memory"
	StorageDriverPostgres StorageDriver = "postgres"
)

// Config описывает настройки запуска приложения.
type Config struct {
	// HTTPAddr — адрес HTTP-сервера с GraphQL, метриками и health checks.
	HTTPAddr string
	// GRPCAddr — адрес gRPC health-эндпоинта.
	GRPCAddr string

	StorageDriver       StorageDriver
	PostgresDSN         string
	PostgresAutoMigrate bool

	// KafkaBrokers — список брокеров через запятую; пусто = без Kafka.
	KafkaBrokers string

	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxMaxAttempts  int
	OutboxRetryDelay   time.Duration

	HeartbeatInterval time.Duration
	HeartbeatLogPath  string
	ReportInterval    time.Duration
	ReportLogPath     string
}

// DefaultConfig возвращает конфигурацию по умолчанию: HTTP на :8000,
// хранилище в памяти, без Kafka.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:            ":8000",
		GRPCAddr:            ":50051",
		StorageDriver:       StorageDriverMemory,
		PostgresAutoMigrate: true,
		OutboxPollInterval:  time.Second,
		OutboxBatchSize:     100,
		OutboxMaxAttempts:   3,
		OutboxRetryDelay:    50 * time.Millisecond,
		HeartbeatInterval:   5 * time.Minute,
		HeartbeatLogPath:    "/tmp/crm_heartbeat_log.txt",
		ReportInterval:      7 * 24 * time.Hour,
		ReportLogPath:       "/tmp/crm_report_log.txt",
	}
}

// LoadConfigFromEnv строит конфигурацию из переменных окружения CRM_*,
// начиная с дефолтов. Задание CRM_POSTGRES_DSN автоматически
// переключает драйвер хранилища на postgres.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("CRM_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("CRM_GRPC_ADDR"); v != "" {
		cfg.GRPCAddr = v
	}
	if v := os.Getenv("CRM_POSTGRES_DSN"); v != "" {
		cfg.PostgresDSN = v
		cfg.StorageDriver = StorageDriverPostgres
	}
	if v := os.Getenv("CRM_STORAGE_DRIVER"); v != "" {
		switch StorageDriver(v) {
		case StorageDriverMemory, StorageDriverPostgres:
			cfg.StorageDriver = StorageDriver(v)
		default:
			return Config{}, fmt.Errorf("unsupported CRM_STORAGE_DRIVER: %s", v)
		}
	}
	if v := os.Getenv("CRM_POSTGRES_AUTO_MIGRATE"); v != "" {
		autoMigrate, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse CRM_POSTGRES_AUTO_MIGRATE: %w", err)
		}
		cfg.PostgresAutoMigrate = autoMigrate
	}
	if v := os.Getenv("CRM_KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = v
	}

	var err error
	if cfg.OutboxPollInterval, err = envDuration("CRM_OUTBOX_POLL_INTERVAL", cfg.OutboxPollInterval); err != nil {
		return Config{}, err
	}
	if cfg.OutboxBatchSize, err = envInt("CRM_OUTBOX_BATCH_SIZE", cfg.OutboxBatchSize); err != nil {
		return Config{}, err
	}
	if cfg.OutboxMaxAttempts, err = envInt("CRM_OUTBOX_MAX_ATTEMPTS", cfg.OutboxMaxAttempts); err != nil {
		return Config{}, err
	}
	if cfg.OutboxRetryDelay, err = envDuration("CRM_OUTBOX_RETRY_DELAY", cfg.OutboxRetryDelay); err != nil {
		return Config{}, err
	}
	if cfg.HeartbeatInterval, err = envDuration("CRM_HEARTBEAT_INTERVAL", cfg.HeartbeatInterval); err != nil {
		return Config{}, err
	}
	if cfg.ReportInterval, err = envDuration("CRM_REPORT_INTERVAL", cfg.ReportInterval); err != nil {
		return Config{}, err
	}
	if v := os.Getenv("CRM_HEARTBEAT_LOG_PATH"); v != "" {
		cfg.HeartbeatLogPath = v
	}
	if v := os.Getenv("CRM_REPORT_LOG_PATH"); v != "" {
		cfg.ReportLogPath = v
	}

	if cfg.StorageDriver == StorageDriverPostgres && cfg.PostgresDSN == "" {
		return Config{}, fmt.Errorf("CRM_POSTGRES_DSN is required for postgres storage driver")
	}

	return cfg, nil
}

func envDuration(name string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(name)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	return d, nil
}

func envInt(name string, fallback int) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	return n, nil
}
