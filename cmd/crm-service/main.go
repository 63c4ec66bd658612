package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/dkomarov/crm/internal/app"
	"github.com/dkomarov/crm/internal/version"
)

// setupLogger настраивает формат и уровень логирования для сервиса.
func setupLogger() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)
	if v := os.Getenv("CRM_LOG_LEVEL"); v != "" {
		level, err := log.ParseLevel(v)
		if err != nil {
			log.WithField("value", v).Warn("invalid CRM_LOG_LEVEL, using info")
		} else {
			log.SetLevel(level)
		}
	}
}

func main() {
	// .env опционален: переменные окружения имеют приоритет.
	_ = godotenv.Load()
	setupLogger()

	cfg, err := app.LoadConfigFromEnv()
	if err != nil {
		log.WithError(err).Fatal("некорректная конфигурация")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"http_addr": cfg.HTTPAddr,
		"grpc_addr": cfg.GRPCAddr,
		"storage":   cfg.StorageDriver,
		"version":   version.String(),
	}).Info("запускаем CRM service")

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("приложение завершилось с ошибкой")
	}

	log.Info("CRM service остановлен")
}
