package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	promgrpc "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	crmgraphql "github.com/dkomarov/crm/internal/graphql"
	healthcheck "github.com/dkomarov/crm/internal/health"
	"github.com/dkomarov/crm/internal/messaging/kafka"
	"github.com/dkomarov/crm/internal/service/cron"
	"github.com/dkomarov/crm/internal/service/crm"
	"github.com/dkomarov/crm/internal/service/outbox"
	"github.com/dkomarov/crm/internal/version"
)

// Run собирает зависимости и запускает сервис CRM: HTTP с GraphQL,
// метриками и health checks, gRPC health-эндпоинт и фоновые воркеры.
// Блокируется до отмены ctx или фатальной ошибки сервера.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	deps, err := NewDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	// Kafka опционален: без брокеров события остаются в outbox.
	kafkaProducer, _ := initKafkaProducer(cfg.KafkaBrokers, logger)
	defer closeKafka(kafkaProducer, logger)

	service := crm.NewServiceWithOutbox(
		deps.Customers,
		deps.Products,
		deps.Orders,
		deps.Outbox,
		logger.WithField("component", "crm"),
	)

	graphqlHandler, err := crmgraphql.NewHandler(service)
	if err != nil {
		return err
	}

	healthHandler := healthcheck.NewHandler(version.GetVersion())
	if deps.Store != nil {
		healthHandler.RegisterChecker("postgres", healthcheck.NewSimpleChecker("postgres", func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return deps.Store.Ping(pingCtx)
		}))
	}
	healthHandler.RegisterChecker("outbox", healthcheck.NewOutboxChecker(deps.Outbox, 5*time.Minute))

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Handle("/graphql", graphqlHandler)
	router.Handle("/metrics", promhttp.Handler())
	router.Handle("/healthz", healthHandler)
	router.Get("/readyz", healthHandler.ReadinessHandler)
	router.Get("/livez", healthcheck.LivenessHandler)

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// gRPC поднимается только ради стандартного health-протокола,
	// чтобы оркестраторы могли опрашивать сервис без HTTP.
	grpcMetrics := promgrpc.NewServerMetrics()
	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(grpcMetrics.UnaryServerInterceptor()))
	if err := prometheus.Register(grpcMetrics); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok2 := are.ExistingCollector.(*promgrpc.ServerMetrics); ok2 {
				grpcMetrics = existing
			}
		} else {
			logger.WithError(err).Warn("failed to register grpc metrics")
		}
	}

	healthServer := grpchealth.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	grpcMetrics.InitializeMetrics(grpcServer)
	reflection.Register(grpcServer)

	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()

	var workers sync.WaitGroup

	if kafkaProducer != nil {
		publisher := kafka.NewOutboxPublisher(kafkaProducer, kafka.TopicOrderEvents)
		outboxWorker := outbox.NewWorker(
			deps.Outbox,
			publisher,
			outbox.WithLogger(logger.WithField("component", "outbox-worker")),
			outbox.WithPollInterval(cfg.OutboxPollInterval),
			outbox.WithBatchSize(cfg.OutboxBatchSize),
			outbox.WithMaxAttempts(cfg.OutboxMaxAttempts),
			outbox.WithRetryBaseDelay(cfg.OutboxRetryDelay),
		)
		workers.Add(1)
		go func() {
			defer workers.Done()
			outboxWorker.Run(workerCtx)
		}()
	}

	graphqlClient := cron.NewGraphQLClient(localEndpoint(cfg.HTTPAddr), 10*time.Second)

	heartbeatWorker := cron.NewHeartbeatWorker(
		graphqlClient,
		cron.WithHeartbeatLogger(logger.WithField("component", "heartbeat-worker")),
		cron.WithHeartbeatInterval(cfg.HeartbeatInterval),
		cron.WithHeartbeatLogPath(cfg.HeartbeatLogPath),
	)
	workers.Add(1)
	go func() {
		defer workers.Done()
		heartbeatWorker.Run(workerCtx)
	}()

	reportWorker := cron.NewReportWorker(
		graphqlClient,
		cron.WithReportLogger(logger.WithField("component", "report-worker")),
		cron.WithReportInterval(cfg.ReportInterval),
		cron.WithReportLogPath(cfg.ReportLogPath),
	)
	workers.Add(1)
	go func() {
		defer workers.Done()
		reportWorker.Run(workerCtx)
	}()

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return err
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Infof("HTTP сервер слушает %s (/graphql, /metrics, /healthz)", cfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		logger.Infof("gRPC health слушает %s", cfg.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем сервис")
		healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
		stopWorkers()
		workers.Wait()

		shutdownHTTP(httpSrv, logger)

		stoppedCh := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(stoppedCh)
		}()
		select {
		case <-stoppedCh:
		case <-time.After(5 * time.Second):
			logger.Warn("graceful stop превысил таймаут, принудительно останавливаем")
			grpcServer.Stop()
		}

		return ctx.Err()
	case err := <-errCh:
		stopWorkers()
		workers.Wait()
		shutdownHTTP(httpSrv, logger)
		grpcServer.Stop()
		return err
	}
}

// localEndpoint превращает адрес слушателя в URL GraphQL-эндпоинта
// для фоновых воркеров того же процесса.
func localEndpoint(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://127.0.0.1" + addr + "/graphql"
	}
	return "http://" + addr + "/graphql"
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
