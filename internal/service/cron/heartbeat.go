package cron

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"
)

const (
	defaultHeartbeatInterval = 5 * time.Minute
	defaultHeartbeatLogPath  = "/tmp/crm_heartbeat_log.txt"

	// Формат метки времени heartbeat: DD/MM/YYYY-HH:MM:SS.
	heartbeatTimestampLayout = "02/01/2006-15:04:05"
)

var heartbeatRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "crm_heartbeat_runs_total",
	Help: "Total number of heartbeat runs grouped by result.",
}, []string{"result"})

// HeartbeatOptions задаёт параметры heartbeat-воркера.
type HeartbeatOptions struct {
	Logger   *log.Entry
	Interval time.Duration
	LogPath  string
	Now      func() time.Time
}

// HeartbeatOption настраивает HeartbeatWorker.
type HeartbeatOption func(*HeartbeatOptions)

// WithHeartbeatLogger задаёт logger для воркера.
func WithHeartbeatLogger(logger *log.Entry) HeartbeatOption {
	return func(opts *HeartbeatOptions) {
		opts.Logger = logger
	}
}

// WithHeartbeatInterval задаёт интервал между heartbeat.
func WithHeartbeatInterval(interval time.Duration) HeartbeatOption {
	return func(opts *HeartbeatOptions) {
		opts.Interval = interval
	}
}

// WithHeartbeatLogPath задаёт путь к журналу heartbeat.
func WithHeartbeatLogPath(path string) HeartbeatOption {
	return func(opts *HeartbeatOptions) {
		opts.LogPath = path
	}
}

// WithHeartbeatClock задаёт источник времени (для тестов).
func WithHeartbeatClock(now func() time.Time) HeartbeatOption {
	return func(opts *HeartbeatOptions) {
		opts.Now = now
	}
}

// HeartbeatWorker периодически дописывает в плоский файл строку
// "CRM is alive", попутно проверяя отзывчивость GraphQL-эндпоинта
// запросом поля hello.
type HeartbeatWorker struct {
	client   *GraphQLClient
	logger   *log.Entry
	interval time.Duration
	logPath  string
	now      func() time.Time
}

// NewHeartbeatWorker создаёт heartbeat-воркер.
func NewHeartbeatWorker(client *GraphQLClient, options ...HeartbeatOption) *HeartbeatWorker {
	opts := HeartbeatOptions{
		Interval: defaultHeartbeatInterval,
		LogPath:  defaultHeartbeatLogPath,
		Now:      time.Now,
	}
	for _, option := range options {
		option(&opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("component", "heartbeat-worker")
	}
	if opts.Interval <= 0 {
		opts.Interval = defaultHeartbeatInterval
	}
	if opts.LogPath == "" {
		opts.LogPath = defaultHeartbeatLogPath
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &HeartbeatWorker{
		client:   client,
		logger:   logger,
		interval: opts.Interval,
		logPath:  opts.LogPath,
		now:      opts.Now,
	}
}

// Run запускает периодический heartbeat до отмены ctx.
func (w *HeartbeatWorker) Run(ctx context.Context) {
	w.Beat(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Beat(ctx)
		}
	}
}

// Beat выполняет один heartbeat: проверяет эндпоинт и дописывает строку в журнал.
func (w *HeartbeatWorker) Beat(ctx context.Context) {
	timestamp := w.now().Format(heartbeatTimestampLayout)
	message := timestamp + " CRM is alive"

	var data struct {
		Hello string `json:"hello"`
	}
	if w.client == nil {
		heartbeatRunsTotal.WithLabelValues("no_endpoint").Inc()
	} else if err := w.client.Query(ctx, "query { hello }", &data); err != nil {
		message += fmt.Sprintf(" (GraphQL endpoint is unreachable or query failed: %v).", err)
		heartbeatRunsTotal.WithLabelValues("endpoint_error").Inc()
		w.logger.WithError(err).Warn("graphql heartbeat check failed")
	} else if data.Hello == "" {
		message += " (GraphQL endpoint check failed: Unexpected response)."
		heartbeatRunsTotal.WithLabelValues("unexpected_response").Inc()
		w.logger.Warn("graphql heartbeat returned empty hello")
	} else {
		message += " (GraphQL endpoint is responsive)."
		heartbeatRunsTotal.WithLabelValues("ok").Inc()
	}

	if err := appendLine(w.logPath, message); err != nil {
		w.logger.WithError(err).WithField("path", w.logPath).Error("failed to write heartbeat log")
	}
}

// appendLine дописывает строку с переводом строки в конец файла.
func appendLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("append log line: %w", err)
	}
	return nil
}
