package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"
)

const (
	defaultReportInterval = 7 * 24 * time.Hour
	defaultReportLogPath  = "/tmp/crm_report_log.txt"

	// Формат метки времени отчёта: YYYY-MM-DD HH:MM:SS.
	reportTimestampLayout = "2006-01-02 15:04:05"

	reportQuery = `query CrmReportQuery {
		crmReport {
			totalCustomers
			totalOrders
			totalRevenue
		}
	}`
)

var reportRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "crm_report_runs_total",
	Help: "Total number of report generation runs grouped by result.",
}, []string{"result"})

// ReportOptions задаёт параметры report-воркера.
type ReportOptions struct {
	Logger   *log.Entry
	Interval time.Duration
	LogPath  string
	Now      func() time.Time
}

// ReportOption настраивает ReportWorker.
type ReportOption func(*ReportOptions)

// WithReportLogger задаёт logger для воркера.
func WithReportLogger(logger *log.Entry) ReportOption {
	return func(opts *ReportOptions) {
		opts.Logger = logger
	}
}

// WithReportInterval задаёт интервал генерации отчётов.
func WithReportInterval(interval time.Duration) ReportOption {
	return func(opts *ReportOptions) {
		opts.Interval = interval
	}
}

// WithReportLogPath задаёт путь к журналу отчётов.
func WithReportLogPath(path string) ReportOption {
	return func(opts *ReportOptions) {
		opts.LogPath = path
	}
}

// WithReportClock задаёт источник времени (для тестов).
func WithReportClock(now func() time.Time) ReportOption {
	return func(opts *ReportOptions) {
		opts.Now = now
	}
}

// ReportWorker периодически запрашивает сводку crmReport через
// GraphQL-эндпоинт и дописывает её в плоский файл журнала.
type ReportWorker struct {
	client   *GraphQLClient
	logger   *log.Entry
	interval time.Duration
	logPath  string
	now      func() time.Time
}

// NewReportWorker создаёт report-воркер.
func NewReportWorker(client *GraphQLClient, options ...ReportOption) *ReportWorker {
	opts := ReportOptions{
		Interval: defaultReportInterval,
		LogPath:  defaultReportLogPath,
		Now:      time.Now,
	}
	for _, option := range options {
		option(&opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("component", "report-worker")
	}
	if opts.Interval <= 0 {
		opts.Interval = defaultReportInterval
	}
	if opts.LogPath == "" {
		opts.LogPath = defaultReportLogPath
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &ReportWorker{
		client:   client,
		logger:   logger,
		interval: opts.Interval,
		logPath:  opts.LogPath,
		now:      opts.Now,
	}
}

// Run запускает периодическую генерацию отчётов до отмены ctx.
func (w *ReportWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.GenerateOnce(ctx)
		}
	}
}

// GenerateOnce запрашивает сводку и дописывает одну строку отчёта.
func (w *ReportWorker) GenerateOnce(ctx context.Context) {
	var data struct {
		CRMReport struct {
			TotalCustomers int    `json:"totalCustomers"`
			TotalOrders    int    `json:"totalOrders"`
			TotalRevenue   string `json:"totalRevenue"`
		} `json:"crmReport"`
	}

	if err := w.client.Query(ctx, reportQuery, &data); err != nil {
		reportRunsTotal.WithLabelValues("error").Inc()
		w.logger.WithError(err).Error("failed to generate crm report")

		timestamp := w.now().Format(reportTimestampLayout)
		line := fmt.Sprintf("[%s] ERROR generating report: %v", timestamp, err)
		if writeErr := appendLine(w.logPath, line); writeErr != nil {
			w.logger.WithError(writeErr).WithField("path", w.logPath).Error("failed to write report log")
		}
		return
	}

	report := data.CRMReport
	revenue := report.TotalRevenue
	if revenue == "" {
		revenue = "0.00"
	}

	timestamp := w.now().Format(reportTimestampLayout)
	line := fmt.Sprintf("%s - Report: %d customers, %d orders, %s revenue.",
		timestamp, report.TotalCustomers, report.TotalOrders, revenue)

	if err := appendLine(w.logPath, line); err != nil {
		reportRunsTotal.WithLabelValues("write_error").Inc()
		w.logger.WithError(err).WithField("path", w.logPath).Error("failed to write report log")
		return
	}

	reportRunsTotal.WithLabelValues("ok").Inc()
	w.logger.WithFields(log.Fields{
		"customers": report.TotalCustomers,
		"orders":    report.TotalOrders,
		"revenue":   revenue,
	}).Info("crm report generated")
}
