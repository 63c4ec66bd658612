package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CRMMetrics содержит метрики операций CRM.
type CRMMetrics struct {
	// Счётчики созданных записей
	customersCreated prometheus.Counter
	productsCreated  prometheus.Counter
	ordersCreated    prometheus.Counter

	// Ошибки валидации по видам
	validationFailures *prometheus.CounterVec

	// Время выполнения мутаций
	mutationDuration *prometheus.HistogramVec

	// Размер батча bulk-создания клиентов
	bulkBatchSize prometheus.Histogram

	// Счётчик событий outbox
	outboxEvents prometheus.Counter
}

// NewCRMMetrics создаёт новый экземпляр метрик CRM.
func NewCRMMetrics() *CRMMetrics {
	return newCRMMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newCRMMetricsWithRegisterer(registerer prometheus.Registerer) *CRMMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &CRMMetrics{
		customersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "crm_customers_created_total",
			Help: "Total number of customers created",
		}),
		productsCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "crm_products_created_total",
			Help: "Total number of products created",
		}),
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "crm_orders_created_total",
			Help: "Total number of orders created",
		}),
		validationFailures: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "crm_validation_failures_total",
			Help: "Total number of rejected mutations grouped by validation kind",
		}, []string{"kind"}),
		mutationDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "crm_mutation_duration_seconds",
			Help:    "Duration of CRM mutations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		}, []string{"mutation"}),
		bulkBatchSize: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "crm_bulk_customers_batch_size",
			Help:    "Size of bulkCreateCustomers batches",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250},
		}),
		outboxEvents: registerCounter(registerer, prometheus.CounterOpts{
			Name: "crm_outbox_events_total",
			Help: "Total number of events enqueued to the transactional outbox",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordCustomerCreated увеличивает счётчик созданных клиентов.
func (m *CRMMetrics) RecordCustomerCreated() {
	m.customersCreated.Inc()
}

// RecordProductCreated увеличивает счётчик созданных товаров.
func (m *CRMMetrics) RecordProductCreated() {
	m.productsCreated.Inc()
}

// RecordOrderCreated увеличивает счётчик созданных заказов.
func (m *CRMMetrics) RecordOrderCreated() {
	m.ordersCreated.Inc()
}

// RecordValidationFailure увеличивает счётчик отклонённых мутаций.
func (m *CRMMetrics) RecordValidationFailure(kind string) {
	m.validationFailures.WithLabelValues(kind).Inc()
}

// ObserveMutationDuration записывает время выполнения мутации.
func (m *CRMMetrics) ObserveMutationDuration(mutation string, duration time.Duration) {
	m.mutationDuration.WithLabelValues(mutation).Observe(duration.Seconds())
}

// ObserveBulkBatchSize записывает размер батча bulk-создания.
func (m *CRMMetrics) ObserveBulkBatchSize(size int) {
	m.bulkBatchSize.Observe(float64(size))
}

// RecordOutboxEvent увеличивает счётчик событий outbox.
func (m *CRMMetrics) RecordOutboxEvent() {
	m.outboxEvents.Inc()
}
