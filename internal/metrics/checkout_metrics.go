package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics содержит метрики операций checkout-сессий.
type CheckoutMetrics struct {
	// Счётчики операций
	sessionsCreated   prometheus.Counter
	sessionsCompleted prometheus.Counter
	sessionsCanceled  prometheus.Counter
	paymentsFailed    prometheus.Counter

	// Гистограммы времени выполнения
	paymentDuration prometheus.Histogram
	httpDuration    *prometheus.HistogramVec

	// Gauge для открытых (нетерминальных) сессий
	openSessions prometheus.Gauge
}

// NewCheckoutMetrics создаёт метрики с регистрацией в DefaultRegisterer.
func NewCheckoutMetrics() *CheckoutMetrics {
	return NewCheckoutMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewCheckoutMetricsWithRegisterer создаёт метрики с регистрацией в переданном registerer.
// Повторная регистрация переиспользует уже существующие collectors.
func NewCheckoutMetricsWithRegisterer(registerer prometheus.Registerer) *CheckoutMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &CheckoutMetrics{
		sessionsCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "acs_checkout_sessions_created_total",
			Help: "Total number of checkout sessions created",
		}),
		sessionsCompleted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "acs_checkout_sessions_completed_total",
			Help: "Total number of checkout sessions completed successfully",
		}),
		sessionsCanceled: registerCounter(registerer, prometheus.CounterOpts{
			Name: "acs_checkout_sessions_canceled_total",
			Help: "Total number of checkout sessions canceled",
		}),
		paymentsFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "acs_payments_failed_total",
			Help: "Total number of failed payment capture attempts",
		}),
		paymentDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "acs_payment_duration_seconds",
			Help:    "Duration of the two-stage payment capture in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		httpDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "acs_http_request_duration_seconds",
			Help:    "Duration of checkout API requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"route", "method", "status"}),
		openSessions: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "acs_open_checkout_sessions",
			Help: "Number of checkout sessions in a non-terminal status",
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

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
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

// RecordSessionCreated увеличивает счётчик созданных сессий и gauge открытых.
func (m *CheckoutMetrics) RecordSessionCreated() {
	m.sessionsCreated.Inc()
	m.openSessions.Inc()
}

// RecordSessionCompleted увеличивает счётчик завершённых сессий.
func (m *CheckoutMetrics) RecordSessionCompleted() {
	m.sessionsCompleted.Inc()
	m.openSessions.Dec()
}

// RecordSessionCanceled увеличивает счётчик отменённых сессий.
func (m *CheckoutMetrics) RecordSessionCanceled() {
	m.sessionsCanceled.Inc()
	m.openSessions.Dec()
}

// RecordPaymentFailed увеличивает счётчик неудачных платежей.
func (m *CheckoutMetrics) RecordPaymentFailed() {
	m.paymentsFailed.Inc()
}

// RecordPaymentDuration записывает время выполнения платёжной стадии.
func (m *CheckoutMetrics) RecordPaymentDuration(duration time.Duration) {
	m.paymentDuration.Observe(duration.Seconds())
}

// RecordHTTPRequest записывает длительность обработки запроса API.
func (m *CheckoutMetrics) RecordHTTPRequest(route, method, status string, duration time.Duration) {
	m.httpDuration.WithLabelValues(route, method, status).Observe(duration.Seconds())
}
