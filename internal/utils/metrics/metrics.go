package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Checkout metrics
	CheckoutEventsTotal *prometheus.CounterVec
	CheckoutAmountTotal *prometheus.CounterVec
	SettlementsTotal    *prometheus.CounterVec
	NoticesTotal        *prometheus.CounterVec

	// Processor metrics
	ProcessorRequestsTotal   *prometheus.CounterVec
	ProcessorRequestDuration *prometheus.HistogramVec

	// Webhook metrics
	WebhookEventsTotal *prometheus.CounterVec
}

// New creates a Metrics instance registered with the default registry.
func New(namespace string) *Metrics {
	return NewWithRegistry(namespace, prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a Metrics instance registered with reg.
func NewWithRegistry(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "checkout"
	}
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),

		CheckoutEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "checkout",
				Name:      "events_total",
				Help:      "Total number of tracked checkout events",
			},
			[]string{"event", "method", "sandbox"},
		),
		CheckoutAmountTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "checkout",
				Name:      "amount_total",
				Help:      "Sum of tracked checkout amounts in major units",
			},
			[]string{"event", "method", "sandbox"},
		),
		SettlementsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "checkout",
				Name:      "settlements_total",
				Help:      "Total number of settlement attempts",
			},
			[]string{"channel", "result"}, // result: settled, duplicate
		),
		NoticesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "checkout",
				Name:      "notices_total",
				Help:      "Total number of customer notices queued",
			},
			[]string{"level"},
		),

		ProcessorRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "processor",
				Name:      "requests_total",
				Help:      "Total number of payment processor API calls",
			},
			[]string{"processor", "operation", "status"},
		),
		ProcessorRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "processor",
				Name:      "request_duration_seconds",
				Help:      "Payment processor API call duration in seconds",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"processor", "operation"},
		),

		WebhookEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "webhook",
				Name:      "events_total",
				Help:      "Total number of processor webhook callbacks",
			},
			[]string{"provider", "outcome"},
		),
	}
}

// --- Convenience methods ---

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	statusStr := statusCodeToString(status)
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordCheckoutEvent records a tracked checkout event and its amount.
func (m *Metrics) RecordCheckoutEvent(event, method string, sandbox bool, amount float64) {
	mode := strconv.FormatBool(sandbox)
	m.CheckoutEventsTotal.WithLabelValues(event, method, mode).Inc()
	if amount > 0 {
		m.CheckoutAmountTotal.WithLabelValues(event, method, mode).Add(amount)
	}
}

// RecordSettlement records a settlement attempt.
func (m *Metrics) RecordSettlement(channel string, duplicate bool) {
	result := "settled"
	if duplicate {
		result = "duplicate"
	}
	m.SettlementsTotal.WithLabelValues(channel, result).Inc()
}

// RecordNotice records a queued customer notice.
func (m *Metrics) RecordNotice(level string) {
	m.NoticesTotal.WithLabelValues(level).Inc()
}

// RecordProcessorRequest records a payment processor API call.
func (m *Metrics) RecordProcessorRequest(processor, operation string, err error, duration time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.ProcessorRequestsTotal.WithLabelValues(processor, operation, status).Inc()
	m.ProcessorRequestDuration.WithLabelValues(processor, operation).Observe(duration.Seconds())
}

// RecordWebhook records a webhook callback outcome.
func (m *Metrics) RecordWebhook(provider, outcome string) {
	m.WebhookEventsTotal.WithLabelValues(provider, outcome).Inc()
}

// statusCodeToString converts an HTTP status code to a string category.
func statusCodeToString(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
