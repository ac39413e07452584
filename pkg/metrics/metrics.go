package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор prometheus метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueriesTotal  *prometheus.CounterVec
	DBQueryDuration *prometheus.HistogramVec
	DBOpenConns     prometheus.Gauge
	DBIdleConns     prometheus.Gauge

	HoldsCreatedTotal     prometheus.Counter
	HoldsExpiredTotal     prometheus.Counter
	HoldsConvertedTotal   prometheus.Counter
	ReconciliationsTotal  *prometheus.CounterVec
	WebhooksReceivedTotal *prometheus.CounterVec
}

// New регистрирует и возвращает метрики сервиса
func New(serviceName string) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "path", "status"}),

		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		DBQueriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_queries_total",
			Help:        "Total number of database queries",
			ConstLabels: labels,
		}, []string{"operation"}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: labels,
			Buckets:     []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"operation"}),

		DBOpenConns: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of open database connections",
			ConstLabels: labels,
		}),

		DBIdleConns: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle database connections",
			ConstLabels: labels,
		}),

		HoldsCreatedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "holds_created_total",
			Help:        "Total number of temporary holds created",
			ConstLabels: labels,
		}),

		HoldsExpiredTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "holds_expired_total",
			Help:        "Total number of temporary holds removed by the sweeper",
			ConstLabels: labels,
		}),

		HoldsConvertedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "holds_converted_total",
			Help:        "Total number of holds converted into confirmed bookings",
			ConstLabels: labels,
		}),

		ReconciliationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "payment_reconciliations_total",
			Help:        "Total number of payment reconciliations by outcome",
			ConstLabels: labels,
		}, []string{"outcome"}),

		WebhooksReceivedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "payment_webhooks_total",
			Help:        "Total number of inbound payment webhooks by processing status",
			ConstLabels: labels,
		}, []string{"status"}),
	}
}
