package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics набор прометеус-метрик сервиса
type Metrics struct {
	registerer prometheus.Registerer

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	FeedFetchesTotal    *prometheus.CounterVec
	BookingConflicts    *prometheus.CounterVec
}

// New создает и регистрирует метрики в глобальном реестре
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики в переданном реестре (в тестах - отдельный prometheus.NewRegistry)
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		registerer: reg,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: serviceName,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		FeedFetchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "feed_fetches_total",
				Help:      "Calendar feed fetches by apartment and result",
			},
			[]string{"apartment", "result"},
		),
		BookingConflicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "booking_conflicts_total",
				Help:      "Rejected booking writes because of overlapping dates",
			},
			[]string{"operation"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.FeedFetchesTotal,
		m.BookingConflicts,
	)

	return m
}

// RegisterDB регистрирует статистику пула соединений
func (m *Metrics) RegisterDB(db *sql.DB, dbName string) {
	m.registerer.MustRegister(collectors.NewDBStatsCollector(db, dbName))
}

// ObserveHTTPRequest фиксирует завершённый HTTP-запрос
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveFeedFetch фиксирует результат загрузки календаря (ok, cached, failed, parse_failed)
func (m *Metrics) ObserveFeedFetch(apartment, result string) {
	m.FeedFetchesTotal.WithLabelValues(apartment, result).Inc()
}

// ObserveConflict фиксирует отклонённую запись из-за пересечения дат
func (m *Metrics) ObserveConflict(operation string) {
	m.BookingConflicts.WithLabelValues(operation).Inc()
}

// Nop реализация для выключенных метрик
type Nop struct{}

func (Nop) ObserveFeedFetch(string, string) {}

func (Nop) ObserveConflict(string) {}
