package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics контейнер prometheus-метрик сервиса
// Методы безопасны при nil-receiver: при выключенных метриках все вызовы - no-op
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueriesTotal  *prometheus.CounterVec
	dbQueryDuration *prometheus.HistogramVec
	dbPoolOpen      prometheus.Gauge
	dbPoolInUse     prometheus.Gauge
	dbPoolIdle      prometheus.Gauge

	reservationsTotal    *prometheus.CounterVec
	finalizationsTotal   *prometheus.CounterVec
	sweptReservations    prometheus.Counter
	slotsGeneratedTotal  prometheus.Counter
	slotsRetractedTotal  prometheus.Counter
	slotLinkAlertsTotal  prometheus.Counter
	travelCacheHitsTotal *prometheus.CounterVec
}

// New создает и регистрирует метрики сервиса
func New(serviceName string) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "path", "status"}),

		httpRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		dbQueriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_queries_total",
			Help:        "Total number of database queries",
			ConstLabels: labels,
		}, []string{"operation"}),

		dbQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: labels,
			Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),

		dbPoolOpen: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_pool_open_connections",
			Help:        "Number of open database connections",
			ConstLabels: labels,
		}),

		dbPoolInUse: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_pool_in_use_connections",
			Help:        "Number of database connections in use",
			ConstLabels: labels,
		}),

		dbPoolIdle: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_pool_idle_connections",
			Help:        "Number of idle database connections",
			ConstLabels: labels,
		}),

		reservationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "slot_reservations_total",
			Help:        "Slot reservation attempts by outcome (won/lost)",
			ConstLabels: labels,
		}, []string{"outcome"}),

		finalizationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_finalizations_total",
			Help:        "Booking finalizations by outcome",
			ConstLabels: labels,
		}, []string{"outcome"}),

		sweptReservations: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "swept_reservations_total",
			Help:        "Expired reservations released by the cleanup sweeper",
			ConstLabels: labels,
		}),

		slotsGeneratedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "availability_slots_generated_total",
			Help:        "Availability slots upserted by the generator",
			ConstLabels: labels,
		}),

		slotsRetractedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "availability_slots_retracted_total",
			Help:        "Availability slots retracted by the generator",
			ConstLabels: labels,
		}),

		slotLinkAlertsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "slot_link_failures_total",
			Help:        "Finalizations where slot linking failed after appointment creation",
			ConstLabels: labels,
		}),

		travelCacheHitsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "travel_time_cache_requests_total",
			Help:        "Travel time cache requests by result (hit/miss/error)",
			ConstLabels: labels,
		}, []string{"result"}),
	}
}

// ObserveHTTPRequest фиксирует завершенный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует выполненный запрос к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueriesTotal.WithLabelValues(operation).Inc()
	m.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetDBPoolStats обновляет gauge-метрики connection pool
func (m *Metrics) SetDBPoolStats(open, inUse, idle int) {
	if m == nil {
		return
	}
	m.dbPoolOpen.Set(float64(open))
	m.dbPoolInUse.Set(float64(inUse))
	m.dbPoolIdle.Set(float64(idle))
}

// IncReservation фиксирует исход попытки резервирования ("won" или "lost")
func (m *Metrics) IncReservation(outcome string) {
	if m == nil {
		return
	}
	m.reservationsTotal.WithLabelValues(outcome).Inc()
}

// IncFinalization фиксирует исход финализации ("success", "expired", "duplicate", "error")
func (m *Metrics) IncFinalization(outcome string) {
	if m == nil {
		return
	}
	m.finalizationsTotal.WithLabelValues(outcome).Inc()
}

// AddSweptReservations фиксирует количество освобожденных резервирований
func (m *Metrics) AddSweptReservations(n int) {
	if m == nil {
		return
	}
	m.sweptReservations.Add(float64(n))
}

// AddGeneratedSlots фиксирует количество сгенерированных слотов
func (m *Metrics) AddGeneratedSlots(n int) {
	if m == nil {
		return
	}
	m.slotsGeneratedTotal.Add(float64(n))
}

// AddRetractedSlots фиксирует количество отозванных слотов
func (m *Metrics) AddRetractedSlots(n int) {
	if m == nil {
		return
	}
	m.slotsRetractedTotal.Add(float64(n))
}

// IncSlotLinkAlert фиксирует нарушение инварианта связывания слотов
// Должно алертить - Slot Store рассинхронизирован с appointment store
func (m *Metrics) IncSlotLinkAlert() {
	if m == nil {
		return
	}
	m.slotLinkAlertsTotal.Inc()
}

// IncTravelCacheRequest фиксирует обращение к кешу времени в пути ("hit", "miss", "error")
func (m *Metrics) IncTravelCacheRequest(result string) {
	if m == nil {
		return
	}
	m.travelCacheHitsTotal.WithLabelValues(result).Inc()
}
