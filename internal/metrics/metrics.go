package metrics

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shenikar/fala_cidadao/internal/events"
	"github.com/shenikar/fala_cidadao/internal/evidence"
)

const (
	namespace = "fala_cidadao"

	ResultAccepted = "accepted"
	ResultFailed   = "failed"
)

var (
	once sync.Once

	// EventsTotal считает сохранённые изменения по типу
	EventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "reports",
		Name:      "events_total",
		Help:      "Total number of collection change events, labeled by kind.",
	}, []string{"kind"})

	// EvidenceBatchesTotal считает наборы фото по результату: accepted или тип ошибки
	EvidenceBatchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "evidence",
		Name:      "batches_total",
		Help:      "Total number of evidence batches processed, labeled by result.",
	}, []string{"operation", "result"})

	TriageRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "triage",
		Name:      "requests_total",
		Help:      "Total number of triage requests, labeled by whether duplicates were found.",
	}, []string{"duplicates"})

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route and status code.",
		// загрузка фото заметно дольше остальных запросов
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"method", "route", "status"})
)

// Register регистрирует метрики в реестре Prometheus по умолчанию; повторный вызов безопасен
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			EventsTotal,
			EvidenceBatchesTotal,
			TriageRequestsTotal,
			HTTPRequestDurationSeconds,
		)
	})
}

// RegisterGauge добавляет метрику, значение которой читается при каждом сборе
func RegisterGauge(subsystem, name, help string, fn func() float64) error {
	return prometheus.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	}, fn))
}

// Handler отдаёт метрики в формате Prometheus
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// EventHandler - подписчик шины событий
func EventHandler() events.Handler {
	return func(_ context.Context, e events.Event) {
		EventsTotal.WithLabelValues(string(e.Kind)).Inc()
	}
}

// ObserveEvidence учитывает результат приёма фото
func ObserveEvidence(operation string, err error) {
	EvidenceBatchesTotal.WithLabelValues(operation, EvidenceResult(err)).Inc()
}

// EvidenceResult переводит ошибку конвейера в значение метки
func EvidenceResult(err error) string {
	if err == nil {
		return ResultAccepted
	}
	var evErr evidence.Error
	if errors.As(err, &evErr) {
		return string(evErr.Kind())
	}
	return ResultFailed
}

func ObserveTriage(candidates int) {
	TriageRequestsTotal.WithLabelValues(strconv.FormatBool(candidates > 0)).Inc()
}

// GinMiddleware измеряет длительность запросов по шаблону маршрута
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequestDurationSeconds.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
