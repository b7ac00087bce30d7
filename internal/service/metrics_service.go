package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP
// surface, the persistence slot, the daily sweep, and bulk imports.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	storePayload    prometheus.Gauge
	storeRecords    prometheus.Gauge
	sweepRuns       prometheus.Counter
	sweptRecords    prometheus.Counter
	importRows      *prometheus.CounterVec
}

// NewMetricsService registers the collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	storePayload := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "store_payload_bytes",
		Help: "Serialized size of the persisted record collection",
	})

	storeRecords := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "store_records_total",
		Help: "Number of persisted instrument records",
	})

	sweepRuns := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "daily_sweep_runs_total",
		Help: "Number of completed daily reset sweeps",
	})

	sweptRecords := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "daily_sweep_records_total",
		Help: "Number of records cleared by daily reset sweeps",
	})

	importRows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "import_rows_total",
		Help: "Spreadsheet import rows by outcome",
	}, []string{"result"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, storePayload, storeRecords, sweepRuns, sweptRecords, importRows, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		storePayload:    storePayload,
		storeRecords:    storeRecords,
		sweepRuns:       sweepRuns,
		sweptRecords:    sweptRecords,
		importRows:      importRows,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveStore records the persisted payload size after a successful write.
func (m *MetricsService) ObserveStore(payloadBytes, records int) {
	if m == nil {
		return
	}
	m.storePayload.Set(float64(payloadBytes))
	m.storeRecords.Set(float64(records))
}

// ObserveSweep records a completed daily sweep.
func (m *MetricsService) ObserveSweep(changed int) {
	if m == nil {
		return
	}
	m.sweepRuns.Inc()
	m.sweptRecords.Add(float64(changed))
}

// ObserveImport records per-run import row outcomes.
func (m *MetricsService) ObserveImport(accepted, rejected int) {
	if m == nil {
		return
	}
	m.importRows.WithLabelValues("accepted").Add(float64(accepted))
	m.importRows.WithLabelValues("rejected").Add(float64(rejected))
}
