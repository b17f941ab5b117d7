package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "interfacing_"

	resultSuccess = "success"
	resultError   = "error"
)

// Result labels used by Observe helpers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
)

var (
	registerOnce sync.Once

	uploadRowsTotal *prometheus.CounterVec
	uploadTotal     *prometheus.CounterVec

	statementGenerateTotal   *prometheus.CounterVec
	statementGenerateLatency *prometheus.HistogramVec
	statementExportTotal     *prometheus.CounterVec
	statementExportLatency   *prometheus.HistogramVec

	fixvarReportTotal   *prometheus.CounterVec
	fixvarReportLatency *prometheus.HistogramVec

	validationRunTotal      *prometheus.CounterVec
	validationRunLatency    *prometheus.HistogramVec
	validationOutcomesTotal *prometheus.CounterVec
)

// Init registers observability metrics. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		uploadRowsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "upload_rows_total",
				Help: "Total imported rows by kind",
			},
			[]string{"kind"},
		)
		uploadTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "upload_total",
				Help: "Total upload requests by kind and result",
			},
			[]string{"kind", "result"},
		)

		statementGenerateTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "statement_generate_total",
				Help: "Total statement generate operations by result",
			},
			[]string{"result"},
		)
		statementGenerateLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "statement_generate_latency_seconds",
				Help:    "Statement generate latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		statementExportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "statement_export_total",
				Help: "Total statement export operations by format and result",
			},
			[]string{"format", "result"},
		)
		statementExportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "statement_export_latency_seconds",
				Help:    "Statement export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		fixvarReportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "fixvar_report_total",
				Help: "Total fix/variable report computations by mode and result",
			},
			[]string{"mode", "result"},
		)
		fixvarReportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "fixvar_report_latency_seconds",
				Help:    "Fix/variable report latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"mode", "result"},
		)

		validationRunTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "gdsdcf_validation_runs_total",
				Help: "Total GDS/DCF validation runs by result",
			},
			[]string{"result"},
		)
		validationRunLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "gdsdcf_validation_run_latency_seconds",
				Help:    "GDS/DCF validation run latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		validationOutcomesTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "gdsdcf_reservations_total",
				Help: "Total validated reservations by chargeability outcome",
			},
			[]string{"outcome"},
		)

		prometheus.MustRegister(
			uploadRowsTotal,
			uploadTotal,
			statementGenerateTotal,
			statementGenerateLatency,
			statementExportTotal,
			statementExportLatency,
			fixvarReportTotal,
			fixvarReportLatency,
			validationRunTotal,
			validationRunLatency,
			validationOutcomesTotal,
		)
	})
}

// ObserveUpload records an upload request and its imported row count.
func ObserveUpload(kind, result string, rows int) {
	if result == "" {
		result = resultSuccess
	}
	if uploadTotal != nil {
		uploadTotal.WithLabelValues(kind, result).Inc()
	}
	if uploadRowsTotal != nil && rows > 0 {
		uploadRowsTotal.WithLabelValues(kind).Add(float64(rows))
	}
}

// ObserveStatementGenerate records statement generation duration and result.
func ObserveStatementGenerate(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if statementGenerateTotal != nil {
		statementGenerateTotal.WithLabelValues(result).Inc()
	}
	if statementGenerateLatency != nil {
		statementGenerateLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// ObserveStatementExport records statement export duration and result.
func ObserveStatementExport(format, result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if statementExportTotal != nil {
		statementExportTotal.WithLabelValues(format, result).Inc()
	}
	if statementExportLatency != nil {
		statementExportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// ObserveFixVarReport records fix/variable report duration and result.
func ObserveFixVarReport(mode, result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if fixvarReportTotal != nil {
		fixvarReportTotal.WithLabelValues(mode, result).Inc()
	}
	if fixvarReportLatency != nil {
		fixvarReportLatency.WithLabelValues(mode, result).Observe(duration.Seconds())
	}
}

// ObserveValidationRun records a validation run duration and result.
func ObserveValidationRun(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if validationRunTotal != nil {
		validationRunTotal.WithLabelValues(result).Inc()
	}
	if validationRunLatency != nil {
		validationRunLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncReservationOutcome counts one validated reservation by outcome.
func IncReservationOutcome(chargeable bool) {
	if validationOutcomesTotal == nil {
		return
	}
	outcome := "chargeable"
	if !chargeable {
		outcome = "not_chargeable"
	}
	validationOutcomesTotal.WithLabelValues(outcome).Inc()
}
