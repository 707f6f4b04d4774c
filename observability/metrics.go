package observability

import (
	"time"

	dto "github.com/prometheus/client_model/go"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StoreOperationsTotal counts profile store calls by backend, operation and result
	StoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goslm_store_operations_total",
			Help: "Total number of profile store operations by backend, operation and result",
		},
		[]string{"backend", "operation", "result"}, // result: success, error
	)

	// StoreOperationDuration tracks profile store call duration in seconds
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "goslm_store_operation_duration_seconds",
			Help:    "Profile store operation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 100µs to ~1.6s
		},
		[]string{"backend", "operation"},
	)

	// ProfilesGauge tracks how many profiles the store held after the last listing
	ProfilesGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "goslm_profiles",
			Help: "Number of profiles seen in the last profile listing",
		},
		[]string{"backend"},
	)
)

// RecordStoreOperation records one store call
func RecordStoreOperation(backend, operation string, start time.Time, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	StoreOperationsTotal.WithLabelValues(backend, operation, result).Inc()
	StoreOperationDuration.WithLabelValues(backend, operation).Observe(time.Since(start).Seconds())
}

// WriteMetricsFile writes all registered metrics to path in the Prometheus
// text format, for the node_exporter textfile collector.
func WriteMetricsFile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}

// GetCounterValue retrieves the current value of a counter metric with the given labels
// This is primarily intended for testing
func GetCounterValue(counter *prometheus.CounterVec, labels ...string) (float64, error) {
	metric, err := counter.GetMetricWithLabelValues(labels...)
	if err != nil {
		return 0, err
	}

	var pb dto.Metric
	if err := metric.Write(&pb); err != nil {
		return 0, err
	}

	if pb.Counter != nil {
		return pb.Counter.GetValue(), nil
	}

	return 0, nil
}

// GetGaugeValue retrieves the current value of a gauge metric with the given labels
func GetGaugeValue(gauge *prometheus.GaugeVec, labels ...string) (float64, error) {
	metric, err := gauge.GetMetricWithLabelValues(labels...)
	if err != nil {
		return 0, err
	}

	var pb dto.Metric
	if err := metric.Write(&pb); err != nil {
		return 0, err
	}

	if pb.Gauge != nil {
		return pb.Gauge.GetValue(), nil
	}

	return 0, nil
}
