package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ScansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vertitrack_reminder_scans_total",
		Help: "Total number of reminder scan cycles by trigger and outcome.",
	}, []string{"trigger", "outcome"})

	ScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "vertitrack_reminder_scan_duration_seconds",
		Help:    "Duration of a full reminder scan cycle.",
		Buckets: prometheus.DefBuckets,
	})

	AlertsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vertitrack_alerts_emitted_total",
		Help: "Alerts written to the store by category and priority.",
	}, []string{"category", "priority"})

	CategoryFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vertitrack_reminder_category_failures_total",
		Help: "Scan categories skipped because a source query failed.",
	}, []string{"category"})

	AlertsPurged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vertitrack_alerts_purged_total",
		Help: "Dismissed alerts removed by the retention sweep.",
	})
)

type Metrics interface {
	RecordScan(trigger, outcome string)
	ObserveScan(seconds float64)
	RecordAlert(category, priority string)
	RecordCategoryFailure(category string)
	RecordPurge(count int64)
}

type PrometheusMetrics struct{}

func (PrometheusMetrics) RecordScan(trigger, outcome string) {
	ScansTotal.WithLabelValues(trigger, outcome).Inc()
}

func (PrometheusMetrics) ObserveScan(seconds float64) {
	ScanDuration.Observe(seconds)
}

func (PrometheusMetrics) RecordAlert(category, priority string) {
	AlertsEmitted.WithLabelValues(category, priority).Inc()
}

func (PrometheusMetrics) RecordCategoryFailure(category string) {
	CategoryFailures.WithLabelValues(category).Inc()
}

func (PrometheusMetrics) RecordPurge(count int64) {
	AlertsPurged.Add(float64(count))
}

// NopMetrics drops every observation.
type NopMetrics struct{}

func (NopMetrics) RecordScan(string, string)    {}
func (NopMetrics) ObserveScan(float64)          {}
func (NopMetrics) RecordAlert(string, string)   {}
func (NopMetrics) RecordCategoryFailure(string) {}
func (NopMetrics) RecordPurge(int64)            {}
