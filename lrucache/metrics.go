/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package lrucache

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/acronis/go-lrucache/internal/libinfo"
)

// MetricsCollector receives notifications about cache usage.
// Implementations must not call the cache back.
type MetricsCollector interface {
	// SetAmount sets the total number of entries in the cache.
	SetAmount(int)

	// IncHits increments the total number of successfully found keys in the cache.
	IncHits()

	// IncMisses increments the total number of not found keys in the cache.
	IncMisses()

	// IncInsertions increments the total number of new keys added to the cache.
	IncInsertions()

	// IncOverwrites increments the total number of values replaced for already cached keys.
	IncOverwrites()

	// AddEvictions increments the total number of evicted entries.
	AddEvictions(int)
}

// PrometheusMetricsOpts represents options for PrometheusMetrics.
type PrometheusMetricsOpts struct {
	// Namespace is a namespace for metrics. It will be prepended to all metric names.
	Namespace string

	// ConstLabels is a set of labels that will be applied to all metrics.
	// The library version label is always added.
	ConstLabels prometheus.Labels

	// CurriedLabelNames is a list of label names that will be curried with the provided labels.
	// If it's not empty, MustCurryWith must be called before the collector is passed to the cache.
	CurriedLabelNames []string
}

// PrometheusMetrics is a MetricsCollector that exposes cache statistics as Prometheus metrics.
type PrometheusMetrics struct {
	EntriesAmount   *prometheus.GaugeVec
	HitsTotal       *prometheus.CounterVec
	MissesTotal     *prometheus.CounterVec
	InsertionsTotal *prometheus.CounterVec
	OverwritesTotal *prometheus.CounterVec
	EvictionsTotal  *prometheus.CounterVec
}

var _ MetricsCollector = (*PrometheusMetrics)(nil)

// NewPrometheusMetrics creates a new instance of PrometheusMetrics with default options.
func NewPrometheusMetrics() *PrometheusMetrics {
	return NewPrometheusMetricsWithOpts(PrometheusMetricsOpts{})
}

// NewPrometheusMetricsWithOpts creates a new instance of PrometheusMetrics with the provided options.
func NewPrometheusMetricsWithOpts(opts PrometheusMetricsOpts) *PrometheusMetrics {
	constLabels := libinfo.AddPrometheusLibVersionLabel(opts.ConstLabels)
	counter := func(name, help string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   opts.Namespace,
			Name:        name,
			Help:        help,
			ConstLabels: constLabels,
		}, opts.CurriedLabelNames)
	}
	return &PrometheusMetrics{
		EntriesAmount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   opts.Namespace,
			Name:        "cache_entries_amount",
			Help:        "Total number of entries in the cache.",
			ConstLabels: constLabels,
		}, opts.CurriedLabelNames),
		HitsTotal:       counter("cache_hits_total", "Number of successfully found keys in the cache."),
		MissesTotal:     counter("cache_misses_total", "Number of not found keys in cache."),
		InsertionsTotal: counter("cache_insertions_total", "Number of new keys added to the cache."),
		OverwritesTotal: counter("cache_overwrites_total", "Number of values replaced for already cached keys."),
		EvictionsTotal:  counter("cache_evictions_total", "Number of evicted entries."),
	}
}

// MustCurryWith curries the metrics collector with the provided labels.
func (pm *PrometheusMetrics) MustCurryWith(labels prometheus.Labels) *PrometheusMetrics {
	return &PrometheusMetrics{
		EntriesAmount:   pm.EntriesAmount.MustCurryWith(labels),
		HitsTotal:       pm.HitsTotal.MustCurryWith(labels),
		MissesTotal:     pm.MissesTotal.MustCurryWith(labels),
		InsertionsTotal: pm.InsertionsTotal.MustCurryWith(labels),
		OverwritesTotal: pm.OverwritesTotal.MustCurryWith(labels),
		EvictionsTotal:  pm.EvictionsTotal.MustCurryWith(labels),
	}
}

func (pm *PrometheusMetrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		pm.EntriesAmount, pm.HitsTotal, pm.MissesTotal, pm.InsertionsTotal, pm.OverwritesTotal, pm.EvictionsTotal,
	}
}

// MustRegister does registration of metrics collector in Prometheus and panics if any error occurs.
func (pm *PrometheusMetrics) MustRegister() {
	prometheus.MustRegister(pm.collectors()...)
}

// Unregister cancels registration of metrics collector in Prometheus.
func (pm *PrometheusMetrics) Unregister() {
	for _, c := range pm.collectors() {
		prometheus.Unregister(c)
	}
}

// SetAmount sets the total number of entries in the cache.
func (pm *PrometheusMetrics) SetAmount(amount int) {
	pm.EntriesAmount.With(nil).Set(float64(amount))
}

// IncHits increments the total number of successfully found keys in the cache.
func (pm *PrometheusMetrics) IncHits() {
	pm.HitsTotal.With(nil).Inc()
}

// IncMisses increments the total number of not found keys in the cache.
func (pm *PrometheusMetrics) IncMisses() {
	pm.MissesTotal.With(nil).Inc()
}

// IncInsertions increments the total number of new keys added to the cache.
func (pm *PrometheusMetrics) IncInsertions() {
	pm.InsertionsTotal.With(nil).Inc()
}

// IncOverwrites increments the total number of values replaced for already cached keys.
func (pm *PrometheusMetrics) IncOverwrites() {
	pm.OverwritesTotal.With(nil).Inc()
}

// AddEvictions increments the total number of evicted entries.
func (pm *PrometheusMetrics) AddEvictions(n int) {
	pm.EvictionsTotal.With(nil).Add(float64(n))
}

type disabledMetrics struct{}

func (disabledMetrics) SetAmount(int)    {}
func (disabledMetrics) IncHits()         {}
func (disabledMetrics) IncMisses()       {}
func (disabledMetrics) IncInsertions()   {}
func (disabledMetrics) IncOverwrites()   {}
func (disabledMetrics) AddEvictions(int) {}
