// Package metrics holds the Prometheus collectors for a comparison run.
package metrics

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Page fetch outcomes
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeFailed   = "failed"
	OutcomeSkipped  = "skipped"
	OutcomeCached   = "cached"
)

// Metrics bundles Prometheus collectors for the crawler.
type Metrics struct {
	Registry         *prometheus.Registry
	PagesFetched     *prometheus.CounterVec
	RecordsExtracted *prometheus.CounterVec
	FetchDuration    prometheus.Histogram
	Retries          prometheus.Counter
}

// New constructs and registers all metrics on a dedicated registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	pages := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boxdiff_pages_fetched_total",
			Help: "Listing pages requested, by outcome.",
		},
		[]string{"outcome"},
	)
	records := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boxdiff_records_extracted_total",
			Help: "Film records extracted, by listing.",
		},
		[]string{"listing"},
	)
	duration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "boxdiff_fetch_duration_seconds",
			Help:    "Latency of listing page fetches.",
			Buckets: prometheus.DefBuckets,
		},
	)
	retries := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "boxdiff_retries_total",
			Help: "Retry attempts scheduled for transient fetch failures.",
		},
	)

	registry.MustRegister(pages, records, duration, retries)

	return &Metrics{
		Registry:         registry,
		PagesFetched:     pages,
		RecordsExtracted: records,
		FetchDuration:    duration,
		Retries:          retries,
	}
}

// IncPage counts one page fetch with the given outcome.
func (m *Metrics) IncPage(outcome string) {
	if m == nil {
		return
	}
	m.PagesFetched.WithLabelValues(outcome).Inc()
}

// AddRecords counts records extracted from a listing.
func (m *Metrics) AddRecords(listing string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.RecordsExtracted.WithLabelValues(listing).Add(float64(n))
}

// ObserveFetch records a page fetch duration.
func (m *Metrics) ObserveFetch(d time.Duration) {
	if m == nil {
		return
	}
	m.FetchDuration.Observe(d.Seconds())
}

// IncRetries counts one scheduled retry.
func (m *Metrics) IncRetries() {
	if m == nil {
		return
	}
	m.Retries.Inc()
}

// WriteSummary prints every sample in the registry as "name{labels} value".
// Histograms are reduced to their count and sum.
func (m *Metrics) WriteSummary(w io.Writer) error {
	if m == nil {
		return nil
	}
	families, err := m.Registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	var lines []string
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			var labels []string
			for _, lp := range metric.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			name := mf.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}

			switch {
			case metric.GetCounter() != nil:
				lines = append(lines, fmt.Sprintf("%s %g", name, metric.GetCounter().GetValue()))
			case metric.GetHistogram() != nil:
				h := metric.GetHistogram()
				lines = append(lines,
					fmt.Sprintf("%s_count %d", name, h.GetSampleCount()),
					fmt.Sprintf("%s_sum %.3f", name, h.GetSampleSum()))
			}
		}
	}
	sort.Strings(lines)

	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}
