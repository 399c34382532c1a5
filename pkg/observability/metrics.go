// Package observability provides metrics and logging sinks for tree events.
package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Sumatoshi-tech/tangotree/pkg/bst"
)

const (
	metricEventsTotal    = "tangotree.events.total"
	metricSearchDuration = "tangotree.search.duration.seconds"
	metricSearchesTotal  = "tangotree.searches.total"

	attrEvent = "event"
)

// durationBucketBoundaries covers 1us to 1s: single searches are cheap, but
// cut and join bursts after a cold start can stretch into milliseconds.
var durationBucketBoundaries = []float64{
	0.000001, 0.000005, 0.00001, 0.00005,
	0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1,
}

// TreeMetrics holds the OTel instruments for tree activity.
type TreeMetrics struct {
	eventsTotal    metric.Int64Counter
	searchDuration metric.Float64Histogram
	searchesTotal  metric.Int64Counter
}

// NewTreeMetrics creates tree metric instruments from the given meter.
func NewTreeMetrics(mt metric.Meter) (*TreeMetrics, error) {
	eventsTotal, err := mt.Int64Counter(metricEventsTotal,
		metric.WithDescription("Total number of structural tree events"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricEventsTotal, err)
	}

	searchDuration, err := mt.Float64Histogram(metricSearchDuration,
		metric.WithDescription("Search duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricSearchDuration, err)
	}

	searchesTotal, err := mt.Int64Counter(metricSearchesTotal,
		metric.WithDescription("Total number of searches"),
		metric.WithUnit("{search}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricSearchesTotal, err)
	}

	return &TreeMetrics{
		eventsTotal:    eventsTotal,
		searchDuration: searchDuration,
		searchesTotal:  searchesTotal,
	}, nil
}

// RecordEvent counts one structural event.
func (tm *TreeMetrics) RecordEvent(ctx context.Context, event bst.Event) {
	tm.eventsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrEvent, string(event)),
	))
}

// RecordSearch records a completed search with its duration.
func (tm *TreeMetrics) RecordSearch(ctx context.Context, duration time.Duration) {
	tm.searchesTotal.Add(ctx, 1)
	tm.searchDuration.Record(ctx, duration.Seconds())
}

// MetricsObserver forwards tree events to TreeMetrics. It satisfies
// [bst.Observer] and can be combined with other observers through Multi.
type MetricsObserver struct {
	metrics *TreeMetrics
}

// NewMetricsObserver creates an observer recording into the given metrics.
func NewMetricsObserver(metrics *TreeMetrics) *MetricsObserver {
	return &MetricsObserver{metrics: metrics}
}

// TreeEvent implements [bst.Observer].
func (mo *MetricsObserver) TreeEvent(event bst.Event, _ uint32, _ []uint32) {
	mo.metrics.RecordEvent(context.Background(), event)
}

// Multi fans one event stream out to several observers.
type Multi []bst.Observer

// TreeEvent implements [bst.Observer].
func (m Multi) TreeEvent(event bst.Event, focus uint32, highlight []uint32) {
	for _, o := range m {
		o.TreeEvent(event, focus, highlight)
	}
}
