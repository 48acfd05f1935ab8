package metrics

import (
	"context"
)

// Custom type to represent a metric name,
// providing a type-safe way to handle metric names.
type MetricName string

const (
	ThumbRequestReceived   MetricName = "thumbnail.request.received"
	ThumbCacheHit          MetricName = "thumbnail.cache.hit"
	ThumbCacheMiss         MetricName = "thumbnail.cache.miss"
	ThumbCreated           MetricName = "thumbnail.created"
	ThumbFailed            MetricName = "thumbnail.failed"
	PrewarmRequestReceived MetricName = "prewarm.request.received"
	RecordRequestReceived  MetricName = "records.request.received"
)

type MetricsSvc interface {
	Increment(metric MetricName, attrs map[string]string)
	Shutdown(ctx context.Context) error
}
