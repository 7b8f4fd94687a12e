package descgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    addCounter     prometheus.Counter
//	    fetchHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordAdd(count int, duration time.Duration, err error) {
//	    p.addCounter.Add(float64(count))
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordAdd is called after each add operation (single or batch).
	// count is the number of descriptors inserted, duration is the total
	// time taken, err is nil if successful.
	RecordAdd(count int, duration time.Duration, err error)

	// RecordRemove is called after each remove operation (single or batch).
	RecordRemove(count int, duration time.Duration, err error)

	// RecordBulkFetch is called after each batched vector retrieval.
	// requested is the number of elements in the batch, resolved is the
	// number whose vectors were present.
	RecordBulkFetch(requested, resolved int, duration time.Duration, err error)

	// RecordCacheSync is called after each write-through cache
	// synchronization. bytes is the serialized table size.
	RecordCacheSync(bytes int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAdd(int, time.Duration, error)            {}
func (NoopMetricsCollector) RecordRemove(int, time.Duration, error)         {}
func (NoopMetricsCollector) RecordBulkFetch(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordCacheSync(int, time.Duration, error)      {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	AddCount            atomic.Int64
	AddItems            atomic.Int64
	AddErrors           atomic.Int64
	RemoveCount         atomic.Int64
	RemoveItems         atomic.Int64
	RemoveErrors        atomic.Int64
	BulkFetchCount      atomic.Int64
	BulkFetchRequested  atomic.Int64
	BulkFetchResolved   atomic.Int64
	BulkFetchErrors     atomic.Int64
	BulkFetchTotalNanos atomic.Int64
	CacheSyncCount      atomic.Int64
	CacheSyncBytes      atomic.Int64
	CacheSyncErrors     atomic.Int64
}

// RecordAdd implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAdd(count int, duration time.Duration, err error) {
	b.AddCount.Add(1)
	b.AddItems.Add(int64(count))
	if err != nil {
		b.AddErrors.Add(1)
	}
}

// RecordRemove implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRemove(count int, duration time.Duration, err error) {
	b.RemoveCount.Add(1)
	b.RemoveItems.Add(int64(count))
	if err != nil {
		b.RemoveErrors.Add(1)
	}
}

// RecordBulkFetch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBulkFetch(requested, resolved int, duration time.Duration, err error) {
	b.BulkFetchCount.Add(1)
	b.BulkFetchRequested.Add(int64(requested))
	b.BulkFetchResolved.Add(int64(resolved))
	b.BulkFetchTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.BulkFetchErrors.Add(1)
	}
}

// RecordCacheSync implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCacheSync(bytes int, duration time.Duration, err error) {
	b.CacheSyncCount.Add(1)
	b.CacheSyncBytes.Add(int64(bytes))
	if err != nil {
		b.CacheSyncErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		AddCount:           b.AddCount.Load(),
		AddItems:           b.AddItems.Load(),
		AddErrors:          b.AddErrors.Load(),
		RemoveCount:        b.RemoveCount.Load(),
		RemoveItems:        b.RemoveItems.Load(),
		RemoveErrors:       b.RemoveErrors.Load(),
		BulkFetchCount:     b.BulkFetchCount.Load(),
		BulkFetchRequested: b.BulkFetchRequested.Load(),
		BulkFetchResolved:  b.BulkFetchResolved.Load(),
		BulkFetchErrors:    b.BulkFetchErrors.Load(),
		BulkFetchAvgNanos:  b.getAvgBulkFetchNanos(),
		CacheSyncCount:     b.CacheSyncCount.Load(),
		CacheSyncBytes:     b.CacheSyncBytes.Load(),
		CacheSyncErrors:    b.CacheSyncErrors.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgBulkFetchNanos() int64 {
	count := b.BulkFetchCount.Load()
	if count == 0 {
		return 0
	}
	return b.BulkFetchTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	AddCount           int64
	AddItems           int64
	AddErrors          int64
	RemoveCount        int64
	RemoveItems        int64
	RemoveErrors       int64
	BulkFetchCount     int64
	BulkFetchRequested int64
	BulkFetchResolved  int64
	BulkFetchErrors    int64
	BulkFetchAvgNanos  int64
	CacheSyncCount     int64
	CacheSyncBytes     int64
	CacheSyncErrors    int64
}
