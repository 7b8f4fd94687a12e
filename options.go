package descgo

import (
	"log/slog"

	"github.com/hupe1980/descgo/bytestore"
	"github.com/hupe1980/descgo/codec"
	"golang.org/x/time/rate"
)

// MemorySetOptions configure NewMemorySet.
type MemorySetOptions struct {
	// CacheStore, when set, persists the serialized table after every
	// mutation and seeds the set on construction.
	CacheStore bytestore.ByteStore

	// Protocol selects the cache blob format version.
	// -1 (the default) and 0 select the current version.
	Protocol int

	// Codec encodes the table payload inside the cache blob.
	// Defaults to codec.Default (gob).
	Codec codec.Codec

	// Logger receives operation logs. Defaults to NoopLogger().
	Logger *Logger

	// Metrics receives operation metrics. Defaults to NoopMetricsCollector.
	Metrics MetricsCollector
}

// Option configures MemorySet constructor behavior.
type Option func(*MemorySetOptions)

// WithCacheStore configures a write-through cache for the set.
//
// On construction a non-empty store seeds the table; after every
// mutating call the full table is re-serialized into the store.
func WithCacheStore(store bytestore.ByteStore) Option {
	return func(o *MemorySetOptions) {
		o.CacheStore = store
	}
}

// WithProtocol selects the cache blob format version.
// -1 and 0 select the current version.
func WithProtocol(version int) Option {
	return func(o *MemorySetOptions) {
		o.Protocol = version
	}
}

// WithCodec configures the codec used for the cache table payload.
//
// If nil is passed, codec.Default is used. Note that the table holds
// interface values, which the JSON codec cannot round-trip.
func WithCodec(c codec.Codec) Option {
	return func(o *MemorySetOptions) {
		if c == nil {
			c = codec.Default
		}
		o.Codec = c
	}
}

// WithLogger configures structured logging for set operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *MemorySetOptions) {
		o.Logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *MemorySetOptions) {
		o.Logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for set operations.
//
// Example with BasicMetricsCollector:
//
//	metrics := &descgo.BasicMetricsCollector{}
//	ds, _ := descgo.NewMemorySet(ctx, descgo.WithMetricsCollector(metrics))
//	// ... use ds ...
//	stats := metrics.GetStats()
//	fmt.Printf("Adds: %d, Avg sync bytes: %d\n", stats.AddCount, stats.CacheSyncBytes)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *MemorySetOptions) {
		o.Metrics = mc
	}
}

func applyMemorySetOptions(optFns []Option) MemorySetOptions {
	o := MemorySetOptions{
		Protocol: -1,
		Codec:    codec.Default,
		Logger:   NoopLogger(),
		Metrics:  NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	if o.Codec == nil {
		o.Codec = codec.Default
	}
	if o.Logger == nil {
		o.Logger = NoopLogger()
	}
	if o.Metrics == nil {
		o.Metrics = NoopMetricsCollector{}
	}

	return o
}

// GetManyOptions configure a GetManyVectors call. Fields are set inline:
//
//	vectors, err := descgo.GetManyVectors(ctx, elems, func(o *descgo.GetManyOptions) {
//	    o.Concurrency = 4
//	})
type GetManyOptions struct {
	// Concurrency caps the per-type fan-out used when a backend has no
	// bulk capability. Defaults to runtime.GOMAXPROCS(0) when <= 0.
	Concurrency int

	// Limiter optionally throttles individual vector fetches, e.g. to
	// respect a remote backend's request budget. Nil means unthrottled.
	Limiter *rate.Limiter

	// Logger receives bulk-fetch logs. Defaults to NoopLogger().
	Logger *Logger

	// Metrics receives bulk-fetch metrics. Defaults to NoopMetricsCollector.
	Metrics MetricsCollector
}

func applyGetManyOptions(optFns []func(o *GetManyOptions)) GetManyOptions {
	o := GetManyOptions{
		Logger:  NoopLogger(),
		Metrics: NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	if o.Logger == nil {
		o.Logger = NoopLogger()
	}
	if o.Metrics == nil {
		o.Metrics = NoopMetricsCollector{}
	}

	return o
}
