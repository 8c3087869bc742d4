// Package health reports whether a webvideo installation can build.
//
// A build needs the encoder binaries and, when caching is configured, a
// usable cache store. BinaryChecker and StoreChecker cover those two; an
// Aggregator runs a set of checkers with a shared deadline and returns a
// Report in registration order:
//
//	agg := health.NewAggregator(health.AggregatorConfig{})
//	agg.Register(health.NewBinaryChecker("ffmpeg", "ffmpeg"))
//	agg.Register(health.NewStoreChecker("cache", store))
//	report := agg.CheckAll(ctx)
//
// A missing binary is unhealthy. A failing store is only degraded, since
// builds fall back to encoding every output.
package health
