// Package metrics collects request metrics for the split service.
//
// Handlers emit events on a buffered channel; a single collector goroutine
// folds them into counters and a bounded window of latencies:
//   - requests by HTTP status
//   - keys and characters analyzed, characters without a reading
//   - failures by error kind
//   - latency average and percentiles (P50, P95, P99)
//
// Sends never block the request path. If the buffer is full the event is
// dropped and counted.
//
// Example usage:
//
//	collector := metrics.NewCollector(1000, logger)
//	collector.Start(ctx)
//
//	collector.Emit(metrics.MetricEvent{
//		Type:       metrics.EventRequestCompleted,
//		Endpoint:   "/cantonese_split",
//		Duration:   3 * time.Millisecond,
//		StatusCode: 200,
//		Keys:       2,
//		Chars:      5,
//	})
//
//	snapshot := collector.Snapshot()
package metrics
