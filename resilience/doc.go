// Package resilience bounds and retries external work: encoder processes
// and remote cache backends.
//
//   - Bulkhead caps concurrent operations; a shared instance keeps the number
//     of encoder processes at or below the CPU count.
//   - Retry re-runs transient failures with exponential backoff. Wrap an error
//     with Permanent to stop retrying.
//   - Timeout bounds a single attempt.
//
// Executor composes them:
//
//	exec := resilience.NewExecutor(
//	    resilience.WithBulkhead(resilience.NewBulkhead(resilience.BulkheadConfig{MaxConcurrent: 2})),
//	    resilience.WithTimeout(10*time.Minute),
//	)
//	err := exec.Execute(ctx, func(ctx context.Context) error {
//	    return runEncoder(ctx)
//	})
package resilience
