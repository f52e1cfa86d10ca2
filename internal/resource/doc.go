// Package resource implements the resource controller of a bin index.
//
// The Controller governs two resources:
//
//   - Memory: an optional byte budget for clusters created by the index
//     (non-blocking, fail-fast).
//   - Workers: the number of goroutines batch loads and batch queries may
//     run at once.
//
// # Memory Management
//
// Memory tracking uses a weighted semaphore for hard limits and an atomic
// counter for usage. AcquireMemory returns ErrMemoryLimitExceeded
// immediately when the budget would be exceeded:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 30, // 1GB limit
//	})
//
//	if err := rc.AcquireMemory(256); err != nil {
//	    // ErrMemoryLimitExceeded - the insert is rejected
//	}
//
// # Worker Limits
//
//	rc := resource.NewController(resource.Config{MaxWorkers: 4})
//
//	if err := rc.AcquireWorker(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseWorker()
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops.
package resource
