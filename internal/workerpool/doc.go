// Package workerpool bounds how many CPU-bound analysis tasks run at once.
//
// Connection handling stays on net/http's own goroutines; only the analysis
// work is admitted through the pool, so a burst of large requests queues here
// instead of starving the accept loop.
package workerpool
