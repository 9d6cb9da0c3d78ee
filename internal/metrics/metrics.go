// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Weather resolution metrics
	IncWeatherResolved()
	IncCityNotFound()
	IncProviderError()
	ObserveResolveDuration(duration time.Duration)

	// History metrics
	IncHistoryAppended()

	// Suggestion metrics
	IncSuggestDegraded() // Provider failed, served history-only results
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
