package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncWeatherResolved is a no-op.
func (n *NoopRecorder) IncWeatherResolved() {}

// IncCityNotFound is a no-op.
func (n *NoopRecorder) IncCityNotFound() {}

// IncProviderError is a no-op.
func (n *NoopRecorder) IncProviderError() {}

// ObserveResolveDuration is a no-op.
func (n *NoopRecorder) ObserveResolveDuration(duration time.Duration) {}

// IncHistoryAppended is a no-op.
func (n *NoopRecorder) IncHistoryAppended() {}

// IncSuggestDegraded is a no-op.
func (n *NoopRecorder) IncSuggestDegraded() {}
