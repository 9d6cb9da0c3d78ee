package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	WeatherResolved        uint64
	CityNotFound           uint64
	ProviderErrors         uint64
	ResolveDurationCount   uint64
	ResolveDurationTotalNs int64
	HistoryAppended        uint64
	SuggestDegraded        uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	weatherResolved        uint64
	cityNotFound           uint64
	providerErrors         uint64
	resolveDurationCount   uint64
	resolveDurationTotalNs int64
	historyAppended        uint64
	suggestDegraded        uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		WeatherResolved:        atomic.LoadUint64(&m.weatherResolved),
		CityNotFound:           atomic.LoadUint64(&m.cityNotFound),
		ProviderErrors:         atomic.LoadUint64(&m.providerErrors),
		ResolveDurationCount:   atomic.LoadUint64(&m.resolveDurationCount),
		ResolveDurationTotalNs: atomic.LoadInt64(&m.resolveDurationTotalNs),
		HistoryAppended:        atomic.LoadUint64(&m.historyAppended),
		SuggestDegraded:        atomic.LoadUint64(&m.suggestDegraded),
	}
}

// IncWeatherResolved increments the successful resolution counter.
func (m *InMemoryRecorder) IncWeatherResolved() {
	atomic.AddUint64(&m.weatherResolved, 1)
}

// IncCityNotFound increments the geocoder-miss counter.
func (m *InMemoryRecorder) IncCityNotFound() {
	atomic.AddUint64(&m.cityNotFound, 1)
}

// IncProviderError increments the upstream fault counter.
func (m *InMemoryRecorder) IncProviderError() {
	atomic.AddUint64(&m.providerErrors, 1)
}

// ObserveResolveDuration records one resolution duration.
func (m *InMemoryRecorder) ObserveResolveDuration(duration time.Duration) {
	atomic.AddUint64(&m.resolveDurationCount, 1)
	atomic.AddInt64(&m.resolveDurationTotalNs, duration.Nanoseconds())
}

// IncHistoryAppended increments the history append counter.
func (m *InMemoryRecorder) IncHistoryAppended() {
	atomic.AddUint64(&m.historyAppended, 1)
}

// IncSuggestDegraded increments the degraded-suggestion counter.
func (m *InMemoryRecorder) IncSuggestDegraded() {
	atomic.AddUint64(&m.suggestDegraded, 1)
}
