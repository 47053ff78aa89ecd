package metrics

import (
	"sort"
	"sync"
	"time"
)

const latencyWindow = 1000

type Metrics struct {
	mutex         sync.RWMutex
	requests      map[string]int64
	statusCodes   map[int]int64
	failures      map[string]int64
	responseTimes []time.Duration
	keys          int64
	chars         int64
	unknown       int64
	dropped       int64
	startTime     time.Time
}

type Snapshot struct {
	TotalRequests int64            `json:"total_requests"`
	Uptime        time.Duration    `json:"uptime"`
	Requests      map[string]int64 `json:"requests"`
	StatusCodes   map[int]int64    `json:"status_codes"`
	Failures      map[string]int64 `json:"failures"`
	KeysAnalyzed  int64            `json:"keys_analyzed"`
	CharsAnalyzed int64            `json:"chars_analyzed"`
	UnknownChars  int64            `json:"unknown_chars"`
	DroppedEvents int64            `json:"dropped_events"`
	Latency       Latency          `json:"latency"`
}

type Latency struct {
	Avg time.Duration `json:"avg"`
	P50 time.Duration `json:"p50"`
	P95 time.Duration `json:"p95"`
	P99 time.Duration `json:"p99"`
}

func NewMetrics() *Metrics {
	return &Metrics{
		requests:    make(map[string]int64),
		statusCodes: make(map[int]int64),
		failures:    make(map[string]int64),
		startTime:   time.Now(),
	}
}

func (m *Metrics) IncrementRequests(endpoint string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.requests[endpoint]++
}

func (m *Metrics) RecordResponse(duration time.Duration, statusCode int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.responseTimes = append(m.responseTimes, duration)
	if len(m.responseTimes) > latencyWindow {
		m.responseTimes = m.responseTimes[1:]
	}

	m.statusCodes[statusCode]++
}

func (m *Metrics) RecordAnalysis(keys, chars, unknown int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.keys += int64(keys)
	m.chars += int64(chars)
	m.unknown += int64(unknown)
}

func (m *Metrics) RecordFailure(kind string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.failures[kind]++
}

func (m *Metrics) IncrementDropped() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.dropped++
}

func (m *Metrics) Snapshot() Snapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snap := Snapshot{
		Uptime:        time.Since(m.startTime),
		Requests:      make(map[string]int64, len(m.requests)),
		StatusCodes:   make(map[int]int64, len(m.statusCodes)),
		Failures:      make(map[string]int64, len(m.failures)),
		KeysAnalyzed:  m.keys,
		CharsAnalyzed: m.chars,
		UnknownChars:  m.unknown,
		DroppedEvents: m.dropped,
	}

	for endpoint, n := range m.requests {
		snap.Requests[endpoint] = n
		snap.TotalRequests += n
	}
	for code, n := range m.statusCodes {
		snap.StatusCodes[code] = n
	}
	for kind, n := range m.failures {
		snap.Failures[kind] = n
	}

	if len(m.responseTimes) > 0 {
		sorted := make([]time.Duration, len(m.responseTimes))
		copy(sorted, m.responseTimes)
		sort.Slice(sorted, func(i, j int) bool {
			return sorted[i] < sorted[j]
		})

		snap.Latency = Latency{
			Avg: average(sorted),
			P50: percentile(sorted, 0.50),
			P95: percentile(sorted, 0.95),
			P99: percentile(sorted, 0.99),
		}
	}

	return snap
}

func average(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}

	var sum time.Duration
	for _, d := range durations {
		sum += d
	}

	return sum / time.Duration(len(durations))
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}

	index := int(float64(len(sorted)) * p)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	return sorted[index]
}
