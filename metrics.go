package pqm

import (
	"sort"
	"sync"
	"time"
)

/*
Metrics collects job statistics of a backend: how many jobs ran, how many
failed or were rejected by a breaker, and their latency distribution over
a sliding window.
*/
type Metrics struct {
	mu            sync.RWMutex
	JobCount      int64
	FailedJobs    int64
	RejectedJobs  int64
	TotalJobTime  time.Duration
	LastJobFinish time.Time

	AverageJobLatency time.Duration
	P95JobLatency     time.Duration
	P99JobLatency     time.Duration
	JobSuccessRate    float64

	latencyWindow []time.Duration
	windowSize    int
}

func NewMetrics() *Metrics {
	return &Metrics{
		latencyWindow: make([]time.Duration, 0, 1000), // Store last 1000 measurements
		windowSize:    1000,
	}
}

func (m *Metrics) recordJobExecution(startTime time.Time, success bool) {
	duration := time.Since(startTime)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalJobTime += duration
	m.JobCount++
	m.LastJobFinish = time.Now()

	if !success {
		m.FailedJobs++
	}
	m.JobSuccessRate = float64(m.JobCount-m.FailedJobs) / float64(m.JobCount)

	m.updateLatencyPercentiles(duration)
}

func (m *Metrics) recordRejection() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RejectedJobs++
}

func (m *Metrics) updateLatencyPercentiles(duration time.Duration) {
	m.AverageJobLatency = m.TotalJobTime / time.Duration(m.JobCount)

	m.latencyWindow = append(m.latencyWindow, duration)
	if len(m.latencyWindow) > m.windowSize {
		m.latencyWindow = m.latencyWindow[1:]
	}

	sorted := make([]time.Duration, len(m.latencyWindow))
	copy(sorted, m.latencyWindow)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	p95Index := int(float64(len(sorted)) * 0.95)
	p99Index := int(float64(len(sorted)) * 0.99)

	// Ensure indices are within bounds
	if p95Index >= len(sorted) {
		p95Index = len(sorted) - 1
	}
	if p99Index >= len(sorted) {
		p99Index = len(sorted) - 1
	}

	m.P95JobLatency = sorted[p95Index]
	m.P99JobLatency = sorted[p99Index]
}

// ExportMetrics returns a snapshot keyed for reporting.
func (m *Metrics) ExportMetrics() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"job_count":     m.JobCount,
		"failed_jobs":   m.FailedJobs,
		"rejected_jobs": m.RejectedJobs,
		"success_rate":  m.JobSuccessRate,
		"avg_latency":   m.AverageJobLatency.Milliseconds(),
		"p95_latency":   m.P95JobLatency.Milliseconds(),
		"p99_latency":   m.P99JobLatency.Milliseconds(),
	}
}
