// Package metrics aggregates capability invocation latencies per capability
// using HDR histograms.
package metrics

import (
	"sort"
	"sync"
	"time"

	hdrhistogram "github.com/HdrHistogram/hdrhistogram-go"
)

// Histogram bounds in microseconds: 1us to 10 minutes, 3 significant digits.
const (
	minLatencyUs = 1
	maxLatencyUs = 10 * 60 * 1000 * 1000
	sigFigs      = 3
)

// CapabilitySnapshot is a point-in-time latency summary for one capability.
// All latency figures are in milliseconds.
type CapabilitySnapshot struct {
	CapabilityID string  `json:"capability_id"`
	Count        int64   `json:"count"`
	Failures     int64   `json:"failures"`
	Min          float64 `json:"min_ms"`
	Max          float64 `json:"max_ms"`
	Mean         float64 `json:"mean_ms"`
	P50          float64 `json:"p50_ms"`
	P90          float64 `json:"p90_ms"`
	P95          float64 `json:"p95_ms"`
	P99          float64 `json:"p99_ms"`
}

type series struct {
	hist     *hdrhistogram.Histogram
	failures int64
}

// Collector records invocation latencies keyed by capability id. It is safe
// for concurrent use.
type Collector struct {
	mu     sync.Mutex
	series map[string]*series
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{series: make(map[string]*series)}
}

// RecordInvocation records one capability call. Failed calls are counted in
// both the latency histogram and the failure counter.
func (c *Collector) RecordInvocation(capabilityID string, duration time.Duration, failed bool) {
	us := duration.Microseconds()
	if us < minLatencyUs {
		us = minLatencyUs
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.series[capabilityID]
	if !ok {
		s = &series{hist: hdrhistogram.New(minLatencyUs, maxLatencyUs, sigFigs)}
		c.series[capabilityID] = s
	}
	// RecordValue only fails for values outside the histogram bounds.
	if us > maxLatencyUs {
		us = maxLatencyUs
	}
	_ = s.hist.RecordValue(us)
	if failed {
		s.failures++
	}
}

// Snapshot returns per-capability summaries sorted by capability id.
func (c *Collector) Snapshot() []CapabilitySnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshots := make([]CapabilitySnapshot, 0, len(c.series))
	for id, s := range c.series {
		snapshots = append(snapshots, CapabilitySnapshot{
			CapabilityID: id,
			Count:        s.hist.TotalCount(),
			Failures:     s.failures,
			Min:          usToMs(s.hist.Min()),
			Max:          usToMs(s.hist.Max()),
			Mean:         s.hist.Mean() / 1000.0,
			P50:          usToMs(s.hist.ValueAtQuantile(50)),
			P90:          usToMs(s.hist.ValueAtQuantile(90)),
			P95:          usToMs(s.hist.ValueAtQuantile(95)),
			P99:          usToMs(s.hist.ValueAtQuantile(99)),
		})
	}
	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].CapabilityID < snapshots[j].CapabilityID
	})
	return snapshots
}

// Reset drops all recorded series.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.series = make(map[string]*series)
}

func usToMs(us int64) float64 {
	return float64(us) / 1000.0
}
