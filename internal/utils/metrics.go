package utils

import (
	"sync"
	"time"
)

// OperationStats is the aggregate view of one operation's observed latencies.
type OperationStats struct {
	Count uint64 `json:"count"`
	Avg   string `json:"avg"`
	Max   string `json:"max"`
}

// MetricsCollector tracks request volume, error counts and per-operation
// latency aggregates. Latencies fold into running totals rather than being
// retained individually, so memory stays bounded under load.
type MetricsCollector struct {
	mu         sync.RWMutex
	requests   uint64
	errors     uint64
	operations map[string]*opAggregate
	startedAt  time.Time
}

type opAggregate struct {
	count uint64
	total time.Duration
	max   time.Duration
}

func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		operations: make(map[string]*opAggregate),
		startedAt:  time.Now(),
	}
}

func (mc *MetricsCollector) IncrementRequests() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.requests++
}

func (mc *MetricsCollector) IncrementErrors() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.errors++
}

// AddOperationLatency records one observed duration for the named operation.
func (mc *MetricsCollector) AddOperationLatency(operation string, duration time.Duration) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	agg, ok := mc.operations[operation]
	if !ok {
		agg = &opAggregate{}
		mc.operations[operation] = agg
	}
	agg.count++
	agg.total += duration
	if duration > agg.max {
		agg.max = duration
	}
}

// Snapshot returns the current request and error counts along with uptime.
func (mc *MetricsCollector) Snapshot() (requests uint64, errors uint64, uptime time.Duration) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.requests, mc.errors, time.Since(mc.startedAt)
}

// OperationStats returns the per-operation latency aggregates.
func (mc *MetricsCollector) OperationStats() map[string]OperationStats {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	stats := make(map[string]OperationStats, len(mc.operations))
	for name, agg := range mc.operations {
		avg := time.Duration(0)
		if agg.count > 0 {
			avg = agg.total / time.Duration(agg.count)
		}
		stats[name] = OperationStats{
			Count: agg.count,
			Avg:   avg.String(),
			Max:   agg.max.String(),
		}
	}
	return stats
}
