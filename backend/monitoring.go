// Copyright (c) 2026 Benchbook Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package backend

import (
	"sync"
	"time"
)

const LatencyBuckets = 101
const LatencyBucketSize = 50 * time.Millisecond

type Histogram struct {
	Buckets [LatencyBuckets]uint64 `json:"b2"`
	Count   uint64                 `json:"c"`
	Sum     float64                `json:"s"` // Sum of durations in milliseconds
}

func (h *Histogram) Add(d time.Duration) {
	ms := float64(d.Milliseconds())
	idx := int(d / LatencyBucketSize)
	if idx >= LatencyBuckets {
		idx = LatencyBuckets - 1
	}
	h.Buckets[idx]++
	h.Count++
	h.Sum += ms
}

func (h *Histogram) Merge(other *Histogram) {
	if other == nil {
		return
	}
	for i := 0; i < LatencyBuckets; i++ {
		h.Buckets[i] += other.Buckets[i]
	}
	h.Count += other.Count
	h.Sum += other.Sum
}

// ResolutionConfig defines the policy for a single time series bucket set.
type ResolutionConfig struct {
	Name       string        `json:"name"`
	Resolution time.Duration `json:"resolution"`
	Retention  time.Duration `json:"retention"`
	Buckets    int           `json:"buckets"`
}

var DefaultResolutions = []ResolutionConfig{
	{"1m", 1 * time.Minute, 2 * time.Hour, 120},
	{"5m", 5 * time.Minute, 6 * time.Hour, 72},
	{"15m", 15 * time.Minute, 24 * time.Hour, 96},
	{"1h", 1 * time.Hour, 31 * 24 * time.Hour, 744},
	{"1d", 24 * time.Hour, 183 * 24 * time.Hour, 183},
}

// Point represents a single data point in a time series.
type Point[T any] struct {
	Timestamp int64 `json:"t"`
	Value     T     `json:"v"`
}

// RingBuffer is a fixed-size circular buffer for storing time series data.
type RingBuffer[T any] struct {
	Config ResolutionConfig `json:"config"`
	Data   []Point[T]       `json:"data"`
	Head   int              `json:"head"` // Points to the *next* write position
}

func NewRingBuffer[T any](cfg ResolutionConfig) *RingBuffer[T] {
	return &RingBuffer[T]{
		Config: cfg,
		Data:   make([]Point[T], cfg.Buckets),
		Head:   0,
	}
}

// Add appends a point to the ring buffer.
func (rb *RingBuffer[T]) Add(timestamp int64, value T) {
	// Align timestamp to resolution
	resSec := int64(rb.Config.Resolution.Seconds())
	alignedTs := (timestamp / resSec) * resSec

	// Check if we just overwrote the last point (update in place) or if this is new
	prevIdx := (rb.Head - 1 + len(rb.Data)) % len(rb.Data)
	if rb.Data[prevIdx].Timestamp == alignedTs {
		rb.Data[prevIdx].Value = value
		return
	}

	rb.Data[rb.Head] = Point[T]{Timestamp: alignedTs, Value: value}
	rb.Head = (rb.Head + 1) % len(rb.Data)
}

// GetPoints returns the data points sorted by time.
func (rb *RingBuffer[T]) GetPoints() []Point[T] {
	points := make([]Point[T], 0, len(rb.Data))
	for i := 0; i < len(rb.Data); i++ {
		idx := (rb.Head + i) % len(rb.Data)
		if rb.Data[idx].Timestamp > 0 {
			points = append(points, rb.Data[idx])
		}
	}
	return points
}

// MetricSeries holds all resolutions for a specific metric.
type MetricSeries struct {
	Name            string                          `json:"name"`
	AggregationType string                          `json:"aggType"` // "Avg" or "Sum"
	Buffers         map[string]*RingBuffer[float64] `json:"buffers"`
}

func NewMetricSeries(name string, aggType string) *MetricSeries {
	if aggType == "" {
		aggType = "Avg"
	}
	buffers := make(map[string]*RingBuffer[float64])
	for _, cfg := range DefaultResolutions {
		buffers[cfg.Name] = NewRingBuffer[float64](cfg)
	}
	return &MetricSeries{
		Name:            name,
		AggregationType: aggType,
		Buffers:         buffers,
	}
}

func (ms *MetricSeries) Ingest(timestamp int64, value float64) {
	for _, cfg := range DefaultResolutions {
		buf, ok := ms.Buffers[cfg.Name]
		if !ok {
			continue
		}
		resSec := int64(cfg.Resolution.Seconds())
		alignedTs := (timestamp / resSec) * resSec
		prevIdx := (buf.Head - 1 + len(buf.Data)) % len(buf.Data)

		if buf.Data[prevIdx].Timestamp == alignedTs {
			if ms.AggregationType == "Sum" {
				buf.Data[prevIdx].Value += value
			} else if cfg.Name == "1m" {
				buf.Data[prevIdx].Value = value
			} else {
				// Running Average
				offset := timestamp - alignedTs
				n := (offset / 60) + 1
				oldAvg := buf.Data[prevIdx].Value
				buf.Data[prevIdx].Value = ((oldAvg * float64(n-1)) + value) / float64(n)
			}
		} else {
			buf.Add(timestamp, value)
		}
	}
}

// Monitor tracks request throughput and latency for the running server.
type Monitor struct {
	mu sync.Mutex

	requestCount uint64
	lastCount    uint64
	lastSample   time.Time

	activeWS int

	current *Histogram

	rps     *MetricSeries
	latency *RingBuffer[Histogram]
}

func NewMonitor() *Monitor {
	m := &Monitor{
		lastSample: time.Now(),
		current:    &Histogram{},
		rps:        NewMetricSeries("http:rps", "Avg"),
		latency:    NewRingBuffer[Histogram](DefaultResolutions[0]),
	}
	return m
}

// RecordRequest adds one completed request with its duration.
func (m *Monitor) RecordRequest(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount++
	m.current.Add(d)
}

func (m *Monitor) WSConnected() {
	m.mu.Lock()
	m.activeWS++
	m.mu.Unlock()
}

func (m *Monitor) WSDisconnected() {
	m.mu.Lock()
	m.activeWS--
	m.mu.Unlock()
}

// Sample rolls the current counters into the time series. Meant to be
// called periodically by the server.
func (m *Monitor) Sample() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(m.lastSample).Seconds()
	if elapsed <= 0 {
		return
	}
	rps := float64(m.requestCount-m.lastCount) / elapsed
	m.lastCount = m.requestCount
	m.lastSample = now

	ts := now.Unix()
	m.rps.Ingest(ts, rps)
	m.latency.Add(ts, *m.current)
	m.current = &Histogram{}
}

// MetricsSnapshot is the JSON shape served by the metrics endpoint.
type MetricsSnapshot struct {
	Timestamp    int64              `json:"timestamp"`
	RequestCount uint64             `json:"requestCount"`
	ActiveWS     int                `json:"activeWS"`
	RPS          *MetricSeries      `json:"rps"`
	Latency      []Point[Histogram] `json:"latency"`
	TotalGames   int                `json:"totalGames"`
	TotalTeams   int                `json:"totalTeams"`
	TotalSeasons int                `json:"totalSeasons"`
}

// Snapshot captures the current metrics plus registry counts.
func (m *Monitor) Snapshot(r *Registry) MetricsSnapshot {
	m.mu.Lock()
	snap := MetricsSnapshot{
		Timestamp:    time.Now().Unix(),
		RequestCount: m.requestCount,
		ActiveWS:     m.activeWS,
		RPS:          m.rps,
		Latency:      m.latency.GetPoints(),
	}
	m.mu.Unlock()

	if r != nil {
		snap.TotalGames = r.CountTotalGames()
		snap.TotalTeams = r.CountTotalTeams()
		snap.TotalSeasons = r.CountTotalSeasons()
	}
	return snap
}
