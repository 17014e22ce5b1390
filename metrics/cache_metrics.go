package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsCollector struct {
	CacheHits     *prometheus.CounterVec
	CacheMisses   *prometheus.CounterVec
	CacheRequests *prometheus.CounterVec
	CacheHitRatio *prometheus.GaugeVec
	Resolutions   *prometheus.CounterVec
}

var (
	globalCollector *MetricsCollector
	collectorOnce   sync.Once
)

func getCollector() *MetricsCollector {
	collectorOnce.Do(func() {
		globalCollector = &MetricsCollector{
			CacheHits: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "plantcare_cache_hits_total",
					Help: "The total number of cache hits",
				},
				[]string{"cache_type"},
			),
			CacheMisses: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "plantcare_cache_misses_total",
					Help: "The total number of cache misses",
				},
				[]string{"cache_type"},
			),
			CacheRequests: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "plantcare_cache_requests_total",
					Help: "The total number of cache requests",
				},
				[]string{"cache_type"},
			),
			CacheHitRatio: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Name: "plantcare_cache_hit_ratio",
					Help: "Cache hit ratio (hits/total requests)",
				},
				[]string{"cache_type"},
			),
			Resolutions: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "plantcare_location_resolutions_total",
					Help: "Location resolutions by winning source",
				},
				[]string{"source"},
			),
		}
	})
	return globalCollector
}

// CacheMetrics tracks hit/miss statistics for one cache instance
type CacheMetrics struct {
	cacheType string
	hits      int64
	misses    int64
	total     int64
	collector *MetricsCollector
	mu        sync.RWMutex
}

func NewCacheMetrics(cacheType string) *CacheMetrics {
	return &CacheMetrics{
		cacheType: cacheType,
		collector: getCollector(),
	}
}

func (m *CacheMetrics) RecordHit() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.hits++
	m.total++
	m.collector.CacheHits.WithLabelValues(m.cacheType).Inc()
	m.collector.CacheRequests.WithLabelValues(m.cacheType).Inc()
	m.updateHitRatio()
}

func (m *CacheMetrics) RecordMiss() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.misses++
	m.total++
	m.collector.CacheMisses.WithLabelValues(m.cacheType).Inc()
	m.collector.CacheRequests.WithLabelValues(m.cacheType).Inc()
	m.updateHitRatio()
}

// updateHitRatio updates the Prometheus hit ratio gauge.
// Must be called while holding the mutex.
func (m *CacheMetrics) updateHitRatio() {
	if m.total > 0 {
		ratio := float64(m.hits) / float64(m.total)
		m.collector.CacheHitRatio.WithLabelValues(m.cacheType).Set(ratio)
	}
}

// Stats is a point-in-time view of cache counters
type Stats struct {
	Hits   int64
	Misses int64
	Total  int64
}

func (m *CacheMetrics) GetStats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Stats{Hits: m.hits, Misses: m.misses, Total: m.total}
}

// ResolverMetrics counts which fallback source won a resolution
type ResolverMetrics struct {
	collector *MetricsCollector
}

func NewResolverMetrics() *ResolverMetrics {
	return &ResolverMetrics{collector: getCollector()}
}

// RecordSource records a resolution outcome. Source is one of
// cache, profile, backend, device, or exhausted.
func (m *ResolverMetrics) RecordSource(source string) {
	m.collector.Resolutions.WithLabelValues(source).Inc()
}
