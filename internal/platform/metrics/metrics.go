package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	PersonsRegistered   prometheus.Counter
	CompaniesRegistered prometheus.Counter
	EntriesRecorded     prometheus.Counter
	EntryCacheHits      prometheus.Counter
	EntryCacheMisses    prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		PersonsRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "timeclock_persons_registered_total",
			Help: "Total number of persons registered in the system",
		}),
		CompaniesRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "timeclock_companies_registered_total",
			Help: "Total number of companies registered in the system",
		}),
		EntriesRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "timeclock_entries_recorded_total",
			Help: "Total number of attendance entries recorded",
		}),
		EntryCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "timeclock_entry_cache_hits_total",
			Help: "Entry lookups served from the id-keyed cache",
		}),
		EntryCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "timeclock_entry_cache_misses_total",
			Help: "Entry lookups that fell through to the store",
		}),
	}
}

// IncrementPersonsRegistered increments the persons registered counter by 1
func (m *Metrics) IncrementPersonsRegistered() {
	if m != nil {
		m.PersonsRegistered.Inc()
	}
}

// IncrementCompaniesRegistered increments the companies registered counter by 1
func (m *Metrics) IncrementCompaniesRegistered() {
	if m != nil {
		m.CompaniesRegistered.Inc()
	}
}

// IncrementEntriesRecorded increments the entries recorded counter by 1
func (m *Metrics) IncrementEntriesRecorded() {
	if m != nil {
		m.EntriesRecorded.Inc()
	}
}

// IncrementEntryCacheHit increments the cache hit counter by 1
func (m *Metrics) IncrementEntryCacheHit() {
	if m != nil {
		m.EntryCacheHits.Inc()
	}
}

// IncrementEntryCacheMiss increments the cache miss counter by 1
func (m *Metrics) IncrementEntryCacheMiss() {
	if m != nil {
		m.EntryCacheMisses.Inc()
	}
}
