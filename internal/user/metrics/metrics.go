package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the user module. A nil *Metrics is
// valid and records nothing, so tests can construct services without
// touching the default registry.
type Metrics struct {
	UsersCreated   prometheus.Counter
	UsersDeleted   prometheus.Counter
	CreateDuration prometheus.Histogram
	ListDuration   prometheus.Histogram
	SearchDuration prometheus.Histogram
}

// New creates a Metrics instance with all user module metrics registered.
func New() *Metrics {
	return &Metrics{
		UsersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clearusers_users_created_total",
			Help: "Total number of users created",
		}),
		UsersDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clearusers_users_deleted_total",
			Help: "Total number of users deleted",
		}),
		CreateDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "clearusers_create_user_duration_seconds",
			Help:    "Duration of CreateUser operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		ListDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "clearusers_list_users_duration_seconds",
			Help:    "Duration of GetAllUsers operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		SearchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "clearusers_search_users_duration_seconds",
			Help:    "Duration of birth-date range search operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementUsersCreated records a successful user creation.
func (m *Metrics) IncrementUsersCreated() {
	if m == nil {
		return
	}
	m.UsersCreated.Inc()
}

// IncrementUsersDeleted records a successful user deletion.
func (m *Metrics) IncrementUsersDeleted() {
	if m == nil {
		return
	}
	m.UsersDeleted.Inc()
}

// ObserveCreate records the duration of a CreateUser operation.
// Call with time.Now() captured at the start of the operation.
func (m *Metrics) ObserveCreate(start time.Time) {
	if m == nil {
		return
	}
	m.CreateDuration.Observe(time.Since(start).Seconds())
}

// ObserveList records the duration of a GetAllUsers operation.
func (m *Metrics) ObserveList(start time.Time) {
	if m == nil {
		return
	}
	m.ListDuration.Observe(time.Since(start).Seconds())
}

// ObserveSearch records the duration of a birth-date range search.
func (m *Metrics) ObserveSearch(start time.Time) {
	if m == nil {
		return
	}
	m.SearchDuration.Observe(time.Since(start).Seconds())
}
