package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the family module.
// Tracks member mutations, rejected additions, and hot read-path durations.
type Metrics struct {
	MemberAdded        prometheus.Counter
	MemberRejected     *prometheus.CounterVec
	MemberDeleted      prometheus.Counter
	AddMemberDuration  prometheus.Histogram
	GroupViewDuration  prometheus.Histogram
	GroupViewCacheHits prometheus.Counter
	GroupViewCacheMiss prometheus.Counter
}

// New creates a new Metrics instance with all family module metrics registered.
func New() *Metrics {
	return &Metrics{
		MemberAdded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nachlass_family_members_added_total",
			Help: "Total number of family members added",
		}),
		MemberRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "nachlass_family_members_rejected_total",
			Help: "Total number of rejected member additions by reason",
		}, []string{"reason"}),
		MemberDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nachlass_family_members_deleted_total",
			Help: "Total number of family members deleted",
		}),
		AddMemberDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "nachlass_family_add_member_duration_seconds",
			Help:    "Duration of AddMember operations (validation plus persistence)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		GroupViewDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "nachlass_family_group_view_duration_seconds",
			Help:    "Duration of grouped family view computation",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		GroupViewCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nachlass_family_group_view_cache_hits_total",
			Help: "Total number of group view cache hits",
		}),
		GroupViewCacheMiss: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nachlass_family_group_view_cache_misses_total",
			Help: "Total number of group view cache misses",
		}),
	}
}

// IncrementMemberAdded records a successful member addition.
func (m *Metrics) IncrementMemberAdded() {
	if m == nil {
		return
	}
	m.MemberAdded.Inc()
}

// IncrementMemberRejected records a rejected addition with its reason label.
func (m *Metrics) IncrementMemberRejected(reason string) {
	if m == nil {
		return
	}
	m.MemberRejected.WithLabelValues(reason).Inc()
}

// IncrementMemberDeleted records a member deletion.
func (m *Metrics) IncrementMemberDeleted() {
	if m == nil {
		return
	}
	m.MemberDeleted.Inc()
}

// ObserveAddMember records the duration of an AddMember operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveAddMember(start time.Time) {
	if m == nil {
		return
	}
	m.AddMemberDuration.Observe(time.Since(start).Seconds())
}

// ObserveGroupView records the duration of a grouped view computation.
func (m *Metrics) ObserveGroupView(start time.Time) {
	if m == nil {
		return
	}
	m.GroupViewDuration.Observe(time.Since(start).Seconds())
}

// RecordGroupViewCacheHit records a group view cache hit.
func (m *Metrics) RecordGroupViewCacheHit() {
	if m == nil {
		return
	}
	m.GroupViewCacheHits.Inc()
}

// RecordGroupViewCacheMiss records a group view cache miss.
func (m *Metrics) RecordGroupViewCacheMiss() {
	if m == nil {
		return
	}
	m.GroupViewCacheMiss.Inc()
}
