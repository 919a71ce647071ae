package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "marketplace"

var (
	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_created_total",
		Help:      "Bookings accepted by the arbiter.",
	})

	BookingConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "booking_conflicts_total",
		Help:      "Booking attempts rejected because the slot was taken.",
	})

	StatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "booking_status_transitions_total",
		Help:      "Booking status changes by target status.",
	}, []string{"status"})

	PendingExpired = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_pending_expired_total",
		Help:      "Pending bookings cancelled by the reaper.",
	})

	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "availability_cache_hits_total",
		Help:      "Availability responses served from redis.",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "availability_cache_misses_total",
		Help:      "Availability lookups that had to be computed.",
	})
)

func Handler() http.Handler {
	return promhttp.Handler()
}
