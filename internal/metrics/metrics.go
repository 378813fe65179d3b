package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of the booking service.
type Metrics struct {
	HTTPRequests        *prometheus.CounterVec
	HTTPDuration        *prometheus.HistogramVec
	Checkouts           *prometheus.CounterVec
	StatusTransitions   *prometheus.CounterVec
	RoomsReleased       prometheus.Counter
	NotificationsStored *prometheus.CounterVec
	EventsPublished     *prometheus.CounterVec
	SearchCache         *prometheus.CounterVec
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer in
// the server and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hotelbooking_http_requests_total",
			Help: "Total number of handled HTTP requests",
		}, []string{"method", "route", "status"}),

		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hotelbooking_http_request_duration_seconds",
			Help:    "Duration of HTTP request handling",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),

		Checkouts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hotelbooking_checkouts_total",
			Help: "Checkout attempts by outcome",
		}, []string{"outcome"}),

		StatusTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hotelbooking_booking_transitions_total",
			Help: "Applied booking status transitions",
		}, []string{"from", "to"}),

		RoomsReleased: f.NewCounter(prometheus.CounterOpts{
			Name: "hotelbooking_rooms_released_total",
			Help: "Rooms returned to inventory by cancel, expiry or admin delete",
		}),

		NotificationsStored: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hotelbooking_notifications_total",
			Help: "Notification writes by kind and result",
		}, []string{"kind", "result"}),

		EventsPublished: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hotelbooking_events_published_total",
			Help: "Broker publish attempts by result",
		}, []string{"result"}),

		SearchCache: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hotelbooking_search_cache_total",
			Help: "Room search cache lookups by result",
		}, []string{"result"}),
	}
}

// Nop returns collectors registered on a private registry.
func Nop() *Metrics {
	return New(prometheus.NewRegistry())
}
