package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/suwandre/fundingarb/internal/models"
)

// Metrics holds every Prometheus collector the service exports.
type Metrics struct {
	RefreshDuration  prometheus.Histogram
	VenueFailures    *prometheus.CounterVec
	VenueRecords     *prometheus.GaugeVec
	Opportunities    prometheus.Gauge
	StreamMessages   *prometheus.CounterVec
	StreamReconnects *prometheus.CounterVec
}

// New registers the collectors on reg. Tests pass a fresh registry so
// repeated construction does not collide.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		RefreshDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "fundingarb_refresh_duration_seconds",
			Help:    "Time to fetch all venues and score opportunities",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		VenueFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fundingarb_venue_fetch_failures_total",
			Help: "Venue fetches that failed and left the venue out of a refresh",
		}, []string{"venue"}),
		VenueRecords: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "fundingarb_venue_records",
			Help: "Raw records returned by each venue in the latest refresh",
		}, []string{"venue"}),
		Opportunities: f.NewGauge(prometheus.GaugeOpts{
			Name: "fundingarb_opportunities",
			Help: "Assets with at least one derivative venue in the latest result",
		}),
		StreamMessages: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fundingarb_stream_messages_total",
			Help: "Market stats messages received from streaming venues",
		}, []string{"venue"}),
		StreamReconnects: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fundingarb_stream_reconnects_total",
			Help: "Streaming venue disconnects followed by a reconnect attempt",
		}, []string{"venue"}),
	}
}

func (m *Metrics) ObserveRefresh(d time.Duration) {
	m.RefreshDuration.Observe(d.Seconds())
}

func (m *Metrics) VenueFailed(v models.Venue) {
	m.VenueFailures.WithLabelValues(string(v)).Inc()
}

func (m *Metrics) SetVenueRecords(v models.Venue, n int) {
	m.VenueRecords.WithLabelValues(string(v)).Set(float64(n))
}

func (m *Metrics) SetOpportunities(n int) {
	m.Opportunities.Set(float64(n))
}

func (m *Metrics) StreamMessage(v models.Venue) {
	m.StreamMessages.WithLabelValues(string(v)).Inc()
}

func (m *Metrics) StreamReconnect(v models.Venue) {
	m.StreamReconnects.WithLabelValues(string(v)).Inc()
}
