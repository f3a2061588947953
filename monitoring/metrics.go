package monitoring

import (
	"strconv"
	"time"

	"event-ticketing/internal/status"
	"event-ticketing/internal/store"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	purchaseAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_purchase_attempts_total",
			Help: "Total purchase attempts by outcome",
		},
		[]string{"event_id", "status"},
	)

	ticketsIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickets_issued_total",
			Help: "Total tickets issued per event",
		},
		[]string{"event_id"},
	)

	redemptions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_redemptions_total",
			Help: "Total redemption attempts by outcome",
		},
		[]string{"status"},
	)

	availableTickets = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "event_available_tickets",
			Help: "Current available tickets per active event",
		},
		[]string{"event_id"},
	)

	purchaseQuantity = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ticket_purchase_quantity",
			Help:    "Tickets requested per purchase",
			Buckets: prometheus.ExponentialBuckets(1, 2, 8),
		},
	)
)

// TrackPurchase records a purchase attempt. Successful attempts also
// count the issued tickets and the requested quantity.
func TrackPurchase(eventID uint64, quantity uint32, err error) {
	id := strconv.FormatUint(eventID, 10)
	if err != nil {
		purchaseAttempts.WithLabelValues(id, status.Kind(err)).Inc()
		return
	}
	purchaseAttempts.WithLabelValues(id, "ok").Inc()
	ticketsIssued.WithLabelValues(id).Add(float64(quantity))
	purchaseQuantity.Observe(float64(quantity))
}

// TrackRedemption records a redemption attempt by outcome.
func TrackRedemption(err error) {
	if err != nil {
		redemptions.WithLabelValues(status.Kind(err)).Inc()
		return
	}
	redemptions.WithLabelValues("ok").Inc()
}

// Monitor periodically snapshots the availability gauges from the store.
type Monitor struct {
	store    *store.Store
	interval time.Duration
	stop     chan struct{}
}

func NewMonitor(st *store.Store, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	monitor := &Monitor{
		store:    st,
		interval: interval,
		stop:     make(chan struct{}),
	}
	go monitor.collect()
	return monitor
}

func (m *Monitor) collect() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.snapshot()
		case <-m.stop:
			return
		}
	}
}

func (m *Monitor) snapshot() {
	_ = m.store.View(func(st *store.State) error {
		for id, event := range st.Events {
			if !event.IsActive {
				continue
			}
			availableTickets.WithLabelValues(strconv.FormatUint(id, 10)).Set(float64(event.AvailableTickets))
		}
		return nil
	})
}

func (m *Monitor) Stop() {
	close(m.stop)
}
