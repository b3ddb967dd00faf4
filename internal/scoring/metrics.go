package scoring

import (
	"github.com/prometheus/client_golang/prometheus"

	"example.com/rewards/internal/domain"
)

var unknownSubtypeCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "rewards_engine",
	Subsystem: "scoring",
	Name:      "unknown_subtype_total",
	Help:      "Number of submissions scored with the neutral multiplier because the subtype was not in the lookup table.",
}, []string{"activity_type"})

func init() {
	prometheus.MustRegister(unknownSubtypeCounter)
}

func recordUnknownSubtype(t domain.ActivityType) {
	unknownSubtypeCounter.WithLabelValues(string(t)).Inc()
}
