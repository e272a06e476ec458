package sinks

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/on-the-ground/effect_ive_analytics/analytics"
)

// PrometheusSink counts dispatched events by kind and name.
type PrometheusSink struct {
	eventsTotal *prometheus.CounterVec
}

var _ analytics.Sink[analytics.Data] = (*PrometheusSink)(nil)

// Prometheus registers the event counter on reg.
func Prometheus(reg prometheus.Registerer, namespace string) *PrometheusSink {
	s := &PrometheusSink{
		eventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analytics_events_total",
			Help:      "Total number of analytics events dispatched",
		}, []string{"kind", "name"}),
	}
	reg.MustRegister(s.eventsTotal)
	return s
}

func (s *PrometheusSink) Dispatch(event analytics.Data) {
	if event == nil {
		return
	}
	s.eventsTotal.WithLabelValues(event.Kind(), labelName(event)).Inc()
}

// labelName keeps the name label low-cardinality: identities and error
// descriptions never become label values.
func labelName(event analytics.Data) string {
	switch e := event.(type) {
	case analytics.Event:
		return e.Name
	case analytics.Screen:
		return e.Name
	case analytics.UserProperty:
		return e.Name
	default:
		return ""
	}
}
