package authstate

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	emissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventshell_identity_emissions_total",
		Help: "Identity emissions applied by the authentication state controller, by identity kind",
	}, []string{"kind"})
	sourceFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eventshell_identity_source_failures_total",
		Help: "Credential source initialization failures collapsed to signed out",
	})
	resolvedGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "eventshell_identity_resolved",
		Help: "1 once the most recently started controller has resolved an identity",
	})
)
