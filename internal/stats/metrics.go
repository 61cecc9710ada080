package stats

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Aggregation outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeFailed  = "failed"
	OutcomeDropped = "dropped"
)

var aggregationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "quiz",
	Name:      "stats_aggregations_total",
	Help:      "Completed sessions folded into lifetime stats, by outcome.",
}, []string{"outcome"})
