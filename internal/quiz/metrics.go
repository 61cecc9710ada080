package quiz

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "quiz",
		Name:      "sessions_started_total",
		Help:      "Quiz sessions started.",
	})
	answersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quiz",
		Name:      "answers_total",
		Help:      "Answers evaluated, by correctness.",
	}, []string{"correct"})
	quizzesCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quiz",
		Name:      "completed_total",
		Help:      "Quiz sessions completed, by reason.",
	}, []string{"reason"})
)
