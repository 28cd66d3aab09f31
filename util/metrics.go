package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

type metrics struct {
	actionsRecordedCounter *prometheus.CounterVec
	actionsRejectedCounter *prometheus.CounterVec
	streetsDealtCounter    *prometheus.CounterVec
	roundsStartedCounter   prometheus.Counter
	roundsEndedCounter     prometheus.Counter
	activeRoundsGauge      prometheus.Gauge
}

func (m *metrics) ActionRecorded(action string) {
	m.actionsRecordedCounter.WithLabelValues(action).Inc()
}

func (m *metrics) ActionRejected(action string) {
	m.actionsRejectedCounter.WithLabelValues(action).Inc()
}

func (m *metrics) StreetDealt(street string) {
	m.streetsDealtCounter.WithLabelValues(street).Inc()
}

func (m *metrics) RoundStarted() {
	m.roundsStartedCounter.Inc()
}

// RoundsStarted reads the current value of rounds_started_total.
func (m *metrics) RoundsStarted() float64 {
	var pb dto.Metric
	if err := m.roundsStartedCounter.Write(&pb); err != nil {
		return 0
	}
	return pb.GetCounter().GetValue()
}

func (m *metrics) RoundEnded() {
	m.roundsEndedCounter.Inc()
}

func (m *metrics) SetActiveRounds(count int) {
	m.activeRoundsGauge.Set(float64(count))
}

var Metrics = &metrics{
	actionsRecordedCounter: promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "round_actions_recorded_total",
		Help: "Total number of player actions recorded, by action",
	}, []string{"action"}),
	actionsRejectedCounter: promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "round_actions_rejected_total",
		Help: "Total number of player actions rejected, by action",
	}, []string{"action"}),
	streetsDealtCounter: promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "round_streets_dealt_total",
		Help: "Total number of streets dealt, by street",
	}, []string{"street"}),
	roundsStartedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "rounds_started_total",
		Help: "Total number of betting rounds started",
	}),
	roundsEndedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "rounds_ended_total",
		Help: "Total number of betting rounds ended",
	}),
	activeRoundsGauge: promauto.NewGauge(prometheus.GaugeOpts{
		Name: "active_rounds_count",
		Help: "Count of the rounds held by the round manager",
	}),
}
