package output

import (
	"github.com/hscells/quarry/learning"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exports the state of a run to prometheus.
type Metrics struct {
	iterations prometheus.Counter
	runs       *prometheus.CounterVec
	labeled    prometheus.Gauge
	unlabeled  prometheus.Gauge
	selected   prometheus.Histogram
	measures   *prometheus.GaugeVec
}

// NewMetrics registers the metrics of a run with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		iterations: f.NewCounter(prometheus.CounterOpts{
			Name: "quarry_iterations_total",
			Help: "Total iterations completed",
		}),
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "quarry_runs_total",
			Help: "Total runs by how they ended",
		}, []string{"outcome"}),
		labeled: f.NewGauge(prometheus.GaugeOpts{
			Name: "quarry_labeled_examples",
			Help: "Examples in the labeled view",
		}),
		unlabeled: f.NewGauge(prometheus.GaugeOpts{
			Name: "quarry_unlabeled_examples",
			Help: "Examples in the unlabeled view",
		}),
		selected: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "quarry_selected_examples",
			Help:    "Examples labeled per iteration",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
		}),
		measures: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "quarry_evaluation_measure",
			Help: "Most recent value of each evaluation measure",
		}, []string{"measure"}),
	}
}

func (m *Metrics) observe(snap learning.Snapshot) {
	m.labeled.Set(float64(snap.Labeled))
	m.unlabeled.Set(float64(snap.Unlabeled))
	if snap.Last != nil {
		for name, v := range snap.Last.Measures {
			m.measures.WithLabelValues(name).Set(v)
		}
	}
}

func (m *Metrics) AlgorithmStarted(snap learning.Snapshot) {
	m.observe(snap)
}

func (m *Metrics) IterationCompleted(snap learning.Snapshot) {
	m.iterations.Inc()
	m.selected.Observe(float64(len(snap.Selected)))
	m.observe(snap)
}

func (m *Metrics) AlgorithmFinished(snap learning.Snapshot) {
	m.iterations.Inc()
	m.selected.Observe(float64(len(snap.Selected)))
	m.observe(snap)
	m.runs.WithLabelValues("finished").Inc()
}

func (m *Metrics) AlgorithmTerminated(snap learning.Snapshot) {
	m.observe(snap)
	m.runs.WithLabelValues("terminated").Inc()
}
