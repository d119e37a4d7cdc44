// Package eval measures how well a model labels a held-out test set, and records one
// Evaluation for every iteration of an active learning run.
package eval

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Evaluator is an interface for evaluating predicted labels against the true labels.
type Evaluator interface {
	Score(predicted, actual []string) float64
	Name() string
}

// Evaluate scores predictions using the supplied evaluation measures.
func Evaluate(evaluators []Evaluator, predicted, actual []string) map[string]float64 {
	scores := make(map[string]float64, len(evaluators))
	for _, evaluator := range evaluators {
		scores[evaluator.Name()] = evaluator.Score(predicted, actual)
	}
	return scores
}

// Evaluation is the record of a single completed iteration.
type Evaluation struct {
	Iteration int
	Labeled   int
	Unlabeled int
	Measures  map[string]float64
}

// Names returns the measure names of the evaluation in sorted order.
func (e Evaluation) Names() []string {
	names := make([]string, 0, len(e.Measures))
	for name := range e.Measures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Summarise computes the mean and standard deviation of a measure over several
// evaluations. Evaluations without the measure are ignored.
func Summarise(evaluations []Evaluation, measure string) (mean, stddev float64) {
	var values []float64
	for _, e := range evaluations {
		if v, ok := e.Measures[measure]; ok {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return 0, 0
	}
	if len(values) == 1 {
		return values[0], 0
	}
	return stat.MeanStdDev(values, nil)
}
