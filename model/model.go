// Package model describes the trainable models an active learner queries, together with
// two small reference implementations.
package model

import (
	"sort"

	"github.com/hscells/quarry/dataset"
	"github.com/pkg/errors"
)

// ErrUntrained is returned when a model is asked for a prediction before it has seen
// any labeled example.
var ErrUntrained = errors.New("model has not been trained")

// ErrInvalidExample is returned when a model cannot learn from some of the examples it
// was given, either because they carry no label or because their features do not fit.
var ErrInvalidExample = errors.New("invalid example")

// Model is an abstract representation of a machine learning model that can be trained on
// labeled examples and asked to predict the label of another example.
type Model interface {
	// Train must (re)train the model from scratch on the examples.
	Train(examples []dataset.Example) error
	// Predict must produce a probability for every class the model knows about.
	Predict(e dataset.Example) (Prediction, error)
	// Clone must return an independent copy; training the copy never changes the receiver.
	Clone() Model
}

// Incremental models can be updated with newly labeled examples only, instead of being
// retrained on the whole labeled set.
type Incremental interface {
	Model
	Update(examples []dataset.Example) error
}

// Prediction is a distribution over classes. Classes and Probabilities are parallel.
type Prediction struct {
	Classes       []string
	Probabilities []float64
}

// Best is the most probable class.
func (p Prediction) Best() string {
	if len(p.Classes) == 0 {
		return ""
	}
	best := 0
	for i, v := range p.Probabilities {
		if v > p.Probabilities[best] {
			best = i
		}
	}
	return p.Classes[best]
}

// Sorted returns the probabilities from most to least probable.
func (p Prediction) Sorted() []float64 {
	s := make([]float64, len(p.Probabilities))
	copy(s, p.Probabilities)
	sort.Sort(sort.Reverse(sort.Float64Slice(s)))
	return s
}
