package model

import (
	"sort"

	"github.com/hscells/quarry/dataset"
)

// Majority predicts the class distribution of its training set for every example. It
// cannot be updated incrementally.
type Majority struct {
	prediction Prediction
}

// NewMajority creates an untrained majority-class model.
func NewMajority() *Majority {
	return &Majority{}
}

func (m *Majority) Train(examples []dataset.Example) error {
	counts := make(map[string]float64)
	for _, e := range examples {
		if e.Labeled() {
			counts[e.Label]++
		}
	}
	var p Prediction
	var total float64
	for class, n := range counts {
		p.Classes = append(p.Classes, class)
		total += n
	}
	sort.Strings(p.Classes)
	p.Probabilities = make([]float64, len(p.Classes))
	for i, class := range p.Classes {
		p.Probabilities[i] = counts[class] / total
	}
	m.prediction = p
	return nil
}

func (m *Majority) Predict(dataset.Example) (Prediction, error) {
	if len(m.prediction.Classes) == 0 {
		return Prediction{}, ErrUntrained
	}
	p := Prediction{
		Classes:       append([]string(nil), m.prediction.Classes...),
		Probabilities: append([]float64(nil), m.prediction.Probabilities...),
	}
	return p, nil
}

func (m *Majority) Clone() Model {
	c := NewMajority()
	c.prediction = Prediction{
		Classes:       append([]string(nil), m.prediction.Classes...),
		Probabilities: append([]float64(nil), m.prediction.Probabilities...),
	}
	return c
}
