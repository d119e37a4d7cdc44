package model

import (
	"math"
	"sort"
	"strings"

	"github.com/hscells/quarry/dataset"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Centroid is a nearest-centroid classifier. The probability of each class is a softmax
// over the negative distances from the example to the class centroids. Centroids are
// running means, so the model can be updated with new examples without retraining.
type Centroid struct {
	classes   []string
	centroids map[string][]float64
	counts    map[string]float64
	dim       int
	// Temperature scales distances before the softmax; larger is flatter.
	Temperature float64
}

// NewCentroid creates an untrained nearest-centroid classifier.
func NewCentroid() *Centroid {
	return &Centroid{
		centroids:   make(map[string][]float64),
		counts:      make(map[string]float64),
		Temperature: 1,
	}
}

func (c *Centroid) Train(examples []dataset.Example) error {
	c.classes = nil
	c.centroids = make(map[string][]float64)
	c.counts = make(map[string]float64)
	c.dim = 0
	return c.Update(examples)
}

// Update folds the examples into the running class means. Examples without a label or
// with a different number of features than the model has seen are skipped, and the
// returned error names them; the others are still folded.
func (c *Centroid) Update(examples []dataset.Example) error {
	var rejected []string
	for _, e := range examples {
		if !e.Labeled() || (c.dim > 0 && len(e.Features) != c.dim) {
			rejected = append(rejected, e.ID)
			continue
		}
		c.dim = len(e.Features)
		mean, ok := c.centroids[e.Label]
		if !ok {
			mean = make([]float64, c.dim)
			c.centroids[e.Label] = mean
			c.classes = append(c.classes, e.Label)
			sort.Strings(c.classes)
		}
		c.counts[e.Label]++
		n := c.counts[e.Label]
		// mean += (x - mean) / n
		delta := make([]float64, c.dim)
		floats.SubTo(delta, e.Features, mean)
		floats.AddScaled(mean, 1/n, delta)
	}
	if len(rejected) > 0 {
		return errors.Wrapf(ErrInvalidExample, "skipped %s", strings.Join(rejected, ", "))
	}
	return nil
}

func (c *Centroid) Predict(e dataset.Example) (Prediction, error) {
	if len(c.classes) == 0 {
		return Prediction{}, ErrUntrained
	}
	p := Prediction{
		Classes:       make([]string, len(c.classes)),
		Probabilities: make([]float64, len(c.classes)),
	}
	copy(p.Classes, c.classes)
	t := c.Temperature
	if t <= 0 {
		t = 1
	}
	for i, class := range c.classes {
		mean := c.centroids[class]
		if len(mean) != len(e.Features) {
			return Prediction{}, errors.Errorf("example %s has %d features, expected %d", e.ID, len(e.Features), len(mean))
		}
		p.Probabilities[i] = -floats.Distance(mean, e.Features, 2) / t
	}
	// Softmax, shifted by the maximum for numerical stability.
	floats.AddConst(-floats.Max(p.Probabilities), p.Probabilities)
	for i, v := range p.Probabilities {
		p.Probabilities[i] = math.Exp(v)
	}
	floats.Scale(1/floats.Sum(p.Probabilities), p.Probabilities)
	return p, nil
}

func (c *Centroid) Clone() Model {
	m := &Centroid{
		classes:     make([]string, len(c.classes)),
		centroids:   make(map[string][]float64, len(c.centroids)),
		counts:      make(map[string]float64, len(c.counts)),
		dim:         c.dim,
		Temperature: c.Temperature,
	}
	copy(m.classes, c.classes)
	for k, v := range c.centroids {
		m.centroids[k] = append([]float64(nil), v...)
	}
	for k, v := range c.counts {
		m.counts[k] = v
	}
	return m
}
