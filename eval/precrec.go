package eval

import (
	"fmt"
	"math"
)

type accuracyEvaluator struct{}
type recallEvaluator struct{}
type precisionEvaluator struct{}

// FMeasure computes f-measure, with the beta parameter controlling the precision and recall trade-off.
type FMeasure struct {
	beta float64
}

var (
	// Accuracy is the fraction of correctly predicted labels.
	Accuracy = accuracyEvaluator{}
	// RecallEvaluator calculates macro-averaged recall.
	RecallEvaluator = recallEvaluator{}
	// PrecisionEvaluator calculates macro-averaged precision.
	PrecisionEvaluator = precisionEvaluator{}

	// F1Measure is f-measure with beta=1.
	F1Measure = FMeasure{beta: 1}
	// F05Measure is f-measure with beta=0.5.
	F05Measure = FMeasure{beta: 0.5}
	// F3Measure is f-measure with beta=3.
	F3Measure = FMeasure{beta: 3}
)

// NewFMeasure creates an f-measure evaluator with an arbitrary beta.
func NewFMeasure(beta float64) FMeasure {
	return FMeasure{beta: beta}
}

// counts are the per-class true positive, false positive and false negative tallies.
type counts struct {
	tp, fp, fn map[string]float64
	classes    []string
}

func tally(predicted, actual []string) counts {
	c := counts{
		tp: make(map[string]float64),
		fp: make(map[string]float64),
		fn: make(map[string]float64),
	}
	seen := make(map[string]bool)
	add := func(class string) {
		if !seen[class] {
			seen[class] = true
			c.classes = append(c.classes, class)
		}
	}
	for i := range actual {
		if i >= len(predicted) {
			break
		}
		p, a := predicted[i], actual[i]
		add(a)
		if p == a {
			c.tp[a]++
			continue
		}
		if len(p) > 0 {
			add(p)
			c.fp[p]++
		}
		c.fn[a]++
	}
	return c
}

func (accuracyEvaluator) Name() string {
	return "Accuracy"
}

func (accuracyEvaluator) Score(predicted, actual []string) float64 {
	if len(actual) == 0 {
		return 0.0
	}
	correct := 0.0
	for i := range actual {
		if i < len(predicted) && predicted[i] == actual[i] {
			correct++
		}
	}
	return correct / float64(len(actual))
}

func (rec recallEvaluator) Name() string {
	return "Recall"
}

func (rec recallEvaluator) Score(predicted, actual []string) float64 {
	c := tally(predicted, actual)
	if len(c.classes) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, class := range c.classes {
		if d := c.tp[class] + c.fn[class]; d > 0 {
			sum += c.tp[class] / d
		}
	}
	return sum / float64(len(c.classes))
}

func (prec precisionEvaluator) Name() string {
	return "Precision"
}

func (prec precisionEvaluator) Score(predicted, actual []string) float64 {
	c := tally(predicted, actual)
	if len(c.classes) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, class := range c.classes {
		if d := c.tp[class] + c.fp[class]; d > 0 {
			sum += c.tp[class] / d
		}
	}
	return sum / float64(len(c.classes))
}

// Score uses the beta parameter to compute f-measure.
func (f FMeasure) Score(predicted, actual []string) float64 {
	precision := PrecisionEvaluator.Score(predicted, actual)
	recall := RecallEvaluator.Score(predicted, actual)
	if precision == 0 || recall == 0 {
		return 0
	}
	betaSquared := math.Pow(f.beta, 2)
	return ((1 + betaSquared) * (precision * recall)) / ((betaSquared * precision) + recall)
}

// Name calculates the name of the f-measure with beta parameter.
func (f FMeasure) Name() string {
	return fmt.Sprintf("F%vMeasure", f.beta)
}
