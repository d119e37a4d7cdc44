package learning

import "fmt"

// StopCriterion decides whether a run should end.
type StopCriterion interface {
	Name() string
	Stop(snap Snapshot) bool
}

// StopCriteria stops when any of its criteria does.
type StopCriteria []StopCriterion

// Evaluate returns the name of the first criterion, in registration order, that asks
// to stop.
func (c StopCriteria) Evaluate(snap Snapshot) (string, bool) {
	for _, criterion := range c {
		if criterion.Stop(snap) {
			return criterion.Name(), true
		}
	}
	return "", false
}

// MaxIterations stops once N iterations have completed.
type MaxIterations struct {
	N int
}

func (m MaxIterations) Name() string {
	return fmt.Sprintf("max_iterations(%d)", m.N)
}

func (m MaxIterations) Stop(snap Snapshot) bool {
	return snap.Iteration >= m.N
}

// UnlabeledEmpty stops when there is nothing left to label.
type UnlabeledEmpty struct{}

func (UnlabeledEmpty) Name() string {
	return "unlabeled_empty"
}

func (UnlabeledEmpty) Stop(snap Snapshot) bool {
	return snap.Unlabeled == 0
}

// LabelBudget stops once the labeled view holds N examples.
type LabelBudget struct {
	N int
}

func (b LabelBudget) Name() string {
	return fmt.Sprintf("label_budget(%d)", b.N)
}

func (b LabelBudget) Stop(snap Snapshot) bool {
	return snap.Labeled >= b.N
}

// TargetMeasure stops once the most recent evaluation reaches Value on Measure.
type TargetMeasure struct {
	Measure string
	Value   float64
}

func (t TargetMeasure) Name() string {
	return fmt.Sprintf("target(%s>=%v)", t.Measure, t.Value)
}

func (t TargetMeasure) Stop(snap Snapshot) bool {
	if snap.Last == nil {
		return false
	}
	v, ok := snap.Last.Measures[t.Measure]
	return ok && v >= t.Value
}
