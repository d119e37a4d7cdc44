package learning

import (
	"math/rand"
	"sort"
	"sync"

	"github.com/hscells/quarry/dataset"
	"github.com/hscells/quarry/model"
	"gonum.org/v1/gonum/stat"
)

// Utility measures how informative an unlabeled example is to the model.
type Utility interface {
	Utility(m model.Model, e dataset.Example) (float64, error)
}

// PositionalUtility is a utility that also depends on the position of the example in
// the unlabeled view.
type PositionalUtility interface {
	Utility
	UtilityAt(m model.Model, pos int, e dataset.Example) (float64, error)
}

// Preparer is implemented by utilities that need to look at the whole pool before a
// round of scoring.
type Preparer interface {
	Prepare(s *Strategy) error
}

// Committer is implemented by utilities that track the unlabeled view. Committed is
// called with the removed positions, highest first.
type Committer interface {
	Committed(positions []int) error
}

// Directional is implemented by utilities that know which end of their range is the
// more informative one.
type Directional interface {
	Maximal() bool
}

// UtilityFunc adapts a function to a Utility.
type UtilityFunc func(m model.Model, e dataset.Example) (float64, error)

func (f UtilityFunc) Utility(m model.Model, e dataset.Example) (float64, error) {
	return f(m, e)
}

// LeastConfident is one minus the probability of the most likely class.
type LeastConfident struct{}

func (LeastConfident) Utility(m model.Model, e dataset.Example) (float64, error) {
	p, err := m.Predict(e)
	if err != nil {
		return 0, err
	}
	sorted := p.Sorted()
	if len(sorted) == 0 {
		return 1, nil
	}
	return 1 - sorted[0], nil
}

func (LeastConfident) Maximal() bool {
	return true
}

// Margin is the difference between the two most likely classes. Small margins are
// the most informative.
type Margin struct{}

func (Margin) Utility(m model.Model, e dataset.Example) (float64, error) {
	p, err := m.Predict(e)
	if err != nil {
		return 0, err
	}
	sorted := p.Sorted()
	switch len(sorted) {
	case 0:
		return 0, nil
	case 1:
		return sorted[0], nil
	}
	return sorted[0] - sorted[1], nil
}

func (Margin) Maximal() bool {
	return false
}

// Entropy is the Shannon entropy of the predicted class distribution.
type Entropy struct{}

func (Entropy) Utility(m model.Model, e dataset.Example) (float64, error) {
	p, err := m.Predict(e)
	if err != nil {
		return 0, err
	}
	return stat.Entropy(p.Probabilities), nil
}

func (Entropy) Maximal() bool {
	return true
}

// Random scores examples uniformly at random, ignoring the model.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (r *Random) Utility(model.Model, dataset.Example) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64(), nil
}

// descending returns a copy of the positions sorted from highest to lowest.
func descending(positions []int) []int {
	c := append([]int(nil), positions...)
	sort.Sort(sort.Reverse(sort.IntSlice(c)))
	return c
}
