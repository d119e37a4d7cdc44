package learning

import (
	"context"
	"io/ioutil"
	"log"

	"github.com/hscells/quarry/dataset"
	"github.com/hscells/quarry/eval"
	"github.com/hscells/quarry/model"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrSelection is returned when a selection names a position outside the unlabeled view.
	ErrSelection = errors.New("invalid selection")
	// ErrNoModel is returned when a strategy is created without a model.
	ErrNoModel = errors.New("no model")
)

// Score is the utility of the unlabeled example at Index.
type Score struct {
	Index int
	Value float64
}

// Strategy owns the model and the dataset of a run. It scores unlabeled examples,
// keeps the current selection and commits labeled examples back to the dataset.
type Strategy struct {
	model       model.Model
	data        *dataset.Dataset
	test        *dataset.View
	utility     Utility
	maximal     bool
	ordered     bool
	evaluators  []eval.Evaluator
	concurrency Concurrency
	logger      *log.Logger

	selected    []int
	evaluations []eval.Evaluation
	trained     bool
	// added counts the examples committed since the model was last trained.
	added int
}

// Maximal sets whether higher utility is better. Without it the direction is taken
// from the utility, or maximal if the utility does not say.
func Maximal(maximal bool) func(*Strategy) {
	return func(s *Strategy) {
		s.maximal = maximal
		s.ordered = true
	}
}

// TestSet is the held out view the model is evaluated on after training.
func TestSet(v *dataset.View) func(*Strategy) {
	return func(s *Strategy) {
		s.test = v
	}
}

func Evaluators(evaluators ...eval.Evaluator) func(*Strategy) {
	return func(s *Strategy) {
		s.evaluators = evaluators
	}
}

func WithConcurrency(c Concurrency) func(*Strategy) {
	return func(s *Strategy) {
		s.concurrency = c
	}
}

func Logger(l *log.Logger) func(*Strategy) {
	return func(s *Strategy) {
		s.logger = l
	}
}

// NewStrategy creates a query strategy over a clone of m.
func NewStrategy(m model.Model, d *dataset.Dataset, u Utility, options ...func(*Strategy)) (*Strategy, error) {
	if m == nil {
		return nil, ErrNoModel
	}
	if d == nil {
		return nil, errors.New("no dataset")
	}
	if u == nil {
		return nil, errors.New("no utility")
	}
	s := &Strategy{
		data:    d,
		utility: u,
		maximal: true,
		logger:  log.New(ioutil.Discard, "", 0),
	}
	for _, option := range options {
		option(s)
	}
	if dir, ok := u.(Directional); ok && !s.ordered {
		s.maximal = dir.Maximal()
	}
	s.SetModel(m)
	return s, nil
}

// SetModel replaces the model with a clone of m. The caller's instance is never trained.
func (s *Strategy) SetModel(m model.Model) {
	s.model = m.Clone()
	s.trained = false
	s.added = 0
}

func (s *Strategy) Model() model.Model {
	return s.model
}

func (s *Strategy) Dataset() *dataset.Dataset {
	return s.data
}

// IsMaximal reports whether higher utility scores are more informative.
func (s *Strategy) IsMaximal() bool {
	return s.maximal
}

// UtilityInstance scores a single example with the current model.
func (s *Strategy) UtilityInstance(e dataset.Example) (float64, error) {
	return s.utility.Utility(s.model, e)
}

// UtilityAt scores the unlabeled example at position pos. Utilities that depend on
// where an example sits in the pool are given the position.
func (s *Strategy) UtilityAt(pos int) (float64, error) {
	e, err := s.data.Unlabeled.At(pos)
	if err != nil {
		return 0, err
	}
	if p, ok := s.utility.(PositionalUtility); ok {
		return p.UtilityAt(s.model, pos, e)
	}
	return s.utility.Utility(s.model, e)
}

// Prepare readies the utility for a round of scoring over the current pool.
func (s *Strategy) Prepare() error {
	if p, ok := s.utility.(Preparer); ok {
		return p.Prepare(s)
	}
	return nil
}

// TestUnlabeledData scores every unlabeled example, in pool order. Each Score carries
// the position of its example. Examples that cannot be scored are logged and left out
// of the result; an error is returned only when none of the pool could be scored.
func (s *Strategy) TestUnlabeledData(ctx context.Context) ([]Score, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.Prepare(); err != nil {
		return nil, errors.Wrap(err, "preparing utility")
	}
	n := s.data.Unlabeled.Len()
	scores := make([]Score, n)
	failures := make([]error, n)
	score := func(i int) {
		v, err := s.UtilityAt(i)
		if err != nil {
			failures[i] = errors.Wrapf(err, "scoring unlabeled example %d", i)
			return
		}
		scores[i] = Score{Index: i, Value: v}
	}

	if s.concurrency.Parallel {
		var g errgroup.Group
		g.SetLimit(s.concurrency.workers())
		for i := 0; i < n; i++ {
			i := i
			g.Go(func() error {
				score(i)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i := 0; i < n; i++ {
			score(i)
		}
	}

	scored := scores[:0]
	var last error
	for i, err := range failures {
		if err != nil {
			s.logger.Println(err)
			last = err
			continue
		}
		scored = append(scored, scores[i])
	}
	if len(scored) == 0 && last != nil {
		return nil, last
	}
	return scored, nil
}

// Training fits the model to the labeled view. An incremental model that has already
// been trained is only updated with the examples committed since.
func (s *Strategy) Training() error {
	labeled := s.data.Labeled.Examples()
	if inc, ok := s.model.(model.Incremental); ok && s.trained {
		if s.added == 0 {
			return nil
		}
		if s.added > len(labeled) {
			s.added = len(labeled)
		}
		if err := inc.Update(labeled[len(labeled)-s.added:]); err != nil {
			// A partial update cannot be retried safely; train from scratch next time.
			s.trained = false
			s.added = 0
			return errors.Wrap(err, "updating model")
		}
		s.logger.Printf("updated model with %d examples\n", s.added)
		s.added = 0
		return nil
	}
	if err := s.model.Train(labeled); err != nil {
		return errors.Wrap(err, "training model")
	}
	s.logger.Printf("trained model on %d examples\n", len(labeled))
	s.trained = true
	s.added = 0
	return nil
}

// Select replaces the current selection. Every index must address the unlabeled view
// and appear once.
func (s *Strategy) Select(indices ...int) error {
	n := s.data.Unlabeled.Len()
	seen := make(map[int]bool, len(indices))
	for _, i := range indices {
		if i < 0 || i >= n {
			return errors.Wrapf(ErrSelection, "index %d of %d", i, n)
		}
		if seen[i] {
			return errors.Wrapf(ErrSelection, "index %d selected twice", i)
		}
		seen[i] = true
	}
	s.selected = append([]int(nil), indices...)
	return nil
}

// Selected returns a copy of the current selection, in selection order.
func (s *Strategy) Selected() []int {
	return append([]int(nil), s.selected...)
}

func (s *Strategy) ClearSelection() {
	s.selected = nil
}

// UpdateLabeledData moves the selected examples into the labeled view and clears the
// selection.
func (s *Strategy) UpdateLabeledData() error {
	if len(s.selected) == 0 {
		return nil
	}
	if err := s.data.Commit(s.selected); err != nil {
		return errors.Wrap(err, "committing selection")
	}
	removed := descending(s.selected)
	s.added += len(s.selected)
	s.selected = nil
	if c, ok := s.utility.(Committer); ok {
		if err := c.Committed(removed); err != nil {
			return errors.Wrap(err, "notifying utility of commit")
		}
	}
	return nil
}

// Evaluate records an evaluation of the model on the test set. The evaluation is
// recorded even when the model cannot predict; only the sizes are set then.
func (s *Strategy) Evaluate(iteration int) (eval.Evaluation, error) {
	e := eval.Evaluation{
		Iteration: iteration,
		Labeled:   s.data.Labeled.Len(),
		Unlabeled: s.data.Unlabeled.Len(),
		Measures:  make(map[string]float64),
	}
	var err error
	if s.test != nil && s.test.Len() > 0 && len(s.evaluators) > 0 {
		examples := s.test.Examples()
		predicted := make([]string, len(examples))
		actual := make([]string, len(examples))
		for i, x := range examples {
			p, perr := s.model.Predict(x)
			if perr != nil {
				err = errors.Wrapf(perr, "predicting test example %s", x.ID)
				break
			}
			predicted[i] = p.Best()
			actual[i] = x.Truth
			if actual[i] == "" {
				actual[i] = x.Label
			}
		}
		if err == nil {
			e.Measures = eval.Evaluate(s.evaluators, predicted, actual)
		}
	}
	s.evaluations = append(s.evaluations, e)
	return e, err
}

// Evaluations returns every evaluation recorded so far, oldest first.
func (s *Strategy) Evaluations() []eval.Evaluation {
	return append([]eval.Evaluation(nil), s.evaluations...)
}

func (s *Strategy) Snapshot(iteration int) Snapshot {
	snap := Snapshot{
		Iteration: iteration,
		Labeled:   s.data.Labeled.Len(),
		Unlabeled: s.data.Unlabeled.Len(),
		Selected:  s.Selected(),
	}
	if n := len(s.evaluations); n > 0 {
		last := s.evaluations[n-1]
		snap.Last = &last
	}
	return snap
}

// Reset clears the selection and the training state. Evaluations are kept.
func (s *Strategy) Reset() {
	s.selected = nil
	s.trained = false
	s.added = 0
}
