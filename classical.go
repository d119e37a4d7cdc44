package quarry

import (
	"context"
	"io/ioutil"
	"log"

	"github.com/hscells/quarry/learning"
	"github.com/pkg/errors"
)

// ErrConfiguration is returned by Initialize when a run is missing a collaborator.
var ErrConfiguration = errors.New("invalid algorithm configuration")

// Classical is pool or stream based active learning. Each iteration trains the model,
// selects examples, evaluates the model, asks the oracle for labels, commits the
// labeled examples and checks the stopping criteria.
type Classical struct {
	Strategy *learning.Strategy
	Scenario learning.Scenario
	Oracle   learning.Oracle
	Stop     learning.StopCriteria
	Logger   *log.Logger

	iteration int
	committed []int
}

func (c *Classical) logger() *log.Logger {
	if c.Logger == nil {
		c.Logger = log.New(ioutil.Discard, "", 0)
	}
	return c.Logger
}

func (c *Classical) Initialize(ctx context.Context) error {
	switch {
	case c.Strategy == nil:
		return errors.Wrap(ErrConfiguration, "no query strategy")
	case c.Scenario == nil:
		return errors.Wrap(ErrConfiguration, "no scenario")
	case c.Oracle == nil:
		return errors.Wrap(ErrConfiguration, "no oracle")
	case len(c.Stop) == 0:
		return errors.Wrap(ErrConfiguration, "no stopping criteria")
	}
	c.logger().Printf("starting with %d labeled and %d unlabeled examples\n",
		c.Strategy.Dataset().Labeled.Len(), c.Strategy.Dataset().Unlabeled.Len())
	return nil
}

// Iterate runs one iteration. Only a failure to commit labeled examples is returned;
// other failures are logged and the iteration carries on without that step.
func (c *Classical) Iterate(ctx context.Context) (bool, error) {
	c.iteration++
	l := c.logger()
	s := c.Strategy

	if err := s.Training(); err != nil {
		l.Printf("iteration %d: %v\n", c.iteration, err)
	}

	if err := c.Scenario.SelectInstances(ctx, s); err != nil {
		l.Printf("iteration %d: selecting examples: %v\n", c.iteration, err)
		s.ClearSelection()
	}

	if _, err := s.Evaluate(c.iteration); err != nil {
		l.Printf("iteration %d: evaluating: %v\n", c.iteration, err)
	}

	// The oracle is consulted even for an empty selection so its log always
	// describes this iteration.
	if err := c.Oracle.Label(ctx, s); err != nil {
		l.Printf("iteration %d: labeling: %v\n", c.iteration, err)
		if err := c.keepLabeled(); err != nil {
			return false, err
		}
	}

	c.committed = s.Selected()
	if err := s.UpdateLabeledData(); err != nil {
		return false, errors.Wrapf(err, "iteration %d", c.iteration)
	}
	l.Printf("iteration %d: labeled %d examples, %d remain unlabeled\n",
		c.iteration, len(c.committed), s.Dataset().Unlabeled.Len())

	if name, stop := c.Stop.Evaluate(c.Snapshot()); stop {
		l.Printf("iteration %d: stopping, %s\n", c.iteration, name)
		return true, nil
	}
	return false, nil
}

// keepLabeled drops examples that have no label from the selection.
func (c *Classical) keepLabeled() error {
	var kept []int
	for _, i := range c.Strategy.Selected() {
		e, err := c.Strategy.Dataset().Unlabeled.At(i)
		if err != nil {
			return err
		}
		if e.Labeled() {
			kept = append(kept, i)
		}
	}
	return c.Strategy.Select(kept...)
}

// Snapshot describes the run after the most recent iteration. Selected holds the
// positions committed by that iteration.
func (c *Classical) Snapshot() learning.Snapshot {
	if c.Strategy == nil {
		return learning.Snapshot{Iteration: c.iteration}
	}
	snap := c.Strategy.Snapshot(c.iteration)
	if len(snap.Selected) == 0 {
		snap.Selected = append([]int(nil), c.committed...)
	}
	return snap
}

// Reset starts the iteration count again. The dataset keeps the labels it has gained.
func (c *Classical) Reset() {
	c.iteration = 0
	c.committed = nil
	if c.Strategy != nil {
		c.Strategy.Reset()
	}
}
