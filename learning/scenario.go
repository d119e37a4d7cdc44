package learning

import (
	"context"
	"io/ioutil"
	"log"
)

// Scenario decides which unlabeled examples are put forward for labeling and records
// them as the strategy's selection.
type Scenario interface {
	SelectInstances(ctx context.Context, s *Strategy) error
}

// Pool scores the whole unlabeled pool and lets the batch selector choose.
type Pool struct {
	Batch BatchSelector
}

func (p Pool) SelectInstances(ctx context.Context, s *Strategy) error {
	scores, err := s.TestUnlabeledData(ctx)
	if err != nil {
		return err
	}
	return s.Select(p.Batch.Select(s, scores)...)
}

// Stream looks at unlabeled examples one at a time, in dataset order, and accepts
// those scoring on the informative side of Threshold until Size are accepted. An
// example is scored at most once per round.
type Stream struct {
	Size      int
	Threshold float64
	Logger    *log.Logger
}

func (st Stream) SelectInstances(ctx context.Context, s *Strategy) error {
	logger := st.Logger
	if logger == nil {
		logger = log.New(ioutil.Discard, "", 0)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.Prepare(); err != nil {
		return err
	}
	var accepted []int
	for i := 0; i < s.Dataset().Unlabeled.Len() && len(accepted) < st.Size; i++ {
		v, err := s.UtilityAt(i)
		if err != nil {
			logger.Printf("skipping unlabeled example %d: %v\n", i, err)
			continue
		}
		if accept(v, st.Threshold, s.IsMaximal()) {
			accepted = append(accepted, i)
		}
	}
	return s.Select(accepted...)
}
