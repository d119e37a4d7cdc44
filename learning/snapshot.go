// Package learning contains the collaborators of one active learning iteration: the
// query strategy that owns the model and the dataset, the scenario that decides how
// candidates are scored, the batch selector, the oracle, and the stopping criteria.
package learning

import "github.com/hscells/quarry/eval"

// Snapshot is a read-only view of a run, handed to listeners and stopping criteria.
type Snapshot struct {
	Iteration int
	Labeled   int
	Unlabeled int
	Selected  []int
	Last      *eval.Evaluation
}
