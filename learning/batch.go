package learning

import (
	"sort"

	"github.com/pkg/errors"
)

// Ranker reports the direction in which utility scores are ordered.
type Ranker interface {
	IsMaximal() bool
}

// BatchSelector chooses which scored examples go to the oracle.
type BatchSelector interface {
	Select(r Ranker, scores []Score) []int
}

// Rank returns a copy of the scores ordered from most to least informative. Ties keep
// their original order.
func Rank(scores []Score, maximal bool) []Score {
	ranked := append([]Score(nil), scores...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if maximal {
			return ranked[i].Value > ranked[j].Value
		}
		return ranked[i].Value < ranked[j].Value
	})
	return ranked
}

// TopK selects the Size most informative examples.
type TopK struct {
	Size int
}

func NewTopK(size int) (TopK, error) {
	if size < 1 {
		return TopK{}, errors.Errorf("batch size must be at least 1, got %d", size)
	}
	return TopK{Size: size}, nil
}

func (b TopK) Select(r Ranker, scores []Score) []int {
	ranked := Rank(scores, r.IsMaximal())
	if len(ranked) > b.Size {
		ranked = ranked[:b.Size]
	}
	indices := make([]int, len(ranked))
	for i, s := range ranked {
		indices[i] = s.Index
	}
	return indices
}

// Threshold selects up to Size of the most informative examples whose score is at
// least Value (or at most Value when lower scores are better).
type Threshold struct {
	Size  int
	Value float64
}

func (b Threshold) Select(r Ranker, scores []Score) []int {
	maximal := r.IsMaximal()
	var indices []int
	for _, s := range Rank(scores, maximal) {
		if len(indices) == b.Size {
			break
		}
		if !accept(s.Value, b.Value, maximal) {
			break
		}
		indices = append(indices, s.Index)
	}
	return indices
}

func accept(v, threshold float64, maximal bool) bool {
	if maximal {
		return v >= threshold
	}
	return v <= threshold
}
