package learning

import (
	"math"

	"github.com/hscells/quarry/accumulator"
	"github.com/hscells/quarry/dataset"
	"github.com/hscells/quarry/model"
	"github.com/pkg/errors"
)

// DensityWeighted multiplies a base utility by how densely the example sits in the
// unlabeled pool, so that outliers are not preferred. Density is the inverse of one
// plus the mean distance to the other unlabeled examples (or to the K nearest),
// raised to Beta.
type DensityWeighted struct {
	base      Utility
	beta      float64
	k         int
	distance  accumulator.Distance
	cacheSize int
	rebuild   int

	agg      accumulator.Aggregator
	prepared int
}

// DensityBeta sets the exponent applied to the density. The default is 1.
func DensityBeta(beta float64) func(*DensityWeighted) {
	return func(d *DensityWeighted) {
		d.beta = beta
	}
}

// DensityNeighbours restricts the density to the k nearest unlabeled examples.
func DensityNeighbours(k int) func(*DensityWeighted) {
	return func(d *DensityWeighted) {
		d.k = k
	}
}

func DensityDistance(distance accumulator.Distance) func(*DensityWeighted) {
	return func(d *DensityWeighted) {
		d.distance = distance
	}
}

// DensityCache computes distances on demand, keeping at most size of them, instead of
// storing the full distance matrix.
func DensityCache(size int) func(*DensityWeighted) {
	return func(d *DensityWeighted) {
		d.cacheSize = size
	}
}

// DensityRebuild recomputes the nearest neighbours every n rounds of scoring.
func DensityRebuild(n int) func(*DensityWeighted) {
	return func(d *DensityWeighted) {
		d.rebuild = n
	}
}

// NewDensityWeighted wraps a base utility. The base must prefer high scores.
func NewDensityWeighted(base Utility, options ...func(*DensityWeighted)) (*DensityWeighted, error) {
	if base == nil {
		return nil, errors.New("density weighting needs a base utility")
	}
	if dir, ok := base.(Directional); ok && !dir.Maximal() {
		return nil, errors.New("density weighting needs a base utility where higher is better")
	}
	d := &DensityWeighted{
		base:     base,
		beta:     1,
		distance: accumulator.Euclidean,
	}
	for _, option := range options {
		option(d)
	}
	return d, nil
}

// Prepare builds the distance aggregates over the unlabeled pool the first time it is
// called. Later calls only check that the aggregates still line up with the pool.
func (d *DensityWeighted) Prepare(s *Strategy) error {
	unlabeled := s.Dataset().Unlabeled
	if d.agg == nil {
		examples := unlabeled.Examples()
		points := make([][]float64, len(examples))
		for i, e := range examples {
			points[i] = e.Features
		}
		var table accumulator.Table
		if d.cacheSize > 0 {
			t, err := accumulator.NewCachedTable(points, d.distance, d.cacheSize)
			if err != nil {
				return err
			}
			table = t
		} else {
			table = accumulator.NewDenseTable(points, d.distance)
		}
		if d.k > 0 {
			d.agg = accumulator.NewNearest(table, len(points), d.k)
		} else {
			d.agg = accumulator.New(table, len(points))
		}
	}
	if d.agg.Len() != unlabeled.Len() {
		return errors.Errorf("density aggregates cover %d examples but the pool has %d", d.agg.Len(), unlabeled.Len())
	}
	d.prepared++
	if n, ok := d.agg.(*accumulator.Nearest); ok && d.rebuild > 0 && d.prepared%d.rebuild == 0 {
		n.Rebuild()
	}
	return nil
}

// Utility is the base utility; without a position there is no density to weight by.
func (d *DensityWeighted) Utility(m model.Model, e dataset.Example) (float64, error) {
	return d.base.Utility(m, e)
}

func (d *DensityWeighted) UtilityAt(m model.Model, pos int, e dataset.Example) (float64, error) {
	u, err := d.base.Utility(m, e)
	if err != nil {
		return 0, err
	}
	if d.agg == nil {
		return u, nil
	}
	mean, err := d.agg.Mean(pos)
	if err != nil {
		return 0, err
	}
	return u * math.Pow(1/(1+mean), d.beta), nil
}

func (d *DensityWeighted) Committed(positions []int) error {
	if d.agg == nil {
		return nil
	}
	return d.agg.DeleteMany(positions)
}

func (d *DensityWeighted) Maximal() bool {
	return true
}
