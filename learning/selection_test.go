package learning_test

import (
	"context"
	"testing"

	"github.com/hscells/quarry/learning"
	"github.com/hscells/quarry/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type direction bool

func (d direction) IsMaximal() bool {
	return bool(d)
}

func scores(values ...float64) []learning.Score {
	s := make([]learning.Score, len(values))
	for i, v := range values {
		s[i] = learning.Score{Index: i, Value: v}
	}
	return s
}

func TestTopK(t *testing.T) {
	in := scores(0.9, 0.1, 0.5, 0.9)
	assert.Equal(t, []int{0, 3}, learning.TopK{Size: 2}.Select(direction(true), in))
	assert.Equal(t, []int{1, 2}, learning.TopK{Size: 2}.Select(direction(false), in))
	assert.Equal(t, []int{0, 3, 2, 1}, learning.TopK{Size: 10}.Select(direction(true), in))
	// The input is left in place.
	assert.Equal(t, scores(0.9, 0.1, 0.5, 0.9), in)
	assert.Empty(t, learning.TopK{Size: 3}.Select(direction(true), nil))
}

func TestNewTopK(t *testing.T) {
	_, err := learning.NewTopK(0)
	assert.Error(t, err)
	b, err := learning.NewTopK(3)
	require.NoError(t, err)
	assert.Equal(t, 3, b.Size)
}

func TestThreshold(t *testing.T) {
	in := scores(0.9, 0.1, 0.5, 0.7)
	assert.Equal(t, []int{0, 3}, learning.Threshold{Size: 5, Value: 0.6}.Select(direction(true), in))
	assert.Equal(t, []int{0}, learning.Threshold{Size: 1, Value: 0.6}.Select(direction(true), in))
	assert.Equal(t, []int{1, 2}, learning.Threshold{Size: 5, Value: 0.5}.Select(direction(false), in))
}

func TestStream(t *testing.T) {
	for _, c := range []struct {
		size    int
		maximal bool
		want    []int
	}{
		{1, true, []int{1}},
		{5, true, []int{1, 2}},
		{5, false, []int{0, 3}},
	} {
		s, err := learning.NewStrategy(model.NewCentroid(), pool(0.2, 0.8, 0.9, 0.1), featureUtility, learning.Maximal(c.maximal))
		require.NoError(t, err)
		scenario := learning.Stream{Size: c.size, Threshold: 0.5}
		require.NoError(t, scenario.SelectInstances(context.Background(), s))
		assert.Equal(t, c.want, s.Selected())
	}
}

func TestStreamSkipsScoringErrors(t *testing.T) {
	// The untrained centroid cannot score anything, so nothing is accepted.
	s, err := learning.NewStrategy(model.NewCentroid(), pool(0.2, 0.8), learning.LeastConfident{})
	require.NoError(t, err)
	require.NoError(t, learning.Stream{Size: 2, Threshold: 0}.SelectInstances(context.Background(), s))
	assert.Empty(t, s.Selected())
}

func TestUtilities(t *testing.T) {
	m := model.NewCentroid()
	s, err := learning.NewStrategy(m, pool(), featureUtility)
	require.NoError(t, err)
	require.NoError(t, s.Training())

	// Halfway between the two centroids the model is as unsure as it can be.
	middle := pool(0.5).Unlabeled.Examples()[0]
	lc, err := learning.LeastConfident{}.Utility(s.Model(), middle)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, lc, 1e-9)
	margin, err := learning.Margin{}.Utility(s.Model(), middle)
	require.NoError(t, err)
	assert.InDelta(t, 0, margin, 1e-9)
	entropy, err := learning.Entropy{}.Utility(s.Model(), middle)
	require.NoError(t, err)
	assert.InDelta(t, 0.6931471805599453, entropy, 1e-9)

	near := pool(0.05).Unlabeled.Examples()[0]
	lcNear, err := learning.LeastConfident{}.Utility(s.Model(), near)
	require.NoError(t, err)
	assert.Less(t, lcNear, lc)

	r := learning.NewRandom(1)
	v, err := r.Utility(s.Model(), middle)
	require.NoError(t, err)
	assert.True(t, v >= 0 && v < 1)
}

func TestDensityWeighted(t *testing.T) {
	// u3 is far away from the others, so it is the least dense.
	d, err := learning.NewDensityWeighted(featureUtility, learning.DensityBeta(1))
	require.NoError(t, err)
	s, err := learning.NewStrategy(model.NewCentroid(), pool(0.5, 0.5, 0.5, 10), d)
	require.NoError(t, err)

	got, err := s.TestUnlabeledData(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 0.5/(1+9.5/3), got[0].Value, 1e-9)
	assert.InDelta(t, 10/(1+9.5), got[3].Value, 1e-9)

	// Committing keeps the aggregates in step with the pool.
	require.NoError(t, s.Select(3, 0))
	require.NoError(t, s.UpdateLabeledData())
	got, err = s.TestUnlabeledData(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.InDelta(t, 0.5, got[0].Value, 1e-9)
}

func TestDensityWeightedNearest(t *testing.T) {
	d, err := learning.NewDensityWeighted(featureUtility, learning.DensityNeighbours(1), learning.DensityCache(16), learning.DensityRebuild(1))
	require.NoError(t, err)
	s, err := learning.NewStrategy(model.NewCentroid(), pool(1, 2, 4), d)
	require.NoError(t, err)
	got, err := s.TestUnlabeledData(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 1.0/2, got[0].Value, 1e-9)
	assert.InDelta(t, 4.0/3, got[2].Value, 1e-9)
}

func TestDensityWeightedRejectsMinimalBase(t *testing.T) {
	_, err := learning.NewDensityWeighted(learning.Margin{})
	assert.Error(t, err)
}

func TestDensityWeightedOutOfStep(t *testing.T) {
	d, err := learning.NewDensityWeighted(featureUtility)
	require.NoError(t, err)
	s, err := learning.NewStrategy(model.NewCentroid(), pool(0.1, 0.2, 0.3), d)
	require.NoError(t, err)
	require.NoError(t, s.Prepare())
	// Removing from the pool behind the utility's back leaves it out of step.
	require.NoError(t, s.Dataset().Unlabeled.Remove(0))
	assert.Error(t, s.Prepare())
}
