package model_test

import (
	"testing"

	"github.com/hscells/quarry/dataset"
	"github.com/hscells/quarry/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var training = []dataset.Example{
	{ID: "0", Features: []float64{0, 0}, Label: "a"},
	{ID: "1", Features: []float64{0, 2}, Label: "a"},
	{ID: "2", Features: []float64{10, 10}, Label: "b"},
}

func TestCentroidPredict(t *testing.T) {
	m := model.NewCentroid()
	_, err := m.Predict(dataset.Example{Features: []float64{1, 1}})
	assert.Equal(t, model.ErrUntrained, err)

	require.NoError(t, m.Train(training))
	p, err := m.Predict(dataset.Example{Features: []float64{1, 1}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, p.Classes)
	assert.Equal(t, "a", p.Best())
	assert.InDelta(t, 1.0, p.Probabilities[0]+p.Probabilities[1], 1e-9)
	assert.Greater(t, p.Probabilities[0], p.Probabilities[1])
}

func TestCentroidUpdateMatchesTrain(t *testing.T) {
	full := model.NewCentroid()
	require.NoError(t, full.Train(training))

	incremental := model.NewCentroid()
	require.NoError(t, incremental.Train(training[:1]))
	require.NoError(t, incremental.Update(training[1:]))

	e := dataset.Example{Features: []float64{4, 3}}
	a, err := full.Predict(e)
	require.NoError(t, err)
	b, err := incremental.Predict(e)
	require.NoError(t, err)
	assert.InDeltaSlice(t, a.Probabilities, b.Probabilities, 1e-9)
}

func TestCentroidCloneIsIndependent(t *testing.T) {
	m := model.NewCentroid()
	require.NoError(t, m.Train(training[:2]))

	c := m.Clone().(*model.Centroid)
	require.NoError(t, c.Update(training[2:]))

	p, err := m.Predict(dataset.Example{Features: []float64{10, 10}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, p.Classes)
}

func TestCentroidRejectsUnlabeled(t *testing.T) {
	m := model.NewCentroid()
	assert.Error(t, m.Train([]dataset.Example{{ID: "x", Features: []float64{1}}}))
}

func TestCentroidSkipsInvalidExamples(t *testing.T) {
	m := model.NewCentroid()
	require.NoError(t, m.Train(training[:2]))
	err := m.Update([]dataset.Example{
		{ID: "wide", Features: []float64{1, 1, 1}, Label: "a"},
		{ID: "blank", Features: []float64{5, 5}},
		training[2],
	})
	assert.Equal(t, model.ErrInvalidExample, errors.Cause(err))
	assert.Contains(t, err.Error(), "wide")
	assert.Contains(t, err.Error(), "blank")

	full := model.NewCentroid()
	require.NoError(t, full.Train(training))
	e := dataset.Example{Features: []float64{4, 3}}
	want, err := full.Predict(e)
	require.NoError(t, err)
	got, err := m.Predict(e)
	require.NoError(t, err)
	assert.InDeltaSlice(t, want.Probabilities, got.Probabilities, 1e-9)
}

func TestMajority(t *testing.T) {
	m := model.NewMajority()
	require.NoError(t, m.Train(training))
	p, err := m.Predict(dataset.Example{})
	require.NoError(t, err)
	assert.Equal(t, "a", p.Best())
	assert.InDeltaSlice(t, []float64{2.0 / 3, 1.0 / 3}, p.Probabilities, 1e-9)
	assert.Equal(t, []float64{2.0 / 3, 1.0 / 3}, p.Sorted())
}
