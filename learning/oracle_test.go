package learning_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/hscells/quarry/eval"
	"github.com/hscells/quarry/learning"
	"github.com/hscells/quarry/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scripted answers prompts from a fixed list and then reports the end of input.
type scripted struct {
	answers []string
	prompts int
}

func (s *scripted) Prompt(string) (string, error) {
	s.prompts++
	if len(s.answers) == 0 {
		return "", io.EOF
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a, nil
}

func TestSimulatedOracle(t *testing.T) {
	s, err := learning.NewStrategy(model.NewCentroid(), pool(0.2, 0.8), featureUtility)
	require.NoError(t, err)
	var echo bytes.Buffer
	o := learning.NewSimulated(learning.Echo(&echo))

	require.NoError(t, s.Select(1, 0))
	require.NoError(t, o.Label(context.Background(), s))
	assert.Equal(t, []learning.Labeled{
		{Index: 1, ID: "u1", Label: "b"},
		{Index: 0, ID: "u0", Label: "a"},
	}, o.LastLabeled())
	assert.Equal(t, "u1 labeled b\nu0 labeled a\n", echo.String())

	require.NoError(t, s.UpdateLabeledData())
	for _, e := range s.Dataset().Labeled.Examples() {
		assert.Equal(t, e.Truth, e.Label)
	}
}

func TestInteractiveOracle(t *testing.T) {
	s, err := learning.NewStrategy(model.NewCentroid(), pool(0.2, 0.8, 0.4), featureUtility)
	require.NoError(t, err)
	p := &scripted{answers: []string{"bogus", "2", "skip", "a"}}
	var feedback bytes.Buffer
	o, err := learning.NewInteractive(p, []string{"a", "b"}, learning.Feedback(&feedback))
	require.NoError(t, err)

	require.NoError(t, s.Select(0, 1, 2))
	require.NoError(t, o.Label(context.Background(), s))
	assert.Equal(t, 4, p.prompts)
	assert.Contains(t, feedback.String(), "bogus")
	assert.Equal(t, []int{0, 2}, s.Selected())
	assert.Equal(t, []learning.Labeled{
		{Index: 0, ID: "u0", Label: "b"},
		{Index: 1, ID: "u1", Skipped: true},
		{Index: 2, ID: "u2", Label: "a"},
	}, o.LastLabeled())

	// The skipped example stays in the pool.
	require.NoError(t, s.UpdateLabeledData())
	assert.Equal(t, []string{"u1"}, ids(s.Dataset().Unlabeled))
	assert.Equal(t, []string{"l0", "l1", "u0", "u2"}, ids(s.Dataset().Labeled))
}

func TestInteractiveOracleEndOfInput(t *testing.T) {
	s, err := learning.NewStrategy(model.NewCentroid(), pool(0.2, 0.8), featureUtility)
	require.NoError(t, err)
	o, err := learning.NewInteractive(&scripted{answers: []string{"a"}}, []string{"a", "b"})
	require.NoError(t, err)

	require.NoError(t, s.Select(0, 1))
	assert.Error(t, o.Label(context.Background(), s))
	assert.Equal(t, []int{0}, s.Selected())
	assert.Equal(t, []learning.Labeled{
		{Index: 0, ID: "u0", Label: "a"},
		{Index: 1, ID: "u1", Skipped: true},
	}, o.LastLabeled())
}

func TestInteractiveOracleNeedsClasses(t *testing.T) {
	_, err := learning.NewInteractive(&scripted{}, nil)
	assert.Error(t, err)
}

func TestReaderPrompter(t *testing.T) {
	var out bytes.Buffer
	p := learning.NewReaderPrompter(strings.NewReader(" b \nlast"), &out)
	a, err := p.Prompt("? ")
	require.NoError(t, err)
	assert.Equal(t, "b", a)
	a, err = p.Prompt("? ")
	require.NoError(t, err)
	assert.Equal(t, "last", a)
	_, err = p.Prompt("? ")
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, "? ? ? ", out.String())
}

func TestStopCriteria(t *testing.T) {
	criteria := learning.StopCriteria{learning.MaxIterations{N: 3}, learning.UnlabeledEmpty{}}

	_, stop := criteria.Evaluate(learning.Snapshot{Iteration: 2, Unlabeled: 5})
	assert.False(t, stop)
	name, stop := criteria.Evaluate(learning.Snapshot{Iteration: 3, Unlabeled: 5})
	assert.True(t, stop)
	assert.Equal(t, "max_iterations(3)", name)
	name, stop = criteria.Evaluate(learning.Snapshot{Iteration: 1, Unlabeled: 0})
	assert.True(t, stop)
	assert.Equal(t, "unlabeled_empty", name)
	// The first criterion to stop is reported.
	name, _ = criteria.Evaluate(learning.Snapshot{Iteration: 4, Unlabeled: 0})
	assert.Equal(t, "max_iterations(3)", name)
}

func TestLabelBudgetAndTarget(t *testing.T) {
	assert.True(t, learning.LabelBudget{N: 4}.Stop(learning.Snapshot{Labeled: 4}))
	assert.False(t, learning.LabelBudget{N: 4}.Stop(learning.Snapshot{Labeled: 3}))

	target := learning.TargetMeasure{Measure: "Accuracy", Value: 0.8}
	assert.False(t, target.Stop(learning.Snapshot{}))
	assert.False(t, target.Stop(learning.Snapshot{Last: &eval.Evaluation{Measures: map[string]float64{"Accuracy": 0.7}}}))
	assert.True(t, target.Stop(learning.Snapshot{Last: &eval.Evaluation{Measures: map[string]float64{"Accuracy": 0.8}}}))
}
