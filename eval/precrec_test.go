package eval_test

import (
	"encoding/json"
	"testing"

	"github.com/hscells/quarry/eval"
	"github.com/mailru/easyjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasures(t *testing.T) {
	actual := []string{"a", "a", "b", "b"}
	predicted := []string{"a", "b", "b", "b"}

	scores := eval.Evaluate([]eval.Evaluator{
		eval.Accuracy,
		eval.PrecisionEvaluator,
		eval.RecallEvaluator,
		eval.F1Measure,
	}, predicted, actual)

	assert.InDelta(t, 0.75, scores["Accuracy"], 1e-9)
	assert.InDelta(t, 0.75, scores["Recall"], 1e-9)
	assert.InDelta(t, (1+2.0/3)/2, scores["Precision"], 1e-9)
	assert.InDelta(t, 2*(5.0/6)*0.75/(5.0/6+0.75), scores["F1Measure"], 1e-9)
}

func TestMeasuresEmpty(t *testing.T) {
	for _, e := range []eval.Evaluator{eval.Accuracy, eval.PrecisionEvaluator, eval.RecallEvaluator, eval.F3Measure} {
		assert.Equal(t, 0.0, e.Score(nil, nil), e.Name())
	}
}

func TestFMeasureName(t *testing.T) {
	assert.Equal(t, "F0.5Measure", eval.F05Measure.Name())
	assert.Equal(t, "F2Measure", eval.NewFMeasure(2).Name())
}

func TestSummarise(t *testing.T) {
	es := []eval.Evaluation{
		{Measures: map[string]float64{"Accuracy": 0.5}},
		{Measures: map[string]float64{"Accuracy": 0.7}},
		{Measures: map[string]float64{}},
	}
	mean, std := eval.Summarise(es, "Accuracy")
	assert.InDelta(t, 0.6, mean, 1e-9)
	assert.Greater(t, std, 0.0)

	mean, std = eval.Summarise(es[:1], "Accuracy")
	assert.Equal(t, 0.5, mean)
	assert.Equal(t, 0.0, std)
}

func TestEvaluationJSON(t *testing.T) {
	e := eval.Evaluation{
		Iteration: 3,
		Labeled:   12,
		Unlabeled: 88,
		Measures:  map[string]float64{"Recall": 0.25, "Accuracy": 0.5},
	}
	b, err := easyjson.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `{"iteration":3,"labeled":12,"unlabeled":88,"measures":{"Accuracy":0.5,"Recall":0.25}}`, string(b))

	var decoded eval.Evaluation
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, e, decoded)

	b, err = json.Marshal(eval.Evaluations{e})
	require.NoError(t, err)
	assert.JSONEq(t, `[`+`{"iteration":3,"labeled":12,"unlabeled":88,"measures":{"Accuracy":0.5,"Recall":0.25}}`+`]`, string(b))
}
