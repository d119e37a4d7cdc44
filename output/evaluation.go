// Package output reports on active learning runs: formatted evaluations, progress,
// logs, metrics and a persistent record of every snapshot.
package output

import (
	"bytes"
	"encoding/csv"
	"sort"
	"strconv"

	"github.com/hscells/quarry/eval"
	"github.com/mailru/easyjson"
)

// EvaluationFormatter renders the evaluations of a run.
type EvaluationFormatter func(evaluations []eval.Evaluation) (string, error)

// JsonEvaluationFormatter outputs evaluations as a JSON array.
func JsonEvaluationFormatter(evaluations []eval.Evaluation) (string, error) {
	b, err := easyjson.Marshal(eval.Evaluations(evaluations))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CsvEvaluationFormatter outputs one row per evaluation, with a column for every
// measure any evaluation recorded.
func CsvEvaluationFormatter(evaluations []eval.Evaluation) (string, error) {
	seen := make(map[string]bool)
	var measures []string
	for _, e := range evaluations {
		for name := range e.Measures {
			if !seen[name] {
				seen[name] = true
				measures = append(measures, name)
			}
		}
	}
	sort.Strings(measures)

	b := bytes.NewBufferString("")
	w := csv.NewWriter(b)
	h := append([]string{"Iteration", "Labeled", "Unlabeled"}, measures...)
	if err := w.Write(h); err != nil {
		return "", err
	}
	for _, e := range evaluations {
		record := []string{strconv.Itoa(e.Iteration), strconv.Itoa(e.Labeled), strconv.Itoa(e.Unlabeled)}
		for _, name := range measures {
			v, ok := e.Measures[name]
			if !ok {
				record = append(record, "")
				continue
			}
			record = append(record, strconv.FormatFloat(v, 'f', -1, 64))
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	return b.String(), w.Error()
}
