package eval

import (
	"github.com/mailru/easyjson"
	"github.com/mailru/easyjson/jlexer"
	"github.com/mailru/easyjson/jwriter"
)

var (
	_ easyjson.Marshaler   = Evaluation{}
	_ easyjson.Unmarshaler = (*Evaluation)(nil)
	_ easyjson.Marshaler   = Evaluations{}
)

// Evaluations is the ordered list of evaluations of a run.
type Evaluations []Evaluation

// MarshalEasyJSON writes the evaluation with its measures in sorted order.
func (e Evaluation) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawString(`{"iteration":`)
	w.Int(e.Iteration)
	w.RawString(`,"labeled":`)
	w.Int(e.Labeled)
	w.RawString(`,"unlabeled":`)
	w.Int(e.Unlabeled)
	w.RawString(`,"measures":`)
	if e.Measures == nil {
		w.RawString("null")
	} else {
		w.RawByte('{')
		for i, name := range e.Names() {
			if i > 0 {
				w.RawByte(',')
			}
			w.String(name)
			w.RawByte(':')
			w.Float64(e.Measures[name])
		}
		w.RawByte('}')
	}
	w.RawByte('}')
}

// MarshalJSON supports json.Marshaler interface.
func (e Evaluation) MarshalJSON() ([]byte, error) {
	w := jwriter.Writer{}
	e.MarshalEasyJSON(&w)
	return w.Buffer.BuildBytes(), w.Error
}

// UnmarshalEasyJSON reads an evaluation written by MarshalEasyJSON.
func (e *Evaluation) UnmarshalEasyJSON(in *jlexer.Lexer) {
	isTopLevel := in.IsStart()
	if in.IsNull() {
		if isTopLevel {
			in.Consumed()
		}
		in.Skip()
		return
	}
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeString()
		in.WantColon()
		if in.IsNull() {
			in.Skip()
			in.WantComma()
			continue
		}
		switch key {
		case "iteration":
			e.Iteration = in.Int()
		case "labeled":
			e.Labeled = in.Int()
		case "unlabeled":
			e.Unlabeled = in.Int()
		case "measures":
			in.Delim('{')
			e.Measures = make(map[string]float64)
			for !in.IsDelim('}') {
				name := in.String()
				in.WantColon()
				e.Measures[name] = in.Float64()
				in.WantComma()
			}
			in.Delim('}')
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
	if isTopLevel {
		in.Consumed()
	}
}

// UnmarshalJSON supports json.Unmarshaler interface.
func (e *Evaluation) UnmarshalJSON(data []byte) error {
	r := jlexer.Lexer{Data: data}
	e.UnmarshalEasyJSON(&r)
	return r.Error()
}

// MarshalEasyJSON writes the evaluations as a JSON array.
func (es Evaluations) MarshalEasyJSON(w *jwriter.Writer) {
	if es == nil {
		w.RawString("[]")
		return
	}
	w.RawByte('[')
	for i, e := range es {
		if i > 0 {
			w.RawByte(',')
		}
		e.MarshalEasyJSON(w)
	}
	w.RawByte(']')
}

// MarshalJSON supports json.Marshaler interface.
func (es Evaluations) MarshalJSON() ([]byte, error) {
	w := jwriter.Writer{}
	es.MarshalEasyJSON(&w)
	return w.Buffer.BuildBytes(), w.Error
}
