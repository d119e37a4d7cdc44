package output

import (
	"github.com/hscells/quarry/eval"
	"github.com/hscells/quarry/learning"
	"github.com/mailru/easyjson"
	"github.com/mailru/easyjson/jlexer"
	"github.com/mailru/easyjson/jwriter"
)

var (
	_ easyjson.Marshaler   = Record{}
	_ easyjson.Unmarshaler = (*Record)(nil)
)

// Record is one stored lifecycle event of a run.
type Record struct {
	Run      string
	Event    string
	Snapshot learning.Snapshot
}

func (r Record) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawString(`{"run":`)
	w.String(r.Run)
	w.RawString(`,"event":`)
	w.String(r.Event)
	w.RawString(`,"iteration":`)
	w.Int(r.Snapshot.Iteration)
	w.RawString(`,"labeled":`)
	w.Int(r.Snapshot.Labeled)
	w.RawString(`,"unlabeled":`)
	w.Int(r.Snapshot.Unlabeled)
	w.RawString(`,"selected":[`)
	for i, v := range r.Snapshot.Selected {
		if i > 0 {
			w.RawByte(',')
		}
		w.Int(v)
	}
	w.RawString(`],"last":`)
	if r.Snapshot.Last == nil {
		w.RawString("null")
	} else {
		r.Snapshot.Last.MarshalEasyJSON(w)
	}
	w.RawByte('}')
}

// MarshalJSON supports json.Marshaler interface.
func (r Record) MarshalJSON() ([]byte, error) {
	w := jwriter.Writer{}
	r.MarshalEasyJSON(&w)
	return w.Buffer.BuildBytes(), w.Error
}

func (r *Record) UnmarshalEasyJSON(in *jlexer.Lexer) {
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
		case "run":
			r.Run = in.String()
		case "event":
			r.Event = in.String()
		case "iteration":
			r.Snapshot.Iteration = in.Int()
		case "labeled":
			r.Snapshot.Labeled = in.Int()
		case "unlabeled":
			r.Snapshot.Unlabeled = in.Int()
		case "selected":
			in.Delim('[')
			r.Snapshot.Selected = make([]int, 0)
			for !in.IsDelim(']') {
				r.Snapshot.Selected = append(r.Snapshot.Selected, in.Int())
				in.WantComma()
			}
			in.Delim(']')
		case "last":
			r.Snapshot.Last = new(eval.Evaluation)
			r.Snapshot.Last.UnmarshalEasyJSON(in)
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
func (r *Record) UnmarshalJSON(data []byte) error {
	l := jlexer.Lexer{Data: data}
	r.UnmarshalEasyJSON(&l)
	return l.Error()
}
