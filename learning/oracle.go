package learning

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Labeled records what an oracle did with one selected example.
type Labeled struct {
	Index   int
	ID      string
	Label   string
	Skipped bool
}

// Oracle labels the examples in the strategy's selection. Examples the oracle does
// not label are dropped from the selection, so they stay in the unlabeled view and may
// be selected again.
type Oracle interface {
	Label(ctx context.Context, s *Strategy) error
	// LastLabeled is the log of the most recent call to Label, in selection order.
	LastLabeled() []Labeled
}

// Simulated reveals the hidden true label of each selected example.
type Simulated struct {
	echo io.Writer
	last []Labeled
}

// Echo writes a line for every example the simulated oracle labels.
func Echo(w io.Writer) func(*Simulated) {
	return func(o *Simulated) {
		o.echo = w
	}
}

func NewSimulated(options ...func(*Simulated)) *Simulated {
	o := &Simulated{echo: ioutil.Discard}
	for _, option := range options {
		option(o)
	}
	return o
}

func (o *Simulated) Label(ctx context.Context, s *Strategy) error {
	unlabeled := s.Dataset().Unlabeled
	o.last = nil
	var kept []int
	for _, i := range s.Selected() {
		e, err := unlabeled.At(i)
		if err != nil {
			return err
		}
		if len(e.Truth) == 0 {
			o.last = append(o.last, Labeled{Index: i, ID: e.ID, Skipped: true})
			fmt.Fprintf(o.echo, "%s has no true label, skipped\n", e.ID)
			continue
		}
		e.Label = e.Truth
		if err := unlabeled.Set(i, e); err != nil {
			return err
		}
		kept = append(kept, i)
		o.last = append(o.last, Labeled{Index: i, ID: e.ID, Label: e.Label})
		fmt.Fprintf(o.echo, "%s labeled %s\n", e.ID, e.Label)
	}
	return s.Select(kept...)
}

func (o *Simulated) LastLabeled() []Labeled {
	return append([]Labeled(nil), o.last...)
}

// Prompter asks a human a question and returns their answer.
type Prompter interface {
	Prompt(prompt string) (string, error)
}

// ReaderPrompter writes prompts to w and reads answers line by line from r.
type ReaderPrompter struct {
	r *bufio.Reader
	w io.Writer
}

func NewReaderPrompter(r io.Reader, w io.Writer) *ReaderPrompter {
	return &ReaderPrompter{r: bufio.NewReader(r), w: w}
}

func (p *ReaderPrompter) Prompt(prompt string) (string, error) {
	if _, err := io.WriteString(p.w, prompt); err != nil {
		return "", err
	}
	line, err := p.r.ReadString('\n')
	if err == io.EOF && len(line) > 0 {
		err = nil
	}
	return strings.TrimSpace(line), err
}

// Interactive asks a human for the label of each selected example. An answer is
// either a class name or its number, counting from 1. Any other answer is asked again.
type Interactive struct {
	prompter Prompter
	classes  []string
	skip     string
	out      io.Writer
	last     []Labeled
}

// SkipKeyword sets the answer that skips an example. The default is "skip".
func SkipKeyword(skip string) func(*Interactive) {
	return func(o *Interactive) {
		o.skip = skip
	}
}

// Feedback is where messages about unrecognised answers are written.
func Feedback(w io.Writer) func(*Interactive) {
	return func(o *Interactive) {
		o.out = w
	}
}

func NewInteractive(prompter Prompter, classes []string, options ...func(*Interactive)) (*Interactive, error) {
	if prompter == nil {
		return nil, errors.New("interactive oracle needs a prompter")
	}
	if len(classes) == 0 {
		return nil, errors.New("interactive oracle needs at least one class")
	}
	o := &Interactive{
		prompter: prompter,
		classes:  classes,
		skip:     "skip",
		out:      ioutil.Discard,
	}
	for _, option := range options {
		option(o)
	}
	return o, nil
}

func (o *Interactive) Label(ctx context.Context, s *Strategy) error {
	unlabeled := s.Dataset().Unlabeled
	selected := s.Selected()
	o.last = nil
	var kept []int
	for n, i := range selected {
		e, err := unlabeled.At(i)
		if err != nil {
			return err
		}
		label, err := o.ask(ctx, e.ID, e.Features)
		if err != nil {
			// Whatever was not answered stays unlabeled.
			for _, j := range selected[n:] {
				skipped := Labeled{Index: j, Skipped: true}
				if r, err := unlabeled.At(j); err == nil {
					skipped.ID = r.ID
				}
				o.last = append(o.last, skipped)
			}
			if serr := s.Select(kept...); serr != nil {
				return serr
			}
			return errors.Wrapf(err, "labeling %s", e.ID)
		}
		if len(label) == 0 {
			o.last = append(o.last, Labeled{Index: i, ID: e.ID, Skipped: true})
			continue
		}
		e.Label = label
		if err := unlabeled.Set(i, e); err != nil {
			return err
		}
		kept = append(kept, i)
		o.last = append(o.last, Labeled{Index: i, ID: e.ID, Label: label})
	}
	return s.Select(kept...)
}

// ask returns the chosen class, or the empty string if the example was skipped.
func (o *Interactive) ask(ctx context.Context, id string, features []float64) (string, error) {
	prompt := fmt.Sprintf("%s %v [%s] or %s: ", id, features, strings.Join(o.classes, "/"), o.skip)
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		answer, err := o.prompter.Prompt(prompt)
		if err != nil {
			return "", err
		}
		if answer == o.skip {
			return "", nil
		}
		for _, c := range o.classes {
			if answer == c {
				return c, nil
			}
		}
		if k, err := strconv.Atoi(answer); err == nil && k >= 1 && k <= len(o.classes) {
			return o.classes[k-1], nil
		}
		fmt.Fprintf(o.out, "%q is not one of %s\n", answer, strings.Join(o.classes, ", "))
	}
}

func (o *Interactive) LastLabeled() []Labeled {
	return append([]Labeled(nil), o.last...)
}
