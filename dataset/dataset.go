// Package dataset contains the examples an active learner moves from the unlabeled pool
// into the labeled set.
package dataset

import (
	"sort"

	"github.com/pkg/errors"
)

var (
	// ErrIndex is returned when an index does not address an example in a view.
	ErrIndex = errors.New("index out of range")
	// ErrNotDescending is returned when indices for removal are not strictly descending.
	ErrNotDescending = errors.New("indices are not in strictly descending order")
	// ErrDuplicate is returned when the same index is committed twice.
	ErrDuplicate = errors.New("duplicate index")
)

// Example is a single feature/label record. An empty Label means the example has not
// been labeled yet. Truth holds the hidden label a simulated oracle reveals.
type Example struct {
	ID       string
	Features []float64
	Label    string
	Truth    string
}

// Labeled reports whether the example has a committed label.
func (e Example) Labeled() bool {
	return len(e.Label) > 0
}

// View is an ordered collection of examples. Indices into a view are only valid until
// the next call to Append or Remove.
type View struct {
	examples []Example
}

// NewView creates a view over a copy of the examples.
func NewView(examples ...Example) *View {
	v := &View{examples: make([]Example, len(examples))}
	copy(v.examples, examples)
	return v
}

// Len is the number of examples in the view.
func (v *View) Len() int {
	return len(v.examples)
}

// At returns the example at index i.
func (v *View) At(i int) (Example, error) {
	if i < 0 || i >= len(v.examples) {
		return Example{}, errors.Wrapf(ErrIndex, "index %d in view of size %d", i, len(v.examples))
	}
	return v.examples[i], nil
}

// Set replaces the example at index i.
func (v *View) Set(i int, e Example) error {
	if i < 0 || i >= len(v.examples) {
		return errors.Wrapf(ErrIndex, "index %d in view of size %d", i, len(v.examples))
	}
	v.examples[i] = e
	return nil
}

// Examples returns a copy of the examples in the view.
func (v *View) Examples() []Example {
	c := make([]Example, len(v.examples))
	copy(c, v.examples)
	return c
}

// Append adds examples to the end of the view.
func (v *View) Append(examples ...Example) {
	v.examples = append(v.examples, examples...)
}

// Remove deletes the example at index i, shifting every later example down by one.
func (v *View) Remove(i int) error {
	if i < 0 || i >= len(v.examples) {
		return errors.Wrapf(ErrIndex, "cannot remove index %d from view of size %d", i, len(v.examples))
	}
	v.examples = append(v.examples[:i], v.examples[i+1:]...)
	return nil
}

// RemoveDescending removes several indices. The indices must be strictly descending,
// otherwise removing a lower index first would shift the higher ones. The view is not
// modified when the indices are invalid.
func (v *View) RemoveDescending(indices []int) error {
	if err := v.checkDescending(indices); err != nil {
		return err
	}
	for _, i := range indices {
		v.examples = append(v.examples[:i], v.examples[i+1:]...)
	}
	return nil
}

func (v *View) checkDescending(indices []int) error {
	for k, i := range indices {
		if i < 0 || i >= len(v.examples) {
			return errors.Wrapf(ErrIndex, "cannot remove index %d from view of size %d", i, len(v.examples))
		}
		if k > 0 && i >= indices[k-1] {
			return errors.Wrapf(ErrNotDescending, "index %d follows %d", i, indices[k-1])
		}
	}
	return nil
}

// Dataset is split into two disjoint views: labeled and unlabeled. Examples only ever
// move from unlabeled to labeled.
type Dataset struct {
	Labeled   *View
	Unlabeled *View
}

// New creates a dataset from an initial split.
func New(labeled, unlabeled []Example) *Dataset {
	return &Dataset{
		Labeled:   NewView(labeled...),
		Unlabeled: NewView(unlabeled...),
	}
}

// Len is the total number of examples in both views.
func (d *Dataset) Len() int {
	return d.Labeled.Len() + d.Unlabeled.Len()
}

// Commit moves the unlabeled examples at the given indices into the labeled view. The
// examples are appended to the labeled view in selection order and then removed from
// the unlabeled view from the highest index down. Nothing is moved if any index is
// invalid or repeated.
func (d *Dataset) Commit(selection []int) error {
	if len(selection) == 0 {
		return nil
	}
	descending := make([]int, len(selection))
	copy(descending, selection)
	sort.Sort(sort.Reverse(sort.IntSlice(descending)))
	for k := 1; k < len(descending); k++ {
		if descending[k] == descending[k-1] {
			return errors.Wrapf(ErrDuplicate, "index %d selected more than once", descending[k])
		}
	}
	if err := d.Unlabeled.checkDescending(descending); err != nil {
		return err
	}
	moved := make([]Example, len(selection))
	for k, i := range selection {
		moved[k] = d.Unlabeled.examples[i]
	}
	d.Labeled.Append(moved...)
	return d.Unlabeled.RemoveDescending(descending)
}
