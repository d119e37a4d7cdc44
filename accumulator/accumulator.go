// Package accumulator maintains per-row distance aggregates over a shrinking working set.
//
// Rows are addressed by logical position. A position maps through an indirection slice
// to a physical row, which never moves; deleting a position subtracts the deleted row's
// contribution from the rows that remain and compacts the indirection, preserving the
// relative order of the remaining positions. This keeps positions aligned with an
// unlabeled view that removes the same positions, and avoids recomputing all pairwise
// distances after every batch.
package accumulator

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/xtgo/set"
)

// ErrPosition is returned when a logical position does not address a remaining row.
var ErrPosition = errors.New("position out of range")

// Aggregator is the surface shared by Accumulator and Nearest.
type Aggregator interface {
	Len() int
	Row(pos int) (int, error)
	Get(pos int) (float64, error)
	Mean(pos int) (float64, error)
	Delete(pos int) error
	DeleteMany(positions []int) error
}

// Accumulator keeps, for each remaining row, the sum of its distances to every other
// remaining row.
type Accumulator struct {
	table Table
	rows  []int     // logical position -> physical row
	sums  []float64 // physical row -> aggregate
}

// New creates an accumulator over the first n rows of the table.
func New(t Table, n int) *Accumulator {
	a := &Accumulator{
		table: t,
		rows:  make([]int, n),
		sums:  make([]float64, n),
	}
	for i := 0; i < n; i++ {
		a.rows[i] = i
		for j := i + 1; j < n; j++ {
			d := t.At(i, j)
			a.sums[i] += d
			a.sums[j] += d
		}
	}
	return a
}

// Len is the number of remaining rows.
func (a *Accumulator) Len() int {
	return len(a.rows)
}

// Row returns the physical row identity at a logical position.
func (a *Accumulator) Row(pos int) (int, error) {
	if pos < 0 || pos >= len(a.rows) {
		return 0, errorPosition(pos, len(a.rows))
	}
	return a.rows[pos], nil
}

// Get returns the aggregate at a logical position.
func (a *Accumulator) Get(pos int) (float64, error) {
	r, err := a.Row(pos)
	if err != nil {
		return 0, err
	}
	return a.sums[r], nil
}

// Mean is the aggregate divided by the number of other remaining rows.
func (a *Accumulator) Mean(pos int) (float64, error) {
	v, err := a.Get(pos)
	if err != nil {
		return 0, err
	}
	if len(a.rows) < 2 {
		return 0, nil
	}
	return v / float64(len(a.rows)-1), nil
}

// Delete removes the row at a logical position. Every later position moves down by one.
func (a *Accumulator) Delete(pos int) error {
	r, err := a.Row(pos)
	if err != nil {
		return err
	}
	for k, other := range a.rows {
		if k == pos {
			continue
		}
		a.sums[other] -= a.table.At(r, other)
	}
	a.sums[r] = 0
	a.rows = append(a.rows[:pos], a.rows[pos+1:]...)
	return nil
}

// DeleteMany removes several logical positions, given in any order. They are deleted
// from the highest down so that no deletion invalidates a position still to be deleted.
// Nothing is deleted if any position is out of range.
func (a *Accumulator) DeleteMany(positions []int) error {
	return deleteMany(a, positions)
}

func deleteMany(a Aggregator, positions []int) error {
	c := descending(positions)
	for _, pos := range c {
		if pos < 0 || pos >= a.Len() {
			return errorPosition(pos, a.Len())
		}
	}
	for _, pos := range c {
		if err := a.Delete(pos); err != nil {
			return err
		}
	}
	return nil
}

func errorPosition(pos, n int) error {
	return errors.Wrapf(ErrPosition, "position %d of %d", pos, n)
}

// descending returns the unique positions from highest to lowest.
func descending(positions []int) []int {
	c := make([]int, len(positions))
	copy(c, positions)
	sort.Ints(c)
	c = c[:set.Uniq(sort.IntSlice(c))]
	for i, j := 0, len(c)-1; i < j; i, j = i+1, j-1 {
		c[i], c[j] = c[j], c[i]
	}
	return c
}
