package accumulator

import (
	"sort"
)

// Nearest keeps, for each remaining row, the set of its k nearest remaining neighbours
// and the sum of the distances to them. Deleting a row drops it from every neighbour
// set that contains it without finding a replacement, so those rows are left with
// fewer than k neighbours until the next Rebuild.
type Nearest struct {
	table      Table
	k          int
	rows       []int
	neighbours [][]int
	sums       []float64
}

// NewNearest creates a k-nearest accumulator over the first n rows of the table.
func NewNearest(t Table, n, k int) *Nearest {
	a := &Nearest{
		table:      t,
		k:          k,
		rows:       make([]int, n),
		neighbours: make([][]int, n),
		sums:       make([]float64, n),
	}
	for i := range a.rows {
		a.rows[i] = i
	}
	a.Rebuild()
	return a
}

// Rebuild recomputes the k nearest neighbours of every remaining row.
func (a *Nearest) Rebuild() {
	type neighbour struct {
		row      int
		distance float64
	}
	for _, r := range a.rows {
		candidates := make([]neighbour, 0, len(a.rows)-1)
		for _, o := range a.rows {
			if o == r {
				continue
			}
			candidates = append(candidates, neighbour{row: o, distance: a.table.At(r, o)})
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].distance < candidates[j].distance
		})
		if len(candidates) > a.k {
			candidates = candidates[:a.k]
		}
		a.neighbours[r] = a.neighbours[r][:0]
		a.sums[r] = 0
		for _, c := range candidates {
			a.neighbours[r] = append(a.neighbours[r], c.row)
			a.sums[r] += c.distance
		}
	}
}

func (a *Nearest) Len() int {
	return len(a.rows)
}

func (a *Nearest) Row(pos int) (int, error) {
	if pos < 0 || pos >= len(a.rows) {
		return 0, errorPosition(pos, len(a.rows))
	}
	return a.rows[pos], nil
}

// Get returns the sum of distances to the cached neighbours of the row at pos.
func (a *Nearest) Get(pos int) (float64, error) {
	r, err := a.Row(pos)
	if err != nil {
		return 0, err
	}
	return a.sums[r], nil
}

// Mean divides the sum by the number of cached neighbours.
func (a *Nearest) Mean(pos int) (float64, error) {
	r, err := a.Row(pos)
	if err != nil {
		return 0, err
	}
	if len(a.neighbours[r]) == 0 {
		return 0, nil
	}
	return a.sums[r] / float64(len(a.neighbours[r])), nil
}

// Neighbours returns the physical rows cached as neighbours of the row at pos.
func (a *Nearest) Neighbours(pos int) ([]int, error) {
	r, err := a.Row(pos)
	if err != nil {
		return nil, err
	}
	return append([]int(nil), a.neighbours[r]...), nil
}

func (a *Nearest) Delete(pos int) error {
	r, err := a.Row(pos)
	if err != nil {
		return err
	}
	for k, other := range a.rows {
		if k == pos {
			continue
		}
		ns := a.neighbours[other]
		for i, n := range ns {
			if n == r {
				a.sums[other] -= a.table.At(other, r)
				a.neighbours[other] = append(ns[:i], ns[i+1:]...)
				break
			}
		}
	}
	a.neighbours[r] = nil
	a.sums[r] = 0
	a.rows = append(a.rows[:pos], a.rows[pos+1:]...)
	return nil
}

func (a *Nearest) DeleteMany(positions []int) error {
	return deleteMany(a, positions)
}
