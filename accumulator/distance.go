package accumulator

import (
	"github.com/hashicorp/golang-lru"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Distance is a dissimilarity between two feature vectors.
type Distance func(a, b []float64) float64

// Euclidean is the L2 distance.
func Euclidean(a, b []float64) float64 {
	return floats.Distance(a, b, 2)
}

// Manhattan is the L1 distance.
func Manhattan(a, b []float64) float64 {
	return floats.Distance(a, b, 1)
}

// Cosine is one minus the cosine similarity. A zero vector is at distance one from
// everything.
func Cosine(a, b []float64) float64 {
	na, nb := floats.Norm(a, 2), floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - floats.Dot(a, b)/(na*nb)
}

// Table gives the distance between two physical rows.
type Table interface {
	At(i, j int) float64
}

// DenseTable holds every pairwise distance in a symmetric matrix.
type DenseTable struct {
	m *mat.SymDense
}

// NewDenseTable computes all n(n-1)/2 distances between the points up front.
func NewDenseTable(points [][]float64, d Distance) *DenseTable {
	n := len(points)
	if n == 0 {
		return &DenseTable{}
	}
	m := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			m.SetSym(i, j, d(points[i], points[j]))
		}
	}
	return &DenseTable{m: m}
}

func (t *DenseTable) At(i, j int) float64 {
	return t.m.At(i, j)
}

// CachedTable computes distances on demand and keeps the most recently used ones. It
// suits pools too large for a dense matrix.
type CachedTable struct {
	points [][]float64
	d      Distance
	cache  *lru.Cache
}

// NewCachedTable creates a table that caches up to size distances.
func NewCachedTable(points [][]float64, d Distance, size int) (*CachedTable, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &CachedTable{
		points: points,
		d:      d,
		cache:  c,
	}, nil
}

func (t *CachedTable) At(i, j int) float64 {
	if i == j {
		return 0
	}
	if i > j {
		i, j = j, i
	}
	key := uint64(i)<<32 | uint64(j)
	if v, ok := t.cache.Get(key); ok {
		return v.(float64)
	}
	v := t.d(t.points[i], t.points[j])
	t.cache.Add(key, v)
	return v
}
