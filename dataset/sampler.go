package dataset

import (
	"math/rand"
	"sort"
)

// Sampler picks the positions of the examples that form the initial labeled set.
type Sampler interface {
	Sample(examples []Example) []int
}

// RandomSampler samples n examples uniformly at random.
type RandomSampler struct {
	n   int
	rnd *rand.Rand
}

func (s RandomSampler) Sample(examples []Example) []int {
	// Shuffle the positions to sample.
	l := s.rnd.Perm(len(examples))
	n := s.n
	if n > len(l) {
		n = len(l)
	}
	c := l[:n]
	sort.Ints(c)
	return c
}

// NewRandomSampler creates a random sampler for n examples with a fixed seed.
func NewRandomSampler(n int, seed int64) RandomSampler {
	return RandomSampler{
		n:   n,
		rnd: rand.New(rand.NewSource(seed)),
	}
}

// StratifiedSampler samples n examples by taking one example of each true label in
// turn, so that every class is represented in the initial labeled set when n allows.
type StratifiedSampler struct {
	n   int
	rnd *rand.Rand
}

func (s StratifiedSampler) Sample(examples []Example) []int {
	N := s.n
	if len(examples) <= N {
		// We can return early here because there are not enough examples to satisfy
		// the sampling conditions.
		c := make([]int, len(examples))
		for i := range c {
			c[i] = i
		}
		return c
	}

	// Group the shuffled positions by label.
	strata := make(map[string][]int)
	var labels []string
	for _, i := range s.rnd.Perm(len(examples)) {
		t := examples[i].Truth
		if _, ok := strata[t]; !ok {
			labels = append(labels, t)
		}
		strata[t] = append(strata[t], i)
	}
	sort.Strings(labels)

	c := make([]int, 0, N)
	var j int // Round of the stratified sampling.
	for len(c) < N {
		for _, t := range labels {
			if j < len(strata[t]) {
				c = append(c, strata[t][j])
				if len(c) >= N {
					break
				}
			}
		}
		j++
	}
	sort.Ints(c)
	return c
}

// NewStratifiedSampler creates a stratified sampler for n examples with a fixed seed.
func NewStratifiedSampler(n int, seed int64) StratifiedSampler {
	return StratifiedSampler{
		n:   n,
		rnd: rand.New(rand.NewSource(seed)),
	}
}

// Split creates a dataset where the sampled examples form the labeled view. The labels
// of sampled examples are revealed from their truth; every other example is placed
// into the unlabeled view with its label hidden.
func Split(examples []Example, sampler Sampler) *Dataset {
	sampled := make(map[int]bool)
	for _, i := range sampler.Sample(examples) {
		sampled[i] = true
	}
	var labeled, unlabeled []Example
	for i, e := range examples {
		if sampled[i] {
			e.Label = e.Truth
			labeled = append(labeled, e)
			continue
		}
		e.Label = ""
		unlabeled = append(unlabeled, e)
	}
	return New(labeled, unlabeled)
}
