package learning

import "runtime"

// maxConcurrency limits how many goroutines score examples at once.
const maxConcurrency = 16

// Concurrency is the policy for scoring the unlabeled examples.
type Concurrency struct {
	Parallel bool
	// Workers is the size of the pool. Zero uses the number of CPUs, up to maxConcurrency.
	Workers int
}

// Sequential scores every example on the caller's goroutine.
func Sequential() Concurrency {
	return Concurrency{}
}

// Parallel scores examples with a fixed-size pool of workers.
func Parallel(workers int) Concurrency {
	return Concurrency{Parallel: true, Workers: workers}
}

func (c Concurrency) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	concurrency := runtime.NumCPU()
	if concurrency > maxConcurrency {
		concurrency = maxConcurrency
	}
	return concurrency
}
