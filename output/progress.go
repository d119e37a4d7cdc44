package output

import (
	"io"

	"github.com/cheggaaa/pb/v3"
	"github.com/hscells/quarry/learning"
)

// Progress shows a progress bar with one step per iteration.
type Progress struct {
	bar *pb.ProgressBar
}

// NewProgress creates a progress bar for at most total iterations, drawn to w.
func NewProgress(total int, w io.Writer) *Progress {
	bar := pb.New(total)
	bar.SetWriter(w)
	return &Progress{bar: bar}
}

func (p *Progress) AlgorithmStarted(learning.Snapshot) {
	p.bar.Start()
}

func (p *Progress) IterationCompleted(learning.Snapshot) {
	p.bar.Increment()
}

func (p *Progress) AlgorithmFinished(snap learning.Snapshot) {
	// The stopping iteration is not reported as completed.
	p.bar.SetCurrent(int64(snap.Iteration))
	p.bar.Finish()
}

func (p *Progress) AlgorithmTerminated(learning.Snapshot) {
	p.bar.Finish()
}

// Current is the number of iterations shown as done.
func (p *Progress) Current() int64 {
	return p.bar.Current()
}
