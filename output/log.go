package output

import (
	"log"
	"strconv"
	"strings"

	"github.com/hscells/quarry/learning"
)

// Log writes a line for every lifecycle event of a run.
type Log struct {
	logger *log.Logger
}

func NewLog(l *log.Logger) Log {
	return Log{logger: l}
}

func (l Log) AlgorithmStarted(snap learning.Snapshot) {
	l.logger.Printf("started with %d labeled and %d unlabeled examples\n", snap.Labeled, snap.Unlabeled)
}

func (l Log) IterationCompleted(snap learning.Snapshot) {
	l.logger.Printf("iteration %d: labeled %d, %d labeled, %d unlabeled%s\n",
		snap.Iteration, len(snap.Selected), snap.Labeled, snap.Unlabeled, measures(snap))
}

func (l Log) AlgorithmFinished(snap learning.Snapshot) {
	l.logger.Printf("finished after %d iterations with %d labeled examples%s\n", snap.Iteration, snap.Labeled, measures(snap))
}

func (l Log) AlgorithmTerminated(snap learning.Snapshot) {
	l.logger.Printf("terminated after %d iterations with %d labeled examples\n", snap.Iteration, snap.Labeled)
}

func measures(snap learning.Snapshot) string {
	if snap.Last == nil || len(snap.Last.Measures) == 0 {
		return ""
	}
	var b strings.Builder
	for _, name := range snap.Last.Names() {
		b.WriteString(", ")
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(strconv.FormatFloat(snap.Last.Measures[name], 'f', 4, 64))
	}
	return b.String()
}
