package quarry

import "github.com/hscells/quarry/learning"

// Listener is notified of the lifecycle of an engine. Callbacks run synchronously on
// the goroutine calling Execute, in registration order.
type Listener interface {
	AlgorithmStarted(snap learning.Snapshot)
	IterationCompleted(snap learning.Snapshot)
	AlgorithmFinished(snap learning.Snapshot)
	AlgorithmTerminated(snap learning.Snapshot)
}

// ListenerFuncs is a Listener made of optional functions.
type ListenerFuncs struct {
	Started    func(learning.Snapshot)
	Iterated   func(learning.Snapshot)
	Finished   func(learning.Snapshot)
	Terminated func(learning.Snapshot)
}

func (l ListenerFuncs) AlgorithmStarted(snap learning.Snapshot) {
	if l.Started != nil {
		l.Started(snap)
	}
}

func (l ListenerFuncs) IterationCompleted(snap learning.Snapshot) {
	if l.Iterated != nil {
		l.Iterated(snap)
	}
}

func (l ListenerFuncs) AlgorithmFinished(snap learning.Snapshot) {
	if l.Finished != nil {
		l.Finished(snap)
	}
}

func (l ListenerFuncs) AlgorithmTerminated(snap learning.Snapshot) {
	if l.Terminated != nil {
		l.Terminated(snap)
	}
}
