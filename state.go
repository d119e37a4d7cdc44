package quarry

// State is the lifecycle state of an engine.
type State uint8

const (
	Idle State = iota
	Ready
	Running
	Finished
	Terminated
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Finished:
		return "finished"
	case Terminated:
		return "terminated"
	}
	return "unknown"
}

// Event is something that happens to an engine.
type Event uint8

const (
	Execute Event = iota
	Pause
	Terminate
	// Iterated is raised after an iteration that did not ask to stop.
	Iterated
	// Stopped is raised after an iteration whose stopping criteria were met.
	Stopped
	// Failed is raised when an iteration returns an error.
	Failed
)

// Effect is work the engine performs as a result of a transition.
type Effect uint8

const (
	Initialize Effect = iota
	FireStarted
	Iterate
	FireIterationCompleted
	FireFinished
	FireTerminated
	Reset
)

// Transition returns the state an engine moves to when ev happens in state s, and the
// effects to perform, in order.
func Transition(s State, ev Event) (State, []Effect) {
	switch ev {
	case Terminate:
		return Terminated, nil
	case Execute:
		switch s {
		case Idle:
			return Running, []Effect{Initialize, FireStarted}
		case Ready:
			return Running, nil
		case Running:
			return Running, []Effect{Iterate}
		case Finished:
			return Idle, []Effect{FireFinished, Reset}
		case Terminated:
			return Idle, []Effect{FireTerminated, Reset}
		}
	case Pause:
		if s == Running {
			return Ready, nil
		}
	case Iterated:
		// An iteration may complete after a pause or terminate was requested.
		if s == Running || s == Ready || s == Terminated {
			return s, []Effect{FireIterationCompleted}
		}
	case Stopped:
		if s == Running || s == Ready {
			return Finished, nil
		}
	case Failed:
		if s == Running || s == Ready {
			return Terminated, nil
		}
	}
	return s, nil
}
