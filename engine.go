// Package quarry drives active learning runs: an engine steps an algorithm through its
// iterations, moving through a small lifecycle and notifying listeners as it goes.
package quarry

import (
	"context"
	"io/ioutil"
	"log"
	"sync"

	"github.com/go-errors/errors"
	"github.com/hscells/quarry/learning"
)

// Algorithm is one active learning procedure.
type Algorithm interface {
	// Initialize checks the configuration and prepares the first iteration.
	Initialize(ctx context.Context) error
	// Iterate runs one iteration and reports whether the run should stop. A returned
	// error ends the run.
	Iterate(ctx context.Context) (stop bool, err error)
	Snapshot() learning.Snapshot
}

// Resetter is implemented by algorithms that keep per-run state.
type Resetter interface {
	Reset()
}

// Engine runs an algorithm. Execute drives the run on the caller's goroutine; Pause
// and Terminate may be called from any goroutine and take effect before the next
// iteration starts.
type Engine struct {
	algorithm Algorithm
	listeners []Listener
	logger    *log.Logger

	mu    sync.Mutex
	state State
}

// Listeners registers listeners, notified in the order given.
func Listeners(listeners ...Listener) func(*Engine) {
	return func(e *Engine) {
		e.listeners = append(e.listeners, listeners...)
	}
}

func Logger(l *log.Logger) func(*Engine) {
	return func(e *Engine) {
		e.logger = l
	}
}

// New creates an engine for an algorithm.
func New(algorithm Algorithm, options ...func(*Engine)) *Engine {
	e := &Engine{
		algorithm: algorithm,
		logger:    log.New(ioutil.Discard, "", 0),
		state:     Idle,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Pause stops the run before the next iteration. Calling Execute again resumes it.
func (e *Engine) Pause() {
	e.transition(Pause)
}

// Terminate ends the run before the next iteration.
func (e *Engine) Terminate() {
	e.transition(Terminate)
}

func (e *Engine) transition(ev Event) []Effect {
	e.mu.Lock()
	defer e.mu.Unlock()
	prev := e.state
	next, effects := Transition(prev, ev)
	e.state = next
	if prev != next {
		e.logger.Printf("engine %s -> %s\n", prev, next)
	}
	return effects
}

// Execute starts, resumes or restarts the run and returns once it is paused, finished
// or terminated. A finished or terminated run is reset so it may be executed again.
// The error returned when an iteration fails carries a stack trace.
func (e *Engine) Execute(ctx context.Context) error {
	if err := e.apply(ctx, e.transition(Execute)); err != nil {
		return err
	}
	for {
		if ctx.Err() != nil {
			e.Terminate()
		}
		switch e.State() {
		case Running:
			if err := e.apply(ctx, e.transition(Execute)); err != nil {
				return err
			}
		case Finished, Terminated:
			return e.apply(ctx, e.transition(Execute))
		default:
			return nil
		}
	}
}

func (e *Engine) apply(ctx context.Context, effects []Effect) error {
	for _, effect := range effects {
		switch effect {
		case Initialize:
			if err := e.algorithm.Initialize(ctx); err != nil {
				e.mu.Lock()
				e.state = Idle
				e.mu.Unlock()
				return errors.Wrap(err, 0)
			}
		case FireStarted:
			snap := e.algorithm.Snapshot()
			for _, l := range e.listeners {
				l.AlgorithmStarted(snap)
			}
		case Iterate:
			if err := e.iterate(ctx); err != nil {
				return err
			}
		case FireIterationCompleted:
			snap := e.algorithm.Snapshot()
			for _, l := range e.listeners {
				l.IterationCompleted(snap)
			}
		case FireFinished:
			snap := e.algorithm.Snapshot()
			for _, l := range e.listeners {
				l.AlgorithmFinished(snap)
			}
		case FireTerminated:
			snap := e.algorithm.Snapshot()
			for _, l := range e.listeners {
				l.AlgorithmTerminated(snap)
			}
		case Reset:
			if r, ok := e.algorithm.(Resetter); ok {
				r.Reset()
			}
		}
	}
	return nil
}

func (e *Engine) iterate(ctx context.Context) error {
	stop, err := e.algorithm.Iterate(ctx)
	if err != nil {
		e.logger.Printf("iteration failed: %v\n", err)
		e.transition(Failed)
		if e.State() != Terminated {
			e.Terminate()
		}
		// Listeners are told of the termination before the error is returned.
		if ferr := e.apply(ctx, e.transition(Execute)); ferr != nil {
			return ferr
		}
		return errors.Wrap(err, 0)
	}
	if stop {
		e.transition(Stopped)
		return nil
	}
	return e.apply(ctx, e.transition(Iterated))
}
