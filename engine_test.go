package quarry_test

import (
	"context"
	"fmt"
	"testing"

	goerrors "github.com/go-errors/errors"
	"github.com/hscells/quarry"
	"github.com/hscells/quarry/learning"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counter stops after stopAt iterations and fails on iteration failAt. The hook runs
// during each iteration, standing in for a caller on another goroutine.
type counter struct {
	inits, iterations int
	stopAt, failAt    int
	initErr           error
	resets            int
	hook              func(iteration int)
}

func (c *counter) Initialize(context.Context) error {
	c.inits++
	return c.initErr
}

func (c *counter) Iterate(context.Context) (bool, error) {
	c.iterations++
	if c.hook != nil {
		c.hook(c.iterations)
	}
	if c.iterations == c.failAt {
		return false, errors.New("boom")
	}
	return c.iterations >= c.stopAt, nil
}

func (c *counter) Snapshot() learning.Snapshot {
	return learning.Snapshot{Iteration: c.iterations}
}

func (c *counter) Reset() {
	c.resets++
}

// recorder logs every callback as name:iteration.
type recorder struct {
	events []string
}

func (r *recorder) listener() quarry.ListenerFuncs {
	log := func(name string) func(learning.Snapshot) {
		return func(snap learning.Snapshot) {
			r.events = append(r.events, fmt.Sprintf("%s:%d", name, snap.Iteration))
		}
	}
	return quarry.ListenerFuncs{
		Started:    log("started"),
		Iterated:   log("iterated"),
		Finished:   log("finished"),
		Terminated: log("terminated"),
	}
}

func TestTransition(t *testing.T) {
	cases := []struct {
		state   quarry.State
		event   quarry.Event
		want    quarry.State
		effects []quarry.Effect
	}{
		{quarry.Idle, quarry.Execute, quarry.Running, []quarry.Effect{quarry.Initialize, quarry.FireStarted}},
		{quarry.Ready, quarry.Execute, quarry.Running, nil},
		{quarry.Running, quarry.Execute, quarry.Running, []quarry.Effect{quarry.Iterate}},
		{quarry.Running, quarry.Iterated, quarry.Running, []quarry.Effect{quarry.FireIterationCompleted}},
		{quarry.Running, quarry.Stopped, quarry.Finished, nil},
		{quarry.Finished, quarry.Execute, quarry.Idle, []quarry.Effect{quarry.FireFinished, quarry.Reset}},
		{quarry.Terminated, quarry.Execute, quarry.Idle, []quarry.Effect{quarry.FireTerminated, quarry.Reset}},
		{quarry.Running, quarry.Pause, quarry.Ready, nil},
		{quarry.Idle, quarry.Pause, quarry.Idle, nil},
		{quarry.Ready, quarry.Pause, quarry.Ready, nil},
		{quarry.Running, quarry.Failed, quarry.Terminated, nil},
		{quarry.Finished, quarry.Pause, quarry.Finished, nil},
		{quarry.Idle, quarry.Iterated, quarry.Idle, nil},
	}
	for _, state := range []quarry.State{quarry.Idle, quarry.Ready, quarry.Running, quarry.Finished, quarry.Terminated} {
		cases = append(cases, struct {
			state   quarry.State
			event   quarry.Event
			want    quarry.State
			effects []quarry.Effect
		}{state, quarry.Terminate, quarry.Terminated, nil})
	}
	for _, c := range cases {
		got, effects := quarry.Transition(c.state, c.event)
		assert.Equal(t, c.want, got, "%s", c.state)
		assert.Equal(t, c.effects, effects, "%s", c.state)
	}
}

func TestEngineRunsToFinish(t *testing.T) {
	alg := &counter{stopAt: 3}
	r := &recorder{}
	e := quarry.New(alg, quarry.Listeners(r.listener()))

	require.NoError(t, e.Execute(context.Background()))
	assert.Equal(t, []string{"started:0", "iterated:1", "iterated:2", "finished:3"}, r.events)
	assert.Equal(t, quarry.Idle, e.State())
	assert.Equal(t, 1, alg.inits)
	assert.Equal(t, 1, alg.resets)
}

func TestEngineTerminateBeforeExecute(t *testing.T) {
	alg := &counter{stopAt: 3}
	r := &recorder{}
	e := quarry.New(alg, quarry.Listeners(r.listener()))

	e.Terminate()
	assert.Equal(t, quarry.Terminated, e.State())
	require.NoError(t, e.Execute(context.Background()))
	assert.Equal(t, []string{"terminated:0"}, r.events)
	assert.Equal(t, 0, alg.inits)
	assert.Equal(t, 0, alg.iterations)
	assert.Equal(t, quarry.Idle, e.State())
}

func TestEnginePauseResume(t *testing.T) {
	alg := &counter{stopAt: 4}
	r := &recorder{}
	e := quarry.New(alg, quarry.Listeners(r.listener()))
	alg.hook = func(iteration int) {
		if iteration == 2 {
			e.Pause()
		}
	}

	require.NoError(t, e.Execute(context.Background()))
	assert.Equal(t, quarry.Ready, e.State())
	assert.Equal(t, 2, alg.iterations)

	require.NoError(t, e.Execute(context.Background()))
	assert.Equal(t, []string{"started:0", "iterated:1", "iterated:2", "iterated:3", "finished:4"}, r.events)
	assert.Equal(t, 1, alg.inits)
}

func TestEnginePauseBeforeExecute(t *testing.T) {
	alg := &counter{stopAt: 2}
	r := &recorder{}
	e := quarry.New(alg, quarry.Listeners(r.listener()))

	// Only a running engine can be paused.
	e.Pause()
	assert.Equal(t, quarry.Idle, e.State())
	require.NoError(t, e.Execute(context.Background()))
	assert.Equal(t, []string{"started:0", "iterated:1", "finished:2"}, r.events)
	assert.Equal(t, 1, alg.inits)
}

func TestEngineTerminateDuringRun(t *testing.T) {
	alg := &counter{stopAt: 10}
	r := &recorder{}
	e := quarry.New(alg, quarry.Listeners(r.listener()))
	alg.hook = func(int) {
		e.Terminate()
	}

	// The iteration in progress completes before the run ends.
	require.NoError(t, e.Execute(context.Background()))
	assert.Equal(t, []string{"started:0", "iterated:1", "terminated:1"}, r.events)
	assert.Equal(t, 1, alg.iterations)

	// A terminated run can be executed again from the start.
	alg.hook = nil
	require.NoError(t, e.Execute(context.Background()))
	assert.Equal(t, 2, alg.inits)
	assert.Equal(t, "finished:10", r.events[len(r.events)-1])
}

func TestEngineContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	alg := &counter{stopAt: 10, hook: func(int) { cancel() }}
	r := &recorder{}
	e := quarry.New(alg, quarry.Listeners(r.listener()))

	require.NoError(t, e.Execute(ctx))
	assert.Equal(t, []string{"started:0", "iterated:1", "terminated:1"}, r.events)
}

func TestEngineFailure(t *testing.T) {
	alg := &counter{stopAt: 10, failAt: 2}
	r := &recorder{}
	e := quarry.New(alg, quarry.Listeners(r.listener()))

	err := e.Execute(context.Background())
	require.Error(t, err)
	stack, ok := err.(*goerrors.Error)
	require.True(t, ok)
	assert.Contains(t, stack.ErrorStack(), "boom")
	assert.Equal(t, []string{"started:0", "iterated:1", "terminated:2"}, r.events)
	assert.Equal(t, quarry.Idle, e.State())
}

func TestEngineInitializeFailure(t *testing.T) {
	alg := &counter{stopAt: 10, initErr: errors.New("no oracle")}
	r := &recorder{}
	e := quarry.New(alg, quarry.Listeners(r.listener()))

	assert.Error(t, e.Execute(context.Background()))
	assert.Empty(t, r.events)
	assert.Equal(t, 0, alg.iterations)
	assert.Equal(t, quarry.Idle, e.State())
}

func TestListenersInOrder(t *testing.T) {
	var order []string
	first := quarry.ListenerFuncs{Started: func(learning.Snapshot) { order = append(order, "first") }}
	second := quarry.ListenerFuncs{Started: func(learning.Snapshot) { order = append(order, "second") }}
	e := quarry.New(&counter{stopAt: 1}, quarry.Listeners(first, second))
	require.NoError(t, e.Execute(context.Background()))
	assert.Equal(t, []string{"first", "second"}, order)
}
