package config

import (
	"io/ioutil"
	"log"
	"sort"

	"github.com/hscells/quarry"
	"github.com/hscells/quarry/dataset"
	"github.com/hscells/quarry/eval"
	"github.com/hscells/quarry/learning"
	"github.com/hscells/quarry/model"
	"github.com/pkg/errors"
)

var (
	models = map[string]func(Config) model.Model{
		"centroid": func(Config) model.Model { return model.NewCentroid() },
		"majority": func(Config) model.Model { return model.NewMajority() },
	}

	utilities = map[string]func(Config) learning.Utility{
		"least_confident": func(Config) learning.Utility { return learning.LeastConfident{} },
		"margin":          func(Config) learning.Utility { return learning.Margin{} },
		"entropy":         func(Config) learning.Utility { return learning.Entropy{} },
		"random":          func(c Config) learning.Utility { return learning.NewRandom(c.Seed) },
	}

	evaluators = map[string]eval.Evaluator{
		eval.Accuracy.Name():           eval.Accuracy,
		eval.PrecisionEvaluator.Name(): eval.PrecisionEvaluator,
		eval.RecallEvaluator.Name():    eval.RecallEvaluator,
		eval.F1Measure.Name():          eval.F1Measure,
		eval.F05Measure.Name():         eval.F05Measure,
		eval.F3Measure.Name():          eval.F3Measure,
	}
)

func names[V any](m map[string]V) []string {
	n := make([]string, 0, len(m))
	for k := range m {
		n = append(n, k)
	}
	sort.Strings(n)
	return n
}

// Run is everything built from a configuration.
type Run struct {
	Algorithm *quarry.Classical
	Test      *dataset.View
	Classes   []string
}

// BuildOptions are what Build needs beyond the configuration.
type BuildOptions struct {
	prompter learning.Prompter
	logger   *log.Logger
}

// WithPrompter is used by the interactive oracle to ask for labels.
func WithPrompter(p learning.Prompter) func(*BuildOptions) {
	return func(b *BuildOptions) {
		b.prompter = p
	}
}

// WithLogger is given to every part of the run that logs.
func WithLogger(l *log.Logger) func(*BuildOptions) {
	return func(b *BuildOptions) {
		b.logger = l
	}
}

// Build validates the configuration and assembles a run over the examples.
func Build(c Config, examples []dataset.Example, options ...func(*BuildOptions)) (*Run, error) {
	b := &BuildOptions{logger: log.New(ioutil.Discard, "", 0)}
	for _, option := range options {
		option(b)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if len(examples) == 0 {
		return nil, &Error{"data", "no examples"}
	}
	if c.TestSize >= len(examples) {
		return nil, &Error{"test_size", "leaves no examples to learn from"}
	}

	pool, test := holdOut(examples, c.TestSize, c.Seed)
	var sampler dataset.Sampler
	switch c.Sampler {
	case "random":
		sampler = dataset.NewRandomSampler(c.Initial, c.Seed)
	default:
		sampler = dataset.NewStratifiedSampler(c.Initial, c.Seed)
	}
	d := dataset.Split(pool, sampler)
	b.logger.Printf("split %d examples into %d labeled, %d unlabeled and %d held out\n",
		len(examples), d.Labeled.Len(), d.Unlabeled.Len(), len(test))

	utility := utilities[c.Utility](c)
	if c.DensityBeta > 0 {
		u, err := learning.NewDensityWeighted(utility,
			learning.DensityBeta(c.DensityBeta),
			learning.DensityNeighbours(c.DensityNeighbours))
		if err != nil {
			return nil, &Error{"density_beta", err.Error()}
		}
		utility = u
	}

	var evs []eval.Evaluator
	for _, name := range c.Evaluators {
		evs = append(evs, evaluators[name])
	}
	testView := dataset.NewView(test...)
	strategyOptions := []func(*learning.Strategy){
		learning.TestSet(testView),
		learning.Evaluators(evs...),
		learning.Logger(b.logger),
	}
	if c.Parallel {
		strategyOptions = append(strategyOptions, learning.WithConcurrency(learning.Parallel(c.Workers)))
	}
	switch c.Order {
	case "maximal":
		strategyOptions = append(strategyOptions, learning.Maximal(true))
	case "minimal":
		strategyOptions = append(strategyOptions, learning.Maximal(false))
	}
	s, err := learning.NewStrategy(models[c.Model](c), d, utility, strategyOptions...)
	if err != nil {
		return nil, errors.Wrap(err, "creating strategy")
	}

	var scenario learning.Scenario
	switch c.Scenario {
	case "stream":
		scenario = learning.Stream{Size: c.BatchSize, Threshold: c.Threshold, Logger: b.logger}
	default:
		var batch learning.BatchSelector
		if c.Batch == "threshold" {
			batch = learning.Threshold{Size: c.BatchSize, Value: c.Threshold}
		} else {
			batch = learning.TopK{Size: c.BatchSize}
		}
		scenario = learning.Pool{Batch: batch}
	}

	classes := c.Classes
	if len(classes) == 0 {
		classes = truths(examples)
	}
	var oracle learning.Oracle
	switch c.Oracle {
	case "interactive":
		if b.prompter == nil {
			return nil, &Error{"oracle", "interactive labeling needs a terminal"}
		}
		o, err := learning.NewInteractive(b.prompter, classes)
		if err != nil {
			return nil, &Error{"classes", err.Error()}
		}
		oracle = o
	default:
		oracle = learning.NewSimulated()
	}

	stop := learning.StopCriteria{learning.MaxIterations{N: c.MaxIterations}, learning.UnlabeledEmpty{}}
	if c.LabelBudget > 0 {
		stop = append(stop, learning.LabelBudget{N: c.LabelBudget})
	}
	if len(c.Target) > 0 {
		stop = append(stop, learning.TargetMeasure{Measure: c.Target, Value: c.TargetValue})
	}

	return &Run{
		Algorithm: &quarry.Classical{
			Strategy: s,
			Scenario: scenario,
			Oracle:   oracle,
			Stop:     stop,
			Logger:   b.logger,
		},
		Test:    testView,
		Classes: classes,
	}, nil
}

// holdOut randomly sets aside n examples for testing.
func holdOut(examples []dataset.Example, n int, seed int64) (pool, test []dataset.Example) {
	if n == 0 {
		return examples, nil
	}
	held := make(map[int]bool, n)
	for _, i := range dataset.NewRandomSampler(n, seed).Sample(examples) {
		held[i] = true
	}
	for i, e := range examples {
		if held[i] {
			test = append(test, e)
		} else {
			pool = append(pool, e)
		}
	}
	return pool, test
}

func truths(examples []dataset.Example) []string {
	seen := make(map[string]bool)
	var classes []string
	for _, e := range examples {
		if len(e.Truth) > 0 && !seen[e.Truth] {
			seen[e.Truth] = true
			classes = append(classes, e.Truth)
		}
	}
	sort.Strings(classes)
	return classes
}
