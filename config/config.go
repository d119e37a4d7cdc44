// Package config reads the settings of an active learning run and builds the run from
// them.
package config

import (
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/magiconair/properties"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the settings of a run. It can be read from a .properties file or from
// YAML; keys are the same in both.
type Config struct {
	// Data is a CSV file of numeric features and one label column.
	Data        string `properties:"data,default=" yaml:"data"`
	LabelColumn int    `properties:"label_column,default=-1" yaml:"label_column"`
	Header      bool   `properties:"header,default=true" yaml:"header"`
	// TestSize examples are held out to evaluate the model on.
	TestSize int `properties:"test_size,default=0" yaml:"test_size"`
	// Initial is the number of examples labeled before the first iteration.
	Initial int    `properties:"initial,default=10" yaml:"initial"`
	Sampler string `properties:"sampler,default=stratified" yaml:"sampler"`
	Seed    int64  `properties:"seed,default=1" yaml:"seed"`

	Model   string `properties:"model,default=centroid" yaml:"model"`
	Utility string `properties:"utility,default=entropy" yaml:"utility"`
	// Order is maximal or minimal. When empty the utility decides.
	Order string `properties:"order,default=" yaml:"order"`
	// DensityBeta above zero weights the utility by density.
	DensityBeta       float64 `properties:"density_beta,default=0" yaml:"density_beta"`
	DensityNeighbours int     `properties:"density_neighbours,default=0" yaml:"density_neighbours"`

	Scenario  string  `properties:"scenario,default=pool" yaml:"scenario"`
	Batch     string  `properties:"batch,default=topk" yaml:"batch"`
	BatchSize int     `properties:"batch_size,default=10" yaml:"batch_size"`
	Threshold float64 `properties:"threshold,default=0" yaml:"threshold"`

	Oracle string `properties:"oracle,default=simulated" yaml:"oracle"`
	// Classes offered by the interactive oracle. When empty they are read from the data.
	Classes []string `properties:"classes,default=" yaml:"classes"`

	MaxIterations int     `properties:"max_iterations,default=10" yaml:"max_iterations"`
	LabelBudget   int     `properties:"label_budget,default=0" yaml:"label_budget"`
	Target        string  `properties:"target,default=" yaml:"target"`
	TargetValue   float64 `properties:"target_value,default=0" yaml:"target_value"`

	Evaluators []string `properties:"evaluators,default=Accuracy;F1Measure" yaml:"evaluators"`
	Parallel   bool     `properties:"parallel,default=false" yaml:"parallel"`
	Workers    int      `properties:"workers,default=0" yaml:"workers"`
}

// Error is a setting with an unusable value.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// Default returns the settings used for any key that is not given.
func Default() Config {
	return Config{
		LabelColumn:   -1,
		Header:        true,
		Initial:       10,
		Sampler:       "stratified",
		Seed:          1,
		Model:         "centroid",
		Utility:       "entropy",
		Scenario:      "pool",
		Batch:         "topk",
		BatchSize:     10,
		Oracle:        "simulated",
		MaxIterations: 10,
		Evaluators:    []string{"Accuracy", "F1Measure"},
	}
}

// Load reads a configuration file. Files ending in .yaml or .yml are read as YAML,
// anything else as properties.
func Load(path string) (Config, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		b, err := ioutil.ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		return ParseYAML(b)
	}
	p, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return Config{}, err
	}
	return FromProperties(p)
}

// FromProperties decodes properties, filling in the defaults.
func FromProperties(p *properties.Properties) (Config, error) {
	var c Config
	if err := p.Decode(&c); err != nil {
		return Config{}, errors.Wrap(err, "decoding properties")
	}
	c.Classes = nonEmpty(c.Classes)
	c.Evaluators = nonEmpty(c.Evaluators)
	return c, nil
}

// ParseYAML decodes YAML over the defaults.
func ParseYAML(b []byte) (Config, error) {
	c := Default()
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Config{}, errors.Wrap(err, "decoding yaml")
	}
	return c, nil
}

// nonEmpty drops the empty strings an empty list default decodes to.
func nonEmpty(s []string) []string {
	var r []string
	for _, v := range s {
		if v = strings.TrimSpace(v); len(v) > 0 {
			r = append(r, v)
		}
	}
	return r
}

// Validate checks the settings that do not depend on the data.
func (c Config) Validate() error {
	switch {
	case c.Initial < 1:
		return &Error{"initial", "at least one example must be labeled to start"}
	case c.BatchSize < 1:
		return &Error{"batch_size", "must be at least 1"}
	case c.MaxIterations < 1:
		return &Error{"max_iterations", "must be at least 1"}
	case c.Workers < 0:
		return &Error{"workers", "must not be negative"}
	case c.TestSize < 0:
		return &Error{"test_size", "must not be negative"}
	case c.DensityBeta < 0:
		return &Error{"density_beta", "must not be negative"}
	case c.DensityNeighbours < 0:
		return &Error{"density_neighbours", "must not be negative"}
	}
	checks := []struct {
		field, value string
		known        []string
	}{
		{"sampler", c.Sampler, []string{"random", "stratified"}},
		{"model", c.Model, names(models)},
		{"utility", c.Utility, names(utilities)},
		{"order", c.Order, []string{"", "maximal", "minimal"}},
		{"scenario", c.Scenario, []string{"pool", "stream"}},
		{"batch", c.Batch, []string{"topk", "threshold"}},
		{"oracle", c.Oracle, []string{"simulated", "interactive"}},
	}
	for _, check := range checks {
		if !contains(check.known, check.value) {
			return &Error{check.field, fmt.Sprintf("%q is not one of %s", check.value, strings.Join(check.known, ", "))}
		}
	}
	for _, name := range c.Evaluators {
		if _, ok := evaluators[name]; !ok {
			return &Error{"evaluators", fmt.Sprintf("unknown evaluator %q", name)}
		}
	}
	if len(c.Target) > 0 && !contains(c.Evaluators, c.Target) {
		return &Error{"target", fmt.Sprintf("%q is not one of the evaluators", c.Target)}
	}
	return nil
}

func contains(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
