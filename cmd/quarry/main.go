// Command quarry runs an active learning experiment over a CSV dataset and prints the
// evaluation of the model after every iteration.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"

	"github.com/alexflint/go-arg"
	"github.com/go-errors/errors"
	"github.com/hscells/quarry"
	"github.com/hscells/quarry/config"
	"github.com/hscells/quarry/dataset"
	"github.com/hscells/quarry/output"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	name    = "quarry"
	version = "19.Oct.2026"
	author  = "Harry Scells"
)

type args struct {
	Config      string `help:"properties or yaml configuration file" arg:"-c"`
	Data        string `help:"CSV dataset, overrides the configuration" arg:"-d"`
	Interactive bool   `help:"ask for labels on the terminal instead of revealing them" arg:"-i"`
	Format      string `help:"evaluation output format (json/csv)" arg:"-f"`
	Store       string `help:"directory to record every snapshot of the run in"`
	Metrics     string `help:"address to serve prometheus metrics on, e.g. :9090"`
	Progress    bool   `help:"show a progress bar"`
	Verbose     bool   `help:"log each step of the run" arg:"-v"`
}

func (args) Version() string {
	return version
}

func (args) Description() string {
	return fmt.Sprintf(`%s
@ %s
# %s`, name, author, version)
}

func main() {
	args := args{Format: "json"}
	arg.MustParse(&args)

	logger := log.New(os.Stderr, "", log.LstdFlags)

	c := config.Default()
	if len(args.Config) > 0 {
		var err error
		c, err = config.Load(args.Config)
		if err != nil {
			logger.Fatalln(err)
		}
	}
	if len(args.Data) > 0 {
		c.Data = args.Data
	}
	if args.Interactive {
		c.Oracle = "interactive"
	}

	f, err := os.Open(c.Data)
	if err != nil {
		logger.Fatalln(err)
	}
	examples, err := dataset.ReadCSV(f, c.LabelColumn, c.Header)
	f.Close()
	if err != nil {
		logger.Fatalln(err)
	}

	var options []func(*config.BuildOptions)
	if args.Verbose {
		options = append(options, config.WithLogger(logger))
	}
	var prompter *terminalPrompter
	if c.Oracle == "interactive" {
		prompter, err = newTerminalPrompter()
		if err != nil {
			logger.Fatalln(err)
		}
		defer prompter.Close()
		options = append(options, config.WithPrompter(prompter))
	}
	run, err := config.Build(c, examples, options...)
	if err != nil {
		logger.Fatalln(err)
	}

	var listeners []quarry.Listener
	if args.Verbose {
		listeners = append(listeners, output.NewLog(logger))
	}
	if args.Progress {
		listeners = append(listeners, output.NewProgress(c.MaxIterations, os.Stderr))
	}
	var store *output.Store
	if len(args.Store) > 0 {
		store = output.NewStore(args.Store)
		listeners = append(listeners, store)
		logger.Printf("recording run %s in %s\n", store.Run(), args.Store)
	}
	if len(args.Metrics) > 0 {
		reg := prometheus.NewRegistry()
		listeners = append(listeners, output.NewMetrics(reg))
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(args.Metrics, mux); err != nil {
				logger.Println(err)
			}
		}()
	}

	engine := quarry.New(run.Algorithm, quarry.Listeners(listeners...), quarry.Logger(logger))
	if prompter != nil {
		// The terminal swallows ^C while reading a label.
		prompter.onInterrupt = engine.Terminate
	}

	// Interrupting the run still reports what was learnt so far.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := engine.Execute(ctx); err != nil {
		if e, ok := err.(*errors.Error); ok {
			logger.Println(e.ErrorStack())
		}
		logger.Fatalln(err)
	}
	if store != nil && store.Err() != nil {
		logger.Println(store.Err())
	}

	var formatter output.EvaluationFormatter = output.JsonEvaluationFormatter
	if args.Format == "csv" {
		formatter = output.CsvEvaluationFormatter
	}
	s, err := formatter(run.Algorithm.Strategy.Evaluations())
	if err != nil {
		logger.Fatalln(err)
	}
	fmt.Println(s)
}
