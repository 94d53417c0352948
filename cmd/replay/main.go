package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"slices"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tailored-agentic-units/observable/binding"
	"github.com/tailored-agentic-units/observable/change"
	"github.com/tailored-agentic-units/observable/config"
	"github.com/tailored-agentic-units/observable/metrics"
	"github.com/tailored-agentic-units/observable/observability"
	"github.com/tailored-agentic-units/observable/observable"
)

func main() {
	var (
		scriptFile  = flag.String("script", "", "Path to operations YAML file (required)")
		configFile  = flag.String("config", "", "Path to config YAML or JSON file")
		targets     = flag.Int("targets", 1, "Number of slice targets bound to the source")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging to stderr")
		showMetrics = flag.Bool("metrics", false, "Print collected metrics after the run")
	)
	flag.Parse()

	if err := validateFlags(*scriptFile, *targets); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, "Usage: replay -script <file> [-targets N]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	observability.RegisterObserver("slog", observability.NewSlogObserver(logger))

	cfg := config.DefaultConfig()
	if *configFile != "" {
		loaded, err := config.Load(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = *loaded
	}

	script, err := loadScript(*scriptFile)
	if err != nil {
		log.Fatalf("Failed to load script: %v", err)
	}

	collector := metrics.NewCollector()
	registry := prometheus.NewRegistry()
	registry.MustRegister(collector)

	collectionObs := withCollector(cfg.Collection.Observer, collector)
	bindingObs := withCollector(cfg.Binding.Observer, collector)

	list := observable.NewListFrom(script.Seed,
		observable.FromConfig(cfg.Collection),
		observable.WithObserver(collectionObs),
	)
	engine := binding.New[string](
		binding.FromConfig(cfg.Binding),
		binding.WithObserver(bindingObs),
	)

	slots := make([][]string, *targets)
	sinks := make([]*binding.SliceTarget[string], *targets)
	for i := range slots {
		slots[i] = slices.Clone(script.Seed)
		sinks[i] = binding.NewSliceTarget(&slots[i])
		if _, err := engine.Bind(list, sinks[i]); err != nil {
			log.Fatalf("Failed to bind target %d: %v", i, err)
		}
	}

	list.Subscribe(observable.HandlerFunc[string](func(_ observable.Observable[string], ev change.Event[string]) error {
		fmt.Printf("  event: %v\n", ev)
		return nil
	}))

	for i, op := range script.Ops {
		fmt.Printf("[%d] %v\n", i+1, op)
		if err := op.Apply(list); err != nil {
			fmt.Printf("  error: %v\n", err)
		}
	}

	fmt.Printf("\nSource: %v\n", list.Items())
	for i, id := range binding.TargetIDs(engine.Targets(list)) {
		state := "in sync"
		if !slices.Equal(list.Items(), sinks[i].Items()) {
			state = "diverged"
		}
		fmt.Printf("Target %s: %v (%s)\n", id, sinks[i].Items(), state)
	}

	if *showMetrics {
		printMetrics(registry)
	}
}

func validateFlags(scriptFile string, targets int) error {
	if scriptFile == "" {
		return errors.New("-script is required")
	}
	if targets < 0 {
		return fmt.Errorf("-targets must not be negative, got %d", targets)
	}
	return nil
}

func withCollector(name string, collector *metrics.Collector) observability.Observer {
	obs, err := observability.GetObserver(name)
	if err != nil {
		log.Fatalf("Failed to resolve observer: %v", err)
	}
	return observability.NewMultiObserver(obs, collector)
}

func printMetrics(registry *prometheus.Registry) {
	families, err := registry.Gather()
	if err != nil {
		log.Fatalf("Failed to gather metrics: %v", err)
	}

	fmt.Println("\nMetrics:")
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			value := m.GetCounter().GetValue()
			if m.GetGauge() != nil {
				value = m.GetGauge().GetValue()
			}
			labels := ""
			for _, lp := range m.GetLabel() {
				labels += fmt.Sprintf("{%s=%q}", lp.GetName(), lp.GetValue())
			}
			fmt.Printf("  %s%s %g\n", mf.GetName(), labels, value)
		}
	}
}
