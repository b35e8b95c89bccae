// Command spscbench runs the SPSC queue benchmark suite and prints a
// results table.
//
// Usage:
//
//	go run ./cmd/spscbench -items 1000000 -repeats 20
//	go run ./cmd/spscbench -queue spin -scenario standard
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"go.uber.org/zap"

	"github.com/huwzpf/spsc-queue/internal/bench"
	"github.com/huwzpf/spsc-queue/internal/cancel"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)

		os.Exit(1)
	}
}

func run() error {
	items := flag.Int("items", bench.DefaultItems, "items transferred per benchmark pass")
	repeats := flag.Int("repeats", bench.DefaultRepeats, "passes per (queue, scenario) case")
	queueFilter := flag.String("queue", "", "run only the named queue variant (mutex, counter, spin, wait, channel)")
	scenarioFilter := flag.String("scenario", "", "run only the named scenario (standard, big-payload, producer-heavy, consumer-heavy)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	logger, err := newLogger(*debug)
	if err != nil {
		return fmt.Errorf("error creating logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	variants, err := selectVariants(*queueFilter)
	if err != nil {
		return err
	}

	scenarios, err := selectScenarios(*scenarioFilter)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := &bench.Runner{
		Items:     *items,
		Repeats:   *repeats,
		Variants:  variants,
		Scenarios: scenarios,
		Logger:    logger,
		Canceler:  cancel.NewContext(ctx),
	}

	logger.Info("starting benchmark",
		zap.Int("items", *items),
		zap.Int("repeats", *repeats),
		zap.Int("queues", len(variants)),
		zap.Int("scenarios", len(scenarios)))

	aggs, runErr := runner.Run()

	if len(aggs) > 0 {
		bench.PrintTable(os.Stdout, aggs)
	}

	if errors.Is(runErr, bench.ErrCanceled) {
		logger.Warn("benchmark canceled; the table covers completed cases only")

		return nil
	}

	return runErr
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}

	return zap.NewProduction()
}

func selectVariants(name string) ([]bench.Variant, error) {
	all := bench.Variants()
	if name == "" {
		return all, nil
	}

	names := make([]string, 0, len(all))

	for _, v := range all {
		if v.Name == name {
			return []bench.Variant{v}, nil
		}

		names = append(names, v.Name)
	}

	return nil, fmt.Errorf("unknown queue %q (have: %s)", name, strings.Join(names, ", "))
}

func selectScenarios(name string) ([]bench.Scenario, error) {
	all := bench.StandardScenarios()
	if name == "" {
		return all, nil
	}

	var out []bench.Scenario

	seen := make(map[string]struct{})

	for _, sc := range all {
		seen[sc.Name] = struct{}{}

		if sc.Name == name {
			out = append(out, sc)
		}
	}

	if len(out) == 0 {
		names := make([]string, 0, len(seen))
		for n := range seen {
			names = append(names, n)
		}

		return nil, fmt.Errorf("unknown scenario %q (have: %s)", name, strings.Join(names, ", "))
	}

	return out, nil
}
