package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/borud/broker"

	"github.com/clayne/papyrus-parser/pkg/batch"
	"github.com/clayne/papyrus-parser/pkg/config"
	"github.com/clayne/papyrus-parser/pkg/conformance"
	"github.com/clayne/papyrus-parser/pkg/events"
	"github.com/clayne/papyrus-parser/pkg/parser"
	"github.com/clayne/papyrus-parser/pkg/scriptloader"
)

const version = "0.1.0-alpha"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := flag.NewFlagSet("papyrus-parse", flag.ExitOnError)
	verbose := flags.Bool("v", false, "verbose output")
	profile := flags.String("profile", "", "named parser.Options profile")
	configPath := flags.String("config", "", "YAML file of named parser.Options profiles")
	searchDir := flags.String("I", "", "additional script search directory for Import resolution")
	conformancePath := flags.String("conformance", "", "run a YAML conformance fixture instead of parsing files")
	showVersion := flags.Bool("version", false, "show version")

	if err := flags.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "error parsing flags: %v\n", err)
		return 1
	}

	if *showVersion {
		fmt.Printf("papyrus-parse version %s\n", version)
		return 0
	}

	logLevel := slog.LevelWarn
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	if *conformancePath != "" {
		return runConformance(*conformancePath, logger)
	}

	if flags.NArg() == 0 {
		printUsage()
		return 1
	}

	opts := parser.DefaultOptions()
	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
			return 1
		}
		p, err := cfg.Profile(*profile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error resolving profile: %v\n", err)
			return 1
		}
		opts = p.ToOptions()
	}

	paths := flags.Args()

	if *searchDir != "" {
		return runWithImports(paths, *searchDir, opts)
	}

	return runBatch(paths, opts, logger, *verbose)
}

// runBatch parses paths concurrently via pkg/batch (in verbose mode,
// printing progress events as they're published), then prints each
// script's AST once the whole batch has finished, and a final summary.
func runBatch(paths []string, opts parser.Options, logger *slog.Logger, verbose bool) int {
	b := broker.New(broker.Config{
		DownStreamChanLen:  16,
		PublishChanLen:     16,
		SubscribeChanLen:   16,
		UnsubscribeChanLen: 16,
		DeliveryTimeout:    time.Second,
	})

	if verbose {
		sub, err := b.Subscribe(batch.Topic)
		if err == nil {
			go func() {
				for msg := range sub.Messages() {
					watchProgress(msg.Payload)
				}
			}()
		}
	}

	runner := batch.New(b, logger, opts, 0)
	summary := runner.Run(paths)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	for _, res := range summary.Results {
		if res.Err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", res.Path, res.Err)
			continue
		}
		if err := enc.Encode(res.Program); err != nil {
			fmt.Fprintf(os.Stderr, "%s: encoding AST: %v\n", res.Path, err)
		}
	}

	fmt.Fprintf(os.Stderr, "%d parsed, %d failed (of %d)\n", summary.Parsed, summary.Failed, len(paths))
	if summary.Failed > 0 {
		return 1
	}
	return 0
}

func watchProgress(payload interface{}) {
	switch ev := payload.(type) {
	case events.EventScriptParsed:
		fmt.Fprintf(os.Stderr, "parsed %s (%s, %d nodes)\n", ev.Path, ev.Name, ev.Nodes)
	case events.EventScriptFailed:
		fmt.Fprintf(os.Stderr, "failed %s: %v\n", ev.Path, ev.Error)
	case events.EventBatchComplete:
		fmt.Fprintf(os.Stderr, "batch complete: %d/%d parsed\n", ev.Parsed, ev.Total)
	}
}

// runWithImports takes exactly one entry script and follows its Import
// graph using dir as an additional search directory, printing every
// transitively reached script's AST.
func runWithImports(paths []string, dir string, opts parser.Options) int {
	if len(paths) != 1 {
		fmt.Fprintln(os.Stderr, "-I requires exactly one entry script")
		return 1
	}

	loader := scriptloader.New([]string{dir, filepath.Dir(paths[0])})
	deps, err := loader.WalkImports(paths[0], opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error walking imports: %v\n", err)
		return 1
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	for _, dep := range deps {
		if err := enc.Encode(dep.Program); err != nil {
			fmt.Fprintf(os.Stderr, "%s: encoding AST: %v\n", dep.Path, err)
		}
	}
	return 0
}

// runConformance loads and checks a YAML conformance fixture file,
// printing a pass/fail line per scenario.
func runConformance(path string, logger *slog.Logger) int {
	scenarios, err := conformance.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading conformance fixtures: %v\n", err)
		return 1
	}

	failures := 0
	for _, s := range scenarios {
		result := conformance.Check(s)
		if result.Passed {
			fmt.Printf("PASS %s\n", result.Name)
			continue
		}
		failures++
		fmt.Printf("FAIL %s\n", result.Name)
		for _, e := range result.Errors {
			fmt.Printf("  %s\n", e)
		}
	}

	logger.Debug("conformance run complete", "total", len(scenarios), "failed", failures)
	if failures > 0 {
		return 1
	}
	return 0
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `papyrus-parse - Papyrus script parser

Usage:
  papyrus-parse [options] <script.psc>...

Options:
  -v                  Verbose progress output
  -profile NAME        Named parser.Options profile from -config
  -config FILE          YAML file of named parser.Options profiles
  -I DIR               Additional search directory; follows Import statements from a single entry script
  -conformance FILE      Run a YAML conformance fixture and exit
  -version             Show version information

Examples:
  papyrus-parse script.psc
  papyrus-parse -v -config profiles.yaml -profile strict *.psc
  papyrus-parse -conformance testdata/conformance.yaml
`)
}
