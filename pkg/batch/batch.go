// Package batch parses many Papyrus scripts concurrently and publishes
// pkg/events progress notifications to a broker topic, mirroring the
// teacher's pkg/vcl.Loader: a small struct wrapping a *broker.Broker and
// a *slog.Logger that publishes lifecycle events for something callers
// may want to observe as it happens rather than only once it's done.
package batch

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/borud/broker"

	"github.com/clayne/papyrus-parser/pkg/ast"
	"github.com/clayne/papyrus-parser/pkg/events"
	"github.com/clayne/papyrus-parser/pkg/parser"
)

// Topic is the broker topic batch progress events are published to.
const Topic = "/parse"

const publishTimeout = 1 * time.Second

// Result is one file's outcome within a Run.
type Result struct {
	Path    string
	Program *ast.Program
	Err     error
}

// Summary aggregates a Run's results.
type Summary struct {
	Results []Result
	Parsed  int
	Failed  int
}

// Batch parses a set of script paths against a fixed parser.Options,
// publishing progress to Topic as each file completes.
type Batch struct {
	broker  *broker.Broker
	logger  *slog.Logger
	options parser.Options

	// concurrency bounds the number of files parsed in parallel. A parse
	// is a pure function of its inputs (spec §5), so running many at
	// once needs no synchronization beyond collecting results.
	concurrency int
}

// New creates a Batch that publishes events to b using logger for its
// own diagnostics (never for parser output; the core stays silent, per
// spec §5). concurrency <= 0 defaults to a modest fixed worker count.
func New(b *broker.Broker, logger *slog.Logger, options parser.Options, concurrency int) *Batch {
	if concurrency <= 0 {
		concurrency = 8
	}
	return &Batch{broker: b, logger: logger, options: options, concurrency: concurrency}
}

// Run parses every path in paths, publishing an EventScriptParsed or
// EventScriptFailed for each as it completes and a final
// EventBatchComplete once all have been attempted.
func (b *Batch) Run(paths []string) Summary {
	jobs := make(chan string)
	results := make(chan Result)

	var wg sync.WaitGroup
	for i := 0; i < b.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				results <- b.parseOne(path)
			}
		}()
	}

	go func() {
		for _, p := range paths {
			jobs <- p
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	summary := Summary{}
	for res := range results {
		summary.Results = append(summary.Results, res)
		if res.Err != nil {
			summary.Failed++
		} else {
			summary.Parsed++
		}
	}

	if err := b.broker.Publish(Topic, events.EventBatchComplete{
		Total:  len(paths),
		Parsed: summary.Parsed,
		Failed: summary.Failed,
	}, publishTimeout); err != nil {
		b.logger.Warn("failed to publish batch completion", "error", err)
	}

	return summary
}

func (b *Batch) parseOne(path string) Result {
	content, err := os.ReadFile(path)
	if err != nil {
		b.publishFailed(path, err)
		return Result{Path: path, Err: err}
	}

	program, err := parser.ParseWithOptions(string(content), filepath.Base(path), b.options)
	if err != nil {
		b.publishFailed(path, err)
		return Result{Path: path, Err: err}
	}

	name := scriptName(program)
	b.logger.Debug("parsed script", "path", path, "name", name)
	if err := b.broker.Publish(Topic, events.EventScriptParsed{
		Path:  path,
		Name:  name,
		Nodes: len(program.Body),
	}, publishTimeout); err != nil {
		b.logger.Warn("failed to publish script-parsed event", "path", path, "error", err)
	}

	return Result{Path: path, Program: program}
}

func (b *Batch) publishFailed(path string, err error) {
	b.logger.Error("failed to parse script", "path", path, "error", err)
	if pubErr := b.broker.Publish(Topic, events.EventScriptFailed{Path: path, Error: err}, publishTimeout); pubErr != nil {
		b.logger.Warn("failed to publish script-failed event", "path", path, "error", pubErr)
	}
}

// scriptName returns the identifier the parsed program's ScriptName
// statement declares, or "" if the program has none (an empty script or
// one holding only Import statements parses without one, as does any
// script when ThrowScriptnameMissing is disabled in b.options).
func scriptName(program *ast.Program) string {
	for _, node := range program.Body {
		if sn, ok := node.(*ast.ScriptNameStatement); ok {
			return sn.ID.Name
		}
	}
	return ""
}
