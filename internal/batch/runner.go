// Package batch resolves many references against one symbol table. The
// table and resolver are immutable, so references fan out across a fixed
// worker pool and individual failures never stop the run.
package batch

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"

	"declref/internal/logging"
	"declref/internal/model"
	"declref/internal/reference"
	"declref/internal/report"
	"declref/internal/resolver"
)

// DefaultWorkers is the worker pool size used when none is configured.
const DefaultWorkers = 4

// Runner resolves batches of textual references.
type Runner struct {
	table    *model.SymbolTable
	resolver *resolver.Resolver
	logger   *logging.Logger
	workers  int
}

// NewRunner creates a batch runner over the given table.
func NewRunner(table *model.SymbolTable, logger *logging.Logger, workers int) *Runner {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Runner{
		table:    table,
		resolver: resolver.New(table),
		logger:   logger,
		workers:  workers,
	}
}

// outcome pairs a result with its input position so the report keeps
// input order regardless of worker scheduling.
type outcome struct {
	index int
	text  string
	done  bool
	node  model.NodeID
	fail  *resolver.Failure
	err   error
}

// Run resolves every reference and returns the full report. Results
// appear in input order; a failing reference is recorded and the run
// continues.
func (r *Runner) Run(ctx context.Context, workingPackage string, refs []string) *report.Report {
	outcomes := make([]outcome, len(refs))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = r.resolveOne(i, workingPackage, refs[i])
			}
		}()
	}

dispatch:
	for i := range refs {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	rep := report.New(workingPackage)
	graph := r.table.Graph()
	for _, o := range outcomes {
		switch {
		case !o.done:
			// Skipped by cancellation.
		case o.err != nil:
			rep.AddInvalid(o.text, o.err)
		case o.fail != nil:
			rep.AddFailed(o.text, o.fail)
		default:
			rep.AddResolved(o.text, graph.Path(o.node), graph.Kind(o.node))
		}
	}

	r.logger.Info("Batch resolution finished", map[string]interface{}{
		"package":  workingPackage,
		"total":    rep.Total,
		"resolved": rep.Resolved,
		"failed":   rep.Failed,
	})
	return rep
}

func (r *Runner) resolveOne(index int, workingPackage, text string) outcome {
	o := outcome{index: index, text: text, done: true, node: model.InvalidNode}

	ref, err := reference.Parse(text)
	if err != nil {
		o.err = err
		return o
	}

	o.node, o.fail = r.resolver.Resolve(ref, workingPackage)
	if o.fail != nil {
		r.logger.Debug("Reference did not resolve", map[string]interface{}{
			"reference": text,
			"code":      string(o.fail.Code),
		})
	}
	return o
}

// ReadReferences reads one reference per line, skipping blank lines and
// '#'-prefixed comments. This is the format of the files `declref batch`
// consumes.
func ReadReferences(r io.Reader) ([]string, error) {
	var refs []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		refs = append(refs, line)
	}
	return refs, scanner.Err()
}
