// Package report collects the outcome of a resolution run and renders it
// as JSON, YAML, or human-readable text.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"declref/internal/model"
	"declref/internal/resolver"
)

// InvalidReferenceCode marks inputs that never reached the resolver
// because their textual form did not parse.
const InvalidReferenceCode = "INVALID_REFERENCE"

// Status is the per-reference outcome.
type Status string

const (
	StatusResolved Status = "resolved"
	StatusFailed   Status = "failed"
)

// Result is the outcome for a single reference, in input order.
type Result struct {
	Reference string                `json:"reference" yaml:"reference"`
	Status    Status                `json:"status" yaml:"status"`
	Path      string                `json:"path,omitempty" yaml:"path,omitempty"`
	Kind      model.DeclarationKind `json:"kind,omitempty" yaml:"kind,omitempty"`
	Failure   *resolver.Failure     `json:"failure,omitempty" yaml:"failure,omitempty"`
}

// Report is the outcome of one resolution run.
type Report struct {
	RunID       string    `json:"runId" yaml:"runId"`
	Package     string    `json:"package" yaml:"package"`
	GeneratedAt time.Time `json:"generatedAt" yaml:"generatedAt"`
	Total       int       `json:"total" yaml:"total"`
	Resolved    int       `json:"resolved" yaml:"resolved"`
	Failed      int       `json:"failed" yaml:"failed"`
	Results     []Result  `json:"results" yaml:"results"`
}

// New creates an empty report for the given package.
func New(pkg string) *Report {
	return &Report{
		RunID:       uuid.New().String(),
		Package:     pkg,
		GeneratedAt: time.Now().UTC(),
	}
}

// AddResolved records a successfully resolved reference.
func (r *Report) AddResolved(reference, path string, kind model.DeclarationKind) {
	r.Results = append(r.Results, Result{
		Reference: reference,
		Status:    StatusResolved,
		Path:      path,
		Kind:      kind,
	})
	r.Total++
	r.Resolved++
}

// AddFailed records a reference that did not resolve.
func (r *Report) AddFailed(reference string, failure *resolver.Failure) {
	r.Results = append(r.Results, Result{
		Reference: reference,
		Status:    StatusFailed,
		Failure:   failure,
	})
	r.Total++
	r.Failed++
}

// AddInvalid records an input that did not parse as a reference.
func (r *Report) AddInvalid(reference string, err error) {
	r.AddFailed(reference, &resolver.Failure{
		Code:   InvalidReferenceCode,
		Reason: err.Error(),
	})
}

// FailuresByCode counts failed results per failure code.
func (r *Report) FailuresByCode() map[resolver.FailureCode]int {
	counts := make(map[resolver.FailureCode]int)
	for _, result := range r.Results {
		if result.Failure != nil {
			counts[result.Failure.Code]++
		}
	}
	return counts
}

// WriteJSON renders the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteYAML renders the report as YAML.
func (r *Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()
	return enc.Encode(r)
}

// WriteHuman renders the report as human-readable text, one line per
// reference plus a summary.
func (r *Report) WriteHuman(w io.Writer) error {
	for _, result := range r.Results {
		var err error
		if result.Status == StatusResolved {
			_, err = fmt.Fprintf(w, "ok    %s -> %s (%s)\n", result.Reference, result.Path, result.Kind)
		} else {
			_, err = fmt.Fprintf(w, "fail  %s: [%s] %s\n", result.Reference, result.Failure.Code, result.Failure.Reason)
		}
		if err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\n%d references: %d resolved, %d failed\n", r.Total, r.Resolved, r.Failed)
	return err
}

// Write renders the report in the named format: json, yaml, or human.
func (r *Report) Write(w io.Writer, format string) error {
	switch format {
	case "json":
		return r.WriteJSON(w)
	case "yaml":
		return r.WriteYAML(w)
	case "human":
		return r.WriteHuman(w)
	default:
		return fmt.Errorf("unknown output format %q (expected json, yaml, or human)", format)
	}
}
