package history

import (
	"bytes"
	"testing"

	"declref/internal/logging"
	"declref/internal/model"
	"declref/internal/report"
	"declref/internal/resolver"
)

func testLogger() *logging.Logger {
	return logging.NewLogger(logging.Config{
		Format: logging.HumanFormat,
		Level:  logging.ErrorLevel,
		Output: &bytes.Buffer{},
	})
}

func sampleReport() *report.Report {
	rep := report.New("widgets")
	rep.AddResolved("Button.onClick", "Button.onClick", model.KindFunction)
	rep.AddFailed("Missing", &resolver.Failure{
		Code:   resolver.UnknownExport,
		Reason: `no export named "Missing"`,
	})
	rep.AddFailed("Other", &resolver.Failure{
		Code:   resolver.UnknownExport,
		Reason: `no export named "Other"`,
	})
	return rep
}

func TestStore_RecordAndQuery(t *testing.T) {
	store, err := Open(t.TempDir(), testLogger())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer func() { _ = store.Close() }()

	rep := sampleReport()
	if err := store.RecordRun(rep); err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}

	runs, err := store.Runs(10)
	if err != nil {
		t.Fatalf("Runs failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("Runs returned %d entries, want 1", len(runs))
	}
	got := runs[0]
	if got.RunID != rep.RunID || got.Package != "widgets" {
		t.Errorf("run = %+v", got)
	}
	if got.Total != 3 || got.Resolved != 1 || got.Failed != 2 {
		t.Errorf("counts = %d/%d/%d, want 3/1/2", got.Total, got.Resolved, got.Failed)
	}

	counts, err := store.FailureCounts()
	if err != nil {
		t.Fatalf("FailureCounts failed: %v", err)
	}
	if counts[string(resolver.UnknownExport)] != 2 {
		t.Errorf("FailureCounts = %v", counts)
	}
}

func TestStore_DuplicateRunRejected(t *testing.T) {
	store, err := Open(t.TempDir(), testLogger())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer func() { _ = store.Close() }()

	rep := sampleReport()
	if err := store.RecordRun(rep); err != nil {
		t.Fatalf("first RecordRun failed: %v", err)
	}
	if err := store.RecordRun(rep); err == nil {
		t.Error("recording the same run twice succeeded")
	}
}

func TestStore_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()

	store, err := Open(dir, testLogger())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := store.RecordRun(sampleReport()); err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := Open(dir, testLogger())
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	runs, err := reopened.Runs(0)
	if err != nil {
		t.Fatalf("Runs failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("Runs after reopen returned %d entries, want 1", len(runs))
	}
}
