package ledger

import (
	"context"
	"testing"
	"time"
)

func TestSplitScheme(t *testing.T) {
	cases := []struct {
		dsn        string
		wantDriver string
		wantRest   string
	}{
		{"sqlite::memory:", "sqlite3", ":memory:"},
		{"sqlite3:/tmp/run.db", "sqlite3", "/tmp/run.db"},
		{"postgres://user@host/db", "postgres", "postgres://user@host/db"},
		{"mysql://user@tcp(host)/db", "mysql", "user@tcp(host)/db"},
	}
	for _, c := range cases {
		driver, rest, err := splitScheme(c.dsn)
		if err != nil {
			t.Fatalf("splitScheme(%q): %v", c.dsn, err)
		}
		if driver != c.wantDriver || rest != c.wantRest {
			t.Errorf("splitScheme(%q) = (%q, %q), want (%q, %q)", c.dsn, driver, rest, c.wantDriver, c.wantRest)
		}
	}
}

func TestSplitSchemeRejectsUnknown(t *testing.T) {
	if _, _, err := splitScheme("mongo://host/db"); err == nil {
		t.Fatal("expected error for unsupported scheme")
	}
}

func TestRunLifecycle(t *testing.T) {
	l, err := Open("sqlite::memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer l.Close()

	ctx := context.Background()
	runID, err := l.StartRun(ctx)
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}

	if err := l.RecordMethod(ctx, runID, "Lcom/example/Foo;", "bar", "()V", StatusOK, 0, 1, 2*time.Millisecond); err != nil {
		t.Fatalf("RecordMethod: %v", err)
	}

	if err := l.FinishRun(ctx, runID, 1, 1); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	summary, err := l.Lookup(ctx, runID)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if summary.TotalClasses != 1 || summary.TotalMethods != 1 {
		t.Errorf("summary = %+v, want TotalClasses=1 TotalMethods=1", summary)
	}
}
