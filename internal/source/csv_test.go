package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leadlens-io/leadlens/internal/testutil"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "responses.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCSVSource_Fetch(t *testing.T) {
	path := writeCSV(t, `Timestamp,Your Name,Doors Knocked
1/15/2026 09:30:00,Jane Doe,40
1/16/2026 10:00:00,John Smith,25
`)

	src, err := New(Config{Type: "csv", Path: path}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tbl, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tbl.Headers) != 3 || tbl.Headers[1] != "Your Name" {
		t.Errorf("unexpected headers: %v", tbl.Headers)
	}
	if len(tbl.Rows) != 2 {
		t.Errorf("expected 2 rows, got %d", len(tbl.Rows))
	}
}

func TestCSVSource_RaggedRows(t *testing.T) {
	path := writeCSV(t, "A,B,C\n1,2\n1,2,3,4\n")

	src, err := New(Config{Type: "csv", Path: path}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tbl, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("ragged rows should not fail: %v", err)
	}
	if len(tbl.Rows) != 2 {
		t.Errorf("expected 2 rows, got %d", len(tbl.Rows))
	}
}

func TestCSVSource_Errors(t *testing.T) {
	t.Run("missing path config", func(t *testing.T) {
		if _, err := New(Config{Type: "csv"}, nil); err == nil {
			t.Error("expected error for missing path")
		}
	})

	t.Run("file not found", func(t *testing.T) {
		src, err := New(Config{Type: "csv", Path: filepath.Join(t.TempDir(), "missing.csv")}, nil)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := src.Fetch(context.Background()); err == nil || !strings.Contains(err.Error(), "not found") {
			t.Errorf("expected not-found error, got %v", err)
		}
	})

	t.Run("empty file", func(t *testing.T) {
		src, err := New(Config{Type: "csv", Path: writeCSV(t, "")}, nil)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := src.Fetch(context.Background()); err == nil || !strings.Contains(err.Error(), "no data") {
			t.Errorf("expected no-data error, got %v", err)
		}
	})
}

func TestNew_UnknownType(t *testing.T) {
	_, err := New(Config{Type: "bigquery"}, nil)
	var use *UnknownSourceError
	if !errors.As(err, &use) {
		t.Fatalf("expected UnknownSourceError, got %v", err)
	}
	if len(use.Available) == 0 {
		t.Error("expected available source types in error")
	}
}

func TestNew_EmptyType(t *testing.T) {
	if _, err := New(Config{}, nil); err == nil {
		t.Error("expected error for empty source type")
	}
}

func TestList(t *testing.T) {
	names := List()
	want := map[string]bool{"csv": false, "sheets": false}
	for _, n := range names {
		if _, ok := want[n]; ok {
			want[n] = true
		}
	}
	for n, seen := range want {
		if !seen {
			t.Errorf("expected %q in registered sources, got %v", n, names)
		}
	}
}

// flakySource fails a fixed number of times before succeeding.
type flakySource struct {
	failures int
	calls    int
}

func (f *flakySource) Type() string { return "flaky" }

func (f *flakySource) Fetch(_ context.Context) (*Table, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, fmt.Errorf("transient failure %d", f.calls)
	}
	return &Table{Headers: []string{"A"}, Rows: [][]string{{"1"}}}, nil
}

func TestFetchWithRetry(t *testing.T) {
	t.Run("recovers from transient failures", func(t *testing.T) {
		src := &flakySource{failures: 2}
		tbl, err := FetchWithRetry(context.Background(), src, 2, testutil.NewTestLogger(t))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if src.calls != 3 {
			t.Errorf("expected 3 attempts, got %d", src.calls)
		}
		if len(tbl.Rows) != 1 {
			t.Errorf("unexpected table: %+v", tbl)
		}
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		src := &flakySource{failures: 10}
		_, err := FetchWithRetry(context.Background(), src, 1, nil)
		if err == nil {
			t.Fatal("expected error after exhausting retries")
		}
		if src.calls != 2 {
			t.Errorf("expected 2 attempts, got %d", src.calls)
		}
	})
}
