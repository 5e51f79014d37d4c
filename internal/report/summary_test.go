package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/imyousuf/srcmetrics/internal/lang"
	"github.com/imyousuf/srcmetrics/internal/scanner"
)

func TestPrintCollection(t *testing.T) {
	col := &scanner.Collection{
		Files: []scanner.File{
			{Path: "a.py"}, {Path: "b.py"}, {Path: "c.c"},
		},
		Counts: map[lang.Language]int{
			lang.Python: 2,
			lang.C:      1,
		},
	}

	var buf bytes.Buffer
	PrintCollection(&buf, col)
	out := buf.String()

	if !strings.Contains(out, "Found 3 source files:") {
		t.Errorf("missing total line:\n%s", out)
	}
	if !strings.Contains(out, "c: 1 files") {
		t.Errorf("missing c count:\n%s", out)
	}
	if !strings.Contains(out, "python: 2 files") {
		t.Errorf("missing python count:\n%s", out)
	}
	// Languages with no files are omitted.
	if strings.Contains(out, "java") || strings.Contains(out, "tsjs") {
		t.Errorf("languages with zero files should be omitted:\n%s", out)
	}
	// Canonical tag order: c before python.
	if strings.Index(out, "c: 1 files") > strings.Index(out, "python: 2 files") {
		t.Errorf("languages out of canonical order:\n%s", out)
	}
}

func TestPrintCollectionEmpty(t *testing.T) {
	var buf bytes.Buffer
	PrintCollection(&buf, &scanner.Collection{Counts: map[lang.Language]int{}})
	out := buf.String()

	if !strings.Contains(out, "Found 0 source files:") {
		t.Errorf("missing total line:\n%s", out)
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("expected a single line for an empty collection:\n%q", out)
	}
}

func TestPrintCompletion(t *testing.T) {
	var buf bytes.Buffer
	PrintCompletion(&buf, "out/report.json")
	out := buf.String()

	if !strings.Contains(out, "Analysis complete. Results saved to out/report.json") {
		t.Errorf("unexpected completion line:\n%s", out)
	}
	if !strings.HasPrefix(out, "\n") {
		t.Errorf("completion line should be preceded by a blank line:\n%q", out)
	}
}
