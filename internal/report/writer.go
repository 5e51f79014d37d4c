// Package report serializes analysis reports to JSON and renders the console
// summaries around a scan.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/imyousuf/srcmetrics/internal/metrics"
)

// Write serializes the report as JSON to path, creating parent directories
// as needed. Paths ending in .gz are gzip-compressed.
func Write(rep *metrics.Report, path string, indent bool) error {
	if err := ensureParent(path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := encode(f, rep, path, indent); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output file: %w", err)
	}
	return nil
}

// WriteAtomic writes the report to a temp file beside path and renames it
// into place, so a concurrent reader never sees a torn report. Used by watch,
// which rewrites the same file on every refresh.
func WriteAtomic(rep *metrics.Report, path string, indent bool) error {
	if err := ensureParent(path); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := encode(tmp, rep, path, indent); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace output file: %w", err)
	}
	return nil
}

// WriteTo serializes the report to w, uncompressed.
func WriteTo(w io.Writer, rep *metrics.Report, indent bool) error {
	return encodeJSON(w, rep, indent)
}

func ensureParent(path string) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	return nil
}

func encode(w io.Writer, rep *metrics.Report, path string, indent bool) error {
	if !strings.HasSuffix(path, ".gz") {
		return encodeJSON(w, rep, indent)
	}
	gz := gzip.NewWriter(w)
	if err := encodeJSON(gz, rep, indent); err != nil {
		gz.Close()
		return err
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("close gzip stream: %w", err)
	}
	return nil
}

func encodeJSON(w io.Writer, rep *metrics.Report, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	// Make sure special characters are not escaped
	enc.SetEscapeHTML(false)
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
