package scanner

import (
	"context"
	"os"
	"runtime"
	"sort"
	"sync"

	"github.com/imyousuf/srcmetrics/internal/metrics"
)

// Scanner measures collected files across a bounded worker pool.
type Scanner struct {
	// Workers bounds the pool size; <=0 means GOMAXPROCS.
	Workers int
	// Logf receives diagnostics for skipped files. Nil silences them.
	Logf func(format string, args ...any)
}

func (s *Scanner) logf(format string, args ...any) {
	if s.Logf != nil {
		s.Logf(format, args...)
	}
}

// Measure reads and measures every file in the collection. Files that cannot
// be read are logged and skipped; the remaining results are returned sorted
// by path so output is stable regardless of worker interleaving.
func (s *Scanner) Measure(ctx context.Context, col *Collection) ([]metrics.FileResult, error) {
	if col.Total() == 0 {
		return nil, nil
	}

	workers := s.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > col.Total() {
		workers = col.Total()
	}

	jobs := make(chan File)
	out := make(chan metrics.FileResult)

	go func() {
		defer close(jobs)
		for _, f := range col.Files {
			select {
			case jobs <- f:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for f := range jobs {
				src, err := os.ReadFile(f.Path)
				if err != nil {
					s.logf("skipping %s: %v", f.Path, err)
					continue
				}
				rec := metrics.MeasureSource(string(src), f.Profile)
				select {
				case out <- metrics.FileResult{Path: f.Path, Record: rec}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	var results []metrics.FileResult
	for res := range out {
		results = append(results, res)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	return results, nil
}
