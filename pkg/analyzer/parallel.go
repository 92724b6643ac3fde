package analyzer

import (
	"context"
	"runtime"

	"github.com/panbanda/classmeta/pkg/parser"
	"github.com/panbanda/classmeta/pkg/source"
	"github.com/sourcegraph/conc/pool"
)

// FileResult is the outcome of processing one file.
type FileResult[T any] struct {
	Path  string
	Value T
	Err   error
}

// MapSources reads each file from src and calls fn with a dedicated parser.
// Results are returned in the order of files, whatever order the workers
// finish in. A read failure or a cancelled context is recorded in Err without
// calling fn. The tracker carried by ctx, if any, is told about every finished file.
// If maxWorkers is <= 0, defaults to 2x NumCPU (mixed I/O and CGO workload).
func MapSources[T any](
	ctx context.Context,
	files []string,
	src source.ContentSource,
	maxWorkers int,
	fn func(psr *parser.Parser, path string, content []byte) (T, error),
) []FileResult[T] {
	if len(files) == 0 {
		return nil
	}

	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU() * 2
	}

	tracker := TrackerFromContext(ctx)
	if tracker != nil {
		tracker.Add(len(files))
	}

	// Each task writes only its own slot.
	results := make([]FileResult[T], len(files))

	p := pool.New().WithMaxGoroutines(maxWorkers)
	for i, path := range files {
		p.Go(func() {
			results[i] = processFile(ctx, path, src, fn)
			if tracker != nil {
				tracker.Finish(path, results[i].Err)
			}
		})
	}
	p.Wait()

	return results
}

func processFile[T any](
	ctx context.Context,
	path string,
	src source.ContentSource,
	fn func(*parser.Parser, string, []byte) (T, error),
) FileResult[T] {
	res := FileResult[T]{Path: path}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	content, err := src.Read(path)
	if err != nil {
		res.Err = err
		return res
	}

	psr := parser.New()
	defer psr.Close()

	res.Value, res.Err = fn(psr, path, content)
	return res
}
