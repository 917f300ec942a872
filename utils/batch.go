package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	sm "github.com/setanarut/spritematte"
)

// PreviewSuffix is appended to the base name of preview outputs. Inputs
// whose base name contains it are skipped by ProcessDir.
const PreviewSuffix = "_preview"

// BatchOptions configures ProcessDir.
type BatchOptions struct {
	// Workers is the number of images processed concurrently. 0 means
	// GOMAXPROCS.
	Workers int
	// Extensions lists the file extensions picked up, lower case with the
	// dot. Empty means only ".png".
	Extensions []string
	// Recursive descends into subdirectories.
	Recursive bool
	// Preview writes name_preview.png next to each input instead of
	// overwriting it.
	Preview bool
	// OutDir, if set, receives the outputs under the same relative paths.
	OutDir string
	// Overwrite reprocesses images whose separate output already exists.
	Overwrite bool
	// Logger receives progress lines. nil discards them.
	Logger *log.Logger
}

// Result is the outcome for a single file.
type Result struct {
	Path        string
	Out         string
	Skipped     bool
	Err         error
	Report      *sm.Report
	Transparent float64
	Duration    time.Duration
}

// Summary aggregates a ProcessDir run.
type Summary struct {
	Processed int
	Skipped   int
	Failed    int
	// Errors holds one entry per failed file.
	Errors []error
	// Applied counts successful images per strategy.
	Applied map[sm.Mode]int
	// Mean and standard deviation of the transparent pixel share of the
	// processed images.
	MeanTransparent float64
	StdTransparent  float64
	MeanDuration    time.Duration
}

func (s Summary) String() string {
	return fmt.Sprintf("processed %d, skipped %d, failed %d", s.Processed, s.Skipped, s.Failed)
}

func (o BatchOptions) wanted(path string) bool {
	exts := o.Extensions
	if len(exts) == 0 {
		exts = []string{".png"}
	}
	if strings.Contains(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), PreviewSuffix) {
		return false
	}
	return slices.Contains(exts, strings.ToLower(filepath.Ext(path)))
}

// OutPath returns where the result for path, found below dir, goes. Outputs
// are PNG, except that a WebP input processed in place stays WebP. Any
// other in-place input gets a .png sibling, so its own bytes are never
// overwritten with another format.
func (o BatchOptions) OutPath(dir, path string) string {
	ext := filepath.Ext(path)
	if o.Preview {
		return strings.TrimSuffix(path, ext) + PreviewSuffix + ".png"
	}
	if o.OutDir != "" {
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			rel = filepath.Base(path)
		}
		return filepath.Join(o.OutDir, strings.TrimSuffix(rel, filepath.Ext(rel))+".png")
	}
	switch strings.ToLower(ext) {
	case ".png", ".webp":
		return path
	}
	return strings.TrimSuffix(path, ext) + ".png"
}

// walk sends every wanted file below dir to paths, closing it when done.
func walk(ctx context.Context, dir string, opts BatchOptions, paths chan<- string) error {
	defer close(paths)
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && !opts.Recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if !opts.wanted(path) {
			return nil
		}
		select {
		case paths <- path:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}

// ProcessFile removes the background of the image at in and writes the
// result to out as PNG.
func ProcessFile(ctx context.Context, r *sm.Remover, in, out string) (Result, error) {
	res := Result{Path: in, Out: out}
	start := time.Now()
	img, err := ReadMatte(in)
	if err != nil {
		return res, err
	}
	matte, report, err := r.Remove(ctx, img)
	res.Report = report
	if err != nil {
		return res, err
	}
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return res, err
	}
	if err := SaveMatte(matte, out); err != nil {
		return res, err
	}
	res.Transparent = matte.TransparentFraction()
	res.Duration = time.Since(start)
	return res, nil
}

// ProcessDir runs r over every matching image in dir using a pool of
// workers. A failing image is recorded in the Summary and never stops the
// sweep. Separate outputs that already exist are skipped unless
// opts.Overwrite is set. Cancelling ctx abandons the remaining files; the
// returned error is then the context error. Any other returned error comes
// from walking dir.
func ProcessDir(ctx context.Context, dir string, r *sm.Remover, opts BatchOptions) (Summary, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	paths := make(chan string)
	results := make(chan Result)
	walkErr := make(chan error, 1)
	go func() {
		walkErr <- walk(ctx, dir, opts, paths)
	}()

	done := make(chan struct{})
	for range workers {
		go func() {
			defer func() { done <- struct{}{} }()
			for path := range paths {
				out := opts.OutPath(dir, path)
				if out != path && !opts.Overwrite {
					if _, err := os.Stat(out); err == nil {
						results <- Result{Path: path, Out: out, Skipped: true}
						continue
					}
				}
				logger.Println("Processing", path)
				res, err := ProcessFile(ctx, r, path, out)
				res.Err = err
				results <- res
			}
		}()
	}
	go func() {
		for range workers {
			<-done
		}
		close(results)
	}()

	sum := Summary{Applied: map[sm.Mode]int{}}
	var transparent, durations []float64
	for res := range results {
		switch {
		case res.Skipped:
			sum.Skipped++
			logger.Println("Skipping", res.Path, "output exists")
		case res.Err != nil:
			sum.Failed++
			sum.Errors = append(sum.Errors, fmt.Errorf("%s: %w", res.Path, res.Err))
			logger.Printf("Error processing %s: %v\n", res.Path, res.Err)
		default:
			sum.Processed++
			sum.Applied[res.Report.Applied]++
			transparent = append(transparent, res.Transparent)
			durations = append(durations, float64(res.Duration))
		}
	}
	if len(transparent) > 0 {
		sum.MeanTransparent = stat.Mean(transparent, nil)
		sum.MeanDuration = time.Duration(stat.Mean(durations, nil))
	}
	if len(transparent) > 1 {
		_, sum.StdTransparent = stat.MeanStdDev(transparent, nil)
	}

	err := <-walkErr
	if ctxErr := ctx.Err(); ctxErr != nil {
		return sum, ctxErr
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return sum, err
	}
	return sum, nil
}
