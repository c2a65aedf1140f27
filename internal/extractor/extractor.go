// Package extractor implements the Structural Extractor (spec §4.3,
// "RepoSpider"): a bounded-concurrency walk of the repository that
// classifies every file, dispatches it to the Analyzer Registry, and
// collects the resulting fragments on a single owning goroutine.
//
// Grounded on the teacher's channel-plus-sync.WaitGroup worker pool
// (internal/jobs/runner.go) generalized from a job queue to a fixed-size
// file-analysis pool with static chunking, per spec §5's
// max(1, files/(4*workers)) chunk-size rule.
package extractor

import (
	"context"
	"sort"
	"sync"

	"repogenome/internal/analyzer"
	"repogenome/internal/capability"
	"repogenome/internal/classify"
	"repogenome/internal/genome"
	"repogenome/internal/rgerrors"
)

// Options configures one extraction run.
type Options struct {
	Workers     int
	IgnorePatterns []string
}

// Result is the aggregate of every file's analysis, ready for the Merger.
type Result struct {
	Files    []*analyzer.FileAnalysis
	Errors   []FileError
	ScannedFileCount int
}

// FileError records a single file's analysis failure without aborting
// the whole scan.
type FileError struct {
	File string
	Err  error
}

// Spider walks a repository and extracts structural facts from every
// analyzable file.
type Spider struct {
	FS       capability.FilesystemSource
	Registry *analyzer.Registry
	Logger   capability.Logger
}

// New returns a Spider over fs, dispatching through registry.
func New(fs capability.FilesystemSource, registry *analyzer.Registry, logger capability.Logger) *Spider {
	return &Spider{FS: fs, Registry: registry, Logger: logger}
}

type workItem struct {
	info capability.FileInfo
}

// Scan walks the repository rooted at root, classifies and analyzes every
// eligible file using a fixed worker pool, and returns the merged
// per-file results. It never fails the whole scan on a single file's
// analysis error; those are collected in Result.Errors.
func (s *Spider) Scan(ctx context.Context, root string, opts Options) (*Result, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}

	var items []workItem
	err := s.FS.Walk(ctx, root, func(fi capability.FileInfo) error {
		if classify.IsIgnored(fi.RelPath, opts.IgnorePatterns) {
			return nil
		}
		items = append(items, workItem{info: fi})
		return nil
	})
	if err != nil {
		return nil, rgerrors.Wrap(rgerrors.IoError, "walking repository", err)
	}

	chunkSize := len(items) / (4 * workers)
	if chunkSize < 1 {
		chunkSize = 1
	}
	chunks := chunkItems(items, chunkSize)

	in := make(chan []workItem)
	out := make(chan *Result)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go s.worker(ctx, &wg, in, out)
	}

	go func() {
		defer close(in)
		for _, c := range chunks {
			select {
			case in <- c:
			case <-ctx.Done():
				return
			}
		}
	}()

	collected := &Result{}
	done := make(chan struct{})
	go func() {
		defer close(done)
		for r := range out {
			collected.Files = append(collected.Files, r.Files...)
			collected.Errors = append(collected.Errors, r.Errors...)
			collected.ScannedFileCount += r.ScannedFileCount
		}
	}()

	wg.Wait()
	close(out)
	<-done

	sort.Slice(collected.Files, func(i, j int) bool { return collected.Files[i].File < collected.Files[j].File })
	if ctx.Err() != nil {
		return collected, rgerrors.Wrap(rgerrors.Cancelled, "scan cancelled", ctx.Err())
	}
	return collected, nil
}

func (s *Spider) worker(ctx context.Context, wg *sync.WaitGroup, in <-chan []workItem, out chan<- *Result) {
	defer wg.Done()
	for chunk := range in {
		r := &Result{}
		for _, item := range chunk {
			if ctx.Err() != nil {
				return
			}
			r.ScannedFileCount++
			content, err := s.FS.ReadFile(ctx, item.info.RelPath)
			if err != nil {
				r.Errors = append(r.Errors, FileError{File: item.info.RelPath, Err: err})
				continue
			}
			result := classify.Classify(item.info.RelPath, content)
			if result.Kind == classify.KindOther || result.Capability == classify.CapabilityNone {
				fa := analyzer.NewFileAnalysis(item.info.RelPath)
				fa.Nodes[genome.FileNodeId(item.info.RelPath)] = genome.Node{
					Type: genome.NodeFile,
					File: item.info.RelPath,
				}
				r.Files = append(r.Files, fa)
				continue
			}
			fa, err := analyzer.AnalyzeFile(ctx, s.Registry, result, item.info.RelPath, content)
			if err != nil {
				r.Errors = append(r.Errors, FileError{File: item.info.RelPath, Err: err})
				if s.Logger != nil {
					s.Logger.Warn("analysis failed", map[string]interface{}{"file": item.info.RelPath, "error": err.Error()})
				}
				continue
			}
			if fa == nil {
				continue
			}
			fa.Nodes[genome.FileNodeId(item.info.RelPath)] = genome.Node{
				Type:     genome.NodeFile,
				File:     item.info.RelPath,
				Language: result.Language,
			}
			r.Files = append(r.Files, fa)
		}
		select {
		case out <- r:
		case <-ctx.Done():
			return
		}
	}
}

func chunkItems(items []workItem, chunkSize int) [][]workItem {
	if len(items) == 0 {
		return nil
	}
	var chunks [][]workItem
	for i := 0; i < len(items); i += chunkSize {
		end := i + chunkSize
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[i:end])
	}
	return chunks
}
