// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/canvas-engine/pkg/types"
)

// batchWorkers bounds concurrent file parses.
const batchWorkers = 4

// FileResult is the interpretation of one response file.
type FileResult struct {
	Path   string
	Result Interpretation
	Err    error
}

// BatchSummary holds counts from a batch parse run.
type BatchSummary struct {
	Artifacts  int
	Structured int
	Flat       int
	Failed     int
}

// Total returns the number of files processed.
func (s BatchSummary) Total() int {
	return s.Artifacts + s.Structured + s.Flat + s.Failed
}

// HasFailures reports whether any file could not be read.
func (s BatchSummary) HasFailures() bool {
	return s.Failed > 0
}

// ParseDir interprets every .md and .txt file in dir with the given skill
// kind. Files are parsed concurrently; results come back sorted by path and
// a progress line per file is written to w.
func (p *Parser) ParseDir(ctx context.Context, dir, skill string, w io.Writer) ([]FileResult, BatchSummary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, BatchSummary{}, fmt.Errorf("reading response directory %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".md", ".txt":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	results := make([]FileResult, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(batchWorkers)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = p.parseFile(path, skill)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, BatchSummary{}, fmt.Errorf("parsing %s: %w", dir, err)
	}

	var summary BatchSummary
	for _, r := range results {
		name := filepath.Base(r.Path)
		switch {
		case r.Err != nil:
			fmt.Fprintf(w, "failed   %s: %v\n", name, r.Err)
			summary.Failed++
		case r.Result.Artifact != nil:
			fmt.Fprintf(w, "artifact %s (%d items)\n", name, r.Result.Artifact.ItemCount())
			summary.Artifacts++
		case r.Result.Structured:
			fmt.Fprintf(w, "parsed   %s (%d cards)\n", name, countCards(r.Result.Parsed))
			summary.Structured++
		default:
			fmt.Fprintf(w, "flat     %s\n", name)
			summary.Flat++
		}
	}
	return results, summary, nil
}

func (p *Parser) parseFile(path, skill string) FileResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileResult{Path: path, Err: fmt.Errorf("reading %s: %w", path, err)}
	}
	return FileResult{Path: path, Result: p.Interpret(Input{Text: string(data), Skill: skill})}
}

func countCards(r *types.ParsedResponse) int {
	if r == nil {
		return 0
	}
	n := len(r.Subsections)
	if r.MainContent != nil {
		n++
	}
	return n
}
