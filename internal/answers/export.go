// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package answers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/canvas-engine/pkg/types"
)

// Export formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// ImportSummary counts the outcome of an Import.
type ImportSummary struct {
	Saved   int
	Skipped int
	Failed  int
}

// Total returns the number of entries considered.
func (s ImportSummary) Total() int {
	return s.Saved + s.Skipped + s.Failed
}

// HasFailures reports whether any entry failed to save.
func (s ImportSummary) HasFailures() bool {
	return s.Failed > 0
}

// Export writes every stored answer to w as YAML or JSON.
func (s *Store) Export(ctx context.Context, w io.Writer, format string) error {
	list, err := s.List(ctx, "")
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}
	if list == nil {
		list = []types.Answer{}
	}

	var data []byte
	switch format {
	case FormatYAML, "":
		data, err = yaml.Marshal(list)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
	case FormatJSON:
		data, err = json.MarshalIndent(list, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		data = append(data, '\n')
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
	_, err = w.Write(data)
	return err
}

// Import reads a YAML list of answers, as written by Export, and saves
// each one. Entries without a question ID or answer are skipped. Progress
// lines go to progress when it is non-nil.
func (s *Store) Import(ctx context.Context, r io.Reader, progress io.Writer) (ImportSummary, error) {
	var list []types.Answer
	if err := yaml.NewDecoder(r).Decode(&list); err != nil && err != io.EOF {
		return ImportSummary{}, fmt.Errorf("decoding answers: %w", err)
	}

	var summary ImportSummary
	for _, a := range list {
		if a.QuestionID == "" || a.Answer == "" {
			summary.Skipped++
			continue
		}
		if err := s.Save(ctx, a); err != nil {
			summary.Failed++
			if progress != nil {
				fmt.Fprintf(progress, "failed  %s: %v\n", a.QuestionID, err)
			}
			continue
		}
		summary.Saved++
	}
	return summary, nil
}
