// Package artifact decodes and validates canvas artifacts, the strict JSON
// alternative to heuristic card parsing. A response carrying a valid
// artifact is rendered from it directly.
package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pdiddy/canvas-engine/pkg/types"
)

// ErrNoArtifact is returned when text contains no JSON object at all.
var ErrNoArtifact = errors.New("no canvas artifact found")

var validate = validator.New()

// ShapeError reports why a JSON object is not a canvas artifact.
type ShapeError struct {
	Problems []string
}

func (e *ShapeError) Error() string {
	return "invalid canvas artifact: " + strings.Join(e.Problems, "; ")
}

// The wire types use pointers so a missing field is distinguishable from
// an empty one. Required string fields may be empty but must be present.
type wireArtifact struct {
	Summary *string     `json:"summary" validate:"required"`
	Blocks  []wireBlock `json:"blocks" validate:"required,dive"`

	SuggestedMoves []types.SuggestedMove `json:"suggested_moves"`
	Edges          []types.Edge          `json:"edges"`
	Warnings       []string              `json:"warnings"`
	ContextUsed    []string              `json:"context_used"`

	Schema  string `json:"schema"`
	Version string `json:"version"`
	Skill   string `json:"skill"`
	Mode    string `json:"mode"`
}

type wireBlock struct {
	Kind  *string    `json:"kind" validate:"required"`
	Title *string    `json:"title" validate:"required"`
	Items []wireItem `json:"items" validate:"required,dive"`
}

type wireItem struct {
	ID   *string `json:"id" validate:"required"`
	Text *string `json:"text" validate:"required"`

	Title      string   `json:"title"`
	Importance string   `json:"importance"`
	Polarity   string   `json:"polarity"`
	Tags       []string `json:"tags"`
	Source     string   `json:"source"`
}

// Parse finds a canvas artifact in text: a fenced json block, the whole
// text, or a JSON object embedded in prose. The first candidate that
// decodes and passes validation wins. It returns ErrNoArtifact when there
// is no JSON object, or the validation error of the first object tried.
func Parse(text string) (*types.CanvasArtifact, error) {
	var firstErr error
	for _, c := range JSONCandidates(text) {
		a, err := Validate([]byte(c))
		if err == nil {
			return a, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	if firstErr == nil {
		return nil, ErrNoArtifact
	}
	return nil, firstErr
}

// Extract is Parse without the reason: it reports whether text carries a
// valid artifact. Any failure yields (nil, false); nothing is partially
// populated.
func Extract(text string) (*types.CanvasArtifact, bool) {
	a, err := Parse(text)
	if err != nil {
		return nil, false
	}
	return a, true
}

// Validate decodes raw as a canvas artifact and checks its shape: summary
// and blocks present, and every block with kind, title and items, every
// item with id and text. A wrong JSON type anywhere rejects the object.
func Validate(raw []byte) (*types.CanvasArtifact, error) {
	var w wireArtifact
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, &ShapeError{Problems: []string{fmt.Sprintf("decoding: %v", err)}}
	}
	if err := validate.Struct(w); err != nil {
		return nil, shapeError(err)
	}
	return w.artifact(), nil
}

// Encode renders a as a fenced json block, the form Parse reads first.
func Encode(a *types.CanvasArtifact) (string, error) {
	if a == nil {
		return "", errors.New("encoding canvas artifact: nil artifact")
	}
	data, err := json.MarshalIndent(wireShape(a), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding canvas artifact: %w", err)
	}
	return "```json\n" + string(data) + "\n```\n", nil
}

// wireShape returns a copy of a whose nil Blocks and Items are empty, so
// they encode as [] and pass Validate.
func wireShape(a *types.CanvasArtifact) *types.CanvasArtifact {
	out := *a
	out.Blocks = make([]types.CanvasBlock, len(a.Blocks))
	for i, b := range a.Blocks {
		if b.Items == nil {
			b.Items = []types.CanvasItem{}
		}
		out.Blocks[i] = b
	}
	return &out
}

func shapeError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ShapeError{Problems: []string{err.Error()}}
	}
	problems := make([]string, 0, len(verrs))
	for _, e := range verrs {
		problems = append(problems, formatFieldError(e))
	}
	return &ShapeError{Problems: problems}
}

// formatFieldError names the offending field by its JSON path, e.g.
// "blocks[0].items is required".
func formatFieldError(e validator.FieldError) string {
	path := jsonPath(e.Namespace())
	switch e.Tag() {
	case "required":
		return path + " is required"
	default:
		return path + " is invalid"
	}
}

var fieldNames = map[string]string{
	"Summary": "summary",
	"Blocks":  "blocks",
	"Kind":    "kind",
	"Title":   "title",
	"Items":   "items",
	"ID":      "id",
	"Text":    "text",
}

// jsonPath turns "wireArtifact.Blocks[0].Items" into "blocks[0].items".
func jsonPath(ns string) string {
	parts := strings.Split(ns, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		name, index, _ := strings.Cut(p, "[")
		if n, ok := fieldNames[name]; ok {
			name = n
		}
		if index != "" {
			name += "[" + index
		}
		parts[i] = name
	}
	return strings.Join(parts, ".")
}

func (w wireArtifact) artifact() *types.CanvasArtifact {
	a := &types.CanvasArtifact{
		Summary:        *w.Summary,
		Blocks:         make([]types.CanvasBlock, 0, len(w.Blocks)),
		SuggestedMoves: w.SuggestedMoves,
		Edges:          w.Edges,
		Warnings:       w.Warnings,
		ContextUsed:    w.ContextUsed,
		Schema:         w.Schema,
		Version:        w.Version,
		Skill:          w.Skill,
		Mode:           w.Mode,
	}
	for _, b := range w.Blocks {
		block := types.CanvasBlock{
			Kind:  *b.Kind,
			Title: *b.Title,
			Items: make([]types.CanvasItem, 0, len(b.Items)),
		}
		for _, it := range b.Items {
			block.Items = append(block.Items, types.CanvasItem{
				ID:         *it.ID,
				Text:       *it.Text,
				Title:      it.Title,
				Importance: it.Importance,
				Polarity:   it.Polarity,
				Tags:       it.Tags,
				Source:     it.Source,
			})
		}
		a.Blocks = append(a.Blocks, block)
	}
	return a
}
