// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// CanvasItem is one entry within a canvas artifact block.
type CanvasItem struct {
	ID   string `json:"id" yaml:"id"`
	Text string `json:"text" yaml:"text"`

	Title      string   `json:"title,omitempty" yaml:"title,omitempty"`
	Importance string   `json:"importance,omitempty" yaml:"importance,omitempty"`
	Polarity   string   `json:"polarity,omitempty" yaml:"polarity,omitempty"`
	Tags       []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	// Source names the context node the item was derived from.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// CanvasBlock groups items of one kind (cruxes, antitheses, questions, ...).
type CanvasBlock struct {
	Kind  string       `json:"kind" yaml:"kind"`
	Title string       `json:"title" yaml:"title"`
	Items []CanvasItem `json:"items" yaml:"items"`
}

// SuggestedMove proposes a follow-up skill invocation.
type SuggestedMove struct {
	Skill  string `json:"skill" yaml:"skill"`
	Reason string `json:"reason" yaml:"reason"`
	Target string `json:"target,omitempty" yaml:"target,omitempty"`
}

// Edge links two items by ID.
type Edge struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
}

// CanvasArtifact is the strict JSON alternative to heuristic parsing. When
// present and valid it is authoritative.
type CanvasArtifact struct {
	Summary string        `json:"summary" yaml:"summary"`
	Blocks  []CanvasBlock `json:"blocks" yaml:"blocks"`

	SuggestedMoves []SuggestedMove `json:"suggested_moves,omitempty" yaml:"suggested_moves,omitempty"`
	Edges          []Edge          `json:"edges,omitempty" yaml:"edges,omitempty"`
	Warnings       []string        `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	ContextUsed    []string        `json:"context_used,omitempty" yaml:"context_used,omitempty"`

	Schema  string `json:"schema,omitempty" yaml:"schema,omitempty"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	Skill   string `json:"skill,omitempty" yaml:"skill,omitempty"`
	Mode    string `json:"mode,omitempty" yaml:"mode,omitempty"`
}

// ItemCount returns the number of items across all blocks.
func (a *CanvasArtifact) ItemCount() int {
	n := 0
	for _, b := range a.Blocks {
		n += len(b.Items)
	}
	return n
}
