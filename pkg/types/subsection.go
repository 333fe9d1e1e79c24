// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the canvas-engine core.
// Subsections and parsed responses come from heuristic text parsing, canvas
// artifacts from the strict JSON codec, pipeline steps from skill composition.
//
// Every structure here is a request-scoped derivation recomputed from source
// text; none of it is persisted except the answers keyed by question IDs.
package types

// SkillKind names the skill whose output is being parsed. The zero value
// routes to the generic grammar.
type SkillKind string

const (
	SkillAntithesize      SkillKind = "antithesize"
	SkillExcavate         SkillKind = "excavate"
	SkillStressify        SkillKind = "stressify"
	SkillSimulate         SkillKind = "simulate"
	SkillDiverge          SkillKind = "diverge"
	SkillNegspace         SkillKind = "negspace"
	SkillMetaphorize      SkillKind = "metaphorize"
	SkillRhyme            SkillKind = "rhyme"
	SkillSynthesize       SkillKind = "synthesize"
	SkillAskUserQuestions SkillKind = "askuserquestions"
	SkillBackchain        SkillKind = "backchain"
)

// SubsectionType tags the kind of card a subsection renders as.
type SubsectionType string

const (
	TypeThesis         SubsectionType = "thesis"
	TypeAntithesis     SubsectionType = "antithesis"
	TypeCrux           SubsectionType = "crux"
	TypeAssumption     SubsectionType = "assumption"
	TypeDimension      SubsectionType = "dimension"
	TypeAlternative    SubsectionType = "alternative"
	TypeFailureMode    SubsectionType = "failure_mode"
	TypeSimulationStep SubsectionType = "simulation_step"
	TypeNegspace       SubsectionType = "negspace"
	TypeMetaphor       SubsectionType = "metaphor"
	TypeRhyme          SubsectionType = "rhyme"
	TypeSynthesis      SubsectionType = "synthesis"
	TypeProposal       SubsectionType = "proposal"
	TypeQuestion       SubsectionType = "question"
	TypeSection        SubsectionType = "section"
	TypeGeneric        SubsectionType = "generic"
)

// Importance ranks how much a subsection matters. Empty means unset.
type Importance string

const (
	ImportanceHigh   Importance = "high"
	ImportanceMedium Importance = "medium"
	ImportanceLow    Importance = "low"
)

// Strength rates how forceful an argument is. Empty means unset.
type Strength string

const (
	StrengthStrong   Strength = "strong"
	StrengthModerate Strength = "moderate"
	StrengthWeak     Strength = "weak"
)

// Tag is a colored label attached to a card (e.g. an antithesis type).
type Tag struct {
	Label string `json:"label" yaml:"label"`
	Color string `json:"color" yaml:"color"`
}

// Subsection is one extracted, typed, titled unit of meaning within a
// larger response.
type Subsection struct {
	// ID identifies the card. Question IDs ("q_" prefix) are a pure function
	// of the title and skill kind; other IDs only need per-render uniqueness.
	ID string `json:"id" yaml:"id"`

	Type    SubsectionType `json:"type" yaml:"type"`
	Title   string         `json:"title" yaml:"title"`
	Content string         `json:"content" yaml:"content"`

	Importance Importance `json:"importance,omitempty" yaml:"importance,omitempty"`
	Strength   Strength   `json:"strength,omitempty" yaml:"strength,omitempty"`
	Tags       []Tag      `json:"tags,omitempty" yaml:"tags,omitempty"`

	// Options holds the choices offered by a question card.
	Options []string `json:"options,omitempty" yaml:"options,omitempty"`

	// Assumptions holds bullet assumptions pulled from crux and assumption cards.
	Assumptions []string `json:"assumptions,omitempty" yaml:"assumptions,omitempty"`

	Children  []Subsection `json:"children,omitempty" yaml:"children,omitempty"`
	Collapsed bool         `json:"collapsed" yaml:"collapsed"`
}

// ResponseHeader describes what produced a parsed response.
type ResponseHeader struct {
	Skill        SkillKind `json:"skill" yaml:"skill"`
	InputSnippet string    `json:"input_snippet,omitempty" yaml:"input_snippet,omitempty"`
}

// ParsedResponse is the structured view of one skill response. Subsections
// never repeat MainContent.
type ParsedResponse struct {
	Header      *ResponseHeader `json:"header,omitempty" yaml:"header,omitempty"`
	MainContent *Subsection     `json:"main_content,omitempty" yaml:"main_content,omitempty"`
	Subsections []Subsection    `json:"subsections" yaml:"subsections"`

	// RawContent is the verbatim input text.
	RawContent string `json:"raw_content" yaml:"raw_content"`
}

// QuestionIDs returns the IDs of every question card in the response,
// including nested ones, in document order.
func (p *ParsedResponse) QuestionIDs() []string {
	var ids []string
	var walk func([]Subsection)
	walk = func(subs []Subsection) {
		for _, s := range subs {
			if s.Type == TypeQuestion {
				ids = append(ids, s.ID)
			}
			walk(s.Children)
		}
	}
	if p.MainContent != nil {
		walk([]Subsection{*p.MainContent})
	}
	walk(p.Subsections)
	return ids
}
