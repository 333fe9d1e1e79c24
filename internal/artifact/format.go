// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package artifact

import (
	"strings"
)

// Verbosity levels accepted by BuildSuffix.
const (
	VerbosityTerse    = 0
	VerbosityBalanced = 1
	VerbosityThorough = 2
)

// ExcludedSkills never switch to canvas output. Their answers are keyed by
// question IDs that only heuristic parsing produces.
var ExcludedSkills = map[string]bool{
	"askuserquestions": true,
}

const formatInstructions = `
<output_format>
OUTPUT AS JSON matching this exact schema (no markdown, no prose, just JSON):

{
  "summary": "string ~100 chars - the main takeaway",
  "blocks": [
    {
      "kind": "string - category like 'cruxes', 'antitheses', 'alternatives', 'failure_modes', 'questions'",
      "title": "string - display title for this section",
      "items": [
        {
          "id": "string - unique identifier like 'item_1'",
          "text": "string - the main content",
          "title": "string? - optional short title",
          "importance": "'critical' | 'high' | 'medium' | 'low'",
          "polarity": "'positive' | 'negative' | 'neutral' | 'mixed'",
          "tags": ["optional", "string", "tags"]
        }
      ]
    }
  ],
  "suggested_moves": [
    {"skill": "@skill_name", "reason": "why this move makes sense", "target": "optional item id"}
  ],
  "warnings": ["optional caveats or assumptions"],
  "edges": [
    {"from": "item_id", "to": "item_id", "type": "'supports' | 'refutes' | 'depends_on' | 'enables' | 'blocks' | 'links_to'"}
  ]
}

RULES:
- Output only valid JSON, with no prose before or after
- Every block has at least one item
- Every item has id and text
- Use the kind that matches the skill's output
- Keep item text to 1-3 sentences
</output_format>
`

var verbosityInstructions = map[int]string{
	VerbosityTerse:    "\nBe extremely concise. 1 sentence per item maximum. Only include critical/high importance items.",
	VerbosityBalanced: "\nBe concise. 1-2 sentences per item. Include high and medium importance items.",
	VerbosityThorough: "\nBe thorough. 2-3 sentences per item. Include all importance levels with full reasoning.",
}

var focusInstructions = map[string]string{
	"planning": "\nFocus on actionable next steps and decisions. What needs to happen?",
	"critical": "\nFocus on finding flaws, risks, and failure modes. What could go wrong?",
	"positive": "\nFocus on strengths, opportunities, and what's working. What's good here?",
	"near":     "\nFocus on immediate, short-term implications. What happens next?",
	"far":      "\nFocus on long-term, downstream implications. Where does this lead?",
	"internal": "\nFocus on within-system dynamics. How do the parts interact?",
	"external": "\nFocus on outside-system forces. What external factors matter?",
}

// BuildSuffix returns the prompt suffix asking a skill for canvas JSON.
// Unknown verbosity falls back to balanced; unknown focus adds nothing.
func BuildSuffix(verbosity int, focus string) string {
	v, ok := verbosityInstructions[verbosity]
	if !ok {
		v = verbosityInstructions[VerbosityBalanced]
	}
	return formatInstructions + v + focusInstructions[strings.ToLower(focus)]
}

// FocusModes returns the accepted focus names.
func FocusModes() []string {
	return []string{"planning", "critical", "positive", "near", "far", "internal", "external"}
}

// ShouldUseCanvasFormat reports whether a skill invocation asks for canvas
// output: params carries render=canvas, any case, and the skill is not
// excluded.
func ShouldUseCanvasFormat(params map[string]string, skill string) bool {
	if ExcludedSkills[strings.ToLower(strings.TrimPrefix(skill, "@"))] {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(params["render"]), "canvas")
}
