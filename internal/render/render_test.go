package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/canvas-engine/pkg/types"
)

func TestCards(t *testing.T) {
	resp := &types.ParsedResponse{
		Header: &types.ResponseHeader{Skill: types.SkillAskUserQuestions},
		Subsections: []types.Subsection{
			{ID: "q_1", Type: types.TypeQuestion, Title: "Budget?", Content: "Sets scope", Options: []string{"Small", "Large"}},
			{ID: "crux_1_x", Type: types.TypeCrux, Title: "Pricing", Importance: types.ImportanceHigh, Assumptions: []string{"Buyers care"}},
			{ID: "section_2_x", Type: types.TypeSection, Title: "Background", Content: "hidden body", Collapsed: true},
		},
	}
	out := Cards(resp, map[string]types.Answer{"q_1": {QuestionID: "q_1", Answer: "Small"}}, 60)

	for _, want := range []string{"@askuserquestions", "Budget?", "[ ] Large", "> Small", "Pricing", "crux · high", "- Buyers care", "Background", "collapsed"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "hidden body")
}

func TestArtifact(t *testing.T) {
	a := &types.CanvasArtifact{
		Summary: "Moat is thin",
		Blocks: []types.CanvasBlock{{
			Kind:  "cruxes",
			Title: "Cruxes",
			Items: []types.CanvasItem{{ID: "i1", Text: "Churn risk", Title: "Churn", Importance: "high"}},
		}},
		SuggestedMoves: []types.SuggestedMove{{Skill: "@stressify", Reason: "probe"}},
		Warnings:       []string{"small sample"},
	}
	out := Artifact(a, 0)
	for _, want := range []string{"Moat is thin", "Cruxes", "Churn: Churn risk", "(high)", "@stressify", "! small sample"} {
		assert.Contains(t, out, want)
	}
}

func TestFlat(t *testing.T) {
	out, err := Flat("Just a short reply.", "notty", 80)
	require.NoError(t, err)
	assert.Contains(t, out, "Just a short reply.")
}
