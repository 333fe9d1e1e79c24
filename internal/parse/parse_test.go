package parse

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/pdiddy/canvas-engine/pkg/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func titles(subs []types.Subsection) []string {
	out := make([]string, len(subs))
	for i, s := range subs {
		out[i] = s.Title
	}
	return out
}

func typesOf(subs []types.Subsection) []types.SubsectionType {
	out := make([]types.SubsectionType, len(subs))
	for i, s := range subs {
		out[i] = s.Type
	}
	return out
}

func TestParseBoldTitleKeepsInteriorHyphen(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"bold line", "**Monitor vs. laptop trade-offs** - description"},
		{"numbered bold line", "1. **Monitor vs. laptop trade-offs** - description"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := NewParser().Parse(Input{Text: tt.text})
			require.Len(t, resp.Subsections, 1)
			assert.Equal(t, "Monitor vs. laptop trade-offs", resp.Subsections[0].Title)
			assert.Equal(t, "description", resp.Subsections[0].Content)
			assert.NotContains(t, resp.Subsections[0].Content, "offs")
		})
	}
}

func TestParseGenericNumberedBold(t *testing.T) {
	text := "1. **Cost-benefit analysis** - text\n2. **Risk-reward ratio** - text"
	resp := NewParser().Parse(Input{Text: text})
	assert.Equal(t, []string{"Cost-benefit analysis", "Risk-reward ratio"}, titles(resp.Subsections))
	assert.Equal(t, []types.SubsectionType{types.TypeGeneric, types.TypeGeneric}, typesOf(resp.Subsections))
	assert.Equal(t, text, resp.RawContent)
}

func TestParseAntithesize(t *testing.T) {
	text := `## THESIS
Remote work improves productivity for most knowledge workers.

## ANTITHESES
1. **Collaboration suffers**: Evidence shows spontaneous collaboration drops, a strong counterexample.
2. **Premise is narrow**: The thesis assumes all work is individual focus work.
`
	resp := NewParser().Parse(Input{Text: text, Skill: "Antithesize", Prompt: "Remote work is better"})

	require.NotNil(t, resp.MainContent)
	assert.Equal(t, types.TypeThesis, resp.MainContent.Type)
	assert.Regexp(t, `^THESIS`, resp.MainContent.Title)
	assert.Equal(t, "Remote work improves productivity for most knowledge workers.", resp.MainContent.Content)

	require.Len(t, resp.Subsections, 2)
	for _, s := range resp.Subsections {
		assert.Equal(t, types.TypeAntithesis, s.Type)
		assert.NotEqual(t, resp.MainContent.ID, s.ID)
	}

	first, second := resp.Subsections[0], resp.Subsections[1]
	assert.Equal(t, "Collaboration suffers", first.Title)
	require.Len(t, first.Tags, 1)
	assert.Equal(t, "Counterexample", first.Tags[0].Label)
	assert.Equal(t, types.StrengthStrong, first.Strength)

	assert.Equal(t, "Premise is narrow", second.Title)
	require.Len(t, second.Tags, 1)
	assert.Equal(t, "Premise", second.Tags[0].Label)
	assert.Equal(t, types.StrengthModerate, second.Strength)

	require.NotNil(t, resp.Header)
	assert.Equal(t, types.SkillAntithesize, resp.Header.Skill)
	assert.Equal(t, "Remote work is better", resp.Header.InputSnippet)
}

func TestParseAntithesizeStrengthDefault(t *testing.T) {
	text := "## THESIS\nCities should ban cars.\n\n## ANTITHESES\n1. **Deliveries**: Freight needs road access.\n"
	resp := NewParser(WithStrengthDefault(types.StrengthWeak)).Parse(Input{Text: text, Skill: "antithesize"})
	require.Len(t, resp.Subsections, 1)
	assert.Equal(t, types.StrengthWeak, resp.Subsections[0].Strength)
}

func TestParseExcavate(t *testing.T) {
	text := `## CRUXES
1. **Pricing power**: Whether customers accept a 20% increase.
   - Churn stays under 5%
   - Competitors do not undercut
2. **Distribution**: Whether partners keep promoting us.

## ASSUMPTIONS
- The market keeps growing
- Regulation stays stable
`
	resp := NewParser().Parse(Input{Text: text, Skill: "excavate"})
	assert.Nil(t, resp.MainContent)
	assert.Equal(t, []types.SubsectionType{
		types.TypeCrux, types.TypeCrux, types.TypeAssumption, types.TypeAssumption,
	}, typesOf(resp.Subsections))

	crux := resp.Subsections[0]
	assert.Equal(t, "Pricing power", crux.Title)
	assert.Equal(t, "Whether customers accept a 20% increase.", crux.Content)
	assert.Equal(t, []string{"Churn stays under 5%", "Competitors do not undercut"}, crux.Assumptions)
	assert.Equal(t, "The market keeps growing", resp.Subsections[2].Title)
}

func TestParseExcavateHeadingPerCrux(t *testing.T) {
	text := "## Crux 1: Pricing power\nCan we raise prices?\n\n## Crux 2: Distribution\nWill partners stay?\n"
	resp := NewParser().Parse(Input{Text: text, Skill: "@excavate-critical"})
	assert.Equal(t, []string{"Pricing power", "Distribution"}, titles(resp.Subsections))
	assert.Equal(t, "Can we raise prices?", resp.Subsections[0].Content)
}

func TestParseStressify(t *testing.T) {
	text := `FAILURE MODES:
1. **Vendor lock-in** - Critical dependency on a single supplier.
2. **Key person risk** - Minor delays if the lead leaves.
`
	resp := NewParser().Parse(Input{Text: text, Skill: "stressify"})
	require.Len(t, resp.Subsections, 2)
	assert.Equal(t, "Vendor lock-in", resp.Subsections[0].Title)
	assert.Equal(t, types.TypeFailureMode, resp.Subsections[0].Type)
	assert.Equal(t, types.ImportanceHigh, resp.Subsections[0].Importance)
	assert.Equal(t, types.ImportanceLow, resp.Subsections[1].Importance)
}

func TestParseDiverge(t *testing.T) {
	text := `## DIMENSIONS
1. **Pricing model**
   - Subscription: recurring monthly fee
   - Usage based
2. **Channel**
   - Direct sales

## ALTERNATIVES
1. **Freemium**: free tier with paid upgrades
`
	resp := NewParser().Parse(Input{Text: text, Skill: "diverge"})
	assert.Equal(t, []types.SubsectionType{
		types.TypeDimension, types.TypeDimension, types.TypeAlternative,
	}, typesOf(resp.Subsections))

	pricing := resp.Subsections[0]
	assert.Equal(t, "Pricing model", pricing.Title)
	require.Len(t, pricing.Children, 2)
	assert.Equal(t, "Subscription", pricing.Children[0].Title)
	assert.Equal(t, "recurring monthly fee", pricing.Children[0].Content)
	assert.Equal(t, types.TypeAlternative, pricing.Children[1].Type)
	assert.Len(t, resp.Subsections[1].Children, 1)
	assert.Equal(t, "Freemium", resp.Subsections[2].Title)
}

func TestParseQuestions(t *testing.T) {
	text := `1. What is your monthly budget?
   - [ ] Under $500
   - [ ] $500 to $2000
   - [ ] Over $2000
   Why this matters: Budget decides which vendors are viable.
2. Which platform: web or mobile?
   a) Web
   b) Mobile
`
	p := NewParser()
	resp := p.Parse(Input{Text: text, Skill: "askuserquestions"})
	require.Len(t, resp.Subsections, 2)

	budget := resp.Subsections[0]
	assert.Equal(t, types.TypeQuestion, budget.Type)
	assert.Equal(t, "What is your monthly budget?", budget.Title)
	assert.Equal(t, []string{"Under $500", "$500 to $2000", "Over $2000"}, budget.Options)
	assert.Equal(t, "Budget decides which vendors are viable.", budget.Content)
	assert.True(t, IsQuestionID(budget.ID))

	platform := resp.Subsections[1]
	assert.Equal(t, "Which platform: web or mobile?", platform.Title)
	assert.Equal(t, []string{"Web", "Mobile"}, platform.Options)

	again := p.Parse(Input{Text: text, Skill: "askuserquestions"})
	assert.Equal(t, resp.QuestionIDs(), again.QuestionIDs())
	assert.Equal(t, QuestionID("What is your monthly budget?", types.SkillAskUserQuestions), budget.ID)
}

func TestParseQuestionsDuplicateTitles(t *testing.T) {
	text := "1. Who owns this?\n2. Who owns this?\n"
	resp := NewParser().Parse(Input{Text: text, Skill: "askuserquestions"})
	ids := resp.QuestionIDs()
	require.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1])
	assert.Equal(t, ids[0]+"_2", ids[1])
}

func TestParseQuestionLinesFallback(t *testing.T) {
	text := "A few things first.\nHow many users do you expect?\nDo you need offline support?\n"
	resp := NewParser().Parse(Input{Text: text, Skill: "askuserquestions"})
	assert.Equal(t, []string{"How many users do you expect?", "Do you need offline support?"}, titles(resp.Subsections))
}

func TestParseGenericHeadings(t *testing.T) {
	text := `## Background
We are choosing a database.

## Options
1. **Postgres**: mature and relational
2. **SQLite**: embedded and simple

## Open questions
- How large will the dataset grow?

## Notes
Nothing else to add.
`
	resp := NewParser().Parse(Input{Text: text, Skill: "unknown-skill"})
	assert.Equal(t, []string{"Postgres", "SQLite", "How large will the dataset grow?"}, titles(resp.Subsections))
	assert.Equal(t, []types.SubsectionType{
		types.TypeAlternative, types.TypeAlternative, types.TypeQuestion,
	}, typesOf(resp.Subsections))
	assert.True(t, IsQuestionID(resp.Subsections[2].ID))
}

func TestParseGenericSingleItemSection(t *testing.T) {
	text := "## Observations\n- Traffic doubles on Mondays\n\n## Notes\n- Storage is cheap\n"
	resp := NewParser().Parse(Input{Text: text})
	require.Len(t, resp.Subsections, 2)
	for _, s := range resp.Subsections {
		assert.Equal(t, types.TypeSection, s.Type)
		assert.True(t, s.Collapsed)
	}
	assert.Equal(t, "Observations", resp.Subsections[0].Title)
}

func TestParseGenericOnlyContext(t *testing.T) {
	resp := NewParser().Parse(Input{Text: "## Summary\nEverything is fine.\n"})
	assert.Empty(t, resp.Subsections)
	assert.NotNil(t, resp.Subsections)
}

func TestParseSafetyNet(t *testing.T) {
	text := "Just a plain sentence with no structure at all."
	resp := NewParser().Parse(Input{Text: text})
	require.Len(t, resp.Subsections, 1)
	assert.Equal(t, types.TypeGeneric, resp.Subsections[0].Type)
	assert.Equal(t, text, resp.Subsections[0].Content)
	assert.Equal(t, text, resp.Subsections[0].Title)
	assert.Nil(t, resp.Header)
}

func TestParseBlank(t *testing.T) {
	for _, text := range []string{"", "   \n\t\n"} {
		resp := NewParser().Parse(Input{Text: text})
		assert.NotNil(t, resp.Subsections)
		assert.Empty(t, resp.Subsections)
		assert.Nil(t, resp.MainContent)
		assert.Equal(t, text, resp.RawContent)
	}
}

func TestParseDropsProcessNoise(t *testing.T) {
	text := "1. Step 1\n2. Identify the stakeholders\n3. Real insight about pricing\n4. Another insight about churn\n"
	resp := NewParser().Parse(Input{Text: text, Skill: "synthesize"})
	assert.Equal(t, []string{"Real insight about pricing", "Another insight about churn"}, titles(resp.Subsections))
	assert.Equal(t, types.TypeSynthesis, resp.Subsections[0].Type)
}

func TestParseKeepsVerbLedTitles(t *testing.T) {
	text := "1. **Return on investment**: payback inside a year\n2. **Output quality**: defect rate is falling\n3. **Team morale**: steady\n"
	resp := NewParser().Parse(Input{Text: text})
	assert.Equal(t, []string{"Return on investment", "Output quality", "Team morale"}, titles(resp.Subsections))
}

func TestParseCRLF(t *testing.T) {
	resp := NewParser().Parse(Input{Text: "1. **Alpha**: first\r\n2. **Beta**: second\r\n"})
	assert.Equal(t, []string{"Alpha", "Beta"}, titles(resp.Subsections))
	assert.Equal(t, "first", resp.Subsections[0].Content)
}

func TestParseIDsUniqueAcrossParses(t *testing.T) {
	p := NewParser()
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		resp := p.Parse(Input{Text: fmt.Sprintf("1. **Item %d**: a\n2. **Other %d**: b", i, i)})
		for _, s := range resp.Subsections {
			assert.False(t, seen[s.ID], "duplicate id %s", s.ID)
			seen[s.ID] = true
		}
	}
}

func TestInterpret(t *testing.T) {
	p := NewParser()

	t.Run("artifact wins", func(t *testing.T) {
		text := "```json\n{\"summary\":\"s\",\"blocks\":[{\"kind\":\"cruxes\",\"title\":\"Cruxes\",\"items\":[{\"id\":\"a\",\"text\":\"b\"}]}]}\n```"
		got := p.Interpret(Input{Text: text, Skill: "excavate"})
		require.NotNil(t, got.Artifact)
		assert.Nil(t, got.Parsed)
		assert.True(t, got.Structured)
		assert.Equal(t, 1, got.Artifact.ItemCount())
	})

	t.Run("invalid artifact falls back", func(t *testing.T) {
		text := `{"blocks": []}` + "\n1. **Alpha**: first point here\n2. **Beta**: second point here"
		got := p.Interpret(Input{Text: text})
		assert.Nil(t, got.Artifact)
		require.NotNil(t, got.Parsed)
		assert.True(t, got.Structured)
		assert.Equal(t, []string{"Alpha", "Beta"}, titles(got.Parsed.Subsections))
	})

	t.Run("prose is flat", func(t *testing.T) {
		got := p.Interpret(Input{Text: "A short reflective paragraph."})
		assert.False(t, got.Structured)
		require.NotNil(t, got.Parsed)
		assert.Len(t, got.Parsed.Subsections, 1)
	})
}

func TestNormalizeSkill(t *testing.T) {
	tests := []struct {
		in   string
		want types.SkillKind
	}{
		{"@Excavate(depth=2)", types.SkillExcavate},
		{"excavate-critical", types.SkillExcavate},
		{"  ANTITHESIZE ", types.SkillAntithesize},
		{"backchain", types.SkillBackchain},
		{"my-custom-skill", "my-custom-skill"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeSkill(tt.in))
		})
	}
}
