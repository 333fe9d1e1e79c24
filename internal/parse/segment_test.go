package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadingText(t *testing.T) {
	tests := []struct {
		line string
		want string
		ok   bool
	}{
		{"## Options", "Options", true},
		{"### **Next steps:**", "Next steps", true},
		{"FAILURE MODES:", "FAILURE MODES", true},
		{"OK", "", false},
		{"Plain sentence.", "", false},
		{"**Bold only**", "", false},
		{"####### too deep", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := headingText(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitSections(t *testing.T) {
	text := "preamble\n## One\nbody one\n## Two\n\nbody two\n"
	secs := splitSections(text)
	require.Len(t, secs, 3)
	assert.Equal(t, "", secs[0].heading)
	assert.Equal(t, "preamble", secs[0].body)
	assert.Equal(t, "One", secs[1].heading)
	assert.Equal(t, "Two", secs[2].heading)
	assert.Contains(t, secs[2].body, "body two")
	assert.True(t, hasHeadings(secs))
	assert.False(t, hasHeadings(splitSections("just text")))
}

func TestAnchorMatch(t *testing.T) {
	tests := []struct {
		name        string
		line        string
		wantHeading string
		wantInline  string
		ok          bool
	}{
		{"markdown", "## THESIS", "THESIS", "", true},
		{"markdown lower", "## Thesis", "Thesis", "", true},
		{"bold with text", "**THESIS:** Remote work wins", "THESIS: Remote work wins", "Remote work wins", true},
		{"ordinal", "## Crux 2: Pricing power", "Crux 2: Pricing power", "Pricing power", true},
		{"caps unmarked", "THESIS", "THESIS", "", true},
		{"lower unmarked", "Thesis statement in prose", "", "", false},
		{"not at start", "The thesis is", "", "", false},
		{"antithesis is not thesis", "## ANTITHESIS", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			heading, inline, ok := anchorMatch(tt.line, thesisRe)
			if tt.name == "ordinal" {
				heading, inline, ok = anchorMatch(tt.line, cruxRe)
			}
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.wantHeading, heading)
			assert.Equal(t, tt.wantInline, inline)
		})
	}
}

func TestAnchoredSectionsStopAtNextAnchor(t *testing.T) {
	text := "THESIS\nclaim line\nANTITHESES\n1. counter point here\n"
	secs := anchoredSections(text, thesisRe)
	require.Len(t, secs, 1)
	assert.Equal(t, "claim line", secs[0].body)
	assert.Equal(t, 0, secs[0].start)
	assert.Equal(t, 2, secs[0].end)
	assert.Equal(t, "ANTITHESES\n1. counter point here\n", removeLines(text, secs))
}
