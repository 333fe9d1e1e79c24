package artifact

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSuffix(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		focus     string
		contains  []string
		excludes  []string
	}{
		{
			name:      "terse",
			verbosity: VerbosityTerse,
			contains:  []string{"<output_format>", "extremely concise"},
			excludes:  []string{"Focus on"},
		},
		{
			name:      "thorough critical",
			verbosity: VerbosityThorough,
			focus:     "critical",
			contains:  []string{"Be thorough", "What could go wrong?"},
		},
		{
			name:      "unknown verbosity falls back to balanced",
			verbosity: 7,
			focus:     "FAR",
			contains:  []string{"1-2 sentences per item", "long-term"},
		},
		{
			name:      "unknown focus adds nothing",
			verbosity: VerbosityBalanced,
			focus:     "sideways",
			excludes:  []string{"Focus on"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildSuffix(tt.verbosity, tt.focus)
			for _, s := range tt.contains {
				assert.Contains(t, got, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, got, s)
			}
		})
	}
}

func TestFocusModesAllHaveInstructions(t *testing.T) {
	for _, f := range FocusModes() {
		assert.True(t, strings.HasPrefix(focusInstructions[f], "\nFocus on"), f)
	}
}

func TestShouldUseCanvasFormat(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]string
		skill  string
		want   bool
	}{
		{"canvas", map[string]string{"render": "canvas"}, "excavate", true},
		{"case insensitive", map[string]string{"render": "Canvas"}, "@diverge", true},
		{"narrative", map[string]string{"render": "narrative"}, "excavate", false},
		{"no params", nil, "excavate", false},
		{"excluded skill", map[string]string{"render": "canvas"}, "@AskUserQuestions", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldUseCanvasFormat(tt.params, tt.skill))
		})
	}
}
