package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsStructured(t *testing.T) {
	prose := "The rhyme of history is a pattern we keep noticing, an echo of earlier cycles.\nNothing here is organized as a list."

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"topic words only", prose, false},
		{"blank", "  \n", false},
		{"short numbered fragment", "We chose 2. It was fine.", false},
		{"single heading", "## Notes\nsome text", false},
		{"topic words with numbered items", prose + "\n1. The first rhyme appears in markets\n2. The second pattern shows up in politics\n3. The echo reaches culture last", true},
		{"fenced artifact", "```json\n{\"summary\":\"s\",\"blocks\":[]}\n```", true},
		{"bare artifact", `{"summary":"s","blocks":[]}`, true},
		{"thesis heading", "**THESIS:** markets are efficient", true},
		{"crux markdown", "## Crux\nthe real question", true},
		{"failure modes caps", "FAILURE MODES\nthings break", true},
		{"lower keyword in prose", "the crux of it is trust", false},
		{"two headings", "## One\ntext\n## Two\ntext", true},
		{"bold headings", "**Costs**\ntext\n**Benefits**\ntext", true},
		{"why this matters", "Which region?\nWhy this matters: latency", true},
		{"checkbox", "Pick one\n- [ ] Web\n- [ ] Mobile", true},
		{"question numbering", "Q1. Which region should we use", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsStructured(tt.text))
		})
	}
}
