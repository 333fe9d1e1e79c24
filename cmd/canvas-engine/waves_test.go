package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/canvas-engine/internal/pipeline"
)

func TestLoadPipeline(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		skills []string
	}{
		{
			name:   "compose json",
			text:   "```json\n" + `{"rationale":"r","steps":[{"skill":"@excavate","target":"the plan","reason":"x"},{"skill":"@diverge","target":"$1","reason":"y"}]}` + "\n```",
			skills: []string{"excavate", "diverge"},
		},
		{
			name:   "yaml file",
			text:   "rationale: r\nsteps:\n  - skill: \"@stressify\"\n    target: the plan\n  - skill: synthesize\n    target: steps 1\n",
			skills: []string{"stressify", "synthesize"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := loadPipeline(tt.text)
			require.NoError(t, err)
			var got []string
			for _, s := range spec.Steps {
				got = append(got, s.Skill)
			}
			assert.Equal(t, tt.skills, got)
		})
	}
}

func TestLoadPipelineErrors(t *testing.T) {
	_, err := loadPipeline("no pipeline here")
	assert.True(t, errors.Is(err, pipeline.ErrNoPipeline))

	_, err = loadPipeline("steps:\n  - skill: a\n    target: $2\n")
	assert.Error(t, err)
}

func TestWriteOutput(t *testing.T) {
	v := map[string]int{"cards": 2}

	var y bytes.Buffer
	require.NoError(t, writeOutput(&y, v, "yaml"))
	assert.Equal(t, "cards: 2\n", y.String())

	var j bytes.Buffer
	require.NoError(t, writeOutput(&j, v, "json"))
	assert.JSONEq(t, `{"cards": 2}`, j.String())

	assert.Error(t, writeOutput(&bytes.Buffer{}, v, "xml"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd...", truncate("abcdefghij", 7))
}
