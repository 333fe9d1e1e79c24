package skills

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/canvas-engine/pkg/types"
)

func writeSkill(t *testing.T, dir, folder, file, content string) {
	t.Helper()
	path := filepath.Join(dir, folder)
	require.NoError(t, os.MkdirAll(path, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(path, file), []byte(content), 0o644))
}

func skillDoc(name, description, body string) string {
	return "---\nname: " + name + "\ndescription: " + description + "\n---\n" + body
}

func TestLoad(t *testing.T) {
	local := t.TempDir()
	shared := t.TempDir()
	blend := t.TempDir()

	writeSkill(t, local, "excavate", "EXCAVATE.md", skillDoc("excavate", "local excavate", "\nDig.\n"))
	writeSkill(t, shared, "excavate", "EXCAVATE.md", skillDoc("excavate", "shared excavate", "Dig deeper."))
	writeSkill(t, shared, "zeta", "ZETA.md", skillDoc("zeta", "last", "z"))
	writeSkill(t, shared, "alpha", "ALPHA.md", skillDoc("alpha", "unlisted", "a"))
	writeSkill(t, shared, "askuserquestions", "ASKUSERQUESTIONS.md", skillDoc("askuserquestions", "ask: first", "?"))
	writeSkill(t, shared, "broken", "BROKEN.md", "no frontmatter here")
	writeSkill(t, shared, "wrongcase", "wrongcase.md", skillDoc("wrongcase", "", ""))
	writeSkill(t, shared, ".hidden", ".HIDDEN.md", skillDoc("hidden", "", ""))
	writeSkill(t, blend, "excavate", "EXCAVATE-CRITICAL.md", skillDoc("excavate-critical", "critical lens", "Dig for flaws."))

	c, err := Load(types.SkillsConfig{
		Dirs:     []string{local, shared, filepath.Join(local, "missing")},
		BlendDir: blend,
	}, nil)
	require.NoError(t, err)

	var names []string
	for _, s := range c.List() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"askuserquestions", "excavate", "alpha", "zeta"}, names)

	ex, ok := c.Get("@excavate")
	require.True(t, ok)
	assert.Equal(t, "local excavate", ex.Description)
	assert.Equal(t, "Dig.", ex.Body)
	assert.Equal(t, "@excavate", ex.DisplayName())

	ask, ok := c.Get("askuserquestions")
	require.True(t, ok)
	assert.Equal(t, "ask: first", ask.Description)

	crit, ok := c.GetWithMode("excavate", "CRITICAL")
	require.True(t, ok)
	assert.Equal(t, "Dig for flaws.", crit.Body)

	plain, ok := c.GetWithMode("excavate", "planning")
	require.True(t, ok)
	assert.Equal(t, "local excavate", plain.Description)

	_, ok = c.Get("broken")
	assert.False(t, ok)
	_, ok = c.Get("wrongcase")
	assert.False(t, ok)
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	writeSkill(t, dir, "diverge", "DIVERGE.md", skillDoc("diverge", "", "d"))
	writeSkill(t, dir, "synthesize", "SYNTHESIZE.md", skillDoc("synthesize", "", "s"))
	c, err := Load(types.SkillsConfig{Dirs: []string{dir}}, nil)
	require.NoError(t, err)

	steps, err := c.Resolve(ParseChain("@diverge(n=3) | @synthesize"))
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, "diverge", steps[0].Skill.Name)
	assert.Equal(t, "3", steps[0].Params["n"])

	_, err = c.Resolve(ParseChain("@diverge | @nope"))
	assert.True(t, errors.Is(err, ErrSkillNotFound))
	assert.Contains(t, err.Error(), "@nope")
}

func TestParseInvocation(t *testing.T) {
	tests := []struct {
		text   string
		name   string
		params map[string]string
	}{
		{"@simulate", "simulate", map[string]string{}},
		{"  excavate ", "excavate", map[string]string{}},
		{"@simulate(steps=5)", "simulate", map[string]string{"steps": "5"}},
		{"@diverge( n = 3 , render=canvas, junk)", "diverge", map[string]string{"n": "3", "render": "canvas"}},
		{"@stressify()", "stressify", map[string]string{}},
		{"@a(x=y=z)", "a", map[string]string{"x": "y=z"}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			inv := ParseInvocation(tt.text)
			assert.Equal(t, tt.name, inv.Name)
			assert.Equal(t, tt.params, inv.Params)
		})
	}
}

func TestParseChain(t *testing.T) {
	c := ParseChain("@excavate | @diverge(n=2) || @synthesize")
	require.Len(t, c.Invocations, 3)
	assert.Equal(t, "@excavate | @diverge | @synthesize", c.DisplayName())
	assert.False(t, c.IsSingle())
	assert.True(t, ParseChain("@one").IsSingle())
	assert.Empty(t, ParseChain("  ").Invocations)
}

func TestBuildPrompt(t *testing.T) {
	s := types.Skill{Name: "excavate", Body: "Find assumptions."}

	got := BuildPrompt(s, "We should raise prices.", nil)
	want := "<skill name=\"excavate\">\nFind assumptions.\n</skill>\n\n<context>\nWe should raise prices.\n</context>\n\n" +
		"apply the excavate skill above to the context. follow the skill's process exactly."
	assert.Equal(t, want, got)

	got = BuildPrompt(s, "ctx", map[string]string{"z": "1", "a": "2"})
	assert.Contains(t, got, "</skill>\n\n<parameters>\n- a: 2\n- z: 1\n</parameters>\n\n<context>\nctx\n</context>")
	assert.True(t, strings.HasSuffix(got, "follow the skill's process exactly."))
}
