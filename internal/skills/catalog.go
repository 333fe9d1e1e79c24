// Package skills loads skill definitions: markdown files with YAML
// frontmatter, one directory per skill. It also parses invocation and
// chain syntax ("@simulate(steps=5) | @synthesize") and builds the prompt
// a skill is run with.
package skills

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/canvas-engine/pkg/types"
)

// ErrSkillNotFound is returned when a chain names a skill the catalogue
// does not hold.
var ErrSkillNotFound = errors.New("skill not found")

// listOrder is the plan-building order used by List. Unlisted skills
// follow alphabetically.
var listOrder = []string{
	"askuserquestions",
	"excavate",
	"diverge",
	"stressify",
	"simulate",
	"backchain",
	"antithesize",
	"synthesize",
}

var frontmatterRe = regexp.MustCompile(`(?s)^---\s*\n(.*?)\n---\s*\n(.*)$`)

type frontmatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Catalog holds the skills loaded from the configured directories and the
// mode-inflected blend variants.
type Catalog struct {
	skills map[string]types.Skill
	blends map[string]types.Skill
	logger *zap.Logger
}

// Load scans cfg.Dirs in order and cfg.BlendDir. A skill in an earlier
// directory shadows one of the same name in a later directory. Missing
// directories are skipped; unreadable or malformed skill files are logged
// and skipped.
func Load(cfg types.SkillsConfig, logger *zap.Logger) (*Catalog, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Catalog{
		skills: make(map[string]types.Skill),
		blends: make(map[string]types.Skill),
		logger: logger,
	}
	for _, dir := range cfg.Dirs {
		if err := c.loadDir(dir, c.skills, skillFiles); err != nil {
			return nil, err
		}
	}
	if cfg.BlendDir != "" {
		if err := c.loadDir(cfg.BlendDir, c.blends, blendFiles); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// skillFiles returns the single <dir>/<name>/<NAME>.md file of a skill.
func skillFiles(skillDir string) []string {
	path := filepath.Join(skillDir, strings.ToUpper(filepath.Base(skillDir))+".md")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return []string{path}
}

// blendFiles returns every variant of a skill, e.g.
// excavate/EXCAVATE-CRITICAL.md.
func blendFiles(skillDir string) []string {
	matches, _ := filepath.Glob(filepath.Join(skillDir, "*.md"))
	sort.Strings(matches)
	return matches
}

func (c *Catalog) loadDir(dir string, into map[string]types.Skill, files func(string) []string) error {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		c.logger.Debug("skills directory missing", zap.String("dir", dir))
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading skills directory %s: %w", dir, err)
	}

	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		for _, path := range files(filepath.Join(dir, e.Name())) {
			skill, err := loadFile(path)
			if err != nil {
				c.logger.Warn("skipping skill file", zap.String("path", path), zap.Error(err))
				continue
			}
			if _, exists := into[skill.Name]; exists {
				continue
			}
			into[skill.Name] = skill
		}
	}
	return nil
}

func loadFile(path string) (types.Skill, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Skill{}, fmt.Errorf("reading %s: %w", path, err)
	}
	fm, body, err := splitFrontmatter(string(data))
	if err != nil {
		return types.Skill{}, err
	}
	if fm.Name == "" {
		return types.Skill{}, errors.New("frontmatter has no name")
	}
	return types.Skill{
		Name:        fm.Name,
		Description: fm.Description,
		Body:        strings.TrimSpace(body),
		Path:        path,
	}, nil
}

// splitFrontmatter separates the frontmatter from the body. Frontmatter
// that is not valid YAML (an unquoted colon in a description is common)
// is read as plain "key: value" lines.
func splitFrontmatter(content string) (frontmatter, string, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	m := frontmatterRe.FindStringSubmatch(content)
	if m == nil {
		return frontmatter{}, "", errors.New("missing frontmatter")
	}

	var fm frontmatter
	if err := yaml.Unmarshal([]byte(m[1]), &fm); err != nil {
		fm = lineFrontmatter(m[1])
	}
	return fm, m[2], nil
}

func lineFrontmatter(raw string) frontmatter {
	var fm frontmatter
	for _, line := range strings.Split(raw, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "name":
			fm.Name = strings.TrimSpace(value)
		case "description":
			fm.Description = strings.TrimSpace(value)
		}
	}
	return fm
}

// Get returns a skill by name, with or without the "@" prefix.
func (c *Catalog) Get(name string) (types.Skill, bool) {
	s, ok := c.skills[strings.TrimLeft(name, "@")]
	return s, ok
}

// GetWithMode returns the {name}-{mode} blend variant when one exists and
// the base skill otherwise.
func (c *Catalog) GetWithMode(name, mode string) (types.Skill, bool) {
	name = strings.TrimLeft(name, "@")
	if mode != "" {
		if s, ok := c.blends[name+"-"+strings.ToLower(mode)]; ok {
			return s, true
		}
	}
	return c.Get(name)
}

// List returns the skills in plan-building order.
func (c *Catalog) List() []types.Skill {
	rank := func(name string) int {
		for i, n := range listOrder {
			if n == name {
				return i
			}
		}
		return len(listOrder)
	}

	out := make([]types.Skill, 0, len(c.skills))
	for _, s := range c.skills {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := rank(out[i].Name), rank(out[j].Name)
		if ri != rj {
			return ri < rj
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Step is a chain invocation resolved to its skill.
type Step struct {
	Skill  types.Skill
	Params map[string]string
}

// Resolve maps every invocation in chain to a loaded skill. It fails on
// the first unknown name.
func (c *Catalog) Resolve(chain Chain) ([]Step, error) {
	steps := make([]Step, 0, len(chain.Invocations))
	for _, inv := range chain.Invocations {
		s, ok := c.GetWithMode(inv.Name, inv.Params["mode"])
		if !ok {
			return nil, fmt.Errorf("%w: @%s", ErrSkillNotFound, inv.Name)
		}
		steps = append(steps, Step{Skill: s, Params: inv.Params})
	}
	return steps, nil
}
