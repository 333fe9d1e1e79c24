// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Skill is a skill definition loaded from a markdown file with YAML
// frontmatter.
type Skill struct {
	// Name is the skill name without the "@" prefix.
	Name string `json:"name" yaml:"name"`

	// Description is the one-line summary from the frontmatter.
	Description string `json:"description" yaml:"description"`

	// Body is the procedural markdown body following the frontmatter.
	Body string `json:"-" yaml:"-"`

	// Path is the file the skill was loaded from.
	Path string `json:"path" yaml:"path"`
}

// DisplayName returns the name with the "@" prefix.
func (s Skill) DisplayName() string {
	return "@" + s.Name
}
