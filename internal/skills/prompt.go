// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package skills

import (
	"fmt"
	"strings"

	"github.com/pdiddy/canvas-engine/pkg/types"
)

// BuildPrompt wraps the skill body, its parameters and the user context in
// the tagged layout skills are run with. Parameters are listed in key
// order; the section is omitted when there are none.
func BuildPrompt(skill types.Skill, context string, params map[string]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<skill name=%q>\n%s\n</skill>\n", skill.Name, skill.Body)
	if len(params) > 0 {
		b.WriteString("\n<parameters>\n")
		for _, k := range sortedKeys(params) {
			fmt.Fprintf(&b, "- %s: %s\n", k, params[k])
		}
		b.WriteString("</parameters>\n")
	}
	fmt.Fprintf(&b, "\n<context>\n%s\n</context>\n\n", context)
	fmt.Fprintf(&b, "apply the %s skill above to the context. follow the skill's process exactly.", skill.Name)
	return b.String()
}
