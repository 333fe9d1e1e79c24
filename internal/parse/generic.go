// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"regexp"
	"strings"

	"github.com/pdiddy/canvas-engine/pkg/types"
)

// headingRole is what a heading says about the section under it.
type headingRole int

const (
	roleSection headingRole = iota
	roleContext
	roleQuestion
	roleProposal
	roleAlternative
)

// Role patterns are tried in order. Context headings are dropped entirely.
var roleRules = []struct {
	role headingRole
	re   *regexp.Regexp
}{
	{roleContext, regexp.MustCompile(`(?i)^(?:background|overview|introduction|intro|summary|context|preamble|tl;?dr)\b`)},
	{roleQuestion, regexp.MustCompile(`(?i)(\bquestions?\b|\bclarif|\?\s*$|\bunknowns?\b|\bopen issues\b)`)},
	{roleProposal, regexp.MustCompile(`(?i)\b(proposals?|proposed|recommend\w*|plan|next steps|actions?|suggest\w*|decisions?)\b`)},
	{roleAlternative, regexp.MustCompile(`(?i)\b(alternatives?|options|approaches|paths|choices|variants)\b`)},
}

var roleTypes = map[headingRole]types.SubsectionType{
	roleSection:     types.TypeGeneric,
	roleQuestion:    types.TypeQuestion,
	roleProposal:    types.TypeProposal,
	roleAlternative: types.TypeAlternative,
}

var genericGrammar = grammar{
	{name: "headings", fn: extractHeadings},
	{name: "numbered", fn: withoutContext(itemsOf(types.TypeGeneric, numberedItems))},
	{name: "bold", fn: withoutContext(itemsOf(types.TypeGeneric, boldHeaders))},
	{name: "bullets", fn: withoutContext(itemsOf(types.TypeGeneric, bulletItems))},
}

func classifyHeading(heading string) headingRole {
	for _, r := range roleRules {
		if r.re.MatchString(heading) {
			return r.role
		}
	}
	return roleSection
}

func (r headingRole) actionable() bool {
	return r == roleQuestion || r == roleProposal || r == roleAlternative
}

// extractHeadings cards each retained section by the items in its body:
// every item when there are two or more, one card for a single item, and
// the section itself when an actionable heading has no items.
func extractHeadings(text string, gc *grammarContext) (extraction, bool) {
	sections := splitSections(text)
	if !hasHeadings(sections) {
		return extraction{}, false
	}

	var res extraction
	for _, sec := range sections {
		role := classifyHeading(sec.heading)
		if role == roleContext {
			gc.droppedContext = true
			continue
		}
		t := roleTypes[role]
		items := bodyItems(sec.body)

		switch {
		case len(items) >= 2:
			res.subs = append(res.subs, gc.cards(t, items)...)
		case len(items) == 1 && role.actionable():
			res.subs = append(res.subs, gc.card(t, items[0]))
		case len(items) == 1:
			title := sec.heading
			if title == "" {
				title = items[0].title
			}
			s := gc.card(types.TypeSection, candidate{title: title, body: strings.TrimSpace(sec.body)})
			s.Collapsed = true
			res.subs = append(res.subs, s)
		case role.actionable() && strings.TrimSpace(sec.body) != "":
			res.subs = append(res.subs, gc.card(t, candidate{title: sec.heading, body: strings.TrimSpace(sec.body)}))
		}
	}
	return res, !res.empty()
}

// withoutContext runs fn on text with the context sections removed.
func withoutContext(fn func(string, *grammarContext) (extraction, bool)) func(string, *grammarContext) (extraction, bool) {
	return func(text string, gc *grammarContext) (extraction, bool) {
		return fn(stripContext(text), gc)
	}
}

func stripContext(text string) string {
	sections := splitSections(text)
	if !hasHeadings(sections) {
		return text
	}
	var kept []string
	for _, sec := range sections {
		if classifyHeading(sec.heading) == roleContext {
			continue
		}
		if sec.heading != "" {
			kept = append(kept, "## "+sec.heading)
		}
		kept = append(kept, sec.body)
	}
	return strings.Join(kept, "\n")
}
