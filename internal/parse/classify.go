// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"regexp"
	"strings"

	"github.com/pdiddy/canvas-engine/pkg/types"
)

// classifyWindow is how much of title+body the classifiers look at.
const classifyWindow = 200

// Explicit labels ("Importance: high", "[HIGH]") win over keyword matches.
var (
	importanceLabelRe = regexp.MustCompile(`(?i)\b(?:importance|severity|priority|impact)\s*[:=]?\s*\**\s*(critical|high|medium|moderate|low)\b`)
	importanceTagRe   = regexp.MustCompile(`(?i)[\[(]\s*(critical|high|medium|low)\s*[\])]`)
	strengthLabelRe   = regexp.MustCompile(`(?i)\bstrength\s*[:=]?\s*\**\s*(strong|moderate|medium|weak)\b`)
)

type importanceRule struct {
	level types.Importance
	re    *regexp.Regexp
}

// importanceRules are tried in order; the first category that matches wins.
var importanceRules = []importanceRule{
	{types.ImportanceHigh, regexp.MustCompile(`(?i)\b(critical|fatal|catastrophic|severe|blocker|blocking|essential|crucial|existential|showstopper)\b`)},
	{types.ImportanceMedium, regexp.MustCompile(`(?i)\b(significant|moderate|important|notable|meaningful|considerable)\b`)},
	{types.ImportanceLow, regexp.MustCompile(`(?i)\b(minor|trivial|cosmetic|nice[- ]to[- ]have|marginal|negligible|edge[- ]case)\b`)},
}

type strengthRule struct {
	level types.Strength
	re    *regexp.Regexp
}

var strengthRules = []strengthRule{
	{types.StrengthStrong, regexp.MustCompile(`(?i)\b(strong(?:est|ly)?|compelling|devastating|decisive|fundamental|undermines|fatal)\b`)},
	{types.StrengthModerate, regexp.MustCompile(`(?i)\b(moderate(?:ly)?|partial(?:ly)?|reasonable|plausible|some merit|in part)\b`)},
	{types.StrengthWeak, regexp.MustCompile(`(?i)\b(weak(?:er|est|ly)?|speculative|tenuous|unlikely|far[- ]fetched|minor)\b`)},
}

type antithesisRule struct {
	tag types.Tag
	re  *regexp.Regexp
}

// antithesisRules covers the six antithesis categories.
var antithesisRules = []antithesisRule{
	{types.Tag{Label: "Counterexample", Color: "#ef4444"}, regexp.MustCompile(`(?i)(counter-?examples?|\bcases? where\b|\bevidence (?:shows|suggests)\b|\bin practice\b|\bhistorically\b)`)},
	{types.Tag{Label: "Premise", Color: "#f59e0b"}, regexp.MustCompile(`(?i)(\bpremise|\bassum|\bpresuppos|\btakes? for granted\b|\bfoundation)`)},
	{types.Tag{Label: "Consequence", Color: "#8b5cf6"}, regexp.MustCompile(`(?i)(\bconsequences?\b|\bleads? to\b|\bresults? in\b|\bside[- ]effects?\b|\bdownstream\b|\bbackfire|\bsecond[- ]order\b)`)},
	{types.Tag{Label: "Alternative", Color: "#3b82f6"}, regexp.MustCompile(`(?i)(\balternatives?\b|\binstead\b|\brather than\b|\bbetter option\b|\bthird way\b)`)},
	{types.Tag{Label: "Scope", Color: "#10b981"}, regexp.MustCompile(`(?i)(\bscope\b|\bonly applies\b|\bedge[- ]cases?\b|\bgenerali[sz]|\bnot always\b|\bboundar)`)},
	{types.Tag{Label: "Values", Color: "#ec4899"}, regexp.MustCompile(`(?i)(\bvalues?\b|\bethic|\bpriorit|\btrade-?offs?\b|\bfairness\b|\bmoral)`)},
}

// ClassifyImportance returns the importance signalled by title and body, or
// "" when nothing matches. Callers apply their own default.
func ClassifyImportance(title, body string) types.Importance {
	s := classifyText(title, body)
	if m := importanceLabelRe.FindStringSubmatch(s); m != nil {
		return importanceLevel(m[1])
	}
	if m := importanceTagRe.FindStringSubmatch(s); m != nil {
		return importanceLevel(m[1])
	}
	for _, r := range importanceRules {
		if r.re.MatchString(s) {
			return r.level
		}
	}
	return ""
}

func importanceLevel(word string) types.Importance {
	switch strings.ToLower(word) {
	case "critical", "high":
		return types.ImportanceHigh
	case "medium", "moderate":
		return types.ImportanceMedium
	default:
		return types.ImportanceLow
	}
}

// ClassifyStrength returns the argument strength signalled by title and
// body, or "" when nothing matches.
func ClassifyStrength(title, body string) types.Strength {
	s := classifyText(title, body)
	if m := strengthLabelRe.FindStringSubmatch(s); m != nil {
		switch strings.ToLower(m[1]) {
		case "strong":
			return types.StrengthStrong
		case "weak":
			return types.StrengthWeak
		default:
			return types.StrengthModerate
		}
	}
	for _, r := range strengthRules {
		if r.re.MatchString(s) {
			return r.level
		}
	}
	return ""
}

// ClassifyAntithesisType returns the tag for the first antithesis category
// matching title and body.
func ClassifyAntithesisType(title, body string) (types.Tag, bool) {
	s := classifyText(title, body)
	for _, r := range antithesisRules {
		if r.re.MatchString(s) {
			return r.tag, true
		}
	}
	return types.Tag{}, false
}

func classifyText(title, body string) string {
	return truncateRunes(title+"\n"+body, classifyWindow)
}
