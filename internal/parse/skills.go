// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"regexp"

	"github.com/pdiddy/canvas-engine/pkg/types"
)

// maxAssumptions caps the bullets lifted into a card's Assumptions.
const maxAssumptions = 6

// maxChildren caps the bullets turned into child cards of a dimension.
const maxChildren = 12

// Skill heading tokens. Each is matched at the start of a heading-like line.
var (
	thesisRe       = regexp.MustCompile(`(?i)^THESIS\b`)
	antithesesRe   = regexp.MustCompile(`(?i)^ANTITHES[EI]S\b`)
	cruxRe         = regexp.MustCompile(`(?i)^CRUX(?:ES)?\b`)
	assumptionsRe  = regexp.MustCompile(`(?i)^ASSUMPTIONS?\b`)
	failureModesRe = regexp.MustCompile(`(?i)^FAILURE\s+MODES?\b`)
	dimensionsRe   = regexp.MustCompile(`(?i)^DIMENSIONS?\b`)
	alternativesRe = regexp.MustCompile(`(?i)^(?:ALTERNATIVES|OPTIONS)\b`)
)

var antithesizeGrammar = append(grammar{
	{name: "thesis-antitheses", fn: extractAntithesize},
}, flatCascadeWith(types.TypeAntithesis, decorateAntithesis)...)

var excavateGrammar = grammar{
	{name: "crux-assumptions", fn: extractExcavate},
	{name: "numbered", fn: itemsWith(types.TypeCrux, numberedItems, liftAssumptions)},
	{name: "bold", fn: itemsWith(types.TypeCrux, boldHeaders, liftAssumptions)},
	{name: "bullets", fn: itemsOf(types.TypeAssumption, bulletItems)},
}

var stressifyGrammar = append(grammar{
	{name: "failure-modes", fn: anchoredOnly(failureModesRe, types.TypeFailureMode, nil)},
}, flatCascade(types.TypeFailureMode)...)

var divergeGrammar = append(grammar{
	{name: "dimensions-alternatives", fn: extractDiverge},
}, flatCascade(types.TypeAlternative)...)

// extractAntithesize takes the THESIS section as main content and cards the
// ANTITHESES section. Without an ANTITHESES heading, items anywhere after
// the thesis count as antitheses.
func extractAntithesize(text string, gc *grammarContext) (extraction, bool) {
	var res extraction
	rest := text

	if theses := anchoredSections(text, thesisRe); len(theses) > 0 {
		th := theses[0]
		content := th.body
		if content == "" {
			content = th.inline
		}
		res.main = &types.Subsection{
			ID:      gc.ids.Next(types.TypeThesis),
			Type:    types.TypeThesis,
			Title:   th.heading,
			Content: content,
		}
		rest = removeLines(text, theses[:1])
	}

	var items []candidate
	if secs := anchoredSections(rest, antithesesRe); len(secs) > 0 {
		items = anchoredItems(secs)
	} else if res.main != nil {
		items = bodyItems(rest)
	}
	res.subs = gc.decorated(types.TypeAntithesis, items, decorateAntithesis)
	return res, !res.empty()
}

// decorateAntithesis tags an antithesis card with its category and strength.
func decorateAntithesis(gc *grammarContext, s *types.Subsection) {
	if tag, ok := ClassifyAntithesisType(s.Title, s.Content); ok {
		s.Tags = append(s.Tags, tag)
	}
	s.Strength = ClassifyStrength(s.Title, s.Content)
	if s.Strength == "" {
		s.Strength = gc.strengthDefault
	}
}

// extractExcavate cards the CRUX and ASSUMPTIONS sections.
func extractExcavate(text string, gc *grammarContext) (extraction, bool) {
	var res extraction
	res.subs = gc.decorated(types.TypeCrux, anchoredItems(anchoredSections(text, cruxRe)), liftAssumptions)
	res.subs = append(res.subs, gc.decorated(types.TypeAssumption, anchoredItems(anchoredSections(text, assumptionsRe)), liftAssumptions)...)
	return res, !res.empty()
}

// liftAssumptions moves bullet lines out of the content into Assumptions.
func liftAssumptions(_ *grammarContext, s *types.Subsection) {
	prose, bullets := splitBullets(s.Content, maxAssumptions)
	if len(bullets) == 0 {
		return
	}
	s.Content = prose
	s.Assumptions = bullets
}

// extractDiverge cards DIMENSIONS, with each dimension's bullets as child
// alternatives, and the ALTERNATIVES section.
func extractDiverge(text string, gc *grammarContext) (extraction, bool) {
	var res extraction
	for _, it := range anchoredItems(anchoredSections(text, dimensionsRe)) {
		s := gc.card(types.TypeDimension, it)
		prose, bullets := splitBullets(s.Content, maxChildren)
		if len(bullets) > 0 {
			s.Content = prose
			for _, b := range bullets {
				title, body := splitInlineTitle(b)
				s.Children = append(s.Children, gc.card(types.TypeAlternative, candidate{title: title, body: body}))
			}
		}
		res.subs = append(res.subs, s)
	}
	for _, it := range anchoredItems(anchoredSections(text, alternativesRe)) {
		res.subs = append(res.subs, gc.card(types.TypeAlternative, it))
	}
	return res, !res.empty()
}

// anchoredItems turns anchored sections into candidates. A heading that
// carries its own text ("Crux 2: Pricing power") is one item; a bare
// heading ("CRUXES") contributes the items found in its body.
func anchoredItems(secs []anchored) []candidate {
	var items []candidate
	for _, sec := range secs {
		if sec.inline != "" {
			title, body := splitInlineTitle(sec.inline)
			items = append(items, candidate{title: title, body: joinBody(body, []string{sec.body})})
			continue
		}
		items = append(items, bodyItems(sec.body)...)
	}
	return filterNoise(items)
}

// anchoredOnly builds an extractor that cards the sections under token.
func anchoredOnly(token *regexp.Regexp, t types.SubsectionType, post func(*grammarContext, *types.Subsection)) func(string, *grammarContext) (extraction, bool) {
	return func(text string, gc *grammarContext) (extraction, bool) {
		items := anchoredItems(anchoredSections(text, token))
		if len(items) == 0 {
			return extraction{}, false
		}
		return extraction{subs: gc.decorated(t, items, post)}, true
	}
}
