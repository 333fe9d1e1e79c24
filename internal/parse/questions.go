// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"regexp"
	"strings"

	"github.com/pdiddy/canvas-engine/pkg/types"
)

var (
	whyMattersRe = regexp.MustCompile(`(?i)^\s*(?:[-*+]\s+)?\**\s*why this matters\s*:?\s*\**\s*:?\s*(.*)$`)
	letteredRe   = regexp.MustCompile(`^\s*(?:[-*+]\s+)?\(?[a-eA-E][.)]\s+(\S.*?)\s*$`)
	questionRe   = regexp.MustCompile(`^\s*(?:[-*+]\s+|\d{1,3}[.)]\s+)?(.{10,}\?)\s*$`)
)

var questionsGrammar = grammar{
	{name: "numbered", fn: questionCards(numberedStart)},
	{name: "headings", fn: questionCards(questionHeadingStart)},
	{name: "bold", fn: questionCards(boldStart)},
	{name: "lines", fn: questionLines},
}

// questionCards builds an extractor that opens a question at every line
// start accepts and reads options and an explanation from its body.
func questionCards(start func(string) (string, bool)) func(string, *grammarContext) (extraction, bool) {
	return func(text string, gc *grammarContext) (extraction, bool) {
		items := filterNoise(scanItems(text, start, splitQuestionTitle))
		if len(items) == 0 {
			return extraction{}, false
		}
		subs := make([]types.Subsection, 0, len(items))
		for _, it := range items {
			options, content := questionDetails(it.body)
			s := gc.card(types.TypeQuestion, candidate{title: it.title, body: content})
			s.Options = options
			subs = append(subs, s)
		}
		return extraction{subs: subs}, true
	}
}

// questionLines cards every line that is itself a question. It is the last
// resort for responses with no list structure.
func questionLines(text string, gc *grammarContext) (extraction, bool) {
	var subs []types.Subsection
	for _, line := range strings.Split(text, "\n") {
		m := questionRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		title := cleanTitle(m[1])
		if isNoise(title) {
			continue
		}
		subs = append(subs, gc.card(types.TypeQuestion, candidate{title: title}))
	}
	return extraction{subs: subs}, len(subs) > 0
}

func questionHeadingStart(line string) (string, bool) {
	if m := mdHeadingRe.FindStringSubmatch(line); m != nil && strings.Contains(m[1], "?") {
		return m[1], true
	}
	return "", false
}

// splitQuestionTitle keeps a plain line containing "?" whole, so a colon
// inside the question ("Which platform: web or mobile?") does not split it.
func splitQuestionTitle(first string) (title, body string) {
	if boldLeadRe.MatchString(first) {
		return splitLeadTitle(first)
	}
	if strings.Contains(first, "?") {
		return cleanTitle(first), ""
	}
	return splitLeadTitle(first)
}

// questionDetails separates the answer options of a question from its
// explanation. The "Why this matters:" line is preferred as content; other
// prose is used when it is absent.
func questionDetails(body string) (options []string, content string) {
	var why, prose []string
	inWhy := false
	for _, line := range strings.Split(body, "\n") {
		if m := whyMattersRe.FindStringSubmatch(line); m != nil {
			inWhy = true
			if t := strings.TrimSpace(m[1]); t != "" {
				why = append(why, stripInline(t))
			}
			continue
		}
		if opt, ok := optionText(line); ok {
			inWhy = false
			options = append(options, opt)
			continue
		}
		t := strings.TrimSpace(line)
		if t == "" {
			inWhy = false
			continue
		}
		if inWhy {
			why = append(why, t)
		} else {
			prose = append(prose, t)
		}
	}
	if len(why) > 0 {
		return options, strings.Join(why, "\n")
	}
	return options, strings.Join(prose, "\n")
}

func optionText(line string) (string, bool) {
	for _, re := range []*regexp.Regexp{checkboxRe, letteredRe, bulletLineRe} {
		if m := re.FindStringSubmatch(line); m != nil {
			return cleanTitle(m[1]), true
		}
	}
	return "", false
}
