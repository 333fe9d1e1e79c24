// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Title split limits, in runes.
const (
	titleLimit         = 80
	colonTitleLimit    = 80
	sentenceTitleLimit = 100
)

var (
	numberedLineRe = regexp.MustCompile(`^\s{0,3}\d{1,3}[.)]\s+(\S.*?)\s*$`)
	bulletLineRe   = regexp.MustCompile(`^\s*[-*+•]\s+(\S.*?)\s*$`)
	checkboxRe     = regexp.MustCompile(`^\s*(?:[-*+]\s+)?\[[ xX]?\]\s+(\S.*?)\s*$`)

	// boldLeadRe matches a line opening with a bold span, optionally as a
	// list item: "**Title**: body", "- **Title** - body".
	boldLeadRe = regexp.MustCompile(`^\s*(?:[-*+]\s+)?\*\*([^*\n]+?)\*\*(.*)$`)

	// noiseRe matches titles that echo the skill's own instructions rather
	// than carry content: bare "Step 3", "Phase 2: Identify ...", "Generate 5 ...".
	// A leading verb alone is not noise ("Return on investment"); it needs a
	// determiner or count after it to read as an instruction.
	noiseRe = regexp.MustCompile(`(?i)^(?:(?:step|phase|stage|part)\s*\d+\s*[:.)-]?\s*$|(?:step|phase|stage)\s*\d+\s*[:.)-]\s*(?:identify|generate|list|output|apply|produce|format|analy[sz]e|consider|review|summari[sz]e|return)\b|(?:identify|generate|list|output|produce|format|return)\s+(?:the|all|each|every|a|an|your|\d+)\b)`)

	inlineMarkup = strings.NewReplacer("**", "", "__", "", "`", "")
)

// candidate is an item found in text before it becomes a typed card.
type candidate struct {
	title string
	body  string
}

// numberedItems extracts "<n>. <title> <colon-or-newline> <body>" items. A
// body extends to the next numbered item, the next heading, or the end.
func numberedItems(text string) []candidate {
	return filterNoise(scanItems(text, numberedStart, splitLeadTitle))
}

// boldHeaders extracts "**Title**: body" and "**Title**\nbody" pairs.
func boldHeaders(text string) []candidate {
	return filterNoise(scanItems(text, boldStart, splitLeadTitle))
}

func numberedStart(line string) (string, bool) {
	if m := numberedLineRe.FindStringSubmatch(line); m != nil {
		return m[1], true
	}
	return "", false
}

func boldStart(line string) (string, bool) {
	if boldLeadRe.MatchString(line) {
		return line, true
	}
	return "", false
}

// scanItems walks text line by line. A line accepted by start opens an
// item whose first line split turns into title and inline body; following
// lines join the body until the next item or heading.
func scanItems(text string, start func(string) (string, bool), split func(string) (string, string)) []candidate {
	var items []candidate
	var first string
	var rest []string
	open := false

	flush := func() {
		if open {
			title, inline := split(first)
			items = append(items, candidate{title: title, body: joinBody(inline, rest)})
		}
		open = false
		rest = nil
	}

	for _, line := range strings.Split(text, "\n") {
		if f, ok := start(line); ok {
			flush()
			first, open = f, true
			continue
		}
		if _, ok := headingText(line); ok {
			flush()
			continue
		}
		if open {
			rest = append(rest, line)
		}
	}
	flush()
	return items
}

// bulletItems extracts one item per "- body" or "* body" line. Indented
// continuation lines join the preceding bullet.
func bulletItems(text string) []candidate {
	var items []candidate
	for _, line := range strings.Split(text, "\n") {
		if m := bulletLineRe.FindStringSubmatch(line); m != nil {
			item := m[1]
			if cm := checkboxRe.FindStringSubmatch(line); cm != nil {
				item = cm[1]
			}
			title, body := splitInlineTitle(stripInline(item))
			items = append(items, candidate{title: title, body: body})
			continue
		}
		if len(items) > 0 && strings.TrimSpace(line) != "" && strings.HasPrefix(line, " ") {
			last := &items[len(items)-1]
			last.body = joinBody(last.body, []string{strings.TrimSpace(line)})
		}
	}
	return filterNoise(items)
}

// bodyItems runs the in-body cascade: numbered items, else bold headers,
// else bullets.
func bodyItems(body string) []candidate {
	if items := numberedItems(body); len(items) > 0 {
		return items
	}
	if items := boldHeaders(body); len(items) > 0 {
		return items
	}
	return bulletItems(body)
}

// splitLeadTitle splits the first line of an item. A leading bold span is
// the title; the body starts after a colon or after "** - ". A hyphen
// inside the bold span is part of the title.
func splitLeadTitle(line string) (title, body string) {
	if m := boldLeadRe.FindStringSubmatch(line); m != nil {
		return cleanTitle(m[1]), afterBold(m[2])
	}
	return splitInlineTitle(stripInline(line))
}

// afterBold returns the text after a closing "**", minus a ":" or a
// spaced dash separator.
func afterBold(rest string) string {
	trimmed := strings.TrimLeft(rest, " \t")
	if strings.HasPrefix(trimmed, ":") {
		return strings.TrimSpace(trimmed[1:])
	}
	if len(trimmed) < len(rest) {
		return trimLeadDelim(trimmed)
	}
	return strings.TrimSpace(rest)
}

// splitInlineTitle splits plain text into title and body: at the first
// colon if it occurs within colonTitleLimit, else at the first sentence
// boundary within sentenceTitleLimit, else the title is the text cut at
// titleLimit and the body keeps the full text.
func splitInlineTitle(line string) (title, body string) {
	line = strings.TrimSpace(line)
	if i := strings.Index(line, ":"); i > 0 && utf8.RuneCountInString(line[:i]) <= colonTitleLimit && !strings.HasPrefix(line[i:], "://") {
		return cleanTitle(line[:i]), strings.TrimSpace(line[i+1:])
	}
	if i := sentenceBoundary(line); i > 0 && utf8.RuneCountInString(line[:i]) <= sentenceTitleLimit {
		return cleanTitle(strings.TrimSuffix(line[:i+1], ".")), strings.TrimSpace(line[i+1:])
	}
	if utf8.RuneCountInString(line) <= titleLimit {
		return cleanTitle(line), ""
	}
	return cleanTitle(truncateRunes(line, titleLimit)), line
}

// sentenceBoundary returns the index of the first ".", "?" or "!" that is
// followed by a space, or -1.
func sentenceBoundary(s string) int {
	for i := 0; i+1 < len(s); i++ {
		switch s[i] {
		case '.', '?', '!':
			if s[i+1] == ' ' {
				return i
			}
		}
	}
	return -1
}

// trimLeadDelim removes a leading ":" or a dash followed by a space.
func trimLeadDelim(s string) string {
	t := strings.TrimSpace(s)
	if strings.HasPrefix(t, ":") {
		return strings.TrimSpace(t[1:])
	}
	for _, dash := range []string{"-", "–", "—"} {
		if t == dash || strings.HasPrefix(t, dash+" ") {
			return strings.TrimSpace(t[len(dash):])
		}
	}
	return t
}

// splitBullets separates up to max bullet lines from the prose in body.
// Bullets come back without their markers; any beyond max stay in prose.
func splitBullets(body string, max int) (prose string, bullets []string) {
	var kept []string
	for _, line := range strings.Split(body, "\n") {
		m := bulletLineRe.FindStringSubmatch(line)
		if m == nil || len(bullets) >= max {
			kept = append(kept, line)
			continue
		}
		bullets = append(bullets, strings.TrimSpace(stripInline(m[1])))
	}
	return strings.TrimSpace(strings.Join(kept, "\n")), bullets
}

func filterNoise(items []candidate) []candidate {
	kept := items[:0]
	for _, it := range items {
		if it.title == "" || isNoise(it.title) {
			continue
		}
		kept = append(kept, it)
	}
	return kept
}

func isNoise(title string) bool {
	return noiseRe.MatchString(strings.TrimSpace(title))
}

// cleanTitle strips emphasis markers, a trailing colon and surrounding
// whitespace.
func cleanTitle(s string) string {
	s = stripInline(s)
	s = strings.Trim(s, " \t*_")
	s = strings.TrimSuffix(s, ":")
	return strings.TrimSpace(s)
}

func stripInline(s string) string {
	return inlineMarkup.Replace(s)
}

func joinBody(inline string, rest []string) string {
	parts := make([]string, 0, len(rest)+1)
	if strings.TrimSpace(inline) != "" {
		parts = append(parts, strings.TrimSpace(inline))
	}
	parts = append(parts, rest...)
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
