// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// mdHeadingRe matches "# Title" through "###### Title".
	mdHeadingRe = regexp.MustCompile(`^\s{0,3}#{1,6}\s+(.+?)\s*#*\s*$`)

	// capsLabelRe matches an ALL-CAPS label on its own line ("FAILURE MODES:").
	capsLabelRe = regexp.MustCompile(`^\s{0,3}([A-Z][A-Z0-9 /&',()-]*[A-Z0-9)])\s*:?\s*$`)

	// boldLineRe matches a line that is bold and nothing else.
	boldLineRe = regexp.MustCompile(`^\s{0,3}\*\*([^*\n]+?)\*\*\s*:?\s*$`)

	// anyAnchorRe matches every skill heading token; an anchored body ends
	// where another one starts.
	anyAnchorRe = regexp.MustCompile(`(?i)^(?:THESIS|ANTITHES[EI]S|CRUX(?:ES)?|ASSUMPTIONS?|FAILURE\s+MODES?|DIMENSIONS?|ALTERNATIVES|SYNTHESIS)\b`)
)

// section is a chunk of text under one heading. The preamble before the
// first heading has an empty heading.
type section struct {
	heading string
	body    string
}

// headingText returns the cleaned heading if line is a markdown heading or
// an ALL-CAPS label line.
func headingText(line string) (string, bool) {
	if m := mdHeadingRe.FindStringSubmatch(line); m != nil {
		return cleanTitle(m[1]), true
	}
	if m := capsLabelRe.FindStringSubmatch(line); m != nil && countLetters(m[1]) >= 3 {
		return cleanTitle(m[1]), true
	}
	return "", false
}

// isHeadingLike is the broader test the oracle uses: headings plus lines
// that are entirely bold.
func isHeadingLike(line string) bool {
	if _, ok := headingText(line); ok {
		return true
	}
	return boldLineRe.MatchString(line)
}

// splitSections splits text into sections at heading boundaries. Each
// section carries the heading text and the body up to the next heading.
func splitSections(text string) []section {
	var sections []section
	currentHeading := ""
	var bodyLines []string

	flush := func() {
		body := strings.Join(bodyLines, "\n")
		if currentHeading != "" || strings.TrimSpace(body) != "" {
			sections = append(sections, section{heading: currentHeading, body: body})
		}
		bodyLines = nil
	}

	for _, line := range strings.Split(text, "\n") {
		if heading, ok := headingText(line); ok {
			flush()
			currentHeading = heading
			continue
		}
		bodyLines = append(bodyLines, line)
	}

	flush()
	return sections
}

// hasHeadings reports whether any section carries a heading.
func hasHeadings(sections []section) bool {
	for _, s := range sections {
		if s.heading != "" {
			return true
		}
	}
	return false
}

// anchorMatch tests whether line is a heading-like line starting with
// token. A line qualifies when it is marked as a heading ("#" or "**") and
// the token matches case-insensitively, or when the token is written in
// capitals at the start of the line. It returns the cleaned heading and any
// text following the token and its ordinal on the same line:
// "## Crux 2: Pricing power" has inline text "Pricing power".
func anchorMatch(line string, token *regexp.Regexp) (heading, inline string, ok bool) {
	s := strings.TrimSpace(line)
	rest := strings.TrimLeft(s, "#")
	marked := len(rest) != len(s)
	rest = strings.TrimSpace(rest)
	if strings.HasPrefix(rest, "**") {
		marked = true
		rest = rest[2:]
	}

	loc := token.FindStringIndex(rest)
	if loc == nil || loc[0] != 0 {
		return "", "", false
	}
	word := rest[loc[0]:loc[1]]
	if !marked && word != strings.ToUpper(word) {
		return "", "", false
	}

	heading = truncateRunes(cleanTitle(stripInline(strings.TrimLeft(s, "# "))), titleLimit)
	inline = trimLeadDelim(stripOrdinal(stripInline(rest[loc[1]:])))
	return heading, inline, true
}

// anchoredSections returns every section introduced by token. A body runs
// until the next heading or the next skill heading of any kind.
func anchoredSections(text string, token *regexp.Regexp) []anchored {
	lines := strings.Split(text, "\n")
	var out []anchored
	for i := 0; i < len(lines); i++ {
		heading, inline, ok := anchorMatch(lines[i], token)
		if !ok {
			continue
		}
		var body []string
		j := i + 1
		for ; j < len(lines); j++ {
			if _, isHeading := headingText(lines[j]); isHeading {
				break
			}
			if _, _, isAnchor := anchorMatch(lines[j], anyAnchorRe); isAnchor {
				break
			}
			body = append(body, lines[j])
		}
		out = append(out, anchored{
			heading: heading,
			inline:  inline,
			body:    strings.TrimSpace(strings.Join(body, "\n")),
			start:   i,
			end:     j,
		})
		i = j - 1
	}
	return out
}

// anchored is a section found by a skill heading token. inline is the text
// on the heading line after the token, body the lines below it. start and
// end are the line range it covers, end exclusive.
type anchored struct {
	heading string
	inline  string
	body    string
	start   int
	end     int
}

// removeLines drops the line ranges covered by secs from text.
func removeLines(text string, secs []anchored) string {
	lines := strings.Split(text, "\n")
	drop := make([]bool, len(lines))
	for _, s := range secs {
		for i := s.start; i < s.end && i < len(lines); i++ {
			drop[i] = true
		}
	}
	var kept []string
	for i, l := range lines {
		if !drop[i] {
			kept = append(kept, l)
		}
	}
	return strings.Join(kept, "\n")
}

// stripOrdinal drops a leading ordinal ("2", "#3.", "1)") and spaces.
func stripOrdinal(s string) string {
	return strings.TrimLeftFunc(s, func(r rune) bool {
		return unicode.IsDigit(r) || unicode.IsSpace(r) || r == '#' || r == '.' || r == ')'
	})
}

func countLetters(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
