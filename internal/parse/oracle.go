// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"regexp"
	"strings"

	"github.com/pdiddy/canvas-engine/internal/artifact"
)

var (
	// numberedStructRe wants at least ten characters after the marker, so
	// "1. ok" or a stray "2)" in prose does not count.
	numberedStructRe = regexp.MustCompile(`(?m)^\s{0,3}\d{1,3}[.)]\s+\S.{9,}`)

	keywordHeadingRe = regexp.MustCompile(`(?im)^\s{0,3}(?:#{1,6}\s*|\*\*\s*)(?:THESIS|ANTITHES[EI]S|CRUX(?:ES)?|FAILURE\s+MODES?)\b`)
	keywordCapsRe    = regexp.MustCompile(`(?m)^\s{0,3}(?:THESIS|ANTITHES[EI]S|CRUX(?:ES)?|FAILURE\s+MODES?)\b`)

	// questionPhraseRe matches the fixed phrasing of clarifying questions.
	questionPhraseRe = regexp.MustCompile(`(?im)^\s*(?:[-*+]\s+)?(?:\**\s*why this matters\s*:|\[[ xX]?\]\s+\S|\**\s*(?:Q\d{1,2}\s*[.:)]|Question\s+\d{1,2}\s*:))`)
)

// IsStructured reports whether text has list or section structure worth
// rendering as cards. Topic words alone ("pattern", "rhyme", "echo") never
// count; only numbered items, skill headings, heading lines, a canvas
// artifact or the clarifying-question phrasing do.
func IsStructured(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	if numberedStructRe.MatchString(text) {
		return true
	}
	if keywordHeadingRe.MatchString(text) || keywordCapsRe.MatchString(text) {
		return true
	}
	if countHeadingLike(text) >= 2 {
		return true
	}
	if _, ok := artifact.Extract(text); ok {
		return true
	}
	return questionPhraseRe.MatchString(text)
}

func countHeadingLike(text string) int {
	n := 0
	for _, line := range strings.Split(text, "\n") {
		if isHeadingLike(line) {
			n++
		}
	}
	return n
}
