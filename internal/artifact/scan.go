// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package artifact

import (
	"regexp"
	"sort"
	"strings"
)

// fencedRe matches a fenced code block tagged json, or untagged.
var fencedRe = regexp.MustCompile("(?s)```(?:json|JSON)?[ \\t]*\\n(.*?)\\n?[ \\t]*```")

// fencedBlocks returns the bodies of fenced code blocks in s, in order.
func fencedBlocks(s string) []string {
	var blocks []string
	for _, m := range fencedRe.FindAllStringSubmatch(s, -1) {
		if b := strings.TrimSpace(m[1]); strings.HasPrefix(b, "{") {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

// findObjects returns every top-level {...} span in s. Braces inside JSON
// strings, including escaped quotes, do not count. ASCII delimiters never
// occur inside multi-byte UTF-8 sequences, so byte iteration is safe.
func findObjects(s string) []string {
	var objects []string
	depth := 0
	start := -1
	inString := false
	escape := false

	for i := 0; i < len(s); i++ {
		b := s[i]
		if escape {
			escape = false
			continue
		}
		if inString {
			switch b {
			case '\\':
				escape = true
			case '"':
				inString = false
			}
			continue
		}

		switch b {
		case '"':
			// Quotes only open strings inside an object; prose apostrophes
			// and stray quotes outside braces are ignored.
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 && start >= 0 {
				objects = append(objects, s[start:i+1])
				start = -1
			}
		}
	}
	return objects
}

// JSONCandidates lists the JSON object texts found in text, most explicit
// first: fenced blocks, the whole text, then embedded objects from largest
// to smallest. Duplicates are dropped.
func JSONCandidates(text string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(c string) {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			return
		}
		seen[c] = true
		out = append(out, c)
	}

	for _, b := range fencedBlocks(text) {
		add(b)
	}
	if t := strings.TrimSpace(text); strings.HasPrefix(t, "{") {
		add(t)
	}
	objs := findObjects(text)
	sort.SliceStable(objs, func(i, j int) bool { return len(objs[i]) > len(objs[j]) })
	for _, o := range objs {
		add(o)
	}
	return out
}
