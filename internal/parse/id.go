// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
	"unicode"

	"github.com/pdiddy/canvas-engine/pkg/types"
)

// questionIDPrefix marks IDs that key persisted answers.
const questionIDPrefix = "q_"

// IDGenerator hands out card IDs that are unique within a process. They
// combine a counter with a millisecond timestamp and are not stable across
// re-parses; question cards use QuestionID instead. The caller owns the
// generator and decides its lifetime.
type IDGenerator struct {
	counter atomic.Uint64
	now     func() time.Time
}

// NewIDGenerator returns a generator backed by the wall clock.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{now: time.Now}
}

// Next returns a fresh ID for a card of type t.
func (g *IDGenerator) Next(t types.SubsectionType) string {
	n := g.counter.Add(1)
	now := time.Now
	if g.now != nil {
		now = g.now
	}
	return fmt.Sprintf("%s_%d_%s", t, n, strconv.FormatInt(now().UnixMilli(), 36))
}

// QuestionID returns the persistent ID for a question card. It is a pure
// function of the normalized title and the skill kind: identical text yields
// the identical ID in every session. The hash is 64-bit FNV-1a encoded in
// base 36.
func QuestionID(title string, skill types.SkillKind) string {
	h := fnv.New64a()
	h.Write([]byte(normalizeTitle(title)))
	h.Write([]byte{'|'})
	h.Write([]byte(skill))
	return questionIDPrefix + strconv.FormatUint(h.Sum64(), 36)
}

// IsQuestionID reports whether id was produced by QuestionID.
func IsQuestionID(id string) bool {
	return strings.HasPrefix(id, questionIDPrefix)
}

// normalizeTitle lower-cases the title, drops markdown emphasis and
// collapses every run of non-alphanumeric characters into one space, so
// cosmetic changes ("**Budget?**" vs "budget") keep the same identity.
func normalizeTitle(title string) string {
	var b strings.Builder
	pendingSpace := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		pendingSpace = true
	}
	return b.String()
}
