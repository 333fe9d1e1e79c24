// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/pdiddy/canvas-engine/pkg/types"
)

// extraction is what a successful extractor yields.
type extraction struct {
	main *types.Subsection
	subs []types.Subsection
}

func (e extraction) empty() bool {
	return e.main == nil && len(e.subs) == 0
}

// extractor is one fallible step of a grammar cascade.
type extractor struct {
	name string
	fn   func(text string, gc *grammarContext) (extraction, bool)
}

// grammar is an ordered cascade of extractors. The first one that succeeds
// produces the result.
type grammar []extractor

func (g grammar) run(text string, gc *grammarContext) extraction {
	for _, ex := range g {
		res, ok := ex.fn(text, gc)
		if !ok || res.empty() {
			continue
		}
		gc.logger.Debug("grammar matched",
			zap.String("skill", string(gc.skill)),
			zap.String("extractor", ex.name),
			zap.Int("cards", len(res.subs)),
			zap.Bool("main", res.main != nil))
		return res
	}
	return extraction{}
}

// grammarContext carries per-parse state through a cascade.
type grammarContext struct {
	skill           types.SkillKind
	ids             *IDGenerator
	logger          *zap.Logger
	strengthDefault types.Strength

	// droppedContext is set when the generic grammar discards a
	// background or summary section, so the safety net does not
	// resurrect it.
	droppedContext bool

	usedIDs map[string]int
}

func newGrammarContext(skill types.SkillKind, ids *IDGenerator, logger *zap.Logger, strength types.Strength) *grammarContext {
	return &grammarContext{
		skill:           skill,
		ids:             ids,
		logger:          logger,
		strengthDefault: strength,
		usedIDs:         make(map[string]int),
	}
}

// card builds a subsection of type t from c. Question cards get a
// persistent ID; a title repeated within one response gets a numeric
// suffix so IDs stay unique. Other cards get importance from the
// classifier.
func (gc *grammarContext) card(t types.SubsectionType, c candidate) types.Subsection {
	s := types.Subsection{
		Type:    t,
		Title:   c.title,
		Content: c.body,
	}
	if t == types.TypeQuestion {
		s.ID = gc.questionID(c.title)
		return s
	}
	s.ID = gc.ids.Next(t)
	s.Importance = ClassifyImportance(c.title, c.body)
	return s
}

func (gc *grammarContext) questionID(title string) string {
	id := QuestionID(title, gc.skill)
	gc.usedIDs[id]++
	if n := gc.usedIDs[id]; n > 1 {
		return id + "_" + strconv.Itoa(n)
	}
	return id
}

// cards maps candidates to subsections of one type.
func (gc *grammarContext) cards(t types.SubsectionType, items []candidate) []types.Subsection {
	return gc.decorated(t, items, nil)
}

// decorated maps candidates to subsections of one type and applies post to
// each, when set.
func (gc *grammarContext) decorated(t types.SubsectionType, items []candidate, post func(*grammarContext, *types.Subsection)) []types.Subsection {
	out := make([]types.Subsection, 0, len(items))
	for _, it := range items {
		s := gc.card(t, it)
		if post != nil {
			post(gc, &s)
		}
		out = append(out, s)
	}
	return out
}

// flatCascade is the fallback every grammar ends with: numbered items,
// then bold headers, then bullets, all of type t.
func flatCascade(t types.SubsectionType) grammar {
	return flatCascadeWith(t, nil)
}

func flatCascadeWith(t types.SubsectionType, post func(*grammarContext, *types.Subsection)) grammar {
	return grammar{
		{name: "numbered", fn: itemsWith(t, numberedItems, post)},
		{name: "bold", fn: itemsWith(t, boldHeaders, post)},
		{name: "bullets", fn: itemsWith(t, bulletItems, post)},
	}
}

func itemsOf(t types.SubsectionType, find func(string) []candidate) func(string, *grammarContext) (extraction, bool) {
	return itemsWith(t, find, nil)
}

func itemsWith(t types.SubsectionType, find func(string) []candidate, post func(*grammarContext, *types.Subsection)) func(string, *grammarContext) (extraction, bool) {
	return func(text string, gc *grammarContext) (extraction, bool) {
		items := find(text)
		if len(items) == 0 {
			return extraction{}, false
		}
		return extraction{subs: gc.decorated(t, items, post)}, true
	}
}

// registry maps a skill kind to its grammar. Kinds not listed use the
// generic grammar.
var registry = map[types.SkillKind]grammar{
	types.SkillAntithesize:      antithesizeGrammar,
	types.SkillExcavate:         excavateGrammar,
	types.SkillStressify:        stressifyGrammar,
	types.SkillSimulate:         flatCascade(types.TypeSimulationStep),
	types.SkillDiverge:          divergeGrammar,
	types.SkillNegspace:         flatCascade(types.TypeNegspace),
	types.SkillMetaphorize:      flatCascade(types.TypeMetaphor),
	types.SkillRhyme:            flatCascade(types.TypeRhyme),
	types.SkillSynthesize:       flatCascade(types.TypeSynthesis),
	types.SkillAskUserQuestions: questionsGrammar,
}

// grammarFor returns the grammar registered for kind, or the generic one.
func grammarFor(kind types.SkillKind) grammar {
	if g, ok := registry[kind]; ok {
		return g
	}
	return genericGrammar
}

// KnownSkill reports whether kind has a dedicated grammar.
func KnownSkill(kind types.SkillKind) bool {
	_, ok := registry[kind]
	return ok
}
