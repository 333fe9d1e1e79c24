// Package parse recovers typed cards from loosely structured skill output.
// Each skill kind has a grammar, an ordered cascade of extractors where the
// first success wins; unknown kinds use the generic heading grammar. The
// structuredness oracle decides whether the result is worth rendering as
// cards at all.
package parse

import (
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/canvas-engine/internal/artifact"
	"github.com/pdiddy/canvas-engine/pkg/types"
)

// snippetLimit bounds the prompt excerpt kept in the response header.
const snippetLimit = 80

// Input is one skill response to parse.
type Input struct {
	// Text is the raw response.
	Text string

	// Skill names the skill that produced Text. Case-insensitive; a leading
	// "@", parameters and a "-mode" suffix are ignored.
	Skill string

	// Prompt is the text the skill was applied to, if known.
	Prompt string
}

// Interpretation is the full reading of a response. A valid canvas artifact
// is authoritative: when Artifact is set, Parsed is nil.
type Interpretation struct {
	Artifact   *types.CanvasArtifact `json:"artifact,omitempty" yaml:"artifact,omitempty"`
	Parsed     *types.ParsedResponse `json:"parsed,omitempty" yaml:"parsed,omitempty"`
	Structured bool                  `json:"structured" yaml:"structured"`
}

// Parser turns responses into ParsedResponses. It holds no per-response
// state and is safe for concurrent use.
type Parser struct {
	ids             *IDGenerator
	logger          *zap.Logger
	strengthDefault types.Strength
	defaultSkill    types.SkillKind
}

// Option configures a Parser.
type Option func(*Parser)

// WithIDGenerator sets the generator for non-question card IDs.
func WithIDGenerator(g *IDGenerator) Option {
	return func(p *Parser) { p.ids = g }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *zap.Logger) Option {
	return func(p *Parser) { p.logger = l }
}

// WithStrengthDefault sets the strength given to antithesis cards the
// classifier leaves unset.
func WithStrengthDefault(s types.Strength) Option {
	return func(p *Parser) { p.strengthDefault = s }
}

// WithConfig applies a ParseConfig.
func WithConfig(cfg types.ParseConfig) Option {
	return func(p *Parser) {
		if cfg.StrengthDefault != "" {
			p.strengthDefault = cfg.StrengthDefault
		}
		p.defaultSkill = cfg.DefaultSkill
	}
}

// NewParser returns a Parser configured by opts.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		logger:          zap.NewNop(),
		strengthDefault: types.StrengthModerate,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.ids == nil {
		p.ids = NewIDGenerator()
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	return p
}

// NormalizeSkill maps a skill reference such as "@Excavate(depth=2)" or
// "excavate-critical" to its kind. Unknown names come back lower-cased.
func NormalizeSkill(name string) types.SkillKind {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.TrimPrefix(s, "@")
	if i := strings.IndexByte(s, '('); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	kind := types.SkillKind(s)
	if KnownSkill(kind) {
		return kind
	}
	if i := strings.LastIndexByte(s, '-'); i > 0 {
		if base := types.SkillKind(s[:i]); KnownSkill(base) {
			return base
		}
	}
	return kind
}

// Parse extracts cards from in.Text. It never fails: text with no
// recognizable structure yields one generic card holding the text verbatim,
// and blank text yields no cards.
func (p *Parser) Parse(in Input) *types.ParsedResponse {
	text := strings.ReplaceAll(in.Text, "\r\n", "\n")
	kind := NormalizeSkill(in.Skill)
	if kind == "" {
		kind = p.defaultSkill
	}

	resp := &types.ParsedResponse{
		Subsections: []types.Subsection{},
		RawContent:  in.Text,
	}
	if kind != "" || in.Prompt != "" {
		resp.Header = &types.ResponseHeader{
			Skill:        kind,
			InputSnippet: truncateRunes(strings.TrimSpace(in.Prompt), snippetLimit),
		}
	}
	if strings.TrimSpace(text) == "" {
		return resp
	}

	gc := newGrammarContext(kind, p.ids, p.logger, p.strengthDefault)
	res := grammarFor(kind).run(text, gc)

	resp.MainContent = res.main
	for _, s := range res.subs {
		if res.main != nil && s.Title == res.main.Title && s.Content == res.main.Content {
			continue
		}
		resp.Subsections = append(resp.Subsections, s)
	}

	if resp.MainContent == nil && len(resp.Subsections) == 0 && !gc.droppedContext {
		p.logger.Debug("no structure found, wrapping raw text", zap.String("skill", string(kind)))
		resp.Subsections = append(resp.Subsections, types.Subsection{
			ID:      p.ids.Next(types.TypeGeneric),
			Type:    types.TypeGeneric,
			Title:   fallbackTitle(text),
			Content: in.Text,
		})
	}
	return resp
}

// Interpret reads in as a canvas artifact when it carries a valid one and
// as heuristic cards otherwise.
func (p *Parser) Interpret(in Input) Interpretation {
	a, err := artifact.Parse(in.Text)
	if err == nil {
		return Interpretation{Artifact: a, Structured: true}
	}
	p.logger.Debug("no canvas artifact", zap.Error(err))
	return Interpretation{
		Parsed:     p.Parse(in),
		Structured: IsStructured(in.Text),
	}
}

// fallbackTitle is the first non-blank line of text, cleaned and truncated.
func fallbackTitle(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if t := cleanTitle(strings.TrimLeft(strings.TrimSpace(line), "#-*+> ")); t != "" {
			return truncateRunes(t, titleLimit)
		}
	}
	return ""
}
