// Package render draws parsed responses and canvas artifacts for the
// terminal: cards as bordered lipgloss boxes, flat responses as markdown
// through glamour.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/pdiddy/canvas-engine/pkg/types"
)

const (
	defaultWidth = 80
	minWidth     = 20
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	metaStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	bodyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	answerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7BD88F"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B")).MarginBottom(1)
)

// importanceColors maps card importance to its border color.
var importanceColors = map[string]lipgloss.Color{
	"critical": lipgloss.Color("#FF6B6B"),
	"high":     lipgloss.Color("#FF6B6B"),
	"medium":   lipgloss.Color("#F0C674"),
	"low":      lipgloss.Color("#444444"),
}

func boxStyle(width int, importance string) lipgloss.Style {
	border, ok := importanceColors[importance]
	if !ok {
		border = lipgloss.Color("#444444")
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(width - 2)
}

func clampWidth(width int) int {
	if width <= 0 {
		return defaultWidth
	}
	return max(minWidth, width)
}

// Cards renders every card of resp, main content first. answers, keyed by
// question ID, are shown beneath their question cards; it may be nil.
func Cards(resp *types.ParsedResponse, answers map[string]types.Answer, width int) string {
	width = clampWidth(width)
	var blocks []string
	if resp.Header != nil && resp.Header.Skill != "" {
		blocks = append(blocks, headerStyle.Render("@"+string(resp.Header.Skill)))
	}
	if resp.MainContent != nil {
		blocks = append(blocks, card(*resp.MainContent, answers, width))
	}
	for _, s := range resp.Subsections {
		blocks = append(blocks, card(s, answers, width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func card(s types.Subsection, answers map[string]types.Answer, width int) string {
	lines := []string{titleStyle.Render(s.Title)}
	if meta := cardMeta(s); meta != "" {
		lines = append(lines, metaStyle.Render(meta))
	}
	if s.Content != "" && !s.Collapsed {
		lines = append(lines, bodyStyle.Render(s.Content))
	}
	for _, o := range s.Options {
		lines = append(lines, bodyStyle.Render("[ ] "+o))
	}
	for _, a := range s.Assumptions {
		lines = append(lines, bodyStyle.Render("- "+a))
	}
	if a, ok := answers[s.ID]; ok {
		lines = append(lines, answerStyle.Render("> "+a.Answer))
	}
	for _, c := range s.Children {
		lines = append(lines, card(c, answers, width-4))
	}
	return boxStyle(width, string(s.Importance)).Render(strings.Join(lines, "\n"))
}

func cardMeta(s types.Subsection) string {
	parts := []string{string(s.Type)}
	if s.Importance != "" {
		parts = append(parts, string(s.Importance))
	}
	if s.Strength != "" {
		parts = append(parts, string(s.Strength))
	}
	for _, t := range s.Tags {
		parts = append(parts, t.Label)
	}
	if s.Collapsed {
		parts = append(parts, "collapsed")
	}
	return strings.Join(parts, " · ")
}

// Artifact renders a canvas artifact: summary, then one box per block, then
// suggested moves and warnings.
func Artifact(a *types.CanvasArtifact, width int) string {
	width = clampWidth(width)
	blocks := []string{headerStyle.Render(a.Summary)}
	for _, b := range a.Blocks {
		lines := []string{titleStyle.Render(b.Title), metaStyle.Render(b.Kind)}
		for _, it := range b.Items {
			text := it.Text
			if it.Title != "" {
				text = it.Title + ": " + text
			}
			if it.Importance != "" {
				text += metaStyle.Render(" (" + it.Importance + ")")
			}
			lines = append(lines, bodyStyle.Render("- "+text))
		}
		blocks = append(blocks, boxStyle(width, "").Render(strings.Join(lines, "\n")))
	}
	if len(a.SuggestedMoves) > 0 {
		lines := []string{titleStyle.Render("Suggested moves")}
		for _, m := range a.SuggestedMoves {
			line := fmt.Sprintf("%s  %s", m.Skill, m.Reason)
			if m.Target != "" {
				line += metaStyle.Render(" → " + m.Target)
			}
			lines = append(lines, bodyStyle.Render(line))
		}
		blocks = append(blocks, boxStyle(width, "").Render(strings.Join(lines, "\n")))
	}
	for _, w := range a.Warnings {
		blocks = append(blocks, metaStyle.Render("! "+w))
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

// Flat renders a response that has no structure as markdown. style is a
// glamour style name ("dark", "light", "notty") or "auto".
func Flat(text, style string, width int) (string, error) {
	width = clampWidth(width)
	styleOpt := glamour.WithAutoStyle()
	if style != "" && style != "auto" {
		styleOpt = glamour.WithStylePath(style)
	}
	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := r.Render(text)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}
