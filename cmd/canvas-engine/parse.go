// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/canvas-engine/internal/answers"
	"github.com/pdiddy/canvas-engine/internal/parse"
	"github.com/pdiddy/canvas-engine/internal/render"
	"github.com/pdiddy/canvas-engine/pkg/types"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a skill response into cards",
	Long: `Parse reads a skill response (a file, or stdin when no file or "-" is
given) and prints its interpretation. A valid canvas artifact in the
response wins; otherwise the grammar for --skill extracts cards and the
structuredness oracle decides whether they are worth showing.

With --batch, every .md and .txt file in the directory is parsed and a
progress line per file is printed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	skill, _ := cmd.Flags().GetString("skill")
	format, _ := cmd.Flags().GetString("format")
	batchDir, _ := cmd.Flags().GetString("batch")
	prompt, _ := cmd.Flags().GetString("prompt")
	withAnswers, _ := cmd.Flags().GetBool("answers")

	cfg := engineConfig()
	p := parse.NewParser(parse.WithConfig(cfg.Parse), parse.WithLogger(logger))

	if batchDir != "" {
		_, summary, err := p.ParseDir(context.Background(), batchDir, skill, os.Stdout)
		if err != nil {
			return err
		}
		fmt.Printf("\n%d files: %d artifacts, %d structured, %d flat\n",
			summary.Total(), summary.Artifacts, summary.Structured, summary.Flat)
		if summary.HasFailures() {
			return fmt.Errorf("%d file(s) failed", summary.Failed)
		}
		return nil
	}

	text, err := readInput(args)
	if err != nil {
		return err
	}
	result := p.Interpret(parse.Input{Text: text, Skill: skill, Prompt: prompt})

	if format != "cards" {
		return writeOutput(os.Stdout, result, format)
	}

	var stored map[string]types.Answer
	if withAnswers && result.Parsed != nil {
		store, err := answers.NewStore(cfg.Answers, logger)
		if err != nil {
			return err
		}
		defer store.Close()
		stored, err = store.ForResponse(context.Background(), result.Parsed)
		if err != nil {
			return err
		}
	}
	return printInterpretation(os.Stdout, result, stored, cfg.Render)
}

// printInterpretation renders an artifact or cards, or the raw text as
// markdown when the response is not structured.
func printInterpretation(w io.Writer, result parse.Interpretation, stored map[string]types.Answer, cfg types.RenderConfig) error {
	switch {
	case result.Artifact != nil:
		fmt.Fprintln(w, render.Artifact(result.Artifact, cfg.Width))
	case result.Structured:
		fmt.Fprintln(w, render.Cards(result.Parsed, stored, cfg.Width))
	default:
		out, err := render.Flat(result.Parsed.RawContent, cfg.Style, cfg.Width)
		if err != nil {
			return err
		}
		fmt.Fprint(w, out)
	}
	return nil
}

// writeOutput marshals v as YAML or JSON.
func writeOutput(w io.Writer, v any, format string) error {
	switch format {
	case "yaml", "":
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return fmt.Errorf("unsupported format %q: use yaml, json or cards", format)
	}
}

func init() {
	parseCmd.Flags().String("skill", "", "skill that produced the response, e.g. excavate or @antithesize")
	parseCmd.Flags().String("format", "yaml", "output format: yaml, json or cards")
	parseCmd.Flags().String("batch", "", "parse every .md and .txt file in this directory")
	parseCmd.Flags().String("prompt", "", "text the skill was applied to, kept as the header snippet")
	parseCmd.Flags().Bool("answers", false, "show stored answers under question cards (cards format)")

	rootCmd.AddCommand(parseCmd)
}
