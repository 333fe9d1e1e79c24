// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/canvas-engine/internal/pipeline"
	"github.com/pdiddy/canvas-engine/pkg/types"
)

var wavesCmd = &cobra.Command{
	Use:   "waves [file]",
	Short: "Group a composed pipeline into dependency waves",
	Long: `Waves reads a pipeline, either the JSON emitted by the compose skill
(fenced or bare) or a YAML file with rationale and steps, and prints the
steps grouped into waves. Every step in a wave depends only on steps in
earlier waves, so a wave can run concurrently.

Step targets refer to earlier steps as "$N" (1-based). A reference to the
step itself or a later step is an error.

With --dry-run, the waves are executed with placeholder node IDs to show
how references resolve.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWaves,
}

func runWaves(cmd *cobra.Command, args []string) error {
	text, err := readInput(args)
	if err != nil {
		return err
	}
	spec, err := loadPipeline(text)
	if err != nil {
		return err
	}
	run, err := pipeline.NewRun(*spec, logger)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if dryRun {
		if err := dryRunPipeline(run); err != nil {
			return err
		}
	}
	if format != "text" {
		return writeOutput(os.Stdout, struct {
			ID        string                    `json:"id" yaml:"id"`
			Rationale string                    `json:"rationale,omitempty" yaml:"rationale,omitempty"`
			Waves     [][]int                   `json:"waves" yaml:"waves"`
			Steps     []types.PipelineStepState `json:"steps" yaml:"steps"`
		}{run.ID, run.Rationale, run.Waves(), run.Steps()}, format)
	}

	if run.Rationale != "" {
		fmt.Println(run.Rationale)
		fmt.Println()
	}
	steps := run.Steps()
	for w, wave := range run.Waves() {
		fmt.Printf("wave %d\n", w)
		for _, i := range wave {
			s := steps[i]
			line := fmt.Sprintf("  $%d  @%-14s %s", i+1, s.Skill, s.Target)
			if s.Mode != "" {
				line += "  [" + s.Mode + "]"
			}
			if s.NodeID != "" {
				line += "  → " + s.NodeID
			}
			fmt.Println(line)
		}
	}
	p := run.Progress()
	fmt.Printf("\n%d steps in %d waves\n", p.Total, len(run.Waves()))
	return nil
}

// loadPipeline reads compose JSON, falling back to a YAML pipeline spec.
func loadPipeline(text string) (*types.PipelineSpec, error) {
	spec, err := pipeline.ParseCompose(text)
	if err == nil {
		return spec, nil
	}
	if !errors.Is(err, pipeline.ErrNoPipeline) {
		return nil, err
	}

	var s types.PipelineSpec
	if yerr := yaml.Unmarshal([]byte(text), &s); yerr != nil || len(s.Steps) == 0 {
		return nil, err
	}
	for i := range s.Steps {
		s.Steps[i].Skill = strings.TrimPrefix(s.Steps[i].Skill, "@")
	}
	if err := pipeline.ValidateTargets(s.Steps); err != nil {
		return nil, err
	}
	return &s, nil
}

func dryRunPipeline(run *pipeline.Run) error {
	var n atomic.Int64
	return run.Execute(context.Background(), func(ctx context.Context, step types.PipelineStep, inputs []string) (string, error) {
		id := fmt.Sprintf("%s_%d", step.Skill, n.Add(1))
		logger.Debug("dry run step", zap.String("node_id", id), zap.Strings("inputs", inputs))
		if len(inputs) > 0 {
			fmt.Fprintf(os.Stderr, "%s <- %s\n", id, strings.Join(inputs, ", "))
		}
		return id, nil
	})
}

func init() {
	wavesCmd.Flags().String("format", "text", "output format: text, yaml or json")
	wavesCmd.Flags().Bool("dry-run", false, "execute the waves with placeholder node IDs")

	rootCmd.AddCommand(wavesCmd)
}
