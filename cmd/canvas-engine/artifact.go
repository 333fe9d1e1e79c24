// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/canvas-engine/internal/artifact"
	"github.com/pdiddy/canvas-engine/internal/render"
)

var artifactCmd = &cobra.Command{
	Use:   "artifact [file]",
	Short: "Validate a canvas artifact, or print the format instructions",
	Long: `Artifact finds the canvas artifact in a response (fenced json block, bare
JSON, or an object embedded in prose), validates its shape and prints it.
Shape problems are reported with their JSON path.

With --suffix, no input is read: the prompt suffix that asks a skill for
canvas JSON is printed instead, tuned by --verbosity and --focus.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runArtifact,
}

func runArtifact(cmd *cobra.Command, args []string) error {
	suffix, _ := cmd.Flags().GetBool("suffix")
	if suffix {
		verbosity, _ := cmd.Flags().GetInt("verbosity")
		focus, _ := cmd.Flags().GetString("focus")
		fmt.Print(artifact.BuildSuffix(verbosity, focus))
		return nil
	}

	text, err := readInput(args)
	if err != nil {
		return err
	}
	a, err := artifact.Parse(text)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	if format == "cards" {
		fmt.Println(render.Artifact(a, engineConfig().Render.Width))
		return nil
	}
	if format == "fenced" {
		out, err := artifact.Encode(a)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	}
	return writeOutput(os.Stdout, a, format)
}

func init() {
	artifactCmd.Flags().Bool("suffix", false, "print the canvas format prompt suffix instead of validating")
	artifactCmd.Flags().Int("verbosity", artifact.VerbosityBalanced, "suffix verbosity: 0 terse, 1 balanced, 2 thorough")
	artifactCmd.Flags().String("focus", "", fmt.Sprintf("suffix focus lens: %v", artifact.FocusModes()))
	artifactCmd.Flags().String("format", "yaml", "output format: yaml, json, fenced or cards")

	rootCmd.AddCommand(artifactCmd)
}
