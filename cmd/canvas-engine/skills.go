// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/canvas-engine/internal/artifact"
	"github.com/pdiddy/canvas-engine/internal/skills"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Inspect the skill catalogue",
	Long: `Skills loads skill definitions from the configured directories
(skills.dirs, earlier directories win) and the optional blend directory of
mode variants.`,
}

var skillsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List skills in plan-building order",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := skills.Load(engineConfig().Skills, logger)
		if err != nil {
			return err
		}
		list := catalog.List()
		if len(list) == 0 {
			fmt.Println("No skills found.")
			return nil
		}
		for _, s := range list {
			fmt.Printf("%-20s %s\n", s.DisplayName(), s.Description)
		}
		return nil
	},
}

var skillsPromptCmd = &cobra.Command{
	Use:   "prompt [chain] [context-file]",
	Short: "Print the prompt for each skill of a chain",
	Long: `Prompt resolves a chain such as "@excavate | @diverge(render=canvas)" and
prints the prompt each step would be run with. A step whose parameters ask
for render=canvas gets the canvas format suffix appended. The context is
read from the file, or stdin.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := skills.Load(engineConfig().Skills, logger)
		if err != nil {
			return err
		}
		steps, err := catalog.Resolve(skills.ParseChain(args[0]))
		if err != nil {
			return err
		}
		context, err := readInput(args[1:])
		if err != nil {
			return err
		}

		for i, s := range steps {
			if i > 0 {
				fmt.Println("\n---")
			}
			prompt := skills.BuildPrompt(s.Skill, context, s.Params)
			if artifact.ShouldUseCanvasFormat(s.Params, s.Skill.Name) {
				prompt += artifact.BuildSuffix(verbosityParam(s.Params), s.Params["focus"])
			}
			fmt.Println(prompt)
		}
		return nil
	},
}

func verbosityParam(params map[string]string) int {
	switch params["verbosity"] {
	case "0", "terse":
		return artifact.VerbosityTerse
	case "2", "thorough":
		return artifact.VerbosityThorough
	default:
		return artifact.VerbosityBalanced
	}
}

func init() {
	skillsCmd.AddCommand(skillsListCmd)
	skillsCmd.AddCommand(skillsPromptCmd)

	rootCmd.AddCommand(skillsCmd)
}
