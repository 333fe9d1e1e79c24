// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/canvas-engine/internal/answers"
	"github.com/pdiddy/canvas-engine/internal/parse"
	"github.com/pdiddy/canvas-engine/pkg/types"
)

var answersCmd = &cobra.Command{
	Use:   "answers",
	Short: "Manage stored answers to question cards",
	Long: `Answers manages a local SQLite store of replies to question cards. Rows
are keyed by question ID, which depends only on the question text and the
skill, so answers reattach whenever the same response is parsed again.`,
}

// --- set subcommand ---

var answersSetCmd = &cobra.Command{
	Use:   "set [question-id] [answer...]",
	Short: "Store the answer to a question",
	Long: `Set stores an answer. The question is named by its ID, or by --title and
--skill, from which the ID is derived.`,
	RunE: runAnswersSet,
}

func runAnswersSet(cmd *cobra.Command, args []string) error {
	title, _ := cmd.Flags().GetString("title")
	skill, _ := cmd.Flags().GetString("skill")

	var id string
	switch {
	case title != "":
		id = parse.QuestionID(title, parse.NormalizeSkill(skill))
	case len(args) > 0:
		id, args = args[0], args[1:]
	default:
		return fmt.Errorf("question id or --title required")
	}
	if len(args) == 0 {
		return fmt.Errorf("answer text required")
	}

	store, err := openAnswers()
	if err != nil {
		return err
	}
	defer store.Close()

	a := types.Answer{
		QuestionID: id,
		Answer:     strings.Join(args, " "),
		Title:      title,
		Skill:      parse.NormalizeSkill(skill),
	}
	if err := store.Save(context.Background(), a); err != nil {
		return err
	}
	fmt.Printf("saved %s\n", id)
	return nil
}

// --- get subcommand ---

var answersGetCmd = &cobra.Command{
	Use:   "get [question-id]",
	Short: "Print the answer to a question",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openAnswers()
		if err != nil {
			return err
		}
		defer store.Close()

		a, err := store.Get(context.Background(), args[0])
		if err != nil {
			return err
		}
		fmt.Println(a.Answer)
		return nil
	},
}

// --- list subcommand ---

var answersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored answers",
	RunE: func(cmd *cobra.Command, args []string) error {
		skill, _ := cmd.Flags().GetString("skill")

		store, err := openAnswers()
		if err != nil {
			return err
		}
		defer store.Close()

		list, err := store.List(context.Background(), parse.NormalizeSkill(skill))
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Println("No answers stored.")
			return nil
		}

		fmt.Fprintf(os.Stdout, "%-16s  %-16s  %-40s  %s\n", "Question", "Skill", "Title", "Answer")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
		for _, a := range list {
			fmt.Fprintf(os.Stdout, "%-16s  %-16s  %-40s  %s\n",
				a.QuestionID, a.Skill, truncate(a.Title, 40), truncate(a.Answer, 40))
		}
		fmt.Fprintf(os.Stdout, "\n%d answers\n", len(list))
		return nil
	},
}

// --- delete subcommand ---

var answersDeleteCmd = &cobra.Command{
	Use:   "delete [question-id]",
	Short: "Remove the answer to a question",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openAnswers()
		if err != nil {
			return err
		}
		defer store.Close()
		return store.Delete(context.Background(), args[0])
	},
}

// --- export / import subcommands ---

var answersExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every stored answer to stdout as YAML or JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		store, err := openAnswers()
		if err != nil {
			return err
		}
		defer store.Close()
		return store.Export(context.Background(), os.Stdout, format)
	},
}

var answersImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Load answers from a YAML export",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(args)
		if err != nil {
			return err
		}

		store, err := openAnswers()
		if err != nil {
			return err
		}
		defer store.Close()

		summary, err := store.Import(context.Background(), strings.NewReader(text), os.Stdout)
		if err != nil {
			return err
		}
		fmt.Printf("%d saved, %d skipped, %d failed\n", summary.Saved, summary.Skipped, summary.Failed)
		if summary.HasFailures() {
			return fmt.Errorf("%d answer(s) failed to import", summary.Failed)
		}
		return nil
	},
}

// --- shared helpers ---

func openAnswers() (*answers.Store, error) {
	cfg := engineConfig().Answers
	return answers.NewStore(cfg, logger)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func init() {
	answersSetCmd.Flags().String("title", "", "question title to derive the ID from")
	answersSetCmd.Flags().String("skill", "askuserquestions", "skill the question came from")
	answersListCmd.Flags().String("skill", "", "filter by skill")
	answersExportCmd.Flags().String("format", answers.FormatYAML, "export format: yaml or json")

	answersCmd.AddCommand(answersSetCmd)
	answersCmd.AddCommand(answersGetCmd)
	answersCmd.AddCommand(answersListCmd)
	answersCmd.AddCommand(answersDeleteCmd)
	answersCmd.AddCommand(answersExportCmd)
	answersCmd.AddCommand(answersImportCmd)

	rootCmd.AddCommand(answersCmd)
}
