// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/canvas-engine/internal/parse"
	"github.com/pdiddy/canvas-engine/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [file...]",
	Short: "Re-parse responses whenever they are saved",
	Long: `Watch parses each file once, then again every time it changes on disk,
printing the cards (or flat markdown) after each save. Rapid saves are
coalesced. Stop with Ctrl-C.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	skill, _ := cmd.Flags().GetString("skill")
	debounce, _ := cmd.Flags().GetDuration("debounce")

	cfg := engineConfig()
	p := parse.NewParser(parse.WithConfig(cfg.Parse), parse.WithLogger(logger))

	show := func(_ context.Context, path string) {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("reading watched file", zap.String("path", path), zap.Error(err))
			return
		}
		result := p.Interpret(parse.Input{Text: string(data), Skill: skill})
		fmt.Printf("== %s (%s)\n", path, time.Now().Format(time.TimeOnly))
		if err := printInterpretation(os.Stdout, result, nil, cfg.Render); err != nil {
			logger.Warn("rendering", zap.String("path", path), zap.Error(err))
		}
	}

	w, err := watch.New(args, debounce, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for _, path := range args {
		show(ctx, path)
	}
	return w.Run(ctx, show)
}

func init() {
	watchCmd.Flags().String("skill", "", "skill that produced the responses")
	watchCmd.Flags().Duration("debounce", 300*time.Millisecond, "quiet period before re-parsing a changed file")

	rootCmd.AddCommand(watchCmd)
}
