// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the canvas-engine CLI. It turns skill
// responses into cards, validates canvas artifacts, levels composed
// pipelines and manages persisted answers to question cards.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/canvas-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built in PersistentPreRunE from the --debug flag.
var logger = zap.NewNop()

// rootCmd is the base command for the canvas-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "canvas-engine",
	Short: "Turn skill responses into structured canvas cards",
	Long: `canvas-engine reads the free-form responses of thinking skills and turns
them into typed cards: theses, antitheses, cruxes, assumptions, questions.
A response that carries a canvas artifact (strict JSON) is rendered from it
directly; everything else goes through the per-skill grammars.

Subcommands parse responses, validate artifacts, level composed pipelines
into waves, and store answers to question cards.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		l, err := newLogger(debug)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./canvas-engine.yaml or ~/.config/canvas-engine/config.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "log grammar and pipeline decisions to stderr")
	rootCmd.PersistentFlags().Int("width", 80, "card and word-wrap width in columns")
	rootCmd.PersistentFlags().String("db", "canvas/answers.db", "answers database file")

	_ = viper.BindPFlag("render.width", rootCmd.PersistentFlags().Lookup("width"))
	_ = viper.BindPFlag("answers.db_path", rootCmd.PersistentFlags().Lookup("db"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("canvas-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "canvas-engine"))
		}
	}

	viper.SetDefault("parse.strength_default", string(types.StrengthModerate))
	viper.SetDefault("render.style", "auto")
	viper.SetDefault("skills.dirs", []string{"skills"})

	viper.SetEnvPrefix("CANVAS_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// engineConfig assembles the component configuration from viper.
func engineConfig() types.EngineConfig {
	return types.EngineConfig{
		Parse: types.ParseConfig{
			DefaultSkill:    types.SkillKind(viper.GetString("parse.default_skill")),
			StrengthDefault: types.Strength(viper.GetString("parse.strength_default")),
		},
		Answers: types.AnswersConfig{
			DBPath: viper.GetString("answers.db_path"),
		},
		Render: types.RenderConfig{
			Width: viper.GetInt("render.width"),
			Style: viper.GetString("render.style"),
		},
		Skills: types.SkillsConfig{
			Dirs:     viper.GetStringSlice("skills.dirs"),
			BlendDir: viper.GetString("skills.blend_dir"),
		},
	}
}

// newLogger returns a production logger at warn level, or a development
// logger at debug level when debug is set. Both write to stderr.
func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.OutputPaths = []string{"stderr"}
	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return l, nil
}

// readInput returns the contents of the first argument, or stdin when
// there is none or it is "-".
func readInput(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", args[0], err)
	}
	return string(data), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
