// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/canvas-engine/internal/parse"
)

var oracleCmd = &cobra.Command{
	Use:   "oracle [file]",
	Short: "Report whether a response is structured enough for cards",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(args)
		if err != nil {
			return err
		}
		if parse.IsStructured(text) {
			fmt.Println("structured")
		} else {
			fmt.Println("flat")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(oracleCmd)
}
