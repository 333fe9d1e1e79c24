//go:build mage

package main

import (
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Responses groups targets that run the CLI over saved skill responses.
type Responses mg.Namespace

const responsesDir = "responses"

// Parse batch-parses every response in responses/ with the generic grammar.
func (Responses) Parse() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "parse", "--batch", responsesDir)
}

// Oracle prints the structuredness verdict for every response in responses/.
func (Responses) Oracle() error {
	mg.Deps(Build)
	files, err := filepath.Glob(filepath.Join(responsesDir, "*.md"))
	if err != nil {
		return err
	}
	for _, f := range files {
		out, err := sh.Output(filepath.Join(binDir, binName), "oracle", f)
		if err != nil {
			return fmt.Errorf("oracle %s: %w", f, err)
		}
		fmt.Printf("%-10s %s\n", out, filepath.Base(f))
	}
	return nil
}
