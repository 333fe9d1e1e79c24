// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pdiddy/canvas-engine/internal/artifact"
	"github.com/pdiddy/canvas-engine/pkg/types"
)

// ErrNoPipeline is returned when compose output holds no pipeline object.
var ErrNoPipeline = errors.New("no pipeline found")

// dollarTargetRe is the whole-target back-reference form "$N", N >= 1.
var dollarTargetRe = regexp.MustCompile(`^\$[1-9]\d*$`)

var validate = validator.New()

type wireSpec struct {
	Rationale string     `json:"rationale"`
	Steps     []wireStep `json:"steps" validate:"required,min=1,dive"`
}

type wireStep struct {
	Skill  string `json:"skill" validate:"required"`
	Target string `json:"target" validate:"required"`
	Mode   string `json:"mode"`
	Reason string `json:"reason"`
}

// ParseCompose reads the pipeline emitted by the compose skill: a JSON
// object {rationale, steps: [{skill, target, mode?, reason}]}, fenced or
// bare. Skill names lose their "@" prefix. Targets are checked with
// ValidateTargets.
func ParseCompose(text string) (*types.PipelineSpec, error) {
	var firstErr error
	for _, c := range artifact.JSONCandidates(text) {
		spec, err := decodeSpec([]byte(c))
		if err == nil {
			return spec, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	if firstErr == nil {
		return nil, ErrNoPipeline
	}
	return nil, firstErr
}

func decodeSpec(raw []byte) (*types.PipelineSpec, error) {
	var w wireSpec
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("decoding pipeline: %w", err)
	}
	if err := validate.Struct(w); err != nil {
		return nil, fmt.Errorf("invalid pipeline: %w", err)
	}
	spec := &types.PipelineSpec{Rationale: w.Rationale}
	for _, s := range w.Steps {
		spec.Steps = append(spec.Steps, types.PipelineStep{
			Skill:  strings.TrimPrefix(strings.TrimSpace(s.Skill), "@"),
			Target: strings.TrimSpace(s.Target),
			Mode:   s.Mode,
			Reason: s.Reason,
		})
	}
	if err := ValidateTargets(spec.Steps); err != nil {
		return nil, err
	}
	return spec, nil
}

// ValidateTargets checks every target written as a bare "$..." reference:
// it must be "$N" with N naming an earlier step. Free-text targets such as
// "selected" or "the user's plan" pass unchecked.
func ValidateTargets(steps []types.PipelineStep) error {
	for i, s := range steps {
		if !strings.HasPrefix(s.Target, "$") {
			continue
		}
		if !dollarTargetRe.MatchString(s.Target) {
			return fmt.Errorf("step %d: invalid reference %q", i+1, s.Target)
		}
		n, err := strconv.Atoi(s.Target[1:])
		if err != nil {
			return fmt.Errorf("step %d: invalid reference %q: %w", i+1, s.Target, err)
		}
		if n > i {
			return fmt.Errorf("step %d: reference %q is not an earlier step", i+1, s.Target)
		}
	}
	return nil
}
