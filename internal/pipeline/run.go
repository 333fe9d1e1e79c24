// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/canvas-engine/pkg/types"
)

// Run tracks one execution of a pipeline. Steps in the same wave may run
// concurrently; all methods are safe for concurrent use.
type Run struct {
	ID        string
	Rationale string

	mu     sync.Mutex
	steps  []types.PipelineStepState
	waves  [][]int
	logger *zap.Logger
}

// Progress summarizes a run's step states.
type Progress struct {
	Total     int
	Pending   int
	Running   int
	Completed int
	Failed    int

	// Wave is the lowest wave with unfinished steps, or -1 when all
	// steps have finished.
	Wave int
}

// NewRun levels spec and returns a run with every step pending. It fails
// when a step reference does not resolve.
func NewRun(spec types.PipelineSpec, logger *zap.Logger) (*Run, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	levels, err := Levels(spec.Steps)
	if err != nil {
		logger.Debug("pipeline does not level", zap.Error(err), zap.Ints("levels", levels))
		return nil, fmt.Errorf("leveling pipeline: %w", err)
	}

	r := &Run{
		ID:        uuid.NewString(),
		Rationale: spec.Rationale,
		waves:     Waves(levels),
		logger:    logger,
	}
	for i, s := range spec.Steps {
		r.steps = append(r.steps, types.PipelineStepState{
			PipelineStep: s,
			Status:       types.StepPending,
			Wave:         levels[i],
		})
	}
	return r, nil
}

// Steps returns a copy of the step states.
func (r *Run) Steps() []types.PipelineStepState {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]types.PipelineStepState, len(r.steps))
	copy(out, r.steps)
	return out
}

// Waves returns the 0-based step indices of each wave.
func (r *Run) Waves() [][]int {
	return r.waves
}

// Start marks step i running.
func (r *Run) Start(i int) error {
	return r.transition(i, types.StepPending, func(s *types.PipelineStepState) {
		s.Status = types.StepRunning
	})
}

// Complete marks step i completed with the node it produced.
func (r *Run) Complete(i int, nodeID string) error {
	return r.transition(i, types.StepRunning, func(s *types.PipelineStepState) {
		s.Status = types.StepCompleted
		s.NodeID = nodeID
	})
}

// Fail marks step i failed.
func (r *Run) Fail(i int, cause error) error {
	return r.transition(i, types.StepRunning, func(s *types.PipelineStepState) {
		s.Status = types.StepFailed
		if cause != nil {
			s.Error = cause.Error()
		}
	})
}

func (r *Run) transition(i int, from types.StepStatus, apply func(*types.PipelineStepState)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i < 0 || i >= len(r.steps) {
		return fmt.Errorf("step %d out of range", i+1)
	}
	s := &r.steps[i]
	if s.Status != from {
		return fmt.Errorf("step %d is %s, want %s", i+1, s.Status, from)
	}
	apply(s)
	r.logger.Debug("pipeline step",
		zap.String("run", r.ID),
		zap.Int("step", i+1),
		zap.String("skill", s.Skill),
		zap.String("status", string(s.Status)))
	return nil
}

// Ready returns the pending steps whose references have all completed.
func (r *Run) Ready() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ready []int
	for i, s := range r.steps {
		if s.Status != types.StepPending {
			continue
		}
		ok := true
		for _, ref := range References(s.Target) {
			if r.steps[ref-1].Status != types.StepCompleted {
				ok = false
				break
			}
		}
		if ok {
			ready = append(ready, i)
		}
	}
	return ready
}

// Resolve maps a "$N" target to the node produced by step N. It reports
// false for other targets and for steps that have not completed.
func (r *Run) Resolve(target string) (string, bool) {
	target = strings.TrimSpace(target)
	if !dollarTargetRe.MatchString(target) {
		return "", false
	}
	n, err := strconv.Atoi(target[1:])
	if err != nil {
		return "", false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if n > len(r.steps) {
		return "", false
	}
	s := r.steps[n-1]
	if s.Status != types.StepCompleted || s.NodeID == "" {
		return "", false
	}
	return s.NodeID, true
}

// Progress returns the current counts.
func (r *Run) Progress() Progress {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := Progress{Total: len(r.steps), Wave: -1}
	for _, s := range r.steps {
		switch s.Status {
		case types.StepPending:
			p.Pending++
		case types.StepRunning:
			p.Running++
		case types.StepCompleted:
			p.Completed++
		case types.StepFailed:
			p.Failed++
		}
		unfinished := s.Status == types.StepPending || s.Status == types.StepRunning
		if unfinished && (p.Wave < 0 || s.Wave < p.Wave) {
			p.Wave = s.Wave
		}
	}
	return p
}

// StepFunc executes one step. inputs holds the node IDs of the steps the
// target refers to, in reference order. It returns the produced node ID.
type StepFunc func(ctx context.Context, step types.PipelineStep, inputs []string) (string, error)

// Execute runs the pipeline wave by wave, the steps of a wave
// concurrently. A failed step cancels the rest of its wave and ends the
// run; steps that never started stay pending.
func (r *Run) Execute(ctx context.Context, exec StepFunc) error {
	for w, wave := range r.waves {
		g, gctx := errgroup.WithContext(ctx)
		for _, i := range wave {
			g.Go(func() error {
				return r.executeStep(gctx, i, exec)
			})
		}
		if err := g.Wait(); err != nil {
			return fmt.Errorf("wave %d: %w", w, err)
		}
	}
	return nil
}

func (r *Run) executeStep(ctx context.Context, i int, exec StepFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.Start(i); err != nil {
		return err
	}

	step := r.Steps()[i].PipelineStep
	var inputs []string
	for _, ref := range References(step.Target) {
		if id, ok := r.Resolve("$" + strconv.Itoa(ref)); ok {
			inputs = append(inputs, id)
		}
	}

	nodeID, err := exec(ctx, step, inputs)
	if err != nil {
		_ = r.Fail(i, err)
		return fmt.Errorf("step %d (%s): %w", i+1, step.Skill, err)
	}
	return r.Complete(i, nodeID)
}
