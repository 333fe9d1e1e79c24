// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// PipelineStep is one declared skill invocation in a composed pipeline.
// Target may embed 1-based back-references ("$2", "step 2") to the outputs
// of earlier steps.
type PipelineStep struct {
	Skill  string `json:"skill" yaml:"skill"`
	Target string `json:"target" yaml:"target"`
	Mode   string `json:"mode,omitempty" yaml:"mode,omitempty"`
	Reason string `json:"reason" yaml:"reason"`
}

// StepStatus tracks a pipeline step through execution.
type StepStatus string

const (
	StepPending   StepStatus = "pending"
	StepRunning   StepStatus = "running"
	StepCompleted StepStatus = "completed"
	StepFailed    StepStatus = "failed"
)

// PipelineStepState is a PipelineStep with its run-state.
type PipelineStepState struct {
	PipelineStep `yaml:",inline"`

	Status StepStatus `json:"status" yaml:"status"`
	Error  string     `json:"error,omitempty" yaml:"error,omitempty"`

	// Wave is the topological level of the step; steps in one wave have
	// all dependencies satisfied together.
	Wave int `json:"wave" yaml:"wave"`

	// NodeID is the canvas node produced by the step, once completed.
	NodeID string `json:"node_id,omitempty" yaml:"node_id,omitempty"`
}

// PipelineSpec is a composed pipeline as emitted by the compose skill.
type PipelineSpec struct {
	Rationale string         `json:"rationale" yaml:"rationale"`
	Steps     []PipelineStep `json:"steps" yaml:"steps"`
}
