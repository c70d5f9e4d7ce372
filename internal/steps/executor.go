// Package steps implements the four pipeline StepExecutors, each
// following the same contract: given a task's working directory and
// its frozen inputs, do the step's work and return a result summary
// the pipeline records onto the task's StepRecord.
package steps

import (
	"context"
	"path/filepath"

	"storysynth/internal/models"
)

// Fixed per-task subdirectory/file names, relative to StepContext.TaskDir.
const (
	ClonedDir       = "1_cloned"
	TrimmedDir      = "2_trimmed"
	SequenceFile    = "3_sequence.json"
	FinalOutputFile = "4_final_output.wav"
)

// StepContext carries everything an executor needs: the task's working
// directory and its immutable input paths. Each step derives its own
// input/output locations from TaskDir using the fixed names above, so
// "previous outputs" never needs to be threaded explicitly.
type StepContext struct {
	TaskDir string
	Inputs  models.TaskInputs
}

func (c StepContext) path(name string) string {
	return filepath.Join(c.TaskDir, name)
}

// Path exposes the per-task path for a fixed step name (e.g.
// FinalOutputFile), for callers outside this package that need to
// locate a step's output without duplicating the naming convention.
func (c StepContext) Path(name string) string {
	return c.path(name)
}

// Executor runs one pipeline step and returns a JSON-serializable
// result summary for the task's StepRecord.
type Executor interface {
	Run(ctx context.Context, sc StepContext) (map[string]any, error)
}
