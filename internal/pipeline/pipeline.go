// Package pipeline sequences the four step executors against a task's
// working directory, transactionally updating the task's status and
// step records at each boundary.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"storysynth/internal/apierr"
	"storysynth/internal/gpugate"
	"storysynth/internal/models"
	"storysynth/internal/registry"
	"storysynth/internal/steps"
	"storysynth/pkg/logger"
)

// stepSpec binds a 1-based step index to its executor and whether it
// needs the GPU gate.
type stepSpec struct {
	index    int
	name     string
	executor steps.Executor
	needsGPU bool
	timeout  time.Duration
}

// Pipeline runs the four-step sequence for a task.
type Pipeline struct {
	registry *registry.Registry
	gate     *gpugate.Gate
	taskDir  func(taskID string) string
	specs    []stepSpec
}

// Config carries the per-step executors and timeouts the Pipeline
// dispatches to.
type Config struct {
	Clone    steps.Executor
	Trim     steps.Executor
	Sequence steps.Executor
	Align    steps.Executor

	CloneTimeout    time.Duration
	TrimTimeout     time.Duration
	SequenceTimeout time.Duration
	AlignTimeout    time.Duration

	// TaskDir returns the working directory for a task ID.
	TaskDir func(taskID string) string
}

// New builds a Pipeline from cfg.
func New(reg *registry.Registry, gate *gpugate.Gate, cfg Config) *Pipeline {
	return &Pipeline{
		registry: reg,
		gate:     gate,
		taskDir:  cfg.TaskDir,
		specs: []stepSpec{
			{models.StepClone, models.StepNames[models.StepClone], cfg.Clone, true, cfg.CloneTimeout},
			{models.StepTrim, models.StepNames[models.StepTrim], cfg.Trim, false, cfg.TrimTimeout},
			{models.StepSequence, models.StepNames[models.StepSequence], cfg.Sequence, false, cfg.SequenceTimeout},
			{models.StepAlign, models.StepNames[models.StepAlign], cfg.Align, false, cfg.AlignTimeout},
		},
	}
}

// Run executes every step for taskID in order, transitioning the task
// to completed or failed. It implements scheduler.Runner.
func (p *Pipeline) Run(ctx context.Context, taskID string) error {
	task, err := p.registry.Get(taskID)
	if err != nil {
		return err
	}

	now := time.Now()
	if err := p.registry.Mutate(taskID, func(t *models.Task) {
		t.Status = models.StatusProcessing
		t.StartedAt = &now
	}); err != nil {
		return err
	}

	sc := steps.StepContext{TaskDir: p.taskDir(taskID), Inputs: task.Inputs}
	if err := os.MkdirAll(sc.TaskDir, 0755); err != nil {
		return p.fail(taskID, fmt.Errorf("failed to create task directory: %w", err))
	}

	logger.TaskStarted(taskID, task.Name)

	for _, spec := range p.specs {
		if err := p.runStep(ctx, taskID, sc, spec); err != nil {
			return err
		}
	}

	finished := time.Now()
	outputPath := sc.Path(steps.FinalOutputFile)
	if err := p.registry.Mutate(taskID, func(t *models.Task) {
		t.Status = models.StatusCompleted
		t.OutputPath = outputPath
		t.FinishedAt = &finished
		t.ProgressMessage = "completed"
	}); err != nil {
		return err
	}
	logger.TaskCompleted(taskID, finished.Sub(now), outputPath)
	return nil
}

func (p *Pipeline) runStep(ctx context.Context, taskID string, sc steps.StepContext, spec stepSpec) error {
	started := time.Now()
	if err := p.registry.Mutate(taskID, func(t *models.Task) {
		t.CurrentStep = spec.index
		t.ProgressMessage = fmt.Sprintf("running %s", spec.name)
		t.Steps[spec.index-1].Status = models.StepRunning
		t.Steps[spec.index-1].StartedAt = &started
	}); err != nil {
		return err
	}
	logger.StepStarted(taskID, spec.index, spec.name)

	var release func()
	if spec.needsGPU {
		r, err := p.gate.Acquire(ctx)
		if err != nil {
			return p.failStep(taskID, spec, fmt.Errorf("failed to acquire gpu gate: %w", err))
		}
		release = r
	}

	stepCtx := ctx
	var cancel context.CancelFunc
	if spec.timeout > 0 {
		stepCtx, cancel = context.WithTimeout(ctx, spec.timeout)
	}

	result, err := spec.executor.Run(stepCtx, sc)

	if cancel != nil {
		cancel()
	}
	if release != nil {
		release()
	}

	finished := time.Now()
	if err != nil {
		if stepCtx.Err() == context.DeadlineExceeded {
			err = apierr.Wrap(apierr.StepFailure, fmt.Sprintf("%s timed out", spec.name), err)
		}
		return p.failStep(taskID, spec, err)
	}

	if mutErr := p.registry.Mutate(taskID, func(t *models.Task) {
		t.Steps[spec.index-1].Status = models.StepCompleted
		t.Steps[spec.index-1].Result = result
		t.Steps[spec.index-1].FinishedAt = &finished
	}); mutErr != nil {
		return mutErr
	}
	logger.StepCompleted(taskID, spec.index, spec.name, finished.Sub(started), result)
	return nil
}

func (p *Pipeline) failStep(taskID string, spec stepSpec, stepErr error) error {
	finished := time.Now()
	_ = p.registry.Mutate(taskID, func(t *models.Task) {
		t.Steps[spec.index-1].Status = models.StepFailed
		t.Steps[spec.index-1].Error = stepErr.Error()
		t.Steps[spec.index-1].FinishedAt = &finished
	})
	logger.StepFailed(taskID, spec.index, spec.name, time.Duration(0), stepErr)
	return p.fail(taskID, stepErr)
}

func (p *Pipeline) fail(taskID string, taskErr error) error {
	finished := time.Now()
	_ = p.registry.Mutate(taskID, func(t *models.Task) {
		t.Status = models.StatusFailed
		t.Error = taskErr.Error()
		t.FinishedAt = &finished
	})
	logger.TaskFailed(taskID, time.Duration(0), taskErr)
	return taskErr
}

