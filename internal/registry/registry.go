// Package registry keeps the authoritative in-memory view of every
// Task and flushes it to the taskstore journal on every mutation.
package registry

import (
	"fmt"
	"os"
	"sync"
	"time"

	"storysynth/internal/apierr"
	"storysynth/internal/models"
	"storysynth/internal/taskstore"
	"storysynth/pkg/logger"
)

// Registry is the single source of truth for task state. Every read
// returns a Clone() so callers can never mutate state behind the
// registry's back; every write takes the lock, mutates the canonical
// copy, and flushes the journal before releasing it.
type Registry struct {
	mu      sync.RWMutex
	tasks   map[string]*models.Task
	store   *taskstore.Store
	taskDir func(string) string
}

// New loads the journal from store and recovers any task left in a
// running state by a prior process that did not shut down cleanly.
// taskDir maps a task ID to its working directory, removed in full by
// Delete; it may be nil if callers never need directory cleanup (e.g.
// in tests that don't create one).
func New(store *taskstore.Store, taskDir func(string) string) (*Registry, error) {
	journal, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load task journal: %w", err)
	}

	r := &Registry{
		tasks:   journal.Tasks,
		store:   store,
		taskDir: taskDir,
	}
	r.recover()

	if err := r.flushLocked(); err != nil {
		return nil, fmt.Errorf("failed to persist recovered journal: %w", err)
	}
	return r, nil
}

// recover marks any task that was pending or processing when the
// journal was last written as failed with an "interrupted" error,
// since no scheduler is replaying in-flight work across restarts. Any
// step left running is marked failed for the same reason.
func (r *Registry) recover() {
	now := time.Now()
	for _, t := range r.tasks {
		if t.Status != models.StatusPending && t.Status != models.StatusProcessing {
			continue
		}
		recovered := 0
		for i := range t.Steps {
			if t.Steps[i].Status == models.StepRunning {
				t.Steps[i].Status = models.StepFailed
				t.Steps[i].Error = "interrupted"
				t.Steps[i].FinishedAt = &now
				recovered++
			}
		}
		t.Status = models.StatusFailed
		t.Error = "interrupted"
		t.FinishedAt = &now
		t.UpdatedAt = now
		if recovered > 0 {
			logger.Warn("Recovered interrupted task", "task_id", t.TaskID, "steps_interrupted", recovered)
		} else {
			logger.Warn("Recovered stale task left in pending state", "task_id", t.TaskID)
		}
	}
}

// Create stores a brand-new task, rejecting a duplicate ID.
func (r *Registry) Create(t *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tasks[t.TaskID]; exists {
		return apierr.New(apierr.Conflict, fmt.Sprintf("task %s already exists", t.TaskID))
	}
	r.tasks[t.TaskID] = t
	return r.flushLocked()
}

// Get returns a deep-enough copy of the task, or NotFound.
func (r *Registry) Get(taskID string) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[taskID]
	if !ok {
		return nil, apierr.New(apierr.NotFound, fmt.Sprintf("task %s not found", taskID))
	}
	return t.Clone(), nil
}

// List returns copies of every task, newest first.
func (r *Registry) List() []*models.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		out = append(out, t.Clone())
	}
	sortByCreatedDesc(out)
	return out
}

// Delete removes a task from the registry and its on-disk working
// directory, rejecting deletion while the task is still processing.
func (r *Registry) Delete(taskID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[taskID]
	if !ok {
		return apierr.New(apierr.NotFound, fmt.Sprintf("task %s not found", taskID))
	}
	if t.Status == models.StatusProcessing {
		return apierr.New(apierr.Conflict, fmt.Sprintf("task %s is still processing", taskID))
	}
	delete(r.tasks, taskID)
	if err := r.flushLocked(); err != nil {
		return err
	}

	if r.taskDir != nil {
		if err := os.RemoveAll(r.taskDir(taskID)); err != nil {
			return fmt.Errorf("failed to remove task directory for %s: %w", taskID, err)
		}
	}
	return nil
}

// Mutate applies fn to the canonical task under the write lock and
// flushes the result. fn must not retain the pointer it is given.
func (r *Registry) Mutate(taskID string, fn func(t *models.Task)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[taskID]
	if !ok {
		return apierr.New(apierr.NotFound, fmt.Sprintf("task %s not found", taskID))
	}
	fn(t)
	t.UpdatedAt = time.Now()
	return r.flushLocked()
}

func (r *Registry) flushLocked() error {
	return r.store.Save(&taskstore.Journal{Tasks: r.tasks})
}

func sortByCreatedDesc(tasks []*models.Task) {
	for i := 1; i < len(tasks); i++ {
		for j := i; j > 0 && tasks[j].CreatedAt.After(tasks[j-1].CreatedAt); j-- {
			tasks[j], tasks[j-1] = tasks[j-1], tasks[j]
		}
	}
}
