// Package models defines the data shapes shared by the registry, the
// pipeline, and the HTTP surface.
package models

import "time"

// TaskStatus is the lifecycle state of a Task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusProcessing TaskStatus = "processing"
	StatusCompleted  TaskStatus = "completed"
	StatusFailed     TaskStatus = "failed"
)

// StepStatus is the lifecycle state of a single StepRecord.
type StepStatus string

const (
	StepPending   StepStatus = "pending"
	StepRunning   StepStatus = "running"
	StepCompleted StepStatus = "completed"
	StepFailed    StepStatus = "failed"
	StepSkipped   StepStatus = "skipped"
)

// TotalSteps is fixed at four: Clone, Trim, Sequence, Align.
const TotalSteps = 4

// Step indices, 1-based per spec.
const (
	StepClone = iota + 1
	StepTrim
	StepSequence
	StepAlign
)

// StepNames gives the human label for each 1-based step index.
var StepNames = map[int]string{
	StepClone:    "Voice Cloning",
	StepTrim:     "Trim Silence",
	StepSequence: "Build Sequence",
	StepAlign:    "Alignment",
}

// TaskInputs is the frozen snapshot of the six inputs a task was
// submitted with. It never changes after Task creation.
type TaskInputs struct {
	SpeakerWAV    string `json:"speaker_wav"`
	DialogueJSON  string `json:"dialogue_json"`
	EmotionFolder string `json:"emotion_folder"`
	SourceAudio   string `json:"source_audio"`
	ScriptJSON    string `json:"script_json"`
	BGMPath       string `json:"bgm_path"`
}

// StepRecord tracks the lifecycle of one of the four pipeline steps.
type StepRecord struct {
	StepNumber int            `json:"step_number"`
	StepName   string         `json:"step_name"`
	Status     StepStatus     `json:"status"`
	Result     map[string]any `json:"result,omitempty"`
	Error      string         `json:"error,omitempty"`
	StartedAt  *time.Time     `json:"started_at,omitempty"`
	FinishedAt *time.Time     `json:"finished_at,omitempty"`
}

// Task is the unit of work tracked by the registry.
type Task struct {
	TaskID          string       `json:"task_id"`
	Name            string       `json:"name,omitempty"`
	Inputs          TaskInputs   `json:"inputs"`
	Status          TaskStatus   `json:"status"`
	CurrentStep     int          `json:"current_step"`
	TotalSteps      int          `json:"total_steps"`
	ProgressMessage string       `json:"progress_message,omitempty"`
	Steps           []StepRecord `json:"steps"`
	OutputPath      string       `json:"output_path,omitempty"`
	Error           string       `json:"error,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
	StartedAt       *time.Time   `json:"started_at,omitempty"`
	FinishedAt      *time.Time   `json:"finished_at,omitempty"`
}

// NewTask builds a fresh pending Task with four pending steps.
func NewTask(taskID, name string, inputs TaskInputs, now time.Time) *Task {
	steps := make([]StepRecord, TotalSteps)
	for i := 0; i < TotalSteps; i++ {
		steps[i] = StepRecord{
			StepNumber: i + 1,
			StepName:   StepNames[i+1],
			Status:     StepPending,
		}
	}
	return &Task{
		TaskID:      taskID,
		Name:        name,
		Inputs:      inputs,
		Status:      StatusPending,
		CurrentStep: 0,
		TotalSteps:  TotalSteps,
		Steps:       steps,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Clone returns a deep-enough copy safe to hand to a reader outside the
// registry's lock (StepRecord.Result maps are copied by reference since
// callers treat them as read-only after a step completes).
func (t *Task) Clone() *Task {
	cp := *t
	cp.Steps = make([]StepRecord, len(t.Steps))
	copy(cp.Steps, t.Steps)
	return &cp
}
