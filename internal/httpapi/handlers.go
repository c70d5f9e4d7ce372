package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storysynth/internal/apierr"
	"storysynth/internal/models"
	"storysynth/internal/registry"
	"storysynth/internal/validate"
)

// Scheduler is the subset of scheduler.Scheduler the handlers need.
type Scheduler interface {
	Submit(taskID string) error
}

// Handler wires the task API to the registry, scheduler, and input
// validator.
type Handler struct {
	registry  *registry.Registry
	scheduler Scheduler
	validator *validate.Validator
}

// NewHandler builds a Handler.
func NewHandler(reg *registry.Registry, sched Scheduler, v *validate.Validator) *Handler {
	return &Handler{registry: reg, scheduler: sched, validator: v}
}

// HealthCheck godoc
// @Summary Health check
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type generateRequest struct {
	Name          string `json:"name"`
	SpeakerWAV    string `json:"speaker_wav" binding:"required"`
	DialogueJSON  string `json:"dialogue_json" binding:"required"`
	EmotionFolder string `json:"emotion_folder" binding:"required"`
	SourceAudio   string `json:"source_audio" binding:"required"`
	ScriptJSON    string `json:"script_json" binding:"required"`
	BGMPath       string `json:"bgm_path" binding:"required"`
}

// Generate godoc
// @Summary Submit a new audio story synthesis task
// @Accept json
// @Produce json
// @Param request body generateRequest true "task inputs"
// @Success 202 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /api/generate [post]
func (h *Handler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, apierr.Wrap(apierr.InvalidInput, "invalid request body", err))
		return
	}

	if err := h.validator.DialogueJSON(req.DialogueJSON); err != nil {
		respondErr(c, err)
		return
	}
	if err := h.validator.ScriptJSON(req.ScriptJSON); err != nil {
		respondErr(c, err)
		return
	}

	inputs := models.TaskInputs{
		SpeakerWAV:    req.SpeakerWAV,
		DialogueJSON:  req.DialogueJSON,
		EmotionFolder: req.EmotionFolder,
		SourceAudio:   req.SourceAudio,
		ScriptJSON:    req.ScriptJSON,
		BGMPath:       req.BGMPath,
	}

	taskID := uuid.NewString()
	task := models.NewTask(taskID, req.Name, inputs, time.Now())

	if err := h.registry.Create(task); err != nil {
		respondErr(c, err)
		return
	}

	if err := h.scheduler.Submit(taskID); err != nil {
		_ = h.registry.Mutate(taskID, func(t *models.Task) {
			t.Status = models.StatusFailed
			t.Error = err.Error()
		})
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"task_id":    task.TaskID,
		"status":     task.Status,
		"created_at": task.CreatedAt,
	})
}

// GetTask godoc
// @Summary Get a task by ID
// @Param id path string true "task id"
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]string
// @Router /api/task/{id} [get]
func (h *Handler) GetTask(c *gin.Context) {
	task, err := h.registry.Get(c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, taskView(task))
}

// ListTasks godoc
// @Summary List tasks
// @Param status query string false "filter by status"
// @Param limit query int false "max results"
// @Success 200 {object} map[string]any
// @Router /api/tasks [get]
func (h *Handler) ListTasks(c *gin.Context) {
	tasks := h.registry.List()

	if status := c.Query("status"); status != "" {
		filtered := tasks[:0]
		for _, t := range tasks {
			if string(t.Status) == status {
				filtered = append(filtered, t)
			}
		}
		tasks = filtered
	}

	total := len(tasks)
	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit >= 0 && limit < len(tasks) {
			tasks = tasks[:limit]
		}
	}

	views := make([]gin.H, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, taskView(t))
	}

	c.JSON(http.StatusOK, gin.H{"tasks": views, "total": total})
}

// DeleteTask godoc
// @Summary Delete a task
// @Param id path string true "task id"
// @Success 204
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/task/{id} [delete]
func (h *Handler) DeleteTask(c *gin.Context) {
	if err := h.registry.Delete(c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func taskView(t *models.Task) gin.H {
	progress := 0
	if t.TotalSteps > 0 {
		progress = t.CurrentStep * 100 / t.TotalSteps
	}
	view := gin.H{
		"task_id":      t.TaskID,
		"status":       t.Status,
		"progress":     progress,
		"current_step": t.CurrentStep,
		"total_steps":  t.TotalSteps,
		"steps":        t.Steps,
		"created_at":   t.CreatedAt,
		"updated_at":   t.UpdatedAt,
	}
	if t.OutputPath != "" {
		view["output_wav"] = t.OutputPath
	}
	if t.Error != "" {
		view["error"] = t.Error
	}
	return view
}

func respondErr(c *gin.Context, err error) {
	status := statusFor(apierr.KindOf(err))
	body := gin.H{"error": err.Error()}
	if status == http.StatusServiceUnavailable {
		c.Header("Retry-After", "5")
	}
	c.JSON(status, body)
}

func statusFor(kind apierr.Kind) int {
	switch kind {
	case apierr.InvalidInput:
		return http.StatusBadRequest
	case apierr.NotFound:
		return http.StatusNotFound
	case apierr.Conflict:
		return http.StatusConflict
	case apierr.QueueFull:
		return http.StatusServiceUnavailable
	case apierr.StepFailure, apierr.Interrupted:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
