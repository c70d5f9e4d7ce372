package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// TaskRequest mirrors the server's generate request body.
type TaskRequest struct {
	Name          string `json:"name,omitempty"`
	SpeakerWAV    string `json:"speaker_wav"`
	DialogueJSON  string `json:"dialogue_json"`
	EmotionFolder string `json:"emotion_folder"`
	SourceAudio   string `json:"source_audio"`
	ScriptJSON    string `json:"script_json"`
	BGMPath       string `json:"bgm_path"`
}

func newRequest(method, path string, body any) (*http.Request, error) {
	config := GetConfig()
	if config.ServerURL == "" {
		return nil, fmt.Errorf("server URL not configured. Please run 'storyctl configure'")
	}

	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		buf = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, config.ServerURL+path, buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+config.Token)
	}
	return req, nil
}

func do(req *http.Request, out any) error {
	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach server: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(respBody))
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// SubmitTask posts a new task to the orchestrator and returns the raw
// response fields (task_id, status, created_at).
func SubmitTask(task TaskRequest) (map[string]any, error) {
	req, err := newRequest(http.MethodPost, "/api/generate", task)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := do(req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTask fetches one task's status by ID.
func GetTask(taskID string) (map[string]any, error) {
	req, err := newRequest(http.MethodGet, "/api/task/"+taskID, nil)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := do(req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTasks fetches the task list, optionally filtered by status.
func ListTasks(status string) (map[string]any, error) {
	path := "/api/tasks"
	if status != "" {
		path += "?status=" + status
	}
	req, err := newRequest(http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := do(req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteTask removes a task by ID.
func DeleteTask(taskID string) error {
	req, err := newRequest(http.MethodDelete, "/api/task/"+taskID, nil)
	if err != nil {
		return err
	}
	return do(req, nil)
}
