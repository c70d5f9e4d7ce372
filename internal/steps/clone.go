package steps

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"storysynth/internal/collaborators"
	"storysynth/internal/models"
	"storysynth/pkg/logger"
)

// CloneExecutor runs Step 1 — Voice Cloning.
type CloneExecutor struct {
	Cloner collaborators.TTSCloner
}

// Run clones every dialogue record into <task_dir>/1_cloned/.
func (e *CloneExecutor) Run(ctx context.Context, sc StepContext) (map[string]any, error) {
	records, err := loadDialogue(sc.Inputs.DialogueJSON)
	if err != nil {
		return nil, err
	}

	outDir := sc.path(ClonedDir)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cloned-line directory: %w", err)
	}

	used := make(map[string]bool, len(records))
	success, failed := 0, 0

	for i, rec := range records {
		if rec.Text == "" {
			logger.Warn("Skipping dialogue record with empty text", "sort", rec.Sort, "index", i)
			failed++
			continue
		}
		if rec.EmoAudio == "" {
			logger.Warn("Skipping dialogue record with no emotion audio", "sort", rec.Sort, "index", i)
			failed++
			continue
		}

		filename := ClonedLineFilename(rec.Sort, rec.Text)
		if used[filename] {
			filename = DisambiguateFilename(filename, i)
		}
		used[filename] = true

		outputPath := filepath.Join(outDir, filename)
		emotionPath := filepath.Join(sc.Inputs.EmotionFolder, rec.EmoAudio)

		if _, err := os.Stat(emotionPath); err != nil {
			logger.Warn("Emotion audio missing, skipping line", "sort", rec.Sort, "emotion_path", emotionPath)
			failed++
			continue
		}

		result, err := e.Cloner.CloneWithEmotionAudio(ctx, rec.Text, sc.Inputs.SpeakerWAV, emotionPath, outputPath)
		if err != nil || !result.Success {
			logger.Warn("Clone failed for line", "sort", rec.Sort, "error", errOrMessage(err, result.Error))
			failed++
			continue
		}
		success++
	}

	if success == 0 {
		return nil, fmt.Errorf("voice cloning produced zero successful lines out of %d", len(records))
	}

	return map[string]any{
		"total":   len(records),
		"success": success,
		"failed":  failed,
	}, nil
}

func errOrMessage(err error, msg string) string {
	if err != nil {
		return err.Error()
	}
	return msg
}

func loadDialogue(path string) ([]models.DialogueRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dialogue json: %w", err)
	}
	var records []models.DialogueRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse dialogue json: %w", err)
	}
	return records, nil
}
