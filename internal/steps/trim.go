package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"storysynth/internal/collaborators"
	"storysynth/pkg/logger"
)

// TrimExecutor runs Step 2 — Trim Silence.
type TrimExecutor struct {
	Trimmer collaborators.SilenceTrimmer
}

// Run trims every WAV under <task_dir>/1_cloned/ into 2_trimmed/.
func (e *TrimExecutor) Run(ctx context.Context, sc StepContext) (map[string]any, error) {
	inDir := sc.path(ClonedDir)
	outDir := sc.path(TrimmedDir)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create trimmed directory: %w", err)
	}

	entries, err := os.ReadDir(inDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read cloned-line directory: %w", err)
	}

	processed, untouched, shortened := 0, 0, 0

	for _, f := range entries {
		if f.IsDir() || !strings.HasSuffix(strings.ToLower(f.Name()), ".wav") {
			continue
		}
		in := filepath.Join(inDir, f.Name())
		out := filepath.Join(outDir, f.Name())

		result, err := e.Trimmer.Trim(ctx, in, out)
		if err != nil {
			logger.Warn("Failed to trim line, skipping", "file", f.Name(), "error", err)
			continue
		}
		processed++
		if result.Untouched {
			untouched++
		} else {
			shortened++
		}
	}

	if processed == 0 {
		return nil, fmt.Errorf("trim silence processed zero files")
	}

	return map[string]any{
		"processed":        processed,
		"shortened_frames": shortened,
		"untouched":        untouched,
	}, nil
}
