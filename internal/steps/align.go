package steps

import (
	"context"
	"fmt"

	"storysynth/internal/collaborators"
)

// AlignExecutor runs Step 4 — Alignment & Mix.
type AlignExecutor struct {
	Aligner collaborators.AudioAligner
}

// Run mixes the sequence plan and BGM down to 4_final_output.wav.
func (e *AlignExecutor) Run(ctx context.Context, sc StepContext) (map[string]any, error) {
	result, err := e.Aligner.Render(ctx, sc.path(SequenceFile), sc.Inputs.BGMPath, sc.path(FinalOutputFile))
	if err != nil {
		return nil, fmt.Errorf("failed to render final mix: %w", err)
	}

	return map[string]any{
		"mixed_entries": result.MixedEntries,
		"peak_dbfs":     result.PeakDBFS,
	}, nil
}
