package steps

import (
	"context"
	"fmt"

	"storysynth/internal/collaborators"
)

// SequenceExecutor runs Step 3 — Build Sequence.
type SequenceExecutor struct {
	Builder collaborators.SequenceBuilder
}

// Run assembles the ranked-line inventory and the script timeline into
// 3_sequence.json.
func (e *SequenceExecutor) Run(ctx context.Context, sc StepContext) (map[string]any, error) {
	result, err := e.Builder.Build(ctx, sc.path(TrimmedDir), sc.Inputs.DialogueJSON, sc.Inputs.ScriptJSON, sc.Inputs.SourceAudio, sc.path(SequenceFile))
	if err != nil {
		return nil, fmt.Errorf("failed to build sequence: %w", err)
	}

	return map[string]any{
		"slots":    result.Slots,
		"cloned":   result.Cloned,
		"comped":   result.Comped,
		"anchored": result.Anchored,
	}, nil
}
