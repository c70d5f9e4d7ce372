// Package collaborators defines the SPIs each step executor delegates
// to and the default implementations that ship with the orchestrator.
// A deployment can swap any of these for a remote or vendor-specific
// implementation without touching pipeline or step-executor code.
package collaborators

import "context"

// CloneResult is what TTSCloner.CloneWithEmotionAudio reports for one
// line.
type CloneResult struct {
	Success    bool
	Error      string
	DurationMs int64
}

// TTSCloner synthesizes one dialogue line in the target speaker's
// voice, steered by an emotion reference clip. One GPU invocation.
type TTSCloner interface {
	CloneWithEmotionAudio(ctx context.Context, text, speakerWAV, emotionWAV, outputPath string) (CloneResult, error)
}

// TrimResult is what SilenceTrimmer.Trim reports for one file.
type TrimResult struct {
	TrimmedMs int64
	Untouched bool
}

// SilenceTrimmer removes leading/trailing silence from a WAV file.
type SilenceTrimmer interface {
	Trim(ctx context.Context, inputWAV, outputWAV string) (TrimResult, error)
}

// SequenceBuilder assembles the ranked-line inventory and the script's
// timeline into an ordered sequence of playable entries. dialogueJSON
// is the same dialogue record array the Clone step consumed; the
// builder uses it to recover per-candidate metadata (role, emotion
// reference, source text) for the trimmed WAVs it inventories.
type SequenceBuilder interface {
	Build(ctx context.Context, trimmedDir, dialogueJSON, scriptJSON, sourceAudio, outJSON string) (BuildResult, error)
}

// BuildResult summarizes one Build Sequence run.
type BuildResult struct {
	Slots    int
	Cloned   int
	Comped   int
	Anchored int
}

// AlignResult is what AudioAligner.Render reports.
type AlignResult struct {
	MixedEntries int
	PeakDBFS     float64
}

// AudioAligner renders a sequence plan plus BGM down to a single mixed
// WAV.
type AudioAligner interface {
	Render(ctx context.Context, sequenceJSON, bgmPath, outWAV string) (AlignResult, error)
}
