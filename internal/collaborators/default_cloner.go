package collaborators

import (
	"context"
	"time"

	"storysynth/internal/subprocess"
)

// SubprocessCloner is the default TTSCloner: it shells out to an
// external voice-cloning binary through the subprocess boundary rather
// than linking a model runtime into this process.
type SubprocessCloner struct {
	Bin     string
	Timeout time.Duration
}

// NewSubprocessCloner returns a SubprocessCloner invoking bin.
func NewSubprocessCloner(bin string, timeout time.Duration) *SubprocessCloner {
	return &SubprocessCloner{Bin: bin, Timeout: timeout}
}

type clonerRequest struct {
	Text       string `json:"text"`
	SpeakerWAV string `json:"speaker_wav"`
	EmotionWAV string `json:"emotion_wav"`
	OutputPath string `json:"output_path"`
}

type clonerResponse struct {
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// CloneWithEmotionAudio invokes the cloner binary once per line.
func (c *SubprocessCloner) CloneWithEmotionAudio(ctx context.Context, text, speakerWAV, emotionWAV, outputPath string) (CloneResult, error) {
	resp, err := subprocess.Invoke(ctx, subprocess.Request{
		Argv: []string{c.Bin, "clone"},
		Stdin: clonerRequest{
			Text:       text,
			SpeakerWAV: speakerWAV,
			EmotionWAV: emotionWAV,
			OutputPath: outputPath,
		},
		Timeout: c.Timeout,
	})
	if err != nil {
		return CloneResult{}, err
	}

	var out clonerResponse
	if err := subprocess.Decode(resp, &out); err != nil {
		return CloneResult{}, err
	}
	return CloneResult{Success: out.Success, Error: out.Error, DurationMs: out.DurationMs}, nil
}
