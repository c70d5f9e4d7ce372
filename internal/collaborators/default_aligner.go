package collaborators

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"storysynth/internal/dsp"
	"storysynth/internal/models"
	"storysynth/pkg/logger"
)

// NativeAligner is the default AudioAligner: native PCM mixing, no
// subprocess involved.
type NativeAligner struct{}

// NewNativeAligner returns the default AudioAligner.
func NewNativeAligner() *NativeAligner { return &NativeAligner{} }

// Render implements AudioAligner.
func (NativeAligner) Render(ctx context.Context, sequenceJSON, bgmPath, outWAV string) (AlignResult, error) {
	data, err := os.ReadFile(sequenceJSON)
	if err != nil {
		return AlignResult{}, fmt.Errorf("failed to read sequence json: %w", err)
	}
	var entries []models.SequenceEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return AlignResult{}, fmt.Errorf("failed to parse sequence json: %w", err)
	}

	bgm, err := dsp.Load(bgmPath)
	if err != nil {
		return AlignResult{}, fmt.Errorf("failed to load bgm: %w", err)
	}

	var canvasMs int64
	for _, e := range entries {
		if e.EndMs > canvasMs {
			canvasMs = e.EndMs
		}
	}
	canvasMs += dsp.TailPaddingMs

	canvas := dsp.NewCanvas(canvasMs, bgm.SampleRate, bgm.Channels)

	mixed := 0
	for _, e := range entries {
		if e.SourcePath == "" {
			continue
		}
		samples, err := dsp.Load(e.SourcePath)
		if err != nil {
			// missing source file: skip the entry with a warning, per collaborator contract
			logger.Warn("Skipping sequence entry with unreadable source", "source_path", e.SourcePath, "error", err)
			continue
		}
		canvas.MixAt(samples, e.StartMs, e.GainDB, e.FadeInMs, e.FadeOutMs)
		mixed++
	}
	if mixed == 0 {
		return AlignResult{}, fmt.Errorf("no sequence entries were successfully mixed")
	}

	canvas.MixBGM(bgm)
	peakDBFS := canvas.Normalize()

	if err := dsp.Save(outWAV, canvas.Samples()); err != nil {
		return AlignResult{}, fmt.Errorf("failed to write final mix: %w", err)
	}

	return AlignResult{MixedEntries: mixed, PeakDBFS: peakDBFS}, nil
}
