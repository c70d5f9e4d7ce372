package collaborators

import (
	"context"

	"storysynth/internal/dsp"
)

// NativeTrimmer is the default SilenceTrimmer: native PCM processing,
// no subprocess involved.
type NativeTrimmer struct{}

// NewNativeTrimmer returns the default SilenceTrimmer.
func NewNativeTrimmer() *NativeTrimmer { return &NativeTrimmer{} }

// Trim loads inputWAV, trims leading/trailing silence, and writes the
// result to outputWAV.
func (NativeTrimmer) Trim(ctx context.Context, inputWAV, outputWAV string) (TrimResult, error) {
	samples, err := dsp.Load(inputWAV)
	if err != nil {
		return TrimResult{}, err
	}

	result := dsp.TrimSilence(samples)

	if err := dsp.Save(outputWAV, samples); err != nil {
		return TrimResult{}, err
	}

	return TrimResult{TrimmedMs: result.TrimmedMs, Untouched: result.Untouched}, nil
}
