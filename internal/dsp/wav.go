// Package dsp implements the orchestrator's native audio operations:
// decoding/encoding WAV files and the signal-processing primitives the
// Trim Silence and Alignment/Mix steps need (RMS-based silence
// detection, resampling, gain, fades, and mixdown). All of it runs as
// pure CPU work against PCM sample buffers, with no subprocess or
// external binary involved.
package dsp

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Samples is a decoded mono or interleaved-multichannel PCM buffer
// normalized to float64 in [-1, 1], independent of the source bit
// depth.
type Samples struct {
	Data       []float64
	SampleRate int
	Channels   int
}

// DurationMs returns the buffer's length in milliseconds.
func (s *Samples) DurationMs() int64 {
	if s.SampleRate == 0 || s.Channels == 0 {
		return 0
	}
	frames := len(s.Data) / s.Channels
	return int64(frames) * 1000 / int64(s.SampleRate)
}

// Load decodes a WAV file at path into normalized float64 samples.
func Load(path string) (*Samples, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open wav %s: %w", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid wav file: %s", path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to decode wav %s: %w", path, err)
	}

	maxVal := float64(int(1) << (uint(buf.SourceBitDepth) - 1))
	if buf.SourceBitDepth == 0 {
		maxVal = 32768.0
	}

	data := make([]float64, len(buf.Data))
	for i, sample := range buf.Data {
		data[i] = float64(sample) / maxVal
	}

	return &Samples{
		Data:       data,
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
	}, nil
}

// Save encodes s as a 16-bit PCM WAV file at path.
func Save(path string, s *Samples) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create wav %s: %w", path, err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, s.SampleRate, 16, s.Channels, 1)

	intData := make([]int, len(s.Data))
	for i, v := range s.Data {
		intData[i] = int(clamp(v, -1, 1) * 32767.0)
	}

	buf := &audio.IntBuffer{
		Data: intData,
		Format: &audio.Format{
			NumChannels: s.Channels,
			SampleRate:  s.SampleRate,
		},
		SourceBitDepth: 16,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to write wav %s: %w", path, err)
	}
	return enc.Close()
}

// Slice extracts [startMs, endMs) from s, clamping to the available
// range and zero-padding with silence if endMs runs past the end.
func Slice(s *Samples, startMs, endMs int64) *Samples {
	if endMs < startMs {
		endMs = startMs
	}
	startFrame := int(startMs) * s.SampleRate / 1000
	endFrame := int(endMs) * s.SampleRate / 1000

	totalFrames := len(s.Data) / s.Channels
	out := make([]float64, (endFrame-startFrame)*s.Channels)
	for f := startFrame; f < endFrame; f++ {
		if f < 0 || f >= totalFrames {
			continue
		}
		for ch := 0; ch < s.Channels; ch++ {
			out[(f-startFrame)*s.Channels+ch] = s.Data[f*s.Channels+ch]
		}
	}
	return &Samples{Data: out, SampleRate: s.SampleRate, Channels: s.Channels}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
