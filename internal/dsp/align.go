package dsp

import "math"

const (
	bgmAttenuationDB = -12.0
	peakCeilingDBFS  = -1.0
	// TailPaddingMs is exported for use by the default AudioAligner
	// (collaborators.NativeAligner) when sizing the mix canvas.
	TailPaddingMs = 500
)

// Canvas is the mixing buffer Align assembles entries onto.
type Canvas struct {
	Data       []float64
	SampleRate int
	Channels   int
}

// NewCanvas allocates a silent buffer of the given length.
func NewCanvas(durationMs int64, sampleRate, channels int) *Canvas {
	frames := int(durationMs) * sampleRate / 1000
	return &Canvas{
		Data:       make([]float64, frames*channels),
		SampleRate: sampleRate,
		Channels:   channels,
	}
}

// MixAt resamples s to the canvas's rate if needed, applies gainDB and
// linear fade-in/fade-out, and mixes it additively starting at startMs.
func (c *Canvas) MixAt(s *Samples, startMs int64, gainDB float64, fadeInMs, fadeOutMs int64) {
	resampled := Resample(s, c.SampleRate)
	applyGain(resampled.Data, gainDB)
	applyFades(resampled, fadeInMs, fadeOutMs)

	startFrame := int(startMs) * c.SampleRate / 1000
	startSample := startFrame * c.Channels

	for i, v := range resampled.Data {
		idx := startSample + i
		if idx < 0 || idx >= len(c.Data) {
			continue
		}
		c.Data[idx] += v
	}
}

// MixBGM loops or truncates bgm to the canvas length, applies the fixed
// attenuation, and mixes it additively over the whole canvas.
func (c *Canvas) MixBGM(bgm *Samples) {
	resampled := Resample(bgm, c.SampleRate)
	applyGain(resampled.Data, bgmAttenuationDB)

	if len(resampled.Data) == 0 {
		return
	}
	for i := range c.Data {
		c.Data[i] += resampled.Data[i%len(resampled.Data)]
	}
}

// Normalize scales the canvas uniformly so its peak does not exceed
// peakCeilingDBFS, leaving it unchanged if already under the ceiling.
func (c *Canvas) Normalize() float64 {
	peak := 0.0
	for _, v := range c.Data {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		return math.Inf(-1)
	}
	peakDB := 20 * math.Log10(peak)
	if peakDB <= peakCeilingDBFS {
		return peakDB
	}

	ceilingLinear := math.Pow(10, peakCeilingDBFS/20)
	scale := ceilingLinear / peak
	for i := range c.Data {
		c.Data[i] *= scale
	}
	return peakCeilingDBFS
}

// Samples returns the canvas contents as a Samples buffer ready to
// encode.
func (c *Canvas) Samples() *Samples {
	return &Samples{Data: c.Data, SampleRate: c.SampleRate, Channels: c.Channels}
}

// Resample performs linear-interpolation resampling of s to
// targetRate. A no-op if the rates already match.
func Resample(s *Samples, targetRate int) *Samples {
	if s.SampleRate == targetRate || s.SampleRate == 0 {
		return &Samples{Data: append([]float64(nil), s.Data...), SampleRate: targetRate, Channels: s.Channels}
	}

	srcFrames := len(s.Data) / s.Channels
	ratio := float64(targetRate) / float64(s.SampleRate)
	dstFrames := int(float64(srcFrames) * ratio)

	out := make([]float64, dstFrames*s.Channels)
	for i := 0; i < dstFrames; i++ {
		srcPos := float64(i) / ratio
		srcIdx := int(srcPos)
		frac := srcPos - float64(srcIdx)

		for ch := 0; ch < s.Channels; ch++ {
			a := sampleAt(s.Data, srcIdx, ch, s.Channels, srcFrames)
			b := sampleAt(s.Data, srcIdx+1, ch, s.Channels, srcFrames)
			out[i*s.Channels+ch] = a + (b-a)*frac
		}
	}
	return &Samples{Data: out, SampleRate: targetRate, Channels: s.Channels}
}

func sampleAt(data []float64, frame, channel, channels, totalFrames int) float64 {
	if frame < 0 || frame >= totalFrames {
		return 0
	}
	return data[frame*channels+channel]
}

func applyGain(data []float64, gainDB float64) {
	if gainDB == 0 {
		return
	}
	factor := math.Pow(10, gainDB/20)
	for i := range data {
		data[i] *= factor
	}
}

func applyFades(s *Samples, fadeInMs, fadeOutMs int64) {
	frames := len(s.Data) / s.Channels
	if frames == 0 {
		return
	}

	fadeInFrames := int(fadeInMs) * s.SampleRate / 1000
	fadeOutFrames := int(fadeOutMs) * s.SampleRate / 1000

	for i := 0; i < fadeInFrames && i < frames; i++ {
		gain := float64(i) / float64(fadeInFrames)
		scaleFrame(s.Data, i, s.Channels, gain)
	}
	for i := 0; i < fadeOutFrames && i < frames; i++ {
		frame := frames - 1 - i
		gain := float64(i) / float64(fadeOutFrames)
		scaleFrame(s.Data, frame, s.Channels, gain)
	}
}

func scaleFrame(data []float64, frame, channels int, gain float64) {
	for ch := 0; ch < channels; ch++ {
		data[frame*channels+ch] *= gain
	}
}
